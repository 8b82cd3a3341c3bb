// Package memory is a process-local store used for development and tests. It
// implements the same repository ports as the MongoDB adapter.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/Piladin/ZTPAI/internal/core/domain"
	"github.com/Piladin/ZTPAI/internal/core/ports"
)

// Store holds users and announcements behind one lock so that deleting a user
// and its announcements is a single step.
type Store struct {
	mu            sync.RWMutex
	users         map[int64]domain.User
	announcements map[int64]domain.Announcement
	userSeq       int64
	annSeq        int64
}

func NewStore() *Store {
	return &Store{
		users:         make(map[int64]domain.User),
		announcements: make(map[int64]domain.Announcement),
	}
}

func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }

func (s *Store) Announcements() *AnnouncementRepository { return &AnnouncementRepository{s: s} }

// Ping always succeeds. It lets the store back the readiness check.
func (s *Store) Ping(context.Context) error { return nil }

type UserRepository struct{ s *Store }

var _ ports.UserRepository = (*UserRepository)(nil)

// conflict reports whether another account already holds u's username or email.
func (s *Store) conflict(u *domain.User) bool {
	for id, existing := range s.users {
		if id == u.ID {
			continue
		}
		if existing.Username == u.Username || strings.EqualFold(existing.Email, u.Email) {
			return true
		}
	}
	return false
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u := *user
	u.ID = 0
	if r.s.conflict(&u) {
		return nil, domain.ErrUserExists
	}
	r.s.userSeq++
	u.ID = r.s.userSeq
	r.s.users[u.ID] = u
	return &u, nil
}

func (r *UserRepository) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	return r.findBy(func(u *domain.User) bool { return u.Username == username })
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.findBy(func(u *domain.User) bool { return strings.EqualFold(u.Email, email) })
}

func (r *UserRepository) findBy(match func(*domain.User) bool) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if match(&u) {
			found := u
			return &found, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepository) FindByIDs(_ context.Context, ids []int64) (map[int64]*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make(map[int64]*domain.User, len(ids))
	for _, id := range ids {
		if u, ok := r.s.users[id]; ok {
			out[id] = &u
		}
	}
	return out, nil
}

func (r *UserRepository) List(_ context.Context) ([]*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		u := u
		out = append(out, &u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *UserRepository) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[user.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	if r.s.conflict(user) {
		return nil, domain.ErrUserExists
	}
	u := *user
	r.s.users[u.ID] = u
	return &u, nil
}

func (r *UserRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.s.users, id)
	for aid, a := range r.s.announcements {
		if a.AuthorID == id {
			delete(r.s.announcements, aid)
		}
	}
	return nil
}

type AnnouncementRepository struct{ s *Store }

var _ ports.AnnouncementRepository = (*AnnouncementRepository)(nil)

func (r *AnnouncementRepository) Create(_ context.Context, a *domain.Announcement) (*domain.Announcement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored := *a
	stored.Author = nil
	r.s.annSeq++
	stored.ID = r.s.annSeq
	r.s.announcements[stored.ID] = stored
	return &stored, nil
}

func (r *AnnouncementRepository) FindByID(_ context.Context, id int64) (*domain.Announcement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.announcements[id]
	if !ok {
		return nil, domain.ErrAnnouncementNotFound
	}
	return &a, nil
}

func (r *AnnouncementRepository) List(_ context.Context, offset, limit int) ([]*domain.Announcement, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if offset < 0 {
		return nil, 0, fmt.Errorf("list announcements: negative offset %d", offset)
	}

	all := r.ordered(nil)
	total := int64(len(all))
	if offset >= len(all) {
		return []*domain.Announcement{}, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *AnnouncementRepository) Search(_ context.Context, f ports.AnnouncementFilter) ([]*domain.Announcement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	needle := strings.ToLower(f.Subject)
	return r.ordered(func(a *domain.Announcement) bool {
		if needle != "" && !strings.Contains(strings.ToLower(a.Subject), needle) {
			return false
		}
		if f.MinRate != nil && a.HourlyRate < *f.MinRate {
			return false
		}
		if f.MaxRate != nil && a.HourlyRate > *f.MaxRate {
			return false
		}
		return true
	}), nil
}

// ordered returns copies of the matching announcements, most recent first.
// Callers must hold the lock.
func (r *AnnouncementRepository) ordered(keep func(*domain.Announcement) bool) []*domain.Announcement {
	out := make([]*domain.Announcement, 0, len(r.s.announcements))
	for _, a := range r.s.announcements {
		a := a
		if keep != nil && !keep(&a) {
			continue
		}
		out = append(out, &a)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DateAdded.Equal(out[j].DateAdded) {
			return out[i].DateAdded.After(out[j].DateAdded)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (r *AnnouncementRepository) Update(_ context.Context, a *domain.Announcement) (*domain.Announcement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.announcements[a.ID]
	if !ok {
		return nil, domain.ErrAnnouncementNotFound
	}
	stored := *a
	stored.Author = nil
	stored.AuthorID = existing.AuthorID
	stored.DateAdded = existing.DateAdded
	r.s.announcements[stored.ID] = stored
	return &stored, nil
}

func (r *AnnouncementRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.announcements[id]; !ok {
		return domain.ErrAnnouncementNotFound
	}
	delete(r.s.announcements, id)
	return nil
}
