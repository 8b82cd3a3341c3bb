package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/Piladin/ZTPAI/internal/core/domain"
	"github.com/Piladin/ZTPAI/internal/core/ports"
)

type stubUserRepo struct {
	users  map[int64]*domain.User
	nextID int64
	// announcements lets Delete cascade in tests that wire both stubs.
	announcements *stubAnnouncementRepo
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[int64]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) taken(u *domain.User) bool {
	for _, existing := range r.users {
		if existing.ID == u.ID {
			continue
		}
		if existing.Username == u.Username || existing.Email == u.Email {
			return true
		}
	}
	return false
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if r.taken(user) {
		return nil, domain.ErrUserExists
	}
	r.nextID++
	stored := cloneUser(user)
	stored.ID = r.nextID
	r.users[stored.ID] = stored
	return cloneUser(stored), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByIDs(_ context.Context, ids []int64) (map[int64]*domain.User, error) {
	out := make(map[int64]*domain.User, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out[id] = cloneUser(u)
		}
	}
	return out, nil
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, ok := r.users[user.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	if r.taken(user) {
		return nil, domain.ErrUserExists
	}
	r.users[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	if r.announcements != nil {
		for aid, a := range r.announcements.items {
			if a.AuthorID == id {
				delete(r.announcements.items, aid)
			}
		}
	}
	return nil
}

type stubAnnouncementRepo struct {
	items  map[int64]*domain.Announcement
	nextID int64
}

func newStubAnnouncementRepo() *stubAnnouncementRepo {
	return &stubAnnouncementRepo{items: make(map[int64]*domain.Announcement)}
}

func cloneAnnouncement(a *domain.Announcement) *domain.Announcement {
	clone := *a
	clone.Author = nil
	return &clone
}

func (r *stubAnnouncementRepo) sorted() []*domain.Announcement {
	out := make([]*domain.Announcement, 0, len(r.items))
	for _, a := range r.items {
		out = append(out, cloneAnnouncement(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (r *stubAnnouncementRepo) Create(_ context.Context, a *domain.Announcement) (*domain.Announcement, error) {
	r.nextID++
	stored := cloneAnnouncement(a)
	stored.ID = r.nextID
	r.items[stored.ID] = stored
	return cloneAnnouncement(stored), nil
}

func (r *stubAnnouncementRepo) FindByID(_ context.Context, id int64) (*domain.Announcement, error) {
	a, ok := r.items[id]
	if !ok {
		return nil, domain.ErrAnnouncementNotFound
	}
	return cloneAnnouncement(a), nil
}

func (r *stubAnnouncementRepo) List(_ context.Context, offset, limit int) ([]*domain.Announcement, int64, error) {
	all := r.sorted()
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *stubAnnouncementRepo) Search(_ context.Context, f ports.AnnouncementFilter) ([]*domain.Announcement, error) {
	var out []*domain.Announcement
	for _, a := range r.sorted() {
		if f.Subject != "" && !strings.Contains(strings.ToLower(a.Subject), strings.ToLower(f.Subject)) {
			continue
		}
		if f.MinRate != nil && a.HourlyRate < *f.MinRate {
			continue
		}
		if f.MaxRate != nil && a.HourlyRate > *f.MaxRate {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *stubAnnouncementRepo) Update(_ context.Context, a *domain.Announcement) (*domain.Announcement, error) {
	if _, ok := r.items[a.ID]; !ok {
		return nil, domain.ErrAnnouncementNotFound
	}
	r.items[a.ID] = cloneAnnouncement(a)
	return cloneAnnouncement(a), nil
}

func (r *stubAnnouncementRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.items[id]; !ok {
		return domain.ErrAnnouncementNotFound
	}
	delete(r.items, id)
	return nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []ports.Notification
}

func (n *recordingNotifier) Enqueue(msg ports.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
}
