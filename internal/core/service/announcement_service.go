package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/Piladin/ZTPAI/internal/core/domain"
	"github.com/Piladin/ZTPAI/internal/core/ports"
)

const DefaultPageSize = 10

type AnnouncementService struct {
	repo     ports.AnnouncementRepository
	users    ports.UserRepository
	pageSize int
	logger   zerolog.Logger
}

var _ ports.AnnouncementService = (*AnnouncementService)(nil)

func NewAnnouncementService(repo ports.AnnouncementRepository, users ports.UserRepository, pageSize int, logger zerolog.Logger) *AnnouncementService {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &AnnouncementService{repo: repo, users: users, pageSize: pageSize, logger: logger}
}

// List returns the 1-based page of the public listing, most recent first.
func (s *AnnouncementService) List(ctx context.Context, page int) (*ports.AnnouncementPage, error) {
	if page < 1 {
		return nil, domain.NewValidation("Invalid page.")
	}
	// No store holds enough items to reach an offset past MaxInt.
	if page-1 > math.MaxInt/s.pageSize {
		return nil, domain.NewAnnouncementNotFound("Invalid page.")
	}

	items, total, err := s.repo.List(ctx, (page-1)*s.pageSize, s.pageSize)
	if err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}
	if page > 1 && len(items) == 0 {
		return nil, domain.NewAnnouncementNotFound("Invalid page.")
	}
	if err := s.attachAuthors(ctx, items...); err != nil {
		return nil, err
	}

	return &ports.AnnouncementPage{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: s.pageSize,
	}, nil
}

func (s *AnnouncementService) Get(ctx context.Context, id int64) (*domain.Announcement, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.attachAuthors(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AnnouncementService) Search(ctx context.Context, filter ports.AnnouncementFilter) ([]*domain.Announcement, error) {
	items, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("search announcements: %w", err)
	}
	if err := s.attachAuthors(ctx, items...); err != nil {
		return nil, err
	}
	return items, nil
}

// Create stores a new announcement authored by actor. Any author supplied by
// the client never reaches this layer.
func (s *AnnouncementService) Create(ctx context.Context, actor *domain.Actor, in ports.CreateAnnouncementInput) (*domain.Announcement, error) {
	if actor == nil {
		return nil, domain.ErrUnauthorized
	}
	author, err := s.users.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &domain.Announcement{
		Subject:    in.Subject,
		Content:    in.Content,
		HourlyRate: in.HourlyRate,
		AuthorID:   author.ID,
		DateAdded:  time.Now().UTC(),
	})
	if err != nil {
		s.logger.Error().Err(err).Int64("author_id", author.ID).Msg("failed to create announcement")
		return nil, fmt.Errorf("create announcement: %w", err)
	}
	created.Author = author

	s.logger.Info().Int64("announcement_id", created.ID).Int64("author_id", author.ID).Msg("announcement created")
	return created, nil
}

// Update applies a partial update. Absence is reported before ownership so a
// missing id is a 404 for every caller.
func (s *AnnouncementService) Update(ctx context.Context, actor *domain.Actor, id int64, in ports.UpdateAnnouncementInput) (*domain.Announcement, error) {
	a, err := s.authorize(ctx, actor, domain.ActionWrite, id)
	if err != nil {
		return nil, err
	}

	if in.Subject != nil {
		a.Subject = *in.Subject
	}
	if in.Content != nil {
		a.Content = *in.Content
	}
	if in.HourlyRate != nil {
		a.HourlyRate = *in.HourlyRate
	}

	updated, err := s.repo.Update(ctx, a)
	if err != nil {
		return nil, err
	}
	if err := s.attachAuthors(ctx, updated); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("announcement_id", id).Int64("actor_id", actor.ID).Msg("announcement updated")
	return updated, nil
}

// Authorize reports whether actor may perform action on announcement id. A
// missing announcement is reported before the policy is consulted.
func (s *AnnouncementService) Authorize(ctx context.Context, actor *domain.Actor, action domain.Action, id int64) error {
	_, err := s.authorize(ctx, actor, action, id)
	return err
}

func (s *AnnouncementService) Delete(ctx context.Context, actor *domain.Actor, id int64) error {
	if _, err := s.authorize(ctx, actor, domain.ActionDelete, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int64("announcement_id", id).Int64("actor_id", actor.ID).Msg("announcement deleted")
	return nil
}

func (s *AnnouncementService) authorize(ctx context.Context, actor *domain.Actor, action domain.Action, id int64) (*domain.Announcement, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if domain.Decide(actor, action, a) == domain.Deny {
		s.logger.Debug().
			Str("action", string(action)).
			Int64("announcement_id", id).
			Msg("access denied")
		return nil, domain.ErrUnauthorized
	}
	return a, nil
}

// attachAuthors resolves the author of every announcement with one store call.
func (s *AnnouncementService) attachAuthors(ctx context.Context, items ...*domain.Announcement) error {
	if len(items) == 0 {
		return nil
	}

	seen := make(map[int64]struct{}, len(items))
	ids := make([]int64, 0, len(items))
	for _, a := range items {
		if _, ok := seen[a.AuthorID]; ok {
			continue
		}
		seen[a.AuthorID] = struct{}{}
		ids = append(ids, a.AuthorID)
	}

	authors, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("resolve authors: %w", err)
	}
	for _, a := range items {
		a.Author = authors[a.AuthorID]
	}
	return nil
}
