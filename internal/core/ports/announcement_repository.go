package ports

import (
	"context"

	"github.com/Piladin/ZTPAI/internal/core/domain"
)

// AnnouncementFilter carries the optional search constraints. Nil fields impose
// no constraint; set fields compose with AND.
type AnnouncementFilter struct {
	Subject string       // case-insensitive substring of the subject
	MinRate *domain.Rate // inclusive
	MaxRate *domain.Rate // inclusive
}

// AnnouncementRepository is the resource store. Results are ordered most
// recent first. Returned announcements carry AuthorID only.
type AnnouncementRepository interface {
	Create(ctx context.Context, a *domain.Announcement) (*domain.Announcement, error)
	// FindByID returns domain.ErrAnnouncementNotFound when absent.
	FindByID(ctx context.Context, id int64) (*domain.Announcement, error)
	// List returns one window of the full listing and the total count.
	List(ctx context.Context, offset, limit int) ([]*domain.Announcement, int64, error)
	Search(ctx context.Context, filter AnnouncementFilter) ([]*domain.Announcement, error)
	Update(ctx context.Context, a *domain.Announcement) (*domain.Announcement, error)
	// Delete returns domain.ErrAnnouncementNotFound when absent.
	Delete(ctx context.Context, id int64) error
}
