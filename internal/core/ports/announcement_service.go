package ports

import (
	"context"

	"github.com/Piladin/ZTPAI/internal/core/domain"
)

type CreateAnnouncementInput struct {
	Subject    string
	Content    string
	HourlyRate domain.Rate
}

// UpdateAnnouncementInput is a partial update: nil fields are left unchanged.
type UpdateAnnouncementInput struct {
	Subject    *string
	Content    *string
	HourlyRate *domain.Rate
}

// AnnouncementPage is one page of the public listing.
type AnnouncementPage struct {
	Items    []*domain.Announcement
	Total    int64
	Page     int
	PageSize int
}

// HasNext reports whether a page follows this one.
func (p *AnnouncementPage) HasNext() bool {
	return int64(p.Page*p.PageSize) < p.Total
}

// AnnouncementService implements the announcement operations. Every method
// that touches an existing announcement takes the calling actor explicitly.
type AnnouncementService interface {
	List(ctx context.Context, page int) (*AnnouncementPage, error)
	Get(ctx context.Context, id int64) (*domain.Announcement, error)
	Search(ctx context.Context, filter AnnouncementFilter) ([]*domain.Announcement, error)
	Create(ctx context.Context, actor *domain.Actor, in CreateAnnouncementInput) (*domain.Announcement, error)
	// Authorize checks existence and then the access policy, so callers can
	// reject a request before looking at its body.
	Authorize(ctx context.Context, actor *domain.Actor, action domain.Action, id int64) error
	Update(ctx context.Context, actor *domain.Actor, id int64, in UpdateAnnouncementInput) (*domain.Announcement, error)
	Delete(ctx context.Context, actor *domain.Actor, id int64) error
}
