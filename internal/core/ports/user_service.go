package ports

import (
	"context"

	"github.com/Piladin/ZTPAI/internal/core/domain"
)

// UpdateUserInput is a partial profile update: nil fields are left unchanged.
type UpdateUserInput struct {
	Username    *string
	Email       *string
	Password    *string
	FirstName   *string
	LastName    *string
	PhoneNumber *string
}

type UserService interface {
	Me(ctx context.Context, actor *domain.Actor) (*domain.User, error)
	UpdateMe(ctx context.Context, actor *domain.Actor, in UpdateUserInput) (*domain.User, error)
	List(ctx context.Context, actor *domain.Actor) ([]*domain.User, error)
	Delete(ctx context.Context, actor *domain.Actor, id int64) error
}
