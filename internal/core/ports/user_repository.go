package ports

import (
	"context"

	"github.com/Piladin/ZTPAI/internal/core/domain"
)

// UserRepository is the credential store.
type UserRepository interface {
	// Create assigns an ID and persists the user. Returns domain.ErrUserExists
	// when the username or email is already taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// FindByID, FindByUsername and FindByEmail return domain.ErrUserNotFound
	// when no account matches.
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByIDs returns the accounts that exist among ids, keyed by ID.
	FindByIDs(ctx context.Context, ids []int64) (map[int64]*domain.User, error)
	// List returns every account ordered by ID.
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	// Delete removes the account and every announcement it authored.
	Delete(ctx context.Context, id int64) error
}
