package ports

import (
	"context"

	"github.com/Piladin/ZTPAI/internal/core/domain"
)

// RegisterInput carries a registration request after shape validation.
type RegisterInput struct {
	Username    string
	Email       string
	Password    string
	FirstName   string
	LastName    string
	PhoneNumber string
}

// TokenPair is an access token plus the refresh token that can renew it.
type TokenPair struct {
	Access  string
	Refresh string
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Tokens TokenPair
	UserID int64
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	// CreateAdministrator registers an account with the administrator role
	// and sends no welcome notification.
	CreateAdministrator(ctx context.Context, in RegisterInput) (*domain.User, error)
	// Login accepts a username or an email as identifier. Bad credentials are
	// a validation failure.
	Login(ctx context.Context, identifier, password string) (*LoginResult, error)
	// Refresh exchanges a refresh token for a new access token.
	Refresh(ctx context.Context, refreshToken string) (string, error)
	// Authenticate resolves an access token to the calling actor.
	Authenticate(ctx context.Context, accessToken string) (*domain.Actor, error)
}

// TokenIssuer issues and verifies signed session tokens.
type TokenIssuer interface {
	IssuePair(user *domain.User) (TokenPair, error)
	IssueAccess(userID int64) (string, error)
	// ParseAccess and ParseRefresh return the user ID bound to the token, or
	// domain.ErrInvalidToken.
	ParseAccess(token string) (int64, error)
	ParseRefresh(token string) (int64, error)
}
