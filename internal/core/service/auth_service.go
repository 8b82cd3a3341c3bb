package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/Piladin/ZTPAI/internal/core/domain"
	"github.com/Piladin/ZTPAI/internal/core/ports"
)

const (
	msgInvalidLogin  = "No active account found with the given credentials"
	msgUsernameTaken = "A user with that username already exists."
	msgEmailTaken    = "Email already exists"
	msgRequired      = "This field is required."
)

// AuthService implements registration, login and token resolution.
type AuthService struct {
	users    ports.UserRepository
	tokens   ports.TokenIssuer
	notifier ports.Notifier
	log      zerolog.Logger
	hashCost int
}

var _ ports.AuthService = (*AuthService)(nil)

func NewAuthService(users ports.UserRepository, tokens ports.TokenIssuer, notifier ports.Notifier, log zerolog.Logger) *AuthService {
	if notifier == nil {
		notifier = discardNotifier{}
	}
	return &AuthService{
		users:    users,
		tokens:   tokens,
		notifier: notifier,
		log:      log,
		hashCost: bcrypt.DefaultCost,
	}
}

// SetHashCost overrides the bcrypt cost. Tests lower it to bcrypt.MinCost.
func (s *AuthService) SetHashCost(cost int) {
	s.hashCost = cost
}

// Register creates a standard account and queues the welcome notification.
// The notification outcome never affects the result.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	user, err := s.create(ctx, in, domain.RoleStandard)
	if err != nil {
		return nil, err
	}

	s.notifier.Enqueue(welcomeNotification(user))
	s.log.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	return user, nil
}

func (s *AuthService) CreateAdministrator(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	user, err := s.create(ctx, in, domain.RoleAdministrator)
	if err != nil {
		return nil, err
	}
	s.log.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("administrator created")
	return user, nil
}

func (s *AuthService) create(ctx context.Context, in ports.RegisterInput, role domain.Role) (*domain.User, error) {
	fe := domain.FieldErrors{}
	if err := checkUnique(ctx, s.users, fe, in.Username, in.Email, 0); err != nil {
		return nil, err
	}
	if err := fe.Err(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.users.Create(ctx, &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PhoneNumber:  in.PhoneNumber,
		Role:         role,
		DateJoined:   time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			// Lost a race with a concurrent registration.
			return nil, domain.NewValidation("A user with that username or email already exists.")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

func (s *AuthService) Login(ctx context.Context, identifier, password string) (*ports.LoginResult, error) {
	fe := domain.FieldErrors{}
	if strings.TrimSpace(identifier) == "" {
		fe.Add("username", msgRequired)
	}
	if password == "" {
		fe.Add("password", msgRequired)
	}
	if err := fe.Err(); err != nil {
		return nil, err
	}

	user, err := s.lookup(ctx, identifier)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.NewValidation(msgInvalidLogin)
		}
		return nil, fmt.Errorf("login lookup: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.NewValidation(msgInvalidLogin)
	}

	pair, err := s.tokens.IssuePair(user)
	if err != nil {
		return nil, err
	}
	return &ports.LoginResult{Tokens: pair, UserID: user.ID}, nil
}

// lookup finds an account by username, falling back to email.
func (s *AuthService) lookup(ctx context.Context, identifier string) (*domain.User, error) {
	user, err := s.users.FindByUsername(ctx, identifier)
	if err == nil || !errors.Is(err, domain.ErrUserNotFound) || !strings.Contains(identifier, "@") {
		return user, err
	}
	return s.users.FindByEmail(ctx, identifier)
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	userID, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return "", err
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrInvalidToken
		}
		return "", err
	}
	return s.tokens.IssueAccess(userID)
}

// Authenticate reloads the account on every call so role changes and deleted
// accounts take effect before the token expires.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*domain.Actor, error) {
	userID, err := s.tokens.ParseAccess(accessToken)
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}
	return user.Actor(), nil
}

func welcomeNotification(u *domain.User) ports.Notification {
	name := u.FirstName
	if name == "" {
		name = u.Username
	}
	return ports.Notification{
		Address: u.Email,
		Subject: "Welcome",
		Message: fmt.Sprintf("Hi %s, your account %q is ready. Start browsing tutoring offers or post your own.", name, u.Username),
	}
}

// checkUnique records a field error for every identifier already held by an
// account other than selfID. Empty identifiers are skipped.
func checkUnique(ctx context.Context, users ports.UserRepository, fe domain.FieldErrors, username, email string, selfID int64) error {
	if username != "" {
		u, err := users.FindByUsername(ctx, username)
		switch {
		case err == nil:
			if u.ID != selfID {
				fe.Add("username", msgUsernameTaken)
			}
		case !errors.Is(err, domain.ErrUserNotFound):
			return fmt.Errorf("check username: %w", err)
		}
	}
	if email != "" {
		u, err := users.FindByEmail(ctx, email)
		switch {
		case err == nil:
			if u.ID != selfID {
				fe.Add("email", msgEmailTaken)
			}
		case !errors.Is(err, domain.ErrUserNotFound):
			return fmt.Errorf("check email: %w", err)
		}
	}
	return nil
}

type discardNotifier struct{}

func (discardNotifier) Enqueue(ports.Notification) {}
