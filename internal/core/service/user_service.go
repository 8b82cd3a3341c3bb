package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/Piladin/ZTPAI/internal/core/domain"
	"github.com/Piladin/ZTPAI/internal/core/ports"
)

type UserService struct {
	users    ports.UserRepository
	logger   zerolog.Logger
	hashCost int
}

var _ ports.UserService = (*UserService)(nil)

func NewUserService(users ports.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{users: users, logger: logger, hashCost: bcrypt.DefaultCost}
}

func (s *UserService) SetHashCost(cost int) {
	s.hashCost = cost
}

func (s *UserService) Me(ctx context.Context, actor *domain.Actor) (*domain.User, error) {
	if actor == nil {
		return nil, domain.ErrUnauthorized
	}
	return s.users.FindByID(ctx, actor.ID)
}

// UpdateMe applies a partial update to the caller's own profile. A new
// password is hashed before it is stored.
func (s *UserService) UpdateMe(ctx context.Context, actor *domain.Actor, in ports.UpdateUserInput) (*domain.User, error) {
	user, err := s.Me(ctx, actor)
	if err != nil {
		return nil, err
	}
	if domain.Decide(actor, domain.ActionWrite, user) == domain.Deny {
		return nil, domain.ErrUnauthorized
	}

	fe := domain.FieldErrors{}
	var username, email string
	if in.Username != nil && *in.Username != user.Username {
		username = *in.Username
	}
	if in.Email != nil && *in.Email != user.Email {
		email = *in.Email
	}
	if err := checkUnique(ctx, s.users, fe, username, email, user.ID); err != nil {
		return nil, err
	}
	if err := fe.Err(); err != nil {
		return nil, err
	}

	if in.Username != nil {
		user.Username = *in.Username
	}
	if in.Email != nil {
		user.Email = *in.Email
	}
	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if in.PhoneNumber != nil {
		user.PhoneNumber = *in.PhoneNumber
	}
	if in.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), s.hashCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	updated, err := s.users.Update(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, domain.NewValidation("A user with that username or email already exists.")
		}
		return nil, err
	}

	s.logger.Info().Int64("user_id", updated.ID).Msg("profile updated")
	return updated, nil
}

func (s *UserService) List(ctx context.Context, actor *domain.Actor) ([]*domain.User, error) {
	if domain.Decide(actor, domain.ActionList, domain.UserDirectory{}) == domain.Deny {
		return nil, domain.ErrUnauthorized
	}
	return s.users.List(ctx)
}

// Delete removes an account together with its announcements. Permission is
// checked before existence, so non-administrators never learn whether an ID
// is in use.
func (s *UserService) Delete(ctx context.Context, actor *domain.Actor, id int64) error {
	if domain.Decide(actor, domain.ActionDelete, domain.UserDirectory{}) == domain.Deny {
		return domain.ErrUnauthorized
	}
	if _, err := s.users.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int64("user_id", id).Int64("actor_id", actor.ID).Msg("user deleted")
	return nil
}
