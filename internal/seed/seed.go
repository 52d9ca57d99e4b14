package seed

import (
	"context"
	"errors"

	"github.com/dawan/studentprojects/internal/app/models/dto"
	"github.com/dawan/studentprojects/internal/pkg/apperrors"
	"github.com/rs/zerolog"
)

// User is the default account created at startup
type User struct {
	Username string
	Email    string
	Password string
}

// Registrar is the part of the auth service the seed step needs
type Registrar interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.UserResponse, error)
}

// CreateDefaultUser registers u unless its username is empty. An existing
// user with the same username or email is left untouched.
func CreateDefaultUser(ctx context.Context, registrar Registrar, u User, lgr zerolog.Logger) error {
	if u.Username == "" {
		lgr.Debug().Msg("No default user configured, skipping seed")
		return nil
	}
	if u.Email == "" || u.Password == "" {
		return errors.New("default user needs both email and password")
	}

	lgr.Info().Str("username", u.Username).Msg("Checking/Creating default user...")
	_, err := registrar.Register(ctx, dto.RegisterRequest{
		Username: u.Username,
		Email:    u.Email,
		Password: u.Password,
	})
	switch {
	case err == nil:
		lgr.Info().Str("username", u.Username).Msg("Default user created")
	case errors.Is(err, apperrors.ErrConflict):
		lgr.Info().Str("username", u.Username).Msg("Default user already exists")
	default:
		return err
	}
	return nil
}
