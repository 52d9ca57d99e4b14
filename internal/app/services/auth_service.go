package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dawan/studentprojects/internal/app/models"
	"github.com/dawan/studentprojects/internal/app/models/dto"
	"github.com/dawan/studentprojects/internal/app/repositories"
	"github.com/dawan/studentprojects/internal/pkg/apperrors"
	"github.com/dawan/studentprojects/internal/pkg/auth"
	"github.com/rs/zerolog"
)

// credentialsMessage is deliberately the same for every token failure
const credentialsMessage = "Could not validate credentials"

// AuthService handles authentication operations
type AuthService struct {
	userRepo   *repositories.UserRepository
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo *repositories.UserRepository,
	jwtService *auth.JWTService,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		logger:     logger,
	}
}

// Register creates an active user. Username and email uniqueness is checked
// with a read before the write, so two concurrent registrations can still
// both succeed.
func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if err := s.ensureFree(ctx, "username", req.Username, s.userRepo.GetByUsername); err != nil {
		return nil, err
	}
	if err := s.ensureFree(ctx, "email", email, s.userRepo.GetByEmail); err != nil {
		return nil, err
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Username:       req.Username,
		Email:          email,
		HashedPassword: hashed,
		IsActive:       true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info().Str("userID", user.ID).Str("username", user.Username).Msg("User registered")
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

func (s *AuthService) ensureFree(ctx context.Context, field, value string, lookup func(context.Context, string) (*models.User, error)) error {
	_, err := lookup(ctx, value)
	switch {
	case err == nil:
		return apperrors.NewConflictError(fmt.Sprintf("A user with this %s already exists", field))
	case errors.Is(err, repositories.ErrNotFound):
		return nil
	default:
		return fmt.Errorf("error checking %s: %w", field, err)
	}
}

// Authenticate verifies a username and password. Unknown users and wrong
// passwords produce the same error.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewCustomError(apperrors.ErrInvalidCredentials, "Incorrect username or password")
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if !auth.CheckPassword(user.HashedPassword, password) {
		s.logger.Warn().Str("username", username).Msg("Failed login attempt")
		return nil, apperrors.NewCustomError(apperrors.ErrInvalidCredentials, "Incorrect username or password")
	}

	if !user.IsActive {
		return nil, apperrors.NewCustomError(apperrors.ErrAccountDisabled, "Inactive user")
	}

	return user, nil
}

// Login authenticates the user and issues an access token
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}

	token, expiresIn, err := s.jwtService.GenerateAccessToken(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("error issuing token: %w", err)
	}

	s.logger.Info().Str("userID", user.ID).Msg("User logged in")
	return &dto.TokenResponse{
		AccessToken: token,
		TokenType:   auth.TokenType,
		ExpiresIn:   expiresIn,
	}, nil
}

// CurrentUser resolves the user named by the token subject. Every token or
// lookup miss is reported as an invalid token.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		s.logger.Debug().Err(err).Msg("Token rejected")
		return nil, apperrors.NewCustomError(apperrors.ErrTokenInvalid, credentialsMessage)
	}

	user, err := s.userRepo.GetByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewCustomError(apperrors.ErrTokenInvalid, credentialsMessage)
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if !user.IsActive {
		return nil, apperrors.NewCustomError(apperrors.ErrAccountDisabled, "Inactive user")
	}

	return user, nil
}
