package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/dawan/studentprojects/internal/app/models"
	"github.com/dawan/studentprojects/internal/db"
	"github.com/dawan/studentprojects/internal/pkg/logger"
	"github.com/google/uuid"
)

var userColumns = []string{"id", "username", "email", "hashed_password", "is_active"}

// UserRepository handles user storage
type UserRepository struct {
	baseRepository
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(sessions SessionSource) *UserRepository {
	return &UserRepository{baseRepository: newBaseRepository(sessions)}
}

// Create stores a new user under a freshly generated id.
// Uniqueness of username and email is not enforced here.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	user.ID = uuid.NewString()

	err := r.exec(ctx, "create user", r.sb.Insert(db.TableUsers).
		Columns(userColumns...).
		Values(user.ID, user.Username, user.Email, user.HashedPassword, user.IsActive))
	if err != nil {
		return err
	}

	logger.Info().Str("userID", user.ID).Str("username", user.Username).Msg("User created")
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, "get user by id", "id", id)
}

// GetByUsername retrieves a user through the username index
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, "get user by username", "username", username)
}

// GetByEmail retrieves a user through the email index
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, "get user by email", "email", email)
}

func (r *UserRepository) getOne(ctx context.Context, op, column, value string) (*models.User, error) {
	rows, err := r.query(ctx, op, r.sb.Select(userColumns...).
		From(db.TableUsers).
		Where(squirrel.Eq{column: value}))
	if err != nil {
		return nil, err
	}

	users, err := decodeRows[models.User](rows)
	if err != nil {
		return nil, err
	}
	switch len(users) {
	case 0:
		return nil, ErrNotFound
	case 1:
	default:
		logger.Warn().Str("column", column).Int("matches", len(users)).Msg("Duplicate users found, using the first")
	}
	return users[0], nil
}
