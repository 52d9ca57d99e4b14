package middleware

import (
	"context"

	"github.com/dawan/studentprojects/internal/app/models"
	"github.com/dawan/studentprojects/internal/pkg/apperrors"
	"github.com/dawan/studentprojects/internal/pkg/auth"
	"github.com/gin-gonic/gin"
)

// CurrentUserKey is the gin context key holding the authenticated *models.User
const CurrentUserKey = "currentUser"

// UserResolver turns a bearer token into the user it was issued for
type UserResolver interface {
	CurrentUser(ctx context.Context, token string) (*models.User, error)
}

// AuthMiddleware guards routes that need a logged in user
type AuthMiddleware struct {
	users UserResolver
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(users UserResolver) *AuthMiddleware {
	return &AuthMiddleware{users: users}
}

// JWTAuth rejects requests without a valid bearer token and stores the
// resolved user under CurrentUserKey.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.ExtractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			HandleAPIError(c, apperrors.NewCustomError(apperrors.ErrTokenInvalid, "Not authenticated"))
			return
		}

		user, err := m.users.CurrentUser(c.Request.Context(), token)
		if err != nil {
			HandleAPIError(c, err)
			return
		}

		c.Set(CurrentUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the user stored by JWTAuth, if any
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(CurrentUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}
