package middleware

import (
	"errors"
	"net/http"

	"github.com/dawan/studentprojects/internal/app/models/dto"
	"github.com/dawan/studentprojects/internal/pkg/apperrors"
	"github.com/dawan/studentprojects/internal/pkg/logger"
	"github.com/gin-gonic/gin"
)

// HandleAPIError maps an application error to its status code and writes
// a {"detail": ...} body. It is the only place where errors become HTTP.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrResourceNotFound):
		abortWithDetail(c, http.StatusNotFound, apperrors.Message(err, "Resource not found"))

	case errors.Is(err, apperrors.ErrConflict):
		abortWithDetail(c, http.StatusConflict, apperrors.Message(err, "Resource already exists"))

	case errors.Is(err, apperrors.ErrNoChanges):
		abortWithDetail(c, http.StatusBadRequest, apperrors.Message(err, "Bad request"))

	case apperrors.Is(err, apperrors.ErrInvalidCredentials, apperrors.ErrTokenInvalid, apperrors.ErrTokenExpired):
		c.Header("WWW-Authenticate", "Bearer")
		abortWithDetail(c, http.StatusUnauthorized, apperrors.Message(err, "Could not validate credentials"))

	case errors.Is(err, apperrors.ErrAccountDisabled):
		abortWithDetail(c, http.StatusForbidden, apperrors.Message(err, "Inactive user"))

	case errors.Is(err, apperrors.ErrDatabaseUnavailable):
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Database unavailable")
		abortWithDetail(c, http.StatusInternalServerError, "Internal server error")

	case errors.Is(err, apperrors.ErrConfiguration):
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Repository misconfigured")
		abortWithDetail(c, http.StatusInternalServerError, "Internal server error")

	default:
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled error")
		abortWithDetail(c, http.StatusInternalServerError, "Internal server error")
	}
}

func abortWithDetail(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(detail))
}
