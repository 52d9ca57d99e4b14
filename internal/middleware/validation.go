package middleware

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dawan/studentprojects/internal/app/models/dto"
	"github.com/dawan/studentprojects/internal/pkg/validation"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// HandleBindError answers a failed ShouldBind* call with 422. Validation
// failures list every offending field; malformed bodies get a single message.
func HandleBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]dto.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, dto.FieldError{
				Field:   fe.Field(),
				Message: validation.FormatFieldError(fe),
			})
		}
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Detail: fields})
		return
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr):
		abortWithDetail(c, http.StatusUnprocessableEntity, "Malformed JSON body")
	case errors.As(err, &typeErr):
		abortWithDetail(c, http.StatusUnprocessableEntity, typeErr.Field+" has the wrong type")
	default:
		abortWithDetail(c, http.StatusUnprocessableEntity, "Invalid request")
	}
}
