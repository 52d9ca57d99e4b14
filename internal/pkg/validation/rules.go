package validation

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Validation rule patterns
var (
	// Usernames are used as the token subject, so keep them URL and header safe
	UsernamePattern = `^[A-Za-z0-9_.\-]+$`

	UsernameMinLength = 3
	UsernameMaxLength = 50
)

// CompiledPatterns caches compiled regex patterns for better performance
var CompiledPatterns = struct {
	Username *regexp.Regexp
}{
	Username: regexp.MustCompile(UsernamePattern),
}

var registerOnce sync.Once

// RegisterCustomValidations adds the project's tags to gin's validator engine:
//
//	username  - allowed username characters and length
//	notblank  - string must contain something other than whitespace
//
// It is safe to call more than once.
func RegisterCustomValidations() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(jsonFieldName)
		if err = v.RegisterValidation("username", validateUsername); err != nil {
			return
		}
		err = v.RegisterValidation("notblank", validateNotBlank)
	})
	return err
}

// jsonFieldName reports fields by their JSON (or form) name in errors
func jsonFieldName(sf reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name, _, _ := strings.Cut(sf.Tag.Get(tag), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return sf.Name
}

func validateUsername(fl validator.FieldLevel) bool {
	return IsValidUsername(fl.Field().String())
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// IsValidUsername reports whether s can be used as a username.
func IsValidUsername(s string) bool {
	if len(s) < UsernameMinLength || len(s) > UsernameMaxLength {
		return false
	}
	return CompiledPatterns.Username.MatchString(s)
}

// FormatFieldError creates a human-readable message for one failed rule
func FormatFieldError(e validator.FieldError) string {
	field := e.Field()
	switch e.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return field + " must be at least " + e.Param()
	case "max":
		return field + " must be at most " + e.Param()
	case "email":
		return field + " must be a valid email address"
	case "oneof":
		return field + " must be one of: " + e.Param()
	case "username":
		return field + " may only contain letters, digits, '.', '_' and '-' (3 to 50 characters)"
	case "notblank":
		return field + " must not be blank"
	case "uuid4":
		return field + " must be a UUID"
	default:
		return field + " validation failed: " + e.Tag()
	}
}
