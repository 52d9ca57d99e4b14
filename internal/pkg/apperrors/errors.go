package apperrors

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrAccountDisabled    = errors.New("account is disabled")

	// Update errors
	ErrNoChanges = errors.New("no fields to update")
)

// Storage errors
var (
	// ErrDatabaseUnavailable means no session could be established after all retries.
	ErrDatabaseUnavailable = errors.New("database unavailable")
	// ErrConfiguration marks wiring mistakes such as a repository without a table.
	ErrConfiguration = errors.New("configuration error")
)

// DatabaseUnavailableError carries the number of connection attempts made
// and the last connection error.
type DatabaseUnavailableError struct {
	Attempts int
	Err      error
}

func (e *DatabaseUnavailableError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("database unavailable after %d attempts", e.Attempts)
	}
	return fmt.Sprintf("database unavailable after %d attempts: %v", e.Attempts, e.Err)
}

// Unwrap matches both ErrDatabaseUnavailable and the last attempt's error.
func (e *DatabaseUnavailableError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrDatabaseUnavailable}
	}
	return []error{ErrDatabaseUnavailable, e.Err}
}

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewConfigurationError reports a programmer error in repository wiring
func NewConfigurationError(message string) error {
	return &CustomError{
		Err:     ErrConfiguration,
		Message: message,
	}
}

// Is returns whether err matches target or any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// Message returns the user facing text of err: the CustomError message when
// one is in the chain, otherwise fallback.
func Message(err error, fallback string) string {
	var ce *CustomError
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message
	}
	return fallback
}
