package errors

import (
	"errors"
	"fmt"
)

// Domain-specific error types
var (
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("resource not found")

	// ErrDuplicateEntry indicates a unique constraint violation
	ErrDuplicateEntry = errors.New("duplicate entry")

	// ErrInvalidInput indicates invalid input data
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates unauthorized access
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInternal indicates an internal server error
	ErrInternal = errors.New("internal server error")
)

// Error codes for API responses
const (
	CodeNotFound       = "NOT_FOUND"
	CodeDuplicateEntry = "DUPLICATE_ENTRY"
	CodeInvalidInput   = "INVALID_INPUT"
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeInternalError  = "INTERNAL_ERROR"
)

// AppError represents an application error with context
type AppError struct {
	Err     error
	Message string
	Code    string
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError
func NewAppError(err error, message string, code string) *AppError {
	return &AppError{
		Err:     err,
		Message: message,
		Code:    code,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// IsNotFound checks if the error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateEntry checks if the error is a duplicate entry error
func IsDuplicateEntry(err error) bool {
	return errors.Is(err, ErrDuplicateEntry)
}

// GetErrorCode returns the appropriate error code for an error
func GetErrorCode(err error) string {
	switch {
	case IsNotFound(err):
		return CodeNotFound
	case IsDuplicateEntry(err):
		return CodeDuplicateEntry
	case errors.Is(err, ErrInvalidInput):
		return CodeInvalidInput
	case errors.Is(err, ErrUnauthorized):
		return CodeUnauthorized
	default:
		return CodeInternalError
	}
}
