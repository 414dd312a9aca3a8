// Package apperror defines the domain error vocabulary shared by the service
// layer and the HTTP handlers. Services return these; handlers translate
// them to status codes without the services ever knowing about HTTP.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
)

// AppError pairs a sentinel with a human-readable message. errors.Is against
// the sentinels works through Unwrap.
type AppError struct {
	Err     error
	Message string
	Field   string // optional: the field that caused a validation failure
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

func Conflict(resource, key string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("%s already exists: %s", resource, key),
	}
}

func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// Unauthorized covers failed logins and missing/invalid credentials.
// Handlers map it to 401.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}
