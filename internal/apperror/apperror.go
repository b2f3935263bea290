// Package apperror defines the error kinds shared by the service, repository,
// and handler layers.
//
// Two levels of sentinel:
//   - kinds (ErrNotFound, ErrValidation, ...) decide the HTTP status
//   - domain errors (ErrDuplicateEmail, ErrAlreadyJoined, ...) name the exact
//     outcome and wrap one kind, so errors.Is matches either level
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
)

// Domain outcomes. Their messages double as the user-facing flash text.
var (
	ErrDuplicateEmail = &AppError{
		Err:     ErrConflict,
		Message: "Email already registered",
		Field:   "email",
	}

	// ErrInvalidCredentials covers both an unknown email and a wrong password.
	ErrInvalidCredentials = &AppError{
		Err:     ErrUnauthorized,
		Message: "Invalid credentials",
	}

	ErrInvalidDateTime = &AppError{
		Err:     ErrValidation,
		Message: "Invalid datetime format. Use YYYY-MM-DDTHH:MM",
		Field:   "start_datetime",
	}

	// ErrAlreadyJoined is benign: the participation already exists.
	ErrAlreadyJoined = &AppError{
		Err:     ErrConflict,
		Message: "Could not join (already joined)",
	}

	ErrEmptyContent = &AppError{
		Err:     ErrValidation,
		Message: "empty",
		Field:   "content",
	}
)

type AppError struct {
	Err     error  // actual error
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource string, id any) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %v", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}
