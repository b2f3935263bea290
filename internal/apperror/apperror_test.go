// GO TESTING BASICS:
//  1. Test files MUST end in _test.go: Go's tooling auto-discovers them
//  2. Test functions MUST start with "Test" and take *testing.T as the only param
//  3. Same package as the code being tested (so we can access unexported stuff)
//  4. Run with: go test ./internal/apperror/ -v  (-v = verbose, shows each test name)
package apperror

import (
	"errors"
	"fmt"
	"testing"
)

// TABLE-DRIVEN TESTS:
// We define a slice of test cases and loop over them. Adding a case means
// adding one struct to the slice; the assertion logic is written once.

func TestErrorsIs(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		target    error
		wantMatch bool
	}{
		{
			name:      "NotFound wraps ErrNotFound",
			err:       NotFound("trip", 42),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "ValidationFailed wraps ErrValidation",
			err:       ValidationFailed("destination", "destination is required"),
			target:    ErrValidation,
			wantMatch: true,
		},
		{
			name:      "DuplicateEmail is a conflict",
			err:       ErrDuplicateEmail,
			target:    ErrConflict,
			wantMatch: true,
		},
		{
			name:      "AlreadyJoined is a conflict",
			err:       ErrAlreadyJoined,
			target:    ErrConflict,
			wantMatch: true,
		},
		{
			name:      "InvalidCredentials is unauthorized",
			err:       ErrInvalidCredentials,
			target:    ErrUnauthorized,
			wantMatch: true,
		},
		{
			name:      "InvalidDateTime is a validation error",
			err:       ErrInvalidDateTime,
			target:    ErrValidation,
			wantMatch: true,
		},
		{
			name:      "EmptyContent is a validation error",
			err:       ErrEmptyContent,
			target:    ErrValidation,
			wantMatch: true,
		},
		{
			name:      "wrapped AlreadyJoined still matches itself",
			err:       fmt.Errorf("joining trip 7: %w", ErrAlreadyJoined),
			target:    ErrAlreadyJoined,
			wantMatch: true,
		},
		{
			name:      "DuplicateEmail does NOT match AlreadyJoined",
			err:       ErrDuplicateEmail,
			target:    ErrAlreadyJoined,
			wantMatch: false,
		},
		{
			name:      "NotFound does NOT match ErrValidation",
			err:       NotFound("trip", 42),
			target:    ErrValidation,
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errors.Is(tt.err, tt.target)
			if got != tt.wantMatch {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.wantMatch)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name        string
		err         *AppError
		wantMessage string
	}{
		{
			name:        "NotFound message includes resource and id",
			err:         NotFound("trip", 42),
			wantMessage: "trip not found with id 42",
		},
		{
			name:        "ValidationFailed uses custom message",
			err:         ValidationFailed("destination", "Destination is required"),
			wantMessage: "Destination is required",
		},
		{
			name:        "EmptyContent matches the chat API error body",
			err:         ErrEmptyContent,
			wantMessage: "empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMessage {
				t.Errorf("Error() = %q, want %q", got, tt.wantMessage)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	err := NotFound("user", 1)
	if unwrapped := err.Unwrap(); unwrapped != ErrNotFound {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, ErrNotFound)
	}
}

func TestValidationFailedField(t *testing.T) {
	err := ValidationFailed("max_people", "Max people must be a whole number")

	if err.Field != "max_people" {
		t.Errorf("Field = %q, want %q", err.Field, "max_people")
	}
}
