package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals that a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden signals that the caller lacks the required membership or
	// ownership. Never a silent no-op.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict signals a uniqueness or state conflict, such as a duplicate
	// username or an already-joined board.
	ErrConflict = errors.New("conflict")
)

// ValidationError reports a rejected input field. Every validation runs before
// the first store write, so a returned ValidationError implies no mutation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return ValidationError{Field: field, Reason: reason}
}
