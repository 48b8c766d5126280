// Package errors provides the sentinel errors shared by every layer of the service.
// Use cases return these (usually wrapped with context by a domain package) and the
// HTTP layer maps them to status codes without knowing about storage details.
package errors

import (
	"errors"
	"fmt"
)

// Standard domain errors.
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a uniqueness conflict with existing data.
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates the input data is missing or malformed.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates the caller could not be authenticated.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the authenticated caller lacks the required role.
	ErrForbidden = errors.New("forbidden")

	// ErrUnavailable indicates a backing service (the account store) could not be reached.
	ErrUnavailable = errors.New("unavailable")
)

// New creates a new error with the given message.
func New(message string) error {
	return errors.New(message)
}

// Wrap wraps an error with additional context while preserving the error chain.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf is Wrap with a format string.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Join returns an error that wraps the given errors, discarding nils.
func Join(errs ...error) error {
	return errors.Join(errs...)
}
