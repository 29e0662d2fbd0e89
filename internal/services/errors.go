// Package services holds the domain logic between the HTTP handlers and the
// database, storage, and generation clients.
package services

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the requested resource does not exist, or the caller
	// is not allowed to know whether it exists.
	ErrNotFound = errors.New("resource not found")

	// ErrForbidden means the resource exists but the caller does not own it.
	ErrForbidden = errors.New("access denied")

	// ErrConflict means the operation clashes with the resource's current
	// state, such as starting generation while one is already running.
	ErrConflict = errors.New("conflicting operation in progress")

	// ErrExpired means a share link exists but its expiry has passed.
	ErrExpired = errors.New("share link expired")
)

// ValidationError is a caller mistake in the request itself.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErrorf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
