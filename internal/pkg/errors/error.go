// Package xerrors holds the sentinel errors shared by services and handlers.
// response.StatusFor maps each of them to an HTTP status.
package xerrors

import (
	"errors"
	"fmt"
)

var (
	// 404
	ErrNotFound = errors.New("resource not found")

	// 401
	ErrUnauthorized       = errors.New("unauthorized access")
	ErrSessionExpired     = errors.New("session expired or invalid")
	ErrInvalidCredentials = errors.New("invalid email or password")

	// 403: authenticated but not the owner and not an admin
	ErrForbidden = errors.New("forbidden")

	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict: resource already exists")
	ErrRateLimited  = errors.New("too many requests")
)

// Wrap prefixes err with message, keeping it matchable with errors.Is.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf is Wrap with a formatted prefix, e.g. Wrapf(ErrNotFound, "subscription %d", id).
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
