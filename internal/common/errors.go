// Package common defines shared constants and sentinel errors used across
// clinicbook components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Storage bootstrap errors.
	ErrUnknownBackend = errors.New("unknown storage backend")

	// Auth errors.
	ErrUnauthorized     = errors.New("invalid student id or pin")
	ErrInvalidInput     = errors.New("student id and pin must be numeric")
	ErrTooManyAttempts  = errors.New("too many login attempts")
	ErrInvalidToken     = errors.New("invalid token")
	ErrTokenExpired     = errors.New("token expired")
	ErrNoSession        = errors.New("no active session")
	ErrProfileNameEmpty = errors.New("profile name must not be empty")
	ErrProfileInvalid   = errors.New("invalid profile")
)
