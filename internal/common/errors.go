// Package common defines shared constants and sentinel errors used across
// the service layers. Callers should use errors.Is to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Account errors.
	ErrUserExists         = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")

	// Password reset errors. Absent, used, and expired tokens all map to
	// ErrInvalidResetToken so callers cannot probe which condition failed.
	ErrInvalidResetToken = errors.New("invalid or expired reset token")

	// Access token (JWT) errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// AccountLockedError is returned when a login hits an active lockout or
// triggers a new one. RetryAfterMinutes is the remaining lock duration,
// rounded up to whole minutes.
type AccountLockedError struct {
	RetryAfterMinutes int
}

func (e *AccountLockedError) Error() string {
	return fmt.Sprintf("account is locked, try again in %d minutes", e.RetryAfterMinutes)
}
