// Package users declares the repository contract for user records.
package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/authvault/internal/server/models"
)

// Repository defines the persistence operations for user records. Each
// operation is atomic for its single-record scope; IncrementFailedLoginAttempts
// in particular must serialize concurrent increments so no update is lost.
type Repository interface {
	// Create inserts a new user and returns it with the store-assigned ID and
	// CreatedAt. A duplicate email yields common.ErrUserExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// FindByEmail returns the user with the exact email, or common.ErrorNotFound.
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// FindByID returns the user with the given ID, or common.ErrorNotFound.
	FindByID(ctx context.Context, id string) (*models.User, error)

	// IncrementFailedLoginAttempts atomically adds one to the user's failed
	// attempt counter and returns the new value.
	IncrementFailedLoginAttempts(ctx context.Context, id string) (int, error)

	// ResetFailedLoginAttempts sets the failed attempt counter back to zero.
	ResetFailedLoginAttempts(ctx context.Context, id string) error

	// LockAccount sets the lockout deadline and resets the attempt counter.
	LockAccount(ctx context.Context, id string, until time.Time) error

	// UpdatePassword replaces the stored password hash.
	UpdatePassword(ctx context.Context, id string, passwordHash string) error

	// UpdateName changes the user's display name and returns the updated record.
	UpdateName(ctx context.Context, id string, name string) (*models.User, error)
}
