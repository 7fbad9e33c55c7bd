// Package models defines server-side data models persisted in the database.
package models

import "time"

// User statuses. The store keeps the raw string so administrative states can
// be added without a schema change.
const (
	StatusActive    = "ACTIVE"
	StatusSuspended = "SUSPENDED"
)

// User is an identity record. FailedLoginAttempts and LockedUntil carry the
// account lockout state: the counter resets to zero on a successful login and
// when the account transitions to locked, and LockedUntil is compared against
// the current time on every read (no cached "locked" flag).
type User struct {
	ID                  string
	Email               string
	PasswordHash        string
	Name                string
	Status              string
	EmailVerified       bool
	FailedLoginAttempts int
	LockedUntil         *time.Time
	CreatedAt           time.Time
}

// PublicUser is the caller-visible projection of a User. It never carries
// the password hash or the lockout counters.
type PublicUser struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	Status        string    `json:"status"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
}

// Public returns the caller-visible view of the user.
func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		Status:        u.Status,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
	}
}
