package models

import "time"

// PasswordResetToken is a single-use capability that authorizes a password
// change without re-authentication. Rows are never deleted; a token is dead
// once Used is set or ExpiresAt has passed.
type PasswordResetToken struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}
