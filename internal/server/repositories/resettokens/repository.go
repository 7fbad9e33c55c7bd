// Package resettokens declares the repository contract for password reset
// tokens in persistent storage.
package resettokens

import (
	"context"

	"github.com/dmitrijs2005/authvault/internal/server/models"
)

// Repository defines operations for issuing and consuming password reset
// tokens. Tokens are never deleted; they are kept for audit and become dead
// once used or expired.
type Repository interface {
	// Create stores a new reset token and fills in the store-assigned ID and
	// CreatedAt on the passed record.
	Create(ctx context.Context, token *models.PasswordResetToken) error

	// Find looks up a reset token by its opaque token string, whether or not
	// it is still redeemable. Returns common.ErrorNotFound when absent.
	Find(ctx context.Context, token string) (*models.PasswordResetToken, error)

	// MarkUsed consumes the token with the given ID. It only succeeds when the
	// token has not been consumed before; a token that is already used (or
	// missing) yields common.ErrorNotFound, so a token redeems at most once
	// even under concurrent confirmation attempts.
	MarkUsed(ctx context.Context, id string) error
}
