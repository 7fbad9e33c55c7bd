// Package notify hands reset tokens to the out-of-band delivery worker via a
// background job queue. Delivery is best-effort: enqueue failures are logged
// by callers and never fail the originating request.
package notify

import "context"

// Queue accepts background notification jobs.
type Queue interface {
	// EnqueuePasswordReset queues a password-reset notification job for the
	// given user. The token is the raw reset token to be delivered out of band.
	EnqueuePasswordReset(ctx context.Context, userID, token string) error

	// Ping reports whether the queue backend is reachable.
	Ping(ctx context.Context) error
}
