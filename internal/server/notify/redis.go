package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// taskQueueKey is the redis list the notification worker consumes.
const taskQueueKey = "authvault:tasks"

const jobTypePasswordReset = "password_reset"

type job struct {
	Type       string    `json:"type"`
	UserID     string    `json:"user_id"`
	Token      string    `json:"token"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// RedisQueue implements Queue on a redis list.
type RedisQueue struct {
	client *redis.Client
}

// NewRedisQueue constructs a queue talking to the redis instance at addr.
func NewRedisQueue(addr string) *RedisQueue {
	return &RedisQueue{
		client: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

// NewRedisQueueFromClient constructs a queue on an existing client.
// Used by tests to point the queue at miniredis.
func NewRedisQueueFromClient(client *redis.Client) *RedisQueue {
	return &RedisQueue{client: client}
}

func (q *RedisQueue) EnqueuePasswordReset(ctx context.Context, userID, token string) error {
	payload, err := json.Marshal(job{
		Type:       jobTypePasswordReset,
		UserID:     userID,
		Token:      token,
		EnqueuedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}

	if err := q.client.LPush(ctx, taskQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("enqueue job: %w", err)
	}
	return nil
}

func (q *RedisQueue) Ping(ctx context.Context) error {
	return q.client.Ping(ctx).Err()
}

// Close releases the underlying client connections.
func (q *RedisQueue) Close() error {
	return q.client.Close()
}
