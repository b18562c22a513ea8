package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const lockKeyPrefix = "checkout:submit:"

// SubmitLock implements repository.SubmitLock with a Redis SetNX key per
// session. The TTL bounds how long a crashed submission can block retries.
type SubmitLock struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSubmitLock creates a new Redis-backed submission lock.
func NewSubmitLock(client *redis.Client, ttl time.Duration) *SubmitLock {
	return &SubmitLock{
		client: client,
		ttl:    ttl,
	}
}

// Acquire attempts to take the per-session submission lock. It returns false
// when another submission is already in flight.
func (l *SubmitLock) Acquire(ctx context.Context, sessionID string) (bool, error) {
	ok, err := l.client.SetNX(ctx, lockKeyPrefix+sessionID, "1", l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx submit lock: %w", err)
	}
	return ok, nil
}

// Release frees the per-session submission lock.
func (l *SubmitLock) Release(ctx context.Context, sessionID string) error {
	if err := l.client.Del(ctx, lockKeyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("redis del submit lock: %w", err)
	}
	return nil
}
