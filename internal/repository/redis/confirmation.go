package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/guscassiano/eplay/internal/domain"
	apperrors "github.com/guscassiano/eplay/pkg/errors"
)

const confirmationKeyPrefix = "checkout:confirmation:"

// ConfirmationStore implements repository.ConfirmationStore using Redis.
type ConfirmationStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewConfirmationStore creates a new Redis-backed confirmation store.
func NewConfirmationStore(client *redis.Client, ttl time.Duration) *ConfirmationStore {
	return &ConfirmationStore{
		client: client,
		ttl:    ttl,
	}
}

// Get retrieves the stored confirmation for a session.
func (s *ConfirmationStore) Get(ctx context.Context, sessionID string) (*domain.Confirmation, error) {
	key := confirmationKeyPrefix + sessionID

	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, apperrors.NotFound("confirmation", sessionID)
		}
		return nil, fmt.Errorf("redis get confirmation: %w", err)
	}

	var c domain.Confirmation
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("unmarshal confirmation: %w", err)
	}

	return &c, nil
}

// Save persists the confirmation with the configured TTL.
func (s *ConfirmationStore) Save(ctx context.Context, sessionID string, c *domain.Confirmation) error {
	key := confirmationKeyPrefix + sessionID

	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal confirmation: %w", err)
	}

	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set confirmation: %w", err)
	}

	return nil
}
