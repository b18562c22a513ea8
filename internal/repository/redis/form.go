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

const formKeyPrefix = "checkout:form:"

// FormRepository implements repository.FormRepository using Redis.
type FormRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewFormRepository creates a new Redis-backed checkout form repository.
func NewFormRepository(client *redis.Client, ttl time.Duration) *FormRepository {
	return &FormRepository{
		client: client,
		ttl:    ttl,
	}
}

// Get retrieves the checkout form for a session from Redis.
func (r *FormRepository) Get(ctx context.Context, sessionID string) (*domain.CheckoutForm, error) {
	key := formKeyPrefix + sessionID

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, apperrors.NotFound("checkout form", sessionID)
		}
		return nil, fmt.Errorf("redis get checkout form: %w", err)
	}

	var form domain.CheckoutForm
	if err := json.Unmarshal(data, &form); err != nil {
		return nil, fmt.Errorf("unmarshal checkout form: %w", err)
	}

	return &form, nil
}

// Save persists the checkout form to Redis with the configured TTL.
func (r *FormRepository) Save(ctx context.Context, form *domain.CheckoutForm) error {
	key := formKeyPrefix + form.SessionID

	data, err := json.Marshal(form)
	if err != nil {
		return fmt.Errorf("marshal checkout form: %w", err)
	}

	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set checkout form: %w", err)
	}

	return nil
}

// Delete removes the checkout form for a session from Redis.
func (r *FormRepository) Delete(ctx context.Context, sessionID string) error {
	key := formKeyPrefix + sessionID

	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del checkout form: %w", err)
	}

	return nil
}
