package repository

import (
	"context"

	"github.com/guscassiano/eplay/internal/domain"
)

// CartRepository defines the interface for cart persistence operations.
type CartRepository interface {
	// Get retrieves a cart by its session ID.
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)

	// Save persists a cart, overwriting any existing cart for the session.
	Save(ctx context.Context, cart *domain.Cart) error

	// Delete removes a cart by the session ID.
	Delete(ctx context.Context, sessionID string) error
}

// FormRepository defines the interface for checkout form persistence.
type FormRepository interface {
	// Get retrieves the checkout form for a session.
	Get(ctx context.Context, sessionID string) (*domain.CheckoutForm, error)

	// Save persists the checkout form for a session.
	Save(ctx context.Context, form *domain.CheckoutForm) error

	// Delete removes the checkout form for a session.
	Delete(ctx context.Context, sessionID string) error
}

// ConfirmationStore keeps the most recent purchase confirmation per session
// so the confirmation view stays reachable after the cart is cleared.
type ConfirmationStore interface {
	// Get retrieves the stored confirmation for a session.
	Get(ctx context.Context, sessionID string) (*domain.Confirmation, error)

	// Save persists the confirmation for a session.
	Save(ctx context.Context, sessionID string, c *domain.Confirmation) error
}

// SubmitLock serializes purchase submissions per session. Acquire returns
// false when a submission is already in flight.
type SubmitLock interface {
	Acquire(ctx context.Context, sessionID string) (bool, error)
	Release(ctx context.Context, sessionID string) error
}
