// Package service implements the storefront business logic on top of the
// repositories, the event producer, and the store API gateway.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/guscassiano/eplay/internal/domain"
	"github.com/guscassiano/eplay/internal/event"
	"github.com/guscassiano/eplay/internal/repository"
	apperrors "github.com/guscassiano/eplay/pkg/errors"
	"github.com/guscassiano/eplay/pkg/money"
)

// MaxItemsPerCart is the maximum number of distinct products allowed in a cart.
const MaxItemsPerCart = 50

// AddItemInput holds the product snapshot for adding an item to the cart.
// Prices are in cents.
type AddItemInput struct {
	ProductID int64       `json:"product_id" validate:"required,gt=0"`
	Name      string      `json:"name" validate:"required"`
	Thumbnail string      `json:"thumbnail"`
	Original  money.Cents `json:"original" validate:"required,gt=0"`
	Current   money.Cents `json:"current" validate:"gte=0"`
}

// CartService implements the business logic for cart operations.
type CartService struct {
	repo     repository.CartRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(repo repository.CartRepository, producer *event.Producer, logger *slog.Logger) *CartService {
	return &CartService{
		repo:     repo,
		producer: producer,
		logger:   logger,
	}
}

// GetCart retrieves the cart for a session. If no cart exists, returns an
// empty closed cart without persisting it.
func (s *CartService) GetCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	cart, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.NewCart(sessionID), nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}

	return cart, nil
}

// AddItem adds a product to the session's cart. Adding a product already in
// the cart is a no-op.
func (s *CartService) AddItem(ctx context.Context, sessionID string, input AddItemInput) (*domain.Cart, error) {
	if input.ProductID <= 0 {
		return nil, apperrors.InvalidInput("product id is required")
	}
	if input.Name == "" {
		return nil, apperrors.InvalidInput("product name is required")
	}
	if input.Original <= 0 {
		return nil, apperrors.InvalidInput("product price must be greater than 0")
	}
	if input.Current < 0 {
		return nil, apperrors.InvalidInput("discounted price must not be negative")
	}

	cart, err := s.GetCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if len(cart.Items) >= MaxItemsPerCart {
		return nil, apperrors.InvalidInput(fmt.Sprintf("cart must not contain more than %d items", MaxItemsPerCart))
	}

	added := cart.Add(domain.Product{
		ID:   input.ProductID,
		Name: input.Name,
		Media: domain.Media{
			Thumbnail: input.Thumbnail,
		},
		Prices: domain.Prices{
			Original: input.Original,
			Current:  input.Current,
		},
	})
	if !added {
		// Duplicate add is a no-op; the cart is returned unchanged.
		return cart, nil
	}

	cart.Open()
	cart.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}

	s.publishCartUpdated(ctx, cart)

	s.logger.InfoContext(ctx, "item added to cart",
		slog.String("session_id", sessionID),
		slog.Int64("product_id", input.ProductID),
		slog.Int("item_count", len(cart.Items)),
	)

	return cart, nil
}

// RemoveItem removes a product from the session's cart. Removing an absent
// product is a no-op.
func (s *CartService) RemoveItem(ctx context.Context, sessionID string, productID int64) (*domain.Cart, error) {
	if productID <= 0 {
		return nil, apperrors.InvalidInput("product id is required")
	}

	cart, err := s.GetCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !cart.Remove(productID) {
		return cart, nil
	}

	cart.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}

	s.publishCartUpdated(ctx, cart)

	s.logger.InfoContext(ctx, "item removed from cart",
		slog.String("session_id", sessionID),
		slog.Int64("product_id", productID),
	)

	return cart, nil
}

// ClearCart empties the session's cart. Visibility is unchanged.
func (s *CartService) ClearCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	cart, err := s.GetCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	cart.Clear()
	cart.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}

	if err := s.producer.PublishCartCleared(ctx, sessionID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.cleared event",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "cart cleared",
		slog.String("session_id", sessionID),
	)

	return cart, nil
}

// OpenCart marks the cart sidebar as visible.
func (s *CartService) OpenCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	return s.setVisibility(ctx, sessionID, true)
}

// CloseCart marks the cart sidebar as hidden.
func (s *CartService) CloseCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	return s.setVisibility(ctx, sessionID, false)
}

func (s *CartService) setVisibility(ctx context.Context, sessionID string, open bool) (*domain.Cart, error) {
	cart, err := s.GetCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if cart.IsOpen == open {
		return cart, nil
	}

	if open {
		cart.Open()
	} else {
		cart.Close()
	}

	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}

	return cart, nil
}

// publishCartUpdated publishes a cart.updated event; failures are logged,
// never surfaced to the caller.
func (s *CartService) publishCartUpdated(ctx context.Context, cart *domain.Cart) {
	if err := s.producer.PublishCartUpdated(ctx, cart); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.updated event",
			slog.String("session_id", cart.SessionID),
			slog.String("error", err.Error()),
		)
	}
}
