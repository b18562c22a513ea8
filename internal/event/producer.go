// Package event publishes storefront domain events to Kafka.
package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/guscassiano/eplay/internal/domain"
	pkgkafka "github.com/guscassiano/eplay/pkg/kafka"
	"github.com/guscassiano/eplay/pkg/money"
)

// Kafka topic constants for storefront domain events.
const (
	TopicCartUpdated       = "eplay.cart.updated"
	TopicCartCleared       = "eplay.cart.cleared"
	TopicPurchaseCompleted = "eplay.purchase.completed"
)

// Aggregate type constants.
const (
	AggregateTypeCart     = "cart"
	AggregateTypePurchase = "purchase"
)

// Source identifier for events originating from the storefront.
const SourceStorefront = "storefront"

// CartUpdatedData is the payload for a cart.updated event.
type CartUpdatedData struct {
	SessionID   string         `json:"session_id"`
	Items       []CartItemData `json:"items"`
	ItemCount   int            `json:"item_count"`
	TotalAmount money.Cents    `json:"total_amount"`
}

// CartItemData is the item payload within cart events.
type CartItemData struct {
	ProductID int64       `json:"product_id"`
	Name      string      `json:"name"`
	Price     money.Cents `json:"price"`
}

// CartClearedData is the payload for a cart.cleared event.
type CartClearedData struct {
	SessionID string `json:"session_id"`
}

// PurchaseCompletedData is the payload for a purchase.completed event.
type PurchaseCompletedData struct {
	SessionID     string      `json:"session_id"`
	OrderID       string      `json:"order_id"`
	PaymentMethod string      `json:"payment_method"`
	Installments  int         `json:"installments"`
	TotalAmount   money.Cents `json:"total_amount"`
	ProductIDs    []int64     `json:"product_ids"`
}

// Producer publishes storefront domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the storefront.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishCartUpdated publishes a cart.updated event.
func (p *Producer) PublishCartUpdated(ctx context.Context, cart *domain.Cart) error {
	items := make([]CartItemData, len(cart.Items))
	for i, item := range cart.Items {
		items[i] = CartItemData{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
		}
	}

	data := CartUpdatedData{
		SessionID:   cart.SessionID,
		Items:       items,
		ItemCount:   len(cart.Items),
		TotalAmount: cart.Total(),
	}

	event, err := pkgkafka.NewEvent(TopicCartUpdated, cart.SessionID, AggregateTypeCart, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create cart.updated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartUpdated, event); err != nil {
		return fmt.Errorf("publish cart.updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.updated event",
		slog.String("session_id", cart.SessionID),
		slog.Int("item_count", len(cart.Items)),
	)

	return nil
}

// PublishCartCleared publishes a cart.cleared event.
func (p *Producer) PublishCartCleared(ctx context.Context, sessionID string) error {
	data := CartClearedData{SessionID: sessionID}

	event, err := pkgkafka.NewEvent(TopicCartCleared, sessionID, AggregateTypeCart, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create cart.cleared event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartCleared, event); err != nil {
		return fmt.Errorf("publish cart.cleared event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.cleared event",
		slog.String("session_id", sessionID),
	)

	return nil
}

// PublishPurchaseCompleted publishes a purchase.completed event.
func (p *Producer) PublishPurchaseCompleted(ctx context.Context, sessionID, orderID string, form *domain.CheckoutForm, cart *domain.Cart) error {
	productIDs := make([]int64, len(cart.Items))
	for i, item := range cart.Items {
		productIDs[i] = item.ProductID
	}

	installments := 1
	if form.Method == domain.PaymentCard {
		installments = form.Values.Installments
	}

	data := PurchaseCompletedData{
		SessionID:     sessionID,
		OrderID:       orderID,
		PaymentMethod: string(form.Method),
		Installments:  installments,
		TotalAmount:   cart.Total(),
		ProductIDs:    productIDs,
	}

	event, err := pkgkafka.NewEvent(TopicPurchaseCompleted, orderID, AggregateTypePurchase, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create purchase.completed event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicPurchaseCompleted, event); err != nil {
		return fmt.Errorf("publish purchase.completed event: %w", err)
	}

	p.logger.InfoContext(ctx, "published purchase.completed event",
		slog.String("session_id", sessionID),
		slog.String("order_id", orderID),
		slog.String("payment_method", string(form.Method)),
	)

	return nil
}
