package service

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/guscassiano/eplay/internal/catalog"
	"github.com/guscassiano/eplay/internal/domain"
	"github.com/guscassiano/eplay/internal/event"
	pkgkafka "github.com/guscassiano/eplay/pkg/kafka"
)

// --- Mock Cart Repository ---

type mockCartRepository struct {
	mock.Mock
}

func (m *mockCartRepository) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}

func (m *mockCartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	args := m.Called(ctx, cart)
	return args.Error(0)
}

func (m *mockCartRepository) Delete(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

// --- Mock Form Repository ---

type mockFormRepository struct {
	mock.Mock
}

func (m *mockFormRepository) Get(ctx context.Context, sessionID string) (*domain.CheckoutForm, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CheckoutForm), args.Error(1)
}

func (m *mockFormRepository) Save(ctx context.Context, form *domain.CheckoutForm) error {
	args := m.Called(ctx, form)
	return args.Error(0)
}

func (m *mockFormRepository) Delete(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

// --- Mock Confirmation Store ---

type mockConfirmationStore struct {
	mock.Mock
}

func (m *mockConfirmationStore) Get(ctx context.Context, sessionID string) (*domain.Confirmation, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Confirmation), args.Error(1)
}

func (m *mockConfirmationStore) Save(ctx context.Context, sessionID string, c *domain.Confirmation) error {
	args := m.Called(ctx, sessionID, c)
	return args.Error(0)
}

// --- Mock Submit Lock ---

type mockSubmitLock struct {
	mock.Mock
}

func (m *mockSubmitLock) Acquire(ctx context.Context, sessionID string) (bool, error) {
	args := m.Called(ctx, sessionID)
	return args.Bool(0), args.Error(1)
}

func (m *mockSubmitLock) Release(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

// --- Mock Store Gateway ---

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) OnSale(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockGateway) ComingSoon(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockGateway) Category(ctx context.Context, slug string) ([]domain.Product, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockGateway) Purchase(ctx context.Context, payload *domain.PurchasePayload) (*catalog.PurchaseResponse, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.PurchaseResponse), args.Error(1)
}

// --- Test Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestEventProducer() *event.Producer {
	logger := newTestLogger()
	kafkaCfg := pkgkafka.DefaultProducerConfig([]string{"localhost:9092"})
	kafkaProducer := pkgkafka.NewProducer(kafkaCfg, logger)
	return event.NewProducer(kafkaProducer, logger)
}

func sampleProduct() domain.Product {
	return domain.Product{
		ID:   14,
		Name: "Marvel's Spider-Man",
		Media: domain.Media{
			Thumbnail: "https://img.example.com/sm-thumb.jpg",
		},
		Prices: domain.Prices{Original: 24990, Current: 19990},
	}
}

func cartWithItems(t *testing.T, sessionID string) *domain.Cart {
	t.Helper()
	cart := domain.NewCart(sessionID)
	cart.Add(sampleProduct())
	return cart
}
