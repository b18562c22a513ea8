package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/guscassiano/eplay/internal/catalog"
	"github.com/guscassiano/eplay/internal/domain"
	"github.com/guscassiano/eplay/internal/event"
	pkgkafka "github.com/guscassiano/eplay/pkg/kafka"
	"github.com/guscassiano/eplay/pkg/httputil"
	"github.com/guscassiano/eplay/pkg/middleware"
)

// testSessionID is the session UUID carried by the test cookie.
const testSessionID = "6ba7b810-9dad-11d1-80b4-00c04fd430c8"

// ============================================================================
// Mocks
// ============================================================================

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

// ============================================================================
// Test helpers
// ============================================================================

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testEventProducer() *event.Producer {
	logger := testLogger()
	kafkaCfg := pkgkafka.DefaultProducerConfig([]string{"localhost:19092"})
	kafkaProducer := pkgkafka.NewProducer(kafkaCfg, logger)
	return event.NewProducer(kafkaProducer, logger)
}

// withSession wires the session middleware the way the production router does
// so handlers read the session ID from the request context.
func withSession(r chi.Router) {
	r.Use(middleware.Session(middleware.SessionConfig{TTL: time.Hour}))
}

// addSessionCookie pins the request to the fixed test session.
func addSessionCookie(req *http.Request) {
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: testSessionID})
}

// decodeResponse reads the response body into the standard Response struct.
func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) httputil.Response {
	t.Helper()
	var resp httputil.Response
	err := json.NewDecoder(rec.Body).Decode(&resp)
	require.NoError(t, err)
	return resp
}

// sampleCart returns a cart with one item, suitable for test assertions.
func sampleCart() *domain.Cart {
	cart := domain.NewCart(testSessionID)
	cart.Add(domain.Product{
		ID:     14,
		Name:   "Marvel's Spider-Man",
		Media:  domain.Media{Thumbnail: "https://img.example.com/sm-thumb.jpg"},
		Prices: domain.Prices{Original: 24990, Current: 19990},
	})
	return cart
}

func validFormFor(sessionID string) *domain.CheckoutForm {
	form := domain.NewCheckoutForm(sessionID)
	form.SetField(domain.FieldFullName, "Maria da Silva")
	form.SetField(domain.FieldEmail, "maria@example.com")
	form.SetField(domain.FieldCPF, "123.456.789-09")
	form.SetField(domain.FieldDeliveryEmail, "maria@example.com")
	form.SetField(domain.FieldConfirmDeliveryEmail, "maria@example.com")
	return form
}
