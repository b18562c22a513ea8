package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guscassiano/eplay/internal/domain"
	apperrors "github.com/guscassiano/eplay/pkg/errors"
	"github.com/guscassiano/eplay/pkg/httpclient"
	"github.com/guscassiano/eplay/pkg/money"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestGateway(baseURL string) *HTTPGateway {
	client := httpclient.New(httpclient.Config{
		Timeout:      5 * time.Second,
		MaxRetries:   0,
		RetryWaitMin: 10 * time.Millisecond,
		RetryWaitMax: 50 * time.Millisecond,
	})
	return NewHTTPGateway(client, baseURL, newTestLogger())
}

const catalogBody = `[
	{
		"id": 14,
		"name": "Marvel's Spider-Man",
		"category": "Ação",
		"system": "PS5",
		"media": {"thumbnail": "https://img.example.com/sm-thumb.jpg", "cover": "https://img.example.com/sm-cover.jpg"},
		"prices": {"old": 249.9, "current": 199.9},
		"release_date": "2023-10-20",
		"tags": ["-20%", "R$ 199,90"]
	},
	{
		"id": 15,
		"name": "Dragon's Dogma 2",
		"category": "RPG",
		"system": "PC",
		"media": {"thumbnail": "https://img.example.com/dd-thumb.jpg"},
		"prices": {"old": 299.9},
		"release_date": "2024-03-22"
	}
]`

func TestHTTPGateway_OnSale(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/products/on-sale", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(catalogBody))
	}))
	defer srv.Close()

	gw := newTestGateway(srv.URL)
	products, err := gw.OnSale(context.Background())

	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, int64(14), products[0].ID)
	assert.Equal(t, "Marvel's Spider-Man", products[0].Name)
	assert.Equal(t, money.Cents(24990), products[0].Prices.Original)
	assert.Equal(t, money.Cents(19990), products[0].Prices.Current)
	assert.True(t, products[0].Prices.OnSale())
	// No discount on the second product.
	assert.Equal(t, money.Cents(0), products[1].Prices.Current)
	assert.Equal(t, money.Cents(29990), products[1].Prices.Effective())
}

func TestHTTPGateway_ComingSoon(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products/coming-soon", r.URL.Path)
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	gw := newTestGateway(srv.URL)
	products, err := gw.ComingSoon(context.Background())

	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestHTTPGateway_Category(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products/categories/rpg", r.URL.Path)
		w.Write([]byte(catalogBody))
	}))
	defer srv.Close()

	gw := newTestGateway(srv.URL)
	products, err := gw.Category(context.Background(), "rpg")

	require.NoError(t, err)
	assert.Len(t, products, 2)
}

func TestHTTPGateway_Category_NormalizesName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products/categories/acao", r.URL.Path)
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	gw := newTestGateway(srv.URL)
	_, err := gw.Category(context.Background(), "Ação")

	require.NoError(t, err)
}

func TestHTTPGateway_Category_EmptySlug(t *testing.T) {
	gw := newTestGateway("http://localhost:0")

	_, err := gw.Category(context.Background(), "")

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}

func TestHTTPGateway_Category_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error": {"code": "NOT_FOUND", "message": "unknown category"}}`))
	}))
	defer srv.Close()

	gw := newTestGateway(srv.URL)
	_, err := gw.Category(context.Background(), "unknown")

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestHTTPGateway_Purchase(t *testing.T) {
	var received domain.PurchasePayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/checkout", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"orderId": "ord-8821"}`))
	}))
	defer srv.Close()

	cart := domain.NewCart("sess-001")
	cart.Add(domain.Product{ID: 14, Name: "Marvel's Spider-Man", Prices: domain.Prices{Original: 24990, Current: 19990}})
	form := domain.NewCheckoutForm("sess-001")
	payload := domain.BuildPurchasePayload(form, cart)

	gw := newTestGateway(srv.URL)
	resp, err := gw.Purchase(context.Background(), &payload)

	require.NoError(t, err)
	assert.Equal(t, "ord-8821", resp.OrderID)
	require.Len(t, received.Products, 1)
	assert.Equal(t, int64(14), received.Products[0].ID)
	assert.InDelta(t, 199.90, received.Products[0].Price, 0.001)
}

func TestHTTPGateway_Purchase_NilPayload(t *testing.T) {
	gw := newTestGateway("http://localhost:0")

	_, err := gw.Purchase(context.Background(), nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}

func TestHTTPGateway_Purchase_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error": {"code": "PAYMENT_DECLINED", "message": "card declined"}}`))
	}))
	defer srv.Close()

	cart := domain.NewCart("sess-001")
	cart.Add(domain.Product{ID: 14, Prices: domain.Prices{Original: 24990}})
	payload := domain.BuildPurchasePayload(domain.NewCheckoutForm("sess-001"), cart)

	gw := newTestGateway(srv.URL)
	_, err := gw.Purchase(context.Background(), &payload)

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrPurchaseFailed))
}

func TestHTTPGateway_Purchase_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	cart := domain.NewCart("sess-001")
	cart.Add(domain.Product{ID: 14, Prices: domain.Prices{Original: 24990}})
	payload := domain.BuildPurchasePayload(domain.NewCheckoutForm("sess-001"), cart)

	gw := newTestGateway(srv.URL)
	_, err := gw.Purchase(context.Background(), &payload)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode purchase response")
}
