// Package catalog provides the gateway to the remote store API which owns
// the product catalog and accepts purchase orders.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/guscassiano/eplay/internal/domain"
	apperrors "github.com/guscassiano/eplay/pkg/errors"
	"github.com/guscassiano/eplay/pkg/httpclient"
	"github.com/guscassiano/eplay/pkg/money"
	"github.com/guscassiano/eplay/pkg/slug"
)

// Gateway abstracts the remote store API. The services and handlers depend
// only on this interface.
type Gateway interface {
	OnSale(ctx context.Context) ([]domain.Product, error)
	ComingSoon(ctx context.Context) ([]domain.Product, error)
	Category(ctx context.Context, slug string) ([]domain.Product, error)
	Purchase(ctx context.Context, payload *domain.PurchasePayload) (*PurchaseResponse, error)
}

// PurchaseResponse is the store API's answer to a successful purchase.
type PurchaseResponse struct {
	OrderID string `json:"orderId"`
}

// HTTPDoer is the interface for executing HTTP requests.
// Both httpclient.Client and httpclient.CircuitBreakerClient satisfy this.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// CircuitOpenFallback returns a structured error with a retry hint when the
// store API circuit is open, instead of letting the raw ErrCircuitOpen
// propagate.
func CircuitOpenFallback(_ context.Context, _ error) (*http.Response, error) {
	return nil, apperrors.ServiceUnavailable("store api is temporarily unavailable, please retry after 30 seconds")
}

// HTTPGateway talks to the store API over HTTP.
type HTTPGateway struct {
	client  HTTPDoer
	baseURL string
	logger  *slog.Logger
}

// NewHTTPGateway creates a gateway against the given store API base URL.
func NewHTTPGateway(client HTTPDoer, baseURL string, logger *slog.Logger) *HTTPGateway {
	return &HTTPGateway{
		client:  client,
		baseURL: baseURL,
		logger:  logger,
	}
}

// remoteProduct mirrors the store API's product shape. Prices arrive as
// decimal reais and are converted to cents on decode.
type remoteProduct struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	System   string `json:"system"`
	Media    struct {
		Thumbnail string `json:"thumbnail"`
		Cover     string `json:"cover"`
	} `json:"media"`
	Prices struct {
		Old     float64 `json:"old"`
		Current float64 `json:"current"`
	} `json:"prices"`
	ReleaseDate string   `json:"release_date"`
	Tags        []string `json:"tags"`
}

func (rp remoteProduct) toDomain() domain.Product {
	return domain.Product{
		ID:       rp.ID,
		Name:     rp.Name,
		Category: rp.Category,
		System:   rp.System,
		Media: domain.Media{
			Thumbnail: rp.Media.Thumbnail,
			Cover:     rp.Media.Cover,
		},
		Prices: domain.Prices{
			Original: money.FromFloat(rp.Prices.Old),
			Current:  money.FromFloat(rp.Prices.Current),
		},
		Release: rp.ReleaseDate,
		Tags:    rp.Tags,
	}
}

// OnSale fetches the discounted catalog segment.
func (g *HTTPGateway) OnSale(ctx context.Context) ([]domain.Product, error) {
	return g.fetchSegment(ctx, "/api/products/on-sale")
}

// ComingSoon fetches the upcoming-releases catalog segment.
func (g *HTTPGateway) ComingSoon(ctx context.Context) ([]domain.Product, error) {
	return g.fetchSegment(ctx, "/api/products/coming-soon")
}

// Category fetches the catalog segment for a single category. The name is
// normalized to a slug so display names like "Ação" resolve too.
func (g *HTTPGateway) Category(ctx context.Context, name string) ([]domain.Product, error) {
	s := slug.Generate(name)
	if s == "" {
		return nil, apperrors.InvalidInput("category slug is required")
	}
	return g.fetchSegment(ctx, "/api/products/categories/"+s)
}

func (g *HTTPGateway) fetchSegment(ctx context.Context, path string) ([]domain.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("call store api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, httpclient.ParseResponseError(resp, "store-api")
	}

	var remote []remoteProduct
	if err := json.NewDecoder(resp.Body).Decode(&remote); err != nil {
		return nil, fmt.Errorf("decode catalog response: %w", err)
	}

	products := make([]domain.Product, len(remote))
	for i, rp := range remote {
		products[i] = rp.toDomain()
	}

	g.logger.DebugContext(ctx, "catalog segment fetched",
		slog.String("path", path),
		slog.Int("products_count", len(products)),
	)

	return products, nil
}

// Purchase submits a purchase order to the store API.
func (g *HTTPGateway) Purchase(ctx context.Context, payload *domain.PurchasePayload) (*PurchaseResponse, error) {
	if payload == nil {
		return nil, apperrors.InvalidInput("purchase payload is required")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal purchase payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/api/checkout", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create purchase request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("call store api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, httpclient.ParseResponseError(resp, "store-api")
	}

	var purchaseResp PurchaseResponse
	if err := json.NewDecoder(resp.Body).Decode(&purchaseResp); err != nil {
		return nil, fmt.Errorf("decode purchase response: %w", err)
	}

	g.logger.InfoContext(ctx, "purchase accepted by store api",
		slog.String("order_id", purchaseResp.OrderID),
		slog.Int("products_count", len(payload.Products)),
	)

	return &purchaseResp, nil
}
