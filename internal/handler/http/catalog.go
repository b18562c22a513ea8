// Package http exposes the storefront API over HTTP.
package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/guscassiano/eplay/internal/catalog"
	apperrors "github.com/guscassiano/eplay/pkg/errors"
	"github.com/guscassiano/eplay/pkg/httputil"
)

// CatalogHandler handles HTTP requests for catalog endpoints.
type CatalogHandler struct {
	gateway catalog.Gateway
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog HTTP handler.
func NewCatalogHandler(gateway catalog.Gateway, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		gateway: gateway,
		logger:  logger,
	}
}

// OnSale handles GET /api/v1/catalog/on-sale
func (h *CatalogHandler) OnSale(w http.ResponseWriter, r *http.Request) {
	products, err := h.gateway.OnSale(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: products})
}

// ComingSoon handles GET /api/v1/catalog/coming-soon
func (h *CatalogHandler) ComingSoon(w http.ResponseWriter, r *http.Request) {
	products, err := h.gateway.ComingSoon(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: products})
}

// Category handles GET /api/v1/catalog/categories/{slug}
func (h *CatalogHandler) Category(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		httputil.WriteError(w, r, apperrors.InvalidInput("category slug is required"), h.logger)
		return
	}

	products, err := h.gateway.Category(r.Context(), slug)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: products})
}
