package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/guscassiano/eplay/internal/catalog"
	"github.com/guscassiano/eplay/internal/service"
	"github.com/guscassiano/eplay/pkg/health"
	"github.com/guscassiano/eplay/pkg/middleware"
)

// RouterConfig holds the router's tunables.
type RouterConfig struct {
	RequestTimeout     time.Duration
	SessionTTL         time.Duration
	SecureCookies      bool
	CatalogCacheMaxAge time.Duration
	CORSAllowedOrigins []string
	PprofCIDRs         []string

	// Per-session token bucket on checkout submission.
	SubmitRateLimit float64
	SubmitRateBurst int
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(
	gateway catalog.Gateway,
	cartService *service.CartService,
	checkoutService *service.CheckoutService,
	healthHandler *health.Handler,
	logger *slog.Logger,
	cfg RouterConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(cfg.RequestTimeout))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.Tracing("storefront"))
	r.Use(middleware.Session(middleware.SessionConfig{TTL: cfg.SessionTTL, Secure: cfg.SecureCookies}))
	r.Use(middleware.RequestLogger(logger))
	if len(cfg.CORSAllowedOrigins) > 0 {
		corsCfg := middleware.DefaultCORSConfig()
		corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins
		corsCfg.AllowCredentials = true
		r.Use(middleware.CORS(corsCfg))
	}

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Pprof debug endpoints with IP allowlist.
	middleware.RegisterPprof(r, cfg.PprofCIDRs, logger)

	catalogHandler := NewCatalogHandler(gateway, logger)
	cartHandler := NewCartHandler(cartService, logger)
	checkoutHandler := NewCheckoutHandler(checkoutService, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/catalog", func(r chi.Router) {
			r.Use(middleware.CacheControl(cfg.CatalogCacheMaxAge))

			r.Get("/on-sale", catalogHandler.OnSale)
			r.Get("/coming-soon", catalogHandler.ComingSoon)
			r.Get("/categories/{slug}", catalogHandler.Category)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(ContentTypeJSON)

			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)

			r.Post("/items", cartHandler.AddItem)
			r.Delete("/items/{productId}", cartHandler.RemoveItem)

			r.Post("/open", cartHandler.OpenCart)
			r.Post("/close", cartHandler.CloseCart)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Use(ContentTypeJSON)

			r.Get("/", checkoutHandler.GetState)
			r.Patch("/fields", checkoutHandler.SetFields)
			r.Put("/payment-method", checkoutHandler.SetPaymentMethod)
			r.With(middleware.RateLimit(cfg.SubmitRateLimit, cfg.SubmitRateBurst, logger)).
				Post("/submit", checkoutHandler.Submit)
			r.Get("/confirmation", checkoutHandler.Confirmation)
		})
	})

	return r
}

// ContentTypeJSON enforces that requests with a body have Content-Type: application/json.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > 0 || r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if ct != "" && !strings.HasPrefix(ct, "application/json") {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnsupportedMediaType)
				_, _ = w.Write([]byte(`{"error":{"code":"UNSUPPORTED_MEDIA_TYPE","message":"Content-Type must be application/json"}}`))
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
