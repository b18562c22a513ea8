package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/guscassiano/eplay/pkg/config"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort        int           `env:"STOREFRONT_HTTP_PORT" envDefault:"8080"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`

	// Remote product/order API
	StoreAPIURL     string        `env:"STORE_API_URL" envDefault:"http://localhost:9000"`
	StoreAPITimeout time.Duration `env:"STORE_API_TIMEOUT" envDefault:"10s"`

	// Redis (session cart, checkout form, confirmations)
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Session state TTLs
	SessionTTL      time.Duration `env:"SESSION_TTL" envDefault:"168h"`
	CartTTL         time.Duration `env:"CART_TTL" envDefault:"168h"`
	FormTTL         time.Duration `env:"CHECKOUT_FORM_TTL" envDefault:"24h"`
	ConfirmationTTL time.Duration `env:"CONFIRMATION_TTL" envDefault:"1h"`
	SubmitLockTTL   time.Duration `env:"SUBMIT_LOCK_TTL" envDefault:"30s"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Checkout submission rate limit (token bucket per session)
	SubmitRateLimit float64 `env:"SUBMIT_RATE_LIMIT" envDefault:"1"`
	SubmitRateBurst int     `env:"SUBMIT_RATE_BURST" envDefault:"3"`

	// Catalog response caching (Cache-Control max-age)
	CatalogCacheMaxAge time.Duration `env:"CATALOG_CACHE_MAX_AGE" envDefault:"60s"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// Tracing
	OTelEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTelEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTelSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`

	// pprof
	PprofEnabled      bool     `env:"PPROF_ENABLED" envDefault:"false"`
	PprofAllowedCIDRs []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"127.0.0.1/32" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.StoreAPIURL == "" {
		return fmt.Errorf("STORE_API_URL must not be empty")
	}
	if c.OTelSampleRate < 0 || c.OTelSampleRate > 1 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be in [0,1], got %v", c.OTelSampleRate)
	}
	return nil
}
