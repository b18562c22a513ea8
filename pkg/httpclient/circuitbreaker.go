package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sony/gobreaker/v2"
)

// CircuitBreakerConfig tunes when an upstream circuit trips and recovers.
type CircuitBreakerConfig struct {
	// Name labels the circuit in logs and metrics.
	Name string

	// MaxRequests caps probe requests while half-open. Zero allows one.
	MaxRequests uint32

	// Interval resets the closed-state counters periodically. Zero keeps
	// counting until the circuit trips.
	Interval time.Duration

	// Timeout is the open-state cooldown before the circuit half-opens.
	Timeout time.Duration

	// FailureRatio trips the circuit once failures/requests reaches it.
	FailureRatio float64

	// MinRequests is the sample size required before the ratio is checked,
	// so a single cold-start failure cannot trip the circuit.
	MinRequests uint32
}

// DefaultCircuitBreakerConfig returns the tuning used for upstream calls:
// trip at half the requests failing over a 5-request sample, cool down for
// 30 seconds, probe one request at a time.
func DefaultCircuitBreakerConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:         name,
		MaxRequests:  1,
		Interval:     60 * time.Second,
		Timeout:      30 * time.Second,
		FailureRatio: 0.5,
		MinRequests:  5,
	}
}

// FallbackFunc substitutes a response while the circuit is open. It receives
// ErrCircuitOpen and may return a canned response or a translated error.
type FallbackFunc func(ctx context.Context, err error) (*http.Response, error)

var (
	breakerStateGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "upstream_circuit_state",
			Help: "State of the upstream circuit (0=closed, 1=half-open, 2=open)",
		},
		[]string{"upstream"},
	)

	breakerFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_circuit_fallbacks_total",
			Help: "Requests answered by the open-circuit fallback",
		},
		[]string{"upstream"},
	)
)

// gaugeValue maps a gobreaker state onto the state gauge.
func gaugeValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// CircuitBreakerClient guards a Client with a gobreaker circuit so a failing
// upstream sheds load instead of eating retries.
type CircuitBreakerClient struct {
	client   *Client
	breaker  *gobreaker.CircuitBreaker[*http.Response]
	logger   *slog.Logger
	fallback FallbackFunc
	name     string
}

// NewCircuitBreakerClient wraps client in a circuit configured by cbCfg.
// State transitions are logged and exported on the state gauge.
func NewCircuitBreakerClient(client *Client, cbCfg CircuitBreakerConfig, logger *slog.Logger) *CircuitBreakerClient {
	settings := gobreaker.Settings{
		Name:        cbCfg.Name,
		MaxRequests: cbCfg.MaxRequests,
		Interval:    cbCfg.Interval,
		Timeout:     cbCfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= cbCfg.MinRequests &&
				float64(counts.TotalFailures) >= cbCfg.FailureRatio*float64(counts.Requests)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("upstream circuit changed state",
				slog.String("upstream", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
			breakerStateGauge.WithLabelValues(name).Set(gaugeValue(to))
		},
	}

	breakerStateGauge.WithLabelValues(cbCfg.Name).Set(gaugeValue(gobreaker.StateClosed))

	return &CircuitBreakerClient{
		client:  client,
		breaker: gobreaker.NewCircuitBreaker[*http.Response](settings),
		logger:  logger,
		name:    cbCfg.Name,
	}
}

// WithFallback returns a copy of the client that answers open-circuit
// rejections through fn instead of surfacing ErrCircuitOpen.
func (c *CircuitBreakerClient) WithFallback(fn FallbackFunc) *CircuitBreakerClient {
	cpy := *c
	cpy.fallback = fn
	return &cpy
}

// ErrCircuitOpen is returned when the circuit rejects a request outright.
var ErrCircuitOpen = gobreaker.ErrOpenState

// Do sends the request through the circuit. A 5xx response counts as a
// failure and is consumed; other responses pass through untouched.
func (c *CircuitBreakerClient) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		resp, err := c.client.Do(ctx, req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= 500 {
			body, readErr := io.ReadAll(resp.Body)
			if readErr != nil {
				body = nil
			}
			_ = resp.Body.Close()
			return nil, fmt.Errorf("server error %d: %s", resp.StatusCode, string(body))
		}
		return resp, nil
	})
	if errors.Is(err, ErrCircuitOpen) && c.fallback != nil {
		breakerFallbacksTotal.WithLabelValues(c.name).Inc()
		c.logger.WarnContext(ctx, "upstream circuit open, serving fallback",
			slog.String("upstream", c.name),
		)
		return c.fallback(ctx, err)
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Get issues a GET through the circuit.
func (c *CircuitBreakerClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create GET request: %w", err)
	}
	return c.Do(ctx, req)
}

// Post issues a POST through the circuit.
func (c *CircuitBreakerClient) Post(ctx context.Context, url string, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("create POST request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	return c.Do(ctx, req)
}

// State exposes the current circuit state, used by readiness checks.
func (c *CircuitBreakerClient) State() gobreaker.State {
	return c.breaker.State()
}
