// Package otaclient implements the resilient outbound client for OTA
// partner APIs. Every request runs through a composed reliability
// policy: per-partner rate limiting, circuit breaking, bounded retries
// with linear backoff, fallback stub responses, and metrics aggregation.
package otaclient

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/actyme/ota-partner-kit/pkg/circuitbreaker"
	"github.com/actyme/ota-partner-kit/pkg/config"
	"github.com/actyme/ota-partner-kit/pkg/metrics"
	"github.com/actyme/ota-partner-kit/pkg/partners"
	"github.com/actyme/ota-partner-kit/pkg/ratelimit"
	"github.com/actyme/ota-partner-kit/pkg/types"
)

// Client is the orchestrator and sole production entry point. It owns
// the partner registry, rate limiter, circuit breaker, and metrics
// aggregator; no other component bypasses it. A Client is safe for
// concurrent use, but the retry loop of a single logical request is
// strictly sequential.
type Client struct {
	cfg        *config.Config
	registry   *partners.Registry
	limiter    *ratelimit.Limiter
	breaker    *circuitbreaker.Breaker
	metrics    *metrics.Aggregator
	httpClient *http.Client
	logger     *zap.Logger

	// now and sleep are replaced in tests for deterministic timing.
	now   func() time.Time
	sleep func(time.Duration)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the transport used for outbound calls.
// Per-partner timeouts are enforced via request contexts, so the
// client's own Timeout can stay zero.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the structured logger. The default is a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithCollectors mirrors the aggregator's counters into the given
// Prometheus instruments.
func WithCollectors(collectors *metrics.Collectors) Option {
	return func(c *Client) { c.metrics.SetCollectors(collectors) }
}

// New builds a Client from the given configuration. Circuit breaker
// records are initialized closed for every configured partner; rate
// limiter windows are created lazily on first use.
func New(cfg *config.Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("otaclient: nil config")
	}

	partnerConfigs := make(map[types.Partner]partners.Config, len(cfg.Partners))
	limits := make(map[types.Partner]ratelimit.Limits, len(cfg.Partners))
	names := make([]types.Partner, 0, len(cfg.Partners))
	for name, pc := range cfg.Partners {
		partner := types.Partner(name)
		partnerConfigs[partner] = pc
		limits[partner] = ratelimit.Limits{
			RequestsPerMinute: pc.RateLimits.RequestsPerMinute,
			RequestsPerHour:   pc.RateLimits.RequestsPerHour,
		}
		names = append(names, partner)
	}

	c := &Client{
		cfg:      cfg,
		registry: partners.NewRegistry(partnerConfigs),
		limiter:  ratelimit.NewLimiter(limits),
		breaker: circuitbreaker.New(circuitbreaker.Config{
			FailureThreshold: cfg.Integration.CircuitBreakerThreshold,
			CoolDownUnit:     time.Minute,
			MaxCoolDown:      cfg.Integration.MaxCoolDown,
		}, names),
		metrics:    metrics.NewAggregator(),
		httpClient: &http.Client{},
		logger:     zap.NewNop(),
		now:        time.Now,
		sleep:      time.Sleep,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Request issues an outbound partner call under the full reliability
// policy. It resolves to either a live or a fallback response; the only
// error paths are a partner misconfiguration, which short-circuits
// before consuming a retry attempt, and exhausted retries with stub
// responses disabled.
func (c *Client) Request(ctx context.Context, partner types.Partner, endpoint string, params map[string]interface{}, opts *types.RequestOptions) (*types.StandardResponse, error) {
	if !c.cfg.FeatureFlags.EnableOTAIntegration {
		c.logger.Info("ota integration disabled, serving fallback",
			zap.String("partner", partner.String()),
			zap.String("endpoint", endpoint))
		return Stub(partner, endpoint, params, c.now()), nil
	}

	start := c.now()
	attempts := c.cfg.Integration.RetryAttempts
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		resp, err := c.attempt(ctx, partner, endpoint, params, opts)
		if err == nil {
			elapsed := c.now().Sub(start)
			c.breaker.RecordSuccess(partner)
			c.metrics.Record(partner, elapsed, true)
			c.logger.Debug("partner request succeeded",
				zap.String("partner", partner.String()),
				zap.String("endpoint", endpoint),
				zap.Int("attempt", attempt),
				zap.Duration("elapsed", elapsed))
			return resp, nil
		}

		var perr *types.PartnerError
		if errors.As(err, &perr) && perr.Code == types.ErrCodeUnconfigured {
			// Configuration defect, not a transient fault: no retry
			// attempt is consumed and no failure is recorded.
			return nil, err
		}

		lastErr = err
		c.breaker.RecordFailure(partner)
		c.metrics.Record(partner, c.now().Sub(start), false)

		fields := []zap.Field{
			zap.String("partner", partner.String()),
			zap.String("endpoint", endpoint),
			zap.Int("attempt", attempt),
			zap.Error(err),
		}
		if perr != nil {
			fields = append(fields,
				zap.String("code", string(perr.Code)),
				zap.Bool("retryable", perr.IsRetryable()))
		}
		c.logger.Warn("partner request failed", fields...)

		if attempt < attempts {
			c.sleep(c.cfg.Integration.RetryDelay * time.Duration(attempt))
		}
	}

	if c.cfg.Fallback.EnableStubResponses {
		c.logger.Info("serving fallback response",
			zap.String("partner", partner.String()),
			zap.String("endpoint", endpoint))
		return Stub(partner, endpoint, params, c.now()), nil
	}
	return nil, lastErr
}

// attempt runs the admission checks and, if both pass, one live request.
// Rate limiter first, circuit breaker second; either failing aborts this
// attempt, not the whole call.
func (c *Client) attempt(ctx context.Context, partner types.Partner, endpoint string, params map[string]interface{}, opts *types.RequestOptions) (*types.StandardResponse, error) {
	if err := c.limiter.CheckAndRecord(partner); err != nil {
		return nil, err
	}
	if err := c.breaker.Admit(partner); err != nil {
		return nil, err
	}
	return c.execute(ctx, partner, endpoint, params, opts)
}

// HealthCheck probes every configured partner with a lightweight GET
// /health request and reports aggregated status alongside the current
// metrics snapshot. Overall is healthy only when every probe succeeded.
func (c *Client) HealthCheck(ctx context.Context) *types.HealthReport {
	report := &types.HealthReport{
		Overall:  types.HealthStatusHealthy,
		Partners: make(map[types.Partner]types.PartnerHealth),
	}

	for _, partner := range c.registry.Partners() {
		start := c.now()
		_, err := c.Request(ctx, partner, "/health", nil, nil)
		checked := c.now()
		if err != nil {
			report.Partners[partner] = types.PartnerHealth{
				Status:      types.HealthStatusUnhealthy,
				Error:       err.Error(),
				LastChecked: checked,
			}
			report.Overall = types.HealthStatusDegraded
			continue
		}
		report.Partners[partner] = types.PartnerHealth{
			Status:         types.HealthStatusHealthy,
			ResponseTimeMS: checked.Sub(start).Milliseconds(),
			LastChecked:    checked,
		}
	}

	report.Metrics = c.Metrics()
	return report
}

// Metrics returns the current metrics snapshot including per-partner
// circuit breaker state.
func (c *Client) Metrics() types.MetricsSnapshot {
	snap := c.metrics.Snapshot()
	snap.CircuitBreakers = c.breaker.Snapshot()
	return snap
}
