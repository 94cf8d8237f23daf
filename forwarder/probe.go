package forwarder

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/mcschoo/Sparrow/backoff"
	"github.com/mcschoo/Sparrow/health"
)

// HealthPath is the liveness endpoint polled by a Prober.
const HealthPath = "/healthz"

// Prober checks whether a service answers its liveness endpoint. It is used
// for start-up ordering and container health checks, never on the dispatch
// path.
type Prober struct {
	target  string
	timeout time.Duration
	client  *http.Client
	logger  *slog.Logger
	sleep   func(ctx context.Context, d time.Duration) error
}

// ProbeOption configures a Prober.
type ProbeOption func(*Prober)

// WithProbeTimeout bounds each individual probe.
func WithProbeTimeout(d time.Duration) ProbeOption {
	return func(p *Prober) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithProbeClient replaces the HTTP client.
func WithProbeClient(c *http.Client) ProbeOption {
	return func(p *Prober) { p.client = c }
}

// WithProbeLogger sets the structured logger.
func WithProbeLogger(logger *slog.Logger) ProbeOption {
	return func(p *Prober) { p.logger = logger }
}

// NewProber creates a Prober for the service at baseURL.
func NewProber(baseURL string, opts ...ProbeOption) *Prober {
	p := &Prober{
		target:  JoinPath(baseURL, HealthPath),
		timeout: 2 * time.Second,
		logger:  slog.Default(),
		sleep:   sleepContext,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.client == nil {
		p.client = &http.Client{Transport: newTransport(false)}
	}
	p.client = withoutRedirects(p.client)

	return p
}

// Probe performs one GET of the liveness endpoint.
func (p *Prober) Probe(ctx context.Context) (health.Report, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.target, nil)
	if err != nil {
		return health.Report{}, fmt.Errorf("probe %s: %w", p.target, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return health.Report{}, fmt.Errorf("probe %s: %w", p.target, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return health.Report{}, fmt.Errorf("probe %s: status %d", p.target, resp.StatusCode)
	}

	var report health.Report
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return health.Report{}, fmt.Errorf("probe %s: decode: %w", p.target, err)
	}
	if report.Status != health.StatusOK {
		return report, fmt.Errorf("probe %s: status %q", p.target, report.Status)
	}

	return report, nil
}

// WaitReady probes up to attempts times, sleeping strategy.Delay(n) between
// failed attempts, and returns the first healthy report. A nil strategy
// means backoff.DefaultStrategy.
func (p *Prober) WaitReady(ctx context.Context, strategy backoff.Strategy, attempts int) (health.Report, error) {
	if attempts < 1 {
		attempts = 1
	}
	if strategy == nil {
		strategy = backoff.DefaultStrategy()
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		report, err := p.Probe(ctx)
		if err == nil {
			p.logger.Info("service ready",
				slog.String("target", p.target),
				slog.String("service", report.Service),
				slog.Int("attempt", attempt),
			)

			return report, nil
		}
		lastErr = err

		if attempt == attempts {
			break
		}
		delay := strategy.Delay(attempt)
		p.logger.Warn("service not ready",
			slog.String("target", p.target),
			slog.Int("attempt", attempt),
			slog.Duration("retry_in", delay),
			slog.String("error", err.Error()),
		)
		if sleepErr := p.sleep(ctx, delay); sleepErr != nil {
			return health.Report{}, fmt.Errorf("wait for %s: %w", p.target, sleepErr)
		}
	}

	return health.Report{}, fmt.Errorf("wait for %s: gave up after %d attempts: %w", p.target, attempts, lastErr)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
