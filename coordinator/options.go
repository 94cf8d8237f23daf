package coordinator

import (
	"log/slog"
	"net/http"

	"github.com/mcschoo/Sparrow/ext"
	"github.com/mcschoo/Sparrow/middleware"
)

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithDispatcher replaces the default Echo dispatcher.
func WithDispatcher(d Dispatcher) Option {
	return func(c *Coordinator) {
		if d != nil {
			c.dispatcher = d
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) { c.logger = logger }
}

// WithMiddleware appends middleware to the dispatch chain. They run inside
// logging, recover, tracing and metrics.
func WithMiddleware(mws ...middleware.Middleware) Option {
	return func(c *Coordinator) { c.extra = append(c.extra, mws...) }
}

// WithExtensions registers lifecycle extensions notified around every
// dispatch.
func WithExtensions(exts ...ext.Extension) Option {
	return func(c *Coordinator) { c.exts = append(c.exts, exts...) }
}

// WithMetricsHandler mounts h at GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(c *Coordinator) { c.metrics = h }
}
