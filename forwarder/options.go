package forwarder

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/mcschoo/Sparrow/ext"
	"github.com/mcschoo/Sparrow/middleware"
)

// Option configures a Forwarder.
type Option func(*Forwarder)

// WithTimeout sets the per-call deadline. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(f *Forwarder) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithHTTPClient replaces the outbound HTTP client. The client's own Timeout,
// if any, applies in addition to the forwarder deadline.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Forwarder) { f.client = c }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Forwarder) { f.logger = logger }
}

// WithMiddleware appends middleware to the default chain. They run inside
// logging, tracing, metrics, extension hooks and recover, and outside the
// deadline.
func WithMiddleware(mws ...Middleware) Option {
	return func(f *Forwarder) { f.extra = append(f.extra, mws...) }
}

// WithExtensions registers lifecycle extensions notified around every call.
func WithExtensions(exts ...ext.Extension) Option {
	return func(f *Forwarder) { f.exts = append(f.exts, exts...) }
}

// WithKeepAlive enables connection reuse across calls.
func WithKeepAlive() Option {
	return func(f *Forwarder) { f.keepAlive = true }
}

// WithServiceName sets the service name recorded on logs, spans and metrics.
func WithServiceName(name string) Option {
	return func(f *Forwarder) { f.service = name }
}

// Middleware is re-exported so callers need not import the middleware package
// to extend the chain.
type Middleware = middleware.Middleware
