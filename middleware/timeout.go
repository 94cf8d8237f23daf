package middleware

import (
	"context"
	"log/slog"

	"github.com/mcschoo/Sparrow"
	"github.com/mcschoo/Sparrow/call"
)

// Timeout returns middleware that enforces a per-call deadline. If the call
// has a non-zero Timeout, a context.WithTimeout wraps the handler call and is
// released when the handler returns, so the deadline covers reading the full
// response.
func Timeout(logger *slog.Logger) Middleware {
	return func(ctx context.Context, c *call.Call, next Handler) (sparrow.Payload, error) {
		if c.Timeout > 0 {
			logger.Debug("dispatch timeout set",
				slog.String("dispatch_id", c.ID.String()),
				slog.Duration("timeout", c.Timeout),
			)
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, c.Timeout)
			defer cancel()
		}

		return next(ctx)
	}
}
