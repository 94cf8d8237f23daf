package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/mcschoo/Sparrow"
	"github.com/mcschoo/Sparrow/call"
)

// Logging returns middleware that logs call start and completion.
func Logging(logger *slog.Logger) Middleware {
	return func(ctx context.Context, c *call.Call, next Handler) (sparrow.Payload, error) {
		logger.Debug("dispatch started",
			slog.String("dispatch_id", c.ID.String()),
			slog.String("target", c.Target),
			slog.Int("payload_bytes", len(c.Payload)),
		)

		start := time.Now()
		out, err := next(ctx)
		elapsed := time.Since(start)

		if err != nil {
			logger.Error("dispatch failed",
				slog.String("dispatch_id", c.ID.String()),
				slog.String("target", c.Target),
				slog.String("state", string(c.State)),
				slog.Duration("elapsed", elapsed),
				slog.String("error", err.Error()),
			)
		} else {
			logger.Info("dispatch completed",
				slog.String("dispatch_id", c.ID.String()),
				slog.String("target", c.Target),
				slog.Duration("elapsed", elapsed),
				slog.Int("response_bytes", len(out)),
			)
		}

		return out, err
	}
}
