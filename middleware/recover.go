package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/mcschoo/Sparrow"
	"github.com/mcschoo/Sparrow/call"
)

// Recover returns middleware that recovers from panics in the handler chain.
// Panics are converted to errors and logged with a stack trace, and a call
// left in a non-terminal state is marked failed. Place it inside Metrics and
// extension hooks so they observe the recovered failure.
func Recover(logger *slog.Logger) Middleware {
	return func(ctx context.Context, c *call.Call, next Handler) (out sparrow.Payload, retErr error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("dispatch handler panicked",
					slog.String("dispatch_id", c.ID.String()),
					slog.String("service", c.Service),
					slog.Any("panic", r),
					slog.String("stack", string(debug.Stack())),
				)
				if !c.State.Terminal() {
					c.State = call.StateFailed
				}
				out = nil
				retErr = fmt.Errorf("panic in dispatch %s: %v", c.ID, r)
			}
		}()

		return next(ctx)
	}
}
