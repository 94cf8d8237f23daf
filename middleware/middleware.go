package middleware

import (
	"context"

	"github.com/mcschoo/Sparrow"
	"github.com/mcschoo/Sparrow/call"
)

// Handler is the terminal function that performs the call.
type Handler func(ctx context.Context) (sparrow.Payload, error)

// Middleware wraps a Handler with cross-cutting logic.
// It receives the current context, the call being performed, and the
// next handler to call.
type Middleware func(ctx context.Context, c *call.Call, next Handler) (sparrow.Payload, error)

// Chain composes multiple middleware into a single Middleware.
// Middleware are applied right-to-left: the first middleware in the
// list is the outermost wrapper.
//
// Example: Chain(logging, recover, timeout) executes as:
//
//	logging → recover → timeout → handler
func Chain(mws ...Middleware) Middleware {
	return func(ctx context.Context, c *call.Call, next Handler) (sparrow.Payload, error) {
		h := next
		for i := len(mws) - 1; i >= 0; i-- {
			mw := mws[i]
			prev := h
			h = func(ctx context.Context) (sparrow.Payload, error) {
				return mw(ctx, c, prev)
			}
		}

		return h(ctx)
	}
}
