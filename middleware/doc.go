// Package middleware provides composable middleware for dispatch calls.
//
// A [Middleware] is a function that wraps the handler performing a call.
// Middleware are composed into a chain using [Chain] and applied around
// every dispatch. They are applied right-to-left: the first middleware in the
// slice is the outermost wrapper.
//
//	// logging → metrics → recover → handler
//	chain := middleware.Chain(middleware.Logging(logger), middleware.Metrics(), middleware.Recover(logger))
//
// # Built-in Middleware
//
//   - [Logging]: logs call ID, target, duration and terminal state
//   - [Recover]: catches panics and converts them to errors
//   - [Timeout]: cancels the call context after the call's deadline
//   - [Tracing]: wraps the call in an OpenTelemetry span
//   - [Metrics]: records per-call duration and outcome counters
//
// # Writing Custom Middleware
//
//	func MyMiddleware() middleware.Middleware {
//	    return func(ctx context.Context, c *call.Call, next middleware.Handler) (sparrow.Payload, error) {
//	        // pre-processing
//	        out, err := next(ctx)
//	        // post-processing
//	        return out, err
//	    }
//	}
//
// Middleware MUST call next to continue the chain unless intentionally
// short-circuiting. A middleware that calls next more than once breaks the
// one-downstream-call-per-request contract of the forwarder.
package middleware
