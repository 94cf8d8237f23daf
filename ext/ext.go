package ext

import (
	"context"
	"time"

	"github.com/mcschoo/Sparrow/call"
)

// Extension is the base interface all extensions must implement.
type Extension interface {
	// Name returns a unique human-readable name for the extension.
	Name() string
}

// DispatchStarted is called before a call runs.
type DispatchStarted interface {
	OnDispatchStarted(ctx context.Context, c *call.Call) error
}

// DispatchCompleted is called after a call returns a payload.
type DispatchCompleted interface {
	OnDispatchCompleted(ctx context.Context, c *call.Call, elapsed time.Duration) error
}

// DispatchFailed is called after a call returns an error. c.State holds the
// terminal state when the performing component set one.
type DispatchFailed interface {
	OnDispatchFailed(ctx context.Context, c *call.Call, err error) error
}

// Shutdown is called when the owning service stops.
type Shutdown interface {
	OnShutdown(ctx context.Context) error
}
