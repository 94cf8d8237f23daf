package ext

import (
	"context"
	"log/slog"
	"time"

	"github.com/mcschoo/Sparrow"
	"github.com/mcschoo/Sparrow/call"
	"github.com/mcschoo/Sparrow/middleware"
)

// Named entry types pair a hook with the extension name captured at
// registration time.
type startedEntry struct {
	name string
	hook DispatchStarted
}

type completedEntry struct {
	name string
	hook DispatchCompleted
}

type failedEntry struct {
	name string
	hook DispatchFailed
}

type shutdownEntry struct {
	name string
	hook Shutdown
}

// Registry holds registered extensions and fans lifecycle events out to
// them. Register every extension before the registry's middleware serves
// traffic; emitting is then safe for concurrent use.
type Registry struct {
	extensions []Extension
	logger     *slog.Logger

	started   []startedEntry
	completed []completedEntry
	failed    []failedEntry
	shutdown  []shutdownEntry
}

// NewRegistry creates an extension registry with the given logger.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}

	return &Registry{logger: logger}
}

// Register adds an extension and caches it under every hook it implements.
// Extensions are notified in registration order.
func (r *Registry) Register(e Extension) {
	r.extensions = append(r.extensions, e)
	name := e.Name()

	if h, ok := e.(DispatchStarted); ok {
		r.started = append(r.started, startedEntry{name, h})
	}
	if h, ok := e.(DispatchCompleted); ok {
		r.completed = append(r.completed, completedEntry{name, h})
	}
	if h, ok := e.(DispatchFailed); ok {
		r.failed = append(r.failed, failedEntry{name, h})
	}
	if h, ok := e.(Shutdown); ok {
		r.shutdown = append(r.shutdown, shutdownEntry{name, h})
	}
}

// Extensions returns all registered extensions.
func (r *Registry) Extensions() []Extension { return r.extensions }

// EmitDispatchStarted notifies all extensions that implement DispatchStarted.
func (r *Registry) EmitDispatchStarted(ctx context.Context, c *call.Call) {
	for _, e := range r.started {
		if err := e.hook.OnDispatchStarted(ctx, c); err != nil {
			r.logHookError("OnDispatchStarted", e.name, err)
		}
	}
}

// EmitDispatchCompleted notifies all extensions that implement DispatchCompleted.
func (r *Registry) EmitDispatchCompleted(ctx context.Context, c *call.Call, elapsed time.Duration) {
	for _, e := range r.completed {
		if err := e.hook.OnDispatchCompleted(ctx, c, elapsed); err != nil {
			r.logHookError("OnDispatchCompleted", e.name, err)
		}
	}
}

// EmitDispatchFailed notifies all extensions that implement DispatchFailed.
func (r *Registry) EmitDispatchFailed(ctx context.Context, c *call.Call, callErr error) {
	for _, e := range r.failed {
		if err := e.hook.OnDispatchFailed(ctx, c, callErr); err != nil {
			r.logHookError("OnDispatchFailed", e.name, err)
		}
	}
}

// EmitShutdown notifies all extensions that implement Shutdown.
func (r *Registry) EmitShutdown(ctx context.Context) {
	for _, e := range r.shutdown {
		if err := e.hook.OnShutdown(ctx); err != nil {
			r.logHookError("OnShutdown", e.name, err)
		}
	}
}

// Middleware emits the dispatch hooks around every call it wraps. Hook
// errors are logged and never change the call's outcome.
func (r *Registry) Middleware() middleware.Middleware {
	return func(ctx context.Context, c *call.Call, next middleware.Handler) (sparrow.Payload, error) {
		r.EmitDispatchStarted(ctx, c)

		start := time.Now()
		out, err := next(ctx)

		hookCtx := context.WithoutCancel(ctx)
		if err != nil {
			r.EmitDispatchFailed(hookCtx, c, err)
		} else {
			r.EmitDispatchCompleted(hookCtx, c, time.Since(start))
		}

		return out, err
	}
}

// logHookError logs a warning when a lifecycle hook returns an error.
func (r *Registry) logHookError(hook, extName string, err error) {
	r.logger.Warn("extension hook error",
		slog.String("hook", hook),
		slog.String("extension", extName),
		slog.String("error", err.Error()),
	)
}
