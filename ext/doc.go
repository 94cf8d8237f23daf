// Package ext defines the extension system for dispatch calls.
//
// Extensions are notified of call lifecycle events and can react to them:
// writing audit records, feeding external counters, alerting on failures.
// Each hook is a separate interface so extensions opt in only to the events
// they care about.
//
// # Implementing an Extension
//
//	type auditTrail struct{ log *slog.Logger }
//
//	func (a *auditTrail) Name() string { return "audit-trail" }
//
//	func (a *auditTrail) OnDispatchFailed(ctx context.Context, c *call.Call, err error) error {
//	    a.log.Warn("dispatch failed", "id", c.ID, "state", c.State, "error", err)
//	    return nil
//	}
//
// # Hooks
//
//   - [DispatchStarted]: the call is about to run
//   - [DispatchCompleted]: the call returned a payload
//   - [DispatchFailed]: the call returned an error
//   - [Shutdown]: the owning service is stopping
//
// The [Registry] fans out each event to the registered extensions that
// implement the matching hook. [Registry.Middleware] plugs it into a
// forwarder or coordinator chain.
package ext
