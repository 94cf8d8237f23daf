// Package call defines the unit of work that flows through the dispatch
// middleware chain: one relay of a JSON payload to a downstream service.
//
// A [Call] is created per inbound dispatch, handed to every middleware, and
// discarded when the response (or error) is returned. Calls are never
// persisted, queued or retried.
package call
