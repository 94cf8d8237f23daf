package sparrow

import (
	"errors"
	"fmt"
)

var (
	// ErrBadGateway is the single error kind reported for any failed dispatch
	// to the coordinator. Every *UpstreamError matches it with errors.Is.
	ErrBadGateway = errors.New("sparrow: bad gateway")

	// ErrInvalidPayload is returned when a request body is not a JSON object.
	ErrInvalidPayload = errors.New("sparrow: payload must be a JSON object")

	// ErrInvalidConfig is returned when start-up configuration cannot be parsed.
	ErrInvalidConfig = errors.New("sparrow: invalid configuration")
)

// UpstreamKind classifies why a dispatch to the coordinator failed. It is
// diagnostic only: every kind surfaces to clients as the same Bad Gateway.
type UpstreamKind string

const (
	// KindUnavailable covers dial, DNS, refused connections, malformed
	// addresses, broken bodies and caller cancellation.
	KindUnavailable UpstreamKind = "unavailable"
	// KindTimeout means the dispatch deadline elapsed before the response
	// was fully read.
	KindTimeout UpstreamKind = "timeout"
	// KindStatus means the coordinator answered with a non-success status.
	KindStatus UpstreamKind = "status"
	// KindInvalidResponse means a success status carried a body that is not JSON.
	KindInvalidResponse UpstreamKind = "invalid_response"
)

// UpstreamError wraps a failed coordinator call.
type UpstreamError struct {
	Kind       UpstreamKind
	StatusCode int
	Err        error
}

// Error returns a human-readable description of the underlying failure.
func (e *UpstreamError) Error() string {
	switch e.Kind {
	case KindStatus:
		if e.Err != nil {
			return fmt.Sprintf("coordinator returned status %d: %v", e.StatusCode, e.Err)
		}

		return fmt.Sprintf("coordinator returned status %d", e.StatusCode)
	case KindTimeout:
		return fmt.Sprintf("coordinator timed out: %v", e.Err)
	case KindInvalidResponse:
		return fmt.Sprintf("coordinator returned invalid JSON: %v", e.Err)
	default:
		return fmt.Sprintf("coordinator unreachable: %v", e.Err)
	}
}

// Unwrap returns the underlying cause.
func (e *UpstreamError) Unwrap() error { return e.Err }

// Is reports whether target is ErrBadGateway.
func (e *UpstreamError) Is(target error) bool { return target == ErrBadGateway }

// KindOf returns the UpstreamKind carried by err, or "" when err is not an
// *UpstreamError.
func KindOf(err error) UpstreamKind {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue.Kind
	}

	return ""
}
