package call

import (
	"time"

	"github.com/mcschoo/Sparrow"
	"github.com/mcschoo/Sparrow/id"
)

// State is a step of a single dispatch call's lifecycle.
//
//	Idle → Connecting → WaitingForResponse → {Succeeded | TimedOut | TransportError | UpstreamErrorStatus | InvalidResponse}
type State string

const (
	StateIdle               State = "idle"
	StateConnecting         State = "connecting"
	StateWaitingForResponse State = "waiting_for_response"
	StateSucceeded          State = "succeeded"
	StateTimedOut           State = "timed_out"
	StateTransportError     State = "transport_error"
	StateUpstreamErrorCode  State = "upstream_error_status"
	StateInvalidResponse    State = "invalid_response"

	// StateFailed is reached when an in-process dispatcher returns an error.
	StateFailed State = "failed"
)

// Terminal reports whether no further transition can happen from s.
func (s State) Terminal() bool {
	switch s {
	case StateSucceeded, StateTimedOut, StateTransportError, StateUpstreamErrorCode, StateInvalidResponse, StateFailed:
		return true
	default:
		return false
	}
}

// StateFor maps the outcome of a call to its terminal state.
func StateFor(err error) State {
	if err == nil {
		return StateSucceeded
	}
	switch sparrow.KindOf(err) {
	case sparrow.KindTimeout:
		return StateTimedOut
	case sparrow.KindStatus:
		return StateUpstreamErrorCode
	case sparrow.KindInvalidResponse:
		return StateInvalidResponse
	default:
		return StateTransportError
	}
}

// Call is one relay of a payload to a downstream service.
type Call struct {
	ID      id.ID           `json:"id"`
	Service string          `json:"service"`
	Target  string          `json:"target"`
	Payload sparrow.Payload `json:"payload"`
	Timeout time.Duration   `json:"timeout,omitempty"`

	// State is advanced by the component performing the call. Middleware
	// read it after next returns to learn the terminal state.
	State State `json:"state"`
}

// New creates an idle Call with a fresh dispatch ID.
func New(service, target string, payload sparrow.Payload) *Call {
	return &Call{
		ID:      id.NewDispatchID(),
		Service: service,
		Target:  target,
		Payload: payload,
		State:   StateIdle,
	}
}
