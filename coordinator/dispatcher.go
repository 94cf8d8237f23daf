package coordinator

import (
	"context"

	"github.com/mcschoo/Sparrow"
)

// Dispatcher processes one dispatch request.
type Dispatcher interface {
	Dispatch(ctx context.Context, payload sparrow.Payload) (sparrow.Payload, error)
}

// DispatcherFunc adapts a function to the Dispatcher interface.
type DispatcherFunc func(ctx context.Context, payload sparrow.Payload) (sparrow.Payload, error)

// Dispatch calls f.
func (f DispatcherFunc) Dispatch(ctx context.Context, payload sparrow.Payload) (sparrow.Payload, error) {
	return f(ctx, payload)
}

// Echo returns every payload unchanged.
var Echo Dispatcher = DispatcherFunc(func(_ context.Context, payload sparrow.Payload) (sparrow.Payload, error) {
	return payload, nil
})
