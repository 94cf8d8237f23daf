package middleware

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mcschoo/Sparrow"
	"github.com/mcschoo/Sparrow/call"
)

// tracerName is the instrumentation scope name for gateway tracing.
const tracerName = "github.com/mcschoo/Sparrow"

// Tracing returns middleware that wraps a call in an OpenTelemetry span.
// If no TracerProvider is configured globally, the default noop tracer is used
// and this middleware becomes a pass-through.
//
// Span attributes: sparrow.dispatch.id, sparrow.service, sparrow.target and,
// once the call returns, sparrow.dispatch.state.
func Tracing() Middleware {
	return TracingWithTracer(otel.Tracer(tracerName))
}

// TracingWithTracer returns tracing middleware using the provided tracer.
func TracingWithTracer(tracer trace.Tracer) Middleware {
	return func(ctx context.Context, c *call.Call, next Handler) (sparrow.Payload, error) {
		ctx, span := tracer.Start(ctx, "sparrow.dispatch",
			trace.WithAttributes(
				attribute.String("sparrow.dispatch.id", c.ID.String()),
				attribute.String("sparrow.service", c.Service),
				attribute.String("sparrow.target", c.Target),
			),
			trace.WithSpanKind(trace.SpanKindInternal),
		)
		defer span.End()

		out, err := next(ctx)
		span.SetAttributes(attribute.String("sparrow.dispatch.state", string(c.State)))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}

		return out, err
	}
}
