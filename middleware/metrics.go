package middleware

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/mcschoo/Sparrow"
	"github.com/mcschoo/Sparrow/call"
)

// meterName is the instrumentation scope name for gateway metrics.
const meterName = "github.com/mcschoo/Sparrow"

// Metrics returns middleware that records per-call metrics using the global
// OTel MeterProvider. If no MeterProvider is configured, noop instruments are
// used and this middleware becomes a pass-through.
//
// Instruments:
//   - sparrow.dispatch.duration (Float64Histogram): call time in seconds
//   - sparrow.dispatch.calls (Int64Counter): total calls
//
// Both carry the attributes service, status ("ok" or "error") and state
// (the call's terminal state).
func Metrics() Middleware {
	return MetricsWithMeter(otel.Meter(meterName))
}

// MetricsWithMeter returns metrics middleware using the provided meter.
func MetricsWithMeter(meter metric.Meter) Middleware {
	// On error the API returns noop instruments.
	duration, _ := meter.Float64Histogram(
		"sparrow.dispatch.duration",
		metric.WithDescription("Duration of dispatch calls in seconds"),
		metric.WithUnit("s"),
	)
	calls, _ := meter.Int64Counter(
		"sparrow.dispatch.calls",
		metric.WithDescription("Total number of dispatch calls"),
		metric.WithUnit("{call}"),
	)

	return func(ctx context.Context, c *call.Call, next Handler) (sparrow.Payload, error) {
		start := time.Now()
		out, err := next(ctx)
		elapsed := time.Since(start).Seconds()

		status := "ok"
		if err != nil {
			status = "error"
		}

		attrs := metric.WithAttributes(
			attribute.String("service", c.Service),
			attribute.String("status", status),
			attribute.String("state", string(c.State)),
		)

		// The request context may already be cancelled; recording must not
		// depend on it.
		recCtx := context.WithoutCancel(ctx)
		duration.Record(recCtx, elapsed, attrs)
		calls.Add(recCtx, 1, attrs)

		return out, err
	}
}
