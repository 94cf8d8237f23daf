package middleware_test

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/mcschoo/Sparrow"
	"github.com/mcschoo/Sparrow/call"
	mw "github.com/mcschoo/Sparrow/middleware"
)

func setupTestTracer() (*tracetest.SpanRecorder, trace.Tracer) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	tracer := tp.Tracer("test")
	return sr, tracer
}

func newTestCall() *call.Call {
	return call.New("api", "http://coordinator:8011/dispatch", sparrow.Payload(`{"job":"x"}`))
}

func TestTracing_CreatesSpan(t *testing.T) {
	sr, tracer := setupTestTracer()
	m := mw.TracingWithTracer(tracer)
	c := newTestCall()

	_, err := m(context.Background(), c, func(_ context.Context) (sparrow.Payload, error) {
		return c.Payload, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}

	if spans[0].Name() != "sparrow.dispatch" {
		t.Errorf("expected span name %q, got %q", "sparrow.dispatch", spans[0].Name())
	}
}

func TestTracing_SpanAttributes(t *testing.T) {
	sr, tracer := setupTestTracer()
	m := mw.TracingWithTracer(tracer)
	c := newTestCall()

	_, _ = m(context.Background(), c, func(_ context.Context) (sparrow.Payload, error) {
		c.State = call.StateSucceeded
		return c.Payload, nil
	})

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}

	expected := map[string]string{
		"sparrow.dispatch.id":    c.ID.String(),
		"sparrow.service":        "api",
		"sparrow.target":         "http://coordinator:8011/dispatch",
		"sparrow.dispatch.state": "succeeded",
	}

	attrMap := make(map[string]string)
	for _, a := range spans[0].Attributes() {
		if a.Value.Type() == attribute.STRING {
			attrMap[string(a.Key)] = a.Value.AsString()
		}
	}

	for key, want := range expected {
		got, ok := attrMap[key]
		if !ok {
			t.Errorf("missing attribute %q", key)
			continue
		}
		if got != want {
			t.Errorf("attribute %q = %v, want %v", key, got, want)
		}
	}
}

func TestTracing_Success_SetsOkStatus(t *testing.T) {
	sr, tracer := setupTestTracer()
	m := mw.TracingWithTracer(tracer)

	_, _ = m(context.Background(), newTestCall(), func(_ context.Context) (sparrow.Payload, error) {
		return sparrow.Payload(`{}`), nil
	})

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Status().Code != codes.Ok {
		t.Errorf("expected status Ok, got %v", spans[0].Status().Code)
	}
}

func TestTracing_Error_RecordsError(t *testing.T) {
	sr, tracer := setupTestTracer()
	m := mw.TracingWithTracer(tracer)
	want := errors.New("connection refused")

	_, err := m(context.Background(), newTestCall(), func(_ context.Context) (sparrow.Payload, error) {
		return nil, want
	})
	if !errors.Is(err, want) {
		t.Fatalf("expected %v, got %v", want, err)
	}

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	span := spans[0]
	if span.Status().Code != codes.Error {
		t.Errorf("expected status Error, got %v", span.Status().Code)
	}
	if span.Status().Description != "connection refused" {
		t.Errorf("expected description %q, got %q", "connection refused", span.Status().Description)
	}

	found := false
	for _, evt := range span.Events() {
		if evt.Name == "exception" {
			found = true
			break
		}
	}
	if !found {
		t.Error("expected an exception event on the span")
	}
}

func TestTracing_PropagatesSpanContext(t *testing.T) {
	_, tracer := setupTestTracer()
	m := mw.TracingWithTracer(tracer)

	_, _ = m(context.Background(), newTestCall(), func(ctx context.Context) (sparrow.Payload, error) {
		if !trace.SpanContextFromContext(ctx).IsValid() {
			t.Error("expected a valid span context inside the handler")
		}
		return nil, nil
	})
}
