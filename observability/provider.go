package observability

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

// Provider owns the meter provider and the registry it exports to.
type Provider struct {
	registry *prometheus.Registry
	meters   *sdkmetric.MeterProvider
}

// New builds a Provider for service without touching global OTel state.
// The registry also carries the Go runtime and process collectors.
func New(service string) (*Provider, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	exporter, err := otelprom.New(otelprom.WithRegisterer(reg))
	if err != nil {
		return nil, fmt.Errorf("observability: prometheus exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(resource.NewSchemaless(
			attribute.String("service.name", service),
		)),
	)

	return &Provider{registry: reg, meters: mp}, nil
}

// Setup builds a Provider and installs it as the global MeterProvider,
// along with W3C trace-context propagation.
func Setup(service string) (*Provider, error) {
	p, err := New(service)
	if err != nil {
		return nil, err
	}
	p.Install()

	return p, nil
}

// Install makes p the global MeterProvider and enables trace-context
// propagation for outbound and inbound dispatch calls.
func (p *Provider) Install() {
	otel.SetMeterProvider(p.meters)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
}

// Meter returns a meter from the provider.
func (p *Provider) Meter(name string) metric.Meter { return p.meters.Meter(name) }

// Registry returns the Prometheus registry metrics are exported to.
func (p *Provider) Registry() *prometheus.Registry { return p.registry }

// Handler serves the registry in the Prometheus exposition format.
func (p *Provider) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// Shutdown flushes and stops the meter provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	if err := p.meters.Shutdown(ctx); err != nil {
		return fmt.Errorf("observability: shutdown: %w", err)
	}

	return nil
}
