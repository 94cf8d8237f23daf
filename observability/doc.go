// Package observability wires OpenTelemetry metrics to a Prometheus scrape
// endpoint.
//
// The dispatch middleware records through the global OTel MeterProvider. A
// service that wants those measurements exported calls [Setup] once at start
// and mounts [Provider.Handler] at GET /metrics:
//
//	p, err := observability.Setup("api")
//	if err != nil { ... }
//	defer p.Shutdown(ctx)
//	gw, err := edge.New(cfg, fwd, edge.WithMetricsHandler(p.Handler()))
//
// Metrics are registered on a private Prometheus registry, so nothing leaks
// into prometheus.DefaultRegisterer.
package observability
