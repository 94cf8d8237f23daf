// Package sparrow provides a two-tier request-dispatch gateway: a public
// edge service that relays client dispatch requests to an internal
// coordinator service and translates every downstream failure into a
// single Bad Gateway error.
//
// The root package holds the values shared by both tiers: the immutable
// configuration read once at process start, the opaque JSON [Payload]
// relayed between them, and the error taxonomy.
//
// # Quick Start
//
//	cfg, err := sparrow.LoadEdgeConfig(os.LookupEnv)
//	fwd := forwarder.New(cfg.CoordinatorBaseURL,
//	    forwarder.WithTimeout(cfg.DispatchTimeout),
//	)
//	gw, err := edge.New(cfg, fwd)
//	http.ListenAndServe(cfg.ListenAddr, gw.Handler())
//
// # Architecture
//
// The edge ([edge]) owns CORS, the outbound client to the coordinator
// ([forwarder]) and the mapping of downstream failures to HTTP 502. The
// coordinator ([coordinator]) receives one JSON object and returns one JSON
// value; its default behavior echoes the payload back. Each forwarded call
// runs through a composable [middleware] chain (logging, panic recovery,
// deadline, tracing, metrics) and is tagged with a TypeID from [id].
//
// Dispatch calls are never retried. The gateway makes no idempotence
// guarantee of its own: a client that retries a dispatch may cause duplicate
// downstream effects if the coordinator is not idempotent for that payload.
package sparrow
