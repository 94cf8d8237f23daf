// Package forwarder relays dispatch payloads from the edge service to the
// coordinator.
//
// A [Forwarder] performs exactly one POST to "<base>/dispatch" per call,
// bounded by a fixed deadline (5 s by default) measured from call start to the
// last byte of the response. The coordinator's JSON body is returned
// verbatim. Every failure (dial errors, DNS, refused connections, timeouts,
// non-2xx statuses, non-JSON bodies) is returned as a *sparrow.UpstreamError,
// which matches sparrow.ErrBadGateway.
//
//	fwd := forwarder.New("http://coordinator:8011",
//	    forwarder.WithLogger(logger),
//	)
//	out, err := fwd.Forward(ctx, sparrow.Payload(`{"job":"x"}`))
//	if errors.Is(err, sparrow.ErrBadGateway) {
//	    // respond 502
//	}
//
// Calls are never retried, and the forwarder makes no idempotence guarantee:
// a client retrying a dispatch may cause duplicate coordinator effects.
//
// By default keep-alives are disabled so each call owns its connection for
// exactly the duration of that call. [WithKeepAlive] enables pooling; it does
// not change the one-call-per-request contract.
package forwarder
