// Package coordinator implements the dispatch endpoint that the edge gateway
// forwards to.
//
// The default [Dispatcher] is [Echo], which hands the payload back
// unchanged. Real work plugs in through [WithDispatcher] while the HTTP
// contract stays the same: a JSON object in, a JSON value out, 422 for a body
// that is not a JSON object and 500 when the dispatcher fails or panics.
//
//	c := coordinator.New(sparrow.DefaultCoordinatorConfig(),
//	    coordinator.WithLogger(logger),
//	)
//	server.Run(ctx, server.Config{Addr: ":8011"}, c.Handler(), logger)
package coordinator
