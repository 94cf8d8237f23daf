package coordinator

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/mcschoo/Sparrow"
	"github.com/mcschoo/Sparrow/call"
	"github.com/mcschoo/Sparrow/ext"
	"github.com/mcschoo/Sparrow/forwarder"
	"github.com/mcschoo/Sparrow/health"
	"github.com/mcschoo/Sparrow/id"
	"github.com/mcschoo/Sparrow/middleware"
	"github.com/mcschoo/Sparrow/server"
)

// Coordinator serves the dispatch and health endpoints.
type Coordinator struct {
	cfg        sparrow.CoordinatorConfig
	dispatcher Dispatcher
	logger     *slog.Logger
	extra      []middleware.Middleware
	exts       []ext.Extension
	registry   *ext.Registry
	metrics    http.Handler
	mw         middleware.Middleware
}

// New creates a Coordinator. Without WithDispatcher it echoes payloads.
func New(cfg sparrow.CoordinatorConfig, opts ...Option) *Coordinator {
	if cfg.ServiceName == "" {
		cfg.ServiceName = sparrow.CoordinatorServiceName
	}
	c := &Coordinator{
		cfg:        cfg,
		dispatcher: Echo,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	mws := []middleware.Middleware{
		middleware.Logging(c.logger),
		middleware.Tracing(),
		middleware.Metrics(),
	}
	c.registry = ext.NewRegistry(c.logger)
	for _, e := range c.exts {
		c.registry.Register(e)
	}
	if len(c.exts) > 0 {
		mws = append(mws, c.registry.Middleware())
	}
	mws = append(mws, middleware.Recover(c.logger))
	c.mw = middleware.Chain(append(mws, c.extra...)...)

	return c
}

// Shutdown notifies extensions that the coordinator is stopping.
func (co *Coordinator) Shutdown(ctx context.Context) {
	co.registry.EmitShutdown(ctx)
}

// Handler returns the HTTP handler with all routes mounted.
func (co *Coordinator) Handler() http.Handler {
	r := server.NewEngine(co.logger)
	co.RegisterRoutes(r)

	return r
}

// RegisterRoutes mounts the coordinator routes on r.
func (co *Coordinator) RegisterRoutes(r gin.IRouter) {
	r.GET("/healthz", health.Handler(co.cfg.ServiceName))
	r.POST(forwarder.DispatchPath, co.handleDispatch)
	if co.metrics != nil {
		r.GET("/metrics", gin.WrapH(co.metrics))
	}
}

func (co *Coordinator) handleDispatch(gc *gin.Context) {
	raw, err := gc.GetRawData()
	if err != nil {
		gc.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})

		return
	}
	payload, err := sparrow.ParseObject(raw)
	if err != nil {
		gc.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})

		return
	}

	ctx := otel.GetTextMapPropagator().Extract(gc.Request.Context(), propagation.HeaderCarrier(gc.Request.Header))

	out, err := co.Dispatch(ctx, gc.GetHeader(forwarder.HeaderDispatchID), payload)
	if err != nil {
		_ = gc.Error(err)
		gc.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})

		return
	}
	gc.Data(http.StatusOK, "application/json", out)
}

// Dispatch runs the dispatcher for payload through the middleware chain.
// dispatchID is reused as the call ID when it is a valid dispatch TypeID,
// so both sides of a relay log the same identifier.
func (co *Coordinator) Dispatch(ctx context.Context, dispatchID string, payload sparrow.Payload) (sparrow.Payload, error) {
	c := call.New(co.cfg.ServiceName, forwarder.DispatchPath, payload)
	if parsed, err := id.ParseDispatchID(dispatchID); err == nil {
		c.ID = parsed
	}

	out, err := co.mw(ctx, c, func(ctx context.Context) (sparrow.Payload, error) {
		c.State = call.StateWaitingForResponse
		res, err := co.dispatcher.Dispatch(ctx, c.Payload)
		if err != nil {
			c.State = call.StateFailed

			return nil, err
		}
		if _, err := sparrow.ParseValue(res); err != nil {
			c.State = call.StateInvalidResponse

			return nil, fmt.Errorf("dispatcher returned invalid JSON: %w", err)
		}
		c.State = call.StateSucceeded

		return res, nil
	})
	if err != nil {
		if !c.State.Terminal() {
			c.State = call.StateFailed
		}

		return nil, err
	}

	return out, nil
}
