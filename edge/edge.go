package edge

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/mcschoo/Sparrow"
	"github.com/mcschoo/Sparrow/forwarder"
	"github.com/mcschoo/Sparrow/health"
	"github.com/mcschoo/Sparrow/server"
)

// DetailPrefix starts the detail of every 502 response.
const DetailPrefix = "Coordinator dispatch failed: "

// Forwarder relays a payload to the coordinator.
type Forwarder interface {
	Forward(ctx context.Context, payload sparrow.Payload) (sparrow.Payload, error)
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gateway) { g.logger = logger }
}

// WithMetricsHandler mounts h at GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(g *Gateway) { g.metrics = h }
}

// WithForwarderOptions passes options to the forwarder built by
// NewFromConfig. New ignores them.
func WithForwarderOptions(opts ...forwarder.Option) Option {
	return func(g *Gateway) { g.fwdOpts = append(g.fwdOpts, opts...) }
}

// Gateway serves the edge routes.
type Gateway struct {
	cfg     sparrow.EdgeConfig
	fwd     Forwarder
	logger  *slog.Logger
	metrics http.Handler
	fwdOpts []forwarder.Option
	engine  *gin.Engine
}

// New builds a Gateway around fwd. It fails when the origin allow-list
// holds an entry the CORS layer cannot use.
func New(cfg sparrow.EdgeConfig, fwd Forwarder, opts ...Option) (*Gateway, error) {
	if cfg.ServiceName == "" {
		cfg.ServiceName = sparrow.EdgeServiceName
	}
	g := &Gateway{
		cfg:    cfg,
		fwd:    fwd,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}

	corsCfg, err := CORSConfig(cfg.AllowedOrigins)
	if err != nil {
		return nil, err
	}

	r := server.NewEngine(g.logger)
	r.Use(cors.New(corsCfg))
	g.RegisterRoutes(r)
	g.engine = r

	return g, nil
}

// NewFromConfig builds a Gateway with a forwarder pointed at
// cfg.CoordinatorBaseURL.
func NewFromConfig(cfg sparrow.EdgeConfig, logger *slog.Logger, opts ...Option) (*Gateway, error) {
	pre := &Gateway{}
	for _, opt := range opts {
		opt(pre)
	}

	fwdOpts := []forwarder.Option{
		forwarder.WithTimeout(cfg.DispatchTimeout),
		forwarder.WithLogger(logger),
	}
	if cfg.ServiceName != "" {
		fwdOpts = append(fwdOpts, forwarder.WithServiceName(cfg.ServiceName))
	}
	fwd := forwarder.New(cfg.CoordinatorBaseURL, append(fwdOpts, pre.fwdOpts...)...)

	return New(cfg, fwd, append([]Option{WithLogger(logger)}, opts...)...)
}

// CORSConfig translates an origin allow-list into a validated CORS
// configuration. An empty list admits no cross-origin caller and "*" admits
// every origin.
func CORSConfig(origins []string) (cors.Config, error) {
	cfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{server.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           10 * time.Minute,
	}
	switch {
	case slices.Contains(origins, "*"):
		cfg.AllowAllOrigins = true
	case len(origins) == 0:
		cfg.AllowOriginFunc = func(string) bool { return false }
	default:
		cfg.AllowOrigins = slices.Clone(origins)
	}
	if err := cfg.Validate(); err != nil {
		return cors.Config{}, fmt.Errorf("%w: %s: %v", sparrow.ErrInvalidConfig, sparrow.EnvAllowedOrigins, err)
	}

	return cfg, nil
}

// Handler returns the gateway's HTTP handler.
func (g *Gateway) Handler() http.Handler { return g.engine }

// Shutdown releases the forwarder when it supports it.
func (g *Gateway) Shutdown(ctx context.Context) {
	if s, ok := g.fwd.(interface{ Shutdown(context.Context) }); ok {
		s.Shutdown(ctx)
	}
}

// RegisterRoutes mounts the edge routes on r.
func (g *Gateway) RegisterRoutes(r gin.IRouter) {
	r.GET("/healthz", health.Handler(g.cfg.ServiceName))
	r.POST(forwarder.DispatchPath, g.handleDispatch)
	if g.metrics != nil {
		r.GET("/metrics", gin.WrapH(g.metrics))
	}
}

func (g *Gateway) handleDispatch(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})

		return
	}
	payload, err := sparrow.ParseObject(raw)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})

		return
	}

	out, err := g.fwd.Forward(c.Request.Context(), payload)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusBadGateway, gin.H{"detail": DetailPrefix + err.Error()})

		return
	}
	c.Data(http.StatusOK, "application/json", out)
}
