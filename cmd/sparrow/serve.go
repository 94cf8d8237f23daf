package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mcschoo/Sparrow/observability"
	"github.com/mcschoo/Sparrow/server"
)

// serve runs h on addr until SIGINT or SIGTERM.
func serve(ctx context.Context, addr string, shutdown time.Duration, h http.Handler, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.Run(ctx, server.Config{Addr: addr, ShutdownTimeout: shutdown}, h, logger)
}

// setupMetrics installs the global meter provider when enabled. The returned
// cleanup is always safe to call.
func setupMetrics(enabled bool, service string, logger *slog.Logger) (http.Handler, func(), error) {
	if !enabled {
		return nil, func() {}, nil
	}
	p, err := observability.Setup(service)
	if err != nil {
		return nil, func() {}, err
	}

	return p.Handler(), func() {
		if err := p.Shutdown(context.Background()); err != nil {
			logger.Warn("metrics shutdown failed", slog.String("error", err.Error()))
		}
	}, nil
}

func init() {
	gin.SetMode(gin.ReleaseMode)
}
