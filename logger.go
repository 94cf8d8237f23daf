package sparrow

import (
	"io"
	"log/slog"
)

// NewLogger builds the structured logger described by cfg, tagged with the
// service name.
func NewLogger(cfg LogConfig, w io.Writer, service string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.Level}
	var h slog.Handler
	if cfg.Format == "json" {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}

	return slog.New(h).With(slog.String("service", service))
}
