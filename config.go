package sparrow

import (
	"log/slog"
	"time"
)

// Service names reported by the health endpoints.
const (
	EdgeServiceName        = "api"
	CoordinatorServiceName = "coordinator"
)

// Defaults applied when the corresponding environment variable is absent.
const (
	DefaultAllowedOrigins     = "http://localhost:3010"
	DefaultCoordinatorBaseURL = "http://coordinator:8011"
	DefaultEdgeListenAddr     = ":8000"
	DefaultCoordinatorAddr    = ":8011"
	DefaultDispatchTimeout    = 5 * time.Second
	DefaultShutdownTimeout    = 10 * time.Second
)

// LogConfig selects the slog handler used by a service.
type LogConfig struct {
	// Level is the minimum level that is emitted.
	Level slog.Level

	// Format is "text" or "json".
	Format string
}

// EdgeConfig is the immutable configuration of the edge service. It is built
// once at process start and passed explicitly to the components that need it.
type EdgeConfig struct {
	// ServiceName is reported by GET /healthz.
	ServiceName string

	// ListenAddr is the address the HTTP server binds to.
	ListenAddr string

	// AllowedOrigins is the ordered CORS allow-list.
	AllowedOrigins []string

	// CoordinatorBaseURL is the base address of the coordinator. It is not
	// validated here; a malformed value fails each dispatch as unreachable.
	CoordinatorBaseURL string

	// DispatchTimeout bounds a single coordinator call from start to the
	// last byte of the response.
	DispatchTimeout time.Duration

	// ShutdownTimeout bounds graceful HTTP shutdown.
	ShutdownTimeout time.Duration

	Log LogConfig
}

// DefaultEdgeConfig returns an EdgeConfig with the documented defaults.
func DefaultEdgeConfig() EdgeConfig {
	return EdgeConfig{
		ServiceName:        EdgeServiceName,
		ListenAddr:         DefaultEdgeListenAddr,
		AllowedOrigins:     ParseOrigins(DefaultAllowedOrigins),
		CoordinatorBaseURL: DefaultCoordinatorBaseURL,
		DispatchTimeout:    DefaultDispatchTimeout,
		ShutdownTimeout:    DefaultShutdownTimeout,
		Log:                LogConfig{Level: slog.LevelInfo, Format: "text"},
	}
}

// CoordinatorConfig is the immutable configuration of the coordinator service.
type CoordinatorConfig struct {
	ServiceName     string
	ListenAddr      string
	ShutdownTimeout time.Duration
	Log             LogConfig
}

// DefaultCoordinatorConfig returns a CoordinatorConfig with the documented defaults.
func DefaultCoordinatorConfig() CoordinatorConfig {
	return CoordinatorConfig{
		ServiceName:     CoordinatorServiceName,
		ListenAddr:      DefaultCoordinatorAddr,
		ShutdownTimeout: DefaultShutdownTimeout,
		Log:             LogConfig{Level: slog.LevelInfo, Format: "text"},
	}
}
