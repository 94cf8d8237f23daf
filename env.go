package sparrow

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Environment variable names read at process start.
const (
	EnvAllowedOrigins     = "API_ALLOWED_ORIGINS"
	EnvCoordinatorBaseURL = "COORDINATOR_BASE_URL"
	EnvEdgeListenAddr     = "API_LISTEN_ADDR"
	EnvCoordinatorAddr    = "COORDINATOR_LISTEN_ADDR"
	EnvServiceName        = "SERVICE_NAME"
	EnvDispatchTimeout    = "DISPATCH_TIMEOUT"
	EnvLogLevel           = "LOG_LEVEL"
	EnvLogFormat          = "LOG_FORMAT"
)

// LookupFunc resolves an environment variable. os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// LoadEdgeConfig builds the edge configuration from the environment, falling
// back to DefaultEdgeConfig for every absent variable.
func LoadEdgeConfig(lookup LookupFunc) (EdgeConfig, error) {
	cfg := DefaultEdgeConfig()

	if v, ok := lookup(EnvAllowedOrigins); ok {
		cfg.AllowedOrigins = ParseOrigins(v)
	}
	if v, ok := lookup(EnvCoordinatorBaseURL); ok {
		cfg.CoordinatorBaseURL = strings.TrimSpace(v)
	}
	if v, ok := nonEmpty(lookup, EnvEdgeListenAddr); ok {
		cfg.ListenAddr = v
	}
	if v, ok := nonEmpty(lookup, EnvServiceName); ok {
		cfg.ServiceName = v
	}
	if v, ok := nonEmpty(lookup, EnvDispatchTimeout); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return EdgeConfig{}, fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, EnvDispatchTimeout, v, err)
		}
		if d <= 0 {
			return EdgeConfig{}, fmt.Errorf("%w: %s must be positive, got %s", ErrInvalidConfig, EnvDispatchTimeout, d)
		}
		cfg.DispatchTimeout = d
	}

	logCfg, err := loadLogConfig(lookup, cfg.Log)
	if err != nil {
		return EdgeConfig{}, err
	}
	cfg.Log = logCfg

	return cfg, nil
}

// LoadCoordinatorConfig builds the coordinator configuration from the
// environment, falling back to DefaultCoordinatorConfig.
func LoadCoordinatorConfig(lookup LookupFunc) (CoordinatorConfig, error) {
	cfg := DefaultCoordinatorConfig()

	if v, ok := nonEmpty(lookup, EnvCoordinatorAddr); ok {
		cfg.ListenAddr = v
	}
	if v, ok := nonEmpty(lookup, EnvServiceName); ok {
		cfg.ServiceName = v
	}

	logCfg, err := loadLogConfig(lookup, cfg.Log)
	if err != nil {
		return CoordinatorConfig{}, err
	}
	cfg.Log = logCfg

	return cfg, nil
}

// ParseOrigins splits a comma-separated origin list. Entries are trimmed,
// empty entries are dropped and duplicates keep their first position.
func ParseOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		o := strings.TrimSpace(p)
		if o == "" {
			continue
		}
		if _, dup := seen[o]; dup {
			continue
		}
		seen[o] = struct{}{}
		origins = append(origins, o)
	}

	return origins
}

func loadLogConfig(lookup LookupFunc, base LogConfig) (LogConfig, error) {
	cfg := base
	if v, ok := nonEmpty(lookup, EnvLogLevel); ok {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(v)); err != nil {
			return LogConfig{}, fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, EnvLogLevel, v, err)
		}
		cfg.Level = lvl
	}
	if v, ok := nonEmpty(lookup, EnvLogFormat); ok {
		switch f := strings.ToLower(v); f {
		case "text", "json":
			cfg.Format = f
		default:
			return LogConfig{}, fmt.Errorf("%w: %s=%q: want text or json", ErrInvalidConfig, EnvLogFormat, v)
		}
	}

	return cfg, nil
}

func nonEmpty(lookup LookupFunc, key string) (string, bool) {
	v, ok := lookup(key)
	v = strings.TrimSpace(v)

	return v, ok && v != ""
}
