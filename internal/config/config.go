// Package config defines the admin client configuration and its loading hooks.
//
// Conventions:
// - New() returns a Config populated with defaults.
// - Load(ctx) layers .env, an optional YAML file and BEFA_* env vars on top.
// - External errors are wrapped with this package's sentinel errors.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Session backends.
const (
	SessionMemory = "memory"
	SessionFile   = "file"
	SessionRedis  = "redis"
)

// Stale response policies for queries.
const (
	StaleDiscard          = "discard"
	StaleLastResolvedWins = "last_resolved_wins"
)

// Config contains process configuration.
type Config struct {
	// APIURL is the backend REST base path, e.g. "http://localhost:8000/api".
	APIURL string `koanf:"api_url"`

	// Timeout bounds every backend call unless an operation overrides it.
	Timeout time.Duration `koanf:"timeout"`

	// ExtractTimeout bounds the PDF extraction upload.
	ExtractTimeout time.Duration `koanf:"extract_timeout"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// SessionBackend selects where tokens live: memory, file or redis.
	SessionBackend string `koanf:"session_backend"`

	// SessionPath is the file used by the file backend.
	SessionPath string `koanf:"session_path"`

	// RedisAddr and RedisPrefix configure the redis backend.
	RedisAddr   string `koanf:"redis_addr"`
	RedisPrefix string `koanf:"redis_prefix"`

	// StalePolicy decides how out-of-order query responses are handled.
	StalePolicy string `koanf:"stale_policy"`

	// MetricsFile, when set, receives a Prometheus textfile dump on exit.
	MetricsFile string `koanf:"metrics_file"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		APIURL:         "http://localhost:8000/api",
		Timeout:        30 * time.Second,
		ExtractTimeout: 60 * time.Second,
		LogLevel:       "warn",
		SessionBackend: SessionFile,
		SessionPath:    defaultSessionPath(),
		RedisAddr:      "localhost:6379",
		RedisPrefix:    "befa_",
		StalePolicy:    StaleDiscard,
	}
}

// Validate checks the fields that have no safe fallback.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: api_url must be an absolute URL, got %q", ErrInvalidConfig, c.APIURL)
	}
	if c.Timeout <= 0 || c.ExtractTimeout <= 0 {
		return fmt.Errorf("%w: timeouts must be positive", ErrInvalidConfig)
	}
	switch c.SessionBackend {
	case SessionMemory, SessionRedis:
	case SessionFile:
		if strings.TrimSpace(c.SessionPath) == "" {
			return fmt.Errorf("%w: session_path must not be empty for the file backend", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown session_backend %q", ErrInvalidConfig, c.SessionBackend)
	}
	switch c.StalePolicy {
	case StaleDiscard, StaleLastResolvedWins:
	default:
		return fmt.Errorf("%w: unknown stale_policy %q", ErrInvalidConfig, c.StalePolicy)
	}
	return nil
}
