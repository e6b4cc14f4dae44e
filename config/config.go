// Package config provides environment-driven configuration for the cocktail
// menu service. Values come from process environment variables, optionally
// seeded from a .env file in development. All knobs have defaults matching
// the container deployment contract.
package config

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// State backend names accepted by STATE_BACKEND
const (
	StateBackendFile     = "file"
	StateBackendMemory   = "memory"
	StateBackendSQLite   = "sqlite"
	StateBackendPostgres = "postgres"
)

// Session backend names accepted by SESSION_BACKEND
const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

// DefaultSecretKey is the development fallback for SECRET_KEY. Deployments
// are expected to override it; startup logs a warning when they do not.
const DefaultSecretKey = "dev-secret-key-change-in-production"

// Config holds the full service configuration
type Config struct {
	// HTTP serving
	BindAddr        string        `envconfig:"BIND_ADDR" default:":5000"`
	Workers         int           `envconfig:"WORKERS" default:"2"`
	Threads         int           `envconfig:"THREADS" default:"2"`
	RequestTimeout  time.Duration `envconfig:"REQUEST_TIMEOUT" default:"120s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	// Data locations
	CatalogPath string `envconfig:"CATALOG_PATH" default:"cocktails.yaml"`
	DataDir     string `envconfig:"DATA_DIR" default:"data"`

	// Authentication
	SecretKey     string        `envconfig:"SECRET_KEY" default:"dev-secret-key-change-in-production"`
	AdminPassword string        `envconfig:"ADMIN_PASSWORD" default:"admin"`
	SessionTTL    time.Duration `envconfig:"SESSION_TTL" default:"24h"`
	LoginPerMin   int           `envconfig:"LOGIN_RATE_PER_MINUTE" default:"10"`

	// Backends
	StateBackend   string `envconfig:"STATE_BACKEND" default:"file"`
	DatabaseURL    string `envconfig:"DATABASE_URL"`
	SessionBackend string `envconfig:"SESSION_BACKEND" default:"memory"`
	RedisURL       string `envconfig:"REDIS_URL"`

	// Health refresh cadence (the container probe has its own schedule;
	// this drives the background monitor)
	HealthInterval time.Duration `envconfig:"HEALTH_INTERVAL" default:"30s"`
	HealthTimeout  time.Duration `envconfig:"HEALTH_TIMEOUT" default:"3s"`

	// Logging
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`
}

// Load reads configuration from the environment and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process environment configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the configuration for consistency
func (c *Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.BindAddr); err != nil {
		return fmt.Errorf("bind_addr '%s' is not a valid host:port: %w", c.BindAddr, err)
	}

	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.Threads < 1 {
		return fmt.Errorf("threads must be at least 1, got %d", c.Threads)
	}

	if c.RequestTimeout <= 0 {
		return errors.New("request_timeout must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("shutdown_timeout must be positive")
	}
	if c.SessionTTL <= 0 {
		return errors.New("session_ttl must be positive")
	}
	if c.HealthInterval <= 0 {
		return errors.New("health_interval must be positive")
	}
	if c.HealthTimeout <= 0 {
		return errors.New("health_timeout must be positive")
	}

	if c.CatalogPath == "" {
		return errors.New("catalog_path is required")
	}
	if c.DataDir == "" {
		return errors.New("data_dir is required")
	}
	if c.SecretKey == "" {
		return errors.New("secret_key cannot be empty")
	}
	if c.AdminPassword == "" {
		return errors.New("admin_password cannot be empty")
	}
	if c.LoginPerMin < 1 {
		return fmt.Errorf("login_rate_per_minute must be at least 1, got %d", c.LoginPerMin)
	}

	switch c.StateBackend {
	case StateBackendFile, StateBackendMemory, StateBackendSQLite:
	case StateBackendPostgres:
		if c.DatabaseURL == "" {
			return errors.New("database_url is required for the postgres state backend")
		}
	default:
		return fmt.Errorf("unknown state backend '%s'", c.StateBackend)
	}

	switch c.SessionBackend {
	case SessionBackendMemory:
	case SessionBackendRedis:
		if c.RedisURL == "" {
			return errors.New("redis_url is required for the redis session backend")
		}
	default:
		return fmt.Errorf("unknown session backend '%s'", c.SessionBackend)
	}

	return nil
}

// MaxInFlight returns the concurrent request capacity, mirroring the
// workers×threads sizing of the process-based deployment this service
// replaced.
func (c *Config) MaxInFlight() int {
	return c.Workers * c.Threads
}

// UsesDefaultSecret reports whether the deployment is still running with the
// development signing key.
func (c *Config) UsesDefaultSecret() bool {
	return c.SecretKey == DefaultSecretKey
}

// Redacted returns a loggable view of the configuration with secrets and
// credentialed URLs masked.
func (c *Config) Redacted() map[string]any {
	return map[string]any{
		"bind_addr":        c.BindAddr,
		"workers":          c.Workers,
		"threads":          c.Threads,
		"max_in_flight":    c.MaxInFlight(),
		"request_timeout":  c.RequestTimeout.String(),
		"shutdown_timeout": c.ShutdownTimeout.String(),
		"catalog_path":     c.CatalogPath,
		"data_dir":         c.DataDir,
		"secret_key":       redactSecret(c.SecretKey),
		"admin_password":   redactSecret(c.AdminPassword),
		"session_ttl":      c.SessionTTL.String(),
		"state_backend":    c.StateBackend,
		"database_url":     redactURL(c.DatabaseURL),
		"session_backend":  c.SessionBackend,
		"redis_url":        redactURL(c.RedisURL),
		"health_interval":  c.HealthInterval.String(),
		"health_timeout":   c.HealthTimeout.String(),
		"log_level":        c.LogLevel,
		"log_format":       c.LogFormat,
	}
}

func redactSecret(s string) string {
	if s == "" {
		return ""
	}
	return "[REDACTED]"
}

func redactURL(s string) string {
	if s == "" {
		return ""
	}
	return "[CONFIGURED]"
}
