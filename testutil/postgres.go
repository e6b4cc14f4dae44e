package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	postgresUser     = "cocktails"
	postgresPassword = "cocktails"
	postgresDB       = "cocktails"
)

// containerConfig holds the shared knobs for test containers.
type containerConfig struct {
	version      string
	startTimeout time.Duration
}

// Option configures a test container.
type Option func(*containerConfig)

// WithVersion pins the image tag instead of the helper's default.
func WithVersion(version string) Option {
	return func(cfg *containerConfig) {
		cfg.version = version
	}
}

// WithStartTimeout sets the container startup timeout.
func WithStartTimeout(timeout time.Duration) Option {
	return func(cfg *containerConfig) {
		cfg.startTimeout = timeout
	}
}

// PostgresContainer is a disposable Postgres server for integration tests.
type PostgresContainer struct {
	container testcontainers.Container
	URL       string
	cleanup   func()
}

// NewSharedPostgres starts a Postgres container for use in TestMain.
// Unlike StartPostgres, this doesn't require testing.TB and returns errors.
func NewSharedPostgres(opts ...Option) (*PostgresContainer, error) {
	cfg := &containerConfig{
		version:      "16-alpine",
		startTimeout: 60 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:" + cfg.version,
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     postgresUser,
			"POSTGRES_PASSWORD": postgresPassword,
			"POSTGRES_DB":       postgresDB,
		},
		WaitingFor: wait.ForAll(
			// initdb restarts the server once, so the first "ready" line is
			// the temporary bootstrap instance.
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(cfg.startTimeout),
			wait.ForListeningPort("5432/tcp"),
		),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}

	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get mapped port: %w", err)
	}

	url := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		postgresUser, postgresPassword, host, port.Port(), postgresDB)

	return &PostgresContainer{
		container: container,
		URL:       url,
		cleanup: func() {
			_ = container.Terminate(context.Background()) // Best effort test cleanup
		},
	}, nil
}

// StartPostgres starts a Postgres container and registers its cleanup.
// Accepts testing.TB so it works with both *testing.T and *testing.B.
func StartPostgres(t testing.TB, opts ...Option) *PostgresContainer {
	t.Helper()

	pc, err := NewSharedPostgres(opts...)
	if err != nil {
		t.Fatalf("Failed to start postgres container: %v", err)
	}
	t.Cleanup(pc.cleanup)
	return pc
}

// Terminate manually terminates the container (usually handled by t.Cleanup).
func (pc *PostgresContainer) Terminate() error {
	if pc.cleanup != nil {
		pc.cleanup()
		pc.cleanup = nil
	}
	return nil
}
