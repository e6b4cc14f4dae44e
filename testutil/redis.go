package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// RedisContainer is a disposable Redis server for integration tests.
type RedisContainer struct {
	container testcontainers.Container
	URL       string
	cleanup   func()
}

// NewSharedRedis starts a Redis container for use in TestMain.
// Unlike StartRedis, this doesn't require testing.TB and returns errors.
func NewSharedRedis(opts ...Option) (*RedisContainer, error) {
	cfg := &containerConfig{
		version:      "7-alpine",
		startTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:" + cfg.version,
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor: wait.ForAll(
			wait.ForLog("Ready to accept connections").
				WithStartupTimeout(cfg.startTimeout),
			wait.ForListeningPort("6379/tcp"),
		),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start redis container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}

	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get mapped port: %w", err)
	}

	url := fmt.Sprintf("redis://%s:%s/0", host, port.Port())

	return &RedisContainer{
		container: container,
		URL:       url,
		cleanup: func() {
			_ = container.Terminate(context.Background()) // Best effort test cleanup
		},
	}, nil
}

// StartRedis starts a Redis container and registers its cleanup.
// Accepts testing.TB so it works with both *testing.T and *testing.B.
func StartRedis(t testing.TB, opts ...Option) *RedisContainer {
	t.Helper()

	rc, err := NewSharedRedis(opts...)
	if err != nil {
		t.Fatalf("Failed to start redis container: %v", err)
	}
	t.Cleanup(rc.cleanup)
	return rc
}

// Terminate manually terminates the container (usually handled by t.Cleanup).
func (rc *RedisContainer) Terminate() error {
	if rc.cleanup != nil {
		rc.cleanup()
		rc.cleanup = nil
	}
	return nil
}
