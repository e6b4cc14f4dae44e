// Package main implements the entry point for the cocktail menu service,
// a mobile-friendly web application that shows which cocktails the house
// can currently mix and lets staff flip ingredients and recipes on or off.
package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/nmaupu/cocktails/catalog"
	"github.com/nmaupu/cocktails/config"
	"github.com/nmaupu/cocktails/errors"
	"github.com/nmaupu/cocktails/health"
	"github.com/nmaupu/cocktails/live"
	"github.com/nmaupu/cocktails/metric"
	"github.com/nmaupu/cocktails/pkg/retry"
	"github.com/nmaupu/cocktails/session"
	"github.com/nmaupu/cocktails/state"
	"github.com/nmaupu/cocktails/web"
)

// Build information constants
const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "cocktails"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := run(); err != nil {
		slog.Error("Application failed", "error", err, "exit_code", 1)
		os.Exit(1)
	}
}

func run() error {
	cliCfg, shouldExit := initializeCLI()
	if shouldExit {
		return nil
	}

	// The container healthcheck runs this binary with -healthcheck
	// instead of shipping curl in the image.
	if cliCfg.HealthCheck {
		return selfProbe()
	}

	if err := loadEnvFile(cliCfg.EnvFile); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logger := setupLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	slog.Info("Starting cocktail menu service",
		"version", Version,
		"build_time", BuildTime)
	slog.Info("Configuration loaded", "config", cfg.Redacted())
	if cfg.UsesDefaultSecret() {
		slog.Warn("SECRET_KEY is the development default; set a real key in production")
	}

	return runService(cfg, logger)
}

// loadEnvFile seeds the environment from a .env file. An explicitly named
// file must exist; the default ./.env is a development convenience and may
// be absent.
func loadEnvFile(path string) error {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load env file %s: %w", path, err)
		}
		return nil
	}
	_ = godotenv.Load()
	return nil
}

// runService wires every component and serves until a shutdown signal
func runService(cfg *config.Config, logger *slog.Logger) error {
	ctx := context.Background()

	if err := ensureDataDir(cfg.DataDir); err != nil {
		return err
	}

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	slog.Info("Catalog loaded",
		"path", cfg.CatalogPath,
		"cocktails", cat.Len(),
		"ingredients", len(cat.AllIngredients()))

	// Remote backends may come up after this container; retry transient
	// connect failures instead of crash-looping through the orchestrator.
	stateStore, err := retry.DoWithResult(ctx, retry.Startup(), func() (state.Store, error) {
		s, err := state.Open(ctx, state.Config{
			Backend:     cfg.StateBackend,
			DataDir:     cfg.DataDir,
			PostgresURL: cfg.DatabaseURL,
		})
		if err != nil && !errors.IsTransient(err) {
			return nil, retry.NonRetryable(err)
		}
		return s, err
	})
	if err != nil {
		return fmt.Errorf("open state store: %w", err)
	}
	defer stateStore.Close()
	slog.Info("State store opened", "backend", cfg.StateBackend)

	sessionStore, err := retry.DoWithResult(ctx, retry.Startup(), func() (session.Store, error) {
		s, err := session.Open(ctx, session.Config{
			Backend:  cfg.SessionBackend,
			RedisURL: cfg.RedisURL,
			TTL:      cfg.SessionTTL,
		})
		if err != nil && !errors.IsTransient(err) {
			return nil, retry.NonRetryable(err)
		}
		return s, err
	})
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer sessionStore.Close()
	slog.Info("Session store opened", "backend", cfg.SessionBackend)

	metricsRegistry := metric.NewMetricsRegistry()
	core := metricsRegistry.CoreMetrics()
	core.RecordServiceStatus(metric.StatusStarting)

	monitor, runner := setupHealth(cfg, core, stateStore, sessionStore, logger)
	hub := live.NewHub(metricsRegistry, logger)

	server, err := web.New(web.Config{
		BindAddr:        cfg.BindAddr,
		MaxInFlight:     cfg.MaxInFlight(),
		RequestTimeout:  cfg.RequestTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
		AdminPassword:   cfg.AdminPassword,
		CatalogPath:     cfg.CatalogPath,
	}, web.Deps{
		Logger:   logger,
		Toggler:  state.NewToggler(cat, stateStore),
		Sessions: session.NewManager(sessionStore, cfg.SecretKey, cfg.SessionTTL),
		Limiter:  session.NewLoginLimiter(cfg.LoginPerMin),
		Hub:      hub,
		Monitor:  monitor,
		Registry: metricsRegistry,
	})
	if err != nil {
		return fmt.Errorf("build http server: %w", err)
	}

	return serveUntilSignalled(ctx, core, server, hub, runner, sessionStore)
}

// setupHealth builds the monitor and its background check runner. Check
// results feed the health gauge so the scrape endpoint mirrors the probe.
func setupHealth(
	cfg *config.Config,
	core *metric.Metrics,
	stateStore state.Store,
	sessionStore session.Store,
	logger *slog.Logger,
) (*health.Monitor, *health.Runner) {
	monitor := health.NewMonitor()
	runner := health.NewRunner(monitor,
		health.WithInterval(cfg.HealthInterval),
		health.WithCheckTimeout(cfg.HealthTimeout),
		health.WithLogger(logger),
		health.OnChange(func(name string, healthy bool) {
			core.RecordHealthStatus(name, healthy)
		}),
	)

	catalogPath := cfg.CatalogPath
	runner.Register("catalog", func(context.Context) error {
		return catalog.Verify(catalogPath)
	})
	runner.Register("state", stateStore.Ping)
	runner.Register("sessions", sessionStore.Ping)

	return monitor, runner
}

// serveUntilSignalled runs the server and its background workers until
// SIGINT/SIGTERM, then waits for all of them to drain.
func serveUntilSignalled(
	ctx context.Context,
	core *metric.Metrics,
	server *web.Server,
	hub *live.Hub,
	runner *health.Runner,
	sessionStore session.Store,
) error {
	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, groupCtx := errgroup.WithContext(signalCtx)
	g.Go(func() error { return server.Run(groupCtx) })
	g.Go(func() error { return hub.Run(groupCtx) })
	g.Go(func() error { return runner.Run(groupCtx) })
	if mem, ok := sessionStore.(*session.Memory); ok {
		g.Go(func() error { return mem.Janitor(groupCtx, time.Hour) })
	}

	core.RecordServiceStatus(metric.StatusRunning)
	slog.Info("Cocktail menu service started")

	<-signalCtx.Done()
	slog.Info("Received shutdown signal")
	core.RecordServiceStatus(metric.StatusStopping)

	// Workers return the cancellation error on a clean stop
	if err := g.Wait(); err != nil && !stderrors.Is(err, context.Canceled) {
		core.RecordServiceStatus(metric.StatusFailed)
		return fmt.Errorf("shutdown: %w", err)
	}

	core.RecordServiceStatus(metric.StatusStopped)
	slog.Info("Cocktail menu service shutdown complete")
	return nil
}

// ensureDataDir creates the runtime data directory and verifies it accepts
// writes, failing at startup instead of on the first toggle.
func ensureDataDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data directory %s: %w", dir, err)
	}
	probe, err := os.CreateTemp(dir, ".startup-*")
	if err != nil {
		return fmt.Errorf("data directory %s is not writable: %w", dir, err)
	}
	name := probe.Name()
	_ = probe.Close()
	if err := os.Remove(name); err != nil {
		return fmt.Errorf("clean up startup probe: %w", err)
	}
	return nil
}
