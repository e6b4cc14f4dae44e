// Package web serves the cocktail menu HTTP surface: the public menu page
// and state API, the admin console behind signed cookie sessions, the
// container health probe, the websocket event feed and the Prometheus
// scrape endpoint. One port carries all of it.
package web

import (
	"context"
	stderrors "errors"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/nmaupu/cocktails/errors"
	"github.com/nmaupu/cocktails/health"
	"github.com/nmaupu/cocktails/live"
	"github.com/nmaupu/cocktails/metric"
	"github.com/nmaupu/cocktails/session"
	"github.com/nmaupu/cocktails/state"
)

// Config holds the serving knobs. Zero values fall back to the container
// deployment defaults.
type Config struct {
	// BindAddr is the listen address, host:port.
	BindAddr string
	// MaxInFlight caps concurrently served requests; further requests
	// queue until capacity frees or their deadline expires.
	MaxInFlight int
	// RequestTimeout bounds the full request, queue wait included.
	RequestTimeout time.Duration
	// ShutdownTimeout bounds graceful drain on stop.
	ShutdownTimeout time.Duration
	// AdminPassword guards the login form.
	AdminPassword string
	// CatalogPath is re-verified by every health probe.
	CatalogPath string
}

// Deps carries the collaborators the server drives. Toggler and Sessions
// are required; the rest degrade to disabled features when nil.
type Deps struct {
	Logger   *slog.Logger
	Toggler  *state.Toggler
	Sessions *session.Manager
	Limiter  *session.LoginLimiter
	Hub      *live.Hub
	Monitor  *health.Monitor
	Registry *metric.MetricsRegistry
}

// Server is the HTTP front of the service
type Server struct {
	cfg      Config
	logger   *slog.Logger
	toggler  *state.Toggler
	sessions *session.Manager
	limiter  *session.LoginLimiter
	hub      *live.Hub
	monitor  *health.Monitor
	registry *metric.MetricsRegistry
	metrics  *metric.Metrics
	tmpl     *template.Template
	inflight *semaphore.Weighted
}

// New builds a server and parses its embedded templates
func New(cfg Config, deps Deps) (*Server, error) {
	if deps.Toggler == nil {
		return nil, errors.WrapInvalid(nil, "web", "New", "toggler is required")
	}
	if deps.Sessions == nil {
		return nil, errors.WrapInvalid(nil, "web", "New", "session manager is required")
	}
	if cfg.AdminPassword == "" {
		return nil, errors.WrapInvalid(nil, "web", "New", "admin password is required")
	}

	if cfg.BindAddr == "" {
		cfg.BindAddr = ":5000"
	}
	if cfg.MaxInFlight <= 0 {
		cfg.MaxInFlight = 4
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 120 * time.Second
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, errors.WrapFatal(err, "web", "New", "parse templates")
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		cfg:      cfg,
		logger:   logger.With("component", "web"),
		toggler:  deps.Toggler,
		sessions: deps.Sessions,
		limiter:  deps.Limiter,
		hub:      deps.Hub,
		monitor:  deps.Monitor,
		registry: deps.Registry,
		tmpl:     tmpl,
		inflight: semaphore.NewWeighted(int64(cfg.MaxInFlight)),
	}
	if deps.Registry != nil {
		s.metrics = deps.Registry.CoreMetrics()
	}
	return s, nil
}

// Handler assembles the full middleware chain and routing table.
//
// The websocket feed and the metrics scrape sit outside the request
// timeout and the in-flight cap: the former is long-lived by design, the
// latter must stay reachable when the application is saturated.
func (s *Server) Handler() http.Handler {
	app := http.NewServeMux()
	app.HandleFunc("GET /{$}", s.handleIndex)
	app.HandleFunc("GET /health", s.handleHealth)
	app.HandleFunc("GET /healthz", s.handleHealth)
	app.HandleFunc("GET /login", s.handleLoginPage)
	app.HandleFunc("POST /login", s.handleLoginSubmit)
	app.HandleFunc("GET /logout", s.handleLogout)
	app.Handle("GET /admin", s.requireAuth(http.HandlerFunc(s.handleAdmin)))
	app.HandleFunc("GET /api/state", s.handleState)
	app.Handle("POST /api/toggle-ingredient", s.requireAuth(http.HandlerFunc(s.handleToggleIngredient)))
	app.Handle("POST /api/toggle-cocktail", s.requireAuth(http.HandlerFunc(s.handleToggleCocktail)))

	limited := http.TimeoutHandler(s.limitInFlight(app), s.cfg.RequestTimeout,
		`{"error":"request timeout"}`)

	root := http.NewServeMux()
	root.Handle("/", limited)
	if s.hub != nil {
		root.Handle("GET /ws", s.hub)
	}
	if s.registry != nil {
		root.Handle("GET /metrics", s.registry.Handler())
	}

	var handler http.Handler = root
	handler = s.instrument(handler)
	handler = s.logRequests(handler)
	handler = withRequestID(handler)
	handler = s.recoverPanics(handler)
	return handler
}

// Run serves until ctx is cancelled, then drains within ShutdownTimeout.
// Returns ctx.Err() after a clean shutdown.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.BindAddr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening",
			"addr", s.cfg.BindAddr,
			"max_in_flight", s.cfg.MaxInFlight,
			"request_timeout", s.cfg.RequestTimeout.String())
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return errors.WrapFatal(err, "web", "Run", "serve http")
	case <-ctx.Done():
	}

	s.logger.Info("http server draining", "timeout", s.cfg.ShutdownTimeout.String())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		_ = srv.Close()
		return errors.WrapTransient(err, "web", "Run", "drain http server")
	}

	s.logger.Info("http server stopped")
	return ctx.Err()
}
