package health

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Check probes a single component. A nil return means healthy.
type Check func(ctx context.Context) error

// RunnerOption is a functional option for configuring a Runner
type RunnerOption func(*Runner)

// Runner periodically executes registered checks and feeds results into a
// Monitor. The serving layer reads the Monitor; the Runner keeps it fresh
// and logs health transitions.
type Runner struct {
	monitor  *Monitor
	interval time.Duration
	timeout  time.Duration
	logger   *slog.Logger

	mu     sync.RWMutex
	checks map[string]Check

	checksRun    atomic.Int64
	failedChecks atomic.Int64

	onChange func(name string, healthy bool)
}

// NewRunner creates a runner feeding the given monitor
func NewRunner(monitor *Monitor, opts ...RunnerOption) *Runner {
	r := &Runner{
		monitor:  monitor,
		interval: 30 * time.Second, // Default check interval
		timeout:  3 * time.Second,  // Default per-check budget
		logger:   slog.Default(),
		checks:   make(map[string]Check),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// WithInterval sets the check interval
func WithInterval(interval time.Duration) RunnerOption {
	return func(r *Runner) {
		r.interval = interval
	}
}

// WithCheckTimeout sets the per-check timeout
func WithCheckTimeout(timeout time.Duration) RunnerOption {
	return func(r *Runner) {
		r.timeout = timeout
	}
}

// WithLogger sets a custom logger for the runner
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// OnChange sets a callback invoked when a component transitions between
// healthy and unhealthy
func OnChange(fn func(name string, healthy bool)) RunnerOption {
	return func(r *Runner) {
		r.onChange = fn
	}
}

// Register adds a named check. Registering the same name again replaces the
// previous check.
func (r *Runner) Register(name string, check Check) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checks[name] = check
}

// ChecksRun returns the total number of individual checks executed
func (r *Runner) ChecksRun() int64 {
	return r.checksRun.Load()
}

// FailedChecks returns the total number of failed check executions
func (r *Runner) FailedChecks() int64 {
	return r.failedChecks.Load()
}

// RunOnce executes every registered check and updates the monitor
func (r *Runner) RunOnce(ctx context.Context) {
	r.mu.RLock()
	checks := make(map[string]Check, len(r.checks))
	for name, check := range r.checks {
		checks[name] = check
	}
	r.mu.RUnlock()

	for name, check := range checks {
		r.runCheck(ctx, name, check)
	}
}

// runCheck executes a single check within the configured timeout
func (r *Runner) runCheck(ctx context.Context, name string, check Check) {
	r.checksRun.Add(1)

	checkCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	err := check(checkCtx)
	if err != nil {
		r.failedChecks.Add(1)
	}

	previous, existed := r.monitor.Get(name)
	status := FromError(name, err)
	r.monitor.Update(name, status)

	// Log transitions, not every check. The first result counts as a
	// transition so a component that boots unhealthy is visible.
	transitioned := !existed || previous.Healthy != status.Healthy
	if transitioned {
		if status.Healthy {
			if existed {
				r.logger.Info("component recovered", "component", name)
			}
		} else {
			r.logger.Warn("component unhealthy", "component", name, "message", status.Message)
		}
		if r.onChange != nil {
			go r.onChange(name, status.Healthy)
		}
	}
}

// Run executes checks on the configured interval until ctx is canceled.
// An initial pass runs immediately so the monitor is populated before the
// first tick.
func (r *Runner) Run(ctx context.Context) error {
	r.RunOnce(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.RunOnce(ctx)
		}
	}
}
