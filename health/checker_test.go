package health

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRunner_RunOnce(t *testing.T) {
	monitor := NewMonitor()
	runner := NewRunner(monitor)

	runner.Register("catalog", func(_ context.Context) error {
		return nil
	})
	runner.Register("state", func(_ context.Context) error {
		return errors.New("ping failed")
	})

	runner.RunOnce(context.Background())

	catalogStatus, exists := monitor.Get("catalog")
	if !exists {
		t.Fatal("expected catalog status to exist")
	}
	if !catalogStatus.IsHealthy() {
		t.Errorf("expected catalog healthy, got %s", catalogStatus.Status)
	}

	stateStatus, exists := monitor.Get("state")
	if !exists {
		t.Fatal("expected state status to exist")
	}
	if !stateStatus.IsUnhealthy() {
		t.Errorf("expected state unhealthy, got %s", stateStatus.Status)
	}
	if stateStatus.Message != "ping failed" {
		t.Errorf("expected 'ping failed', got %s", stateStatus.Message)
	}

	if runner.ChecksRun() != 2 {
		t.Errorf("expected 2 checks run, got %d", runner.ChecksRun())
	}
	if runner.FailedChecks() != 1 {
		t.Errorf("expected 1 failed check, got %d", runner.FailedChecks())
	}
}

func TestRunner_CheckTimeout(t *testing.T) {
	monitor := NewMonitor()
	runner := NewRunner(monitor, WithCheckTimeout(10*time.Millisecond))

	runner.Register("slow", func(ctx context.Context) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
			return nil
		}
	})

	start := time.Now()
	runner.RunOnce(context.Background())
	elapsed := time.Since(start)

	if elapsed > 500*time.Millisecond {
		t.Errorf("check should have been cut off by timeout, took %v", elapsed)
	}

	status, exists := monitor.Get("slow")
	if !exists {
		t.Fatal("expected slow status to exist")
	}
	if !status.IsUnhealthy() {
		t.Errorf("expected unhealthy after timeout, got %s", status.Status)
	}
}

func TestRunner_Register_Replaces(t *testing.T) {
	monitor := NewMonitor()
	runner := NewRunner(monitor)

	runner.Register("catalog", func(_ context.Context) error {
		return errors.New("first check")
	})
	runner.Register("catalog", func(_ context.Context) error {
		return nil
	})

	runner.RunOnce(context.Background())

	status, _ := monitor.Get("catalog")
	if !status.IsHealthy() {
		t.Errorf("expected replacement check to win, got %s: %s", status.Status, status.Message)
	}
	if runner.ChecksRun() != 1 {
		t.Errorf("expected 1 check run, got %d", runner.ChecksRun())
	}
}

func TestRunner_OnChange(t *testing.T) {
	monitor := NewMonitor()
	transitions := make(chan bool, 4)

	runner := NewRunner(monitor, OnChange(func(_ string, healthy bool) {
		transitions <- healthy
	}))

	var failing bool
	runner.Register("state", func(_ context.Context) error {
		if failing {
			return errors.New("down")
		}
		return nil
	})

	// First run seeds the monitor and reports the initial state, so
	// downstream gauges start populated.
	runner.RunOnce(context.Background())
	select {
	case healthy := <-transitions:
		if !healthy {
			t.Error("expected initial state to be healthy")
		}
	case <-time.After(time.Second):
		t.Fatal("expected an initial state callback")
	}

	// Flip to failing: healthy -> unhealthy transition
	failing = true
	runner.RunOnce(context.Background())
	select {
	case healthy := <-transitions:
		if healthy {
			t.Error("expected transition to unhealthy")
		}
	case <-time.After(time.Second):
		t.Fatal("expected a transition callback")
	}

	// Flip back: unhealthy -> healthy transition
	failing = false
	runner.RunOnce(context.Background())
	select {
	case healthy := <-transitions:
		if !healthy {
			t.Error("expected transition to healthy")
		}
	case <-time.After(time.Second):
		t.Fatal("expected a recovery callback")
	}
}

func TestRunner_Run_StopsOnCancel(t *testing.T) {
	monitor := NewMonitor()
	runner := NewRunner(monitor, WithInterval(10*time.Millisecond))

	runner.Register("catalog", func(_ context.Context) error {
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- runner.Run(ctx)
	}()

	// Let a few ticks pass, then cancel
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}

	if runner.ChecksRun() < 2 {
		t.Errorf("expected multiple check runs, got %d", runner.ChecksRun())
	}
}
