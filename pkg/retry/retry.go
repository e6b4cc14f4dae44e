package retry

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
)

// NonRetryableError marks an error that must not be retried.
type NonRetryableError struct {
	Err error
}

func (e *NonRetryableError) Error() string {
	return fmt.Sprintf("non-retryable: %v", e.Err)
}

func (e *NonRetryableError) Unwrap() error {
	return e.Err
}

// NonRetryable wraps an error so Do fails immediately instead of retrying.
func NonRetryable(err error) error {
	if err == nil {
		return nil
	}
	return &NonRetryableError{Err: err}
}

// IsNonRetryable reports whether err is marked non-retryable.
func IsNonRetryable(err error) bool {
	var nre *NonRetryableError
	return errors.As(err, &nre)
}

// Config bounds a retry loop.
type Config struct {
	MaxAttempts  int           // total attempts, including the first
	InitialDelay time.Duration // delay before the second attempt
	MaxDelay     time.Duration // backoff ceiling
	Multiplier   float64       // delay growth factor
	AddJitter    bool          // add up to 25% random extra delay
}

// DefaultConfig suits one-off operations against a backend that is
// normally up.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  3,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		Multiplier:   2.0,
		AddJitter:    true,
	}
}

// Startup suits waiting for backends during boot, where the orchestrator
// may still be bringing up the database the service depends on.
func Startup() Config {
	return Config{
		MaxAttempts:  10,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		Multiplier:   2.0,
		AddJitter:    true,
	}
}

// normalized fills zero fields with defaults and rejects nonsense values.
func (c Config) normalized() (Config, error) {
	if c.InitialDelay < 0 || c.MaxDelay < 0 || c.Multiplier < 0 {
		return c, errors.New("retry: delays and multiplier cannot be negative")
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 1
	}
	if c.InitialDelay == 0 {
		c.InitialDelay = 100 * time.Millisecond
	}
	if c.MaxDelay == 0 {
		c.MaxDelay = 5 * time.Second
	}
	if c.Multiplier == 0 {
		c.Multiplier = 2.0
	}
	if c.MaxDelay < c.InitialDelay {
		return c, errors.New("retry: MaxDelay must be >= InitialDelay")
	}
	return c, nil
}

// Do runs fn until it succeeds, the attempt budget is spent, the error is
// marked non-retryable, or ctx is done.
func Do(ctx context.Context, cfg Config, fn func() error) error {
	cfg, err := cfg.normalized()
	if err != nil {
		return err
	}

	delay := cfg.InitialDelay
	for attempt := 1; ; attempt++ {
		lastErr := fn()
		if lastErr == nil {
			return nil
		}
		if IsNonRetryable(lastErr) {
			return lastErr
		}
		if attempt == cfg.MaxAttempts {
			return fmt.Errorf("retry failed after %d attempts: %w", cfg.MaxAttempts, lastErr)
		}

		sleep := delay
		if cfg.AddJitter {
			if j := delay / 4; j > 0 {
				sleep += rand.N(j)
			}
		}
		timer := time.NewTimer(sleep)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("retry cancelled before attempt %d: %w", attempt+1, ctx.Err())
		case <-timer.C:
		}

		// next < delay catches Duration overflow on absurd multipliers.
		next := time.Duration(float64(delay) * cfg.Multiplier)
		if next > cfg.MaxDelay || next < delay {
			next = cfg.MaxDelay
		}
		delay = next
	}
}

// DoWithResult is Do for operations that return a value.
func DoWithResult[T any](ctx context.Context, cfg Config, fn func() (T, error)) (T, error) {
	var result T
	err := Do(ctx, cfg, func() error {
		var innerErr error
		result, innerErr = fn()
		return innerErr
	})
	return result, err
}
