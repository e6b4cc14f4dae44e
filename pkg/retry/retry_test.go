package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fastConfig keeps test retries quick and deterministic.
func fastConfig(attempts int) Config {
	return Config{
		MaxAttempts:  attempts,
		InitialDelay: 5 * time.Millisecond,
		MaxDelay:     50 * time.Millisecond,
		Multiplier:   2.0,
		AddJitter:    false,
	}
}

func TestDoSucceedsAfterTransientFailures(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), fastConfig(5), func() error {
		attempts++
		if attempts < 3 {
			return errors.New("connection refused")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestDoExhaustsAttempts(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), fastConfig(3), func() error {
		attempts++
		return errors.New("still down")
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed after 3 attempts")
	assert.Equal(t, 3, attempts)
}

func TestDoStopsOnNonRetryable(t *testing.T) {
	cause := errors.New("bad credentials")
	attempts := 0
	err := Do(context.Background(), fastConfig(5), func() error {
		attempts++
		return NonRetryable(cause)
	})

	require.Error(t, err)
	assert.Equal(t, 1, attempts, "non-retryable errors get no second attempt")
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsNonRetryable(err))
}

func TestDoStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	attempts := 0
	done := make(chan error, 1)
	go func() {
		done <- Do(ctx, Config{
			MaxAttempts:  10,
			InitialDelay: time.Second,
			MaxDelay:     time.Second,
			Multiplier:   1.0,
		}, func() error {
			attempts++
			return errors.New("down")
		})
	}()

	cancel()
	select {
	case err := <-done:
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, attempts, "cancellation interrupts the backoff sleep")
	case <-time.After(time.Second):
		t.Fatal("retry did not honor cancellation")
	}
}

func TestDoRejectsNegativeConfig(t *testing.T) {
	err := Do(context.Background(), Config{InitialDelay: -time.Second}, func() error { return nil })
	require.Error(t, err)

	err = Do(context.Background(), Config{InitialDelay: time.Minute, MaxDelay: time.Second}, func() error { return nil })
	require.Error(t, err)
}

func TestDoWithResult(t *testing.T) {
	attempts := 0
	v, err := DoWithResult(context.Background(), fastConfig(3), func() (int, error) {
		attempts++
		if attempts < 2 {
			return 0, errors.New("not yet")
		}
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestNonRetryableNilPassthrough(t *testing.T) {
	assert.NoError(t, NonRetryable(nil))
	assert.False(t, IsNonRetryable(errors.New("plain")))
}
