package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoginLimiterBurst(t *testing.T) {
	l := NewLoginLimiter(3)

	for i := range 3 {
		assert.True(t, l.Allow("10.0.0.1"), "attempt %d within burst", i+1)
	}
	assert.False(t, l.Allow("10.0.0.1"), "burst exhausted")
}

func TestLoginLimiterPerHost(t *testing.T) {
	l := NewLoginLimiter(2)

	assert.True(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))

	// A different host has its own bucket.
	assert.True(t, l.Allow("10.0.0.2"))
}

func TestLoginLimiterDefaultRate(t *testing.T) {
	l := NewLoginLimiter(0)
	assert.True(t, l.Allow("10.0.0.1"), "zero config falls back to a sane default")
}
