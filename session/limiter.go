package session

import (
	"sync"

	"golang.org/x/time/rate"
)

// maxLimiterBuckets caps the per-host map. Overflow forgets all counters,
// which only relaxes the limit briefly.
const maxLimiterBuckets = 4096

// LoginLimiter throttles password attempts with a token bucket per client
// host.
type LoginLimiter struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	buckets map[string]*rate.Limiter
}

// NewLoginLimiter allows perMinute attempts per host, with a burst of the
// same size.
func NewLoginLimiter(perMinute int) *LoginLimiter {
	if perMinute <= 0 {
		perMinute = 10
	}
	return &LoginLimiter{
		limit:   rate.Limit(float64(perMinute) / 60.0),
		burst:   perMinute,
		buckets: map[string]*rate.Limiter{},
	}
}

// Allow reports whether host may attempt a login now.
func (l *LoginLimiter) Allow(host string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.buckets) >= maxLimiterBuckets {
		l.buckets = map[string]*rate.Limiter{}
	}
	lim, ok := l.buckets[host]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.buckets[host] = lim
	}
	return lim.Allow()
}
