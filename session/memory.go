package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nmaupu/cocktails/errors"
)

// Memory keeps sessions in a map with an absolute deadline per entry. Get
// refuses entries past their deadline on its own, the janitor only reclaims
// the memory behind them.
type Memory struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	session  Session
	deadline time.Time
}

// NewMemory returns an empty in-memory session store with the given TTL.
func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Memory{
		ttl:     ttl,
		entries: map[string]memoryEntry{},
		now:     time.Now,
	}
}

// Create persists the session under a fresh id.
func (m *Memory) Create(_ context.Context, s Session) (string, error) {
	id := uuid.NewString()
	s.ID = id
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[id] = memoryEntry{session: s, deadline: m.now().Add(m.ttl)}
	return id, nil
}

// Get returns the session for the id and slides its deadline forward.
func (m *Memory) Get(_ context.Context, id string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[id]
	if !ok {
		return Session{}, errors.WrapInvalid(errors.ErrSessionExpired, "session", "Get", "unknown session")
	}
	now := m.now()
	if now.After(entry.deadline) {
		delete(m.entries, id)
		return Session{}, errors.WrapInvalid(errors.ErrSessionExpired, "session", "Get", "session past deadline")
	}
	entry.deadline = now.Add(m.ttl)
	m.entries[id] = entry
	return entry.session, nil
}

// Delete removes the session if present.
func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
	return nil
}

// Ping always succeeds.
func (m *Memory) Ping(_ context.Context) error { return nil }

// Close is a no-op.
func (m *Memory) Close() error { return nil }

// Len reports the number of live entries, expired or not.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Janitor prunes expired sessions every interval until ctx is done.
func (m *Memory) Janitor(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			m.prune()
		}
	}
}

func (m *Memory) prune() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	removed := 0
	for id, entry := range m.entries {
		if now.After(entry.deadline) {
			delete(m.entries, id)
			removed++
		}
	}
	return removed
}
