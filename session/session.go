// Package session issues and verifies browser sessions for the admin area.
//
// Sessions live server-side in a Store; the browser carries only a signed
// cookie of the form <id>.<signature>, where the signature is the hex
// HMAC-SHA256 of the id under the secret key. Forged or malformed cookies
// are rejected before any store lookup.
package session

import (
	"context"
	"strings"
	"time"

	"github.com/nmaupu/cocktails/errors"
)

// Session is the server-side record behind one cookie.
type Session struct {
	ID            string    `json:"-"`
	Authenticated bool      `json:"authenticated"`
	CreatedAt     time.Time `json:"created_at"`
}

// Store persists sessions by id. Reads refresh the TTL so active admins
// stay signed in.
type Store interface {
	// Create persists the session under a fresh id and returns the id.
	Create(ctx context.Context, s Session) (string, error)

	// Get returns the session for the id and extends its TTL. Unknown and
	// expired ids both return an error satisfying errors.ErrSessionExpired.
	Get(ctx context.Context, id string) (Session, error)

	// Delete removes the session. Unknown ids are not an error.
	Delete(ctx context.Context, id string) error

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// Config selects and parameterizes a session backend.
type Config struct {
	Backend  string // memory or redis
	RedisURL string // redis backend
	TTL      time.Duration
}

// Open builds the Store named by cfg.Backend. An empty backend name
// selects the in-memory store.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", "memory":
		return NewMemory(cfg.TTL), nil
	case "redis":
		return NewRedis(ctx, cfg.RedisURL, cfg.TTL)
	default:
		return nil, errors.WrapInvalid(nil, "session", "Open", "unknown backend "+cfg.Backend)
	}
}

var (
	_ Store = (*Memory)(nil)
	_ Store = (*Redis)(nil)
)
