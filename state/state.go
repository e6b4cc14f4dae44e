// Package state persists ingredient availability and manual cocktail
// overrides behind a single Store interface. Backends range from
// process-local maps for tests up to Postgres for deployments where the
// menu has to survive the container.
package state

import (
	"context"
	"strings"

	"github.com/nmaupu/cocktails/errors"
)

// Store persists the two mutable data sets behind the menu: ingredient
// availability and per-cocktail manual overrides.
//
// Ingredients never toggled have no entry and are treated as available by
// callers. Overrides force a cocktail on or off regardless of what its
// ingredients say.
type Store interface {
	// IngredientStates returns the recorded availability map. The caller
	// owns the returned map.
	IngredientStates(ctx context.Context) (map[string]bool, error)

	// SetIngredientState records availability for one ingredient.
	SetIngredientState(ctx context.Context, name string, available bool) error

	// Overrides returns the recorded override map. The caller owns the
	// returned map.
	Overrides(ctx context.Context) (map[string]bool, error)

	// SetOverride forces a cocktail to the given enabled value.
	SetOverride(ctx context.Context, name string, enabled bool) error

	// ClearOverride removes a manual override. Clearing a cocktail that
	// has none is not an error.
	ClearOverride(ctx context.Context, name string) error

	// Ping verifies the backend is reachable and writable.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// Config selects and parameterizes a Store backend.
type Config struct {
	Backend     string // file, memory, sqlite or postgres
	DataDir     string // file and sqlite backends
	PostgresURL string // postgres backend
}

// Open builds the Store named by cfg.Backend. An empty backend name selects
// the file store.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", "file":
		return NewFile(cfg.DataDir)
	case "memory":
		return NewMemory(), nil
	case "sqlite":
		return NewSQLite(ctx, cfg.DataDir)
	case "postgres":
		return NewPostgres(ctx, cfg.PostgresURL)
	default:
		return nil, errors.WrapInvalid(nil, "state", "Open", "unknown backend "+cfg.Backend)
	}
}

var (
	_ Store = (*Memory)(nil)
	_ Store = (*File)(nil)
	_ Store = (*SQLite)(nil)
	_ Store = (*Postgres)(nil)
)
