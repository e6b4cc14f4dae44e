package state

import (
	"context"
	"maps"
	"sync"

	"github.com/nmaupu/cocktails/errors"
)

// Memory keeps state in process-local maps. Contents are lost on restart,
// which suits tests and throwaway demos.
type Memory struct {
	mu          sync.RWMutex
	ingredients map[string]bool
	overrides   map[string]bool
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		ingredients: map[string]bool{},
		overrides:   map[string]bool{},
	}
}

// IngredientStates returns a copy of the recorded availability map.
func (m *Memory) IngredientStates(_ context.Context) (map[string]bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.ingredients), nil
}

// SetIngredientState records availability for one ingredient.
func (m *Memory) SetIngredientState(_ context.Context, name string, available bool) error {
	if name == "" {
		return errors.WrapInvalid(nil, "state", "SetIngredientState", "ingredient name cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ingredients[name] = available
	return nil
}

// Overrides returns a copy of the recorded override map.
func (m *Memory) Overrides(_ context.Context) (map[string]bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.overrides), nil
}

// SetOverride forces a cocktail to the given enabled value.
func (m *Memory) SetOverride(_ context.Context, name string, enabled bool) error {
	if name == "" {
		return errors.WrapInvalid(nil, "state", "SetOverride", "cocktail name cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.overrides[name] = enabled
	return nil
}

// ClearOverride drops a manual override if one is recorded.
func (m *Memory) ClearOverride(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.overrides, name)
	return nil
}

// Ping always succeeds.
func (m *Memory) Ping(_ context.Context) error { return nil }

// Close is a no-op.
func (m *Memory) Close() error { return nil }

// snapshot returns copies of both maps for persistence layers built on top.
func (m *Memory) snapshot() (ingredients, overrides map[string]bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.ingredients), maps.Clone(m.overrides)
}

// restore replaces both maps, typically from a persisted snapshot.
func (m *Memory) restore(ingredients, overrides map[string]bool) {
	if ingredients == nil {
		ingredients = map[string]bool{}
	}
	if overrides == nil {
		overrides = map[string]bool{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ingredients = ingredients
	m.overrides = overrides
}
