package state

import (
	"context"
	"sync"

	"github.com/nmaupu/cocktails/catalog"
	"github.com/nmaupu/cocktails/errors"
	"github.com/nmaupu/cocktails/menu"
)

// Toggler applies menu mutations on top of a Store. A single mutex
// serializes mutations so each read-modify-write cycle observes a
// consistent state.
type Toggler struct {
	catalog *catalog.Catalog
	store   Store
	mu      sync.Mutex
}

// NewToggler wires a catalog and a store together.
func NewToggler(cat *catalog.Catalog, store Store) *Toggler {
	return &Toggler{catalog: cat, store: store}
}

// ToggleIngredient flips availability for the named ingredient and returns
// the new value. Ingredients never toggled count as available, so the
// first toggle marks them out of stock.
//
// When an ingredient comes back in stock, manual overrides are cleared on
// every cocktail using it whose ingredients are now all available, letting
// the computed state show through again.
func (t *Toggler) ToggleIngredient(ctx context.Context, name string) (bool, error) {
	if name == "" {
		return false, errors.WrapInvalid(nil, "state", "ToggleIngredient", "ingredient name cannot be empty")
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	states, err := t.store.IngredientStates(ctx)
	if err != nil {
		return false, err
	}
	current, ok := states[name]
	if !ok {
		current = true
	}
	next := !current
	states[name] = next

	if next {
		overrides, err := t.store.Overrides(ctx)
		if err != nil {
			return false, err
		}
		for _, c := range t.catalog.UsedIn(name) {
			if _, overridden := overrides[c.Name]; !overridden {
				continue
			}
			if !menu.Enabled(c, states, nil) {
				continue
			}
			if err := t.store.ClearOverride(ctx, c.Name); err != nil {
				return false, err
			}
		}
	}

	if err := t.store.SetIngredientState(ctx, name, next); err != nil {
		return false, err
	}
	return next, nil
}

// ToggleCocktail records a manual override forcing the named cocktail to
// the opposite of its currently shown state, and returns the new value.
// Toggling twice force-enables a cocktail that was disabled by a missing
// ingredient.
func (t *Toggler) ToggleCocktail(ctx context.Context, name string) (bool, error) {
	if name == "" {
		return false, errors.WrapInvalid(nil, "state", "ToggleCocktail", "cocktail name cannot be empty")
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	c, ok := t.catalog.Get(name)
	if !ok {
		return false, errors.WrapInvalid(errors.ErrNotFound, "state", "ToggleCocktail", "cocktail not in catalog")
	}
	states, err := t.store.IngredientStates(ctx)
	if err != nil {
		return false, err
	}
	overrides, err := t.store.Overrides(ctx)
	if err != nil {
		return false, err
	}
	next := !menu.Enabled(c, states, overrides)
	if err := t.store.SetOverride(ctx, name, next); err != nil {
		return false, err
	}
	return next, nil
}

// Items returns every catalog cocktail with its computed enabled state and
// override marker, in catalog order.
func (t *Toggler) Items(ctx context.Context) ([]menu.Item, error) {
	states, err := t.store.IngredientStates(ctx)
	if err != nil {
		return nil, err
	}
	overrides, err := t.store.Overrides(ctx)
	if err != nil {
		return nil, err
	}
	return menu.Assemble(t.catalog.Cocktails(), states, overrides), nil
}

// IngredientStates reports availability for every catalog ingredient,
// defaulting to available for ingredients never toggled.
func (t *Toggler) IngredientStates(ctx context.Context) (map[string]bool, error) {
	states, err := t.store.IngredientStates(ctx)
	if err != nil {
		return nil, err
	}
	names := t.catalog.AllIngredients()
	out := make(map[string]bool, len(names))
	for _, name := range names {
		avail, ok := states[name]
		if !ok {
			avail = true
		}
		out[name] = avail
	}
	return out, nil
}

// Catalog exposes the wired catalog for rendering.
func (t *Toggler) Catalog() *catalog.Catalog { return t.catalog }
