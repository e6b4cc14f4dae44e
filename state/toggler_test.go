package state

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmaupu/cocktails/catalog"
	"github.com/nmaupu/cocktails/errors"
)

const togglerYAML = `cocktails:
  - name: Negroni
    ingredients:
      - name: Gin
        qty: 3 cl
      - name: Campari
        qty: 3 cl
      - name: Sweet vermouth
        qty: 3 cl
  - name: Americano
    ingredients:
      - name: Campari
        qty: 3 cl
      - name: Sweet vermouth
        qty: 3 cl
      - name: Soda water
        qty: splash
  - name: Gin Tonic
    ingredients:
      - name: Gin
        qty: 4 cl
      - name: Tonic water
        qty: 10 cl
`

func newTestToggler(t *testing.T) *Toggler {
	t.Helper()
	cat, err := catalog.Parse([]byte(togglerYAML))
	require.NoError(t, err)
	return NewToggler(cat, NewMemory())
}

func TestToggleIngredientDefaultsToAvailable(t *testing.T) {
	tog := newTestToggler(t)
	ctx := context.Background()

	// First toggle takes the ingredient out of stock.
	available, err := tog.ToggleIngredient(ctx, "Gin")
	require.NoError(t, err)
	assert.False(t, available)

	available, err = tog.ToggleIngredient(ctx, "Gin")
	require.NoError(t, err)
	assert.True(t, available)
}

func TestToggleIngredientUnknownNameStillRecorded(t *testing.T) {
	// Names outside the catalog are recorded as-is, matching the loose
	// coupling between the catalog file and the state documents.
	tog := newTestToggler(t)

	available, err := tog.ToggleIngredient(context.Background(), "Yuzu juice")
	require.NoError(t, err)
	assert.False(t, available)
}

func TestToggleIngredientEmptyName(t *testing.T) {
	tog := newTestToggler(t)
	_, err := tog.ToggleIngredient(context.Background(), "")
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))
}

func TestToggleCocktailSetsOverride(t *testing.T) {
	tog := newTestToggler(t)
	ctx := context.Background()

	// Negroni is enabled, toggling forces it off.
	enabled, err := tog.ToggleCocktail(ctx, "Negroni")
	require.NoError(t, err)
	assert.False(t, enabled)

	items, err := tog.Items(ctx)
	require.NoError(t, err)
	for _, it := range items {
		if it.Name == "Negroni" {
			assert.False(t, it.Enabled)
			assert.True(t, it.IsOverride)
		}
	}

	// Toggling again forces it back on, still an override.
	enabled, err = tog.ToggleCocktail(ctx, "Negroni")
	require.NoError(t, err)
	assert.True(t, enabled)
}

func TestToggleCocktailUnknown(t *testing.T) {
	tog := newTestToggler(t)
	_, err := tog.ToggleCocktail(context.Background(), "Mojito")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestToggleCocktailForceEnableOverMissingIngredient(t *testing.T) {
	tog := newTestToggler(t)
	ctx := context.Background()

	_, err := tog.ToggleIngredient(ctx, "Gin") // out of stock
	require.NoError(t, err)

	items, err := tog.Items(ctx)
	require.NoError(t, err)
	byName := map[string]bool{}
	for _, it := range items {
		byName[it.Name] = it.Enabled
	}
	assert.False(t, byName["Negroni"])
	assert.False(t, byName["Gin Tonic"])
	assert.True(t, byName["Americano"])

	// Force Gin Tonic on despite the missing gin.
	enabled, err := tog.ToggleCocktail(ctx, "Gin Tonic")
	require.NoError(t, err)
	assert.True(t, enabled)
}

func TestIngredientRestockClearsSatisfiedOverrides(t *testing.T) {
	tog := newTestToggler(t)
	ctx := context.Background()

	_, err := tog.ToggleIngredient(ctx, "Gin") // out of stock
	require.NoError(t, err)
	_, err = tog.ToggleCocktail(ctx, "Gin Tonic") // force on
	require.NoError(t, err)
	_, err = tog.ToggleCocktail(ctx, "Americano") // force off, gin-free
	require.NoError(t, err)

	// Restocking gin clears the Gin Tonic override because all of its
	// ingredients are available again. Americano does not use gin, so its
	// override is never examined.
	available, err := tog.ToggleIngredient(ctx, "Gin")
	require.NoError(t, err)
	assert.True(t, available)

	overrides, err := tog.store.Overrides(ctx)
	require.NoError(t, err)
	assert.NotContains(t, overrides, "Gin Tonic")
	assert.Contains(t, overrides, "Americano", "Americano does not use gin, override untouched")
}

func TestIngredientRestockKeepsUnsatisfiedOverrides(t *testing.T) {
	tog := newTestToggler(t)
	ctx := context.Background()

	_, err := tog.ToggleIngredient(ctx, "Gin")
	require.NoError(t, err)
	_, err = tog.ToggleIngredient(ctx, "Campari")
	require.NoError(t, err)
	_, err = tog.ToggleCocktail(ctx, "Negroni") // force on with two missing
	require.NoError(t, err)

	// Gin returns but Campari is still missing, the override stays.
	_, err = tog.ToggleIngredient(ctx, "Gin")
	require.NoError(t, err)

	overrides, err := tog.store.Overrides(ctx)
	require.NoError(t, err)
	assert.Contains(t, overrides, "Negroni")
}

func TestIngredientStatesCoversCatalog(t *testing.T) {
	tog := newTestToggler(t)
	ctx := context.Background()

	_, err := tog.ToggleIngredient(ctx, "Campari")
	require.NoError(t, err)

	states, err := tog.IngredientStates(ctx)
	require.NoError(t, err)
	assert.False(t, states["Campari"])
	assert.True(t, states["Gin"], "untouched ingredients default to available")
	assert.True(t, states["Tonic water"])
	assert.Len(t, states, 6)
}
