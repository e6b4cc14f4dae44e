package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmaupu/cocktails/errors"
)

const sampleYAML = `cocktails:
  - name: Mojito
    ingredients:
      - name: White rum
        qty: 5 cl
      - name: Lime juice
        qty: 2.5 cl
      - name: Mint leaves
        qty: 15 leaves
      - name: Sugar
        qty: 2 tsp
  - name: Daiquiri
    ingredients:
      - name: White rum
        qty: 6 cl
      - name: Lime juice
        qty: 3 cl
      - name: Simple syrup
        qty: 1.5 cl
`

func TestParse(t *testing.T) {
	catalog, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, 2, catalog.Len())
	assert.Equal(t, []string{"Mojito", "Daiquiri"}, catalog.Names())

	mojito, ok := catalog.Get("Mojito")
	require.True(t, ok)
	assert.Len(t, mojito.Ingredients, 4)
	assert.Equal(t, "White rum", mojito.Ingredients[0].Name)
	assert.Equal(t, "5 cl", mojito.Ingredients[0].Qty.String())

	_, ok = catalog.Get("Negroni")
	assert.False(t, ok)
	assert.True(t, catalog.Has("Daiquiri"))
	assert.False(t, catalog.Has("Negroni"))
}

func TestParse_NumericQty(t *testing.T) {
	catalog, err := Parse([]byte(`cocktails:
  - name: Test
    ingredients:
      - name: Olives
        qty: 3
      - name: Gin
        qty: 4.5
`))
	require.NoError(t, err)

	cocktail, ok := catalog.Get("Test")
	require.True(t, ok)
	assert.Equal(t, "3", cocktail.Ingredients[0].Qty.String())
	assert.Equal(t, "4.5", cocktail.Ingredients[1].Qty.String())
}

func TestParse_EmptyDocument(t *testing.T) {
	catalog, err := Parse([]byte("cocktails: []\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, catalog.Len())
	assert.Empty(t, catalog.AllIngredients())
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"malformed yaml", "cocktails: [unclosed"},
		{"missing cocktail name", "cocktails:\n  - ingredients:\n      - name: Gin\n"},
		{"blank cocktail name", "cocktails:\n  - name: \"  \"\n    ingredients: []\n"},
		{"duplicate cocktail", "cocktails:\n  - name: Mojito\n    ingredients: []\n  - name: Mojito\n    ingredients: []\n"},
		{"missing ingredient name", "cocktails:\n  - name: Mojito\n    ingredients:\n      - qty: 5 cl\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			require.Error(t, err)
			assert.True(t, errors.IsInvalid(err), "expected invalid classification for %v", err)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cocktails.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))

	catalog, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, catalog.Len())
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "cocktails.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	assert.Contains(t, err.Error(), "cocktails.yaml not found")
}

func TestVerify(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cocktails.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))

	assert.NoError(t, Verify(path))
}

func TestVerify_Missing(t *testing.T) {
	err := Verify(filepath.Join(t.TempDir(), "cocktails.yaml"))
	require.Error(t, err)
	assert.Equal(t, "cocktails.yaml not found", err.Error())
}

func TestVerify_Malformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cocktails.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cocktails: [broken"), 0o644))

	err := Verify(path)
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))
}

func TestAllIngredients(t *testing.T) {
	catalog, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	ingredients := catalog.AllIngredients()

	// Unique and sorted; "White rum" and "Lime juice" appear in both recipes
	assert.Equal(t, []string{
		"Lime juice",
		"Mint leaves",
		"Simple syrup",
		"Sugar",
		"White rum",
	}, ingredients)
}

func TestUsedIn(t *testing.T) {
	catalog, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	users := catalog.UsedIn("White rum")
	require.Len(t, users, 2)
	assert.Equal(t, "Mojito", users[0].Name)
	assert.Equal(t, "Daiquiri", users[1].Name)

	assert.Empty(t, catalog.UsedIn("Campari"))
}

func TestCocktails_ReturnsCopy(t *testing.T) {
	catalog, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	first := catalog.Cocktails()
	first[0].Name = "Mutated"

	second := catalog.Cocktails()
	assert.Equal(t, "Mojito", second[0].Name)
}
