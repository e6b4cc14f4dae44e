package menu

import (
	"testing"

	"github.com/nmaupu/cocktails/catalog"
)

func mkCocktail(name string, ingredients ...catalog.Ingredient) catalog.Cocktail {
	return catalog.Cocktail{Name: name, Ingredients: ingredients}
}

func mkIngredient(name, qty string) catalog.Ingredient {
	return catalog.Ingredient{Name: name, Qty: catalog.Quantity(qty)}
}

func TestLeadingQty(t *testing.T) {
	tests := []struct {
		qty      string
		expected int
	}{
		{"15 leaves", 15},
		{"6 cl", 6},
		{"2 tsp", 2},
		{"1", 1},
		{"4.5 cl", 0}, // fractional leading token counts as zero
		{"dash", 0},
		{"", 0},
		{"  3  drops", 3},
	}

	for _, test := range tests {
		t.Run(test.qty, func(t *testing.T) {
			result := leadingQty(catalog.Quantity(test.qty))
			if result != test.expected {
				t.Errorf("leadingQty(%q) = %d, want %d", test.qty, result, test.expected)
			}
		})
	}
}

func TestMainAlcohol(t *testing.T) {
	tests := []struct {
		name     string
		cocktail catalog.Cocktail
		expected string
	}{
		{
			name: "no recognized spirit",
			cocktail: mkCocktail("Virgin Colada",
				mkIngredient("Pineapple juice", "9 cl"),
				mkIngredient("Coconut cream", "3 cl"),
			),
			expected: OtherGroup,
		},
		{
			name:     "no ingredients",
			cocktail: mkCocktail("Empty"),
			expected: OtherGroup,
		},
		{
			name: "single spirit",
			cocktail: mkCocktail("Gin Tonic",
				mkIngredient("Gin", "4 cl"),
				mkIngredient("Tonic water", "10 cl"),
			),
			expected: "Gin",
		},
		{
			name: "highest quantity wins",
			cocktail: mkCocktail("Long Island",
				mkIngredient("Vodka", "2 cl"),
				mkIngredient("White rum", "3 cl"),
				mkIngredient("Gin", "1 cl"),
			),
			expected: "White rum",
		},
		{
			name: "tie keeps catalog order",
			cocktail: mkCocktail("Fifty Fifty",
				mkIngredient("Vodka", "3 cl"),
				mkIngredient("Gin", "3 cl"),
			),
			expected: "Vodka",
		},
		{
			name: "case insensitive keyword match",
			cocktail: mkCocktail("Loud",
				mkIngredient("WHITE RUM", "5 cl"),
			),
			expected: "WHITE RUM",
		},
		{
			name: "fractional quantities count as zero",
			cocktail: mkCocktail("Precise",
				mkIngredient("Gin", "4.5 cl"),
				mkIngredient("Dark rum", "2 cl"),
			),
			expected: "Dark rum",
		},
		{
			name: "keyword inside ingredient name",
			cocktail: mkCocktail("Old Fashioned",
				mkIngredient("Bourbon whiskey", "6 cl"),
				mkIngredient("Sugar cube", "1"),
			),
			expected: "Bourbon whiskey",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := MainAlcohol(test.cocktail)
			if result != test.expected {
				t.Errorf("MainAlcohol() = %q, want %q", result, test.expected)
			}
		})
	}
}

func TestEnabled(t *testing.T) {
	mojito := mkCocktail("Mojito",
		mkIngredient("White rum", "5 cl"),
		mkIngredient("Mint leaves", "15 leaves"),
	)

	tests := []struct {
		name      string
		states    map[string]bool
		overrides map[string]bool
		expected  bool
	}{
		{
			name:     "no state means available",
			expected: true,
		},
		{
			name:     "unknown ingredients default to available",
			states:   map[string]bool{"Campari": false},
			expected: true,
		},
		{
			name:     "one unavailable ingredient disables",
			states:   map[string]bool{"Mint leaves": false},
			expected: false,
		},
		{
			name:     "all ingredients available",
			states:   map[string]bool{"White rum": true, "Mint leaves": true},
			expected: true,
		},
		{
			name:      "override false wins over available ingredients",
			states:    map[string]bool{"White rum": true, "Mint leaves": true},
			overrides: map[string]bool{"Mojito": false},
			expected:  false,
		},
		{
			name:      "override true wins over missing ingredient",
			states:    map[string]bool{"Mint leaves": false},
			overrides: map[string]bool{"Mojito": true},
			expected:  true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := Enabled(mojito, test.states, test.overrides)
			if result != test.expected {
				t.Errorf("Enabled() = %v, want %v", result, test.expected)
			}
		})
	}
}

func TestAssemble(t *testing.T) {
	cocktails := []catalog.Cocktail{
		mkCocktail("Mojito", mkIngredient("White rum", "5 cl"), mkIngredient("Mint leaves", "15 leaves")),
		mkCocktail("Daiquiri", mkIngredient("White rum", "6 cl")),
	}
	states := map[string]bool{"Mint leaves": false}
	overrides := map[string]bool{"Daiquiri": false}

	items := Assemble(cocktails, states, overrides)

	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}

	if items[0].Name != "Mojito" || items[0].Enabled || items[0].IsOverride {
		t.Errorf("Mojito: expected disabled without override, got %+v", items[0])
	}

	if items[1].Name != "Daiquiri" || items[1].Enabled || !items[1].IsOverride {
		t.Errorf("Daiquiri: expected disabled with override, got %+v", items[1])
	}
}

func TestGroupByAlcohol(t *testing.T) {
	items := Assemble([]catalog.Cocktail{
		mkCocktail("Negroni", mkIngredient("Gin", "3 cl"), mkIngredient("Campari", "3 cl")),
		mkCocktail("Mojito", mkIngredient("White rum", "5 cl")),
		mkCocktail("Daiquiri", mkIngredient("White rum", "6 cl")),
		mkCocktail("Virgin Colada", mkIngredient("Pineapple juice", "9 cl")),
		mkCocktail("gimlet", mkIngredient("Gin", "5 cl")),
	}, map[string]bool{}, map[string]bool{"Daiquiri": false})

	groups := GroupByAlcohol(items)

	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}

	// Groups sorted by name
	if groups[0].Alcohol != "Gin" || groups[1].Alcohol != "Other" || groups[2].Alcohol != "White rum" {
		t.Errorf("unexpected group order: %s, %s, %s",
			groups[0].Alcohol, groups[1].Alcohol, groups[2].Alcohol)
	}

	// Within a group: sorted by lowercased name
	gin := groups[0].Cocktails
	if len(gin) != 2 || gin[0].Name != "gimlet" || gin[1].Name != "Negroni" {
		t.Errorf("unexpected gin group order: %+v", gin)
	}

	// Enabled cocktails come before disabled ones
	rum := groups[2].Cocktails
	if len(rum) != 2 || rum[0].Name != "Mojito" || rum[1].Name != "Daiquiri" {
		t.Errorf("expected enabled Mojito before disabled Daiquiri, got %+v", rum)
	}
	if !rum[0].Enabled || rum[1].Enabled {
		t.Errorf("unexpected enabled flags in rum group: %+v", rum)
	}
}

func TestStateView(t *testing.T) {
	items := Assemble([]catalog.Cocktail{
		mkCocktail("Mojito", mkIngredient("White rum", "5 cl")),
		mkCocktail("Daiquiri", mkIngredient("White rum", "6 cl")),
	}, nil, map[string]bool{"Daiquiri": false})

	view := StateView(items)

	if len(view) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(view))
	}
	if !view["Mojito"] {
		t.Error("expected Mojito enabled")
	}
	if view["Daiquiri"] {
		t.Error("expected Daiquiri disabled")
	}
}
