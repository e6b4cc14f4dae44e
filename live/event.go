package live

// Event is one menu change pushed to connected browsers. Ingredient events
// carry the new availability, cocktail events the new enabled state.
type Event struct {
	Type       string `json:"type"` // "ingredient" or "cocktail"
	Name       string `json:"name"`
	Available  *bool  `json:"available,omitempty"`
	Enabled    *bool  `json:"enabled,omitempty"`
	IsOverride bool   `json:"is_override,omitempty"`
}

// IngredientEvent describes an availability change.
func IngredientEvent(name string, available bool) Event {
	return Event{Type: "ingredient", Name: name, Available: &available}
}

// CocktailEvent describes a manual override change.
func CocktailEvent(name string, enabled bool) Event {
	return Event{Type: "cocktail", Name: name, Enabled: &enabled, IsOverride: true}
}
