// Package catalog loads and serves the cocktail catalog. The catalog is a
// YAML document read once at startup and immutable for the lifetime of the
// process; mutable availability state lives in the state package.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nmaupu/cocktails/errors"
)

// Quantity is a free-form amount ("4.5 cl", "15 leaves", "1"). The catalog
// file may use bare numbers or strings; both decode to the literal scalar
// text. Quantity interpretation happens in the menu package.
type Quantity string

// UnmarshalYAML accepts any scalar node and keeps its literal text
func (q *Quantity) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("qty must be a scalar, got %v", value.Kind)
	}
	*q = Quantity(value.Value)
	return nil
}

// String returns the raw quantity text
func (q Quantity) String() string {
	return string(q)
}

// Ingredient is a single component of a cocktail
type Ingredient struct {
	Name string   `yaml:"name" json:"name"`
	Qty  Quantity `yaml:"qty,omitempty" json:"qty,omitempty"`
}

// Cocktail is a named recipe from the catalog
type Cocktail struct {
	Name        string       `yaml:"name" json:"name"`
	Ingredients []Ingredient `yaml:"ingredients" json:"ingredients"`
}

// document is the YAML file shape
type document struct {
	Cocktails []Cocktail `yaml:"cocktails"`
}

// Catalog is the immutable set of cocktails loaded at startup
type Catalog struct {
	cocktails   []Cocktail
	byName      map[string]int
	ingredients []string
}

// Load reads and parses the catalog file
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(notFoundErr(path), "catalog", "Load", "read file")
		}
		return nil, errors.WrapTransient(err, "catalog", "Load", "read file")
	}

	catalog, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(err, "catalog", "Load", "parse "+filepath.Base(path))
	}

	return catalog, nil
}

// Parse builds a catalog from YAML bytes
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.WrapInvalid(err, "catalog", "Parse", "decode yaml")
	}

	byName := make(map[string]int, len(doc.Cocktails))
	ingredientSet := make(map[string]struct{})

	for i, cocktail := range doc.Cocktails {
		if strings.TrimSpace(cocktail.Name) == "" {
			return nil, errors.WrapInvalid(
				fmt.Errorf("cocktail at index %d has no name", i),
				"catalog", "Parse", "validate cocktails")
		}
		if _, dup := byName[cocktail.Name]; dup {
			return nil, errors.WrapInvalid(
				fmt.Errorf("duplicate cocktail name '%s'", cocktail.Name),
				"catalog", "Parse", "validate cocktails")
		}
		byName[cocktail.Name] = i

		for j, ingredient := range cocktail.Ingredients {
			if strings.TrimSpace(ingredient.Name) == "" {
				return nil, errors.WrapInvalid(
					fmt.Errorf("cocktail '%s' ingredient at index %d has no name", cocktail.Name, j),
					"catalog", "Parse", "validate ingredients")
			}
			ingredientSet[ingredient.Name] = struct{}{}
		}
	}

	ingredients := make([]string, 0, len(ingredientSet))
	for name := range ingredientSet {
		ingredients = append(ingredients, name)
	}
	sort.Strings(ingredients)

	return &Catalog{
		cocktails:   doc.Cocktails,
		byName:      byName,
		ingredients: ingredients,
	}, nil
}

// Verify checks that the catalog file on disk still exists and parses.
// Used by the health probe; the serving copy is the startup snapshot.
func Verify(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return notFoundErr(path)
		}
		return errors.WrapTransient(err, "catalog", "Verify", "read file")
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return errors.WrapInvalid(err, "catalog", "Verify", "decode yaml")
	}

	return nil
}

// notFoundErr keeps the probe message stable and free of directory paths
func notFoundErr(path string) error {
	return fmt.Errorf("%s %w", filepath.Base(path), errors.ErrNotFound)
}

// Cocktails returns a copy of the cocktail list. Callers must treat the
// nested ingredient slices as read-only.
func (c *Catalog) Cocktails() []Cocktail {
	out := make([]Cocktail, len(c.cocktails))
	copy(out, c.cocktails)
	return out
}

// Get returns the named cocktail
func (c *Catalog) Get(name string) (Cocktail, bool) {
	idx, ok := c.byName[name]
	if !ok {
		return Cocktail{}, false
	}
	return c.cocktails[idx], true
}

// Has reports whether the named cocktail exists
func (c *Catalog) Has(name string) bool {
	_, ok := c.byName[name]
	return ok
}

// Names returns all cocktail names in catalog order
func (c *Catalog) Names() []string {
	names := make([]string, len(c.cocktails))
	for i, cocktail := range c.cocktails {
		names[i] = cocktail.Name
	}
	return names
}

// AllIngredients returns the sorted unique ingredient names across the
// whole catalog
func (c *Catalog) AllIngredients() []string {
	out := make([]string, len(c.ingredients))
	copy(out, c.ingredients)
	return out
}

// UsedIn returns the cocktails that list the given ingredient
func (c *Catalog) UsedIn(ingredient string) []Cocktail {
	var out []Cocktail
	for _, cocktail := range c.cocktails {
		for _, ing := range cocktail.Ingredients {
			if ing.Name == ingredient {
				out = append(out, cocktail)
				break
			}
		}
	}
	return out
}

// Len returns the number of cocktails
func (c *Catalog) Len() int {
	return len(c.cocktails)
}
