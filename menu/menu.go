// Package menu assembles the presentable cocktail menu from the immutable
// catalog and the mutable availability state. All functions are pure; no
// I/O happens here.
package menu

import (
	"sort"
	"strconv"
	"strings"

	"github.com/nmaupu/cocktails/catalog"
)

// alcoholKeywords identifies base-spirit ingredients by substring match on
// the lowercased ingredient name.
var alcoholKeywords = []string{
	"rum", "gin", "vodka", "whiskey", "whisky", "tequila", "brandy",
	"cognac", "bourbon", "scotch", "rye", "mezcal", "pisco", "cachaça",
}

// OtherGroup is the group for cocktails with no recognized base spirit
const OtherGroup = "Other"

// Item is a cocktail with its computed availability
type Item struct {
	catalog.Cocktail
	Enabled    bool `json:"enabled"`
	IsOverride bool `json:"is_override"`
}

// Group is a set of cocktails sharing a main alcohol
type Group struct {
	Alcohol   string `json:"alcohol"`
	Cocktails []Item `json:"cocktails"`
}

// leadingQty extracts the integer prefix of a quantity ("15 leaves" → 15).
// Fractional and non-numeric leading tokens count as zero.
func leadingQty(q catalog.Quantity) int {
	fields := strings.Fields(q.String())
	if len(fields) == 0 {
		return 0
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0
	}
	return n
}

// MainAlcohol returns the name of the dominant base-spirit ingredient, the
// one matching an alcohol keyword with the highest leading quantity. Ties
// keep catalog order. Cocktails without a recognized spirit fall into
// OtherGroup.
func MainAlcohol(c catalog.Cocktail) string {
	type candidate struct {
		name string
		qty  int
	}

	var candidates []candidate
	for _, ingredient := range c.Ingredients {
		lower := strings.ToLower(ingredient.Name)
		for _, keyword := range alcoholKeywords {
			if strings.Contains(lower, keyword) {
				candidates = append(candidates, candidate{
					name: ingredient.Name,
					qty:  leadingQty(ingredient.Qty),
				})
				break
			}
		}
	}

	if len(candidates) == 0 {
		return OtherGroup
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].qty > candidates[j].qty
	})
	return candidates[0].name
}

// Enabled computes whether a cocktail is available. A manual override wins;
// otherwise every ingredient must be available, where an ingredient absent
// from the state map counts as available.
func Enabled(c catalog.Cocktail, ingredientStates, overrides map[string]bool) bool {
	if forced, ok := overrides[c.Name]; ok {
		return forced
	}

	for _, ingredient := range c.Ingredients {
		if available, ok := ingredientStates[ingredient.Name]; ok && !available {
			return false
		}
	}
	return true
}

// Assemble computes availability for every cocktail
func Assemble(cocktails []catalog.Cocktail, ingredientStates, overrides map[string]bool) []Item {
	items := make([]Item, len(cocktails))
	for i, cocktail := range cocktails {
		_, isOverride := overrides[cocktail.Name]
		items[i] = Item{
			Cocktail:   cocktail,
			Enabled:    Enabled(cocktail, ingredientStates, overrides),
			IsOverride: isOverride,
		}
	}
	return items
}

// GroupByAlcohol groups items by main alcohol. Groups come back sorted by
// group name; within a group enabled cocktails come first, each half sorted
// by lowercased name.
func GroupByAlcohol(items []Item) []Group {
	grouped := make(map[string][]Item)
	for _, item := range items {
		alcohol := MainAlcohol(item.Cocktail)
		grouped[alcohol] = append(grouped[alcohol], item)
	}

	names := make([]string, 0, len(grouped))
	for name := range grouped {
		names = append(names, name)
	}
	sort.Strings(names)

	groups := make([]Group, 0, len(names))
	for _, name := range names {
		members := grouped[name]
		sort.SliceStable(members, func(i, j int) bool {
			if members[i].Enabled != members[j].Enabled {
				return members[i].Enabled
			}
			return strings.ToLower(members[i].Name) < strings.ToLower(members[j].Name)
		})
		groups = append(groups, Group{Alcohol: name, Cocktails: members})
	}
	return groups
}

// StateView returns the name→enabled map served by the state API
func StateView(items []Item) map[string]bool {
	view := make(map[string]bool, len(items))
	for _, item := range items {
		view[item.Name] = item.Enabled
	}
	return view
}
