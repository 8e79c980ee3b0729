package factory

import (
	"fmt"
	"strings"
)

// Item is a named quantity. Recipes use Amount as a per-craft count; realized
// flows use it as a rate in items per second.
type Item struct {
	Name   string  `json:"name" toml:"name"`
	Amount float64 `json:"amount" toml:"amount"`
}

// String returns "name (amount)".
func (i Item) String() string {
	return fmt.Sprintf("%s (%g)", i.Name, i.Amount)
}

// ItemNames extracts the name of each item, preserving order.
func ItemNames(items []Item) []string {
	names := make([]string, len(items))
	for i, it := range items {
		names[i] = it.Name
	}
	return names
}

// Recipe describes a single-output crafting step.
//
// Ingredient and result amounts are per craft. Time is the crafting time in
// seconds for a machine with crafting speed 1.
type Recipe struct {
	Name        string  `json:"name"`
	Ingredients []Item  `json:"ingredients"`
	Result      Item    `json:"result"`
	Time        float64 `json:"time"`
}

// Ingredient returns the ingredient with the given name.
func (r *Recipe) Ingredient(name string) (Item, bool) {
	for _, it := range r.Ingredients {
		if it.Name == name {
			return it, true
		}
	}
	return Item{}, false
}

// String returns a compact human-readable form, e.g.
// "gear [iron-plate: 2] => (gear (1))".
func (r *Recipe) String() string {
	parts := make([]string, len(r.Ingredients))
	for i, it := range r.Ingredients {
		parts[i] = fmt.Sprintf("%s: %g", it.Name, it.Amount)
	}
	return fmt.Sprintf("%s [%s] => (%s)", r.Name, strings.Join(parts, ", "), r.Result)
}
