// Package grocery models the shopping list built from recipes and manual
// entries.
package grocery

import (
	"strings"
	"time"

	"cravecare/internal/recipe"
)

// Item is one grocery-list row.
type Item struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Checked           bool      `json:"checked"`
	SourceRecipeName  string    `json:"sourceRecipeName,omitempty"`
	SourceRecipeEmoji string    `json:"sourceRecipeEmoji,omitempty"`
	Quantity          string    `json:"quantity,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
}

// NewItem is the caller-supplied part of an item; IDs, the unchecked state
// and timestamps are assigned by the store.
type NewItem struct {
	Name              string
	SourceRecipeName  string
	SourceRecipeEmoji string
	Quantity          string
}

// FromRecipe turns a recipe's ingredient list into a batch of new items
// tagged with the source recipe.
func FromRecipe(r recipe.Recipe) []NewItem {
	items := make([]NewItem, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		ing = strings.TrimSpace(ing)
		if ing == "" {
			continue
		}
		items = append(items, NewItem{
			Name:              ing,
			SourceRecipeName:  r.Name,
			SourceRecipeEmoji: r.Emoji,
		})
	}
	return items
}

// CheckedCount returns how many items are ticked off.
func CheckedCount(items []Item) int {
	n := 0
	for _, it := range items {
		if it.Checked {
			n++
		}
	}
	return n
}
