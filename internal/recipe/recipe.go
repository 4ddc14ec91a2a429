// Package recipe holds the static recipe catalog, the per-appliance fallback
// table, and AI recipe generation.
package recipe

import (
	"math/rand"
	"strings"

	"cravecare/internal/cycle"
)

// Recipe is a single dish suggestion. Immutable once constructed; only its
// ingredient list is copied onward (into the grocery list).
type Recipe struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Appliance   string      `json:"appliance"`
	Phase       cycle.Phase `json:"phase"`
	Time        string      `json:"time"`
	Calories    int         `json:"calories"`
	KeyNutrient string      `json:"keyNutrient"`
	Ingredients []string    `json:"ingredients"`
	Steps       []string    `json:"steps"`
	Emoji       string      `json:"emoji"`
}

// applianceNames maps appliance IDs to the names used in prompts.
var applianceNames = map[string]string{
	"kettle":         "electric kettle",
	"induction":      "induction cooktop",
	"sandwich-maker": "sandwich maker/panini press",
	"fridge":         "refrigerator",
}

// ApplianceName returns the prompt-friendly name for an appliance ID.
func ApplianceName(id string) string {
	if name, ok := applianceNames[id]; ok {
		return name
	}
	return id
}

var emojiKeywords = []struct {
	words []string
	emoji string
}{
	{[]string{"soup", "broth"}, "🥣"},
	{[]string{"tea", "latte", "drink"}, "🍵"},
	{[]string{"sandwich", "toast"}, "🥪"},
	{[]string{"egg", "bhurji"}, "🍳"},
	{[]string{"pancake", "dosa"}, "🥞"},
	{[]string{"rice", "pulao"}, "🍚"},
	{[]string{"dal", "curry"}, "🍲"},
	{[]string{"chocolate", "cocoa"}, "🍫"},
	{[]string{"salad", "bowl"}, "🥗"},
	{[]string{"noodles", "maggi"}, "🍜"},
}

// EmojiFor picks an emoji from keywords in the recipe name, falling back to
// the phase emoji.
func EmojiFor(name string, phase cycle.Phase) string {
	lower := strings.ToLower(name)
	for _, kw := range emojiKeywords {
		for _, w := range kw.words {
			if strings.Contains(lower, w) {
				return kw.emoji
			}
		}
	}
	if info, ok := cycle.Phases[phase]; ok {
		return info.Emoji
	}
	return "✨"
}

// MomTips are short daily nudges shown on the dashboard.
var MomTips = []string{
	"Add a pinch of turmeric to your milk before bed — Mom's secret sleep potion! 🌙",
	"Soak your oats overnight. Morning-you will thank evening-you, sis! 🌅",
	"A banana + peanut butter = the hostel protein combo nobody told you about 🍌",
	"Drink warm water with lemon first thing. Your gut will send you a thank-you card 💌",
	"Roasted chana > chips. Your wallet AND waist agree! 💰",
	"Curd rice isn't boring — it's a probiotic powerhouse in disguise 🦸‍♀️",
	"Jaggery in your tea instead of sugar. Small swap, big difference! 🍵",
	"Sprouts don't need cooking — just soak overnight. Lazy girl protein hack! 🌱",
	"Feeling low? Dark chocolate (70%+) boosts serotonin. Science says treat yourself! 🍫",
	"Coconut water > that expensive cold coffee. Stay hydrated, queen! 🥥",
}

// MomTip draws one tip from the injected random source.
func MomTip(r *rand.Rand) string {
	return MomTips[r.Intn(len(MomTips))]
}

// Filter narrows the catalog to recipes for appliances the user owns,
// optionally restricted to one appliance and a name substring.
func Filter(list []Recipe, owned []string, appliance, search string) []Recipe {
	ownedSet := make(map[string]struct{}, len(owned))
	for _, a := range owned {
		ownedSet[a] = struct{}{}
	}
	search = strings.ToLower(search)

	var out []Recipe
	for _, r := range list {
		if _, ok := ownedSet[r.Appliance]; !ok {
			continue
		}
		if appliance != "" && r.Appliance != appliance {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(r.Name), search) {
			continue
		}
		out = append(out, r)
	}
	return out
}
