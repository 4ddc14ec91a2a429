package recipe

import "cravecare/internal/cycle"

// Catalog is the static set of hostel-friendly recipes shown on the home tab.
var Catalog = []Recipe{
	{
		ID: "1", Name: "Iron-Rich Spinach Soup", Appliance: "kettle", Phase: cycle.Menstrual,
		Time: "10 min", Calories: 180, KeyNutrient: "Iron",
		Ingredients: []string{"Instant spinach soup mix", "Lemon juice", "Sesame seeds"},
		Steps:       []string{"Boil water in kettle", "Mix soup powder", "Add lemon and seeds"},
		Emoji:       "🥣",
	},
	{
		ID: "2", Name: "Protein Egg Bhurji", Appliance: "induction", Phase: cycle.Follicular,
		Time: "12 min", Calories: 250, KeyNutrient: "Protein",
		Ingredients: []string{"2 eggs", "Onion", "Tomato", "Turmeric", "Oil"},
		Steps:       []string{"Heat oil", "Sauté onion & tomato", "Add eggs & scramble", "Season well"},
		Emoji:       "🍳",
	},
	{
		ID: "3", Name: "Veggie Grilled Sandwich", Appliance: "sandwich-maker", Phase: cycle.Ovulatory,
		Time: "8 min", Calories: 220, KeyNutrient: "Fiber",
		Ingredients: []string{"Whole wheat bread", "Capsicum", "Corn", "Cheese slice", "Chutney"},
		Steps:       []string{"Layer veggies on bread", "Add cheese & chutney", "Grill until golden"},
		Emoji:       "🥪",
	},
	{
		ID: "4", Name: "Dark Chocolate Oats", Appliance: "kettle", Phase: cycle.Luteal,
		Time: "7 min", Calories: 280, KeyNutrient: "Magnesium",
		Ingredients: []string{"Instant oats", "Dark chocolate chips", "Banana", "Honey"},
		Steps:       []string{"Boil water", "Add oats & chocolate", "Top with banana slices"},
		Emoji:       "🍫",
	},
	{
		ID: "5", Name: "Masala Maggi Upgrade", Appliance: "induction", Phase: cycle.Menstrual,
		Time: "10 min", Calories: 320, KeyNutrient: "Iron",
		Ingredients: []string{"Maggi", "Spinach", "Egg", "Peanuts"},
		Steps:       []string{"Cook Maggi per pack", "Add chopped spinach", "Drop in an egg", "Top with peanuts"},
		Emoji:       "🍜",
	},
	{
		ID: "6", Name: "Peanut Butter Toast Stack", Appliance: "sandwich-maker", Phase: cycle.Follicular,
		Time: "5 min", Calories: 310, KeyNutrient: "Protein",
		Ingredients: []string{"Bread", "Peanut butter", "Banana", "Honey", "Chia seeds"},
		Steps:       []string{"Spread PB on bread", "Add banana slices", "Drizzle honey", "Grill lightly"},
		Emoji:       "🥜",
	},
	{
		ID: "7", Name: "Quick Poha Bowl", Appliance: "induction", Phase: cycle.Ovulatory,
		Time: "15 min", Calories: 240, KeyNutrient: "Fiber",
		Ingredients: []string{"Poha", "Peanuts", "Onion", "Lemon", "Curry leaves"},
		Steps:       []string{"Rinse poha", "Sauté peanuts & onion", "Add poha & spices", "Squeeze lemon"},
		Emoji:       "🥣",
	},
	{
		ID: "8", Name: "Midnight Turmeric Latte", Appliance: "kettle", Phase: cycle.Luteal,
		Time: "5 min", Calories: 120, KeyNutrient: "Magnesium",
		Ingredients: []string{"Milk", "Turmeric", "Honey", "Cinnamon"},
		Steps:       []string{"Heat milk in kettle", "Add turmeric & cinnamon", "Sweeten with honey"},
		Emoji:       "🥛",
	},
}

// fallbacks is the static substitute table used when AI generation is
// unavailable, keyed by appliance then phase.
var fallbacks = map[string]map[cycle.Phase]Recipe{
	"kettle": {
		cycle.Menstrual:  {ID: "fallback-1", Name: "Beetroot Ginger Tea", Appliance: "kettle", Phase: cycle.Menstrual, Time: "5 min", Calories: 60, KeyNutrient: "Iron", Ingredients: []string{"Beetroot powder", "Ginger", "Honey"}, Steps: []string{"Boil water", "Add beetroot powder & ginger", "Sweeten"}, Emoji: "🫖"},
		cycle.Follicular: {ID: "fallback-2", Name: "Green Tea Protein Shake", Appliance: "kettle", Phase: cycle.Follicular, Time: "5 min", Calories: 150, KeyNutrient: "Protein", Ingredients: []string{"Green tea", "Protein powder", "Honey"}, Steps: []string{"Brew green tea", "Cool slightly", "Mix in protein"}, Emoji: "🍵"},
		cycle.Ovulatory:  {ID: "fallback-3", Name: "Lemon Detox Water", Appliance: "kettle", Phase: cycle.Ovulatory, Time: "3 min", Calories: 20, KeyNutrient: "Vitamin C", Ingredients: []string{"Lemon", "Mint", "Cucumber"}, Steps: []string{"Boil water", "Cool", "Add lemon, mint, cucumber"}, Emoji: "🍋"},
		cycle.Luteal:     {ID: "fallback-4", Name: "Hot Cocoa Comfort", Appliance: "kettle", Phase: cycle.Luteal, Time: "5 min", Calories: 200, KeyNutrient: "Magnesium", Ingredients: []string{"Cocoa powder", "Milk", "Jaggery"}, Steps: []string{"Heat milk", "Mix cocoa & jaggery", "Stir well"}, Emoji: "☕"},
	},
	"induction": {
		cycle.Menstrual:  {ID: "fallback-5", Name: "Dal Tadka Express", Appliance: "induction", Phase: cycle.Menstrual, Time: "20 min", Calories: 280, KeyNutrient: "Iron", Ingredients: []string{"Moong dal", "Tomato", "Cumin", "Ghee"}, Steps: []string{"Pressure cook dal", "Make tadka", "Mix together"}, Emoji: "🍲"},
		cycle.Follicular: {ID: "fallback-6", Name: "Egg Fried Rice", Appliance: "induction", Phase: cycle.Follicular, Time: "15 min", Calories: 350, KeyNutrient: "Protein", Ingredients: []string{"Leftover rice", "Eggs", "Soy sauce", "Veggies"}, Steps: []string{"Scramble eggs", "Add rice & veggies", "Season with soy sauce"}, Emoji: "🍚"},
		cycle.Ovulatory:  {ID: "fallback-7", Name: "Stir-Fry Veggie Bowl", Appliance: "induction", Phase: cycle.Ovulatory, Time: "12 min", Calories: 200, KeyNutrient: "Fiber", Ingredients: []string{"Mixed veggies", "Sesame oil", "Garlic", "Soy sauce"}, Steps: []string{"Heat oil", "Add garlic & veggies", "Season & serve"}, Emoji: "🥗"},
		cycle.Luteal:     {ID: "fallback-8", Name: "Banana Pancakes", Appliance: "induction", Phase: cycle.Luteal, Time: "15 min", Calories: 300, KeyNutrient: "Magnesium", Ingredients: []string{"Banana", "Oats", "Egg", "Cinnamon"}, Steps: []string{"Mash banana", "Mix with oats & egg", "Pan-fry small pancakes"}, Emoji: "🥞"},
	},
	"sandwich-maker": {
		cycle.Menstrual:  {ID: "fallback-9", Name: "Spinach Cheese Melt", Appliance: "sandwich-maker", Phase: cycle.Menstrual, Time: "7 min", Calories: 260, KeyNutrient: "Iron", Ingredients: []string{"Bread", "Spinach", "Cheese", "Garlic butter"}, Steps: []string{"Spread garlic butter", "Layer spinach & cheese", "Grill"}, Emoji: "🧀"},
		cycle.Follicular: {ID: "fallback-10", Name: "Paneer Tikka Sandwich", Appliance: "sandwich-maker", Phase: cycle.Follicular, Time: "8 min", Calories: 290, KeyNutrient: "Protein", Ingredients: []string{"Bread", "Paneer", "Tikka paste", "Onion"}, Steps: []string{"Marinate paneer", "Layer on bread", "Grill until crispy"}, Emoji: "🫓"},
		cycle.Ovulatory:  {ID: "fallback-11", Name: "Corn & Capsicum Grill", Appliance: "sandwich-maker", Phase: cycle.Ovulatory, Time: "8 min", Calories: 210, KeyNutrient: "Fiber", Ingredients: []string{"Bread", "Sweet corn", "Capsicum", "Mayo"}, Steps: []string{"Mix corn & capsicum", "Spread on bread", "Grill"}, Emoji: "🌽"},
		cycle.Luteal:     {ID: "fallback-12", Name: "Nutella Banana Toastie", Appliance: "sandwich-maker", Phase: cycle.Luteal, Time: "5 min", Calories: 340, KeyNutrient: "Magnesium", Ingredients: []string{"Bread", "Nutella", "Banana", "Walnuts"}, Steps: []string{"Spread Nutella", "Add banana & walnuts", "Grill lightly"}, Emoji: "🍌"},
	},
}

// Fallback returns the canned substitute for the appliance and phase. Every
// call yields a usable recipe, so AI failures never leave the screen empty.
func Fallback(appliance string, phase cycle.Phase) Recipe {
	if byPhase, ok := fallbacks[appliance]; ok {
		if r, ok := byPhase[phase]; ok {
			return r
		}
	}
	info := cycle.Phases[phase]
	return Recipe{
		ID: "fallback-default", Name: info.Name + " Special", Appliance: appliance, Phase: phase,
		Time: "10 min", Calories: 200, KeyNutrient: info.Nutrient,
		Ingredients: []string{"Check pantry"}, Steps: []string{"Get creative!"}, Emoji: "✨",
	}
}
