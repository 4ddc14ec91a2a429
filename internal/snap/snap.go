// Package snap grades meal photos on the "Hostel Grade" scale and records
// them as meal snaps.
package snap

import "time"

// MealType classifies a snap by time of day.
type MealType string

const (
	Breakfast MealType = "breakfast"
	Lunch     MealType = "lunch"
	Dinner    MealType = "dinner"
	Snack     MealType = "snack"
)

// MealTypeAt infers the meal type from the local hour: 6-11 breakfast, 11-15
// lunch, 18-22 dinner, anything else a snack.
func MealTypeAt(now time.Time) MealType {
	hour := now.Hour()
	switch {
	case hour >= 6 && hour < 11:
		return Breakfast
	case hour >= 11 && hour < 15:
		return Lunch
	case hour >= 18 && hour < 22:
		return Dinner
	default:
		return Snack
	}
}

var mealEmojis = map[MealType]string{
	Breakfast: "🌅",
	Lunch:     "☀️",
	Dinner:    "🌙",
	Snack:     "🍿",
}

// MealEmoji returns the display emoji for a meal type.
func MealEmoji(t MealType) string {
	if e, ok := mealEmojis[t]; ok {
		return e
	}
	return "🍽️"
}

// grades is the ordered Hostel Grade scale.
var grades = map[string]struct{}{
	"A+": {}, "A": {}, "B": {}, "C": {}, "D": {}, "F": {},
}

// GradeResult is the structured outcome of grading one dish photo. Macro
// values are approximate grams.
type GradeResult struct {
	Grade      string `json:"grade"`
	Protein    int    `json:"protein"`
	Carbs      int    `json:"carbs"`
	Fat        int    `json:"fat"`
	Fiber      int    `json:"fiber"`
	Calories   int    `json:"calories,omitempty"`
	Verdict    string `json:"verdict"`
	UpgradeTip string `json:"upgradeTip"`
}

// FallbackResult is the generic substitute shown when every model in the
// chain is exhausted.
func FallbackResult() GradeResult {
	return GradeResult{
		Grade:      "C",
		Verdict:    "Couldn't grade this one — but logging it still counts! 📸",
		UpgradeTip: "Add some veggies or protein to level up.",
	}
}

// Record is a meal snap persisted through the store.
type Record struct {
	ID         string    `json:"id"`
	MealType   MealType  `json:"mealType"`
	Grade      string    `json:"grade"`
	Protein    int       `json:"protein"`
	Carbs      int       `json:"carbs"`
	Fat        int       `json:"fat"`
	Fiber      int       `json:"fiber"`
	Calories   int       `json:"calories,omitempty"`
	Verdict    string    `json:"verdict"`
	UpgradeTip string    `json:"upgradeTip,omitempty"`
	ImageURL   string    `json:"imageUrl,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// NewRecord builds a meal-snap record from a grade result.
func NewRecord(id string, now time.Time, mealType MealType, g GradeResult) Record {
	return Record{
		ID:         id,
		MealType:   mealType,
		Grade:      g.Grade,
		Protein:    g.Protein,
		Carbs:      g.Carbs,
		Fat:        g.Fat,
		Fiber:      g.Fiber,
		Calories:   g.Calories,
		Verdict:    g.Verdict,
		UpgradeTip: g.UpgradeTip,
		CreatedAt:  now,
	}
}
