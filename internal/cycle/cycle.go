// Package cycle maps a last-period date onto the four phases of a 28-day
// menstrual cycle and carries the nutrient focus for each phase.
package cycle

import "time"

// Phase is one of the four recurring segments of the cycle.
type Phase string

const (
	Menstrual  Phase = "menstrual"
	Follicular Phase = "follicular"
	Ovulatory  Phase = "ovulatory"
	Luteal     Phase = "luteal"
)

// Length is the number of days in one full cycle.
const Length = 28

// Info describes a phase for display and for prompt building.
type Info struct {
	Name     string
	Emoji    string
	Nutrient string
	Tip      string
	Days     string
}

// Phases holds display and nutrient data for every phase.
var Phases = map[Phase]Info{
	Menstrual: {
		Name:     "Menstrual",
		Emoji:    "🌙",
		Nutrient: "Iron & Vitamin C",
		Tip:      "Your body is shedding. Focus on iron-rich comfort foods, sis!",
		Days:     "Days 1-5",
	},
	Follicular: {
		Name:     "Follicular",
		Emoji:    "🌱",
		Nutrient: "Protein & B Vitamins",
		Tip:      "Energy is rising! Time for fresh, light meals that fuel your hustle.",
		Days:     "Days 6-13",
	},
	Ovulatory: {
		Name:     "Ovulatory",
		Emoji:    "☀️",
		Nutrient: "Fiber & Antioxidants",
		Tip:      "You're glowing, queen! Keep it light and veggie-forward.",
		Days:     "Days 14-16",
	},
	Luteal: {
		Name:     "Luteal",
		Emoji:    "🍫",
		Nutrient: "Magnesium & Complex Carbs",
		Tip:      "Cravings incoming! Let's channel them into something nourishing.",
		Days:     "Days 17-28",
	},
}

// DateLayout is the calendar-date format used throughout the app.
const DateLayout = "2006-01-02"

// DayOf returns the zero-based day of the cycle for the given instant.
// An unparseable or future lastPeriodDate is treated as day 0.
func DayOf(lastPeriodDate string, now time.Time) int {
	last, err := time.ParseInLocation(DateLayout, lastPeriodDate, now.Location())
	if err != nil {
		return 0
	}
	days := int(now.Sub(last).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days % Length
}

// ForDay maps a zero-based cycle day to its phase. The four ranges are
// contiguous and cover [0, Length) with no gaps.
func ForDay(day int) Phase {
	switch {
	case day <= 5:
		return Menstrual
	case day <= 13:
		return Follicular
	case day <= 16:
		return Ovulatory
	default:
		return Luteal
	}
}

// Current returns the active phase for a last-period date at the given instant.
func Current(lastPeriodDate string, now time.Time) Phase {
	return ForDay(DayOf(lastPeriodDate, now))
}
