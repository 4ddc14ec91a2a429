// Package profile defines the user profile created at onboarding.
package profile

// DefaultDailyBudget is substituted when a stored budget is missing or
// non-positive.
const DefaultDailyBudget = 200

// Profile holds the onboarding answers. One profile per identity; mutated
// only by an explicit profile edit.
type Profile struct {
	Name           string   `json:"name"`
	Appliances     []string `json:"appliances"`
	LastPeriodDate string   `json:"lastPeriodDate"`
	HasPCOS        bool     `json:"hasPCOS"`
	PrimaryGoal    string   `json:"primaryGoal"`
	DailyBudget    float64  `json:"dailyBudget"`
}

// Option is a selectable catalog entry shown during onboarding.
type Option struct {
	ID    string
	Name  string
	Emoji string
}

// Appliances lists the cooking equipment choices.
var Appliances = []Option{
	{ID: "kettle", Name: "Kettle", Emoji: "☕"},
	{ID: "induction", Name: "Induction", Emoji: "🍳"},
	{ID: "sandwich-maker", Name: "Sandwich Maker", Emoji: "🥪"},
	{ID: "fridge", Name: "Fridge", Emoji: "❄️"},
}

// Goals lists the primary-goal choices.
var Goals = []Option{
	{ID: "weight-loss", Name: "Weight Loss", Emoji: "🏃‍♀️"},
	{ID: "pcos-management", Name: "PCOS Management", Emoji: "💪"},
	{ID: "exam-focus", Name: "Exam Focus", Emoji: "📚"},
	{ID: "budget-eating", Name: "Budget Eating", Emoji: "💰"},
	{ID: "muscle-gain", Name: "Muscle Gain", Emoji: "🏋️‍♀️"},
}

// KnownAppliance reports whether id is in the appliance catalog.
func KnownAppliance(id string) bool {
	for _, a := range Appliances {
		if a.ID == id {
			return true
		}
	}
	return false
}

// KnownGoal reports whether id is in the goal catalog.
func KnownGoal(id string) bool {
	for _, g := range Goals {
		if g.ID == id {
			return true
		}
	}
	return false
}

// Normalized returns a copy with defaults applied: a non-positive budget
// becomes DefaultDailyBudget and a nil appliance set becomes empty. Every
// field is defaulted exactly once, at the boundary.
func (p Profile) Normalized() Profile {
	if p.DailyBudget <= 0 {
		p.DailyBudget = DefaultDailyBudget
	}
	if p.Appliances == nil {
		p.Appliances = []string{}
	}
	return p
}

// OwnsAppliance reports whether the profile includes the appliance.
func (p Profile) OwnsAppliance(id string) bool {
	for _, a := range p.Appliances {
		if a == id {
			return true
		}
	}
	return false
}
