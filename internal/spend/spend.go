// Package spend implements the daily food-expense log and its budget
// arithmetic.
package spend

import (
	"errors"
	"math"
	"time"

	"cravecare/internal/cycle"
)

// DefaultLabel replaces an empty expense label.
const DefaultLabel = "Food"

// StreakEntryCount is the number of logged entries in one day that earns the
// logging-streak token.
const StreakEntryCount = 3

var ErrInvalidAmount = errors.New("amount must be a positive number")

// Entry is one logged expense. Date is the local calendar day of the creation
// instant and is the key for all daily aggregation; Timestamp is kept for
// ordering only.
type Entry struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	Amount    float64   `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
	Date      string    `json:"date"`
}

// NewEntry validates and builds an entry dated on now's local calendar day.
func NewEntry(id string, now time.Time, label string, amount float64) (Entry, error) {
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Entry{}, ErrInvalidAmount
	}
	if label == "" {
		label = DefaultLabel
	}
	return Entry{
		ID:        id,
		Label:     label,
		Amount:    amount,
		Timestamp: now,
		Date:      now.Format(cycle.DateLayout),
	}, nil
}

// ByDate filters entries to one calendar day.
func ByDate(entries []Entry, date string) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.Date == date {
			out = append(out, e)
		}
	}
	return out
}

// Today filters entries to now's local calendar day.
func Today(entries []Entry, now time.Time) []Entry {
	return ByDate(entries, now.Format(cycle.DateLayout))
}

// DailyTotal sums the amounts of the given entries.
func DailyTotal(entries []Entry) float64 {
	total := 0.0
	for _, e := range entries {
		total += e.Amount
	}
	return total
}

// Remaining is budget minus total; negative when over budget.
func Remaining(budget, total float64) float64 {
	return budget - total
}

// Gauge returns the spent share of the budget as a percentage clamped to
// [0, 100].
func Gauge(budget, total float64) int {
	if budget <= 0 {
		if total > 0 {
			return 100
		}
		return 0
	}
	pct := int(total / budget * 100)
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// UnderBudget reports whether the day qualifies for the under-budget token:
// something was logged and the total did not exceed the budget.
func UnderBudget(budget, total float64) bool {
	return total > 0 && total <= budget
}
