package spend

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestNewEntry(t *testing.T) {
	now := time.Date(2026, 8, 29, 20, 15, 0, 0, time.UTC)

	t.Run("DatesOnLocalCalendarDay", func(t *testing.T) {
		e, err := NewEntry("s1", now, "Maggi", 40)
		if err != nil {
			t.Fatalf("NewEntry failed: %v", err)
		}
		if e.Date != "2026-08-29" {
			t.Errorf("Expected date 2026-08-29, got %s", e.Date)
		}
		if !e.Timestamp.Equal(now) {
			t.Errorf("Expected timestamp %v, got %v", now, e.Timestamp)
		}
	})

	t.Run("EmptyLabelDefaults", func(t *testing.T) {
		e, _ := NewEntry("s2", now, "", 25)
		if e.Label != DefaultLabel {
			t.Errorf("Expected label %q, got %q", DefaultLabel, e.Label)
		}
	})

	t.Run("RejectsBadAmounts", func(t *testing.T) {
		for _, amount := range []float64{0, -10, math.NaN(), math.Inf(1)} {
			if _, err := NewEntry("s3", now, "x", amount); !errors.Is(err, ErrInvalidAmount) {
				t.Errorf("Expected ErrInvalidAmount for %v, got %v", amount, err)
			}
		}
	})
}

func TestTodayFiltersByDateNotTimestamp(t *testing.T) {
	now := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)
	entries := []Entry{
		{ID: "a", Amount: 50, Date: "2026-08-29"},
		{ID: "b", Amount: 70, Date: "2026-08-28"},
		{ID: "c", Amount: 30, Date: "2026-08-29"},
	}

	today := Today(entries, now)
	if len(today) != 2 {
		t.Fatalf("Expected 2 entries for today, got %d", len(today))
	}
	if got := DailyTotal(today); got != 80 {
		t.Errorf("Expected daily total 80, got %v", got)
	}
}

func TestBudgetArithmetic(t *testing.T) {
	// Budget 200, spent 250: remaining goes negative, gauge clamps, and the
	// day no longer qualifies as under budget.
	if got := Remaining(200, 250); got != -50 {
		t.Errorf("Expected remaining -50, got %v", got)
	}
	if got := Gauge(200, 250); got != 100 {
		t.Errorf("Expected gauge clamped to 100, got %d", got)
	}
	if UnderBudget(200, 250) {
		t.Error("250 of 200 must not count as under budget")
	}

	if got := Gauge(200, 50); got != 25 {
		t.Errorf("Expected gauge 25, got %d", got)
	}
	if got := Gauge(0, 0); got != 0 {
		t.Errorf("Expected gauge 0 for empty day, got %d", got)
	}
	if !UnderBudget(200, 120) {
		t.Error("120 of 200 should count as under budget")
	}
	if UnderBudget(200, 0) {
		t.Error("A day with nothing logged must not qualify")
	}
}
