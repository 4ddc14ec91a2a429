package cycle

import (
	"testing"
	"time"
)

func TestDayOf(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	t.Run("TenDaysAgo", func(t *testing.T) {
		if got := DayOf("2026-08-19", now); got != 10 {
			t.Errorf("Expected day 10, got %d", got)
		}
	})

	t.Run("WrapsAfterFullCycle", func(t *testing.T) {
		if got := DayOf("2026-07-30", now); got != 2 {
			t.Errorf("Expected day 2 after wrap, got %d", got)
		}
	})

	t.Run("InvalidDateFallsBackToDayZero", func(t *testing.T) {
		if got := DayOf("not-a-date", now); got != 0 {
			t.Errorf("Expected day 0 for invalid date, got %d", got)
		}
	})

	t.Run("FutureDateFallsBackToDayZero", func(t *testing.T) {
		if got := DayOf("2026-09-15", now); got != 0 {
			t.Errorf("Expected day 0 for future date, got %d", got)
		}
	})
}

func TestCurrent(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	// Last period 10 days ago lands in the follicular range (days 6-13).
	if got := Current("2026-08-19", now); got != Follicular {
		t.Errorf("Expected follicular for day 10, got %s", got)
	}

	if got := Current("garbage", now); got != Menstrual {
		t.Errorf("Expected menstrual fallback for invalid date, got %s", got)
	}
}

func TestForDayPartitionsCycle(t *testing.T) {
	counts := map[Phase]int{}
	prev := ForDay(0)
	transitions := 0
	for day := 0; day < Length; day++ {
		p := ForDay(day)
		if _, known := Phases[p]; !known {
			t.Fatalf("Day %d mapped to unknown phase %q", day, p)
		}
		counts[p]++
		if p != prev {
			transitions++
			prev = p
		}
	}

	// Four contiguous ranges: exactly three transitions across [0, 28).
	if transitions != 3 {
		t.Errorf("Expected 3 phase transitions, got %d", transitions)
	}
	want := map[Phase]int{Menstrual: 6, Follicular: 8, Ovulatory: 3, Luteal: 11}
	for phase, n := range want {
		if counts[phase] != n {
			t.Errorf("Expected %d days in %s, got %d", n, phase, counts[phase])
		}
	}
}
