package model

import (
	"testing"
	"time"
)

func mustLoc(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Skipf("timezone %s unavailable: %v", name, err)
	}
	return loc
}

func TestDayOf_TruncatesInLocation(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	// 23:30 UTC on the 1st is 01:30 on the 2nd at UTC+2.
	ts := time.Date(2025, 6, 1, 23, 30, 0, 0, time.UTC)

	got := DayOf(ts, loc)
	want := time.Date(2025, 6, 2, 0, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Fatalf("DayOf = %v, want %v", got, want)
	}
	if DayKey(got) != "2025-06-02" {
		t.Fatalf("DayKey = %q, want 2025-06-02", DayKey(got))
	}
}

func TestDaysBetween_Inclusive(t *testing.T) {
	start := time.Date(2025, 1, 30, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 2, 2, 0, 0, 0, 0, time.UTC)

	days := DaysBetween(start, end)
	if len(days) != 4 {
		t.Fatalf("len(days) = %d, want 4", len(days))
	}
	wantKeys := []string{"2025-01-30", "2025-01-31", "2025-02-01", "2025-02-02"}
	for i, d := range days {
		if DayKey(d) != wantKeys[i] {
			t.Errorf("days[%d] = %s, want %s", i, DayKey(d), wantKeys[i])
		}
	}
}

func TestDaysBetween_SingleDayAndInverted(t *testing.T) {
	d := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	if n := len(DaysBetween(d, d)); n != 1 {
		t.Fatalf("single day len = %d, want 1", n)
	}
	if n := len(DaysBetween(d, d.AddDate(0, 0, -1))); n != 0 {
		t.Fatalf("inverted range len = %d, want 0", n)
	}
}

func TestDaysBetween_AcrossDST(t *testing.T) {
	loc := mustLoc(t, "America/New_York")
	// DST starts 2025-03-09; that day is 23 hours long.
	start := time.Date(2025, 3, 8, 0, 0, 0, 0, loc)
	end := time.Date(2025, 3, 10, 0, 0, 0, 0, loc)

	days := DaysBetween(start, end)
	if len(days) != 3 {
		t.Fatalf("len(days) = %d, want 3", len(days))
	}
	for _, d := range days {
		if d.Hour() != 0 || d.Minute() != 0 {
			t.Errorf("day %s not at midnight: %v", DayKey(d), d)
		}
	}
}

func TestParseDay(t *testing.T) {
	d, err := ParseDay("2025-07-04", time.UTC)
	if err != nil {
		t.Fatalf("ParseDay: %v", err)
	}
	if d.Year() != 2025 || d.Month() != time.July || d.Day() != 4 {
		t.Fatalf("ParseDay = %v, want 2025-07-04", d)
	}

	if _, err := ParseDay("07/04/2025", time.UTC); err == nil {
		t.Fatal("ParseDay accepted a non-ISO date")
	}
}

func TestGoalStatusPercent(t *testing.T) {
	gs := GoalStatus{Consumed: 1500, Goal: 2000, HasGoal: true}
	if p := gs.Percent(); p != 0.75 {
		t.Fatalf("Percent = %v, want 0.75", p)
	}
	if p := (GoalStatus{Consumed: 1500}).Percent(); p != 0 {
		t.Fatalf("Percent without goal = %v, want 0", p)
	}
}
