package pipeline

import (
	"errors"
	"testing"
	"time"

	"github.com/theirongolddev/calburn/internal/model"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func meal(id int64, ts time.Time, kcal int) model.MealRecord {
	return model.MealRecord{ID: id, Timestamp: ts, Description: "m", Calories: kcal}
}

func TestAggregateDays_ZeroFillsAndSorts(t *testing.T) {
	start := mustDate(t, "2025-06-01")
	end := mustDate(t, "2025-06-05")
	meals := []model.MealRecord{
		meal(1, start.Add(8*time.Hour), 400),
		meal(2, start.Add(13*time.Hour), 600),
		meal(3, mustDate(t, "2025-06-04").Add(19*time.Hour), 900),
		meal(4, mustDate(t, "2025-05-31").Add(19*time.Hour), 5000), // before range
		meal(5, mustDate(t, "2025-06-06"), 5000),                   // after range
	}

	days := AggregateDays(meals, start, end, time.UTC)
	if len(days) != 5 {
		t.Fatalf("len(days) = %d, want 5", len(days))
	}

	want := map[string]int{
		"2025-06-01": 1000,
		"2025-06-02": 0,
		"2025-06-03": 0,
		"2025-06-04": 900,
		"2025-06-05": 0,
	}
	for i, d := range days {
		if i > 0 && !d.Date.After(days[i-1].Date) {
			t.Fatalf("days not ascending at %d: %s after %s", i, d.Key(), days[i-1].Key())
		}
		if d.Calories != want[d.Key()] {
			t.Errorf("%s = %d, want %d", d.Key(), d.Calories, want[d.Key()])
		}
	}
}

func TestAggregateDays_UsesLocationForDateBoundaries(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	// 02:00 UTC on June 2 is 21:00 on June 1 at UTC-5.
	meals := []model.MealRecord{meal(1, time.Date(2025, 6, 2, 2, 0, 0, 0, time.UTC), 700)}

	start := time.Date(2025, 6, 1, 0, 0, 0, 0, loc)
	days := AggregateDays(meals, start, start.AddDate(0, 0, 1), loc)
	if days[0].Calories != 700 || days[1].Calories != 0 {
		t.Fatalf("totals = [%d %d], want [700 0]", days[0].Calories, days[1].Calories)
	}
}

func TestSummarize(t *testing.T) {
	d := mustDate(t, "2025-06-01")
	days := []model.DailyTotal{
		{Date: d, Calories: 2400},
		{Date: d.AddDate(0, 0, 1), Calories: 0},
		{Date: d.AddDate(0, 0, 2), Calories: 1600},
		{Date: d.AddDate(0, 0, 3), Calories: 2000},
	}

	s := Summarize(days, 2000, true)
	if s.Days != 4 || s.ActiveDays != 3 {
		t.Fatalf("Days/ActiveDays = %d/%d, want 4/3", s.Days, s.ActiveDays)
	}
	if s.TotalCalories != 6000 {
		t.Fatalf("TotalCalories = %d, want 6000", s.TotalCalories)
	}
	if s.AvgPerDay != 1500 || s.AvgPerActiveDay != 2000 {
		t.Fatalf("averages = %.1f/%.1f, want 1500/2000", s.AvgPerDay, s.AvgPerActiveDay)
	}
	if s.PeakDay.Calories != 2400 || !s.PeakDay.Date.Equal(d) {
		t.Fatalf("PeakDay = %+v, want 2400 on %s", s.PeakDay, model.DayKey(d))
	}
	if s.LowestActiveDay.Calories != 1600 {
		t.Fatalf("LowestActiveDay = %d, want 1600", s.LowestActiveDay.Calories)
	}
	// 2000 is at the goal, not over it.
	if s.DaysOverGoal != 1 || s.DaysWithinGoal != 2 {
		t.Fatalf("over/within = %d/%d, want 1/2", s.DaysOverGoal, s.DaysWithinGoal)
	}
	if !s.Start.Equal(d) || !s.End.Equal(d.AddDate(0, 0, 3)) {
		t.Fatalf("range = %s..%s", model.DayKey(s.Start), model.DayKey(s.End))
	}
}

func TestSummarize_NoGoalAndEmpty(t *testing.T) {
	s := Summarize([]model.DailyTotal{{Calories: 3000}}, 0, false)
	if s.DaysOverGoal != 0 || s.DaysWithinGoal != 0 || s.HasGoal {
		t.Fatalf("goal stats without a goal: %+v", s)
	}

	empty := Summarize(nil, 2000, true)
	if empty.Days != 0 || empty.AvgPerDay != 0 {
		t.Fatalf("empty summary = %+v", empty)
	}
}

func TestPeriodRange(t *testing.T) {
	today := mustDate(t, "2025-03-02")

	tests := []struct {
		period    string
		wantStart string
		wantDays  int
	}{
		{model.PeriodDay, "2025-03-02", 1},
		{model.PeriodWeek, "2025-02-24", 7},
		{model.PeriodMonth, "2025-01-31", 30},
	}
	for _, tt := range tests {
		start, end, err := PeriodRange(tt.period, today)
		if err != nil {
			t.Fatalf("PeriodRange(%s): %v", tt.period, err)
		}
		if model.DayKey(start) != tt.wantStart {
			t.Errorf("%s start = %s, want %s", tt.period, model.DayKey(start), tt.wantStart)
		}
		if !end.Equal(today) {
			t.Errorf("%s end = %s, want today", tt.period, model.DayKey(end))
		}
		if n := len(model.DaysBetween(start, end)); n != tt.wantDays {
			t.Errorf("%s spans %d days, want %d", tt.period, n, tt.wantDays)
		}
	}

	if _, _, err := PeriodRange("fortnight", today); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("unknown period err = %v, want ErrValidation", err)
	}
	if _, _, err := LastNDays(0, today); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("LastNDays(0) err = %v, want ErrValidation", err)
	}
}
