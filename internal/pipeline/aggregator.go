// Package pipeline derives daily calorie totals from the meal ledger and
// tracks them against the calorie goal.
package pipeline

import (
	"fmt"
	"time"

	"github.com/theirongolddev/calburn/internal/model"
)

// AggregateDays sums meals per calendar date over [start, end] in loc.
// Every date in the range is present, ascending, so charts show gaps as
// zeros. Meals outside the range are ignored.
func AggregateDays(meals []model.MealRecord, start, end time.Time, loc *time.Location) []model.DailyTotal {
	days := model.DaysBetween(model.DayOf(start, loc), model.DayOf(end, loc))

	totals := make([]model.DailyTotal, len(days))
	index := make(map[string]int, len(days))
	for i, d := range days {
		totals[i] = model.DailyTotal{Date: d}
		index[model.DayKey(d)] = i
	}

	for _, m := range meals {
		if i, ok := index[model.DayKey(m.Day(loc))]; ok {
			totals[i].Calories += m.Calories
		}
	}
	return totals
}

// SumCalories adds up the calories of meals.
func SumCalories(meals []model.MealRecord) int {
	total := 0
	for _, m := range meals {
		total += m.Calories
	}
	return total
}

// Summarize computes period statistics from a dense run of daily totals.
func Summarize(days []model.DailyTotal, goal int, hasGoal bool) model.PeriodSummary {
	s := model.PeriodSummary{
		Days:    len(days),
		HasGoal: hasGoal,
		Goal:    goal,
	}
	if len(days) == 0 {
		return s
	}
	s.Start = days[0].Date
	s.End = days[len(days)-1].Date

	for i, d := range days {
		s.TotalCalories += d.Calories
		if i == 0 || d.Calories > s.PeakDay.Calories {
			s.PeakDay = d
		}
		if d.Calories == 0 {
			continue
		}
		if s.ActiveDays == 0 || d.Calories < s.LowestActiveDay.Calories {
			s.LowestActiveDay = d
		}
		s.ActiveDays++

		if hasGoal {
			if d.Calories > goal {
				s.DaysOverGoal++
			} else {
				s.DaysWithinGoal++
			}
		}
	}

	s.AvgPerDay = float64(s.TotalCalories) / float64(s.Days)
	if s.ActiveDays > 0 {
		s.AvgPerActiveDay = float64(s.TotalCalories) / float64(s.ActiveDays)
	}
	return s
}

// PeriodRange returns the inclusive date range for a named period ending
// on today: day is today alone, week the last 7 days, month the last 30.
func PeriodRange(period string, today time.Time) (time.Time, time.Time, error) {
	switch period {
	case model.PeriodDay:
		return today, today, nil
	case model.PeriodWeek:
		return LastNDays(7, today)
	case model.PeriodMonth:
		return LastNDays(30, today)
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("%w: unknown period %q (want day, week or month)",
			model.ErrValidation, period)
	}
}

// LastNDays returns the n-day inclusive range ending on today.
func LastNDays(n int, today time.Time) (time.Time, time.Time, error) {
	if n < 1 {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: day count must be at least 1, got %d", model.ErrValidation, n)
	}
	start := time.Date(today.Year(), today.Month(), today.Day()-(n-1), 0, 0, 0, 0, today.Location())
	return start, today, nil
}
