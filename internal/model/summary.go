package model

import "time"

// Period names accepted by summaries and charts.
const (
	PeriodDay   = "day"
	PeriodWeek  = "week"
	PeriodMonth = "month"
)

// PeriodSummary holds statistics over a dense run of daily totals.
type PeriodSummary struct {
	Start time.Time
	End   time.Time

	Days       int // calendar days in the range
	ActiveDays int // days with at least one meal

	TotalCalories   int
	AvgPerDay       float64
	AvgPerActiveDay float64
	PeakDay         DailyTotal
	LowestActiveDay DailyTotal

	HasGoal        bool
	Goal           int
	DaysOverGoal   int
	DaysWithinGoal int // active days at or under the goal
}
