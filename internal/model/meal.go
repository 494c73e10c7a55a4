// Package model defines the calorie tracker's domain types.
package model

import "time"

// MealRecord is one logged meal. Records are immutable once stored;
// an edit is a delete followed by a new add.
type MealRecord struct {
	ID          int64     `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Description string    `json:"description"`
	Calories    int       `json:"calories"`
}

// Day returns the calendar date the meal belongs to in loc.
func (m MealRecord) Day(loc *time.Location) time.Time {
	return DayOf(m.Timestamp, loc)
}

// DailyTotal is the derived calorie sum for one calendar date.
// It is always computed from the ledger and never stored.
type DailyTotal struct {
	Date     time.Time
	Calories int
}

// Key returns the date in YYYY-MM-DD form.
func (d DailyTotal) Key() string {
	return DayKey(d.Date)
}

// GoalStatus compares one day's total against the calorie goal.
type GoalStatus struct {
	Date      time.Time
	Consumed  int
	Goal      int
	HasGoal   bool
	Exceeded  bool
	Remaining int // goal - consumed, negative when over
}

// Percent returns consumed/goal in [0, +inf), or 0 without a goal.
func (g GoalStatus) Percent() float64 {
	if !g.HasGoal || g.Goal <= 0 {
		return 0
	}
	return float64(g.Consumed) / float64(g.Goal)
}
