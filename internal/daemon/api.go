package daemon

import (
	"time"

	"github.com/theirongolddev/calburn/internal/model"
)

// Meal is the wire form of a meal record.
type Meal struct {
	ID          int64     `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Date        string    `json:"date"`
	Description string    `json:"description"`
	Calories    int       `json:"calories"`
}

// DayTotal is one row of /v1/totals.
type DayTotal struct {
	Date     string `json:"date"`
	Calories int    `json:"calories"`
}

// GoalStatus is a day's total compared to the goal.
type GoalStatus struct {
	Date      string  `json:"date"`
	Consumed  int     `json:"consumed"`
	Goal      *int    `json:"goal,omitempty"`
	Exceeded  bool    `json:"exceeded"`
	Remaining *int    `json:"remaining,omitempty"`
	Percent   float64 `json:"percent"`
}

// Goal is served and accepted at /v1/goal.
type Goal struct {
	Calories *int `json:"calories"`
}

// Summary is served at /v1/summary.
type Summary struct {
	Period          string     `json:"period"`
	Start           string     `json:"start"`
	End             string     `json:"end"`
	TotalCalories   int        `json:"total_calories"`
	ActiveDays      int        `json:"active_days"`
	AvgPerDay       float64    `json:"avg_per_day"`
	AvgPerActiveDay float64    `json:"avg_per_active_day"`
	PeakDay         DayTotal   `json:"peak_day"`
	Goal            *int       `json:"goal,omitempty"`
	DaysOverGoal    int        `json:"days_over_goal"`
	DaysWithinGoal  int        `json:"days_within_goal"`
	Days            []DayTotal `json:"days"`
}

// AddMealRequest is the body of POST /v1/meals. Timestamp accepts the
// same forms as the CLI; empty means now.
type AddMealRequest struct {
	Description string `json:"description"`
	Calories    int    `json:"calories"`
	Timestamp   string `json:"timestamp,omitempty"`
}

// AddMealResponse is returned by POST /v1/meals.
type AddMealResponse struct {
	Meal         Meal        `json:"meal"`
	Status       *GoalStatus `json:"status,omitempty"`
	GoalExceeded bool        `json:"goal_exceeded"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time  `json:"started_at"`
	Addr            string     `json:"addr"`
	Timezone        string     `json:"timezone"`
	Today           GoalStatus `json:"today"`
	MealsToday      int        `json:"meals_today"`
	EventCount      int        `json:"event_count"`
	SubscriberCount int        `json:"subscriber_count"`
}

// Error is the body of every non-2xx JSON response.
type Error struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func toMeal(m model.MealRecord, loc *time.Location) Meal {
	return Meal{
		ID:          m.ID,
		Timestamp:   m.Timestamp,
		Date:        model.DayKey(m.Day(loc)),
		Description: m.Description,
		Calories:    m.Calories,
	}
}

func toMeals(meals []model.MealRecord, loc *time.Location) []Meal {
	out := make([]Meal, len(meals))
	for i, m := range meals {
		out[i] = toMeal(m, loc)
	}
	return out
}

func toDays(days []model.DailyTotal) []DayTotal {
	out := make([]DayTotal, len(days))
	for i, d := range days {
		out[i] = DayTotal{Date: d.Key(), Calories: d.Calories}
	}
	return out
}

func toGoalStatus(gs model.GoalStatus) GoalStatus {
	out := GoalStatus{
		Date:     model.DayKey(gs.Date),
		Consumed: gs.Consumed,
		Exceeded: gs.Exceeded,
		Percent:  gs.Percent(),
	}
	if gs.HasGoal {
		goal, remaining := gs.Goal, gs.Remaining
		out.Goal, out.Remaining = &goal, &remaining
	}
	return out
}

func toSummary(period string, s model.PeriodSummary, days []model.DailyTotal) Summary {
	out := Summary{
		Period:          period,
		Start:           model.DayKey(s.Start),
		End:             model.DayKey(s.End),
		TotalCalories:   s.TotalCalories,
		ActiveDays:      s.ActiveDays,
		AvgPerDay:       s.AvgPerDay,
		AvgPerActiveDay: s.AvgPerActiveDay,
		PeakDay:         DayTotal{Date: s.PeakDay.Key(), Calories: s.PeakDay.Calories},
		DaysOverGoal:    s.DaysOverGoal,
		DaysWithinGoal:  s.DaysWithinGoal,
		Days:            toDays(days),
	}
	if s.HasGoal {
		goal := s.Goal
		out.Goal = &goal
	}
	return out
}
