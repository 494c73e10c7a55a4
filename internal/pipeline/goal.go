package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/theirongolddev/calburn/internal/log"
	"github.com/theirongolddev/calburn/internal/model"
)

// Meals is the read side of the ledger the aggregator sums over.
type Meals interface {
	ListByDate(ctx context.Context, date time.Time) ([]model.MealRecord, error)
	ListByDateRange(ctx context.Context, start, end time.Time) ([]model.MealRecord, error)
	Location() *time.Location
}

// GoalStore persists the single calorie goal.
type GoalStore interface {
	GetGoal(ctx context.Context) (int, bool, error)
	SetGoal(ctx context.Context, calories int) error
}

// Aggregator computes per-day totals live from the ledger and owns the
// calorie goal. Totals are never cached, so they cannot drift from the
// ledger across adds and deletes.
type Aggregator struct {
	meals  Meals
	goals  GoalStore
	logger *log.Logger

	goal    int
	hasGoal bool
}

// NewAggregator loads the persisted goal. An error here means the store is
// unusable and the session should stop.
func NewAggregator(ctx context.Context, meals Meals, goals GoalStore, logger *log.Logger) (*Aggregator, error) {
	if logger == nil {
		logger = log.Discard()
	}
	a := &Aggregator{
		meals:  meals,
		goals:  goals,
		logger: logger.WithComponent(log.ComponentAggregator),
	}

	goal, ok, err := goals.GetGoal(ctx)
	if err != nil {
		a.logger.Op(ctx, log.OpLoadGoal, err)
		return nil, fmt.Errorf("loading calorie goal: %w", err)
	}
	a.goal, a.hasGoal = goal, ok
	a.logger.Op(ctx, log.OpLoadGoal, nil, log.FieldGoal, goal, "set", ok)
	return a, nil
}

// Location returns the timezone used for calendar dates.
func (a *Aggregator) Location() *time.Location {
	return a.meals.Location()
}

// TotalForDate returns the calories logged on date's calendar day, 0 if none.
func (a *Aggregator) TotalForDate(ctx context.Context, date time.Time) (int, error) {
	meals, err := a.meals.ListByDate(ctx, date)
	if err != nil {
		return 0, err
	}
	return SumCalories(meals), nil
}

// TotalsForRange returns one total per calendar date in [start, end],
// ascending and zero-filled. It returns ErrValidation if start is after end.
func (a *Aggregator) TotalsForRange(ctx context.Context, start, end time.Time) ([]model.DailyTotal, error) {
	loc := a.Location()
	first, last := model.DayOf(start, loc), model.DayOf(end, loc)
	if first.After(last) {
		return nil, fmt.Errorf("%w: range start %s is after end %s",
			model.ErrValidation, model.DayKey(first), model.DayKey(last))
	}

	meals, err := a.meals.ListByDateRange(ctx, first, last)
	if err != nil {
		return nil, err
	}
	return AggregateDays(meals, first, last, loc), nil
}

// Summary returns period statistics over [start, end].
func (a *Aggregator) Summary(ctx context.Context, start, end time.Time) (model.PeriodSummary, error) {
	totals, err := a.TotalsForRange(ctx, start, end)
	if err != nil {
		return model.PeriodSummary{}, err
	}
	goal, ok := a.Goal()
	return Summarize(totals, goal, ok), nil
}

// SetGoal persists a new goal, replacing the previous one. The in-memory
// goal only changes once the store has accepted it.
func (a *Aggregator) SetGoal(ctx context.Context, calories int) error {
	if calories <= 0 {
		return fmt.Errorf("%w: goal must be a positive number of calories, got %d", model.ErrValidation, calories)
	}
	if err := a.goals.SetGoal(ctx, calories); err != nil {
		a.logger.Op(ctx, log.OpSetGoal, err, log.FieldGoal, calories)
		return fmt.Errorf("set goal: %w", err)
	}
	a.goal, a.hasGoal = calories, true
	a.logger.Op(ctx, log.OpSetGoal, nil, log.FieldGoal, calories)
	return nil
}

// Goal returns the current goal and whether one has been set.
func (a *Aggregator) Goal() (int, bool) {
	return a.goal, a.hasGoal
}

// CheckGoalExceeded reports whether a goal is set and date's total is
// strictly above it.
func (a *Aggregator) CheckGoalExceeded(ctx context.Context, date time.Time) (bool, error) {
	total, err := a.TotalForDate(ctx, date)
	if err != nil {
		return false, err
	}
	return a.exceeds(total), nil
}

// GoalStatus compares date's total against the goal.
func (a *Aggregator) GoalStatus(ctx context.Context, date time.Time) (model.GoalStatus, error) {
	total, err := a.TotalForDate(ctx, date)
	if err != nil {
		return model.GoalStatus{}, err
	}
	return a.status(model.DayOf(date, a.Location()), total), nil
}

func (a *Aggregator) status(day time.Time, total int) model.GoalStatus {
	gs := model.GoalStatus{
		Date:     day,
		Consumed: total,
		Goal:     a.goal,
		HasGoal:  a.hasGoal,
		Exceeded: a.exceeds(total),
	}
	if a.hasGoal {
		gs.Remaining = a.goal - total
	}
	return gs
}

func (a *Aggregator) exceeds(total int) bool {
	return a.hasGoal && total > a.goal
}
