package pipeline

import (
	"context"
	"time"

	"github.com/theirongolddev/calburn/internal/ledger"
	"github.com/theirongolddev/calburn/internal/log"
	"github.com/theirongolddev/calburn/internal/model"
)

// AddResult is what a presentation layer needs after logging a meal.
type AddResult struct {
	Meal model.MealRecord

	// Status is the goal comparison for the meal's date. It is the zero
	// value when Checked is false.
	Status  model.GoalStatus
	Checked bool

	// IsToday is set when the meal landed on the current date. Only then
	// does GoalExceeded drive a notification.
	IsToday      bool
	GoalExceeded bool
}

// Tracker is the command interface presentation layers call. It pairs
// each add with the goal check for today.
type Tracker struct {
	Ledger     *ledger.Ledger
	Aggregator *Aggregator

	now    func() time.Time
	logger *log.Logger
}

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) TrackerOption {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// WithTrackerLogger sets the tracker's logger.
func WithTrackerLogger(logger *log.Logger) TrackerOption {
	return func(t *Tracker) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// NewTracker wires a ledger and an aggregator into one command interface.
func NewTracker(l *ledger.Ledger, a *Aggregator, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		Ledger:     l,
		Aggregator: a,
		now:        time.Now,
		logger:     log.Discard(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Now returns the tracker clock's current time in the ledger's timezone.
func (t *Tracker) Now() time.Time {
	return t.now().In(t.Ledger.Location())
}

// Today returns the current calendar date. Resolve it once per operation.
func (t *Tracker) Today() time.Time {
	return model.DayOf(t.now(), t.Ledger.Location())
}

// AddMeal stores a meal and, when it falls on today, checks the goal.
// A failure reading the total back is logged and leaves Checked false;
// the meal itself is already committed.
func (t *Tracker) AddMeal(ctx context.Context, description string, calories int, at time.Time) (AddResult, error) {
	today := t.Today()

	rec, err := t.Ledger.Add(ctx, description, calories, at)
	if err != nil {
		return AddResult{}, err
	}

	res := AddResult{Meal: rec}
	day := rec.Day(t.Ledger.Location())
	total, err := t.Aggregator.TotalForDate(ctx, day)
	if err != nil {
		t.logger.WarnContext(ctx, "meal stored but day total unavailable",
			log.FieldMealID, rec.ID, log.FieldError, err.Error())
		return res, nil
	}

	res.Status = t.Aggregator.status(day, total)
	res.Checked = true
	res.IsToday = day.Equal(today)
	res.GoalExceeded = res.IsToday && res.Status.Exceeded
	return res, nil
}

// DeleteMeal removes a meal by id.
func (t *Tracker) DeleteMeal(ctx context.Context, id int64) error {
	return t.Ledger.Delete(ctx, id)
}

// SetGoal replaces the daily calorie goal.
func (t *Tracker) SetGoal(ctx context.Context, calories int) error {
	return t.Aggregator.SetGoal(ctx, calories)
}

// TodayStatus returns today's meals and goal status, with today resolved once.
func (t *Tracker) TodayStatus(ctx context.Context) ([]model.MealRecord, model.GoalStatus, error) {
	today := t.Today()
	meals, err := t.Ledger.ListByDate(ctx, today)
	if err != nil {
		return nil, model.GoalStatus{}, err
	}
	return meals, t.Aggregator.status(today, SumCalories(meals)), nil
}

// PeriodTotals resolves a named period against today and returns its
// dense totals and summary.
func (t *Tracker) PeriodTotals(ctx context.Context, period string) ([]model.DailyTotal, model.PeriodSummary, error) {
	start, end, err := PeriodRange(period, t.Today())
	if err != nil {
		return nil, model.PeriodSummary{}, err
	}
	return t.RangeTotals(ctx, start, end)
}

// RangeTotals returns dense totals and a summary for [start, end].
func (t *Tracker) RangeTotals(ctx context.Context, start, end time.Time) ([]model.DailyTotal, model.PeriodSummary, error) {
	totals, err := t.Aggregator.TotalsForRange(ctx, start, end)
	if err != nil {
		return nil, model.PeriodSummary{}, err
	}
	goal, ok := t.Aggregator.Goal()
	return totals, Summarize(totals, goal, ok), nil
}
