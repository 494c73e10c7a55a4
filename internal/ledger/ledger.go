// Package ledger is the authoritative log of meal entries and the sole
// source of truth for calorie accounting.
package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/calburn/internal/log"
	"github.com/theirongolddev/calburn/internal/model"
)

// Store is the persistence the ledger needs. It returns raw rows and is
// never asked to aggregate.
type Store interface {
	InsertMeal(ctx context.Context, description string, calories int, at time.Time) (int64, error)
	DeleteMeal(ctx context.Context, id int64) (int64, error)
	GetMeal(ctx context.Context, id int64) (model.MealRecord, bool, error)
	QueryMeals(ctx context.Context, from, to time.Time) ([]model.MealRecord, error)
}

// ChangeKind says what happened to a ledger date.
type ChangeKind string

const (
	MealAdded   ChangeKind = "meal_added"
	MealDeleted ChangeKind = "meal_deleted"
)

// Change describes one committed mutation.
type Change struct {
	Kind ChangeKind
	Meal model.MealRecord
	Date time.Time // calendar date whose total changed
}

// ChangeFunc is called synchronously after a mutation commits.
type ChangeFunc func(ctx context.Context, c Change)

// Ledger records and lists meals. It is not safe for concurrent mutation;
// callers serialize writes.
type Ledger struct {
	store     Store
	loc       *time.Location
	logger    *log.Logger
	listeners []ChangeFunc
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithLocation sets the timezone used to map timestamps to calendar dates.
func WithLocation(loc *time.Location) Option {
	return func(l *Ledger) {
		if loc != nil {
			l.loc = loc
		}
	}
}

// WithLogger sets the ledger's logger.
func WithLogger(logger *log.Logger) Option {
	return func(l *Ledger) {
		if logger != nil {
			l.logger = logger.WithComponent(log.ComponentLedger)
		}
	}
}

// New returns a ledger over store. Dates default to the local timezone.
func New(store Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:  store,
		loc:    time.Local,
		logger: log.Discard(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Location returns the timezone used for calendar dates.
func (l *Ledger) Location() *time.Location {
	return l.loc
}

// OnChange registers fn to run after every committed add or delete.
func (l *Ledger) OnChange(fn ChangeFunc) {
	l.listeners = append(l.listeners, fn)
}

// Add validates and stores a meal, returning the stored record with its id.
// A rejected add leaves the ledger unchanged.
func (l *Ledger) Add(ctx context.Context, description string, calories int, at time.Time) (model.MealRecord, error) {
	description = strings.TrimSpace(description)
	if err := validateMeal(description, calories, at); err != nil {
		return model.MealRecord{}, err
	}

	// Drop the monotonic reading so the returned record compares equal to
	// what a later read produces.
	at = at.Round(0).In(l.loc)

	id, err := l.store.InsertMeal(ctx, description, calories, at)
	if err != nil {
		l.logger.Op(ctx, log.OpAddMeal, err, log.FieldCalories, calories)
		return model.MealRecord{}, fmt.Errorf("add meal: %w", err)
	}

	rec := model.MealRecord{
		ID:          id,
		Timestamp:   at,
		Description: description,
		Calories:    calories,
	}
	l.logger.Op(ctx, log.OpAddMeal, nil,
		log.FieldMealID, id,
		log.FieldCalories, calories,
		log.FieldDate, model.DayKey(rec.Day(l.loc)))

	l.notify(ctx, Change{Kind: MealAdded, Meal: rec, Date: rec.Day(l.loc)})
	return rec, nil
}

// Delete removes the meal with id. It returns ErrNotFound if no such meal exists.
func (l *Ledger) Delete(ctx context.Context, id int64) error {
	rec, ok, err := l.store.GetMeal(ctx, id)
	if err != nil {
		return fmt.Errorf("delete meal %d: %w", id, err)
	}
	if !ok {
		return fmt.Errorf("meal %d: %w", id, model.ErrNotFound)
	}

	n, err := l.store.DeleteMeal(ctx, id)
	if err != nil {
		l.logger.Op(ctx, log.OpDeleteMeal, err, log.FieldMealID, id)
		return fmt.Errorf("delete meal %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("meal %d: %w", id, model.ErrNotFound)
	}

	rec.Timestamp = rec.Timestamp.In(l.loc)
	l.logger.Op(ctx, log.OpDeleteMeal, nil,
		log.FieldMealID, id,
		log.FieldDate, model.DayKey(rec.Day(l.loc)))

	l.notify(ctx, Change{Kind: MealDeleted, Meal: rec, Date: rec.Day(l.loc)})
	return nil
}

// Get returns one meal by id, or ErrNotFound.
func (l *Ledger) Get(ctx context.Context, id int64) (model.MealRecord, error) {
	rec, ok, err := l.store.GetMeal(ctx, id)
	if err != nil {
		return model.MealRecord{}, fmt.Errorf("get meal %d: %w", id, err)
	}
	if !ok {
		return model.MealRecord{}, fmt.Errorf("meal %d: %w", id, model.ErrNotFound)
	}
	rec.Timestamp = rec.Timestamp.In(l.loc)
	return rec, nil
}

// ListByDate returns the meals on date's calendar day, oldest first.
// A day with no meals yields an empty slice.
func (l *Ledger) ListByDate(ctx context.Context, date time.Time) ([]model.MealRecord, error) {
	day := model.DayOf(date, l.loc)
	return l.query(ctx, day, model.NextDay(day))
}

// ListByDateRange returns the meals on every calendar day in [start, end],
// oldest first. It returns ErrValidation if start is after end.
func (l *Ledger) ListByDateRange(ctx context.Context, start, end time.Time) ([]model.MealRecord, error) {
	first, last, err := l.DayRange(start, end)
	if err != nil {
		return nil, err
	}
	return l.query(ctx, first, model.NextDay(last))
}

// DayRange truncates start and end to calendar dates and checks their order.
func (l *Ledger) DayRange(start, end time.Time) (time.Time, time.Time, error) {
	first := model.DayOf(start, l.loc)
	last := model.DayOf(end, l.loc)
	if first.After(last) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: range start %s is after end %s",
			model.ErrValidation, model.DayKey(first), model.DayKey(last))
	}
	return first, last, nil
}

func (l *Ledger) query(ctx context.Context, from, to time.Time) ([]model.MealRecord, error) {
	meals, err := l.store.QueryMeals(ctx, from, to)
	if err != nil {
		l.logger.Op(ctx, log.OpQueryMeals, err,
			log.FieldStart, model.DayKey(from), log.FieldEnd, model.DayKey(to))
		return nil, fmt.Errorf("list meals: %w", err)
	}
	if meals == nil {
		meals = []model.MealRecord{}
	}
	for i := range meals {
		meals[i].Timestamp = meals[i].Timestamp.In(l.loc)
	}
	return meals, nil
}

func (l *Ledger) notify(ctx context.Context, c Change) {
	for _, fn := range l.listeners {
		fn(ctx, c)
	}
}

func validateMeal(description string, calories int, at time.Time) error {
	if description == "" {
		return fmt.Errorf("%w: description must not be empty", model.ErrValidation)
	}
	if calories <= 0 {
		return fmt.Errorf("%w: calories must be a positive integer, got %d", model.ErrValidation, calories)
	}
	if at.IsZero() {
		return fmt.Errorf("%w: meal time is required", model.ErrValidation)
	}
	return nil
}
