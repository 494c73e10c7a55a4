package tui

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/theirongolddev/calburn/internal/model"
	"github.com/theirongolddev/calburn/internal/pipeline"
)

const opTimeout = 10 * time.Second

// session serializes tracker calls. Bubble Tea runs commands on their own
// goroutines and the tracker allows one caller at a time.
type session struct {
	mu      sync.Mutex
	tracker *pipeline.Tracker
}

func (s *session) with(fn func(ctx context.Context, tr *pipeline.Tracker) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	return fn(ctx, s.tracker)
}

// DataLoadedMsg carries everything the tabs render.
type DataLoadedMsg struct {
	Meals  []model.MealRecord
	Status model.GoalStatus

	Week        []model.DailyTotal
	WeekSummary model.PeriodSummary

	Month        []model.DailyTotal
	MonthSummary model.PeriodSummary

	LoadTime time.Duration
	Err      error
}

// MealAddedMsg reports the outcome of an add.
type MealAddedMsg struct {
	Result pipeline.AddResult
	Err    error
}

// MealDeletedMsg reports the outcome of a delete.
type MealDeletedMsg struct {
	ID  int64
	Err error
}

// GoalSetMsg reports the outcome of a goal change.
type GoalSetMsg struct {
	Goal int
	Err  error
}

func loadDataCmd(s *session) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		var msg DataLoadedMsg
		msg.Err = s.with(func(ctx context.Context, tr *pipeline.Tracker) error {
			var err error
			if msg.Meals, msg.Status, err = tr.TodayStatus(ctx); err != nil {
				return err
			}
			if msg.Week, msg.WeekSummary, err = tr.PeriodTotals(ctx, model.PeriodWeek); err != nil {
				return err
			}
			msg.Month, msg.MonthSummary, err = tr.PeriodTotals(ctx, model.PeriodMonth)
			return err
		})
		msg.LoadTime = time.Since(start)
		return msg
	}
}

func addMealCmd(s *session, description string, calories int, at time.Time) tea.Cmd {
	return func() tea.Msg {
		var msg MealAddedMsg
		msg.Err = s.with(func(ctx context.Context, tr *pipeline.Tracker) error {
			var err error
			msg.Result, err = tr.AddMeal(ctx, description, calories, at)
			return err
		})
		return msg
	}
}

func deleteMealCmd(s *session, id int64) tea.Cmd {
	return func() tea.Msg {
		err := s.with(func(ctx context.Context, tr *pipeline.Tracker) error {
			return tr.DeleteMeal(ctx, id)
		})
		return MealDeletedMsg{ID: id, Err: err}
	}
}

func setGoalCmd(s *session, goal int) tea.Cmd {
	return func() tea.Msg {
		err := s.with(func(ctx context.Context, tr *pipeline.Tracker) error {
			return tr.SetGoal(ctx, goal)
		})
		return GoalSetMsg{Goal: goal, Err: err}
	}
}
