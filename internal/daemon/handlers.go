package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/theirongolddev/calburn/internal/ledger"
	"github.com/theirongolddev/calburn/internal/log"
	"github.com/theirongolddev/calburn/internal/model"
	"github.com/theirongolddev/calburn/internal/pipeline"
)

const maxBodyBytes = 64 << 10

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.opMu.RLock()
	meals, gs, err := s.tracker.TodayStatus(r.Context())
	s.opMu.RUnlock()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.mu.RLock()
	st := Status{
		StartedAt:       s.startedAt,
		Addr:            s.cfg.Addr,
		Timezone:        s.tracker.Ledger.Location().String(),
		Today:           toGoalStatus(gs),
		MealsToday:      len(meals),
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, st)
}

// handleListMeals serves ?date=, ?start=&end=, or today when neither is given.
func (s *Service) handleListMeals(w http.ResponseWriter, r *http.Request) {
	start, end, err := s.dateRange(r, 1)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.opMu.RLock()
	meals, err := s.tracker.Ledger.ListByDateRange(r.Context(), start, end)
	s.opMu.RUnlock()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toMeals(meals, s.tracker.Ledger.Location()))
}

func (s *Service) handleAddMeal(w http.ResponseWriter, r *http.Request) {
	var req AddMealRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	loc := s.tracker.Ledger.Location()
	at, err := ledger.ParseTimestamp(req.Timestamp, s.tracker.Now(), loc)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.opMu.Lock()
	res, err := s.tracker.AddMeal(r.Context(), req.Description, req.Calories, at)
	s.opMu.Unlock()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := AddMealResponse{Meal: toMeal(res.Meal, loc), GoalExceeded: res.GoalExceeded}
	if res.Checked {
		gs := toGoalStatus(res.Status)
		resp.Status = &gs
	}
	if res.GoalExceeded {
		s.publishEvent(Event{Type: EventGoalExceeded, Date: resp.Status.Date, Status: resp.Status})
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Service) handleDeleteMeal(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		s.writeError(w, r, fmt.Errorf("%w: meal id must be a positive integer, got %q", model.ErrValidation, r.PathValue("id")))
		return
	}

	s.opMu.Lock()
	err = s.tracker.DeleteMeal(r.Context(), id)
	s.opMu.Unlock()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleTotals serves dense totals for ?start=&end=, defaulting to the last
// 7 days.
func (s *Service) handleTotals(w http.ResponseWriter, r *http.Request) {
	start, end, err := s.dateRange(r, 7)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.opMu.RLock()
	totals, err := s.tracker.Aggregator.TotalsForRange(r.Context(), start, end)
	s.opMu.RUnlock()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDays(totals))
}

func (s *Service) handleSummary(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")
	if period == "" {
		period = model.PeriodWeek
	}

	s.opMu.RLock()
	totals, summary, err := s.tracker.PeriodTotals(r.Context(), period)
	s.opMu.RUnlock()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSummary(period, summary, totals))
}

func (s *Service) handleGetGoal(w http.ResponseWriter, _ *http.Request) {
	s.opMu.RLock()
	goal, ok := s.tracker.Aggregator.Goal()
	s.opMu.RUnlock()

	var resp Goal
	if ok {
		resp.Calories = &goal
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Service) handlePutGoal(w http.ResponseWriter, r *http.Request) {
	var req Goal
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Calories == nil {
		s.writeError(w, r, fmt.Errorf("%w: calories is required", model.ErrValidation))
		return
	}

	s.opMu.Lock()
	err := s.tracker.SetGoal(r.Context(), *req.Calories)
	var gs model.GoalStatus
	if err == nil {
		_, gs, err = s.tracker.TodayStatus(r.Context())
	}
	s.opMu.Unlock()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	status := toGoalStatus(gs)
	s.publishEvent(Event{Type: EventGoalSet, Date: status.Date, Status: &status})
	writeJSON(w, http.StatusOK, req)
}

func (s *Service) todayStatus(ctx context.Context) (GoalStatus, error) {
	s.opMu.RLock()
	defer s.opMu.RUnlock()
	_, gs, err := s.tracker.TodayStatus(ctx)
	if err != nil {
		return GoalStatus{}, err
	}
	return toGoalStatus(gs), nil
}

// dateRange reads ?date= or ?start=&end=. Without either it returns the
// defaultDays ending today.
func (s *Service) dateRange(r *http.Request, defaultDays int) (time.Time, time.Time, error) {
	q := r.URL.Query()
	loc := s.tracker.Ledger.Location()

	if d := q.Get("date"); d != "" {
		day, err := model.ParseDay(d, loc)
		return day, day, err
	}

	startStr, endStr := q.Get("start"), q.Get("end")
	if startStr == "" && endStr == "" {
		return pipeline.LastNDays(defaultDays, s.tracker.Today())
	}
	if startStr == "" || endStr == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start and end must be given together", model.ErrValidation)
	}

	start, err := model.ParseDay(startStr, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := model.ParseDay(endStr, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: decoding request body: %w", model.ErrValidation, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps error kinds to status codes. Storage failures are
// logged and reported without detail.
func (s *Service) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := http.StatusInternalServerError
	msg := err.Error()
	switch {
	case errors.Is(err, model.ErrValidation):
		code = http.StatusBadRequest
	case errors.Is(err, model.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, model.ErrStorage):
		code = http.StatusServiceUnavailable
		msg = "storage unavailable"
	}
	if code >= http.StatusInternalServerError {
		s.logger.ErrorContext(r.Context(), "request failed", log.FieldError, err.Error(), log.FieldRequestID, RequestID(r.Context()))
	}
	writeJSON(w, code, Error{Error: msg, RequestID: RequestID(r.Context())})
}
