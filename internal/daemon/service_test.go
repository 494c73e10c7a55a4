package daemon

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/calburn/internal/ledger"
	"github.com/theirongolddev/calburn/internal/pipeline"
	"github.com/theirongolddev/calburn/internal/store"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) *Service {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "calburn.db"), nil)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	ctx := context.Background()
	l := ledger.New(s, ledger.WithLocation(time.UTC))
	agg, err := pipeline.NewAggregator(ctx, l, s, nil)
	if err != nil {
		t.Fatalf("NewAggregator: %v", err)
	}
	tr := pipeline.NewTracker(l, agg, pipeline.WithClock(func() time.Time { return testNow }))
	return New(tr, Config{EventsBuffer: 50}, nil)
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, rd))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestPublishEventRingBuffer(t *testing.T) {
	s := newTestService(t)
	s.cfg.EventsBuffer = 2

	s.publishEvent(Event{Type: EventGoalSet})
	s.publishEvent(Event{Type: EventGoalSet})
	s.publishEvent(Event{Type: EventGoalSet})

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.events) != 2 {
		t.Fatalf("events len = %d, want 2", len(s.events))
	}
	if s.events[0].ID != 2 || s.events[1].ID != 3 {
		t.Fatalf("events ring contains IDs [%d, %d], want [2, 3]", s.events[0].ID, s.events[1].ID)
	}
}

func TestAPI_AddListTotalsGoal(t *testing.T) {
	s := newTestService(t)
	h := s.Handler()

	if rec := do(t, h, http.MethodPut, "/v1/goal", `{"calories":2000}`); rec.Code != http.StatusOK {
		t.Fatalf("PUT /v1/goal = %d: %s", rec.Code, rec.Body)
	}

	var last AddMealResponse
	for i := 0; i < 3; i++ {
		body := fmt.Sprintf(`{"description":"burrito","calories":800,"timestamp":"%02d:00"}`, 8+i*4)
		rec := do(t, h, http.MethodPost, "/v1/meals", body)
		if rec.Code != http.StatusCreated {
			t.Fatalf("POST /v1/meals = %d: %s", rec.Code, rec.Body)
		}
		last = decode[AddMealResponse](t, rec)
	}
	if !last.GoalExceeded || last.Status == nil || last.Status.Consumed != 2400 {
		t.Fatalf("third add = %+v, want goal exceeded at 2400", last)
	}
	if last.Meal.Date != "2025-06-15" {
		t.Fatalf("meal date = %s, want 2025-06-15", last.Meal.Date)
	}

	meals := decode[[]Meal](t, do(t, h, http.MethodGet, "/v1/meals?date=2025-06-15", ""))
	if len(meals) != 3 || meals[0].Timestamp.Hour() != 8 {
		t.Fatalf("meals = %+v", meals)
	}

	totals := decode[[]DayTotal](t, do(t, h, http.MethodGet, "/v1/totals?start=2025-06-13&end=2025-06-15", ""))
	if len(totals) != 3 || totals[0].Calories != 0 || totals[2].Calories != 2400 {
		t.Fatalf("totals = %+v", totals)
	}

	week := decode[[]DayTotal](t, do(t, h, http.MethodGet, "/v1/totals", ""))
	if len(week) != 7 || week[6].Date != "2025-06-15" {
		t.Fatalf("default totals = %+v", week)
	}

	if rec := do(t, h, http.MethodDelete, fmt.Sprintf("/v1/meals/%d", last.Meal.ID), ""); rec.Code != http.StatusNoContent {
		t.Fatalf("DELETE = %d: %s", rec.Code, rec.Body)
	}

	st := decode[Status](t, do(t, h, http.MethodGet, "/v1/status", ""))
	if st.Today.Consumed != 1600 || st.Today.Exceeded || st.MealsToday != 2 {
		t.Fatalf("status after delete = %+v", st.Today)
	}
	if st.Today.Goal == nil || *st.Today.Goal != 2000 {
		t.Fatalf("status goal = %v, want 2000", st.Today.Goal)
	}

	sum := decode[Summary](t, do(t, h, http.MethodGet, "/v1/summary?period=week", ""))
	if sum.TotalCalories != 1600 || len(sum.Days) != 7 || sum.Start != "2025-06-09" {
		t.Fatalf("summary = %+v", sum)
	}

	goal := decode[Goal](t, do(t, h, http.MethodGet, "/v1/goal", ""))
	if goal.Calories == nil || *goal.Calories != 2000 {
		t.Fatalf("goal = %+v", goal)
	}
}

func TestAPI_EventsRecordChanges(t *testing.T) {
	s := newTestService(t)
	h := s.Handler()

	do(t, h, http.MethodPut, "/v1/goal", `{"calories":500}`)
	add := decode[AddMealResponse](t, do(t, h, http.MethodPost, "/v1/meals", `{"description":"pizza","calories":900}`))
	do(t, h, http.MethodDelete, fmt.Sprintf("/v1/meals/%d", add.Meal.ID), "")

	events := decode[[]Event](t, do(t, h, http.MethodGet, "/v1/events", ""))
	var types []string
	for _, ev := range events {
		types = append(types, ev.Type)
	}
	want := []string{EventGoalSet, EventMealAdded, EventGoalExceeded, EventMealDeleted}
	if strings.Join(types, ",") != strings.Join(want, ",") {
		t.Fatalf("event types = %v, want %v", types, want)
	}
	if events[1].Meal == nil || events[1].Meal.Calories != 900 {
		t.Fatalf("meal_added payload = %+v", events[1])
	}
}

func TestAPI_ErrorMapping(t *testing.T) {
	s := newTestService(t)
	h := s.Handler()

	tests := []struct {
		name   string
		method string
		target string
		body   string
		want   int
	}{
		{"blank description", http.MethodPost, "/v1/meals", `{"description":"  ","calories":100}`, http.StatusBadRequest},
		{"zero calories", http.MethodPost, "/v1/meals", `{"description":"water","calories":0}`, http.StatusBadRequest},
		{"bad timestamp", http.MethodPost, "/v1/meals", `{"description":"tea","calories":5,"timestamp":"soon"}`, http.StatusBadRequest},
		{"unknown field", http.MethodPost, "/v1/meals", `{"description":"tea","kcal":5}`, http.StatusBadRequest},
		{"missing meal", http.MethodDelete, "/v1/meals/999", "", http.StatusNotFound},
		{"bad id", http.MethodDelete, "/v1/meals/abc", "", http.StatusBadRequest},
		{"inverted range", http.MethodGet, "/v1/totals?start=2025-06-10&end=2025-06-01", "", http.StatusBadRequest},
		{"half range", http.MethodGet, "/v1/meals?start=2025-06-10", "", http.StatusBadRequest},
		{"bad date", http.MethodGet, "/v1/meals?date=June", "", http.StatusBadRequest},
		{"bad period", http.MethodGet, "/v1/summary?period=year", "", http.StatusBadRequest},
		{"negative goal", http.MethodPut, "/v1/goal", `{"calories":-5}`, http.StatusBadRequest},
		{"missing goal", http.MethodPut, "/v1/goal", `{}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.target, tt.body)
			if rec.Code != tt.want {
				t.Fatalf("%s %s = %d, want %d: %s", tt.method, tt.target, rec.Code, tt.want, rec.Body)
			}
			if e := decode[Error](t, rec); e.Error == "" || e.RequestID == "" {
				t.Fatalf("error body = %+v", e)
			}
		})
	}

	st := decode[Status](t, do(t, h, http.MethodGet, "/v1/status", ""))
	if st.Today.Consumed != 0 || st.Today.Goal != nil || st.EventCount != 0 {
		t.Fatalf("rejected requests changed state: %+v", st)
	}
}

func TestAPI_StoreFailureIs503(t *testing.T) {
	s := newTestService(t)
	h := s.Handler()

	// A ledger over a closed store fails every query.
	dbPath := filepath.Join(t.TempDir(), "closed.db")
	closed, err := store.Open(dbPath, nil)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	_ = closed.Close()
	s.tracker.Ledger = ledger.New(closed, ledger.WithLocation(time.UTC))

	rec := do(t, h, http.MethodGet, "/v1/meals", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("GET /v1/meals on closed store = %d, want 503: %s", rec.Code, rec.Body)
	}
	if e := decode[Error](t, rec); e.Error != "storage unavailable" {
		t.Fatalf("error = %q", e.Error)
	}
}

func TestRequestIDHeader(t *testing.T) {
	s := newTestService(t)
	rec := do(t, s.Handler(), http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok\n" {
		t.Fatalf("healthz = %d %q", rec.Code, rec.Body)
	}
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Fatal("missing request id header")
	}
}

func TestStream_SendsStatusThenChanges(t *testing.T) {
	s := newTestService(t)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/v1/stream", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET /v1/stream: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("Content-Type = %q", ct)
	}

	r := bufio.NewReader(resp.Body)
	if ev := readEventType(t, r); ev != EventStatus {
		t.Fatalf("first event = %q, want %q", ev, EventStatus)
	}

	// The subscriber is registered before the status event is written.
	addResp, err := http.Post(srv.URL+"/v1/meals", "application/json",
		strings.NewReader(`{"description":"apple","calories":95}`))
	if err != nil {
		t.Fatalf("POST /v1/meals: %v", err)
	}
	_ = addResp.Body.Close()

	if ev := readEventType(t, r); ev != EventMealAdded {
		t.Fatalf("next event = %q, want %q", ev, EventMealAdded)
	}
}

func readEventType(t *testing.T, r *bufio.Reader) string {
	t.Helper()
	var typ string
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			t.Fatalf("reading stream: %v", err)
		}
		line = strings.TrimRight(line, "\n")
		if line == "" && typ != "" {
			return typ
		}
		if v, ok := strings.CutPrefix(line, "event: "); ok {
			typ = v
		}
	}
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	s := newTestService(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	_ = resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve returned %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
