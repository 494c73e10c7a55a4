// Package daemon serves the calorie tracker over a loopback HTTP API with a
// server-sent event stream of ledger changes.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/theirongolddev/calburn/internal/ledger"
	"github.com/theirongolddev/calburn/internal/log"
	"github.com/theirongolddev/calburn/internal/model"
	"github.com/theirongolddev/calburn/internal/pipeline"
)

// Event types published on /v1/events and /v1/stream.
const (
	EventStatus       = "status"
	EventMealAdded    = "meal_added"
	EventMealDeleted  = "meal_deleted"
	EventGoalSet      = "goal_set"
	EventGoalExceeded = "goal_exceeded"
)

// Config controls the daemon runtime behavior.
type Config struct {
	Addr         string
	EventsBuffer int
}

// Event is emitted whenever the ledger or the goal changes.
type Event struct {
	ID        int64       `json:"id"`
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Date      string      `json:"date,omitempty"`
	Meal      *Meal       `json:"meal,omitempty"`
	Status    *GoalStatus `json:"status,omitempty"`
}

// Service provides the HTTP API over a tracker.
type Service struct {
	cfg     Config
	tracker *pipeline.Tracker
	logger  *log.Logger
	now     func() time.Time

	// opMu lets reads run together while keeping at most one mutation
	// in flight.
	opMu sync.RWMutex

	mu          sync.RWMutex
	startedAt   time.Time
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a service over tracker and subscribes to its ledger.
func New(tracker *pipeline.Tracker, cfg Config, logger *log.Logger) *Service {
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8788"
	}
	if logger == nil {
		logger = log.Discard()
	}

	s := &Service{
		cfg:       cfg,
		tracker:   tracker,
		logger:    logger.WithComponent(log.ComponentDaemon),
		now:       time.Now,
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
	tracker.Ledger.OnChange(s.onLedgerChange)
	return s
}

// Handler returns the API's routes wrapped in request logging.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /v1/status", s.handleStatus)
	mux.HandleFunc("GET /v1/meals", s.handleListMeals)
	mux.HandleFunc("POST /v1/meals", s.handleAddMeal)
	mux.HandleFunc("DELETE /v1/meals/{id}", s.handleDeleteMeal)
	mux.HandleFunc("GET /v1/totals", s.handleTotals)
	mux.HandleFunc("GET /v1/summary", s.handleSummary)
	mux.HandleFunc("GET /v1/goal", s.handleGetGoal)
	mux.HandleFunc("PUT /v1/goal", s.handlePutGoal)
	mux.HandleFunc("GET /v1/events", s.handleEvents)
	mux.HandleFunc("GET /v1/stream", s.handleStream)
	return s.withRequestLog(mux)
}

// Run listens on the configured address until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("daemon listen: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is canceled, then shuts down gracefully.
// Open event streams end when ctx is canceled.
func (s *Service) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	server := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return gctx },
	}

	g.Go(func() error {
		s.logger.Info("listening", "addr", ln.Addr().String())
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("daemon http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down", log.FieldOperation, log.OpShutdown)
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func (s *Service) onLedgerChange(_ context.Context, c ledger.Change) {
	typ := EventMealAdded
	if c.Kind == ledger.MealDeleted {
		typ = EventMealDeleted
	}
	meal := toMeal(c.Meal, s.tracker.Ledger.Location())
	s.publishEvent(Event{Type: typ, Date: model.DayKey(c.Date), Meal: &meal})
}

// publishEvent stamps ev with the next id, keeps it in the ring buffer
// and fans it out to subscribers. Slow subscribers miss events.
func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.nextEventID++
	ev.ID = s.nextEventID
	if ev.Timestamp.IsZero() {
		ev.Timestamp = s.now()
	}

	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	status, err := s.todayStatus(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Current state first, so a client can render before the next change.
	writeSSE(w, Event{Type: EventStatus, Timestamp: s.now(), Date: status.Date, Status: &status})
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	if ev.ID > 0 {
		_, _ = fmt.Fprintf(w, "id: %d\n", ev.ID)
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
