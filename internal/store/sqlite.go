// Package store persists meals and the calorie goal in an embedded SQLite
// database. It stores raw rows only; all date math and summation happen in
// the ledger and the aggregator.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // register sqlite driver

	"github.com/theirongolddev/calburn/internal/log"
	"github.com/theirongolddev/calburn/internal/model"
)

// timeLayout is fixed-width UTC so lexical order in SQLite is time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// SQLiteStore is the persistence backend for the ledger and the aggregator.
type SQLiteStore struct {
	db     *sqlx.DB
	path   string
	logger *log.Logger
}

type mealRow struct {
	ID          int64  `db:"id"`
	EatenAt     string `db:"eaten_at"`
	Description string `db:"description"`
	Calories    int    `db:"calories"`
}

// Open opens or creates the database at dbPath and applies migrations.
// A failure here means the session cannot proceed.
func Open(dbPath string, logger *log.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentStore)

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
		return nil, fmt.Errorf("%w: creating data dir: %w", model.ErrStorage, err)
	}

	if err := RunMigrations(dbPath); err != nil {
		logger.Error("migration failed", log.FieldDBPath, dbPath, log.FieldError, err.Error())
		return nil, fmt.Errorf("%w: %w", model.ErrStorage, err)
	}

	db, err := sqlx.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("%w: opening db: %w", model.ErrStorage, err)
	}
	// One connection: writes are serialized and every read sees the last commit.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping db: %w", model.ErrStorage, err)
	}

	logger.Debug("store opened", log.FieldDBPath, dbPath)
	return &SQLiteStore{db: db, path: dbPath, logger: logger}, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// InsertMeal stores one meal and returns its new id. The single INSERT is
// atomic: the row exists with every field afterwards, or not at all.
func (s *SQLiteStore) InsertMeal(ctx context.Context, description string, calories int, at time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO meals (eaten_at, description, calories, created_at) VALUES (?, ?, ?, ?)`,
		formatTime(at), description, calories, formatTime(time.Now()),
	)
	if err != nil {
		return 0, storageErr("insert meal", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, storageErr("insert meal id", err)
	}
	s.logger.Op(ctx, log.OpAddMeal, nil, log.FieldMealID, id, log.FieldCalories, calories)
	return id, nil
}

// DeleteMeal removes a meal and returns the number of rows removed.
// Zero means the id did not exist.
func (s *SQLiteStore) DeleteMeal(ctx context.Context, id int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM meals WHERE id = ?`, id)
	if err != nil {
		return 0, storageErr("delete meal", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storageErr("delete meal rows", err)
	}
	s.logger.Op(ctx, log.OpDeleteMeal, nil, log.FieldMealID, id, "affected", n)
	return n, nil
}

// GetMeal loads one meal by id.
func (s *SQLiteStore) GetMeal(ctx context.Context, id int64) (model.MealRecord, bool, error) {
	var row mealRow
	err := s.db.GetContext(ctx, &row,
		`SELECT id, eaten_at, description, calories FROM meals WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.MealRecord{}, false, nil
	}
	if err != nil {
		return model.MealRecord{}, false, storageErr("get meal", err)
	}
	rec, err := row.record()
	if err != nil {
		return model.MealRecord{}, false, err
	}
	return rec, true, nil
}

// QueryMeals returns raw meal rows with from <= eaten_at < to,
// ordered by time then id.
func (s *SQLiteStore) QueryMeals(ctx context.Context, from, to time.Time) ([]model.MealRecord, error) {
	var rows []mealRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT id, eaten_at, description, calories FROM meals
		 WHERE eaten_at >= ? AND eaten_at < ?
		 ORDER BY eaten_at, id`,
		formatTime(from), formatTime(to),
	)
	if err != nil {
		return nil, storageErr("query meals", err)
	}

	meals := make([]model.MealRecord, 0, len(rows))
	for _, r := range rows {
		rec, err := r.record()
		if err != nil {
			return nil, err
		}
		meals = append(meals, rec)
	}
	return meals, nil
}

// MealCount returns the number of stored meals.
func (s *SQLiteStore) MealCount(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM meals`); err != nil {
		return 0, storageErr("count meals", err)
	}
	return n, nil
}

// GetGoal returns the stored calorie goal, or false if none was ever set.
func (s *SQLiteStore) GetGoal(ctx context.Context) (int, bool, error) {
	var goal int
	err := s.db.GetContext(ctx, &goal, `SELECT calories FROM calorie_goal WHERE id = 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, storageErr("get goal", err)
	}
	return goal, true, nil
}

// SetGoal upserts the single goal row.
func (s *SQLiteStore) SetGoal(ctx context.Context, calories int) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO calorie_goal (id, calories, updated_at) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET calories = excluded.calories, updated_at = excluded.updated_at`,
		calories, formatTime(time.Now()),
	)
	if err != nil {
		return storageErr("set goal", err)
	}
	s.logger.Op(ctx, log.OpSetGoal, nil, log.FieldGoal, calories)
	return nil
}

func (r mealRow) record() (model.MealRecord, error) {
	at, err := time.Parse(timeLayout, r.EatenAt)
	if err != nil {
		return model.MealRecord{}, storageErr(fmt.Sprintf("parse eaten_at of meal %d", r.ID), err)
	}
	return model.MealRecord{
		ID:          r.ID,
		Timestamp:   at,
		Description: r.Description,
		Calories:    r.Calories,
	}, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func storageErr(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}
	msg := err.Error()
	if strings.Contains(msg, "CHECK constraint failed") {
		return fmt.Errorf("%s: %w: %w", op, model.ErrValidation, err)
	}
	return fmt.Errorf("%s: %w: %w", op, model.ErrStorage, err)
}
