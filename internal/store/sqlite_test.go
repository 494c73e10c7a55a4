package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/calburn/internal/model"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "calburn.db"), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing store: %v", err)
		}
	})
	return s
}

func TestInsertAndQueryMeals(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	lunch, err := s.InsertMeal(ctx, "Lunch", 700, base.Add(4*time.Hour))
	if err != nil {
		t.Fatalf("InsertMeal lunch: %v", err)
	}
	breakfast, err := s.InsertMeal(ctx, "Breakfast", 400, base)
	if err != nil {
		t.Fatalf("InsertMeal breakfast: %v", err)
	}
	if _, err := s.InsertMeal(ctx, "Next day", 300, base.Add(24*time.Hour)); err != nil {
		t.Fatalf("InsertMeal next day: %v", err)
	}
	if lunch == breakfast {
		t.Fatalf("ids not unique: %d", lunch)
	}

	dayStart := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	meals, err := s.QueryMeals(ctx, dayStart, dayStart.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("QueryMeals: %v", err)
	}
	if len(meals) != 2 {
		t.Fatalf("len(meals) = %d, want 2", len(meals))
	}
	if meals[0].ID != breakfast || meals[1].ID != lunch {
		t.Fatalf("order = [%d %d], want [%d %d]", meals[0].ID, meals[1].ID, breakfast, lunch)
	}
	if !meals[0].Timestamp.Equal(base) {
		t.Errorf("Timestamp = %v, want %v", meals[0].Timestamp, base)
	}
	if meals[0].Description != "Breakfast" || meals[0].Calories != 400 {
		t.Errorf("meal[0] = %+v", meals[0])
	}
}

func TestQueryMeals_HalfOpenRange(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	midnight := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	if _, err := s.InsertMeal(ctx, "Midnight snack", 200, midnight); err != nil {
		t.Fatal(err)
	}

	prevDay, err := s.QueryMeals(ctx, midnight.Add(-24*time.Hour), midnight)
	if err != nil {
		t.Fatal(err)
	}
	if len(prevDay) != 0 {
		t.Fatalf("meal at midnight leaked into previous day: %+v", prevDay)
	}

	sameDay, err := s.QueryMeals(ctx, midnight, midnight.Add(24*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if len(sameDay) != 1 {
		t.Fatalf("len(sameDay) = %d, want 1", len(sameDay))
	}
}

func TestTimestampPrecisionRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	at := time.Date(2025, 6, 1, 12, 34, 56, 123456789, time.FixedZone("X", -5*3600))
	id, err := s.InsertMeal(ctx, "Precise", 100, at)
	if err != nil {
		t.Fatal(err)
	}

	got, ok, err := s.GetMeal(ctx, id)
	if err != nil || !ok {
		t.Fatalf("GetMeal = %v, %v", ok, err)
	}
	if !got.Timestamp.Equal(at) {
		t.Fatalf("Timestamp = %v, want %v", got.Timestamp, at)
	}
}

func TestDeleteMeal(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.InsertMeal(ctx, "Soup", 250, time.Now())
	if err != nil {
		t.Fatal(err)
	}

	n, err := s.DeleteMeal(ctx, id)
	if err != nil {
		t.Fatalf("DeleteMeal: %v", err)
	}
	if n != 1 {
		t.Fatalf("affected = %d, want 1", n)
	}

	n, err = s.DeleteMeal(ctx, id)
	if err != nil {
		t.Fatalf("second DeleteMeal: %v", err)
	}
	if n != 0 {
		t.Fatalf("second affected = %d, want 0", n)
	}

	if _, ok, err := s.GetMeal(ctx, id); err != nil || ok {
		t.Fatalf("GetMeal after delete = %v, %v; want false, nil", ok, err)
	}
}

func TestIDsNotReusedAfterDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first, _ := s.InsertMeal(ctx, "A", 100, time.Now())
	if _, err := s.DeleteMeal(ctx, first); err != nil {
		t.Fatal(err)
	}
	second, err := s.InsertMeal(ctx, "B", 100, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if second == first {
		t.Fatalf("id %d reused after delete", first)
	}
}

func TestGoalUpsert(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, ok, err := s.GetGoal(ctx); err != nil || ok {
		t.Fatalf("GetGoal on empty db = %v, %v; want false, nil", ok, err)
	}

	if err := s.SetGoal(ctx, 2000); err != nil {
		t.Fatalf("SetGoal: %v", err)
	}
	if err := s.SetGoal(ctx, 1800); err != nil {
		t.Fatalf("SetGoal overwrite: %v", err)
	}

	goal, ok, err := s.GetGoal(ctx)
	if err != nil || !ok {
		t.Fatalf("GetGoal = %v, %v", ok, err)
	}
	if goal != 1800 {
		t.Fatalf("goal = %d, want 1800 (last write wins)", goal)
	}
}

func TestGoalPersistsAcrossSessions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calburn.db")
	ctx := context.Background()

	s, err := Open(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SetGoal(ctx, 2200); err != nil {
		t.Fatal(err)
	}
	if _, err := s.InsertMeal(ctx, "Toast", 150, time.Now()); err != nil {
		t.Fatal(err)
	}
	_ = s.Close()

	s, err = Open(path, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = s.Close() }()

	goal, ok, err := s.GetGoal(ctx)
	if err != nil || !ok || goal != 2200 {
		t.Fatalf("GetGoal after reopen = %d, %v, %v; want 2200, true, nil", goal, ok, err)
	}
	n, err := s.MealCount(ctx)
	if err != nil || n != 1 {
		t.Fatalf("MealCount after reopen = %d, %v; want 1", n, err)
	}

	version, dirty, err := SchemaVersion(path)
	if err != nil {
		t.Fatalf("SchemaVersion: %v", err)
	}
	if version != 2 || dirty {
		t.Fatalf("schema version = %d dirty=%v, want 2 clean", version, dirty)
	}
}

func TestCheckConstraintIsValidationError(t *testing.T) {
	s := openTestStore(t)

	_, err := s.InsertMeal(context.Background(), "Bad", 0, time.Now())
	if !errors.Is(err, model.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestClosedStoreReturnsStorageError(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "calburn.db"), nil)
	if err != nil {
		t.Fatal(err)
	}
	_ = s.Close()

	_, err = s.InsertMeal(context.Background(), "Late", 100, time.Now())
	if !errors.Is(err, model.ErrStorage) {
		t.Fatalf("err = %v, want ErrStorage", err)
	}
}
