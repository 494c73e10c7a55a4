package source

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/calburn/internal/export"
	"github.com/theirongolddev/calburn/internal/model"
)

var (
	testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	testLoc = time.UTC
)

// writeFile creates a temp import file and returns a DiscoveredFile for it.
func writeFile(t *testing.T, name string, lines ...string) DiscoveredFile {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	format, ok := FormatOf(path)
	if !ok {
		t.Fatalf("FormatOf(%q) not recognised", path)
	}
	return DiscoveredFile{Path: path, Format: format}
}

func TestParseFile_JSONL(t *testing.T) {
	df := writeFile(t, "meals.jsonl",
		`{"description":"oatmeal","calories":350,"timestamp":"2025-06-14T08:00:00Z"}`,
		``,
		`# comment`,
		`{"description":"salad","calories":420,"timestamp":"2025-06-14 13:15"}`,
		`{"description":"snack","calories":150}`,
	)

	result := ParseFile(df, testNow, testLoc)
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if result.ParseErrors() != 0 {
		t.Fatalf("ParseErrors = %d, want 0: %+v", result.ParseErrors(), result.Errors)
	}
	if len(result.Meals) != 3 {
		t.Fatalf("meals = %d, want 3", len(result.Meals))
	}

	if got := result.Meals[1].At; !got.Equal(time.Date(2025, 6, 14, 13, 15, 0, 0, time.UTC)) {
		t.Errorf("salad At = %v, want 2025-06-14 13:15 UTC", got)
	}
	if got := result.Meals[2].At; !got.Equal(testNow) {
		t.Errorf("snack At = %v, want now", got)
	}
	if result.Meals[1].Line != 4 {
		t.Errorf("salad Line = %d, want 4", result.Meals[1].Line)
	}
}

func TestParseFile_JSONLBadLinesSkipped(t *testing.T) {
	df := writeFile(t, "meals.jsonl",
		`{"description":"toast","calories":200,"timestamp":"2025-06-14T08:00:00Z"}`,
		`{not json`,
		`{"description":"eggs","calories":180,"timestamp":"yesterday-ish"}`,
		`{"description":"tea","calories":5,"timestamp":"2025-06-14T09:00:00Z"}`,
	)

	result := ParseFile(df, testNow, testLoc)
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if len(result.Meals) != 2 {
		t.Errorf("meals = %d, want 2", len(result.Meals))
	}
	if result.ParseErrors() != 2 {
		t.Fatalf("ParseErrors = %d, want 2", result.ParseErrors())
	}
	if result.Errors[0].Line != 2 || result.Errors[1].Line != 3 {
		t.Errorf("error lines = %d,%d, want 2,3", result.Errors[0].Line, result.Errors[1].Line)
	}
}

func TestParseFile_CSVExportFormat(t *testing.T) {
	df := writeFile(t, "export.csv",
		`id,date,time,description,calories`,
		`1,2025-06-14,08:00,oatmeal,350`,
		`2,2025-06-14,12:30,"chicken, rice",640`,
		`3,2025-06-14,19:00,pasta,abc`,
	)

	result := ParseFile(df, testNow, testLoc)
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if len(result.Meals) != 2 {
		t.Fatalf("meals = %d, want 2", len(result.Meals))
	}
	if result.ParseErrors() != 1 || result.Errors[0].Line != 4 {
		t.Fatalf("Errors = %+v, want one error on line 4", result.Errors)
	}

	m := result.Meals[1]
	if m.Description != "chicken, rice" || m.Calories != 640 {
		t.Errorf("meal = %q/%d, want chicken, rice/640", m.Description, m.Calories)
	}
	if !m.At.Equal(time.Date(2025, 6, 14, 12, 30, 0, 0, time.UTC)) {
		t.Errorf("At = %v, want 2025-06-14 12:30 UTC", m.At)
	}
}

func TestParseFile_CSVTimestampColumn(t *testing.T) {
	df := writeFile(t, "meals.csv",
		`Timestamp,Description,Calories`,
		`2025-06-14T07:45:00Z,coffee,90`,
	)

	result := ParseFile(df, testNow, testLoc)
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if len(result.Meals) != 1 {
		t.Fatalf("meals = %d, want 1", len(result.Meals))
	}
	if !result.Meals[0].At.Equal(time.Date(2025, 6, 14, 7, 45, 0, 0, time.UTC)) {
		t.Errorf("At = %v", result.Meals[0].At)
	}
}

func TestParseFile_CSVMissingColumn(t *testing.T) {
	df := writeFile(t, "meals.csv",
		`date,description`,
		`2025-06-14,toast`,
	)

	result := ParseFile(df, testNow, testLoc)
	if result.Err == nil {
		t.Fatal("expected error for header without calories")
	}
}

func TestParseFile_EmptyCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	result := ParseFile(DiscoveredFile{Path: path, Format: FormatCSV}, testNow, testLoc)
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if len(result.Meals) != 0 {
		t.Errorf("meals = %d, want 0", len(result.Meals))
	}
}

func TestParseFile_Missing(t *testing.T) {
	result := ParseFile(DiscoveredFile{Path: "/nonexistent/meals.jsonl", Format: FormatJSONL}, testNow, testLoc)
	if result.Err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestParseFile_ReadsExportOutput(t *testing.T) {
	meals := []model.MealRecord{
		{ID: 7, Timestamp: time.Date(2025, 6, 14, 8, 0, 5, 0, time.UTC), Description: "oatmeal", Calories: 350},
		{ID: 9, Timestamp: time.Date(2025, 6, 14, 19, 30, 0, 0, time.UTC), Description: `pie "à la mode"`, Calories: 720},
	}

	var buf bytes.Buffer
	if err := export.WriteMealsCSV(&buf, meals, testLoc); err != nil {
		t.Fatalf("WriteMealsCSV: %v", err)
	}
	path := filepath.Join(t.TempDir(), "export.csv")
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatal(err)
	}

	result := ParseFile(DiscoveredFile{Path: path, Format: FormatCSV}, testNow, testLoc)
	if result.Err != nil || result.ParseErrors() != 0 {
		t.Fatalf("ParseFile: err=%v errors=%+v", result.Err, result.Errors)
	}
	if len(result.Meals) != len(meals) {
		t.Fatalf("meals = %d, want %d", len(result.Meals), len(meals))
	}
	for i, m := range meals {
		got := result.Meals[i]
		if got.Description != m.Description || got.Calories != m.Calories || !got.At.Equal(m.Timestamp) {
			t.Errorf("meal %d = %+v, want %+v", i, got, m)
		}
	}
}
