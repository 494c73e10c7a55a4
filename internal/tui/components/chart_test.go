package components

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/calburn/internal/model"
)

func chartDays(totals ...int) []model.DailyTotal {
	start := time.Date(2025, 5, 29, 0, 0, 0, 0, time.UTC)
	days := make([]model.DailyTotal, len(totals))
	for i, c := range totals {
		days[i] = model.DailyTotal{Date: start.AddDate(0, 0, i), Calories: c}
	}
	return days
}

func TestChartTickStep(t *testing.T) {
	tests := []struct {
		max  float64
		want float64
	}{
		{2400, 500},
		{1000, 200},
		{90, 20},
		{0, 1},
	}
	for _, tt := range tests {
		if got := chartTickStep(tt.max); got != tt.want {
			t.Errorf("chartTickStep(%v) = %v, want %v", tt.max, got, tt.want)
		}
	}
}

func TestFormatChartLabel(t *testing.T) {
	if got := formatChartLabel(2000); got != "2k" {
		t.Fatalf("formatChartLabel(2000) = %q", got)
	}
	if got := formatChartLabel(2500); got != "2.5k" {
		t.Fatalf("formatChartLabel(2500) = %q", got)
	}
	if got := formatChartLabel(500); got != "500" {
		t.Fatalf("formatChartLabel(500) = %q", got)
	}
}

func TestDayLabelsMarkMonthBoundaries(t *testing.T) {
	got := dayLabels(chartDays(1, 1, 1, 1, 1))
	want := []string{"May 29", "30", "31", "Jun 1", "2"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("dayLabels = %v, want %v", got, want)
	}
}

func TestSampleDaysKeepsEnds(t *testing.T) {
	days := chartDays(make([]int, 30)...)
	s := sampleDays(days, 5)
	if len(s) != 5 || !s[0].Date.Equal(days[0].Date) || !s[4].Date.Equal(days[29].Date) {
		t.Fatalf("sampleDays = %v", s)
	}
}

func TestBarChartShape(t *testing.T) {
	out := BarChart(chartDays(800, 2400, 0, 1600, 2000, 1200, 2100), 2000, true, 60, 10)
	lines := strings.Split(out, "\n")

	// chart rows + x axis + labels
	if len(lines) < 4 {
		t.Fatalf("chart too short:\n%s", out)
	}
	if !strings.Contains(lines[len(lines)-2], "└") {
		t.Errorf("x axis missing: %q", lines[len(lines)-2])
	}
	if !strings.Contains(lines[len(lines)-1], "May 29") {
		t.Errorf("x labels missing first date: %q", lines[len(lines)-1])
	}
	if !strings.Contains(out, "┄") {
		t.Error("goal line missing")
	}

	width := lipgloss.Width(lines[0])
	for i, l := range lines[:len(lines)-1] {
		if lipgloss.Width(l) != width {
			t.Errorf("row %d width = %d, want %d", i, lipgloss.Width(l), width)
		}
	}
}

func TestBarChartFallsBackToSparkline(t *testing.T) {
	out := BarChart(chartDays(0, 500, 1000), 0, false, 10, 2)
	if strings.Contains(out, "\n") {
		t.Fatalf("narrow chart should be a single sparkline line: %q", out)
	}
	if BarChart(nil, 0, false, 60, 10) != "" {
		t.Fatal("empty chart should render nothing")
	}
}
