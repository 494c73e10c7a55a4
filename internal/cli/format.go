// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatCalories formats a calorie count with separators and a unit.
// e.g., 1234 -> "1,234 kcal"
func FormatCalories(n int) string {
	return FormatNumber(int64(n)) + " kcal"
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatAverage rounds a per-day average to whole calories.
func FormatAverage(avg float64) string {
	return FormatNumber(int64(avg + 0.5))
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.0f%%", f*100)
}

// FormatRemaining describes goal headroom: "350 kcal left" or "400 kcal over".
func FormatRemaining(remaining int) string {
	if remaining < 0 {
		return FormatCalories(-remaining) + " over"
	}
	return FormatCalories(remaining) + " left"
}

// FormatDayLabel returns e.g. "Mon 06-09" for chart and table rows.
func FormatDayLabel(d time.Time) string {
	return d.Format("Mon 01-02")
}

// FormatMealTime returns the clock time of a meal, e.g. "12:30".
func FormatMealTime(t time.Time) string {
	return t.Format("15:04")
}

// Truncate shortens s to max runes with an ellipsis.
func Truncate(s string, max int) string {
	r := []rune(s)
	if max <= 0 || len(r) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return string(r[:max-1]) + "…"
}
