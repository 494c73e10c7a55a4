package ledger

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/calburn/internal/model"
)

// timestampLayouts are tried in order after RFC 3339.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	model.DayLayout,
}

// clockLayouts are times of day applied to now's date.
var clockLayouts = []string{
	"15:04:05",
	"15:04",
}

// ParseCalories parses user input as a positive integer calorie count.
func ParseCalories(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: calories are required", model.ErrValidation)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: calories must be a number, got %q", model.ErrValidation, s)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%w: calories must be a positive integer, got %d", model.ErrValidation, n)
	}
	return n, nil
}

// ParseTimestamp parses a meal time. Empty input means now. A bare date is
// midnight of that day; a bare time of day is taken on now's date in loc.
func ParseTimestamp(s string, now time.Time, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return now.Round(0).In(loc), nil
	}

	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.In(loc), nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	for _, layout := range clockLayouts {
		if c, err := time.Parse(layout, s); err == nil {
			n := now.In(loc)
			return time.Date(n.Year(), n.Month(), n.Day(), c.Hour(), c.Minute(), c.Second(), 0, loc), nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: cannot parse meal time %q (try \"2006-01-02 15:04\" or \"15:04\")",
		model.ErrValidation, s)
}
