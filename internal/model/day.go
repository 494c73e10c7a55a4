package model

import (
	"fmt"
	"time"
)

// DayLayout is the canonical calendar-date format.
const DayLayout = "2006-01-02"

// DayOf truncates t to midnight of its calendar date in loc.
func DayOf(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// NextDay returns midnight of the calendar date after day.
// Building it from date fields keeps wall-clock midnight across DST changes.
func NextDay(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day()+1, 0, 0, 0, 0, day.Location())
}

// DayKey formats a date as YYYY-MM-DD.
func DayKey(t time.Time) string {
	return t.Format(DayLayout)
}

// ParseDay parses a YYYY-MM-DD date as midnight in loc.
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	d, err := time.ParseInLocation(DayLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q (want YYYY-MM-DD)", ErrValidation, s)
	}
	return d, nil
}

// SameDay reports whether a and b fall on the same calendar date in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	return DayOf(a, loc).Equal(DayOf(b, loc))
}

// DaysBetween returns every calendar date in [start, end], ascending.
// Both ends are truncated to dates in start's location first.
func DaysBetween(start, end time.Time) []time.Time {
	loc := start.Location()
	day := DayOf(start, loc)
	last := DayOf(end, loc)

	var days []time.Time
	for !day.After(last) {
		days = append(days, day)
		day = NextDay(day)
	}
	return days
}
