// Package dateutil provides the calendar arithmetic the habit domain is
// built on. All functions are pure: dates in, dates out, no hidden state.
// Calendar days are identified by their local year/month/day, never UTC.
package dateutil

import (
	"fmt"
	"strings"
	"time"

	"github.com/jmercier/habitflow/internal/constants"
)

// FormatDay renders a date as its zero-padded YYYY-MM-DD day key.
func FormatDay(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// ParseDay parses a YYYY-MM-DD day key back into a local-midnight date.
// It is the exact inverse of FormatDay for any valid key.
func ParseDay(s string) (time.Time, error) {
	t, err := time.ParseInLocation(constants.DateFormat, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day %q: %w", s, err)
	}
	return t, nil
}

// Truncate drops the clock portion of t, keeping the local calendar day.
func Truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// AddDays returns t offset by n calendar days. n may be negative; month
// and year boundaries roll correctly.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// DaysBetween returns the absolute whole-day difference between a and b.
func DaysBetween(a, b time.Time) int {
	da := Truncate(a)
	db := Truncate(b)
	// Divide after rounding so DST transitions (23h/25h days) still count
	// as exactly one day.
	diff := db.Sub(da)
	if diff < 0 {
		diff = -diff
	}
	return int((diff + 12*time.Hour) / (24 * time.Hour))
}

// SameDay reports whether a and b fall on the same local calendar day.
func SameDay(a, b time.Time) bool {
	return FormatDay(a) == FormatDay(b)
}

// StartOfMonth returns the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// EndOfMonth returns the last day of t's month.
func EndOfMonth(t time.Time) time.Time {
	return StartOfMonth(t).AddDate(0, 1, -1)
}

// DaysInMonth returns every calendar day of t's month, first to last.
func DaysInMonth(t time.Time) []time.Time {
	start := StartOfMonth(t)
	end := EndOfMonth(t)
	days := make([]time.Time, 0, 31)
	for d := start; !d.After(end); d = AddDays(d, 1) {
		days = append(days, d)
	}
	return days
}

// WeekdayName returns the lower-cased English weekday name of t, the
// normalization used for schedule matching.
func WeekdayName(t time.Time) string {
	return strings.ToLower(t.Weekday().String())
}

// WeekStart returns the Monday of the week containing t.
func WeekStart(t time.Time) time.Time {
	offset := int(t.Weekday()) - 1
	if t.Weekday() == time.Sunday {
		offset = 6
	}
	return Truncate(AddDays(t, -offset))
}
