package dateutil

import (
	"testing"
	"time"
)

func TestFormatDay_ZeroPadded(t *testing.T) {
	d := time.Date(2025, time.March, 5, 14, 30, 0, 0, time.Local)
	if got := FormatDay(d); got != "2025-03-05" {
		t.Errorf("FormatDay = %q, want 2025-03-05", got)
	}
}

func TestParseDay_RoundTrip(t *testing.T) {
	keys := []string{"2025-01-01", "2024-02-29", "1999-12-31", "2025-10-26"}
	for _, key := range keys {
		d, err := ParseDay(key)
		if err != nil {
			t.Fatalf("ParseDay(%q) failed: %v", key, err)
		}
		if got := FormatDay(d); got != key {
			t.Errorf("round trip of %q produced %q", key, got)
		}
	}
}

func TestParseDay_Invalid(t *testing.T) {
	for _, key := range []string{"2025-13-01", "not-a-day", "2025-1-1", ""} {
		if _, err := ParseDay(key); err == nil {
			t.Errorf("ParseDay(%q) succeeded, want error", key)
		}
	}
}

func TestAddDays_RollsBoundaries(t *testing.T) {
	tests := []struct {
		start string
		n     int
		want  string
	}{
		{"2025-01-31", 1, "2025-02-01"},
		{"2025-12-31", 1, "2026-01-01"},
		{"2025-03-01", -1, "2025-02-28"},
		{"2024-03-01", -1, "2024-02-29"}, // leap year
		{"2025-06-15", 0, "2025-06-15"},
	}
	for _, tt := range tests {
		start, err := ParseDay(tt.start)
		if err != nil {
			t.Fatal(err)
		}
		if got := FormatDay(AddDays(start, tt.n)); got != tt.want {
			t.Errorf("AddDays(%s, %d) = %s, want %s", tt.start, tt.n, got, tt.want)
		}
	}
}

func TestDaysBetween(t *testing.T) {
	a, _ := ParseDay("2025-01-01")
	b, _ := ParseDay("2025-01-04")
	if got := DaysBetween(a, b); got != 3 {
		t.Errorf("DaysBetween = %d, want 3", got)
	}
	if got := DaysBetween(b, a); got != 3 {
		t.Errorf("DaysBetween reversed = %d, want 3", got)
	}
	if got := DaysBetween(a, a); got != 0 {
		t.Errorf("DaysBetween same day = %d, want 0", got)
	}
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		day  string
		want int
	}{
		{"2025-02-10", 28},
		{"2024-02-10", 29},
		{"2025-01-01", 31},
		{"2025-04-30", 30},
	}
	for _, tt := range tests {
		d, _ := ParseDay(tt.day)
		days := DaysInMonth(d)
		if len(days) != tt.want {
			t.Errorf("DaysInMonth(%s) returned %d days, want %d", tt.day, len(days), tt.want)
		}
		if FormatDay(days[0])[8:] != "01" {
			t.Errorf("first day of month is %s", FormatDay(days[0]))
		}
	}
}

func TestWeekdayName(t *testing.T) {
	d, _ := ParseDay("2025-10-27") // a Monday
	if got := WeekdayName(d); got != "monday" {
		t.Errorf("WeekdayName = %q, want monday", got)
	}
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		day  string
		want string
	}{
		{"2025-10-27", "2025-10-27"}, // Monday maps to itself
		{"2025-10-29", "2025-10-27"}, // Wednesday
		{"2025-11-02", "2025-10-27"}, // Sunday belongs to the prior Monday week
	}
	for _, tt := range tests {
		d, _ := ParseDay(tt.day)
		if got := FormatDay(WeekStart(d)); got != tt.want {
			t.Errorf("WeekStart(%s) = %s, want %s", tt.day, got, tt.want)
		}
	}
}
