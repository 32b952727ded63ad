package habit

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type ScheduleKind int

const (
	// ScheduleDaily means the habit is active every calendar day.
	ScheduleDaily ScheduleKind = iota
	// ScheduleWeekdays means the habit is active only on an explicit set
	// of weekdays.
	ScheduleWeekdays
)

// Schedule describes on which days a habit is supposed to be performed.
// The zero value is the daily schedule.
//
// The wire form matches the persisted document format: the string
// "daily", or an array of lower-case weekday names.
type Schedule struct {
	Kind ScheduleKind
	Days []time.Weekday
}

// Daily returns the every-day schedule.
func Daily() Schedule {
	return Schedule{Kind: ScheduleDaily}
}

// OnDays returns a schedule restricted to the given weekdays.
func OnDays(days ...time.Weekday) Schedule {
	return Schedule{Kind: ScheduleWeekdays, Days: days}
}

// IsDaily reports whether the schedule covers every day.
func (s Schedule) IsDaily() bool {
	return s.Kind == ScheduleDaily
}

// ActiveOn reports whether the schedule includes the given date's weekday.
func (s Schedule) ActiveOn(t time.Time) bool {
	if s.Kind == ScheduleDaily {
		return true
	}
	for _, d := range s.Days {
		if d == t.Weekday() {
			return true
		}
	}
	return false
}

func (s Schedule) String() string {
	if s.Kind == ScheduleDaily {
		return "daily"
	}
	names := make([]string, len(s.Days))
	for i, d := range s.Days {
		names[i] = strings.ToLower(d.String())
	}
	return strings.Join(names, ",")
}

func (s Schedule) MarshalJSON() ([]byte, error) {
	if s.Kind == ScheduleDaily {
		return json.Marshal("daily")
	}
	names := make([]string, len(s.Days))
	for i, d := range s.Days {
		names[i] = strings.ToLower(d.String())
	}
	return json.Marshal(names)
}

func (s *Schedule) UnmarshalJSON(data []byte) error {
	var sentinel string
	if err := json.Unmarshal(data, &sentinel); err == nil {
		if strings.ToLower(sentinel) != "daily" {
			return fmt.Errorf("unknown schedule %q", sentinel)
		}
		*s = Daily()
		return nil
	}

	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return fmt.Errorf("schedule must be %q or a weekday array", "daily")
	}
	days, err := ParseWeekdays(names)
	if err != nil {
		return err
	}
	*s = Schedule{Kind: ScheduleWeekdays, Days: days}
	return nil
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sun":       time.Sunday,
	"mon":       time.Monday,
	"tue":       time.Tuesday,
	"wed":       time.Wednesday,
	"thu":       time.Thursday,
	"fri":       time.Friday,
	"sat":       time.Saturday,
}

// ParseWeekdays converts weekday names (full or three-letter,
// case-insensitive) into weekday values, rejecting unrecognized names
// and deduplicating repeats.
func ParseWeekdays(names []string) ([]time.Weekday, error) {
	var days []time.Weekday
	seen := make(map[time.Weekday]bool)
	for _, name := range names {
		wd, ok := weekdayNames[strings.TrimSpace(strings.ToLower(name))]
		if !ok {
			return nil, fmt.Errorf("invalid weekday: %s", name)
		}
		if seen[wd] {
			continue
		}
		seen[wd] = true
		days = append(days, wd)
	}
	return days, nil
}

// ParseSchedule parses the CLI/form representation of a schedule:
// "daily" or a comma-separated weekday list.
func ParseSchedule(s string) (Schedule, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "daily") {
		return Daily(), nil
	}
	days, err := ParseWeekdays(strings.Split(s, ","))
	if err != nil {
		return Schedule{}, err
	}
	if len(days) == 0 {
		return Schedule{}, fmt.Errorf("schedule must list at least one weekday")
	}
	return Schedule{Kind: ScheduleWeekdays, Days: days}, nil
}
