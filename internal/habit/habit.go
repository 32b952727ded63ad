// Package habit holds the habit domain model: the entity itself, its
// schedule variant, and every per-habit derived query (streaks, success
// rates, streak levels).
package habit

import (
	"sort"
	"time"

	"github.com/jmercier/habitflow/internal/dateutil"
)

// StreakLevel classifies the current streak length into a badge tier.
type StreakLevel string

const (
	LevelNone     StreakLevel = "none"
	LevelBronze   StreakLevel = "bronze"
	LevelSilver   StreakLevel = "silver"
	LevelGold     StreakLevel = "gold"
	LevelPlatinum StreakLevel = "platinum"
)

// Habit is one tracked recurring behavior. Completions is a sparse map
// from YYYY-MM-DD day keys to a presence marker: an absent key means
// "not completed", and a key is never stored with the value false.
//
// JSON field names follow the persisted document format, which export
// bundles must stay compatible with.
type Habit struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Icon         string          `json:"icon"`
	Color        string          `json:"color"`
	Schedule     Schedule        `json:"frequency"`
	ReminderTime string          `json:"reminderTime,omitempty"` // HH:MM, empty when unset
	CreatedAt    time.Time       `json:"createdAt"`
	Archived     bool            `json:"archived"`
	Completions  map[string]bool `json:"completions"`
}

// New constructs a habit from validated input. The caller is expected to
// have run Validate first; New does not re-check.
func New(id string, in Input, createdAt time.Time) *Habit {
	icon := in.Icon
	if icon == "" {
		icon = "⭐"
	}
	color := in.Color
	if color == "" {
		color = "#3498db"
	}
	return &Habit{
		ID:           id,
		Name:         in.Name,
		Icon:         icon,
		Color:        color,
		Schedule:     in.Schedule,
		ReminderTime: in.ReminderTime,
		CreatedAt:    createdAt,
		Completions:  make(map[string]bool),
	}
}

// Complete marks the given day as done. Completing an already-completed
// day is a no-op.
func (h *Habit) Complete(day string) {
	if h.Completions == nil {
		h.Completions = make(map[string]bool)
	}
	h.Completions[day] = true
}

// Uncomplete removes the completion marker for the given day. Removing a
// never-completed day is a no-op.
func (h *Habit) Uncomplete(day string) {
	delete(h.Completions, day)
}

// Toggle flips the completion state for the given day and returns the
// resulting state.
func (h *Habit) Toggle(day string) bool {
	if h.IsCompletedOn(day) {
		h.Uncomplete(day)
		return false
	}
	h.Complete(day)
	return true
}

// IsCompletedOn reports whether the given day carries a completion marker.
func (h *Habit) IsCompletedOn(day string) bool {
	return h.Completions[day]
}

// IsActiveOn reports whether the habit is scheduled for the given date.
func (h *Habit) IsActiveOn(t time.Time) bool {
	return h.Schedule.ActiveOn(t)
}

// CurrentStreak counts consecutive completed calendar days walking
// backward from today (or yesterday, when today is not yet completed).
// The count is deliberately schedule-blind: it runs over raw calendar
// days, not active days, matching the displayed behavior.
func (h *Habit) CurrentStreak(today time.Time) int {
	streak := 0
	day := today
	if !h.IsCompletedOn(dateutil.FormatDay(day)) {
		day = dateutil.AddDays(day, -1)
	}
	for h.IsCompletedOn(dateutil.FormatDay(day)) {
		streak++
		day = dateutil.AddDays(day, -1)
	}
	return streak
}

// BestStreak returns the longest run of consecutive completed days ever
// recorded. A run breaks whenever the gap between adjacent completion
// days is not exactly one calendar day.
func (h *Habit) BestStreak() int {
	days := h.CompletionDays()
	if len(days) == 0 {
		return 0
	}

	best, run := 1, 1
	for i := 1; i < len(days); i++ {
		prev, err := dateutil.ParseDay(days[i-1])
		if err != nil {
			continue
		}
		curr, err := dateutil.ParseDay(days[i])
		if err != nil {
			continue
		}
		if dateutil.DaysBetween(prev, curr) == 1 {
			run++
			if run > best {
				best = run
			}
		} else {
			run = 1
		}
	}
	return best
}

// SuccessRate returns the completion percentage over the trailing
// windowDays calendar days ending today. Only days the schedule marks
// active count toward the denominator; a window with no active days
// yields 0.
func (h *Habit) SuccessRate(today time.Time, windowDays int) int {
	completed, total := 0, 0
	for i := 0; i < windowDays; i++ {
		day := dateutil.AddDays(today, -i)
		if !h.IsActiveOn(day) {
			continue
		}
		total++
		if h.IsCompletedOn(dateutil.FormatDay(day)) {
			completed++
		}
	}
	if total == 0 {
		return 0
	}
	return roundPercent(completed, total)
}

// TotalCompletions returns the number of completed days on record.
func (h *Habit) TotalCompletions() int {
	return len(h.Completions)
}

// CompletionDays returns every completed day key, sorted ascending.
func (h *Habit) CompletionDays() []string {
	days := make([]string, 0, len(h.Completions))
	for day, done := range h.Completions {
		if done {
			days = append(days, day)
		}
	}
	sort.Strings(days)
	return days
}

// LastCompletionDay returns the most recent completed day key, or ""
// when nothing has been completed yet.
func (h *Habit) LastCompletionDay() string {
	days := h.CompletionDays()
	if len(days) == 0 {
		return ""
	}
	return days[len(days)-1]
}

// IsStreakInDanger reports whether a streak of three or more days is
// about to break: today is active, not yet completed, and the streak is
// still running.
func (h *Habit) IsStreakInDanger(today time.Time) bool {
	return h.CurrentStreak(today) >= 3 &&
		!h.IsCompletedOn(dateutil.FormatDay(today)) &&
		h.IsActiveOn(today)
}

// IsRecordStreak reports whether the running streak equals the best
// streak ever recorded.
func (h *Habit) IsRecordStreak(today time.Time) bool {
	current := h.CurrentStreak(today)
	return current > 0 && current == h.BestStreak()
}

// StreakLevel buckets the current streak: 0 none, 1-6 bronze, 7-29
// silver, 30-99 gold, 100+ platinum.
func (h *Habit) StreakLevel(today time.Time) StreakLevel {
	streak := h.CurrentStreak(today)
	switch {
	case streak == 0:
		return LevelNone
	case streak < 7:
		return LevelBronze
	case streak < 30:
		return LevelSilver
	case streak < 100:
		return LevelGold
	default:
		return LevelPlatinum
	}
}

// MonthStats summarizes one habit's month: how many days it was active,
// how many of those were completed, and the resulting percentage.
type MonthStats struct {
	Completed  int
	Active     int
	TotalDays  int
	Percentage int
}

// MonthStatsFor aggregates the habit over every day of t's month.
func (h *Habit) MonthStatsFor(t time.Time) MonthStats {
	days := dateutil.DaysInMonth(t)
	stats := MonthStats{TotalDays: len(days)}
	for _, day := range days {
		if !h.IsActiveOn(day) {
			continue
		}
		stats.Active++
		if h.IsCompletedOn(dateutil.FormatDay(day)) {
			stats.Completed++
		}
	}
	if stats.Active > 0 {
		stats.Percentage = roundPercent(stats.Completed, stats.Active)
	}
	return stats
}

// Clone returns a deep copy of the habit.
func (h *Habit) Clone() *Habit {
	dup := *h
	dup.Schedule.Days = append([]time.Weekday(nil), h.Schedule.Days...)
	dup.Completions = make(map[string]bool, len(h.Completions))
	for day, done := range h.Completions {
		dup.Completions[day] = done
	}
	return &dup
}

// ResetCompletions drops the full completion history.
func (h *Habit) ResetCompletions() {
	h.Completions = make(map[string]bool)
}

func roundPercent(part, total int) int {
	return int(float64(part)/float64(total)*100 + 0.5)
}
