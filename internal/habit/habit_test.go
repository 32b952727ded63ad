package habit

import (
	"testing"
	"time"

	"github.com/jmercier/habitflow/internal/dateutil"
)

func day(t *testing.T, key string) time.Time {
	t.Helper()
	d, err := dateutil.ParseDay(key)
	if err != nil {
		t.Fatalf("bad test day %q: %v", key, err)
	}
	return d
}

func newTestHabit() *Habit {
	return New("h1", Input{Name: "Read"}, time.Now())
}

func TestToggle_Involution(t *testing.T) {
	h := newTestHabit()
	h.Complete("2025-01-10")

	for _, key := range []string{"2025-01-10", "2025-01-11"} {
		before := h.IsCompletedOn(key)
		h.Toggle(key)
		h.Toggle(key)
		if h.IsCompletedOn(key) != before {
			t.Errorf("double toggle on %s changed state", key)
		}
	}
}

func TestToggle_ReturnsNewState(t *testing.T) {
	h := newTestHabit()
	if got := h.Toggle("2025-01-01"); !got {
		t.Error("toggle of absent day should return true")
	}
	if got := h.Toggle("2025-01-01"); got {
		t.Error("toggle of completed day should return false")
	}
}

func TestUncomplete_NeverCompletedIsNoOp(t *testing.T) {
	h := newTestHabit()
	h.Complete("2025-01-01")

	h.Uncomplete("2025-01-02")

	if len(h.Completions) != 1 {
		t.Errorf("completions changed: %v", h.Completions)
	}
}

func TestUncomplete_RemovesKeyEntirely(t *testing.T) {
	h := newTestHabit()
	h.Complete("2025-01-01")
	h.Uncomplete("2025-01-01")

	if _, present := h.Completions["2025-01-01"]; present {
		t.Error("uncomplete must delete the key, not store false")
	}
}

func TestComplete_Idempotent(t *testing.T) {
	h := newTestHabit()
	h.Complete("2025-01-01")
	h.Complete("2025-01-01")
	if h.TotalCompletions() != 1 {
		t.Errorf("TotalCompletions = %d, want 1", h.TotalCompletions())
	}
}

func TestBestStreak(t *testing.T) {
	tests := []struct {
		name string
		days []string
		want int
	}{
		{"empty", nil, 0},
		{"single", []string{"2025-01-01"}, 1},
		{"three consecutive", []string{"2025-01-01", "2025-01-02", "2025-01-03"}, 3},
		{"gap resets", []string{"2025-01-01", "2025-01-03"}, 1},
		{"across month boundary", []string{"2025-01-30", "2025-01-31", "2025-02-01"}, 3},
		{"best in the middle", []string{"2025-01-01", "2025-01-05", "2025-01-06", "2025-01-07", "2025-01-10"}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHabit()
			for _, d := range tt.days {
				h.Complete(d)
			}
			if got := h.BestStreak(); got != tt.want {
				t.Errorf("BestStreak = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCurrentStreak_WalksBackFromToday(t *testing.T) {
	today := day(t, "2025-01-10")
	h := newTestHabit()
	h.Complete("2025-01-08")
	h.Complete("2025-01-09")
	h.Complete("2025-01-10")

	if got := h.CurrentStreak(today); got != 3 {
		t.Errorf("CurrentStreak = %d, want 3", got)
	}
}

func TestCurrentStreak_FallsBackToYesterday(t *testing.T) {
	today := day(t, "2025-01-10")
	h := newTestHabit()
	h.Complete("2025-01-08")
	h.Complete("2025-01-09")

	// Today not yet completed: the streak is still alive from yesterday.
	if got := h.CurrentStreak(today); got != 2 {
		t.Errorf("CurrentStreak = %d, want 2", got)
	}
}

func TestCurrentStreak_BrokenByGap(t *testing.T) {
	today := day(t, "2025-01-10")
	h := newTestHabit()
	h.Complete("2025-01-07")
	h.Complete("2025-01-08")

	if got := h.CurrentStreak(today); got != 0 {
		t.Errorf("CurrentStreak = %d, want 0", got)
	}
}

func TestCurrentStreak_IgnoresSchedule(t *testing.T) {
	// A Mondays-only habit still counts streaks over raw calendar days.
	today := day(t, "2025-01-08") // Wednesday
	h := New("h1", Input{Name: "Gym", Schedule: OnDays(time.Monday)}, time.Now())
	h.Complete("2025-01-06") // Monday
	h.Complete("2025-01-07")
	h.Complete("2025-01-08")

	if got := h.CurrentStreak(today); got != 3 {
		t.Errorf("CurrentStreak = %d, want 3 (schedule-blind)", got)
	}
}

func TestSuccessRate_OnlyActiveDaysCount(t *testing.T) {
	// 2025-01-12 is a Sunday; the trailing 7 days contain exactly one
	// Monday (2025-01-06).
	today := day(t, "2025-01-12")
	h := New("h1", Input{Name: "Gym", Schedule: OnDays(time.Monday)}, time.Now())
	h.Complete("2025-01-06")

	if got := h.SuccessRate(today, 7); got != 100 {
		t.Errorf("SuccessRate = %d, want 100", got)
	}
}

func TestSuccessRate_NoActiveDaysReturnsZero(t *testing.T) {
	// Window is Tue..Sun, habit runs only on Mondays.
	today := day(t, "2025-01-12") // Sunday
	h := New("h1", Input{Name: "Gym", Schedule: OnDays(time.Monday)}, time.Now())

	if got := h.SuccessRate(today, 6); got != 0 {
		t.Errorf("SuccessRate with no active days = %d, want 0", got)
	}
}

func TestSuccessRate_Daily(t *testing.T) {
	today := day(t, "2025-01-10")
	h := newTestHabit()
	h.Complete("2025-01-10")
	h.Complete("2025-01-09")
	h.Complete("2025-01-08")

	if got := h.SuccessRate(today, 10); got != 30 {
		t.Errorf("SuccessRate = %d, want 30", got)
	}
}

func TestStreakLevel_Boundaries(t *testing.T) {
	tests := []struct {
		streak int
		want   StreakLevel
	}{
		{0, LevelNone},
		{1, LevelBronze},
		{6, LevelBronze},
		{7, LevelSilver},
		{29, LevelSilver},
		{30, LevelGold},
		{99, LevelGold},
		{100, LevelPlatinum},
	}
	today := day(t, "2025-12-31")
	for _, tt := range tests {
		h := newTestHabit()
		for i := 0; i < tt.streak; i++ {
			h.Complete(dateutil.FormatDay(dateutil.AddDays(today, -i)))
		}
		if got := h.StreakLevel(today); got != tt.want {
			t.Errorf("streak %d: level = %s, want %s", tt.streak, got, tt.want)
		}
	}
}

func TestIsStreakInDanger(t *testing.T) {
	today := day(t, "2025-01-10")

	h := newTestHabit()
	for _, d := range []string{"2025-01-07", "2025-01-08", "2025-01-09"} {
		h.Complete(d)
	}
	if !h.IsStreakInDanger(today) {
		t.Error("streak of 3 with today incomplete should be in danger")
	}

	h.Complete("2025-01-10")
	if h.IsStreakInDanger(today) {
		t.Error("completed today: not in danger")
	}

	short := newTestHabit()
	short.Complete("2025-01-08")
	short.Complete("2025-01-09")
	if short.IsStreakInDanger(today) {
		t.Error("streak below 3 is never in danger")
	}
}

func TestIsStreakInDanger_InactiveDay(t *testing.T) {
	today := day(t, "2025-01-08") // Wednesday
	h := New("h1", Input{Name: "Gym", Schedule: OnDays(time.Monday)}, time.Now())
	for _, d := range []string{"2025-01-05", "2025-01-06", "2025-01-07"} {
		h.Complete(d)
	}
	if h.IsStreakInDanger(today) {
		t.Error("inactive day cannot endanger a streak")
	}
}

func TestIsActiveOn(t *testing.T) {
	monday := day(t, "2025-01-06")
	tuesday := day(t, "2025-01-07")

	daily := newTestHabit()
	if !daily.IsActiveOn(monday) || !daily.IsActiveOn(tuesday) {
		t.Error("daily habit must be active every day")
	}

	mondays := New("h2", Input{Name: "Gym", Schedule: OnDays(time.Monday)}, time.Now())
	if !mondays.IsActiveOn(monday) {
		t.Error("Mondays habit should be active on Monday")
	}
	if mondays.IsActiveOn(tuesday) {
		t.Error("Mondays habit should not be active on Tuesday")
	}
}

func TestScenario_ReadEveryDay(t *testing.T) {
	h := New("h1", Input{Name: "Read"}, time.Now())
	h.Complete("2025-01-01")
	h.Complete("2025-01-02")
	h.Complete("2025-01-04")

	if got := h.BestStreak(); got != 2 {
		t.Errorf("BestStreak = %d, want 2", got)
	}
	if got := h.TotalCompletions(); got != 3 {
		t.Errorf("TotalCompletions = %d, want 3", got)
	}
}

func TestLastCompletionDay(t *testing.T) {
	h := newTestHabit()
	if got := h.LastCompletionDay(); got != "" {
		t.Errorf("empty habit: LastCompletionDay = %q, want empty", got)
	}
	h.Complete("2025-01-05")
	h.Complete("2025-01-02")
	if got := h.LastCompletionDay(); got != "2025-01-05" {
		t.Errorf("LastCompletionDay = %q, want 2025-01-05", got)
	}
}

func TestIsRecordStreak(t *testing.T) {
	today := day(t, "2025-01-10")
	h := newTestHabit()
	h.Complete("2025-01-09")
	h.Complete("2025-01-10")
	if !h.IsRecordStreak(today) {
		t.Error("running streak equal to best should be a record")
	}

	h.Complete("2025-01-01")
	h.Complete("2025-01-02")
	h.Complete("2025-01-03")
	if h.IsRecordStreak(today) {
		t.Error("older longer run means the current streak is not a record")
	}
}

func TestMonthStatsFor(t *testing.T) {
	anchor := day(t, "2025-01-15")
	h := New("h1", Input{Name: "Gym", Schedule: OnDays(time.Monday)}, time.Now())
	// January 2025 Mondays: 6, 13, 20, 27.
	h.Complete("2025-01-06")
	h.Complete("2025-01-13")

	stats := h.MonthStatsFor(anchor)
	if stats.Active != 4 {
		t.Errorf("Active = %d, want 4", stats.Active)
	}
	if stats.Completed != 2 {
		t.Errorf("Completed = %d, want 2", stats.Completed)
	}
	if stats.TotalDays != 31 {
		t.Errorf("TotalDays = %d, want 31", stats.TotalDays)
	}
	if stats.Percentage != 50 {
		t.Errorf("Percentage = %d, want 50", stats.Percentage)
	}
}

func TestClone_Independent(t *testing.T) {
	h := newTestHabit()
	h.Complete("2025-01-01")

	dup := h.Clone()
	dup.Complete("2025-01-02")
	dup.Name = "Changed"

	if h.TotalCompletions() != 1 || h.Name != "Read" {
		t.Error("mutating the clone leaked into the original")
	}
}
