package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmercier/habitflow/internal/habit"
)

func newTestJSONStore(t *testing.T) *JSONStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "habitflow.json")
	s := NewJSONStore(path)
	if err := s.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return s
}

func sampleHabit(id, name string) *habit.Habit {
	h := habit.New(id, habit.Input{Name: name}, time.Date(2025, 1, 1, 12, 0, 0, 0, time.Local))
	h.Complete("2025-01-02")
	h.Complete("2025-01-03")
	return h
}

func TestJSONStore_InitCreatesDefaults(t *testing.T) {
	s := newTestJSONStore(t)

	settings, err := s.GetSettings()
	if err != nil {
		t.Fatal(err)
	}
	if settings != DefaultSettings() {
		t.Errorf("fresh store settings = %+v, want defaults", settings)
	}

	habits, err := s.LoadHabits()
	if err != nil {
		t.Fatal(err)
	}
	if len(habits) != 0 {
		t.Errorf("fresh store has %d habits", len(habits))
	}
}

func TestJSONStore_InitTwiceFails(t *testing.T) {
	s := newTestJSONStore(t)
	if err := s.Init(); err == nil {
		t.Error("second Init should fail")
	}
}

func TestJSONStore_LoadMissingFile(t *testing.T) {
	s := NewJSONStore(filepath.Join(t.TempDir(), "absent.json"))
	if err := s.Load(); err == nil {
		t.Error("Load of missing store should fail")
	}
}

func TestJSONStore_SaveLoadRoundTrip(t *testing.T) {
	s := newTestJSONStore(t)

	want := []*habit.Habit{sampleHabit("h1", "Read"), sampleHabit("h2", "Gym")}
	want[1].Schedule = habit.OnDays(time.Monday, time.Thursday)
	want[1].Archived = true
	if err := s.SaveHabits(want); err != nil {
		t.Fatal(err)
	}

	reopened := NewJSONStore(s.GetConfigPath())
	if err := reopened.Load(); err != nil {
		t.Fatal(err)
	}
	got, err := reopened.LoadHabits()
	if err != nil {
		t.Fatal(err)
	}

	if len(got) != 2 {
		t.Fatalf("loaded %d habits, want 2", len(got))
	}
	if got[0].ID != "h1" || got[1].ID != "h2" {
		t.Errorf("insertion order not preserved: %s, %s", got[0].ID, got[1].ID)
	}
	if !got[0].IsCompletedOn("2025-01-02") {
		t.Error("completion lost in round trip")
	}
	if !got[1].Archived {
		t.Error("archived flag lost in round trip")
	}
	if got[1].Schedule.IsDaily() {
		t.Error("weekday schedule lost in round trip")
	}
}

func TestJSONStore_LoadHabitsReturnsCopies(t *testing.T) {
	s := newTestJSONStore(t)
	if err := s.SaveHabits([]*habit.Habit{sampleHabit("h1", "Read")}); err != nil {
		t.Fatal(err)
	}

	first, _ := s.LoadHabits()
	first[0].Complete("2025-06-01")

	second, _ := s.LoadHabits()
	if second[0].IsCompletedOn("2025-06-01") {
		t.Error("mutating a loaded habit leaked into the store")
	}
}

func TestJSONStore_SettingsMigrationFillsMissingKeys(t *testing.T) {
	// Write an old-version document whose settings predate several keys.
	path := filepath.Join(t.TempDir(), "habitflow.json")
	old := map[string]any{
		"version":  0,
		"settings": map[string]any{"theme": "dark", "notifications": false},
		"habits":   []any{},
	}
	data, _ := json.Marshal(old)
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatal(err)
	}

	s := NewJSONStore(path)
	if err := s.Load(); err != nil {
		t.Fatal(err)
	}

	settings, err := s.GetSettings()
	if err != nil {
		t.Fatal(err)
	}
	// Stored values win.
	if settings.Theme != "dark" || settings.Notifications {
		t.Errorf("stored settings overridden: %+v", settings)
	}
	// Missing keys picked up defaults.
	if settings.DailyReminderTime != "20:00" || settings.WeekStartsOn != "monday" {
		t.Errorf("missing settings not defaulted: %+v", settings)
	}

	// The migration is durable: a fresh load sees the merged settings
	// without re-running it.
	again := NewJSONStore(path)
	if err := again.Load(); err != nil {
		t.Fatal(err)
	}
	migrated, _ := again.GetSettings()
	if migrated != settings {
		t.Errorf("migrated settings not persisted: %+v vs %+v", migrated, settings)
	}
}

func TestJSONStore_Reset(t *testing.T) {
	s := newTestJSONStore(t)
	if err := s.SaveHabits([]*habit.Habit{sampleHabit("h1", "Read")}); err != nil {
		t.Fatal(err)
	}
	custom := DefaultSettings()
	custom.Theme = "dark"
	custom.FirstLaunch = false
	if err := s.SaveSettings(custom); err != nil {
		t.Fatal(err)
	}

	if err := s.Reset(); err != nil {
		t.Fatal(err)
	}

	habits, _ := s.LoadHabits()
	if len(habits) != 0 {
		t.Errorf("reset left %d habits", len(habits))
	}
	settings, _ := s.GetSettings()
	if settings != DefaultSettings() {
		t.Errorf("reset settings = %+v, want defaults", settings)
	}
}

func TestJSONStore_FingerprintChangesOnWrite(t *testing.T) {
	s := newTestJSONStore(t)
	before, err := s.Fingerprint()
	if err != nil {
		t.Fatal(err)
	}

	// Filesystem mtime granularity can be coarse.
	time.Sleep(10 * time.Millisecond)
	if err := s.SaveHabits([]*habit.Habit{sampleHabit("h1", "Read")}); err != nil {
		t.Fatal(err)
	}

	after, err := s.Fingerprint()
	if err != nil {
		t.Fatal(err)
	}
	if before == after {
		t.Error("fingerprint unchanged after a write")
	}
}
