package backup

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/jmercier/habitflow/internal/habit"
	"github.com/jmercier/habitflow/internal/storage"
)

// Bundles are provider-neutral: a backup taken from a JSON store must
// restore into a SQLite store unchanged.
func TestCrossProviderRestore(t *testing.T) {
	jsonStore := newTestStore(t)
	h := habit.New("h1", habit.Input{
		Name:     "Read",
		Schedule: habit.OnDays(time.Monday, time.Thursday),
	}, time.Date(2025, 1, 1, 12, 0, 0, 0, time.Local))
	h.Complete("2025-01-02")
	h.Complete("2025-01-06")
	if err := jsonStore.SaveHabits([]*habit.Habit{h}); err != nil {
		t.Fatal(err)
	}
	settings := storage.DefaultSettings()
	settings.Theme = "dark"
	if err := jsonStore.SaveSettings(settings); err != nil {
		t.Fatal(err)
	}

	path, err := NewManager(jsonStore).CreateBackup()
	if err != nil {
		t.Fatal(err)
	}

	dbStore := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "habitflow.db"))
	if err := dbStore.Init(); err != nil {
		t.Fatal(err)
	}
	defer dbStore.Close()

	if err := NewManager(dbStore).RestoreBackup(path); err != nil {
		t.Fatalf("cross-provider restore failed: %v", err)
	}

	habits, err := dbStore.LoadHabits()
	if err != nil {
		t.Fatal(err)
	}
	if len(habits) != 1 || habits[0].ID != "h1" {
		t.Fatalf("restored %d habits", len(habits))
	}
	if !habits[0].IsCompletedOn("2025-01-06") {
		t.Error("completions lost crossing providers")
	}
	if habits[0].Schedule.IsDaily() {
		t.Error("schedule lost crossing providers")
	}
	got, err := dbStore.GetSettings()
	if err != nil {
		t.Fatal(err)
	}
	if got.Theme != "dark" {
		t.Errorf("settings theme = %q after restore", got.Theme)
	}
}
