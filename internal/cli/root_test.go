package cli

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jmercier/habitflow/internal/habit"
	"github.com/jmercier/habitflow/internal/manager"
	"github.com/jmercier/habitflow/internal/storage"
)

var fixedNow = time.Date(2025, 6, 18, 14, 30, 0, 0, time.Local)

func newTestManager(t *testing.T) *manager.Manager {
	t.Helper()
	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "habitflow.json"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := store.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	m, err := manager.New(store, manager.WithClock(func() time.Time { return fixedNow }))
	if err != nil {
		t.Fatalf("manager.New failed: %v", err)
	}
	return m
}

func mustCreate(t *testing.T, m *manager.Manager, name string) *habit.Habit {
	t.Helper()
	h, err := m.Create(habit.Input{Name: name, Schedule: habit.Daily()})
	if err != nil {
		t.Fatalf("Create(%q) failed: %v", name, err)
	}
	return h
}

func TestFindHabitByID(t *testing.T) {
	m := newTestManager(t)
	h := mustCreate(t, m, "Read")
	mustCreate(t, m, "Run")

	got, err := findHabit(m, h.ID)
	if err != nil {
		t.Fatalf("findHabit by ID failed: %v", err)
	}
	if got.ID != h.ID {
		t.Errorf("resolved %q, want %q", got.ID, h.ID)
	}
}

func TestFindHabitByIDPrefix(t *testing.T) {
	m := newTestManager(t)
	h := mustCreate(t, m, "Read")

	got, err := findHabit(m, h.ID[:8])
	if err != nil {
		t.Fatalf("findHabit by prefix failed: %v", err)
	}
	if got.ID != h.ID {
		t.Errorf("resolved %q, want %q", got.ID, h.ID)
	}
}

func TestFindHabitByName(t *testing.T) {
	m := newTestManager(t)
	h := mustCreate(t, m, "Read a book")
	mustCreate(t, m, "Meditate")

	got, err := findHabit(m, "read a book")
	if err != nil {
		t.Fatalf("findHabit by exact name failed: %v", err)
	}
	if got.ID != h.ID {
		t.Errorf("resolved %q, want %q", got.Name, h.Name)
	}

	got, err = findHabit(m, "medit")
	if err != nil {
		t.Fatalf("findHabit by substring failed: %v", err)
	}
	if got.Name != "Meditate" {
		t.Errorf("resolved %q, want Meditate", got.Name)
	}
}

func TestFindHabitAmbiguousName(t *testing.T) {
	m := newTestManager(t)
	mustCreate(t, m, "Morning run")
	mustCreate(t, m, "Evening run")

	_, err := findHabit(m, "run")
	if err == nil {
		t.Fatal("expected ambiguity error")
	}
	if !strings.Contains(err.Error(), "ambiguous") {
		t.Errorf("error %q should mention ambiguity", err)
	}
}

func TestFindHabitNoMatch(t *testing.T) {
	m := newTestManager(t)
	mustCreate(t, m, "Read")

	if _, err := findHabit(m, "nonexistent"); err == nil {
		t.Fatal("expected no-match error")
	}
}

func TestResolveDay(t *testing.T) {
	m := newTestManager(t)

	day, err := resolveDay(m, "")
	if err != nil {
		t.Fatalf("resolveDay default failed: %v", err)
	}
	if day != "2025-06-18" {
		t.Errorf("default day = %q, want 2025-06-18", day)
	}

	day, err = resolveDay(m, "2025-01-02")
	if err != nil {
		t.Fatalf("resolveDay explicit failed: %v", err)
	}
	if day != "2025-01-02" {
		t.Errorf("explicit day = %q, want 2025-01-02", day)
	}

	if _, err := resolveDay(m, "not-a-date"); err == nil {
		t.Error("expected parse error for invalid date")
	}
}

func TestCheckmark(t *testing.T) {
	if got := checkmark(true); got != "✓" {
		t.Errorf("checkmark(true) = %q", got)
	}
	if got := checkmark(false); got != "·" {
		t.Errorf("checkmark(false) = %q", got)
	}
}
