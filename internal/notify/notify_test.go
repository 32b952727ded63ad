package notify

import (
	"bytes"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jmercier/habitflow/internal/habit"
	"github.com/jmercier/habitflow/internal/manager"
	"github.com/jmercier/habitflow/internal/storage"
)

var fixedNow = time.Date(2025, 6, 18, 14, 30, 0, 0, time.Local)

// recorder captures notifications for assertions.
type recorder struct {
	mu    sync.Mutex
	sent  []string
}

func (r *recorder) Notify(title, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, title+": "+body)
	return nil
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

func (r *recorder) last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.sent) == 0 {
		return ""
	}
	return r.sent[len(r.sent)-1]
}

func newTestManager(t *testing.T) *manager.Manager {
	t.Helper()
	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "habitflow.json"))
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}
	m, err := manager.New(store, manager.WithClock(func() time.Time { return fixedNow }))
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestConsoleNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := &ConsoleNotifier{Out: &buf}
	if err := n.Notify("Hello", "world"); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "Hello") || !strings.Contains(out, "world") {
		t.Errorf("output = %q", out)
	}
}

func TestNextFireDelay(t *testing.T) {
	now := time.Date(2025, 6, 18, 14, 30, 0, 0, time.Local)

	// Later today.
	delay, err := NextFireDelay(now, "20:00")
	if err != nil {
		t.Fatal(err)
	}
	if delay != 5*time.Hour+30*time.Minute {
		t.Errorf("delay = %v, want 5h30m", delay)
	}

	// Already past: tomorrow.
	delay, err = NextFireDelay(now, "08:00")
	if err != nil {
		t.Fatal(err)
	}
	if delay != 17*time.Hour+30*time.Minute {
		t.Errorf("delay = %v, want 17h30m", delay)
	}

	// Exactly now rolls to tomorrow too.
	delay, err = NextFireDelay(now, "14:30")
	if err != nil {
		t.Fatal(err)
	}
	if delay != 24*time.Hour {
		t.Errorf("delay = %v, want 24h", delay)
	}

	if _, err := NextFireDelay(now, "25:99"); err == nil {
		t.Error("invalid time accepted")
	}
}

func TestMilestoneMessage(t *testing.T) {
	for _, streak := range []int{7, 21, 30, 50, 100} {
		if MilestoneMessage(streak) == "" {
			t.Errorf("no message for milestone %d", streak)
		}
	}
	for _, streak := range []int{0, 1, 6, 8, 99} {
		if MilestoneMessage(streak) != "" {
			t.Errorf("unexpected message for streak %d", streak)
		}
	}
}

func TestMotivationalMessage_CoversAllLevels(t *testing.T) {
	levels := []habit.StreakLevel{
		habit.LevelNone, habit.LevelBronze, habit.LevelSilver,
		habit.LevelGold, habit.LevelPlatinum,
	}
	seen := make(map[string]bool)
	for _, level := range levels {
		msg := MotivationalMessage(level)
		if msg == "" {
			t.Errorf("no message for level %v", level)
		}
		if seen[msg] {
			t.Errorf("duplicate message for level %v", level)
		}
		seen[msg] = true
	}
}

func TestDailyBody(t *testing.T) {
	if got := DailyBody(0, 0); !strings.Contains(got, "No habits") {
		t.Errorf("empty day body = %q", got)
	}
	if got := DailyBody(3, 3); !strings.Contains(got, "Perfect") {
		t.Errorf("perfect day body = %q", got)
	}
	if got := DailyBody(1, 3); !strings.Contains(got, "1 of 3") {
		t.Errorf("partial day body = %q", got)
	}
}

func TestScheduler_ArmsHabitReminders(t *testing.T) {
	m := newTestManager(t)
	if _, err := m.Create(habit.Input{Name: "Read", ReminderTime: "21:00"}); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Create(habit.Input{Name: "Silent"}); err != nil {
		t.Fatal(err)
	}

	s := NewScheduler(m, &recorder{})
	defer s.Stop()
	s.Rearm()

	s.mu.Lock()
	armed := len(s.timers)
	s.mu.Unlock()
	// One habit timer plus the daily reminder from default settings.
	if armed != 2 {
		t.Errorf("armed %d timers, want 2", armed)
	}
}

func TestScheduler_NotificationsOffArmsNothing(t *testing.T) {
	m := newTestManager(t)
	if _, err := m.Create(habit.Input{Name: "Read", ReminderTime: "21:00"}); err != nil {
		t.Fatal(err)
	}
	if err := m.UpdateSetting("notifications", "false"); err != nil {
		t.Fatal(err)
	}

	s := NewScheduler(m, &recorder{})
	defer s.Stop()
	s.Rearm()

	s.mu.Lock()
	armed := len(s.timers)
	s.mu.Unlock()
	if armed != 0 {
		t.Errorf("armed %d timers with notifications off", armed)
	}
}

func TestScheduler_RearmsOnHabitChange(t *testing.T) {
	m := newTestManager(t)
	s := NewScheduler(m, &recorder{})
	defer s.Stop()
	s.Start()

	if _, err := m.Create(habit.Input{Name: "Read", ReminderTime: "21:00"}); err != nil {
		t.Fatal(err)
	}

	s.mu.Lock()
	armed := len(s.timers)
	s.mu.Unlock()
	if armed != 2 {
		t.Errorf("armed %d timers after create, want 2", armed)
	}
}

func TestScheduler_FireHabitSkipsCompleted(t *testing.T) {
	m := newTestManager(t)
	h, err := m.Create(habit.Input{Name: "Read", ReminderTime: "21:00"})
	if err != nil {
		t.Fatal(err)
	}

	rec := &recorder{}
	s := NewScheduler(m, rec)
	defer s.Stop()

	s.fireHabit(h.ID)
	if rec.count() != 1 {
		t.Fatalf("uncompleted habit did not notify (count=%d)", rec.count())
	}

	if err := m.Complete(h.ID, m.Today()); err != nil {
		t.Fatal(err)
	}
	s.fireHabit(h.ID)
	if rec.count() != 1 {
		t.Error("completed habit still notified")
	}
}

func TestScheduler_FireDaily(t *testing.T) {
	m := newTestManager(t)
	h, err := m.Create(habit.Input{Name: "Read"})
	if err != nil {
		t.Fatal(err)
	}

	rec := &recorder{}
	s := NewScheduler(m, rec)
	defer s.Stop()

	s.fireDaily()
	if rec.count() != 1 {
		t.Fatalf("daily reminder did not fire (count=%d)", rec.count())
	}

	// A perfect day stays quiet.
	if err := m.Complete(h.ID, m.Today()); err != nil {
		t.Fatal(err)
	}
	s.fireDaily()
	if rec.count() != 1 {
		t.Error("daily reminder fired on a perfect day")
	}
}

func TestScheduler_AnnounceMilestone(t *testing.T) {
	m := newTestManager(t)
	h, err := m.Create(habit.Input{Name: "Read"})
	if err != nil {
		t.Fatal(err)
	}
	// 7-day streak ending today.
	for i := 0; i < 7; i++ {
		day := fixedNow.AddDate(0, 0, -i).Format("2006-01-02")
		if err := m.Complete(h.ID, day); err != nil {
			t.Fatal(err)
		}
	}

	rec := &recorder{}
	s := NewScheduler(m, rec)
	defer s.Stop()

	s.AnnounceMilestone(h.ID)
	if rec.count() != 1 || !strings.Contains(rec.last(), "week") {
		t.Errorf("milestone announcement = %q", rec.last())
	}

	// Off-milestone streaks stay quiet.
	if err := m.Complete(h.ID, "2025-06-11"); err != nil {
		t.Fatal(err)
	}
	s.AnnounceMilestone(h.ID)
	if rec.count() != 1 {
		t.Error("non-milestone streak announced")
	}
}

func TestScheduler_AnnounceDanger(t *testing.T) {
	m := newTestManager(t)
	h, err := m.Create(habit.Input{Name: "Read"})
	if err != nil {
		t.Fatal(err)
	}
	// 3-day streak ending yesterday, today untouched.
	for i := 1; i <= 3; i++ {
		day := fixedNow.AddDate(0, 0, -i).Format("2006-01-02")
		if err := m.Complete(h.ID, day); err != nil {
			t.Fatal(err)
		}
	}

	rec := &recorder{}
	s := NewScheduler(m, rec)
	defer s.Stop()

	if n := s.AnnounceDanger(); n != 1 {
		t.Fatalf("danger count = %d, want 1", n)
	}
	if !strings.Contains(rec.last(), "3-day streak") {
		t.Errorf("danger message = %q", rec.last())
	}
}
