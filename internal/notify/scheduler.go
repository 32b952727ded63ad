package notify

import (
	"fmt"
	"sync"
	"time"

	"github.com/jmercier/habitflow/internal/logger"
	"github.com/jmercier/habitflow/internal/manager"
)

const dailyTimerKey = "daily"

// Scheduler arms single-shot reminder timers from habit reminder times
// and the daily reminder setting. Each timer re-arms itself for the
// next day after firing. Habit mutations re-arm the affected timers
// through the manager's event stream.
type Scheduler struct {
	m        *manager.Manager
	notifier Notifier

	mu      sync.Mutex
	timers  map[string]*time.Timer
	stopped bool

	unsubscribe func()
}

func NewScheduler(m *manager.Manager, n Notifier) *Scheduler {
	return &Scheduler{
		m:        m,
		notifier: n,
		timers:   make(map[string]*time.Timer),
	}
}

// Start arms every reminder and begins tracking habit changes.
func (s *Scheduler) Start() {
	s.unsubscribe = s.m.Subscribe(func(e manager.Event) {
		switch e.Type {
		case manager.EventAdd, manager.EventUpdate, manager.EventDelete,
			manager.EventArchive, manager.EventUnarchive, manager.EventLoad, manager.EventReset:
			s.Rearm()
		}
	})
	s.Rearm()
}

// Stop cancels all timers. The scheduler cannot be restarted.
func (s *Scheduler) Stop() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	for _, t := range s.timers {
		t.Stop()
	}
	s.timers = make(map[string]*time.Timer)
}

// Rearm drops every timer and arms fresh ones from current state.
func (s *Scheduler) Rearm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	for _, t := range s.timers {
		t.Stop()
	}
	s.timers = make(map[string]*time.Timer)

	now := s.m.Now()
	settings := s.m.Settings()
	if !settings.Notifications {
		return
	}

	if settings.DailyReminderTime != "" {
		if delay, err := NextFireDelay(now, settings.DailyReminderTime); err == nil {
			s.timers[dailyTimerKey] = time.AfterFunc(delay, s.fireDaily)
		}
	}

	for _, h := range s.m.ActiveHabits() {
		if h.ReminderTime == "" {
			continue
		}
		delay, err := NextFireDelay(now, h.ReminderTime)
		if err != nil {
			logger.Warn("invalid reminder time", "habit", h.Name, "time", h.ReminderTime)
			continue
		}
		id := h.ID
		s.timers[id] = time.AfterFunc(delay, func() { s.fireHabit(id) })
	}
}

func (s *Scheduler) fireHabit(id string) {
	h, err := s.m.HabitByID(id)
	if err == nil && s.m.Settings().Notifications {
		today := s.m.Today()
		// Completed or off-schedule days stay quiet.
		if !h.Archived && h.IsActiveOn(s.m.Now()) && !h.IsCompletedOn(today) {
			s.send(fmt.Sprintf("Reminder: %s", h.Name), ReminderBody(h))
		}
	}
	s.Rearm()
}

func (s *Scheduler) fireDaily() {
	if s.m.Settings().Notifications {
		today := s.m.Today()
		completed := s.m.CompletedCount(today)
		total := s.m.TotalCount(today)
		if !(total > 0 && completed == total) {
			s.send("Daily check-in", DailyBody(completed, total))
		}
	}
	s.Rearm()
}

func (s *Scheduler) send(title, body string) {
	if err := s.notifier.Notify(title, body); err != nil {
		logger.Warn("failed to send notification", "error", err)
	}
}

// NextFireDelay computes how long until the next occurrence of the
// given wall-clock time. A time already past today lands tomorrow.
func NextFireDelay(now time.Time, hhmm string) (time.Duration, error) {
	parsed, err := time.Parse("15:04", hhmm)
	if err != nil {
		return 0, fmt.Errorf("invalid reminder time %q: %w", hhmm, err)
	}
	next := time.Date(now.Year(), now.Month(), now.Day(), parsed.Hour(), parsed.Minute(), 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now), nil
}

// AnnounceMilestone sends a celebration when a completion lands on a
// streak milestone. Callers hook it to complete and toggle events.
func (s *Scheduler) AnnounceMilestone(id string) {
	h, err := s.m.HabitByID(id)
	if err != nil {
		return
	}
	if msg := MilestoneMessage(h.CurrentStreak(s.m.Now())); msg != "" {
		s.send(fmt.Sprintf("Milestone: %s", h.Name), msg)
	}
}

// AnnounceDanger warns about every streak in danger right now and
// reports how many warnings were sent.
func (s *Scheduler) AnnounceDanger() int {
	now := s.m.Now()
	danger := s.m.HabitsInDanger()
	for _, h := range danger {
		s.send("Streak in danger", DangerMessage(h, h.CurrentStreak(now)))
	}
	return len(danger)
}
