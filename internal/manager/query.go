package manager

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jmercier/habitflow/internal/dateutil"
	"github.com/jmercier/habitflow/internal/habit"
)

// Sort fields accepted by Sorted.
const (
	SortByName    = "name"
	SortByCreated = "created"
	SortByStreak  = "streak"
	SortBySuccess = "success"
)

// HabitByID returns a clone of the habit, or ErrHabitNotFound.
func (m *Manager) HabitByID(id string) (*habit.Habit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, err := m.find(id)
	if err != nil {
		return nil, err
	}
	return h.Clone(), nil
}

// AllHabits returns clones of every habit in insertion order,
// archived included.
func (m *Manager) AllHabits() []*habit.Habit {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cloneFiltered(func(*habit.Habit) bool { return true })
}

// ActiveHabits returns the non-archived habits in insertion order.
func (m *Manager) ActiveHabits() []*habit.Habit {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cloneFiltered(func(h *habit.Habit) bool { return !h.Archived })
}

// ArchivedHabits returns the archived habits in insertion order.
func (m *Manager) ArchivedHabits() []*habit.Habit {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cloneFiltered(func(h *habit.Habit) bool { return h.Archived })
}

// cloneFiltered copies matching habits. Caller holds mu.
func (m *Manager) cloneFiltered(keep func(*habit.Habit) bool) []*habit.Habit {
	out := []*habit.Habit{}
	for _, h := range m.habits {
		if keep(h) {
			out = append(out, h.Clone())
		}
	}
	return out
}

// HabitsForDate returns the active habits scheduled on the given day.
func (m *Manager) HabitsForDate(day string) ([]*habit.Habit, error) {
	t, err := dateutil.ParseDay(day)
	if err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cloneFiltered(func(h *habit.Habit) bool {
		return !h.Archived && h.IsActiveOn(t)
	}), nil
}

// TodayHabits returns the active habits scheduled today.
func (m *Manager) TodayHabits() []*habit.Habit {
	habits, _ := m.HabitsForDate(m.Today())
	return habits
}

// CompletedCount reports how many of the day's scheduled habits are done.
func (m *Manager) CompletedCount(day string) int {
	habits, err := m.HabitsForDate(day)
	if err != nil {
		return 0
	}
	n := 0
	for _, h := range habits {
		if h.IsCompletedOn(day) {
			n++
		}
	}
	return n
}

// TotalCount reports how many habits are scheduled on the day.
func (m *Manager) TotalCount(day string) int {
	habits, err := m.HabitsForDate(day)
	if err != nil {
		return 0
	}
	return len(habits)
}

// CompletionPercentage is the day's completed/scheduled ratio as a
// rounded percentage. A day with nothing scheduled reports 0.
func (m *Manager) CompletionPercentage(day string) int {
	total := m.TotalCount(day)
	if total == 0 {
		return 0
	}
	return int(float64(m.CompletedCount(day))/float64(total)*100 + 0.5)
}

// HabitsInDanger returns active habits whose streak would break if the
// day ends without a completion.
func (m *Manager) HabitsInDanger() []*habit.Habit {
	today := m.now()
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cloneFiltered(func(h *habit.Habit) bool {
		return !h.Archived && h.IsStreakInDanger(today)
	})
}

// HabitsByStreakLevel groups the active habits by their streak level.
func (m *Manager) HabitsByStreakLevel() map[habit.StreakLevel][]*habit.Habit {
	today := m.now()
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[habit.StreakLevel][]*habit.Habit)
	for _, h := range m.habits {
		if h.Archived {
			continue
		}
		level := h.StreakLevel(today)
		out[level] = append(out[level], h.Clone())
	}
	return out
}

// Search returns active habits whose name contains the query,
// case-insensitively. An empty query matches everything.
func (m *Manager) Search(query string) []*habit.Habit {
	q := strings.ToLower(query)
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cloneFiltered(func(h *habit.Habit) bool {
		return !h.Archived && strings.Contains(strings.ToLower(h.Name), q)
	})
}

// Sorted returns the active habits ordered by the given field.
// Descending order reverses the comparison; ties keep insertion order.
func (m *Manager) Sorted(by string, descending bool) ([]*habit.Habit, error) {
	today := m.now()
	habits := m.ActiveHabits()

	var less func(a, b *habit.Habit) bool
	switch by {
	case SortByName:
		less = func(a, b *habit.Habit) bool {
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
	case SortByCreated:
		less = func(a, b *habit.Habit) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case SortByStreak:
		less = func(a, b *habit.Habit) bool {
			return a.CurrentStreak(today) < b.CurrentStreak(today)
		}
	case SortBySuccess:
		less = func(a, b *habit.Habit) bool {
			return a.SuccessRate(today, 30) < b.SuccessRate(today, 30)
		}
	default:
		return nil, fmt.Errorf("unknown sort field %q", by)
	}

	sort.SliceStable(habits, func(i, j int) bool {
		if descending {
			return less(habits[j], habits[i])
		}
		return less(habits[i], habits[j])
	})
	return habits, nil
}
