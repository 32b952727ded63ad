package manager

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mitchellh/hashstructure/v2"

	"github.com/jmercier/habitflow/internal/dateutil"
	"github.com/jmercier/habitflow/internal/logger"
	"github.com/jmercier/habitflow/internal/habit"
	"github.com/jmercier/habitflow/internal/storage"
)

// ErrHabitNotFound is returned when an operation names an unknown habit ID.
var ErrHabitNotFound = errors.New("habit not found")

// SaveError reports a persistence failure. The in-memory change has
// already been applied; callers decide whether to retry the save or
// surface the error.
type SaveError struct {
	Err error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("failed to persist changes: %v", e.Err)
}

func (e *SaveError) Unwrap() error {
	return e.Err
}

// Manager owns the in-memory habit collection and settings, persists
// every mutation through its storage provider, and fans out events to
// subscribers. It is the single context object the CLI and TUI are
// handed; nothing else touches the store directly.
//
// Methods are safe for concurrent use. Events fire synchronously after
// the state change, outside the state lock, so listeners may call back
// into the manager.
type Manager struct {
	mu       sync.RWMutex
	store    storage.Provider
	habits   []*habit.Habit
	settings storage.Settings

	subMu     sync.Mutex
	listeners map[int]Listener
	nextSub   int

	// now is swappable so date-sensitive behavior is testable.
	now func() time.Time

	// change-detection state for WatchStore
	lastFingerprint string
	lastHash        uint64
}

// Option configures a Manager at construction.
type Option func(*Manager)

// WithClock overrides the manager's time source. Date-sensitive
// queries and tests pin "today" with this.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// New loads the provider's current state into a ready manager.
func New(store storage.Provider, opts ...Option) (*Manager, error) {
	m := &Manager{
		store:     store,
		listeners: make(map[int]Listener),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	if err := m.loadState(); err != nil {
		return nil, err
	}
	m.rememberState()
	return m, nil
}

func (m *Manager) loadState() error {
	habits, err := m.store.LoadHabits()
	if err != nil {
		return fmt.Errorf("failed to load habits: %w", err)
	}
	settings, err := m.store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	m.habits = habits
	m.settings = settings
	return nil
}

// rememberState refreshes the change-detection tokens so WatchStore
// does not mistake our own writes for external ones. Caller holds mu.
func (m *Manager) rememberState() {
	m.lastFingerprint, _ = m.store.Fingerprint()
	m.lastHash, _ = stateHash(m.habits, m.settings)
}

// Today returns the current day key using the manager's clock.
func (m *Manager) Today() string {
	return dateutil.FormatDay(m.now())
}

// Now exposes the manager's clock so collaborators stay consistent
// with its notion of "today".
func (m *Manager) Now() time.Time {
	return m.now()
}

// Subscribe registers a listener and returns its unsubscribe func.
func (m *Manager) Subscribe(l Listener) func() {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	id := m.nextSub
	m.nextSub++
	m.listeners[id] = l
	return func() {
		m.subMu.Lock()
		defer m.subMu.Unlock()
		delete(m.listeners, id)
	}
}

func (m *Manager) notify(events ...Event) {
	m.subMu.Lock()
	snapshot := make([]Listener, 0, len(m.listeners))
	for _, l := range m.listeners {
		snapshot = append(snapshot, l)
	}
	m.subMu.Unlock()

	for _, e := range events {
		for _, l := range snapshot {
			m.invoke(l, e)
		}
	}
}

// A panicking listener must not take down the manager or starve the
// remaining listeners.
func (m *Manager) invoke(l Listener, e Event) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("event listener panicked", "event", e.Type, "panic", r)
		}
	}()
	l(e)
}

// persist writes the habit collection through. Caller holds mu.
func (m *Manager) persist() error {
	if err := m.store.SaveHabits(m.habits); err != nil {
		return &SaveError{Err: err}
	}
	m.rememberState()
	return nil
}

// persistSettings writes the settings through. Caller holds mu.
func (m *Manager) persistSettings() error {
	if err := m.store.SaveSettings(m.settings); err != nil {
		return &SaveError{Err: err}
	}
	m.rememberState()
	return nil
}

// find locates a habit by ID. Caller holds mu.
func (m *Manager) find(id string) (*habit.Habit, error) {
	for _, h := range m.habits {
		if h.ID == id {
			return h, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrHabitNotFound, id)
}

// Create validates the input, appends a new habit and persists.
func (m *Manager) Create(in habit.Input) (*habit.Habit, error) {
	if err := habit.Validate(in).Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	h := habit.New(uuid.New().String(), in, m.now())
	m.habits = append(m.habits, h)
	err := m.persist()
	clone := h.Clone()
	m.mu.Unlock()

	if err != nil {
		return nil, err
	}
	m.notify(Event{Type: EventSave}, Event{Type: EventAdd, Habit: clone})
	return clone, nil
}

// Update replaces a habit's editable fields with the given input.
// Callers building partial edits start from InputOf and overwrite the
// fields they change.
func (m *Manager) Update(id string, in habit.Input) (*habit.Habit, error) {
	if err := habit.Validate(in).Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	h, err := m.find(id)
	if err != nil {
		m.mu.Unlock()
		return nil, err
	}
	h.Name = in.Name
	h.Icon = in.Icon
	h.Color = in.Color
	h.Schedule = in.Schedule
	h.ReminderTime = in.ReminderTime
	err = m.persist()
	clone := h.Clone()
	m.mu.Unlock()

	if err != nil {
		return nil, err
	}
	m.notify(Event{Type: EventSave}, Event{Type: EventUpdate, Habit: clone})
	return clone, nil
}

// Delete removes a habit permanently, completions included.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	var removed *habit.Habit
	for i, h := range m.habits {
		if h.ID == id {
			removed = h
			m.habits = append(m.habits[:i], m.habits[i+1:]...)
			break
		}
	}
	if removed == nil {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrHabitNotFound, id)
	}
	err := m.persist()
	clone := removed.Clone()
	m.mu.Unlock()

	if err != nil {
		return err
	}
	m.notify(Event{Type: EventSave}, Event{Type: EventDelete, Habit: clone})
	return nil
}

// Archive hides a habit from the active set without losing its history.
func (m *Manager) Archive(id string) error {
	return m.setArchived(id, true, EventArchive)
}

// Unarchive returns an archived habit to the active set.
func (m *Manager) Unarchive(id string) error {
	return m.setArchived(id, false, EventUnarchive)
}

func (m *Manager) setArchived(id string, archived bool, event EventType) error {
	m.mu.Lock()
	h, err := m.find(id)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	h.Archived = archived
	err = m.persist()
	clone := h.Clone()
	m.mu.Unlock()

	if err != nil {
		return err
	}
	m.notify(Event{Type: EventSave}, Event{Type: event, Habit: clone})
	return nil
}

// ToggleCompletion flips a habit's completion for the given day and
// reports the new state.
func (m *Manager) ToggleCompletion(id, day string) (bool, error) {
	m.mu.Lock()
	h, err := m.find(id)
	if err != nil {
		m.mu.Unlock()
		return false, err
	}
	completed := h.Toggle(day)
	err = m.persist()
	clone := h.Clone()
	m.mu.Unlock()

	if err != nil {
		return completed, err
	}
	m.notify(Event{Type: EventSave}, Event{Type: EventToggle, Habit: clone, Day: day, Completed: completed})
	return completed, nil
}

// Complete marks a habit done on the given day. Idempotent.
func (m *Manager) Complete(id, day string) error {
	return m.setCompletion(id, day, true)
}

// Uncomplete clears a habit's completion on the given day. Clearing a
// day that was never completed is a no-op that still persists.
func (m *Manager) Uncomplete(id, day string) error {
	return m.setCompletion(id, day, false)
}

func (m *Manager) setCompletion(id, day string, completed bool) error {
	m.mu.Lock()
	h, err := m.find(id)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	event := EventComplete
	if completed {
		h.Complete(day)
	} else {
		h.Uncomplete(day)
		event = EventUncomplete
	}
	err = m.persist()
	clone := h.Clone()
	m.mu.Unlock()

	if err != nil {
		return err
	}
	m.notify(Event{Type: EventSave}, Event{Type: event, Habit: clone, Day: day, Completed: completed})
	return nil
}

// Reload discards in-memory state and re-reads the store.
func (m *Manager) Reload() error {
	m.mu.Lock()
	if err := m.store.Load(); err != nil {
		m.mu.Unlock()
		return fmt.Errorf("failed to reload store: %w", err)
	}
	if err := m.loadState(); err != nil {
		m.mu.Unlock()
		return err
	}
	m.rememberState()
	m.mu.Unlock()

	m.notify(Event{Type: EventLoad})
	return nil
}

// Reset wipes all habits and restores default settings.
func (m *Manager) Reset() error {
	m.mu.Lock()
	if err := m.store.Reset(); err != nil {
		m.mu.Unlock()
		return fmt.Errorf("failed to reset store: %w", err)
	}
	m.habits = []*habit.Habit{}
	m.settings = storage.DefaultSettings()
	m.rememberState()
	m.mu.Unlock()

	m.notify(Event{Type: EventReset})
	return nil
}

// Settings returns the current settings value.
func (m *Manager) Settings() storage.Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings
}

// UpdateSetting sets one settings key from its string form, validating
// the value against the key's accepted range.
func (m *Manager) UpdateSetting(key, value string) error {
	m.mu.Lock()
	updated := m.settings
	switch key {
	case "theme":
		if value != "auto" && value != "light" && value != "dark" {
			m.mu.Unlock()
			return fmt.Errorf("invalid theme %q (want auto, light or dark)", value)
		}
		updated.Theme = value
	case "notifications", "sounds", "firstLaunch":
		b, err := parseBool(value)
		if err != nil {
			m.mu.Unlock()
			return fmt.Errorf("invalid %s value %q: %w", key, value, err)
		}
		switch key {
		case "notifications":
			updated.Notifications = b
		case "sounds":
			updated.Sounds = b
		case "firstLaunch":
			updated.FirstLaunch = b
		}
	case "dailyReminderTime":
		if _, err := time.Parse("15:04", value); err != nil {
			m.mu.Unlock()
			return fmt.Errorf("invalid reminder time %q (want HH:MM): %w", value, err)
		}
		updated.DailyReminderTime = value
	case "weekStartsOn":
		if value != "monday" && value != "sunday" {
			m.mu.Unlock()
			return fmt.Errorf("invalid week start %q (want monday or sunday)", value)
		}
		updated.WeekStartsOn = value
	case "language":
		if value == "" {
			m.mu.Unlock()
			return fmt.Errorf("language cannot be empty")
		}
		updated.Language = value
	default:
		m.mu.Unlock()
		return fmt.Errorf("unknown setting %q", key)
	}
	m.settings = updated
	err := m.persistSettings()
	m.mu.Unlock()

	if err != nil {
		return err
	}
	m.notify(Event{Type: EventSave})
	return nil
}

// ResetSettings restores default settings without touching habits.
func (m *Manager) ResetSettings() error {
	m.mu.Lock()
	m.settings = storage.DefaultSettings()
	err := m.persistSettings()
	m.mu.Unlock()

	if err != nil {
		return err
	}
	m.notify(Event{Type: EventSave})
	return nil
}

func parseBool(s string) (bool, error) {
	switch s {
	case "true", "on", "yes", "1":
		return true, nil
	case "false", "off", "no", "0":
		return false, nil
	}
	return false, fmt.Errorf("want true or false")
}

// hashedState is the shape fed to hashstructure for change detection.
type hashedState struct {
	Habits   []*habit.Habit
	Settings storage.Settings
}

func stateHash(habits []*habit.Habit, settings storage.Settings) (uint64, error) {
	return hashstructure.Hash(hashedState{Habits: habits, Settings: settings}, hashstructure.FormatV2, nil)
}
