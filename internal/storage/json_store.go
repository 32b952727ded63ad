package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmercier/habitflow/internal/constants"
	"github.com/jmercier/habitflow/internal/habit"
)

// document is the on-disk shape of the JSON store. Settings stay raw
// until load so the merge-forward migration can tell missing fields
// apart from zero values.
type document struct {
	Version  int             `json:"version"`
	Settings json.RawMessage `json:"settings"`
	Habits   []*habit.Habit  `json:"habits"`
}

// JSONStore persists the whole store as a single JSON document at a
// fixed path.
//
// Concurrency note: JSONStore is not safe for concurrent use by
// multiple goroutines without external synchronization. A second
// process writing the same path is detected via Fingerprint and
// resolved last-write-wins.
type JSONStore struct {
	path     string
	version  int
	settings Settings
	habits   []*habit.Habit
	loaded   bool
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("store already initialized at %s", s.path)
	}

	s.version = constants.SchemaVersion
	s.settings = DefaultSettings()
	s.habits = []*habit.Habit{}
	s.loaded = true

	return s.save()
}

func (s *JSONStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("store not initialized, run 'habitflow init' first")
		}
		return fmt.Errorf("failed to read store: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse store: %w", err)
	}

	settings, err := mergeSettings(doc.Settings)
	if err != nil {
		return fmt.Errorf("failed to migrate settings: %w", err)
	}

	s.settings = settings
	s.habits = doc.Habits
	if s.habits == nil {
		s.habits = []*habit.Habit{}
	}
	for _, h := range s.habits {
		if h.Completions == nil {
			h.Completions = make(map[string]bool)
		}
	}
	s.loaded = true

	// A version bump rewrites the document so the merged-in settings
	// defaults become durable. Additive only.
	if doc.Version != constants.SchemaVersion {
		s.version = constants.SchemaVersion
		return s.save()
	}
	s.version = doc.Version

	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) save() error {
	raw, err := json.Marshal(s.settings)
	if err != nil {
		return fmt.Errorf("failed to serialize settings: %w", err)
	}
	doc := document{
		Version:  s.version,
		Settings: raw,
		Habits:   s.habits,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize store: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write store: %w", err)
	}

	return nil
}

func (s *JSONStore) LoadHabits() ([]*habit.Habit, error) {
	if !s.loaded {
		return nil, fmt.Errorf("store not loaded")
	}
	habits := make([]*habit.Habit, len(s.habits))
	for i, h := range s.habits {
		habits[i] = h.Clone()
	}
	return habits, nil
}

func (s *JSONStore) SaveHabits(habits []*habit.Habit) error {
	if !s.loaded {
		return fmt.Errorf("store not loaded")
	}
	s.habits = make([]*habit.Habit, len(habits))
	for i, h := range habits {
		s.habits[i] = h.Clone()
	}
	return s.save()
}

func (s *JSONStore) GetSettings() (Settings, error) {
	if !s.loaded {
		return Settings{}, fmt.Errorf("store not loaded")
	}
	return s.settings, nil
}

func (s *JSONStore) SaveSettings(settings Settings) error {
	if !s.loaded {
		return fmt.Errorf("store not loaded")
	}
	s.settings = settings
	return s.save()
}

func (s *JSONStore) Reset() error {
	if !s.loaded {
		return fmt.Errorf("store not loaded")
	}
	s.version = constants.SchemaVersion
	s.settings = DefaultSettings()
	s.habits = []*habit.Habit{}
	return s.save()
}

func (s *JSONStore) Fingerprint() (string, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return "", fmt.Errorf("failed to stat store: %w", err)
	}
	return fmt.Sprintf("%d-%d", info.ModTime().UnixNano(), info.Size()), nil
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}
