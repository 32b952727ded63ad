package storage

import "github.com/jmercier/habitflow/internal/habit"

// Provider is the persistence boundary: it loads and saves the habit
// collection and settings as whole documents under the store path.
// Writes are last-write-wins; there is no merging.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Habit collection (whole-collection semantics, insertion order
	// preserved)
	LoadHabits() ([]*habit.Habit, error)
	SaveHabits([]*habit.Habit) error

	// Settings
	GetSettings() (Settings, error)
	SaveSettings(Settings) error

	// Reset restores the store to its freshly-initialized state:
	// empty collection, default settings.
	Reset() error

	// Fingerprint returns a cheap token that changes whenever another
	// process writes the store. Used for external-change detection;
	// it carries no meaning beyond inequality.
	Fingerprint() (string, error)

	// Utils
	GetConfigPath() string
}
