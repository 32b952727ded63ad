package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmercier/habitflow/internal/constants"
	"github.com/jmercier/habitflow/internal/habit"
)

// Bundle is the export/import document: everything needed to move a
// store between installations in one file.
type Bundle struct {
	Version    int            `json:"version"`
	Habits     []*habit.Habit `json:"habits"`
	Settings   Settings       `json:"settings"`
	ExportedAt time.Time      `json:"exportedAt"`
}

// Export captures the provider's full state as a bundle.
func Export(p Provider) (Bundle, error) {
	habits, err := p.LoadHabits()
	if err != nil {
		return Bundle{}, fmt.Errorf("export failed: %w", err)
	}
	settings, err := p.GetSettings()
	if err != nil {
		return Bundle{}, fmt.Errorf("export failed: %w", err)
	}
	return Bundle{
		Version:    constants.SchemaVersion,
		Habits:     habits,
		Settings:   settings,
		ExportedAt: time.Now(),
	}, nil
}

// importDocument decodes the bundle loosely: habits are parsed up
// front, settings stay raw so a corrupt settings payload surfaces
// during apply (after the snapshot is taken) rather than silently
// defaulting.
type importDocument struct {
	Version  int             `json:"version"`
	Habits   []*habit.Habit  `json:"habits"`
	Settings json.RawMessage `json:"settings"`
}

// Import applies a serialized bundle to the provider inside an explicit
// snapshot transaction: current state is captured first, and any
// failure during apply restores it, so the store is never left
// partially imported. Habit payloads pass through as-is; settings run
// the merge-forward migration so unknown or missing fields default.
func Import(p Provider, data []byte) error {
	var doc importDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("invalid import document: %w", err)
	}
	if doc.Habits == nil && len(doc.Settings) == 0 {
		return fmt.Errorf("import document contains no habits or settings")
	}

	// Snapshot before touching anything.
	snapHabits, err := p.LoadHabits()
	if err != nil {
		return fmt.Errorf("import failed to snapshot habits: %w", err)
	}
	snapSettings, err := p.GetSettings()
	if err != nil {
		return fmt.Errorf("import failed to snapshot settings: %w", err)
	}

	if err := applyImport(p, doc); err != nil {
		if restoreErr := restoreSnapshot(p, snapHabits, snapSettings); restoreErr != nil {
			return fmt.Errorf("import failed: %w (snapshot restore also failed: %v)", err, restoreErr)
		}
		return fmt.Errorf("import failed: %w", err)
	}
	return nil
}

func applyImport(p Provider, doc importDocument) error {
	if doc.Habits != nil {
		for _, h := range doc.Habits {
			if h == nil {
				return fmt.Errorf("import document contains a null habit")
			}
			if h.Completions == nil {
				h.Completions = make(map[string]bool)
			}
		}
		if err := p.SaveHabits(doc.Habits); err != nil {
			return err
		}
	}
	if len(doc.Settings) > 0 {
		merged, err := mergeSettings(doc.Settings)
		if err != nil {
			return err
		}
		if err := p.SaveSettings(merged); err != nil {
			return err
		}
	}
	return nil
}

func restoreSnapshot(p Provider, habits []*habit.Habit, settings Settings) error {
	if err := p.SaveHabits(habits); err != nil {
		return err
	}
	return p.SaveSettings(settings)
}
