package storage

import (
	"encoding/json"
	"fmt"

	"github.com/jmercier/habitflow/internal/constants"
)

// Settings is the singleton, process-wide application configuration.
// JSON field names follow the persisted document format.
type Settings struct {
	Theme             string `json:"theme"`
	Notifications     bool   `json:"notifications"`
	Sounds            bool   `json:"sounds"`
	DailyReminderTime string `json:"dailyReminderTime"` // HH:MM
	WeekStartsOn      string `json:"weekStartsOn"`
	Language          string `json:"language"`
	FirstLaunch       bool   `json:"firstLaunch"`
}

// DefaultSettings returns the settings a fresh store starts with.
func DefaultSettings() Settings {
	return Settings{
		Theme:             constants.DefaultTheme,
		Notifications:     constants.DefaultNotifications,
		Sounds:            constants.DefaultSounds,
		DailyReminderTime: constants.DefaultDailyReminderTime,
		WeekStartsOn:      constants.DefaultWeekStartsOn,
		Language:          constants.DefaultLanguage,
		FirstLaunch:       true,
	}
}

// mergeSettings overlays a stored settings object on the current
// defaults: fields present in the blob win, fields the blob is missing
// keep their defaults. This is the merge-forward settings migration; it
// only ever adds, never drops.
func mergeSettings(raw json.RawMessage) (Settings, error) {
	merged := DefaultSettings()
	if len(raw) == 0 || string(raw) == "null" {
		return merged, nil
	}
	if err := json.Unmarshal(raw, &merged); err != nil {
		return Settings{}, fmt.Errorf("invalid settings payload: %w", err)
	}
	return merged, nil
}
