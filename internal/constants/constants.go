package constants

const (
	// DateFormat is the calendar-day format used for completion keys (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the clock format used for reminder times (HH:MM)
	TimeFormat = "15:04"
)

const (
	// SchemaVersion is the current version of the persisted store layout
	SchemaVersion = 1

	// DefaultStoreFile is the default store filename under the config directory
	DefaultStoreFile = "habitflow.json"
)

const (
	// MaxNameLength is the maximum habit name length in runes
	MaxNameLength = 50

	// MaxIconLength is the maximum habit icon length in runes
	MaxIconLength = 5
)

// Default settings values
const (
	DefaultTheme             = "auto"
	DefaultNotifications     = true
	DefaultSounds            = true
	DefaultDailyReminderTime = "20:00"
	DefaultWeekStartsOn      = "monday"
	DefaultLanguage          = "en"
)
