package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jmercier/habitflow/internal/constants"
	"github.com/jmercier/habitflow/internal/habit"
)

const schema = `
CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS settings (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS habits (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	icon          TEXT NOT NULL,
	color         TEXT NOT NULL,
	schedule      TEXT NOT NULL,
	reminder_time TEXT NOT NULL DEFAULT '',
	created_at    TEXT NOT NULL,
	archived      INTEGER NOT NULL DEFAULT 0,
	position      INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS completions (
	habit_id TEXT NOT NULL,
	day      TEXT NOT NULL,
	PRIMARY KEY (habit_id, day)
);
`

// SQLiteStore is the database-backed Provider. It keeps the same
// whole-collection write semantics as the JSON store: SaveHabits
// replaces the full habit set in one transaction.
type SQLiteStore struct {
	path string
	db   *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	if _, err := s.db.Exec(
		"INSERT OR IGNORE INTO meta (key, value) VALUES ('schema_version', ?), ('revision', '0')",
		strconv.Itoa(constants.SchemaVersion),
	); err != nil {
		return fmt.Errorf("failed to write schema version: %w", err)
	}

	return s.fillDefaultSettings()
}

func (s *SQLiteStore) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("store not initialized, run 'habitflow init' first")
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	var stored string
	err = s.db.QueryRow("SELECT value FROM meta WHERE key = 'schema_version'").Scan(&stored)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	version, err := strconv.Atoi(stored)
	if err != nil {
		return fmt.Errorf("invalid schema version %q: %w", stored, err)
	}
	if version > constants.SchemaVersion {
		return fmt.Errorf("store schema version %d is newer than supported version %d", version, constants.SchemaVersion)
	}
	if version < constants.SchemaVersion {
		if _, err := s.db.Exec(
			"UPDATE meta SET value = ? WHERE key = 'schema_version'",
			strconv.Itoa(constants.SchemaVersion),
		); err != nil {
			return fmt.Errorf("failed to bump schema version: %w", err)
		}
	}

	// Additive settings migration: fill any keys a newer version added.
	return s.fillDefaultSettings()
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func settingsRows(settings Settings) [][2]string {
	return [][2]string{
		{"theme", settings.Theme},
		{"notifications", strconv.FormatBool(settings.Notifications)},
		{"sounds", strconv.FormatBool(settings.Sounds)},
		{"daily_reminder_time", settings.DailyReminderTime},
		{"week_starts_on", settings.WeekStartsOn},
		{"language", settings.Language},
		{"first_launch", strconv.FormatBool(settings.FirstLaunch)},
	}
}

func (s *SQLiteStore) fillDefaultSettings() error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, row := range settingsRows(DefaultSettings()) {
		if _, err := tx.Exec("INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)", row[0], row[1]); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) LoadHabits() ([]*habit.Habit, error) {
	if s.db == nil {
		return nil, fmt.Errorf("store not loaded")
	}

	rows, err := s.db.Query(`
		SELECT id, name, icon, color, schedule, reminder_time, created_at, archived
		FROM habits ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var habits []*habit.Habit
	byID := make(map[string]*habit.Habit)
	for rows.Next() {
		var h habit.Habit
		var scheduleJSON, createdAt string
		var archived bool
		if err := rows.Scan(&h.ID, &h.Name, &h.Icon, &h.Color, &scheduleJSON, &h.ReminderTime, &createdAt, &archived); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(scheduleJSON), &h.Schedule); err != nil {
			return nil, fmt.Errorf("habit %s has invalid schedule: %w", h.ID, err)
		}
		h.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("habit %s has invalid created_at: %w", h.ID, err)
		}
		h.Archived = archived
		h.Completions = make(map[string]bool)
		habits = append(habits, &h)
		byID[h.ID] = &h
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	crows, err := s.db.Query("SELECT habit_id, day FROM completions")
	if err != nil {
		return nil, err
	}
	defer crows.Close()

	for crows.Next() {
		var habitID, day string
		if err := crows.Scan(&habitID, &day); err != nil {
			return nil, err
		}
		if h, ok := byID[habitID]; ok {
			h.Completions[day] = true
		}
	}
	if err := crows.Err(); err != nil {
		return nil, err
	}

	if habits == nil {
		habits = []*habit.Habit{}
	}
	return habits, nil
}

func (s *SQLiteStore) SaveHabits(habits []*habit.Habit) error {
	if s.db == nil {
		return fmt.Errorf("store not loaded")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM completions"); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM habits"); err != nil {
		return err
	}

	hstmt, err := tx.Prepare(`
		INSERT INTO habits (id, name, icon, color, schedule, reminder_time, created_at, archived, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer hstmt.Close()

	cstmt, err := tx.Prepare("INSERT INTO completions (habit_id, day) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer cstmt.Close()

	for position, h := range habits {
		scheduleJSON, err := json.Marshal(h.Schedule)
		if err != nil {
			return fmt.Errorf("failed to serialize schedule: %w", err)
		}
		if _, err := hstmt.Exec(
			h.ID, h.Name, h.Icon, h.Color, string(scheduleJSON), h.ReminderTime,
			h.CreatedAt.Format(time.RFC3339), h.Archived, position,
		); err != nil {
			return err
		}
		for day, done := range h.Completions {
			if !done {
				continue
			}
			if _, err := cstmt.Exec(h.ID, day); err != nil {
				return err
			}
		}
	}

	if err := bumpRevision(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) GetSettings() (Settings, error) {
	if s.db == nil {
		return Settings{}, fmt.Errorf("store not loaded")
	}

	rows, err := s.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return Settings{}, err
	}
	defer rows.Close()

	settings := DefaultSettings()
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return Settings{}, err
		}
		switch key {
		case "theme":
			settings.Theme = value
		case "notifications":
			settings.Notifications = value == "true"
		case "sounds":
			settings.Sounds = value == "true"
		case "daily_reminder_time":
			settings.DailyReminderTime = value
		case "week_starts_on":
			settings.WeekStartsOn = value
		case "language":
			settings.Language = value
		case "first_launch":
			settings.FirstLaunch = value == "true"
		}
	}
	if err := rows.Err(); err != nil {
		return Settings{}, err
	}

	return settings, nil
}

func (s *SQLiteStore) SaveSettings(settings Settings) error {
	if s.db == nil {
		return fmt.Errorf("store not loaded")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, row := range settingsRows(settings) {
		if _, err := stmt.Exec(row[0], row[1]); err != nil {
			return err
		}
	}

	if err := bumpRevision(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) Reset() error {
	if s.db == nil {
		return fmt.Errorf("store not loaded")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM completions"); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM habits"); err != nil {
		return err
	}
	stmt, err := tx.Prepare("INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, row := range settingsRows(DefaultSettings()) {
		if _, err := stmt.Exec(row[0], row[1]); err != nil {
			return err
		}
	}

	if err := bumpRevision(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func bumpRevision(tx *sql.Tx) error {
	_, err := tx.Exec("UPDATE meta SET value = CAST(value AS INTEGER) + 1 WHERE key = 'revision'")
	return err
}

func (s *SQLiteStore) Fingerprint() (string, error) {
	if s.db == nil {
		return "", fmt.Errorf("store not loaded")
	}
	var revision string
	if err := s.db.QueryRow("SELECT value FROM meta WHERE key = 'revision'").Scan(&revision); err != nil {
		return "", err
	}
	return revision, nil
}

func (s *SQLiteStore) GetConfigPath() string {
	return s.path
}

func (s *SQLiteStore) GetDB() *sql.DB {
	return s.db
}
