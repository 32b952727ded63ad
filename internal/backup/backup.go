// Package backup writes timestamped export bundles next to the store
// and restores them through the transactional import, so a backup made
// from a JSON store can be restored into a SQLite store and vice versa.
package backup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jmercier/habitflow/internal/logger"
	"github.com/jmercier/habitflow/internal/storage"
)

const (
	// MaxBackups is the number of backups kept after rotation
	MaxBackups = 14
	// BackupDirName is the directory created next to the store file
	BackupDirName = "backups"
	// BackupFilePrefix is the prefix for backup files
	BackupFilePrefix = "habitflow-"
	// BackupFileSuffix is the suffix for backup files
	BackupFileSuffix = ".json"
)

// BackupInfo describes one backup file on disk.
type BackupInfo struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

// Manager creates, lists, rotates and restores backups for one store.
type Manager struct {
	store     storage.Provider
	backupDir string
	now       func() time.Time
}

// NewManager places the backup directory beside the store file.
func NewManager(store storage.Provider) *Manager {
	configDir := filepath.Dir(store.GetConfigPath())
	return &Manager{
		store:     store,
		backupDir: filepath.Join(configDir, BackupDirName),
		now:       time.Now,
	}
}

// GetBackupDir returns the backup directory path.
func (m *Manager) GetBackupDir() string {
	return m.backupDir
}

// CreateBackup exports the store to a new timestamped bundle and
// rotates old backups out.
func (m *Manager) CreateBackup() (string, error) {
	return m.createBackup(false)
}

// createBackup writes the bundle. skipRotation prevents a restore's
// safety backup from rotating away the file being restored.
func (m *Manager) createBackup(skipRotation bool) (string, error) {
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	bundle, err := storage.Export(m.store)
	if err != nil {
		return "", fmt.Errorf("failed to export store: %w", err)
	}
	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize backup: %w", err)
	}

	backupPath, err := m.uniquePath()
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(backupPath, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}

	if !skipRotation {
		if err := m.rotateBackups(); err != nil {
			// The backup itself succeeded.
			logger.Warn("failed to rotate old backups", "error", err)
		}
	}

	return backupPath, nil
}

// uniquePath picks a filename with minute precision, escalating to
// seconds and then a counter on collision.
func (m *Manager) uniquePath() (string, error) {
	now := m.now()
	path := filepath.Join(m.backupDir, BackupFilePrefix+now.Format("20060102-1504")+BackupFileSuffix)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path, nil
	}

	stamp := now.Format("20060102-150405")
	path = filepath.Join(m.backupDir, BackupFilePrefix+stamp+BackupFileSuffix)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path, nil
	}

	for counter := 1; counter <= 100; counter++ {
		path = filepath.Join(m.backupDir, fmt.Sprintf("%s%s-%d%s", BackupFilePrefix, stamp, counter, BackupFileSuffix))
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		}
	}
	return "", fmt.Errorf("failed to generate unique backup filename")
}

// ListBackups returns all backups, newest first.
func (m *Manager) ListBackups() ([]BackupInfo, error) {
	if _, err := os.Stat(m.backupDir); os.IsNotExist(err) {
		return []BackupInfo{}, nil
	}

	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var backups []BackupInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, BackupFilePrefix) || !strings.HasSuffix(name, BackupFileSuffix) {
			continue
		}

		timestamp, ok := parseStamp(strings.TrimSuffix(strings.TrimPrefix(name, BackupFilePrefix), BackupFileSuffix))
		if !ok {
			continue
		}

		path := filepath.Join(m.backupDir, name)
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		backups = append(backups, BackupInfo{Path: path, Timestamp: timestamp, Size: info.Size()})
	}

	sort.Slice(backups, func(i, j int) bool {
		if backups[i].Timestamp.Equal(backups[j].Timestamp) {
			return backups[i].Path > backups[j].Path
		}
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})
	return backups, nil
}

// parseStamp reads the filename timestamp, tolerating a trailing
// collision counter.
func parseStamp(s string) (time.Time, bool) {
	parts := strings.Split(s, "-")
	if len(parts) > 2 {
		last := parts[len(parts)-1]
		if len(last) != 4 && len(last) != 6 && isDigits(last) {
			s = strings.Join(parts[:len(parts)-1], "-")
		}
	}
	if t, err := time.Parse("20060102-1504", s); err == nil {
		return t, true
	}
	if t, err := time.Parse("20060102-150405", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return s != ""
}

// rotateBackups removes backups beyond the retention limit.
func (m *Manager) rotateBackups() error {
	backups, err := m.ListBackups()
	if err != nil {
		return err
	}
	for i := MaxBackups; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
	}
	return nil
}

// RestoreBackup verifies the bundle, snapshots the current store into
// a fresh backup, then applies it through the transactional import.
func (m *Manager) RestoreBackup(backupPath string) error {
	data, err := os.ReadFile(backupPath)
	if err != nil {
		return fmt.Errorf("failed to read backup file: %w", err)
	}
	if err := Verify(data); err != nil {
		return fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	current, err := m.createBackup(true)
	if err != nil {
		return fmt.Errorf("failed to back up current store before restore: %w", err)
	}
	fmt.Printf("Created backup of current store: %s\n", filepath.Base(current))

	if err := storage.Import(m.store, data); err != nil {
		return fmt.Errorf("failed to restore backup: %w", err)
	}
	return nil
}

// Verify decodes the data as an export bundle and rejects anything
// that does not carry a habit collection.
func Verify(data []byte) error {
	var bundle storage.Bundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return fmt.Errorf("not a valid export bundle: %w", err)
	}
	if bundle.Habits == nil {
		return fmt.Errorf("bundle has no habit collection")
	}
	return nil
}
