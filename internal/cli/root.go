package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/jmercier/habitflow/internal/backup"
	"github.com/jmercier/habitflow/internal/dateutil"
	"github.com/jmercier/habitflow/internal/habit"
	"github.com/jmercier/habitflow/internal/manager"
	"github.com/jmercier/habitflow/internal/storage"
)

// Context is built once in main and handed to every command.
type Context struct {
	Store storage.Provider

	mgr *manager.Manager
}

// Manager loads the store on first use and returns the shared manager.
func (c *Context) Manager() (*manager.Manager, error) {
	if c.mgr != nil {
		return c.mgr, nil
	}
	if err := c.Store.Load(); err != nil {
		return nil, err
	}
	m, err := manager.New(c.Store)
	if err != nil {
		return nil, err
	}
	c.mgr = m
	return m, nil
}

// PerformAutomaticBackup backs up the store without interrupting the
// user's workflow on failure.
func (c *Context) PerformAutomaticBackup() {
	mgr := backup.NewManager(c.Store)
	if _, err := mgr.CreateBackup(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: automatic backup failed: %v\n", err)
	}
}

// findHabit resolves a user-supplied reference: exact ID, unique ID
// prefix, exact name (case-insensitive), then unique name substring.
func findHabit(m *manager.Manager, ref string) (*habit.Habit, error) {
	habits := m.AllHabits()

	for _, h := range habits {
		if h.ID == ref {
			return h, nil
		}
	}

	var byPrefix []*habit.Habit
	for _, h := range habits {
		if strings.HasPrefix(h.ID, ref) {
			byPrefix = append(byPrefix, h)
		}
	}
	if len(byPrefix) == 1 {
		return byPrefix[0], nil
	}
	if len(byPrefix) > 1 {
		return nil, fmt.Errorf("habit reference %q is ambiguous (%d ID matches)", ref, len(byPrefix))
	}

	lower := strings.ToLower(ref)
	for _, h := range habits {
		if strings.ToLower(h.Name) == lower {
			return h, nil
		}
	}

	var byName []*habit.Habit
	for _, h := range habits {
		if strings.Contains(strings.ToLower(h.Name), lower) {
			byName = append(byName, h)
		}
	}
	if len(byName) == 1 {
		return byName[0], nil
	}
	if len(byName) > 1 {
		names := make([]string, len(byName))
		for i, h := range byName {
			names[i] = h.Name
		}
		return nil, fmt.Errorf("habit reference %q is ambiguous: %s", ref, strings.Join(names, ", "))
	}

	return nil, fmt.Errorf("no habit matches %q", ref)
}

// resolveDay turns an optional --date flag into a day key, defaulting
// to the manager's today.
func resolveDay(m *manager.Manager, date string) (string, error) {
	if date == "" {
		return m.Today(), nil
	}
	if _, err := dateutil.ParseDay(date); err != nil {
		return "", err
	}
	return date, nil
}

// confirm prompts on stdin unless the command was told to skip it.
func confirm(prompt string, assumeYes bool) bool {
	if assumeYes {
		return true
	}
	fmt.Printf("%s [y/N]: ", prompt)
	var response string
	if _, err := fmt.Scanln(&response); err != nil {
		return false
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

// checkmark renders a completion state for list output.
func checkmark(done bool) string {
	if done {
		return "✓"
	}
	return "·"
}
