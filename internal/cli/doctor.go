package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	ps "github.com/mitchellh/go-ps"

	"github.com/jmercier/habitflow/internal/backup"
	"github.com/jmercier/habitflow/internal/habit"
	"github.com/jmercier/habitflow/internal/storage"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	storeReachable := false

	if err := checkStoreReachable(ctx); err != nil {
		fmt.Printf("❌ Store reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Store reachable: OK\n")
		storeReachable = true
	}

	if storeReachable {
		if err := checkDataIntegrity(ctx); err != nil {
			fmt.Printf("❌ Data integrity: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Data integrity: OK\n")
		}
	} else {
		fmt.Printf("⊘ Data integrity: SKIPPED (store not reachable)\n")
	}

	if err := checkBackupsPresent(ctx); err != nil {
		fmt.Printf("⚠ Backups present: WARNING\n")
		fmt.Printf("   %v\n", err)
	} else {
		fmt.Printf("✓ Backups present: OK\n")
	}

	if others, err := findOtherProcesses(); err != nil {
		fmt.Printf("⚠ Concurrent processes: UNKNOWN\n")
		fmt.Printf("   %v\n", err)
	} else if len(others) > 0 {
		fmt.Printf("⚠ Concurrent processes: WARNING\n")
		fmt.Printf("   %d other habitflow process(es) running (PIDs %v).\n", len(others), others)
		fmt.Printf("   Concurrent writes are last-write-wins; the slower writer loses.\n")
	} else {
		fmt.Printf("✓ Concurrent processes: OK\n")
	}

	if err := checkClockTimezone(); err != nil {
		fmt.Printf("❌ Clock/timezone: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Clock/timezone: OK\n")
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	fmt.Println("All diagnostics passed!")
	return nil
}

func checkStoreReachable(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load store: %w", err)
	}

	if sqliteStore, ok := ctx.Store.(*storage.SQLiteStore); ok {
		db := sqliteStore.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

func checkDataIntegrity(ctx *Context) error {
	if _, err := ctx.Store.GetSettings(); err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	habits, err := ctx.Store.LoadHabits()
	if err != nil {
		return fmt.Errorf("failed to load habits: %w", err)
	}

	ids := make(map[string]bool)
	for _, h := range habits {
		if ids[h.ID] {
			return fmt.Errorf("duplicate habit ID found: %s", h.ID)
		}
		ids[h.ID] = true

		if result := habit.Validate(habit.InputOf(h)); !result.Valid {
			return fmt.Errorf("habit %q fails validation: %s", h.Name, strings.Join(result.Errors, "; "))
		}
		for day := range h.Completions {
			if _, err := time.ParseInLocation("2006-01-02", day, time.Local); err != nil {
				return fmt.Errorf("habit %q has invalid completion key %q", h.Name, day)
			}
		}
	}
	return nil
}

func checkBackupsPresent(ctx *Context) error {
	mgr := backup.NewManager(ctx.Store)
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'habitflow backup create'")
	}
	return nil
}

// findOtherProcesses scans the process table for other habitflow
// instances that could race this one on the store.
func findOtherProcesses() ([]int, error) {
	processes, err := ps.Processes()
	if err != nil {
		return nil, fmt.Errorf("failed to list processes: %w", err)
	}

	self := os.Getpid()
	var pids []int
	for _, p := range processes {
		if p.Pid() == self {
			continue
		}
		name := strings.TrimSuffix(p.Executable(), ".exe")
		if name == "habitflow" {
			pids = append(pids, p.Pid())
		}
	}
	return pids, nil
}

func checkClockTimezone() error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	_, offset := now.Zone()
	if offset == 0 && now.Location() == time.UTC {
		fmt.Printf("   Note: timezone is UTC\n")
	}
	return nil
}
