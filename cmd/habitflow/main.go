package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/jmercier/habitflow/internal/cli"
	"github.com/jmercier/habitflow/internal/logger"
	"github.com/jmercier/habitflow/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Store file path." type:"path" default:"~/.config/habitflow/habitflow.json"`
	Debug   bool   `help:"Enable debug logging."`

	Init      cli.InitCmd      `cmd:"" help:"Initialize habitflow storage."`
	Tui       cli.TuiCmd       `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Add       cli.AddCmd       `cmd:"" help:"Add a new habit."`
	Edit      cli.EditCmd      `cmd:"" help:"Edit an existing habit."`
	Delete    cli.DeleteCmd    `cmd:"" help:"Delete a habit and its history."`
	Archive   cli.ArchiveCmd   `cmd:"" help:"Archive a habit."`
	Unarchive cli.UnarchiveCmd `cmd:"" help:"Restore an archived habit."`
	List      cli.ListCmd      `cmd:"" help:"List habits."`
	Done      cli.DoneCmd      `cmd:"" help:"Mark a habit completed."`
	Undo      cli.UndoCmd      `cmd:"" help:"Unmark a habit completion."`
	Toggle    cli.ToggleCmd    `cmd:"" help:"Toggle a habit completion."`
	Today     cli.TodayCmd     `cmd:"" help:"Show today's habits."`
	Day       cli.DayCmd       `cmd:"" help:"Show habits for a day."`
	Stats     cli.StatsCmd     `cmd:"" help:"Show statistics."`
	Month     cli.MonthCmd     `cmd:"" help:"Show a monthly summary."`
	Heatmap   cli.HeatmapCmd   `cmd:"" help:"Show a yearly completion heatmap."`
	Chart     cli.ChartCmd     `cmd:"" help:"Show a completion chart."`
	Export    cli.ExportCmd    `cmd:"" help:"Export habits and settings."`
	Import    cli.ImportCmd    `cmd:"" help:"Import habits and settings."`
	Backup    struct {
		Create  cli.BackupCreateCmd  `cmd:"" help:"Create a backup."`
		List    cli.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore cli.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage backups."`
	Settings struct {
		Get   cli.SettingsGetCmd   `cmd:"" help:"Show current settings."`
		Set   cli.SettingsSetCmd   `cmd:"" help:"Change a setting."`
		Reset cli.SettingsResetCmd `cmd:"" help:"Restore default settings."`
	} `cmd:"" help:"Manage settings."`
	Remind cli.RemindCmd `cmd:"" help:"Run the reminder scheduler."`
	Doctor cli.DoctorCmd `cmd:"" help:"Check store health."`
	Reset  cli.ResetCmd  `cmd:"" help:"Erase all habits and settings."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("habitflow"),
		kong.Description("Habit tracker with streaks, stats and reminders"),
		kong.UsageOnError(),
		kong.Vars{"version": "v1.0.0"},
	)

	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: filepath.Dir(CLI.Config)}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
	}

	// Store backend follows the file extension.
	var store storage.Provider
	if strings.HasSuffix(CLI.Config, ".json") {
		store = storage.NewJSONStore(CLI.Config)
	} else {
		store = storage.NewSQLiteStore(CLI.Config)
	}

	err := ctx.Run(&cli.Context{Store: store})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
