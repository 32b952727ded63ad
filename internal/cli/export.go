package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jmercier/habitflow/internal/stats"
	"github.com/jmercier/habitflow/internal/storage"
)

type ExportCmd struct {
	Output string `short:"o" help:"Write to a file instead of stdout." type:"path"`
	CSV    bool   `help:"Export per-habit stats as CSV instead of the full bundle."`
}

func (c *ExportCmd) Run(ctx *Context) error {
	m, err := ctx.Manager()
	if err != nil {
		return err
	}

	out := os.Stdout
	if c.Output != "" {
		f, err := os.Create(c.Output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if c.CSV {
		if err := stats.New(m).ExportCSV(out); err != nil {
			return err
		}
	} else {
		bundle, err := storage.Export(ctx.Store)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(bundle); err != nil {
			return fmt.Errorf("failed to serialize export: %w", err)
		}
	}

	if c.Output != "" {
		fmt.Fprintf(os.Stderr, "Exported to %s\n", c.Output)
	}
	return nil
}

type ImportCmd struct {
	File string `arg:"" help:"Bundle file to import." type:"path"`
	Yes  bool   `short:"y" help:"Skip confirmation."`
}

func (c *ImportCmd) Run(ctx *Context) error {
	if _, err := ctx.Manager(); err != nil {
		return err
	}

	data, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("failed to read import file: %w", err)
	}

	if !confirm("Importing replaces your current habits and settings. Continue?", c.Yes) {
		fmt.Println("Import cancelled.")
		return nil
	}

	// Safety net on top of the import's own snapshot-restore.
	ctx.PerformAutomaticBackup()

	if err := storage.Import(ctx.Store, data); err != nil {
		return err
	}

	// Pick up the imported state in this process.
	m, err := ctx.Manager()
	if err != nil {
		return err
	}
	if err := m.Reload(); err != nil {
		return err
	}

	fmt.Printf("✓ Imported %d habits.\n", len(m.AllHabits()))
	return nil
}
