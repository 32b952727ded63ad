package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmercier/habitflow/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *Context) error {
	m, err := ctx.Manager()
	if err != nil {
		return err
	}

	// Automatic backup on TUI startup, after a successful load.
	ctx.PerformAutomaticBackup()

	p := tea.NewProgram(tui.NewModel(m), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

type ResetCmd struct {
	Yes bool `short:"y" help:"Skip confirmation."`
}

func (c *ResetCmd) Run(ctx *Context) error {
	m, err := ctx.Manager()
	if err != nil {
		return err
	}
	if !confirm("Delete ALL habits and reset settings? This cannot be undone.", c.Yes) {
		fmt.Println("Reset cancelled.")
		return nil
	}
	ctx.PerformAutomaticBackup()
	if err := m.Reset(); err != nil {
		return err
	}
	fmt.Println("✓ Store reset.")
	return nil
}
