package cli

import (
	"fmt"

	"github.com/jmercier/habitflow/internal/notify"
)

type DoneCmd struct {
	Habit string `arg:"" help:"Habit name or ID."`
	Date  string `short:"d" help:"Day to mark (YYYY-MM-DD), defaults to today."`
}

func (c *DoneCmd) Run(ctx *Context) error {
	m, err := ctx.Manager()
	if err != nil {
		return err
	}
	h, err := findHabit(m, c.Habit)
	if err != nil {
		return err
	}
	day, err := resolveDay(m, c.Date)
	if err != nil {
		return err
	}

	if err := m.Complete(h.ID, day); err != nil {
		return err
	}
	fmt.Printf("✓ %s completed on %s\n", h.Name, day)

	// Celebrate milestones when the completion lands on today.
	if day == m.Today() {
		updated, err := m.HabitByID(h.ID)
		if err == nil {
			if msg := notify.MilestoneMessage(updated.CurrentStreak(m.Now())); msg != "" {
				fmt.Printf("🎉 %s\n", msg)
			}
		}
	}
	return nil
}

type UndoCmd struct {
	Habit string `arg:"" help:"Habit name or ID."`
	Date  string `short:"d" help:"Day to clear (YYYY-MM-DD), defaults to today."`
}

func (c *UndoCmd) Run(ctx *Context) error {
	m, err := ctx.Manager()
	if err != nil {
		return err
	}
	h, err := findHabit(m, c.Habit)
	if err != nil {
		return err
	}
	day, err := resolveDay(m, c.Date)
	if err != nil {
		return err
	}

	if err := m.Uncomplete(h.ID, day); err != nil {
		return err
	}
	fmt.Printf("Cleared %s on %s\n", h.Name, day)
	return nil
}

type ToggleCmd struct {
	Habit string `arg:"" help:"Habit name or ID."`
	Date  string `short:"d" help:"Day to toggle (YYYY-MM-DD), defaults to today."`
}

func (c *ToggleCmd) Run(ctx *Context) error {
	m, err := ctx.Manager()
	if err != nil {
		return err
	}
	h, err := findHabit(m, c.Habit)
	if err != nil {
		return err
	}
	day, err := resolveDay(m, c.Date)
	if err != nil {
		return err
	}

	completed, err := m.ToggleCompletion(h.ID, day)
	if err != nil {
		return err
	}
	if completed {
		fmt.Printf("✓ %s completed on %s\n", h.Name, day)
	} else {
		fmt.Printf("Cleared %s on %s\n", h.Name, day)
	}
	return nil
}
