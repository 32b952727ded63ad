package cli

import (
	"fmt"
	"time"

	"github.com/jmercier/habitflow/internal/habit"
)

type AddCmd struct {
	Name     string `arg:"" help:"Habit name."`
	Icon     string `short:"i" help:"Icon (up to 5 characters)."`
	Color    string `short:"c" help:"Hex color like #3498db."`
	Schedule string `short:"s" help:"Schedule: 'daily' or comma-separated weekdays." default:"daily"`
	Remind   string `short:"r" help:"Reminder time (HH:MM)."`
}

func (c *AddCmd) Run(ctx *Context) error {
	m, err := ctx.Manager()
	if err != nil {
		return err
	}

	schedule, err := habit.ParseSchedule(c.Schedule)
	if err != nil {
		return err
	}

	h, err := m.Create(habit.Input{
		Name:         c.Name,
		Icon:         c.Icon,
		Color:        c.Color,
		Schedule:     schedule,
		ReminderTime: c.Remind,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Added habit: %s %s (ID: %s)\n", h.Icon, h.Name, h.ID)
	return nil
}

type EditCmd struct {
	Habit    string `arg:"" help:"Habit name or ID."`
	Name     string `help:"New name."`
	Icon     string `short:"i" help:"New icon."`
	Color    string `short:"c" help:"New hex color."`
	Schedule string `short:"s" help:"New schedule: 'daily' or comma-separated weekdays."`
	Remind   string `short:"r" help:"New reminder time (HH:MM), or 'off' to clear."`
}

func (c *EditCmd) Run(ctx *Context) error {
	m, err := ctx.Manager()
	if err != nil {
		return err
	}
	h, err := findHabit(m, c.Habit)
	if err != nil {
		return err
	}

	// Start from the current fields and overlay what was given.
	in := habit.InputOf(h)
	if c.Name != "" {
		in.Name = c.Name
	}
	if c.Icon != "" {
		in.Icon = c.Icon
	}
	if c.Color != "" {
		in.Color = c.Color
	}
	if c.Schedule != "" {
		schedule, err := habit.ParseSchedule(c.Schedule)
		if err != nil {
			return err
		}
		in.Schedule = schedule
	}
	switch c.Remind {
	case "":
	case "off":
		in.ReminderTime = ""
	default:
		in.ReminderTime = c.Remind
	}

	updated, err := m.Update(h.ID, in)
	if err != nil {
		return err
	}
	fmt.Printf("Updated habit: %s %s\n", updated.Icon, updated.Name)
	return nil
}

type DeleteCmd struct {
	Habit string `arg:"" help:"Habit name or ID."`
	Yes   bool   `short:"y" help:"Skip confirmation."`
}

func (c *DeleteCmd) Run(ctx *Context) error {
	m, err := ctx.Manager()
	if err != nil {
		return err
	}
	h, err := findHabit(m, c.Habit)
	if err != nil {
		return err
	}

	prompt := fmt.Sprintf("Delete %q and all %d completions? This cannot be undone.", h.Name, h.TotalCompletions())
	if !confirm(prompt, c.Yes) {
		fmt.Println("Delete cancelled.")
		return nil
	}

	if err := m.Delete(h.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted habit: %s\n", h.Name)
	return nil
}

type ArchiveCmd struct {
	Habit string `arg:"" help:"Habit name or ID."`
}

func (c *ArchiveCmd) Run(ctx *Context) error {
	m, err := ctx.Manager()
	if err != nil {
		return err
	}
	h, err := findHabit(m, c.Habit)
	if err != nil {
		return err
	}
	if err := m.Archive(h.ID); err != nil {
		return err
	}
	fmt.Printf("Archived habit: %s (history kept)\n", h.Name)
	return nil
}

type UnarchiveCmd struct {
	Habit string `arg:"" help:"Habit name or ID."`
}

func (c *UnarchiveCmd) Run(ctx *Context) error {
	m, err := ctx.Manager()
	if err != nil {
		return err
	}
	h, err := findHabit(m, c.Habit)
	if err != nil {
		return err
	}
	if err := m.Unarchive(h.ID); err != nil {
		return err
	}
	fmt.Printf("Restored habit: %s\n", h.Name)
	return nil
}

type ListCmd struct {
	Archived bool   `short:"a" help:"Show archived habits instead."`
	Sort     string `help:"Sort by: name|created|streak|success." default:"created"`
	Desc     bool   `help:"Sort descending."`
	Search   string `short:"q" help:"Filter by name substring."`
}

func (c *ListCmd) Run(ctx *Context) error {
	m, err := ctx.Manager()
	if err != nil {
		return err
	}

	var habits []*habit.Habit
	switch {
	case c.Archived:
		habits = m.ArchivedHabits()
	case c.Search != "":
		habits = m.Search(c.Search)
	default:
		habits, err = m.Sorted(c.Sort, c.Desc)
		if err != nil {
			return err
		}
	}

	if len(habits) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	today := m.Now()
	todayKey := m.Today()
	for _, h := range habits {
		streak := h.CurrentStreak(today)
		fmt.Printf("  %s %s %s  (%s, streak %d, %d%% this month)\n",
			checkmark(h.IsCompletedOn(todayKey)), h.Icon, h.Name,
			h.Schedule, streak, h.SuccessRate(today, 30))
		fmt.Printf("      ID: %.8s  best %d  total %d%s\n",
			h.ID, h.BestStreak(), h.TotalCompletions(), dangerNote(h, today))
	}
	return nil
}

func dangerNote(h *habit.Habit, today time.Time) string {
	if h.IsStreakInDanger(today) {
		return "  ⚠ streak in danger"
	}
	return ""
}
