package cli

import (
	"fmt"

	"github.com/jmercier/habitflow/internal/dateutil"
)

type TodayCmd struct{}

func (c *TodayCmd) Run(ctx *Context) error {
	m, err := ctx.Manager()
	if err != nil {
		return err
	}
	return printDay(ctx, m.Today())
}

type DayCmd struct {
	Date string `arg:"" help:"Day to show (YYYY-MM-DD)."`
}

func (c *DayCmd) Run(ctx *Context) error {
	if _, err := dateutil.ParseDay(c.Date); err != nil {
		return err
	}
	if _, err := ctx.Manager(); err != nil {
		return err
	}
	return printDay(ctx, c.Date)
}

func printDay(ctx *Context, day string) error {
	m, err := ctx.Manager()
	if err != nil {
		return err
	}
	habits, err := m.HabitsForDate(day)
	if err != nil {
		return err
	}

	t, err := dateutil.ParseDay(day)
	if err != nil {
		return err
	}
	fmt.Printf("%s (%s)\n", day, t.Weekday())

	if len(habits) == 0 {
		fmt.Println("  Nothing scheduled.")
		return nil
	}

	for _, h := range habits {
		fmt.Printf("  %s %s %s\n", checkmark(h.IsCompletedOn(day)), h.Icon, h.Name)
	}
	fmt.Printf("\n%d/%d done (%d%%)\n", m.CompletedCount(day), m.TotalCount(day), m.CompletionPercentage(day))

	if danger := m.HabitsInDanger(); day == m.Today() && len(danger) > 0 {
		fmt.Println()
		for _, h := range danger {
			fmt.Printf("⚠ %s: %d-day streak in danger\n", h.Name, h.CurrentStreak(m.Now()))
		}
	}
	return nil
}
