package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/jmercier/habitflow/internal/dateutil"
	"github.com/jmercier/habitflow/internal/habit"
	"github.com/jmercier/habitflow/internal/stats"
)

type StatsCmd struct {
	Habit string `arg:"" optional:"" help:"Habit name or ID for per-habit stats."`
}

func (c *StatsCmd) Run(ctx *Context) error {
	m, err := ctx.Manager()
	if err != nil {
		return err
	}
	engine := stats.New(m)

	if c.Habit != "" {
		h, err := findHabit(m, c.Habit)
		if err != nil {
			return err
		}
		return printHabitStats(engine, h.ID)
	}

	summary := engine.Summarize()
	g := summary.Global

	fmt.Println("Overview")
	fmt.Printf("  Active habits:      %d (%d archived)\n", g.ActiveHabits, g.ArchivedHabits)
	fmt.Printf("  Total completions:  %d\n", g.TotalCompletions)
	fmt.Printf("  Average 30-day:     %d%%\n", g.AverageRate)
	fmt.Printf("  Best streak ever:   %d days\n", g.BestStreak)
	fmt.Printf("  Best streak now:    %d days\n", g.BestCurrent)
	fmt.Printf("  Today:              %d%% (grade %s)\n", g.TodayPercentage, summary.Grade)

	mo := summary.Month
	fmt.Printf("\nThis month: %d/%d days with progress, %d perfect (%d%% / %d%%)\n",
		mo.CompletedDays, mo.ActiveDays, mo.PerfectDays, mo.CompletionRate, mo.PerfectRate)

	if len(summary.TopStreak) > 0 {
		fmt.Println("\nTop streaks")
		for _, hs := range summary.TopStreak {
			fmt.Printf("  %3d days  %s\n", hs.CurrentStreak, hs.Name)
		}
	}
	return nil
}

func printHabitStats(engine *stats.Engine, id string) error {
	hs, err := engine.HabitStats(id)
	if err != nil {
		return err
	}

	fmt.Printf("%s\n", hs.Name)
	fmt.Printf("  Current streak:    %d days (%s)%s\n", hs.CurrentStreak, levelName(hs.Level), recordNote(hs))
	fmt.Printf("  Best streak:       %d days\n", hs.BestStreak)
	fmt.Printf("  Total completions: %d\n", hs.TotalCompletions)
	fmt.Printf("  Success rate:      %d%% (7d) / %d%% (30d)\n", hs.Rate7, hs.Rate30)
	if hs.LastCompleted != "" {
		fmt.Printf("  Last completed:    %s\n", hs.LastCompleted)
	}
	if hs.InDanger {
		fmt.Println("  ⚠ Streak in danger: complete it today!")
	}

	trend, err := engine.TrendFor(id)
	if err != nil {
		return err
	}
	fmt.Printf("  Trend:             %s\n", trend.Direction)

	score, err := engine.ConsistencyScore(id)
	if err != nil {
		return err
	}
	fmt.Printf("  Consistency:       %d/100\n", score)

	proj, err := engine.ProjectionFor(id)
	if err != nil {
		return err
	}
	if proj.Achieved {
		fmt.Println("  Milestones:        all reached 🏆")
	} else {
		fmt.Printf("  Next milestone:    %d days (%d to go, ~%s, %d%% likely)\n",
			proj.NextMilestone, proj.DaysRemaining, proj.EstimatedDate, proj.Probability)
	}
	return nil
}

func levelName(level habit.StreakLevel) string {
	switch level {
	case habit.LevelBronze:
		return "bronze"
	case habit.LevelSilver:
		return "silver"
	case habit.LevelGold:
		return "gold"
	case habit.LevelPlatinum:
		return "platinum"
	default:
		return "no streak"
	}
}

func recordNote(hs stats.HabitStats) string {
	if hs.IsRecord {
		return "  🏆 personal record"
	}
	return ""
}

type MonthCmd struct {
	Month string `arg:"" optional:"" help:"Month to show (YYYY-MM), defaults to current."`
}

func (c *MonthCmd) Run(ctx *Context) error {
	m, err := ctx.Manager()
	if err != nil {
		return err
	}
	engine := stats.New(m)

	var ms stats.MonthStats
	if c.Month == "" {
		ms = engine.CurrentMonthStats()
	} else {
		t, err := time.ParseInLocation("2006-01", c.Month, time.Local)
		if err != nil {
			return fmt.Errorf("invalid month %q (want YYYY-MM): %w", c.Month, err)
		}
		ms = engine.MonthStats(t.Year(), t.Month())
	}

	fmt.Printf("%04d-%02d\n", ms.Year, ms.Month)
	fmt.Printf("  Active days:    %d\n", ms.ActiveDays)
	fmt.Printf("  Days with wins: %d (%d%%)\n", ms.CompletedDays, ms.CompletionRate)
	fmt.Printf("  Perfect days:   %d (%d%%)\n", ms.PerfectDays, ms.PerfectRate)
	return nil
}

type HeatmapCmd struct {
	Year int `arg:"" optional:"" help:"Year to render, defaults to current."`
}

var heatmapGlyphs = []string{"·", "░", "▒", "▓", "█"}

func (c *HeatmapCmd) Run(ctx *Context) error {
	m, err := ctx.Manager()
	if err != nil {
		return err
	}
	year := c.Year
	if year == 0 {
		year = m.Now().Year()
	}

	days := stats.New(m).Heatmap(year)
	byDay := make(map[string]stats.HeatmapDay, len(days))
	for _, d := range days {
		byDay[d.Day] = d
	}

	fmt.Printf("%d\n", year)
	for month := time.January; month <= time.December; month++ {
		var row strings.Builder
		fmt.Fprintf(&row, "  %s ", month.String()[:3])
		anchor := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
		for _, day := range dateutil.DaysInMonth(anchor) {
			cell := byDay[dateutil.FormatDay(day)]
			row.WriteString(heatmapGlyphs[cell.Level])
		}
		fmt.Println(row.String())
	}
	fmt.Printf("\n  %s none → %s most\n", heatmapGlyphs[0], heatmapGlyphs[4])
	return nil
}

type ChartCmd struct {
	Days int  `short:"n" help:"Days of history to chart." default:"14"`
	Week bool `short:"w" help:"Chart the current week instead."`
}

func (c *ChartCmd) Run(ctx *Context) error {
	m, err := ctx.Manager()
	if err != nil {
		return err
	}
	engine := stats.New(m)

	var series []stats.SeriesPoint
	if c.Week {
		series = engine.WeeklySeries()
	} else {
		if c.Days < 1 {
			return fmt.Errorf("days must be at least 1")
		}
		series = engine.ProgressSeries(c.Days)
	}

	for _, point := range series {
		bar := strings.Repeat("█", point.Percentage/5)
		fmt.Printf("  %s %3d%% %-20s %d/%d\n", point.Day, point.Percentage, bar, point.Completed, point.Total)
	}
	return nil
}
