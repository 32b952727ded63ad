package stats

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/jmercier/habitflow/internal/dateutil"
)

// Summary is the digest the stats command prints.
type Summary struct {
	Global    Global       `json:"global"`
	Month     MonthStats   `json:"month"`
	TopStreak []HabitStats `json:"topStreaks"`
	Grade     string       `json:"grade"`
}

// Summarize composes the global figures, the current month and the
// three best streaks into one report.
func (e *Engine) Summarize() Summary {
	return Summary{
		Global:    e.Global(),
		Month:     e.CurrentMonthStats(),
		TopStreak: e.TopStreaks(3),
		Grade:     e.DayScore(e.m.Today()),
	}
}

// ExportCSV writes one row per habit, archived included, with its
// headline figures. Completions are not expanded; use the JSON bundle
// export for full history.
func (e *Engine) ExportCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	header := []string{
		"id", "name", "schedule", "archived", "createdAt",
		"currentStreak", "bestStreak", "totalCompletions", "rate30", "lastCompleted",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	today := e.m.Now()
	for _, h := range e.m.AllHabits() {
		row := []string{
			h.ID,
			h.Name,
			h.Schedule.String(),
			strconv.FormatBool(h.Archived),
			dateutil.FormatDay(h.CreatedAt),
			strconv.Itoa(h.CurrentStreak(today)),
			strconv.Itoa(h.BestStreak()),
			strconv.Itoa(h.TotalCompletions()),
			strconv.Itoa(h.SuccessRate(today, 30)),
			h.LastCompletionDay(),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}
