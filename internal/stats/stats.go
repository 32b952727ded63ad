// Package stats computes aggregate figures over the habit collection.
// Every query recomputes from the manager's current state; nothing is
// cached, so results can never go stale.
package stats

import (
	"sort"
	"time"

	"github.com/jmercier/habitflow/internal/dateutil"
	"github.com/jmercier/habitflow/internal/habit"
	"github.com/jmercier/habitflow/internal/manager"
)

// Engine answers statistics queries against a manager.
type Engine struct {
	m *manager.Manager
}

func New(m *manager.Manager) *Engine {
	return &Engine{m: m}
}

// Global aggregates across all active habits. An empty collection
// yields the zero value.
type Global struct {
	ActiveHabits     int `json:"activeHabits"`
	ArchivedHabits   int `json:"archivedHabits"`
	TotalCompletions int `json:"totalCompletions"`
	AverageRate      int `json:"averageRate"`
	BestStreak       int `json:"bestStreak"`
	BestCurrent      int `json:"bestCurrent"`
	TodayPercentage  int `json:"todayPercentage"`
}

func (e *Engine) Global() Global {
	active := e.m.ActiveHabits()
	out := Global{ArchivedHabits: len(e.m.ArchivedHabits())}
	if len(active) == 0 {
		return out
	}

	today := e.m.Now()
	out.ActiveHabits = len(active)
	rateSum := 0
	for _, h := range active {
		out.TotalCompletions += h.TotalCompletions()
		rateSum += h.SuccessRate(today, 30)
		if best := h.BestStreak(); best > out.BestStreak {
			out.BestStreak = best
		}
		if cur := h.CurrentStreak(today); cur > out.BestCurrent {
			out.BestCurrent = cur
		}
	}
	out.AverageRate = int(float64(rateSum)/float64(len(active)) + 0.5)
	out.TodayPercentage = e.m.CompletionPercentage(e.m.Today())
	return out
}

// HabitStats is the per-habit summary bundle.
type HabitStats struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	CurrentStreak    int               `json:"currentStreak"`
	BestStreak       int               `json:"bestStreak"`
	TotalCompletions int               `json:"totalCompletions"`
	Rate7            int               `json:"rate7"`
	Rate30           int               `json:"rate30"`
	LastCompleted    string            `json:"lastCompleted,omitempty"`
	Level            habit.StreakLevel `json:"level"`
	IsRecord         bool              `json:"isRecord"`
	InDanger         bool              `json:"inDanger"`
}

func (e *Engine) HabitStats(id string) (HabitStats, error) {
	h, err := e.m.HabitByID(id)
	if err != nil {
		return HabitStats{}, err
	}
	return e.habitStats(h), nil
}

func (e *Engine) habitStats(h *habit.Habit) HabitStats {
	today := e.m.Now()
	return HabitStats{
		ID:               h.ID,
		Name:             h.Name,
		CurrentStreak:    h.CurrentStreak(today),
		BestStreak:       h.BestStreak(),
		TotalCompletions: h.TotalCompletions(),
		Rate7:            h.SuccessRate(today, 7),
		Rate30:           h.SuccessRate(today, 30),
		LastCompleted:    h.LastCompletionDay(),
		Level:            h.StreakLevel(today),
		IsRecord:         h.IsRecordStreak(today),
		InDanger:         h.IsStreakInDanger(today),
	}
}

// AllHabitStats returns per-habit bundles for every active habit in
// insertion order.
func (e *Engine) AllHabitStats() []HabitStats {
	active := e.m.ActiveHabits()
	out := make([]HabitStats, 0, len(active))
	for _, h := range active {
		out = append(out, e.habitStats(h))
	}
	return out
}

// MonthStats classifies each day of a month. A day is active when at
// least one habit is scheduled on it, completed when at least one of
// those was done, and perfect when all of them were.
type MonthStats struct {
	Year           int `json:"year"`
	Month          int `json:"month"`
	ActiveDays     int `json:"activeDays"`
	CompletedDays  int `json:"completedDays"`
	PerfectDays    int `json:"perfectDays"`
	CompletionRate int `json:"completionRate"`
	PerfectRate    int `json:"perfectRate"`
}

func (e *Engine) MonthStats(year int, month time.Month) MonthStats {
	out := MonthStats{Year: year, Month: int(month)}
	anchor := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	for _, day := range dateutil.DaysInMonth(anchor) {
		key := dateutil.FormatDay(day)
		scheduled, err := e.m.HabitsForDate(key)
		if err != nil || len(scheduled) == 0 {
			continue
		}
		out.ActiveDays++
		done := 0
		for _, h := range scheduled {
			if h.IsCompletedOn(key) {
				done++
			}
		}
		if done > 0 {
			out.CompletedDays++
		}
		if done == len(scheduled) {
			out.PerfectDays++
		}
	}
	if out.ActiveDays > 0 {
		out.CompletionRate = percent(out.CompletedDays, out.ActiveDays)
		out.PerfectRate = percent(out.PerfectDays, out.ActiveDays)
	}
	return out
}

func (e *Engine) CurrentMonthStats() MonthStats {
	now := e.m.Now()
	return e.MonthStats(now.Year(), now.Month())
}

// SeriesPoint is one day in a chart series.
type SeriesPoint struct {
	Day        string `json:"day"`
	Total      int    `json:"total"`
	Completed  int    `json:"completed"`
	Percentage int    `json:"percentage"`
}

// ProgressSeries returns the trailing n days ending today, oldest first.
func (e *Engine) ProgressSeries(n int) []SeriesPoint {
	today := dateutil.Truncate(e.m.Now())
	out := make([]SeriesPoint, 0, n)
	for i := n - 1; i >= 0; i-- {
		out = append(out, e.pointFor(dateutil.AddDays(today, -i)))
	}
	return out
}

// WeeklySeries returns the current Monday-anchored week, Monday first.
func (e *Engine) WeeklySeries() []SeriesPoint {
	start := dateutil.WeekStart(e.m.Now())
	out := make([]SeriesPoint, 0, 7)
	for i := 0; i < 7; i++ {
		out = append(out, e.pointFor(dateutil.AddDays(start, i)))
	}
	return out
}

func (e *Engine) pointFor(day time.Time) SeriesPoint {
	key := dateutil.FormatDay(day)
	return SeriesPoint{
		Day:        key,
		Total:      e.m.TotalCount(key),
		Completed:  e.m.CompletedCount(key),
		Percentage: e.m.CompletionPercentage(key),
	}
}

// HeatmapDay is one cell of the year heatmap.
type HeatmapDay struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
	Level int    `json:"level"`
}

// Heatmap counts scheduled habits completed per day across a calendar
// year and buckets each day's intensity into levels 0 to 4.
func (e *Engine) Heatmap(year int) []HeatmapDay {
	habits := e.m.ActiveHabits()

	counts := make(map[string]int)
	maxCount := 0
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.Local)
	end := time.Date(year, time.December, 31, 0, 0, 0, 0, time.Local)
	for day := start; !day.After(end); day = dateutil.AddDays(day, 1) {
		key := dateutil.FormatDay(day)
		n := 0
		for _, h := range habits {
			// Off-schedule completions do not light up the cell.
			if h.IsActiveOn(day) && h.IsCompletedOn(key) {
				n++
			}
		}
		counts[key] = n
		if n > maxCount {
			maxCount = n
		}
	}

	out := make([]HeatmapDay, 0, len(counts))
	for day := start; !day.After(end); day = dateutil.AddDays(day, 1) {
		key := dateutil.FormatDay(day)
		out = append(out, HeatmapDay{
			Day:   key,
			Count: counts[key],
			Level: HeatmapLevel(counts[key], maxCount),
		})
	}
	return out
}

// HeatmapLevel buckets a day count against the year's maximum. Zero
// counts are always level 0, and a zero maximum forces level 0
// everywhere.
func HeatmapLevel(count, maxCount int) int {
	if count == 0 || maxCount == 0 {
		return 0
	}
	ratio := float64(count) / float64(maxCount) * 100
	switch {
	case ratio < 25:
		return 1
	case ratio < 50:
		return 2
	case ratio < 75:
		return 3
	default:
		return 4
	}
}

// Trend directions.
const (
	TrendImproving = "improving"
	TrendStable    = "stable"
	TrendDeclining = "declining"
)

// Trend compares a habit's recent week against its month.
type Trend struct {
	Rate7     int    `json:"rate7"`
	Rate30    int    `json:"rate30"`
	Direction string `json:"direction"`
}

// TrendFor classifies improving when the 7-day rate beats the 30-day
// rate by more than 10 points, declining in the opposite case.
func (e *Engine) TrendFor(id string) (Trend, error) {
	h, err := e.m.HabitByID(id)
	if err != nil {
		return Trend{}, err
	}
	today := e.m.Now()
	t := Trend{
		Rate7:  h.SuccessRate(today, 7),
		Rate30: h.SuccessRate(today, 30),
	}
	switch delta := t.Rate7 - t.Rate30; {
	case delta > 10:
		t.Direction = TrendImproving
	case delta < -10:
		t.Direction = TrendDeclining
	default:
		t.Direction = TrendStable
	}
	return t, nil
}

// streak milestones, ascending
var milestones = []int{7, 21, 30, 50, 100}

// Projection estimates a habit's next streak milestone.
type Projection struct {
	CurrentStreak int    `json:"currentStreak"`
	NextMilestone int    `json:"nextMilestone"`
	DaysRemaining int    `json:"daysRemaining"`
	EstimatedDate string `json:"estimatedDate,omitempty"`
	Probability   int    `json:"probability"`
	Achieved      bool   `json:"achieved"`
}

// ProjectionFor reports the smallest milestone above the current
// streak, when it would land, and a rough probability derived from the
// 30-day success rate. A streak at or past the last milestone reports
// achieved with full probability.
func (e *Engine) ProjectionFor(id string) (Projection, error) {
	h, err := e.m.HabitByID(id)
	if err != nil {
		return Projection{}, err
	}
	today := e.m.Now()
	p := Projection{CurrentStreak: h.CurrentStreak(today)}

	next := 0
	for _, ms := range milestones {
		if ms > p.CurrentStreak {
			next = ms
			break
		}
	}
	if next == 0 {
		p.Achieved = true
		p.Probability = 100
		return p, nil
	}

	p.NextMilestone = next
	p.DaysRemaining = next - p.CurrentStreak
	p.EstimatedDate = dateutil.FormatDay(dateutil.AddDays(dateutil.Truncate(today), p.DaysRemaining))
	prob := int(float64(h.SuccessRate(today, 30))*0.9 + 0.5)
	if prob > 100 {
		prob = 100
	}
	p.Probability = prob
	return p, nil
}

// TopHabits returns up to n active habits ranked by 30-day success
// rate, ties broken by insertion order.
func (e *Engine) TopHabits(n int) []HabitStats {
	all := e.AllHabitStats()
	sort.SliceStable(all, func(i, j int) bool { return all[i].Rate30 > all[j].Rate30 })
	if len(all) > n {
		all = all[:n]
	}
	return all
}

// TopStreaks returns up to n active habits with a running streak,
// ranked by current streak. Habits at zero never place.
func (e *Engine) TopStreaks(n int) []HabitStats {
	var running []HabitStats
	for _, hs := range e.AllHabitStats() {
		if hs.CurrentStreak > 0 {
			running = append(running, hs)
		}
	}
	sort.SliceStable(running, func(i, j int) bool { return running[i].CurrentStreak > running[j].CurrentStreak })
	if len(running) > n {
		running = running[:n]
	}
	return running
}

// ConsistencyScore blends a habit's 30-day rate with its streak
// momentum into a 0 to 100 score. The streak term saturates at 30
// days.
func (e *Engine) ConsistencyScore(id string) (int, error) {
	h, err := e.m.HabitByID(id)
	if err != nil {
		return 0, err
	}
	today := e.m.Now()
	streak := float64(h.CurrentStreak(today))
	if streak > 30 {
		streak = 30
	}
	score := 0.7*float64(h.SuccessRate(today, 30)) + 0.3*(streak/30)*100
	if score > 100 {
		score = 100
	}
	return int(score + 0.5), nil
}

// DayScore grades a day's completion percentage.
func (e *Engine) DayScore(day string) string {
	return gradeFor(e.m.CompletionPercentage(day))
}

func gradeFor(pct int) string {
	switch {
	case pct >= 90:
		return "A+"
	case pct >= 80:
		return "A"
	case pct >= 70:
		return "B"
	case pct >= 60:
		return "C"
	case pct >= 50:
		return "D"
	default:
		return "F"
	}
}

func percent(part, total int) int {
	return int(float64(part)/float64(total)*100 + 0.5)
}
