package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/jmercier/habitflow/internal/habit"
	"github.com/jmercier/habitflow/internal/manager"
	"github.com/jmercier/habitflow/internal/notify"
	"github.com/jmercier/habitflow/internal/stats"
	"github.com/jmercier/habitflow/internal/tui/components/dashboard"
	"github.com/jmercier/habitflow/internal/tui/components/habitlist"
)

type SessionState int

const (
	StateToday SessionState = iota
	StateHabits
	StateStats
	StateForm
	StateConfirmDelete
)

// tabCount covers only the tab states the user can cycle through.
const tabCount = 3

type HabitFormModel struct {
	Name     string
	Icon     string
	Color    string
	Schedule string
	Reminder string
}

type Model struct {
	mgr    *manager.Manager
	engine *stats.Engine

	state         SessionState
	previousState SessionState
	keys          KeyMap
	help          help.Model

	todayList  habitlist.Model
	habitList  habitlist.Model
	statsModel dashboard.Model

	form      *huh.Form
	habitForm *HabitFormModel
	editingID string

	habitToDeleteID string

	statusMsg string
	quitting  bool
	width     int
	height    int
}

func NewModel(mgr *manager.Manager) Model {
	m := Model{
		mgr:        mgr,
		engine:     stats.New(mgr),
		state:      StateToday,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		todayList:  habitlist.New(nil, 0, 0),
		habitList:  habitlist.New(nil, 0, 0),
		statsModel: dashboard.New(0, 0),
	}
	m.refresh()
	return m
}

// refresh rebuilds both lists and the stats dashboard from the manager.
// Called after every mutation so the views never go stale.
func (m *Model) refresh() {
	today := m.mgr.Today()
	now := m.mgr.Now()

	m.todayList.SetEntries(entriesFor(m.mgr.TodayHabits(), today, now))
	m.habitList.SetEntries(entriesFor(m.mgr.ActiveHabits(), today, now))

	data := dashboard.Data{
		Summary: m.engine.Summarize(),
		Series:  m.engine.ProgressSeries(7),
	}
	for _, hs := range m.engine.TopHabits(3) {
		trend, err := m.engine.TrendFor(hs.ID)
		if err != nil {
			continue
		}
		data.Trends = append(data.Trends, dashboard.HabitTrend{Name: hs.Name, Trend: trend})
	}
	m.statsModel.SetData(data)
}

func entriesFor(habits []*habit.Habit, today string, now time.Time) []habitlist.Entry {
	entries := make([]habitlist.Entry, len(habits))
	for i, h := range habits {
		entries[i] = habitlist.Entry{
			Habit:     h,
			Completed: h.IsCompletedOn(today),
			Streak:    h.CurrentStreak(now),
			InDanger:  h.IsStreakInDanger(now),
		}
	}
	return entries
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case StateToday:
		keys = append(keys, m.keys.Toggle)
	case StateHabits:
		keys = append(keys, m.keys.Add, m.keys.Edit, m.keys.Delete)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help, m.keys.Refresh}
	navigation := []key.Binding{m.keys.Up, m.keys.Down, m.keys.Left, m.keys.Right, m.keys.Enter}

	var actions []key.Binding
	switch m.state {
	case StateToday:
		actions = []key.Binding{m.keys.Toggle}
	case StateHabits:
		actions = []key.Binding{m.keys.Toggle, m.keys.Add, m.keys.Edit, m.keys.Delete, m.keys.Archive}
	}

	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// startForm opens the add/edit form. An empty id means a new habit.
func (m *Model) startForm(id string, in habit.Input) {
	m.habitForm = &HabitFormModel{
		Name:     in.Name,
		Icon:     in.Icon,
		Color:    in.Color,
		Schedule: in.Schedule.String(),
		Reminder: in.ReminderTime,
	}
	m.editingID = id

	title := "New habit"
	if id != "" {
		title = "Edit habit"
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Description("Name").
				Value(&m.habitForm.Name),
			huh.NewInput().
				Description("Icon").
				Placeholder("⭐").
				Value(&m.habitForm.Icon),
			huh.NewInput().
				Description("Color").
				Placeholder("#3498db").
				Value(&m.habitForm.Color),
			huh.NewInput().
				Description("Schedule (daily or e.g. mon,wed,fri)").
				Value(&m.habitForm.Schedule),
			huh.NewInput().
				Description("Reminder (HH:MM, empty for none)").
				Value(&m.habitForm.Reminder),
		),
	)
	m.previousState = m.state
	m.state = StateForm
}

// submitForm applies the completed form through the manager.
func (m *Model) submitForm() {
	f := m.habitForm
	sched, err := habit.ParseSchedule(f.Schedule)
	if err != nil {
		m.statusMsg = err.Error()
		m.state = m.previousState
		return
	}

	in := habit.Input{
		Name:         f.Name,
		Icon:         f.Icon,
		Color:        f.Color,
		Schedule:     sched,
		ReminderTime: f.Reminder,
	}

	if m.editingID == "" {
		_, err = m.mgr.Create(in)
	} else {
		_, err = m.mgr.Update(m.editingID, in)
	}
	if err != nil {
		m.statusMsg = err.Error()
	} else {
		m.statusMsg = ""
	}

	m.form = nil
	m.habitForm = nil
	m.editingID = ""
	m.state = m.previousState
	m.refresh()
}

// toggle flips today's completion for a habit and surfaces milestone
// messages in the status line.
func (m *Model) toggle(id string) {
	completed, err := m.mgr.ToggleCompletion(id, m.mgr.Today())
	if err != nil {
		m.statusMsg = err.Error()
		return
	}
	m.statusMsg = ""
	if completed {
		if h, err := m.mgr.HabitByID(id); err == nil {
			if msg := notify.MilestoneMessage(h.CurrentStreak(m.mgr.Now())); msg != "" {
				m.statusMsg = msg
			}
		}
	}
	m.refresh()
}
