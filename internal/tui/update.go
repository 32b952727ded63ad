package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/jmercier/habitflow/internal/habit"
	"github.com/jmercier/habitflow/internal/tui/components/habitlist"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		contentHeight := msg.Height - 4
		m.todayList.SetSize(msg.Width-4, contentHeight)
		m.habitList.SetSize(msg.Width-4, contentHeight)
		m.statsModel.SetSize(msg.Width-4, contentHeight)

	case habitlist.ToggleHabitMsg:
		m.toggle(msg.ID)
		return m, nil

	case habitlist.AddHabitMsg:
		m.startForm("", habit.Input{Schedule: habit.Daily()})
		return m, m.form.Init()

	case habitlist.EditHabitMsg:
		m.startForm(msg.Habit.ID, habit.InputOf(msg.Habit))
		return m, m.form.Init()

	case habitlist.DeleteHabitMsg:
		m.habitToDeleteID = msg.ID
		m.previousState = m.state
		m.state = StateConfirmDelete
		return m, nil

	case habitlist.ArchiveHabitMsg:
		if err := m.mgr.Archive(msg.ID); err != nil {
			m.statusMsg = err.Error()
		} else {
			m.statusMsg = ""
		}
		m.refresh()
		return m, nil
	}

	switch m.state {
	case StateForm:
		return m.updateForm(msg)
	case StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Tab), key.Matches(msg, m.keys.Right):
			m.state = (m.state + 1) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab), key.Matches(msg, m.keys.Left):
			m.state = (m.state - 1 + tabCount) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			if err := m.mgr.Reload(); err != nil {
				m.statusMsg = err.Error()
			} else {
				m.statusMsg = ""
			}
			m.refresh()
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case StateToday:
		m.todayList, cmd = m.todayList.Update(msg)
	case StateHabits:
		m.habitList, cmd = m.habitList.Update(msg)
	case StateStats:
		m.statsModel, cmd = m.statsModel.Update(msg)
	}
	return m, cmd
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
		m.form = nil
		m.habitForm = nil
		m.editingID = ""
		m.state = m.previousState
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.submitForm()
		return m, nil
	}
	return m, cmd
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "y", "Y":
			if err := m.mgr.Delete(m.habitToDeleteID); err != nil {
				m.statusMsg = err.Error()
			} else {
				m.statusMsg = ""
			}
			m.habitToDeleteID = ""
			m.state = m.previousState
			m.refresh()
		case "n", "N", "esc", "q":
			m.habitToDeleteID = ""
			m.state = m.previousState
		}
	}
	return m, nil
}
