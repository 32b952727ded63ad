package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string

	switch m.state {
	case StateToday:
		content = m.viewToday()
	case StateHabits:
		content = docStyle.Render(m.habitList.View())
	case StateStats:
		content = docStyle.Render(m.statsModel.View())
	case StateForm:
		content = m.form.View()
	case StateConfirmDelete:
		content = m.viewConfirmDelete()
	}

	sections := []string{m.viewTabs(), content}
	if m.statusMsg != "" {
		sections = append(sections, statusStyle.Render("  "+m.statusMsg))
	}
	sections = append(sections, m.help.View(m))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range []string{"Today", "Habits", "Stats"} {
		if m.tabState() == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// tabState maps overlay states back to the tab they were opened from so
// the tab bar stays highlighted while a form or prompt is showing.
func (m Model) tabState() SessionState {
	if m.state < tabCount {
		return m.state
	}
	return m.previousState
}

func (m Model) viewToday() string {
	today := m.mgr.Today()
	header := fmt.Sprintf("  %s | %d/%d done (%d%%)",
		today,
		m.mgr.CompletedCount(today),
		m.mgr.TotalCount(today),
		m.mgr.CompletionPercentage(today),
	)
	if top := m.engine.TopStreaks(1); len(top) > 0 && top[0].CurrentStreak > 0 {
		header += fmt.Sprintf("   %s %s", top[0].Name, StreakBadge(top[0].Level, top[0].CurrentStreak))
	}
	return docStyle.Render(header + "\n" + m.todayList.View())
}

func (m Model) viewConfirmDelete() string {
	name := m.habitToDeleteID
	if h, err := m.mgr.HabitByID(m.habitToDeleteID); err == nil {
		name = h.Name
	}
	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(fmt.Sprintf("Delete %q and all of its history?", name)),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
