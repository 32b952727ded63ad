package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jmercier/habitflow/internal/stats"
)

var (
	headingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(22)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// Data holds everything the dashboard renders. The root model refreshes
// it after every mutation so the viewport never reads live state.
type Data struct {
	Summary stats.Summary
	Series  []stats.SeriesPoint
	Trends  []HabitTrend
}

type HabitTrend struct {
	Name  string
	Trend stats.Trend
}

type Model struct {
	viewport viewport.Model
	data     *Data
	width    int
	height   int
}

func New(width, height int) Model {
	return Model{viewport: viewport.New(width, height)}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.data == nil {
		return "No stats yet. Complete a habit to get started."
	}
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.render()
}

func (m *Model) SetData(data Data) {
	m.data = &data
	m.render()
}

func (m *Model) render() {
	if m.data == nil {
		m.viewport.SetContent("No stats loaded.")
		return
	}

	var b strings.Builder
	g := m.data.Summary.Global

	b.WriteString(headingStyle.Render("Overview") + "\n")
	writeRow(&b, "Active habits", fmt.Sprintf("%d", g.ActiveHabits))
	writeRow(&b, "Total completions", fmt.Sprintf("%d", g.TotalCompletions))
	writeRow(&b, "30-day rate", fmt.Sprintf("%d%%", g.AverageRate))
	writeRow(&b, "Best streak", fmt.Sprintf("%d days", g.BestStreak))
	writeRow(&b, "Today", fmt.Sprintf("%d%% (%s)", g.TodayPercentage, m.data.Summary.Grade))

	mo := m.data.Summary.Month
	b.WriteString("\n" + headingStyle.Render("This month") + "\n")
	writeRow(&b, "Completion rate", fmt.Sprintf("%d%%", mo.CompletionRate))
	writeRow(&b, "Perfect days", fmt.Sprintf("%d of %d", mo.PerfectDays, mo.ActiveDays))

	if len(m.data.Summary.TopStreak) > 0 {
		b.WriteString("\n" + headingStyle.Render("Top streaks") + "\n")
		for _, hs := range m.data.Summary.TopStreak {
			writeRow(&b, hs.Name, fmt.Sprintf("🔥 %d days", hs.CurrentStreak))
		}
	}

	if len(m.data.Series) > 0 {
		b.WriteString("\n" + headingStyle.Render("Last days") + "\n")
		for _, p := range m.data.Series {
			bar := strings.Repeat("█", p.Percentage/10)
			b.WriteString(fmt.Sprintf("  %s %-10s %d%%\n", labelStyle.Render(p.Day), bar, p.Percentage))
		}
	}

	if len(m.data.Trends) > 0 {
		b.WriteString("\n" + headingStyle.Render("Trends") + "\n")
		for _, t := range m.data.Trends {
			writeRow(&b, t.Name, fmt.Sprintf("%s (7d %d%% vs 30d %d%%)", t.Trend.Direction, t.Trend.Rate7, t.Trend.Rate30))
		}
	}

	b.WriteString("\n" + dimStyle.Render("tab to switch views, ? for help"))

	m.viewport.SetContent(b.String())
}

func writeRow(b *strings.Builder, label, value string) {
	b.WriteString("  " + labelStyle.Render(label) + valueStyle.Render(value) + "\n")
}
