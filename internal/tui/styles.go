package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/jmercier/habitflow/internal/habit"
)

var (
	activeTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(lipgloss.Color("236")).
			Padding(0, 1).
			Bold(true)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 1)

	docStyle = lipgloss.NewStyle().Padding(1, 2)

	dangerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	badgeStyles = map[habit.StreakLevel]lipgloss.Style{
		habit.LevelNone:     lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		habit.LevelBronze:   lipgloss.NewStyle().Foreground(lipgloss.Color("172")).Bold(true),
		habit.LevelSilver:   lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Bold(true),
		habit.LevelGold:     lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true),
		habit.LevelPlatinum: lipgloss.NewStyle().Foreground(lipgloss.Color("201")).Bold(true),
	}
)

// StreakBadge renders a colored streak counter for a habit level.
func StreakBadge(level habit.StreakLevel, streak int) string {
	style, ok := badgeStyles[level]
	if !ok {
		style = badgeStyles[habit.LevelNone]
	}
	glyph := ""
	switch level {
	case habit.LevelBronze, habit.LevelSilver:
		glyph = "🔥 "
	case habit.LevelGold:
		glyph = "🏆 "
	case habit.LevelPlatinum:
		glyph = "👑 "
	}
	return style.Render(fmt.Sprintf("%s%d", glyph, streak))
}
