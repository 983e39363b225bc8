package prompt

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255"))

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	scoreStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // orange

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	selectedStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252"))

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))
)

const defaultWidth = 80

// truncate shortens s to width cells, counting wide runes as two.
func truncate(s string, width int) string {
	return runewidth.Truncate(s, width, "...")
}

// fit shortens a line that already carries styling to width cells.
func fit(s string, width int) string {
	return ansi.Truncate(s, width, "...")
}

func separator(width int) string {
	return dimStyle.Render(strings.Repeat("─", max(width, 1)))
}
