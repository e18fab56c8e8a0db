package ui

import (
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the description column
	// is hidden.
	LayoutCompactWidth = 100

	// LayoutWideWidth is the minimum width to show the page count column.
	LayoutWideWidth = 130
)

// Chrome rows around the page content: header, nav bar, status line.
const chromeRows = 3

// Log display limits.
const (
	// LogTailLines is how many lines the Logs page loads on entry.
	LogTailLines = 400

	// LogBufferLimit is the maximum number of log lines to keep in memory.
	LogBufferLimit = 2000
)

// Timing constants.
const (
	// LogRefreshInterval is how often the Logs page polls the log file.
	LogRefreshInterval = time.Second
)

// renderBox draws content inside a rounded border with title set into the
// top edge.
func (m Model) renderBox(title, content string, width, height int, focused bool) string {
	border := m.theme.Border
	if focused {
		border = m.theme.BorderFocus
	}
	styles := m.theme.Styles()

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border)).
		Width(max(width-2, 0)).
		Height(max(height-2, 0))

	rendered := box.Render(content)
	if title == "" {
		return rendered
	}

	// Overwrite the start of the top border with " title ".
	label := styles.AccentText.Bold(true).Render(" " + title + " ")
	edge := lipgloss.NewStyle().Foreground(lipgloss.Color(border))
	lines := splitLines(rendered)
	if len(lines) == 0 {
		return rendered
	}
	labelWidth := lipgloss.Width(label)
	fill := width - 3 - labelWidth
	if fill < 0 {
		return rendered
	}
	lines[0] = edge.Render("╭─") + label + edge.Render(repeatRune('─', fill)+"╮")
	return joinLines(lines)
}
