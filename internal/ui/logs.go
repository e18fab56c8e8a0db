package ui

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/booksite/internal/logtail"
)

// logState holds all log-related state.
type logState struct {
	follower *logtail.Follower
	rawLines []string
	follow   bool
	reading  bool // a readLogCmd is out
	lastErr  error

	// Search
	searchActive   bool
	searchQuery    string
	searchRegex    *regexp.Regexp
	searchInput    textinput.Model
	searchMatches  []int // Line indices that match
	searchMatchIdx int   // Current match index

	// Content caching - skip re-render when unchanged
	contentVersion uint64
	lastRendered   uint64
}

func newLogState(path string) logState {
	ti := textinput.New()
	ti.Placeholder = "Search logs..."
	ti.CharLimit = 100

	var follower *logtail.Follower
	if path != "" {
		follower = logtail.NewFollower(path, LogTailLines)
	}
	return logState{
		follower:    follower,
		follow:      true,
		searchInput: ti,
	}
}

// updateLogViewport updates the log viewport with current content.
func (m *Model) updateLogViewport() {
	if m.width == 0 || m.height == 0 {
		return
	}

	// Box height = m.height - chromeRows - 1 (status below the box)
	// Box inner = box height - 2 (top and bottom borders)
	m.logViewport.Width = max(m.width-4, 1)
	m.logViewport.Height = max(m.height-chromeRows-3, 1)
	m.logViewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.FocusBg))

	// Only re-render content if it changed (version mismatch or first render)
	if m.logState.lastRendered == 0 || m.logState.contentVersion != m.logState.lastRendered {
		m.logViewport.SetContent(m.renderLogContent())
		m.logState.lastRendered = m.logState.contentVersion
		if m.logState.lastRendered == 0 {
			m.logState.lastRendered = 1 // Mark as rendered at least once
		}
	}

	if m.logState.follow {
		m.logViewport.GotoBottom()
	}
}

// renderLogs renders the log view.
func (m Model) renderLogs(height int) string {
	bg := NewBgStyle(m.theme.FocusBg)
	styles := m.theme.Styles()

	title := "Client Log"
	if m.logState.follower != nil {
		title += " " + truncateMiddle(m.logState.follower.Path(), max(m.width/2, 20))
	}

	box := m.renderBox(title, m.logViewport.View(), m.width, height-1, true)
	return box + "\n" + m.renderLogStatus(styles, bg)
}

// renderLogStatus renders the log status bar.
func (m Model) renderLogStatus(styles Styles, bg BgStyle) string {
	if m.logState.searchRegex != nil && len(m.logState.searchMatches) > 0 {
		matchNum := m.logState.searchMatchIdx + 1
		totalMatches := len(m.logState.searchMatches)
		return bg.Render(fmt.Sprintf("/%s", m.logState.searchQuery), styles.AccentText) +
			bg.Render(" - ", styles.FaintText) +
			bg.Render(fmt.Sprintf("%d/%d", matchNum, totalMatches), styles.WarningText) +
			bg.Render(" - Press ", styles.FaintText) +
			bg.Render("n", styles.AccentText) +
			bg.Render(" for next, ", styles.FaintText) +
			bg.Render("N", styles.AccentText) +
			bg.Render(" for previous, ", styles.FaintText) +
			bg.Render("Esc", styles.AccentText) +
			bg.Render(" to clear", styles.FaintText)
	}

	if m.logState.searchRegex != nil && len(m.logState.searchMatches) == 0 {
		return bg.Render("Pattern not found: "+m.logState.searchQuery, styles.DangerText)
	}

	autoTail := "off"
	if m.logState.follow {
		autoTail = "on"
	}
	parts := []string{
		bg.Render(fmt.Sprintf("%d lines auto-tail %s", len(m.logState.rawLines), autoTail), styles.FaintText),
	}
	if m.logState.searchActive {
		parts = append(parts, bg.Render("search: "+m.logState.searchInput.Value(), styles.AccentText))
	}
	if m.logState.lastErr != nil {
		parts = append(parts, bg.Render(m.logState.lastErr.Error(), styles.DangerText))
	}

	sep := bg.Space() + bg.Render("•", styles.FaintText) + bg.Space()
	return strings.Join(parts, sep)
}

// renderLogContent renders the colorized log lines.
func (m *Model) renderLogContent() string {
	bg := NewBgStyle(m.theme.FocusBg)
	styles := m.theme.Styles()
	width := m.logViewport.Width

	if m.logState.follower == nil {
		return bg.FillLine(bg.Render("Logging to a file is disabled", styles.MutedText), width)
	}
	if len(m.logState.rawLines) == 0 {
		return bg.FillLine(bg.Render("No log entries", styles.MutedText), width)
	}

	matchSet := make(map[int]bool, len(m.logState.searchMatches))
	for _, idx := range m.logState.searchMatches {
		matchSet[idx] = true
	}
	activeMatchLine := -1
	if len(m.logState.searchMatches) > 0 && m.logState.searchMatchIdx < len(m.logState.searchMatches) {
		activeMatchLine = m.logState.searchMatches[m.logState.searchMatchIdx]
	}

	var b strings.Builder
	for i, line := range m.logState.rawLines {
		lineNum := i + 1
		isActiveMatch := i == activeMatchLine
		isPassiveMatch := matchSet[i] && !isActiveMatch

		var lineContent string
		switch {
		case isActiveMatch:
			highlightBg := NewBgStyle(m.theme.Warning)
			lineContent = highlightBg.Render(fmt.Sprintf("%4d │ ", lineNum), styles.FaintText.Background(lipgloss.Color(m.theme.Warning))) +
				lipgloss.NewStyle().
					Background(lipgloss.Color(m.theme.Warning)).
					Foreground(lipgloss.Color(m.theme.Background)).
					Render(line)
		case isPassiveMatch:
			lineContent = bg.Render(fmt.Sprintf("%4d │ ", lineNum), styles.AccentText) +
				bg.Render(line, styles.AccentText)
		default:
			lineContent = bg.Render(fmt.Sprintf("%4d │ ", lineNum), styles.FaintText) +
				m.colorizeLine(line, styles, bg)
		}

		b.WriteString(bg.FillLine(lineContent, width))
		if i < len(m.logState.rawLines)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// colorizeLine applies Lipgloss styling to a formatted log line.
func (m *Model) colorizeLine(line string, styles Styles, bg BgStyle) string {
	if strings.TrimSpace(line) == "" {
		return line
	}

	// Detail lines: "    - key: value"
	if content, found := strings.CutPrefix(line, "    "); found {
		if item, isList := strings.CutPrefix(content, "- "); isList {
			if k, v, ok := strings.Cut(item, ": "); ok {
				return bg.Spaces(6) + bg.Render(k+":", styles.MutedText) + bg.Space() + bg.Render(v, styles.Text)
			}
			return bg.Spaces(6) + bg.Render(item, styles.Text)
		}
		return bg.Spaces(4) + bg.Render(content, styles.Text)
	}

	var result strings.Builder
	remaining := line

	if matches := timestampRe.FindStringSubmatchIndex(remaining); len(matches) > 0 {
		start, end := matches[2], matches[3]
		result.WriteString(bg.Render(remaining[start:end], styles.FaintText))
		remaining = remaining[end:]
	}

	if matches := levelRe.FindStringSubmatchIndex(remaining); len(matches) > 0 {
		start, end := matches[2], matches[3]
		level := remaining[start:end]
		result.WriteString(bg.Space())
		result.WriteString(bg.Render(level, levelStyle(level, styles).Bold(true)))
		remaining = remaining[end:]
	}

	if matches := componentRe.FindStringSubmatchIndex(remaining); len(matches) > 0 && matches[0] <= 1 {
		result.WriteString(bg.Space())
		result.WriteString(bg.Render(remaining[matches[0]:matches[1]], styles.AccentText))
		remaining = remaining[matches[1]:]
	}

	if parts := separatorRe.Split(remaining, 2); len(parts) == 2 {
		result.WriteString(bg.Space())
		result.WriteString(bg.Render("–", styles.FaintText))
		result.WriteString(bg.Space())
		result.WriteString(bg.Render(strings.TrimSpace(parts[1]), styles.Text))
	} else {
		if result.Len() > 0 {
			result.WriteString(bg.Space())
		}
		result.WriteString(bg.Render(strings.TrimSpace(remaining), styles.Text))
	}
	return result.String()
}

// levelStyle returns the style for a log level.
func levelStyle(level string, styles Styles) lipgloss.Style {
	switch level {
	case "INFO":
		return styles.SuccessText
	case "WARN":
		return styles.WarningText
	case "ERROR", "FATAL", "PANIC":
		return styles.DangerText
	case "DEBUG", "TRACE":
		return styles.InfoText
	default:
		return styles.Text
	}
}

// Patterns for lines produced by formatLogLine.
var (
	timestampRe = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2})`)
	levelRe     = regexp.MustCompile(`\b(TRACE|DEBUG|INFO|WARN|ERROR|FATAL|PANIC)\b`)
	componentRe = regexp.MustCompile(`\[([^\]]+)\]`)
	separatorRe = regexp.MustCompile(`\s*–\s*`)
)

// handleLogsKey processes keyboard input for logs view.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ToggleFollow):
		m.logState.follow = !m.logState.follow
		if m.logState.follow {
			m.logViewport.GotoBottom()
		}
		m.updateLogViewport()
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.logState.searchActive = true
		m.logState.searchInput.SetValue("")
		cmd := m.logState.searchInput.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.NextMatch):
		m.nextSearchMatch()
		return m, nil

	case key.Matches(msg, m.keys.PrevMatch):
		m.previousSearchMatch()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		if m.logState.searchRegex != nil {
			m.clearLogSearch()
			m.updateLogViewport()
		}
		return m, nil

	case key.Matches(msg, m.keys.Reload):
		cmd := m.refreshLogs()
		return m, cmd

	case key.Matches(msg, m.keys.Top):
		m.logViewport.GotoTop()
		m.logState.follow = false
		return m, nil

	case key.Matches(msg, m.keys.Bottom):
		m.logViewport.GotoBottom()
		m.logState.follow = true
		return m, nil
	}

	before := m.logViewport.YOffset
	m.scrollLogs(msg)
	if m.logViewport.YOffset != before {
		m.logState.follow = m.logViewport.AtBottom()
	}
	return m, nil
}

func (m *Model) scrollLogs(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.Down):
		m.logViewport.ScrollDown(1)
	case key.Matches(msg, m.keys.Up):
		m.logViewport.ScrollUp(1)
	case key.Matches(msg, m.keys.HalfPageDown):
		m.logViewport.HalfPageDown()
	case key.Matches(msg, m.keys.HalfPageUp):
		m.logViewport.HalfPageUp()
	case key.Matches(msg, m.keys.PageDown):
		m.logViewport.PageDown()
	case key.Matches(msg, m.keys.PageUp):
		m.logViewport.PageUp()
	}
}

// handleLogSearchInput handles keyboard input during log search.
func (m Model) handleLogSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		query := m.logState.searchInput.Value()
		if query == "" {
			m.logState.searchActive = false
			m.logState.searchInput.Blur()
			return m, nil
		}

		re, err := regexp.Compile("(?i)" + query)
		if err != nil {
			// Invalid regex - stay in search mode
			return m, nil
		}

		m.logState.searchRegex = re
		m.logState.searchQuery = query
		m.logState.searchActive = false
		m.logState.searchInput.Blur()

		m.findSearchMatches()
		if len(m.logState.searchMatches) > 0 {
			m.logState.searchMatchIdx = 0
			m.scrollToSearchMatch()
		}
		m.updateLogViewport()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		m.logState.searchActive = false
		m.logState.searchInput.Blur()
		m.logState.searchInput.SetValue("")
		return m, nil
	}

	var cmd tea.Cmd
	m.logState.searchInput, cmd = m.logState.searchInput.Update(msg)
	return m, cmd
}

// clearLogSearch clears the search state.
func (m *Model) clearLogSearch() {
	m.logState.searchRegex = nil
	m.logState.searchQuery = ""
	m.logState.searchMatches = nil
	m.logState.searchMatchIdx = 0
	m.logState.contentVersion++
}

// findSearchMatches finds all lines matching the current search regex.
func (m *Model) findSearchMatches() {
	m.logState.searchMatches = nil
	if m.logState.searchRegex == nil {
		return
	}
	for i, line := range m.logState.rawLines {
		if m.logState.searchRegex.MatchString(line) {
			m.logState.searchMatches = append(m.logState.searchMatches, i)
		}
	}
	m.logState.contentVersion++
}

func (m *Model) nextSearchMatch() {
	if len(m.logState.searchMatches) == 0 {
		return
	}
	m.logState.searchMatchIdx = (m.logState.searchMatchIdx + 1) % len(m.logState.searchMatches)
	m.logState.contentVersion++
	m.scrollToSearchMatch()
	m.updateLogViewport()
}

func (m *Model) previousSearchMatch() {
	if len(m.logState.searchMatches) == 0 {
		return
	}
	m.logState.searchMatchIdx = (m.logState.searchMatchIdx - 1 + len(m.logState.searchMatches)) % len(m.logState.searchMatches)
	m.logState.contentVersion++
	m.scrollToSearchMatch()
	m.updateLogViewport()
}

// scrollToSearchMatch centers the current match when possible.
func (m *Model) scrollToSearchMatch() {
	if len(m.logState.searchMatches) == 0 || m.logState.searchMatchIdx >= len(m.logState.searchMatches) {
		return
	}
	targetLine := m.logState.searchMatches[m.logState.searchMatchIdx]
	m.logState.follow = false
	m.logViewport.SetYOffset(max(targetLine-m.logViewport.Height/2, 0))
}

// refreshLogs reads new lines from the log file unless a read is already out.
func (m *Model) refreshLogs() tea.Cmd {
	if m.logState.follower == nil || m.logState.reading {
		return nil
	}
	m.logState.reading = true
	return readLogCmd(m.logState.follower)
}

// handleLogLines appends lines read from the log file.
func (m *Model) handleLogLines(msg logLinesMsg) {
	m.logState.reading = false
	m.logState.lastErr = msg.err
	if msg.err != nil {
		m.logger.Debug().Err(msg.err).Msg("read log failed")
		return
	}
	if msg.reset {
		m.logState.rawLines = nil
		m.clearLogSearch()
	}
	if len(msg.lines) == 0 && !msg.reset {
		return
	}

	m.logState.rawLines = append(m.logState.rawLines, formatLogLines(msg.lines)...)
	m.logState.rawLines = trimLogBuffer(m.logState.rawLines, LogBufferLimit)
	if m.logState.searchRegex != nil {
		m.findSearchMatches()
	}
	m.logState.contentVersion++
	m.updateLogViewport()
}

// trimLogBuffer trims the log buffer to the limit by removing oldest entries.
func trimLogBuffer(lines []string, limit int) []string {
	if overflow := len(lines) - limit; overflow > 0 {
		return append([]string(nil), lines[overflow:]...)
	}
	return lines
}
