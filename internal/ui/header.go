package ui

import (
	"strings"
)

// renderHeader renders the title bar: site title, who is logged in and
// whether admin controls are on.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth

	title := m.app.Title
	if username := m.app.Session.LoginForm().Username; username != "" && !m.app.LoggedIn() {
		title += " - " + username
	}
	parts := []string{bg.Render(title, styles.Logo)}

	user := m.app.Session.CurrentUser()
	switch {
	case m.loading && user.Username == "":
		parts = append(parts, bg.Render("Connecting to "+truncateMiddle(m.backendURL, 40)+"...", styles.WarningText.Bold(true)))
	case m.app.LoggedIn():
		line := loggedInLine(user)
		if compact {
			line = "Logged in: " + fullName(user)
		}
		parts = append(parts, bg.Render(line, styles.Text))
	default:
		parts = append(parts, bg.Render("Not logged in", styles.MutedText))
	}

	if m.app.Session.AdminLoggedIn() {
		parts = append(parts, bg.Render("ADMIN", styles.SuccessText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

// renderNavBar renders the page links followed by command hints for the
// current page.
func (m Model) renderNavBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	var links []string
	for i, r := range navItems(m.app.LoggedIn()) {
		label := string(rune('1'+i)) + " " + r.String()
		if r == m.route {
			links = append(links, bg.Render("["+label+"]", styles.AccentText.Bold(true)))
		} else {
			links = append(links, bg.Render(label, styles.MutedText))
		}
	}

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.route {
	case routeLogs:
		followLabel := "Pause"
		if !m.logState.follow {
			followLabel = "Follow"
		}
		commands = []cmd{
			{"Space", followLabel},
			{"/", "Search"},
			{"n/N", "Next/Prev"},
			{"r", "Reload"},
		}
	case routeLogin:
		commands = []cmd{
			{"Enter", "Log in"},
			{"Esc", "Back"},
		}
	case routeLogout:
		commands = []cmd{
			{"Enter", "Log out"},
			{"Esc", "Back"},
		}
	default: // routeBooks
		switch {
		case m.form.isOpen():
			commands = []cmd{
				{"Enter", "Save"},
				{"Tab", "Field"},
				{"Esc", "Cancel"},
			}
		case m.app.Session.AdminLoggedIn():
			commands = []cmd{
				{"j/k", "Navigate"},
				{"e", "Edit"},
				{"d", "Delete"},
				{"a", "Add"},
				{"r", "Reload"},
			}
		default:
			commands = []cmd{
				{"j/k", "Navigate"},
				{"r", "Reload"},
			}
		}
	}
	commands = append(commands, cmd{"?", "More"})

	colon := bg.Sep(":")
	sep := bg.Spaces(2)

	segments := []string{strings.Join(links, sep)}
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	if m.route == routeLogs && m.logState.searchQuery != "" {
		segments = append(segments, bg.Render("/"+truncate(m.logState.searchQuery, 18), styles.AccentText))
	}

	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, sep))
}

// renderStatus renders the last operation result.
func (m Model) renderStatus() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	text := m.status.text
	style := styles.MutedText
	if m.status.isErr {
		style = styles.DangerText
		text = "! " + text
	}
	if text == "" && m.app.LoggedIn() && !m.app.Session.AdminLoggedIn() &&
		m.app.Session.IsInAccessGroup(m.app.Session.AdminGroup()) {
		text = "admin controls off until next login"
		style = styles.WarningText
	}
	return styles.Footer.Width(m.width).Render(bg.Render(truncate(text, max(m.width-2, 1)), style))
}
