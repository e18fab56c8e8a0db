package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// handleLogoutKey processes keyboard input on the Logout page. The local
// logout happens before this returns; the backend half reports back through
// logoutDoneMsg.
func (m Model) handleLogoutKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		done := m.app.Logout(m.ctx)
		m.form.close()
		m.route = routeBooks
		m.setInfo("Logging out...")
		m.settle()
		return m, logoutWaitCmd(done)

	case key.Matches(msg, m.keys.Cancel):
		return m.navigate(routeBooks)
	}
	return m, nil
}

// renderLogout renders the Logout page.
func (m Model) renderLogout(height int) string {
	bg := NewBgStyle(m.theme.FocusBg)
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	inner := max(m.width-4, 10)

	user := m.app.Session.CurrentUser()
	role := "member"
	if m.app.Session.AdminLoggedIn() {
		role = "admin"
	}

	lines := []string{
		bg.FillLine("", inner),
		bg.FillLine(bg.Spaces(2)+bg.Render(loggedInLine(user), styles.Text), inner),
		bg.FillLine(bg.Spaces(2)+bg.Field("Username:", orDash(user.Username), styles.MutedText, styles.Text), inner),
		bg.FillLine(bg.Spaces(2)+bg.Field("Role:    ", role, styles.MutedText, styles.AccentText), inner),
		bg.FillLine("", inner),
		bg.FillLine(bg.Spaces(2)+bg.Render("Enter: Log out  •  Esc: Back", styles.FaintText), inner),
	}
	return m.renderBox("Logout", joinLines(lines), m.width, height, true)
}
