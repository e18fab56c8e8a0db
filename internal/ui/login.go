package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/booksite/internal/state"
)

// loginForm holds the username and password inputs of the Login page.
type loginForm struct {
	inputs   [2]textinput.Model // indexed by state.LoginField
	focusIdx int
	busy     bool
}

func newLoginForm() loginForm {
	user := textinput.New()
	user.Prompt = ""
	user.Placeholder = "username"
	user.CharLimit = 64

	pass := textinput.New()
	pass.Prompt = ""
	pass.Placeholder = "password"
	pass.CharLimit = 128
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '•'

	return loginForm{inputs: [2]textinput.Model{user, pass}}
}

func (f *loginForm) focus(field state.LoginField) {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
	f.focusIdx = int(field)
	f.inputs[f.focusIdx].Focus()
}

// enterLogin prefills the form from the session, or from the last username
// that logged in successfully.
func (m *Model) enterLogin() tea.Cmd {
	staged := m.app.Session.LoginForm()
	username := staged.Username
	if username == "" && m.prefs.LastUsername != "" {
		username = m.prefs.LastUsername
		m.app.Session.ChangeLoginFormField(state.FieldUsername, username)
	}
	m.login.inputs[state.FieldUsername].SetValue(username)
	m.login.inputs[state.FieldUsername].CursorEnd()
	m.login.inputs[state.FieldPassword].SetValue(staged.Password)
	m.login.inputs[state.FieldPassword].CursorEnd()
	m.login.busy = false

	if username != "" {
		m.login.focus(state.FieldPassword)
	} else {
		m.login.focus(state.FieldUsername)
	}
	return textinput.Blink
}

// handleLoginKey processes keyboard input on the Login page.
func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		if m.login.busy {
			return m, nil
		}
		return m.navigate(routeBooks)

	case key.Matches(msg, m.keys.Confirm):
		if m.login.busy {
			return m, nil
		}
		if m.login.focusIdx == int(state.FieldUsername) && m.app.Session.LoginForm().Password == "" {
			m.login.focus(state.FieldPassword)
			return m, nil
		}
		m.login.busy = true
		username := m.app.Session.LoginForm().Username
		m.setInfo("Logging in as " + username + "...")
		return m, loginCmd(m.ctx, m.app, username)

	case key.Matches(msg, m.keys.NextField), key.Matches(msg, m.keys.PrevField):
		m.login.focus(state.LoginField(1 - m.login.focusIdx))
		return m, nil
	}

	if m.login.busy {
		return m, nil
	}

	idx := m.login.focusIdx
	before := m.login.inputs[idx].Value()
	var cmd tea.Cmd
	m.login.inputs[idx], cmd = m.login.inputs[idx].Update(msg)
	if after := m.login.inputs[idx].Value(); after != before {
		m.app.Session.ChangeLoginFormField(state.LoginField(idx), after)
	}
	return m, cmd
}

func (m Model) handleLoginDone(msg loginDoneMsg) (tea.Model, tea.Cmd) {
	m.login.busy = false
	if !msg.ok {
		form := m.app.Session.LoginForm()
		text := form.Message
		if text == "" {
			text = state.BadLoginMessage
		}
		m.status = statusLine{text: "Login failed: " + text, isErr: true}
		m.login.inputs[state.FieldUsername].SetValue(form.Username)
		m.login.inputs[state.FieldPassword].SetValue(form.Password)
		return m, nil
	}

	m.prefs.LastUsername = msg.username
	m.savePrefs()
	m.login.inputs[state.FieldPassword].SetValue("")
	m.setInfo("Welcome, " + fullName(m.app.Session.CurrentUser()))
	m.settle()
	return m.navigate(routeBooks)
}

// renderLogin renders the Login page.
func (m Model) renderLogin(height int) string {
	bg := NewBgStyle(m.theme.FocusBg)
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	inner := max(m.width-4, 10)

	label := func(text string, field state.LoginField) string {
		if m.login.focusIdx == int(field) {
			return bg.Render(text, styles.AccentText)
		}
		return bg.Render(text, styles.MutedText)
	}

	var lines []string
	lines = append(lines, bg.FillLine("", inner))
	lines = append(lines, bg.FillLine(bg.Spaces(2)+bg.Render("Log in to manage the catalog.", styles.Text), inner))
	lines = append(lines, bg.FillLine("", inner))
	for _, field := range []state.LoginField{state.FieldUsername, state.FieldPassword} {
		input := m.login.inputs[field]
		input.Width = max(min(inner-16, 40), 10)
		text := padRight(strings.ToUpper(field.String()[:1])+field.String()[1:]+":", 12)
		lines = append(lines, bg.FillLine(bg.Spaces(2)+label(text, field)+input.View(), inner))
	}
	lines = append(lines, bg.FillLine("", inner))

	if msg := m.app.Session.LoginForm().Message; msg != "" {
		lines = append(lines, bg.FillLine(bg.Spaces(2)+bg.Render(msg, styles.DangerText), inner))
		lines = append(lines, bg.FillLine("", inner))
	}

	hint := "Enter: Log in  •  Tab: Switch field  •  Esc: Back"
	if m.login.busy {
		hint = "Logging in..."
	}
	lines = append(lines, bg.FillLine(bg.Spaces(2)+bg.Render(hint, styles.FaintText), inner))

	return m.renderBox("Login", joinLines(lines), m.width, height, true)
}
