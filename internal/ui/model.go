package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/five82/booksite/internal/catalog"
	"github.com/five82/booksite/internal/prefs"
	"github.com/five82/booksite/internal/state"
)

// Options configures the UI.
type Options struct {
	Context    context.Context
	App        *state.App
	BackendURL string // shown while connecting
	LogPath    string // client log shown on the Logs page
	StartPath  string // initial page, "/" for books
	Prefs      prefs.Prefs
	PrefsPath  string
	Logger     zerolog.Logger
}

// statusLine is the message shown under the page.
type statusLine struct {
	text  string
	isErr bool
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx        context.Context
	app        *state.App
	logger     zerolog.Logger
	backendURL string
	prefs      prefs.Prefs
	prefsPath  string
	keys       keyMap

	// UI state
	theme    Theme
	route    route
	width    int
	height   int
	ready    bool
	loading  bool // startup load in flight
	showHelp bool
	modal    Modal
	status   statusLine

	// Books page
	selected int
	form     bookForm

	// Login page
	login loginForm

	// Logs page
	logViewport viewport.Model
	logState    logState
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	userPrefs := opts.Prefs
	if userPrefs.Theme == "" {
		userPrefs = prefs.Default()
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	return Model{
		ctx:         ctx,
		app:         opts.App,
		logger:      opts.Logger.With().Str("component", "ui").Logger(),
		backendURL:  opts.BackendURL,
		prefs:       userPrefs,
		prefsPath:   prefsPath,
		keys:        DefaultKeyMap(),
		theme:       GetTheme(userPrefs.Theme),
		route:       routeFromPath(opts.StartPath),
		loading:     true,
		form:        newBookForm(),
		login:       newLoginForm(),
		logViewport: viewport.New(0, 0),
		logState:    newLogState(opts.LogPath),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		initCmd(m.ctx, m.app),
		tickCmd(LogRefreshInterval),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.updateLogViewport()
		return m, nil

	case tickMsg:
		var cmds []tea.Cmd
		if m.route == routeLogs && m.logState.follow {
			if cmd := m.refreshLogs(); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
		cmds = append(cmds, tickCmd(LogRefreshInterval))
		return m, tea.Batch(cmds...)

	case initDoneMsg:
		m.loading = false
		if msg.err != nil {
			m.setError("load catalog", msg.err)
		}
		m.settle()
		return m, nil

	case reloadDoneMsg:
		if msg.err != nil {
			m.setError("reload", msg.err)
		} else {
			m.setInfo(fmt.Sprintf("Loaded %d books", len(m.app.Books.List())))
		}
		m.settle()
		return m, nil

	case saveEditDoneMsg:
		m.handleSaveEditDone(msg)
		return m, nil

	case deleteDoneMsg:
		m.handleDeleteDone(msg)
		return m, nil

	case createDoneMsg:
		m.handleCreateDone(msg)
		return m, nil

	case loginDoneMsg:
		return m.handleLoginDone(msg)

	case logoutDoneMsg:
		m.setInfo("Logged out")
		m.settle()
		return m, nil

	case logLinesMsg:
		m.handleLogLines(msg)
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.modal != nil {
		modal, cmd, closed := m.modal.Update(msg, m.keys)
		if closed {
			m.modal = nil
		} else {
			m.modal = modal
		}
		return m, cmd
	}

	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	// Focused text inputs get every key.
	switch {
	case m.route == routeLogin:
		return m.handleLoginKey(msg)
	case m.route == routeBooks && m.form.isOpen():
		return m.handleBookFormKey(msg)
	case m.route == routeLogs && m.logState.searchActive:
		return m.handleLogSearchInput(msg)
	}

	loggedIn := m.app.LoggedIn()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.cycleTheme()
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		return m.navigate(cycleRoute(m.route, loggedIn, 1))

	case key.Matches(msg, m.keys.ShiftTab):
		return m.navigate(cycleRoute(m.route, loggedIn, -1))

	case key.Matches(msg, m.keys.PageBooks):
		return m.navigate(routeBooks)

	case key.Matches(msg, m.keys.PageSession):
		return m.navigate(sessionRoute(loggedIn))

	case key.Matches(msg, m.keys.PageLogs):
		return m.navigate(routeLogs)
	}

	switch m.route {
	case routeBooks:
		return m.handleBooksKey(msg)
	case routeLogout:
		return m.handleLogoutKey(msg)
	case routeLogs:
		return m.handleLogsKey(msg)
	}
	return m, nil
}

// navigate switches pages, applying the session gate.
func (m Model) navigate(requested route) (tea.Model, tea.Cmd) {
	m.route = resolveRoute(requested, m.app.LoggedIn())
	switch m.route {
	case routeLogin:
		cmd := m.enterLogin()
		return m, cmd
	case routeLogs:
		m.updateLogViewport()
		cmd := m.refreshLogs()
		return m, cmd
	}
	return m, nil
}

// settle re-applies the session gate and drops UI state that the stores no
// longer back, such as a form for a book that left edit mode.
func (m *Model) settle() {
	m.route = resolveRoute(m.route, m.app.LoggedIn())
	m.syncForm()
	m.clampSelection()
}

func (m *Model) cycleTheme() {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	m.prefs.Theme = m.theme.Name
	m.savePrefs()
	m.logState.contentVersion++
	m.updateLogViewport()
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		m.logger.Warn().Err(err).Str("path", m.prefsPath).Msg("save prefs failed")
	}
}

func (m *Model) setInfo(text string) {
	m.status = statusLine{text: text}
}

func (m *Model) setError(op string, err error) {
	m.status = statusLine{text: op + " failed: " + describeError(err), isErr: true}
}

// describeError turns an operation error into a short status text.
func describeError(err error) string {
	switch {
	case errors.Is(err, state.ErrInFlight):
		return "request already in flight"
	case errors.Is(err, state.ErrBookNotFound):
		return "book no longer exists"
	case errors.Is(err, state.ErrPasswordRequired):
		return "password required"
	}
	kind := catalog.Classify(err)
	if code := catalog.StatusCode(err); code != 0 {
		return fmt.Sprintf("%s (HTTP %d)", kind, code)
	}
	return kind.String()
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	b.WriteString(m.renderNavBar())
	b.WriteString("\n")

	b.WriteString(m.renderContent(max(m.height-chromeRows, 3)))
	b.WriteString("\n")

	b.WriteString(m.renderStatus())
	return b.String()
}

// renderContent renders the current page.
func (m Model) renderContent(height int) string {
	switch m.route {
	case routeLogin:
		return m.renderLogin(height)
	case routeLogout:
		return m.renderLogout(height)
	case routeLogs:
		return m.renderLogs(height)
	default:
		return m.renderBooks(height)
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
