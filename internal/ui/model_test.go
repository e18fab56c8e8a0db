package ui

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/five82/booksite/internal/catalog"
	"github.com/five82/booksite/internal/catalog/catalogtest"
	"github.com/five82/booksite/internal/prefs"
	"github.com/five82/booksite/internal/state"
)

type uiFixture struct {
	app       *state.App
	backend   *catalogtest.Server
	books     []catalog.Book
	prefsPath string
	logPath   string
}

func newUIFixture(t *testing.T) (*uiFixture, Model) {
	t.Helper()
	backend := catalogtest.NewServer()
	_, err := backend.AddUser("admin", "secret", "Ada", "Admin", catalogtest.AdminGroup)
	require.NoError(t, err)
	_, err = backend.AddUser("reader", "secret", "Rex", "Reader")
	require.NoError(t, err)
	books := []catalog.Book{
		backend.AddBook(catalog.Book{Title: "Old", Description: "first", Language: "english"}),
		backend.AddBook(catalog.Book{Title: "Second", Description: "second", Language: "german"}),
	}

	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)

	client, err := catalog.NewClient(server.URL, 2*time.Second, zerolog.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	dir := t.TempDir()
	f := &uiFixture{
		app:       state.New(client, state.Options{Title: "Test Books", Logger: zerolog.Nop()}),
		backend:   backend,
		books:     books,
		prefsPath: filepath.Join(dir, "prefs.toml"),
		logPath:   filepath.Join(dir, "booksite.log"),
	}
	t.Cleanup(f.app.Wait)

	m := New(Options{
		Context:    ctx,
		App:        f.app,
		BackendURL: server.URL,
		LogPath:    f.logPath,
		Prefs:      prefs.Default(),
		PrefsPath:  f.prefsPath,
		Logger:     zerolog.Nop(),
	})
	m = send(t, m, tea.WindowSizeMsg{Width: 140, Height: 40})
	m = send(t, m, initCmd(ctx, f.app)())
	return f, m
}

func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

// press sends one key and returns the command it produced.
func press(t *testing.T, m Model, k string) (Model, tea.Cmd) {
	t.Helper()
	var msg tea.KeyMsg
	switch k {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEscape}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		m, _ = press(t, m, string(r))
	}
	return m
}

// complete runs cmd and feeds its message back into the model.
func complete(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	require.NotNil(t, cmd)
	return send(t, m, cmd())
}

func login(t *testing.T, m Model, username string) Model {
	t.Helper()
	m, _ = press(t, m, "2")
	require.Equal(t, routeLogin, m.route)
	m = typeText(t, m, username)
	m, _ = press(t, m, "enter")
	m = typeText(t, m, "secret")
	m, cmd := press(t, m, "enter")
	return complete(t, m, cmd)
}

func TestStartupLoadsCatalog(t *testing.T) {
	f, m := newUIFixture(t)
	if m.loading {
		t.Fatalf("loading still set after init")
	}
	if got := len(f.app.Books.List()); got != 2 {
		t.Fatalf("books = %d, want 2", got)
	}
	view := m.View()
	for _, want := range []string{"Test Books", "Not logged in", "Old", "Second"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q", want)
		}
	}
}

func TestStartPathIsGated(t *testing.T) {
	f, _ := newUIFixture(t)
	m := New(Options{App: f.app, StartPath: "/logout", PrefsPath: f.prefsPath})
	m = send(t, m, initDoneMsg{})
	if m.route != routeBooks {
		t.Fatalf("route = %v, want Books while logged out", m.route)
	}
}

func TestLoginFlow(t *testing.T) {
	f, m := newUIFixture(t)
	m = login(t, m, "admin")

	if m.route != routeBooks {
		t.Fatalf("route = %v, want Books after login", m.route)
	}
	if !f.app.LoggedIn() || !f.app.Session.AdminLoggedIn() {
		t.Fatalf("expected admin session after login")
	}
	if !strings.Contains(m.View(), "Logged in: Ada Admin") {
		t.Fatalf("header missing logged-in line")
	}

	saved, err := prefs.Load(f.prefsPath)
	require.NoError(t, err)
	if saved.LastUsername != "admin" {
		t.Fatalf("LastUsername = %q, want admin", saved.LastUsername)
	}

	// Login is no longer offered; the session key goes to Logout.
	m, _ = press(t, m, "2")
	if m.route != routeLogout {
		t.Fatalf("route = %v, want Logout", m.route)
	}
}

func TestLoginFailureKeepsForm(t *testing.T) {
	f, m := newUIFixture(t)
	m, _ = press(t, m, "2")
	m = typeText(t, m, "admin")
	m, _ = press(t, m, "enter")
	m = typeText(t, m, "wrong")
	m, cmd := press(t, m, "enter")
	m = complete(t, m, cmd)

	if m.route != routeLogin {
		t.Fatalf("route = %v, want Login after failure", m.route)
	}
	if !m.status.isErr || !strings.Contains(m.status.text, state.BadLoginMessage) {
		t.Fatalf("status = %+v, want bad login error", m.status)
	}
	if got := m.login.inputs[state.FieldUsername].Value(); got != "admin" {
		t.Fatalf("username input = %q, want admin", got)
	}
	if f.app.LoggedIn() {
		t.Fatalf("logged in after failed login")
	}
}

func TestLoginPrefillsLastUsername(t *testing.T) {
	f, _ := newUIFixture(t)
	p := prefs.Default()
	p.LastUsername = "reader"
	m := New(Options{App: f.app, Prefs: p, PrefsPath: f.prefsPath})
	m = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m, _ = press(t, m, "2")
	if got := m.login.inputs[state.FieldUsername].Value(); got != "reader" {
		t.Fatalf("username = %q, want reader", got)
	}
	if m.login.focusIdx != int(state.FieldPassword) {
		t.Fatalf("focus = %d, want password", m.login.focusIdx)
	}
}

func TestBooksKeysRequireAdmin(t *testing.T) {
	f, m := newUIFixture(t)
	m = login(t, m, "reader")

	for _, k := range []string{"e", "d", "a"} {
		m, _ = press(t, m, k)
		if !m.status.isErr || m.status.text != "admin login required" {
			t.Fatalf("%s: status = %+v, want admin login required", k, m.status)
		}
	}
	if m.modal != nil || m.form.isOpen() || f.app.Books.IsAdding() {
		t.Fatalf("admin action ran for a member")
	}
}

func TestEditFlow(t *testing.T) {
	f, m := newUIFixture(t)
	m = login(t, m, "admin")
	id := f.books[0].ID

	m, _ = press(t, m, "e")
	if m.form.mode != formEdit || m.form.bookID != id {
		t.Fatalf("form = %+v, want edit of %s", m.form.mode, id)
	}

	// q goes into the title instead of quitting.
	m = typeText(t, m, "q!")
	if !m.form.isOpen() {
		t.Fatalf("typing q closed the form")
	}

	b, _ := f.app.Books.Get(id)
	if b.Staged.Title != "Oldq!" || b.Title != "Old" {
		t.Fatalf("staged = %q committed = %q", b.Staged.Title, b.Title)
	}

	m, cmd := press(t, m, "enter")
	m = complete(t, m, cmd)

	b, _ = f.app.Books.Get(id)
	if b.IsBeingEdited || b.Title != "Oldq!" {
		t.Fatalf("after save: editing=%v title=%q", b.IsBeingEdited, b.Title)
	}
	if m.form.isOpen() {
		t.Fatalf("form still open after save")
	}
	if got := f.backend.Books()[0].Title; got != "Oldq!" {
		t.Fatalf("backend title = %q", got)
	}
}

func TestEditFormIgnoresKeysWhileSaving(t *testing.T) {
	f, m := newUIFixture(t)
	m = login(t, m, "admin")
	id := f.books[0].ID

	m, _ = press(t, m, "e")
	m = typeText(t, m, "!")
	m, cmd := press(t, m, "enter")
	if !m.form.busy {
		t.Fatalf("form not busy after enter")
	}

	// Keys typed before the save finishes would be overwritten by the
	// committed values, so they are not staged at all.
	m = typeText(t, m, "late")
	m, _ = press(t, m, "esc")
	b, _ := f.app.Books.Get(id)
	if b.Staged.Title != "Old!" || !b.IsBeingEdited {
		t.Fatalf("while saving: staged = %q editing = %v", b.Staged.Title, b.IsBeingEdited)
	}
	if !m.form.isOpen() {
		t.Fatalf("esc closed the form while saving")
	}

	m = complete(t, m, cmd)
	b, _ = f.app.Books.Get(id)
	if b.Title != "Old!" || b.IsBeingEdited {
		t.Fatalf("after save: title = %q editing = %v", b.Title, b.IsBeingEdited)
	}
	if got := f.backend.Books()[0].Title; got != "Old!" {
		t.Fatalf("backend title = %q", got)
	}
	if m.form.isOpen() {
		t.Fatalf("form still open after save")
	}
}

func TestEditCancelDiscardsStagedValues(t *testing.T) {
	f, m := newUIFixture(t)
	m = login(t, m, "admin")
	id := f.books[0].ID

	m, _ = press(t, m, "e")
	m = typeText(t, m, "xyz")
	m, _ = press(t, m, "esc")

	b, _ := f.app.Books.Get(id)
	if b.IsBeingEdited || b.HasChanges() {
		t.Fatalf("after cancel: editing=%v staged=%+v", b.IsBeingEdited, b.Staged)
	}
	if m.form.isOpen() {
		t.Fatalf("form still open after cancel")
	}
}

func TestSaveFailureDeauthenticates(t *testing.T) {
	f, m := newUIFixture(t)
	m = login(t, m, "admin")
	id := f.books[0].ID
	f.backend.FailNext(http.MethodPut, "/book/{id}", http.StatusInternalServerError)

	m, _ = press(t, m, "e")
	m = typeText(t, m, "!")
	m, cmd := press(t, m, "enter")
	m = complete(t, m, cmd)

	if !m.status.isErr || !strings.Contains(m.status.text, "HTTP 500") {
		t.Fatalf("status = %+v, want HTTP 500 error", m.status)
	}
	b, _ := f.app.Books.Get(id)
	if !b.IsBeingEdited || b.Staged.Title != "Old!" {
		t.Fatalf("edit not kept open: %+v", b)
	}
	if !m.form.isOpen() {
		t.Fatalf("form closed after failed save")
	}
	if f.app.Session.AdminLoggedIn() {
		t.Fatalf("admin flag kept after failed save")
	}
}

func TestDeleteAsksForConfirmation(t *testing.T) {
	f, m := newUIFixture(t)
	m = login(t, m, "admin")

	m, _ = press(t, m, "d")
	if m.modal == nil {
		t.Fatalf("delete did not open a confirmation")
	}
	if !strings.Contains(m.View(), `Delete "Old"?`) {
		t.Fatalf("confirmation does not name the book")
	}
	m, cmd := press(t, m, "n")
	if m.modal != nil || cmd != nil {
		t.Fatalf("declining left modal=%v cmd=%v", m.modal, cmd)
	}
	if got := f.backend.CallCount(http.MethodDelete, "/book/"+f.books[0].ID); got != 0 {
		t.Fatalf("DELETE sent %d times after declining", got)
	}

	m, _ = press(t, m, "d")
	m, cmd = press(t, m, "y")
	m = complete(t, m, cmd)

	list := f.app.Books.List()
	if len(list) != 1 || list[0].ID != f.books[1].ID {
		t.Fatalf("after delete: %+v", list)
	}
	if m.status.text != "Deleted Old" {
		t.Fatalf("status = %+v", m.status)
	}
}

func TestDeleteRefusedWhileEditing(t *testing.T) {
	f, m := newUIFixture(t)
	m = login(t, m, "admin")
	require.NoError(t, f.app.Books.BeginEdit(f.books[0].ID))

	m, _ = press(t, m, "d")
	if m.modal != nil {
		t.Fatalf("delete offered for a book being edited")
	}
}

func TestAddBook(t *testing.T) {
	f, m := newUIFixture(t)
	m = login(t, m, "admin")

	m, _ = press(t, m, "a")
	if m.form.mode != formAdd || !f.app.Books.IsAdding() {
		t.Fatalf("add form not open")
	}
	m = typeText(t, m, "New")
	m, _ = press(t, m, "tab")
	m = typeText(t, m, "fresh")
	m, _ = press(t, m, "tab")
	m = typeText(t, m, "french")

	draft := f.app.Books.NewBookDraft()
	if draft != (state.EditFields{Title: "New", Description: "fresh", Language: "french"}) {
		t.Fatalf("draft = %+v", draft)
	}

	m, cmd := press(t, m, "enter")
	m = complete(t, m, cmd)

	if got := len(f.app.Books.List()); got != 3 {
		t.Fatalf("books = %d, want 3", got)
	}
	if m.form.isOpen() || f.app.Books.IsAdding() {
		t.Fatalf("add form still open after create")
	}
}

func TestAddCancelClosesForm(t *testing.T) {
	f, m := newUIFixture(t)
	m = login(t, m, "admin")

	m, _ = press(t, m, "a")
	m = typeText(t, m, "Draft")
	m, _ = press(t, m, "esc")
	if m.form.isOpen() || f.app.Books.IsAdding() {
		t.Fatalf("add form still open after esc")
	}
	if f.app.Books.NewBookDraft() != (state.EditFields{}) {
		t.Fatalf("draft kept after close")
	}
}

func TestLogoutFlow(t *testing.T) {
	f, m := newUIFixture(t)
	m = login(t, m, "admin")
	m, _ = press(t, m, "e")
	m, _ = press(t, m, "esc")
	m, _ = press(t, m, "2")
	require.Equal(t, routeLogout, m.route)

	m, cmd := press(t, m, "enter")
	if f.app.LoggedIn() || f.app.Session.AdminLoggedIn() {
		t.Fatalf("still logged in right after logout")
	}
	if m.route != routeBooks {
		t.Fatalf("route = %v, want Books", m.route)
	}
	m = complete(t, m, cmd)
	if m.status.text != "Logged out" {
		t.Fatalf("status = %+v", m.status)
	}
	if got := f.backend.CallCount(http.MethodGet, "/logout"); got != 1 {
		t.Fatalf("GET /logout = %d, want 1", got)
	}
}

func TestLogoutClosesOpenForm(t *testing.T) {
	f, m := newUIFixture(t)
	m = login(t, m, "admin")
	require.NoError(t, f.app.Books.BeginEdit(f.books[0].ID))
	m.form.open(formEdit, f.books[0].ID, state.EditFields{Title: "Old"})

	<-f.app.Logout(context.Background())
	m = send(t, m, logoutDoneMsg{})
	if m.form.isOpen() {
		t.Fatalf("form open after logout")
	}
}

func TestThemeCycleSavesPrefs(t *testing.T) {
	f, m := newUIFixture(t)
	m, _ = press(t, m, "T")
	if m.theme.Name != "Kanagawa" {
		t.Fatalf("theme = %q, want Kanagawa", m.theme.Name)
	}
	saved, err := prefs.Load(f.prefsPath)
	require.NoError(t, err)
	if saved.Theme != "Kanagawa" {
		t.Fatalf("saved theme = %q, want Kanagawa", saved.Theme)
	}
}

func TestHelpOverlay(t *testing.T) {
	_, m := newUIFixture(t)
	m, _ = press(t, m, "?")
	if !m.showHelp || !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatalf("help not shown")
	}
	m, _ = press(t, m, "x")
	if m.showHelp {
		t.Fatalf("help still shown after a key")
	}
}

func TestLogsPageShowsFormattedEntries(t *testing.T) {
	f, m := newUIFixture(t)
	entry := `{"level":"error","component":"books","time":"2025-01-02T03:04:05Z","message":"delete failed: bad request"}`
	require.NoError(t, os.WriteFile(f.logPath, []byte(entry+"\nplain\n"), 0o644))

	m, cmd := press(t, m, "3")
	require.Equal(t, routeLogs, m.route)
	m = complete(t, m, cmd)

	if len(m.logState.rawLines) != 2 {
		t.Fatalf("rawLines = %q", m.logState.rawLines)
	}
	if !strings.Contains(m.logState.rawLines[0], "ERROR [books] – delete failed: bad request") {
		t.Fatalf("line = %q", m.logState.rawLines[0])
	}

	m, _ = press(t, m, "/")
	m = typeText(t, m, "plain")
	m, _ = press(t, m, "enter")
	if len(m.logState.searchMatches) != 1 || m.logState.searchMatches[0] != 1 {
		t.Fatalf("searchMatches = %v, want [1]", m.logState.searchMatches)
	}
}

func TestDescribeError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("save: %w", state.ErrInFlight), "request already in flight"},
		{fmt.Errorf("save: %w", state.ErrBookNotFound), "book no longer exists"},
		{state.ErrPasswordRequired, "password required"},
		{&catalog.StatusError{Method: http.MethodDelete, Path: "/book/1", Code: http.StatusBadRequest}, "bad request (HTTP 400)"},
		{errors.New("dial tcp: refused"), "general error"},
	}
	for _, tt := range tests {
		if got := describeError(tt.err); got != tt.want {
			t.Fatalf("describeError(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
