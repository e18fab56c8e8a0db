package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/booksite/internal/logtail"
	"github.com/five82/booksite/internal/state"
)

// Messages

type tickMsg time.Time

// initDoneMsg reports the startup catalog load and user refresh.
type initDoneMsg struct{ err error }

type reloadDoneMsg struct{ err error }

type saveEditDoneMsg struct {
	id    string
	title string
	err   error
}

type deleteDoneMsg struct {
	id    string
	title string
	err   error
}

type createDoneMsg struct {
	title string
	err   error
}

type loginDoneMsg struct {
	username string
	ok       bool
}

type logoutDoneMsg struct{}

type logLinesMsg struct {
	lines []string
	reset bool
	err   error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func initCmd(ctx context.Context, app *state.App) tea.Cmd {
	return func() tea.Msg {
		return initDoneMsg{err: app.Init(ctx)}
	}
}

func reloadCmd(ctx context.Context, app *state.App) tea.Cmd {
	return func() tea.Msg {
		return reloadDoneMsg{err: app.Books.Load(ctx)}
	}
}

func saveEditCmd(ctx context.Context, app *state.App, id, title string) tea.Cmd {
	return func() tea.Msg {
		return saveEditDoneMsg{id: id, title: title, err: app.SaveEdit(ctx, id)}
	}
}

func deleteCmd(ctx context.Context, app *state.App, id, title string) tea.Cmd {
	return func() tea.Msg {
		return deleteDoneMsg{id: id, title: title, err: app.DeleteBook(ctx, id)}
	}
}

func createCmd(ctx context.Context, app *state.App, title string) tea.Cmd {
	return func() tea.Msg {
		return createDoneMsg{title: title, err: app.SaveNewBook(ctx)}
	}
}

func loginCmd(ctx context.Context, app *state.App, username string) tea.Cmd {
	return func() tea.Msg {
		ok := false
		app.AttemptLogin(ctx, func() { ok = true }, nil)
		return loginDoneMsg{username: username, ok: ok}
	}
}

// logoutWaitCmd waits for the background half of a logout.
func logoutWaitCmd(done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-done
		return logoutDoneMsg{}
	}
}

func readLogCmd(follower *logtail.Follower) tea.Cmd {
	return func() tea.Msg {
		lines, reset, err := follower.Next()
		return logLinesMsg{lines: lines, reset: reset, err: err}
	}
}
