// Package ui provides the terminal front end for the book catalog.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. Model holds view state only: the current
// page, the selected row, text inputs, the log viewport. Everything the
// catalog knows lives in state.App, and the model reads it on every render.
// Keystrokes that change data call the stores directly (staging a field,
// opening an edit); operations that talk to the backend run as tea.Cmd and
// report back with a done message.
//
// # Pages
//
//   - Books: the catalog list. Admins can edit a book inline, delete it
//     after confirming, or open the add form.
//   - Login: username and password, offered only while logged out.
//   - Logout: who is logged in, offered only while logged in.
//   - Logs: the client's own log file, followed like tail -f, with regex
//     search.
//
// Routes are plain paths ("/", "/login", "/logout", "/logs"). Requesting a
// page the session does not allow lands on Books instead; the same check runs
// again after every operation so a logout or a forced de-authentication
// moves the user off a page they can no longer see.
//
// # Package Structure
//
//   - model.go: Model, Update dispatch, key routing, Run
//   - messages.go: tea messages and the commands that produce them
//   - routes.go: route parsing, gating and the nav order
//   - books.go, book_form.go: the book list and its inline form
//   - login.go, logout.go: session pages
//   - logs.go, log_format.go: log viewer and zerolog JSON formatting
//   - header.go, help.go, modal.go: chrome, help overlay, confirm dialog
//   - theme.go, style_helpers.go, layout.go: colors and drawing helpers
//
// # Key Handling
//
// ctrl+c always quits. An open modal or the help overlay takes the next key.
// Pages with a focused text input (Login, an open book form, log search)
// receive every other key, so typing "q" into a title does not quit. Global
// keys come next and page keys last.
//
// # Usage Example
//
//	err := ui.Run(ui.Options{
//		Context:    ctx,
//		App:        app,
//		BackendURL: cfg.BackendURL,
//		LogPath:    cfg.LogFile,
//		Prefs:      userPrefs,
//		Logger:     logger,
//	})
package ui
