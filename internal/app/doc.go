// Package app is the composition root of the book site client.
//
// # Overview
//
// Run wires configuration, logging, the backend client, application state
// and the UI together, then blocks until the user quits or the context is
// cancelled. The CLI subcommands reuse LoadConfig and NewState so every
// entry point talks to the backend the same way.
//
// # Startup Sequence
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()        Read config.toml, apply BOOKSITE_BACKEND_URL
//	       ├─────> logging.OpenFile()   JSON log shown on the Logs page
//	       ├─────> prefs.Load()         Theme and last username
//	       ├─────> catalog.NewClient()  HTTP client with a cookie jar
//	       ├─────> state.New()          Session and Books stores
//	       └─────> ui.Run()             TUI (blocks); Init loads the catalog
//
// There is no background polling. The catalog is loaded once at startup and
// again on request, after a book is added, or when the user presses r;
// periodic reloads would throw away staged edits.
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - Config file unreadable or invalid
//   - Log file cannot be opened
//   - Backend URL invalid
//
// Recoverable errors (logged, the UI starts anyway):
//   - Preferences unreadable: defaults are used
//   - Backend unreachable: the Books page shows the failure and r retries
//
// # Usage Example
//
//	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer cancel()
//
//	if err := app.Run(ctx, app.Options{StartPath: "/login"}); err != nil {
//		log.Fatalf("booksite failed: %v", err)
//	}
package app
