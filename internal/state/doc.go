// Package state holds the book site's application state.
//
// # Overview
//
// App is the single application-state object. It owns:
//
//   - Session: current user, login form, admin flag
//   - Books: book list, per-book staged edits, new-book draft
//
// The view layer receives a *App and routes every user action through its
// methods. There are no package-level singletons.
//
// # Staged Edits
//
// Each Book carries its committed fields and a Staged copy of the three
// editable ones (title, description, language). The edit form writes only to
// Staged. CancelEdit resets Staged from the committed values; a successful
// SaveEdit copies Staged into them and recomputes LanguageText. Field
// mutations name fields through the closed BookField and LoginField
// enumerations.
//
//	Viewing ──BeginEdit──> Editing ──CancelEdit / SaveEdit ok──> Viewing
//
// # Updates
//
// Stores replace their book slice on every change, copying it and swapping
// one record. A slice returned by Books.List is never written again, so the
// view may keep it across frames.
//
// # Concurrency
//
// Network calls run outside the store locks; their results are applied under
// the lock when they return. A save or delete for a record that already has a
// request pending fails with ErrInFlight without reaching the backend.
// Logout is fire-and-forget: local state changes before it returns, the
// backend call and user refresh run in a goroutine tracked by App.Wait.
//
// # Failure Policy
//
//   - Book mutations: the failure is logged as "bad request" (4xx) or
//     "general error" and the admin flag is cleared, whatever the cause.
//     Failed saves leave the edit open; failed deletes leave the list alone.
//   - Login: the form shows BadLoginMessage and keeps the typed values.
//   - User refresh: logged, the current user is kept.
//
// Nothing is retried.
package state
