package state

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/five82/booksite/internal/catalog"
)

// Default group names and placeholder image used when Options leaves them empty.
const (
	DefaultTitle            = "Book Site"
	DefaultAdminGroup       = "admins"
	DefaultMemberGroup      = "loggedInUsers"
	DefaultPlaceholderImage = "https://edwardtanguay.vercel.app/share/images/books/no-image.jpg"
)

// Options configure an App.
type Options struct {
	Title            string
	AdminGroup       string // group whose members may edit books
	MemberGroup      string // group every logged-in user carries
	PlaceholderImage string // imageUrl sent for new books
	Logger           zerolog.Logger
}

// App is the application state: one Session and one Books store, plus the
// operations that span both. The view layer holds a pointer to it and calls
// nothing else.
type App struct {
	Title       string
	MemberGroup string

	Session *Session
	Books   *Books

	logger zerolog.Logger
	wg     sync.WaitGroup
}

// New wires an App to backend.
func New(backend catalog.API, opts Options) *App {
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}
	if opts.AdminGroup == "" {
		opts.AdminGroup = DefaultAdminGroup
	}
	if opts.MemberGroup == "" {
		opts.MemberGroup = DefaultMemberGroup
	}
	if opts.PlaceholderImage == "" {
		opts.PlaceholderImage = DefaultPlaceholderImage
	}
	return &App{
		Title:       opts.Title,
		MemberGroup: opts.MemberGroup,
		Session:     NewSession(backend, opts.AdminGroup, opts.Logger),
		Books:       NewBooks(backend, opts.PlaceholderImage, opts.Logger),
		logger:      opts.Logger.With().Str("component", "app").Logger(),
	}
}

// Init loads the catalog and asks who owns the session, concurrently. Only a
// catalog failure is returned.
func (a *App) Init(ctx context.Context) error {
	// A failed catalog load must not cancel the user refresh, so the group
	// shares ctx instead of deriving one.
	var g errgroup.Group
	g.Go(func() error {
		return a.Books.Load(ctx)
	})
	g.Go(func() error {
		_ = a.Session.RefreshCurrentUser(ctx)
		return nil
	})
	return g.Wait()
}

// LoggedIn reports whether the current user is in the member group. Routes
// and navigation are gated on it.
func (a *App) LoggedIn() bool {
	return a.Session.IsInAccessGroup(a.MemberGroup)
}

// AttemptLogin runs Session.AttemptLogin and calls exactly one of onSuccess
// and onFailure. Either may be nil.
func (a *App) AttemptLogin(ctx context.Context, onSuccess, onFailure func()) {
	if err := a.Session.AttemptLogin(ctx); err != nil {
		if onFailure != nil {
			onFailure()
		}
		return
	}
	if onSuccess != nil {
		onSuccess()
	}
}

// Logout switches to the anonymous user and takes every book out of edit
// mode before returning. The backend logout and the follow-up user refresh
// run in the background; the returned channel is closed when they finish and
// may be ignored.
func (a *App) Logout(ctx context.Context) <-chan struct{} {
	a.Session.markAnonymous()
	a.Books.ResetEditing()
	a.logger.Info().Msg("logged out locally")

	done := make(chan struct{})
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		defer close(done)
		_ = a.Session.logoutRemote(ctx)
		_ = a.Session.RefreshCurrentUser(ctx)
	}()
	return done
}

// Wait blocks until background logouts have finished.
func (a *App) Wait() {
	a.wg.Wait()
}

// SaveEdit saves a staged edit. Any backend failure also clears the admin
// flag, whatever its cause.
func (a *App) SaveEdit(ctx context.Context, id string) error {
	return a.deauthOnFailure(a.Books.SaveEdit(ctx, id))
}

// DeleteBook deletes a book. Any backend failure also clears the admin flag.
func (a *App) DeleteBook(ctx context.Context, id string) error {
	return a.deauthOnFailure(a.Books.Delete(ctx, id))
}

// SaveNewBook creates a book from the draft. Any backend failure also clears
// the admin flag.
func (a *App) SaveNewBook(ctx context.Context) error {
	return a.deauthOnFailure(a.Books.SaveNewBook(ctx))
}

func (a *App) deauthOnFailure(err error) error {
	if reachedBackend(err) {
		a.Session.ForceLoggedOut()
	}
	return err
}
