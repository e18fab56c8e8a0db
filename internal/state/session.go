package state

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/five82/booksite/internal/catalog"
)

// SessionBackend is the part of catalog.API the session needs.
type SessionBackend interface {
	CurrentUser(ctx context.Context) (catalog.User, error)
	Login(ctx context.Context, creds catalog.Credentials) (catalog.User, error)
	Logout(ctx context.Context) error
}

// Session owns the current user, the login form and the admin flag.
type Session struct {
	backend    SessionBackend
	adminGroup string
	logger     zerolog.Logger

	mu            sync.RWMutex
	current       catalog.User
	form          LoginForm
	adminLoggedIn bool
}

// NewSession starts with the blank user: no session is known yet.
func NewSession(backend SessionBackend, adminGroup string, logger zerolog.Logger) *Session {
	return &Session{
		backend:    backend,
		adminGroup: adminGroup,
		logger:     logger.With().Str("component", "session").Logger(),
		current:    BlankUser(),
	}
}

// CurrentUser returns a copy of the current user.
func (s *Session) CurrentUser() catalog.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// LoginForm returns the staged login form.
func (s *Session) LoginForm() LoginForm {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.form
}

// AdminLoggedIn reports whether admin controls should be offered. It is set
// when the backend confirms a user in the admin group and cleared by logout
// or by any failed book mutation.
func (s *Session) AdminLoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.adminLoggedIn
}

// AdminGroup returns the group that grants admin controls.
func (s *Session) AdminGroup() string {
	return s.adminGroup
}

// IsInAccessGroup reports whether the current user carries the named group.
func (s *Session) IsInAccessGroup(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.InGroup(name)
}

// ChangeLoginFormField stages value into the login form.
func (s *Session) ChangeLoginFormField(field LoginField, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form = s.form.with(field, value)
}

// AttemptLogin sends the staged credentials. On success the returned user
// becomes current and the form is cleared. On failure the form keeps what was
// typed and shows BadLoginMessage.
func (s *Session) AttemptLogin(ctx context.Context) error {
	s.mu.RLock()
	creds := catalog.Credentials{Username: s.form.Username, Password: s.form.Password}
	s.mu.RUnlock()

	if creds.Password == "" {
		s.failLogin()
		s.logger.Info().Str("username", creds.Username).Msg("login rejected: empty password")
		return ErrPasswordRequired
	}

	user, err := s.backend.Login(ctx, creds)
	if err != nil {
		s.failLogin()
		s.logger.Warn().
			Err(err).
			Str("username", creds.Username).
			Str("kind", catalog.Classify(err).String()).
			Msg("login failed")
		return fmt.Errorf("login: %w", err)
	}

	s.mu.Lock()
	s.setCurrentLocked(user)
	s.form = LoginForm{}
	s.mu.Unlock()

	s.logger.Info().Str("username", user.Username).Strs("groups", user.AccessGroups).Msg("logged in")
	return nil
}

func (s *Session) failLogin() {
	s.mu.Lock()
	s.form.Message = BadLoginMessage
	s.mu.Unlock()
}

// RefreshCurrentUser asks the backend who owns the session. On failure the
// current user is left as it was and the error is only logged; it is
// returned for callers that care.
func (s *Session) RefreshCurrentUser(ctx context.Context) error {
	user, err := s.backend.CurrentUser(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("refresh current user failed")
		return fmt.Errorf("refresh current user: %w", err)
	}
	s.mu.Lock()
	s.setCurrentLocked(user)
	s.mu.Unlock()
	return nil
}

// ForceLoggedOut clears the admin flag without touching the current user.
func (s *Session) ForceLoggedOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.adminLoggedIn {
		s.logger.Warn().Msg("admin session cleared locally")
	}
	s.adminLoggedIn = false
}

func (s *Session) markAnonymous() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = AnonymousUser()
	s.adminLoggedIn = false
}

func (s *Session) logoutRemote(ctx context.Context) error {
	if err := s.backend.Logout(ctx); err != nil {
		s.logger.Error().Err(err).Str("kind", catalog.Classify(err).String()).Msg("logout failed")
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

func (s *Session) setCurrentLocked(user catalog.User) {
	user = user.Clone()
	if user.AccessGroups == nil {
		user.AccessGroups = []string{}
	}
	s.current = user
	s.adminLoggedIn = s.adminGroup != "" && user.InGroup(s.adminGroup)
}
