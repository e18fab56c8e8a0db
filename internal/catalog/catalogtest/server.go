// Package catalogtest provides an in-memory implementation of the book backend.
//
// It serves the same REST surface as the real backend and adds hooks for
// tests: forced failures, held requests and a request log. `booksite
// fakeserver` serves it for local development.
package catalogtest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/five82/booksite/internal/catalog"
)

const (
	// SessionCookie is the cookie carrying the session token.
	SessionCookie = "booksite_session"
	// AdminGroup is the group allowed to mutate books.
	AdminGroup = "admins"
	// MemberGroup is granted to every authenticated user.
	MemberGroup = "loggedInUsers"
)

// Call records one request received by the server.
type Call struct {
	Method string
	Path   string
	Body   []byte
}

type account struct {
	user catalog.User
	hash []byte
}

type hold struct {
	entered chan struct{}
	release chan struct{}
}

// Server is an in-memory book backend.
type Server struct {
	router chi.Router

	mu       sync.Mutex
	books    []catalog.Book
	accounts map[string]account
	sessions map[string]string // token -> username
	failures map[string][]int  // "METHOD pattern" -> queued statuses
	holds    map[string]*hold
	calls    []Call
}

// NewServer returns an empty backend.
func NewServer() *Server {
	s := &Server{
		router:   chi.NewRouter(),
		accounts: make(map[string]account),
		sessions: make(map[string]string),
		failures: make(map[string][]int),
		holds:    make(map[string]*hold),
	}
	s.handle(http.MethodGet, "/books", s.listBooks)
	s.handle(http.MethodGet, "/get-current-user", s.currentUser)
	s.handle(http.MethodPost, "/login", s.login)
	s.handle(http.MethodGet, "/logout", s.logout)
	s.handle(http.MethodPost, "/book", s.requireAdmin(s.createBook))
	s.handle(http.MethodPut, "/book/{id}", s.requireAdmin(s.updateBook))
	s.handle(http.MethodDelete, "/book/{id}", s.requireAdmin(s.deleteBook))
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// AddUser registers an account. The password is stored as a bcrypt hash.
// Every user gets MemberGroup in addition to the given groups.
func (s *Server) AddUser(username, password, firstName, lastName string, groups ...string) (catalog.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return catalog.User{}, err
	}
	user := catalog.User{
		ID:           uuid.NewString(),
		Username:     username,
		FirstName:    firstName,
		LastName:     lastName,
		AccessGroups: append([]string{MemberGroup}, groups...),
	}
	s.mu.Lock()
	s.accounts[username] = account{user: user, hash: hash}
	s.mu.Unlock()
	return user.Clone(), nil
}

// AddBook stores b, assigning an id when it has none.
func (s *Server) AddBook(b catalog.Book) catalog.Book {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.LanguageText == "" {
		b.LanguageText = catalog.Capitalize(b.Language)
	}
	s.mu.Lock()
	s.books = append(s.books, b)
	s.mu.Unlock()
	return b
}

// Books returns a copy of the stored books.
func (s *Server) Books() []catalog.Book {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]catalog.Book(nil), s.books...)
}

// FailNext makes the next request matching method and route pattern (for
// example "/book/{id}") answer with status instead of being served.
// Calls queue up.
func (s *Server) FailNext(method, pattern string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := method + " " + pattern
	s.failures[key] = append(s.failures[key], status)
}

// Hold parks the next request matching method and pattern until release is
// called. entered is closed once that request has arrived.
func (s *Server) Hold(method, pattern string) (entered <-chan struct{}, release func()) {
	h := &hold{entered: make(chan struct{}), release: make(chan struct{})}
	s.mu.Lock()
	s.holds[method+" "+pattern] = h
	s.mu.Unlock()
	var once sync.Once
	return h.entered, func() { once.Do(func() { close(h.release) }) }
}

// Calls returns the requests received so far.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CallCount counts received requests matching method and path.
func (s *Server) CallCount(method, path string) int {
	n := 0
	for _, c := range s.Calls() {
		if c.Method == method && c.Path == path {
			n++
		}
	}
	return n
}

func (s *Server) handle(method, pattern string, h http.HandlerFunc) {
	key := method + " " + pattern
	s.router.MethodFunc(method, pattern, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		s.mu.Lock()
		s.calls = append(s.calls, Call{Method: r.Method, Path: r.URL.Path, Body: body})
		status := 0
		if queued := s.failures[key]; len(queued) > 0 {
			status = queued[0]
			s.failures[key] = queued[1:]
		}
		h2 := s.holds[key]
		delete(s.holds, key)
		s.mu.Unlock()

		if h2 != nil {
			close(h2.entered)
			select {
			case <-h2.release:
			case <-r.Context().Done():
				return
			}
		}
		if status != 0 {
			http.Error(w, http.StatusText(status), status)
			return
		}
		h(w, r)
	})
}

func (s *Server) sessionUser(r *http.Request) (catalog.User, bool) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return catalog.User{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	username, ok := s.sessions[cookie.Value]
	if !ok {
		return catalog.User{}, false
	}
	acct, ok := s.accounts[username]
	if !ok {
		return catalog.User{}, false
	}
	return acct.user.Clone(), true
}

func (s *Server) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := s.sessionUser(r)
		if !ok {
			http.Error(w, "not logged in", http.StatusUnauthorized)
			return
		}
		if !user.InGroup(AdminGroup) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		next(w, r)
	}
}

func (s *Server) listBooks(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.Books())
}

func (s *Server) currentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := s.sessionUser(r)
	if !ok {
		writeJSON(w, http.StatusOK, catalog.User{Username: "anonymousUser", AccessGroups: []string{}})
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var creds catalog.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	acct, ok := s.accounts[creds.Username]
	s.mu.Unlock()
	if !ok || bcrypt.CompareHashAndPassword(acct.hash, []byte(creds.Password)) != nil {
		http.Error(w, "bad login", http.StatusUnauthorized)
		return
	}
	token := uuid.NewString()
	s.mu.Lock()
	s.sessions[token] = creds.Username
	s.mu.Unlock()
	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: token, Path: "/", HttpOnly: true})
	writeJSON(w, http.StatusOK, acct.user)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		s.mu.Lock()
		delete(s.sessions, cookie.Value)
		s.mu.Unlock()
	}
	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "", Path: "/", MaxAge: -1})
	w.WriteHeader(http.StatusOK)
}

func (s *Server) createBook(w http.ResponseWriter, r *http.Request) {
	var req catalog.NewBook
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	created := s.AddBook(catalog.Book{
		Title:         req.Title,
		Description:   req.Description,
		NumberOfPages: req.NumberOfPages,
		Language:      req.Language,
		ImageURL:      req.ImageURL,
		BuyURL:        req.BuyURL,
	})
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) updateBook(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req catalog.BookUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.books {
		if s.books[i].ID != id {
			continue
		}
		s.books[i].Title = req.Title
		s.books[i].Description = req.Description
		s.books[i].Language = req.Language
		s.books[i].LanguageText = catalog.Capitalize(req.Language)
		writeJSON(w, http.StatusOK, s.books[i])
		return
	}
	http.Error(w, "not found", http.StatusNotFound)
}

func (s *Server) deleteBook(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.books {
		if s.books[i].ID == id {
			s.books = append(s.books[:i:i], s.books[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	http.Error(w, "not found", http.StatusNotFound)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
