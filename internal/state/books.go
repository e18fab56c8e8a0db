package state

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/five82/booksite/internal/catalog"
)

// BookBackend is the part of catalog.API the book store needs.
type BookBackend interface {
	ListBooks(ctx context.Context) ([]catalog.Book, error)
	CreateBook(ctx context.Context, book catalog.NewBook) (catalog.Book, error)
	UpdateBook(ctx context.Context, id string, update catalog.BookUpdate) (catalog.Book, error)
	DeleteBook(ctx context.Context, id string) error
}

// Books owns the book list, per-book staged edits and the new-book draft.
// Every change produces a new slice; a slice handed out by List is never
// written again.
type Books struct {
	backend          BookBackend
	placeholderImage string
	logger           zerolog.Logger

	mu       sync.RWMutex
	books    []Book
	adding   bool
	draft    EditFields
	inFlight map[string]struct{}
	creating bool
}

// NewBooks returns an empty store. placeholderImage is sent as imageUrl for
// every created book.
func NewBooks(backend BookBackend, placeholderImage string, logger zerolog.Logger) *Books {
	return &Books{
		backend:          backend,
		placeholderImage: placeholderImage,
		logger:           logger.With().Str("component", "books").Logger(),
		inFlight:         make(map[string]struct{}),
	}
}

// List returns the current books. The slice must not be modified.
func (s *Books) List() []Book {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.books
}

// Get returns the book with the given id.
func (s *Books) Get(id string) (Book, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.books[i], true
	}
	return Book{}, false
}

// IsAdding reports whether the add form is open.
func (s *Books) IsAdding() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.adding
}

// NewBookDraft returns the staged new-book fields.
func (s *Books) NewBookDraft() EditFields {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.draft
}

// Pending reports whether a save or delete for id is in flight.
func (s *Books) Pending(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.inFlight[id]
	return ok
}

// Load fetches the whole catalog and replaces the local list. Staged edits
// are discarded. On failure the list is left untouched.
func (s *Books) Load(ctx context.Context) error {
	records, err := s.backend.ListBooks(ctx)
	if err != nil {
		s.logger.Error().Err(err).Str("kind", catalog.Classify(err).String()).Msg("load books failed")
		return fmt.Errorf("load books: %w", err)
	}
	books := make([]Book, 0, len(records))
	for _, rec := range records {
		// Without an id a record can be neither edited nor deleted.
		if strings.TrimSpace(rec.ID) == "" {
			s.logger.Warn().Str("title", rec.Title).Msg("skipping book without id")
			continue
		}
		books = append(books, bookFromRecord(rec))
	}

	s.mu.Lock()
	s.books = books
	s.mu.Unlock()

	s.logger.Debug().Int("count", len(books)).Msg("books loaded")
	return nil
}

// BeginEdit puts the book into edit mode, staging from the in-memory values.
func (s *Books) BeginEdit(id string) error {
	return s.update(id, func(b Book) Book {
		b.IsBeingEdited = true
		return b
	})
}

// ChangeStagedField stages value into one editable field of the book.
func (s *Books) ChangeStagedField(id string, field BookField, value string) error {
	if !validField(field) {
		return fmt.Errorf("change %s: unknown field", field)
	}
	return s.update(id, func(b Book) Book {
		b.Staged = b.Staged.With(field, value)
		return b
	})
}

// CancelEdit leaves edit mode and discards staged changes.
func (s *Books) CancelEdit(id string) error {
	return s.update(id, func(b Book) Book {
		b.IsBeingEdited = false
		b.Staged = b.Committed()
		return b
	})
}

// ResetEditing takes every book out of edit mode. Staged values are kept.
func (s *Books) ResetEditing() {
	s.mu.Lock()
	defer s.mu.Unlock()
	books := make([]Book, len(s.books))
	for i, b := range s.books {
		b.IsBeingEdited = false
		books[i] = b
	}
	s.books = books
}

// SaveEdit sends the staged fields of the book to the backend. On success
// they become the committed values and edit mode ends. On failure the edit
// stays open and the error is returned.
func (s *Books) SaveEdit(ctx context.Context, id string) error {
	book, ok := s.Get(id)
	if !ok {
		return fmt.Errorf("save book %s: %w", id, ErrBookNotFound)
	}
	if !s.acquire(id) {
		return fmt.Errorf("save book %s: %w", id, ErrInFlight)
	}
	defer s.release(id)

	sent := book.Staged
	_, err := s.backend.UpdateBook(ctx, id, catalog.BookUpdate{
		Title:       sent.Title,
		Description: sent.Description,
		Language:    sent.Language,
	})
	if err != nil {
		s.logFailure(err, "save", id)
		return fmt.Errorf("save book %s: %w", id, err)
	}

	// The book may have vanished in a reload while the request was out.
	_ = s.update(id, func(b Book) Book { return b.commit(sent) })
	s.logger.Info().Str("id", id).Msg("book saved")
	return nil
}

// Delete removes the book on the backend and then locally. On failure the
// list is unchanged.
func (s *Books) Delete(ctx context.Context, id string) error {
	if _, ok := s.Get(id); !ok {
		return fmt.Errorf("delete book %s: %w", id, ErrBookNotFound)
	}
	if !s.acquire(id) {
		return fmt.Errorf("delete book %s: %w", id, ErrInFlight)
	}
	defer s.release(id)

	if err := s.backend.DeleteBook(ctx, id); err != nil {
		s.logFailure(err, "delete", id)
		return fmt.Errorf("delete book %s: %w", id, err)
	}

	s.mu.Lock()
	books := make([]Book, 0, len(s.books))
	for _, b := range s.books {
		if b.ID != id {
			books = append(books, b)
		}
	}
	s.books = books
	s.mu.Unlock()

	s.logger.Info().Str("id", id).Msg("book deleted")
	return nil
}

// ToggleAddForm opens or closes the add form. The draft is cleared on every
// toggle, so the form always opens empty.
func (s *Books) ToggleAddForm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = EditFields{}
	s.adding = !s.adding
}

// ChangeNewBookField stages value into the new-book draft.
func (s *Books) ChangeNewBookField(field BookField, value string) error {
	if !validField(field) {
		return fmt.Errorf("change new book %s: unknown field", field)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = s.draft.With(field, value)
	return nil
}

// SaveNewBook creates a book from the draft. On success the whole list is
// reloaded so server-assigned fields are authoritative, then the form closes
// and the draft is cleared. On failure draft and form are left open.
func (s *Books) SaveNewBook(ctx context.Context) error {
	if !s.beginCreate() {
		return fmt.Errorf("create book: %w", ErrInFlight)
	}
	defer s.endCreate()

	draft := s.NewBookDraft()
	created, err := s.backend.CreateBook(ctx, catalog.NewBook{
		Title:         draft.Title,
		Description:   draft.Description,
		Language:      draft.Language,
		NumberOfPages: 0,
		ImageURL:      s.placeholderImage,
		BuyURL:        "",
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("create book failed: general error")
		return fmt.Errorf("create book: %w", err)
	}
	s.logger.Info().Str("id", created.ID).Str("title", created.Title).Msg("book created")

	// Load logs its own failure; the create already succeeded.
	_ = s.Load(ctx)

	s.mu.Lock()
	s.adding = false
	s.draft = EditFields{}
	s.mu.Unlock()
	return nil
}

func (s *Books) logFailure(err error, op, id string) {
	kind := catalog.Classify(err)
	evt := s.logger.Error()
	if kind == catalog.KindBadRequest {
		evt = s.logger.Warn()
	}
	evt.Err(err).
		Str("id", id).
		Int("status", catalog.StatusCode(err)).
		Str("kind", kind.String()).
		Msgf("%s failed: %s", op, kind)
}

// update replaces the book with the given id by fn(book) in a new slice.
func (s *Books) update(id string, fn func(Book) Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return ErrBookNotFound
	}
	books := make([]Book, len(s.books))
	copy(books, s.books)
	books[i] = fn(books[i])
	s.books = books
	return nil
}

func (s *Books) indexLocked(id string) int {
	for i := range s.books {
		if s.books[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Books) acquire(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[key]; busy {
		return false
	}
	s.inFlight[key] = struct{}{}
	return true
}

func (s *Books) release(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, key)
}

func (s *Books) beginCreate() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.creating {
		return false
	}
	s.creating = true
	return true
}

func (s *Books) endCreate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creating = false
}
