package state

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/five82/booksite/internal/catalog"
	"github.com/five82/booksite/internal/catalog/catalogtest"
)

type fixture struct {
	app     *App
	backend *catalogtest.Server
	server  *httptest.Server
	ctx     context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	backend := catalogtest.NewServer()
	_, err := backend.AddUser("admin", "secret", "Ada", "Admin", catalogtest.AdminGroup)
	require.NoError(t, err)
	_, err = backend.AddUser("reader", "secret", "Rex", "Reader")
	require.NoError(t, err)

	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)

	client, err := catalog.NewClient(server.URL, 2*time.Second, zerolog.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	return &fixture{
		app:     New(client, Options{Logger: zerolog.Nop()}),
		backend: backend,
		server:  server,
		ctx:     ctx,
	}
}

func (f *fixture) login(t *testing.T, username string) {
	t.Helper()
	f.app.Session.ChangeLoginFormField(FieldUsername, username)
	f.app.Session.ChangeLoginFormField(FieldPassword, "secret")
	require.NoError(t, f.app.Session.AttemptLogin(f.ctx))
}

// seed stores books on the backend and loads them into the store.
func (f *fixture) seed(t *testing.T, books ...catalog.Book) []catalog.Book {
	t.Helper()
	stored := make([]catalog.Book, 0, len(books))
	for _, b := range books {
		stored = append(stored, f.backend.AddBook(b))
	}
	require.NoError(t, f.app.Books.Load(f.ctx))
	return stored
}

func (f *fixture) book(t *testing.T, id string) Book {
	t.Helper()
	b, ok := f.app.Books.Get(id)
	require.True(t, ok, "book %s not in store", id)
	return b
}
