package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/five82/booksite/internal/catalog/catalogtest"
)

func startBackend(t *testing.T) (*catalogtest.Server, string) {
	t.Helper()
	backend := catalogtest.NewServer()
	catalogtest.SeedBooks(backend)
	_, err := backend.AddUser("admin", "secret", "Ada", "Admin", catalogtest.AdminGroup)
	require.NoError(t, err)
	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)
	return backend, server.URL
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	missing := filepath.Join(t.TempDir(), "missing.toml")
	rootCmd.SetArgs(append(args, "--config", missing))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestBooksCommandPrintsCatalog(t *testing.T) {
	backend, url := startBackend(t)

	out, err := execute(t, "", "books", "--backend", url)
	require.NoError(t, err)
	require.Contains(t, out, "TITLE")
	for _, b := range backend.Books() {
		require.Contains(t, out, b.Title)
	}
}

func TestWhoamiLogsInAndOut(t *testing.T) {
	backend, url := startBackend(t)

	out, err := execute(t, "secret\n", "whoami", "--backend", url, "--user", "admin")
	require.NoError(t, err)
	require.Contains(t, out, "Username: admin")
	require.Contains(t, out, "Admin:    true")
	require.Equal(t, 1, backend.CallCount(http.MethodGet, "/logout"))
}

func TestWhoamiRejectsBadPassword(t *testing.T) {
	_, url := startBackend(t)

	_, err := execute(t, "nope\n", "whoami", "--backend", url, "--user", "admin")
	require.ErrorContains(t, err, "bad login")
}
