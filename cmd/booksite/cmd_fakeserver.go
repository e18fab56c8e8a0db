package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/booksite/internal/catalog/catalogtest"
	"github.com/five82/booksite/internal/logging"
)

var fakeServerFlags struct {
	addr          string
	adminUser     string
	adminPassword string
	memberUser    string
	seed          bool
}

var fakeServerCmd = &cobra.Command{
	Use:   "fakeserver",
	Short: "Serve an in-memory backend for local development",
	Long: "fakeserver serves the booksite REST API from memory: /books, /book,\n" +
		"/login, /logout and /get-current-user. Data is lost on exit.",
	Args: cobra.NoArgs,
	RunE: runFakeServer,
}

func init() {
	f := fakeServerCmd.Flags()
	f.StringVar(&fakeServerFlags.addr, "addr", "127.0.0.1:3611", "listen address")
	f.StringVar(&fakeServerFlags.adminUser, "admin-user", "admin", "username of the seeded admin")
	f.StringVar(&fakeServerFlags.adminPassword, "admin-password", "admin", "password of the seeded admin and member")
	f.StringVar(&fakeServerFlags.memberUser, "member-user", "reader", "username of the seeded non-admin member (empty to skip)")
	f.BoolVar(&fakeServerFlags.seed, "seed", true, "start with sample books")
}

func runFakeServer(cmd *cobra.Command, _ []string) error {
	logger, err := logging.Console(cmd.ErrOrStderr(), "info")
	if err != nil {
		return err
	}
	logger = logger.With().Str("component", "fakeserver").Logger()

	backend := catalogtest.NewServer()
	if fakeServerFlags.seed {
		catalogtest.SeedBooks(backend)
	}
	if _, err := backend.AddUser(fakeServerFlags.adminUser, fakeServerFlags.adminPassword, "Admin", "User", catalogtest.AdminGroup); err != nil {
		return fmt.Errorf("add admin: %w", err)
	}
	if fakeServerFlags.memberUser != "" {
		if _, err := backend.AddUser(fakeServerFlags.memberUser, fakeServerFlags.adminPassword, "Member", "User"); err != nil {
			return fmt.Errorf("add member: %w", err)
		}
	}

	srv := &http.Server{
		Addr:              fakeServerFlags.addr,
		Handler:           backend,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", fakeServerFlags.addr).
			Int("books", len(backend.Books())).
			Str("admin", fakeServerFlags.adminUser).
			Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-cmd.Context().Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	logger.Info().Msg("shutting down")
	return srv.Shutdown(shutdownCtx)
}
