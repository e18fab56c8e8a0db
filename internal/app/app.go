package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/five82/booksite/internal/catalog"
	"github.com/five82/booksite/internal/config"
	"github.com/five82/booksite/internal/logging"
	"github.com/five82/booksite/internal/prefs"
	"github.com/five82/booksite/internal/state"
	"github.com/five82/booksite/internal/ui"
)

// Options configure the book site client.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/booksite/prefs.toml
	BackendURL string // overrides config file and environment
	StartPath  string // page to open, e.g. "/login"
}

// LoadConfig reads the config file and applies the BackendURL override.
func LoadConfig(opts Options) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if url := strings.TrimSpace(opts.BackendURL); url != "" {
		cfg.BackendURL = url
	}
	return cfg, nil
}

// NewState builds the backend client and the application state for cfg.
func NewState(cfg config.Config, logger zerolog.Logger) (*state.App, error) {
	client, err := catalog.NewClient(cfg.BackendURL, cfg.RequestTimeout, logger)
	if err != nil {
		return nil, fmt.Errorf("init catalog client: %w", err)
	}
	return state.New(client, state.Options{
		Title:            cfg.Title,
		AdminGroup:       cfg.AdminGroup,
		MemberGroup:      cfg.MemberGroup,
		PlaceholderImage: cfg.PlaceholderImageURL,
		Logger:           logger,
	}), nil
}

// Run boots the TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := LoadConfig(opts)
	if err != nil {
		return err
	}

	logger, closer, err := logging.OpenFile(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer func() { _ = closer.Close() }()

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		logger.Warn().Err(err).Msg("load prefs failed, using defaults")
	}

	books, err := NewState(cfg, logger)
	if err != nil {
		return err
	}

	logger.Info().
		Str("backend", cfg.BackendURL).
		Dur("timeout", cfg.RequestTimeout).
		Msg("starting")

	err = ui.Run(ui.Options{
		Context:    ctx,
		App:        books,
		BackendURL: cfg.BackendURL,
		LogPath:    cfg.LogFile,
		StartPath:  opts.StartPath,
		Prefs:      userPrefs,
		PrefsPath:  opts.PrefsPath,
		Logger:     logger,
	})

	// Let a logout issued just before quitting reach the backend.
	books.Wait()
	if err != nil {
		logger.Error().Err(err).Msg("ui exited with error")
		return err
	}
	logger.Info().Msg("exiting")
	return nil
}
