package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the book site client settings.
type Config struct {
	BackendURL          string
	Title               string
	RequestTimeout      time.Duration
	LogFile             string
	LogLevel            string
	AdminGroup          string
	MemberGroup         string
	PlaceholderImageURL string
}

// BackendURLEnv overrides backend_url when set.
const BackendURLEnv = "BOOKSITE_BACKEND_URL"

const (
	defaultConfigPath     = "~/.config/booksite/config.toml"
	defaultBackendURL     = "http://127.0.0.1:3611"
	defaultTitle          = "Book Site"
	defaultRequestTimeout = 10 * time.Second
	defaultLogFile        = "~/.local/state/booksite/booksite.log"
	defaultLogLevel       = "info"
	defaultAdminGroup     = "admins"
	defaultMemberGroup    = "loggedInUsers"
	defaultPlaceholder    = "https://edwardtanguay.vercel.app/share/images/books/no-image.jpg"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		BackendURL:          defaultBackendURL,
		Title:               defaultTitle,
		RequestTimeout:      defaultRequestTimeout,
		LogFile:             mustExpand(defaultLogFile),
		LogLevel:            defaultLogLevel,
		AdminGroup:          defaultAdminGroup,
		MemberGroup:         defaultMemberGroup,
		PlaceholderImageURL: defaultPlaceholder,
	}
}

// Load locates and parses the config, falling back to defaults when missing.
// BackendURLEnv is applied last.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			applyEnv(&cfg)
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		BackendURL          string `toml:"backend_url"`
		Title               string `toml:"title"`
		RequestTimeout      string `toml:"request_timeout"`
		LogFile             string `toml:"log_file"`
		LogLevel            string `toml:"log_level"`
		AdminGroup          string `toml:"admin_group"`
		MemberGroup         string `toml:"member_group"`
		PlaceholderImageURL string `toml:"placeholder_image_url"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	setString(&cfg.BackendURL, raw.BackendURL)
	setString(&cfg.Title, raw.Title)
	setString(&cfg.LogLevel, raw.LogLevel)
	setString(&cfg.AdminGroup, raw.AdminGroup)
	setString(&cfg.MemberGroup, raw.MemberGroup)
	setString(&cfg.PlaceholderImageURL, raw.PlaceholderImageURL)
	if logFile := strings.TrimSpace(raw.LogFile); logFile != "" {
		cfg.LogFile = mustExpand(logFile)
	}

	if timeout := strings.TrimSpace(raw.RequestTimeout); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return Config{}, fmt.Errorf("parse config: request_timeout: %w", err)
		}
		if d <= 0 {
			return Config{}, fmt.Errorf("parse config: request_timeout must be positive, got %s", d)
		}
		cfg.RequestTimeout = d
	}

	applyEnv(&cfg)
	return cfg, nil
}

// DefaultPath returns the expanded default config location.
func DefaultPath() string {
	return mustExpand(defaultConfigPath)
}

func applyEnv(cfg *Config) {
	if v, ok := os.LookupEnv(BackendURLEnv); ok {
		setString(&cfg.BackendURL, v)
	}
}

func setString(dst *string, value string) {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		*dst = trimmed
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
