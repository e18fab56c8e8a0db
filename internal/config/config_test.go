package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

// unsetBackendEnv removes BackendURLEnv for the test, restoring it afterwards.
func unsetBackendEnv(t *testing.T) {
	t.Helper()
	t.Setenv(BackendURLEnv, "")
	os.Unsetenv(BackendURLEnv)
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	unsetBackendEnv(t)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.BackendURL != defaultBackendURL {
		t.Fatalf("BackendURL = %q, want %q", cfg.BackendURL, defaultBackendURL)
	}
	if cfg.RequestTimeout != defaultRequestTimeout {
		t.Fatalf("RequestTimeout = %s, want %s", cfg.RequestTimeout, defaultRequestTimeout)
	}
	if cfg.Title != "Book Site" {
		t.Fatalf("Title = %q, want %q", cfg.Title, "Book Site")
	}
	if cfg.AdminGroup != "admins" || cfg.MemberGroup != "loggedInUsers" {
		t.Fatalf("groups = %q/%q, want admins/loggedInUsers", cfg.AdminGroup, cfg.MemberGroup)
	}

	wantLog, err := expandPath(defaultLogFile)
	if err != nil {
		t.Fatalf("expandPath(defaultLogFile) returned error: %v", err)
	}
	if cfg.LogFile != wantLog {
		t.Fatalf("LogFile = %q, want %q", cfg.LogFile, wantLog)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	unsetBackendEnv(t)

	path := writeConfig(t, `
backend_url = "  http://books.lan:8080/api  "
title = " Shelf "
request_timeout = "2500ms"
log_file = "  ~/logs/booksite.log  "
log_level = "debug"
admin_group = "editors"
member_group = "members"
placeholder_image_url = "https://img.example/none.png"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.BackendURL != "http://books.lan:8080/api" {
		t.Fatalf("BackendURL = %q, want %q", cfg.BackendURL, "http://books.lan:8080/api")
	}
	if cfg.Title != "Shelf" {
		t.Fatalf("Title = %q, want %q", cfg.Title, "Shelf")
	}
	if cfg.RequestTimeout != 2500*time.Millisecond {
		t.Fatalf("RequestTimeout = %s, want 2.5s", cfg.RequestTimeout)
	}
	if !strings.HasPrefix(cfg.LogFile, home) {
		t.Fatalf("LogFile = %q, want it under HOME %q", cfg.LogFile, home)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.AdminGroup != "editors" || cfg.MemberGroup != "members" {
		t.Fatalf("groups = %q/%q, want editors/members", cfg.AdminGroup, cfg.MemberGroup)
	}
	if cfg.PlaceholderImageURL != "https://img.example/none.png" {
		t.Fatalf("PlaceholderImageURL = %q", cfg.PlaceholderImageURL)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	unsetBackendEnv(t)

	path := writeConfig(t, `
backend_url = "   "
log_file = ""
request_timeout = ""
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	want := Default()
	if cfg != want {
		t.Fatalf("Load = %+v, want defaults %+v", cfg, want)
	}
}

func TestLoad_EnvOverridesBackendURL(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(BackendURLEnv, " http://env.example:9000 ")

	path := writeConfig(t, `backend_url = "http://file.example"`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.BackendURL != "http://env.example:9000" {
		t.Fatalf("BackendURL = %q, want env value", cfg.BackendURL)
	}

	cfg, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.BackendURL != "http://env.example:9000" {
		t.Fatalf("BackendURL = %q, want env value without a config file", cfg.BackendURL)
	}
}

func TestLoad_BlankEnvIsIgnored(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(BackendURLEnv, "  ")

	cfg, err := Load(writeConfig(t, `backend_url = "http://file.example"`))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.BackendURL != "http://file.example" {
		t.Fatalf("BackendURL = %q, want file value", cfg.BackendURL)
	}
}

func TestLoad_InvalidTimeoutFails(t *testing.T) {
	for _, value := range []string{"soon", "-1s", "0s"} {
		_, err := Load(writeConfig(t, `request_timeout = "`+value+`"`))
		if err == nil {
			t.Fatalf("Load(request_timeout=%q) returned nil error", value)
		}
		if !strings.Contains(err.Error(), "request_timeout") {
			t.Fatalf("Load error = %q, want it to mention request_timeout", err.Error())
		}
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	_, err := Load(writeConfig(t, `backend_url = [`))
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}

func TestDefaultPath_UnderHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got := DefaultPath()
	if got != filepath.Join(home, ".config/booksite/config.toml") {
		t.Fatalf("DefaultPath = %q", got)
	}
}
