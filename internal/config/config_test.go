package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	return path
}

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() with missing file: %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.Database.Path != "data/scraper.db" {
		t.Errorf("Database.Path = %q, want data/scraper.db", cfg.Database.Path)
	}
	if cfg.Session.TTLDays != 30 {
		t.Errorf("Session.TTLDays = %d, want 30", cfg.Session.TTLDays)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
}

func TestLoad_FileValues(t *testing.T) {
	path := writeConfigFile(t, `
port: 9191
database:
  path: /tmp/leads.db
session:
  ttlDays: 7
  secureCookies: true
cors:
  allowedOrigins:
    - https://app.example.com
log:
  level: debug
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}

	if cfg.Port != 9191 {
		t.Errorf("Port = %d, want 9191", cfg.Port)
	}
	if cfg.Database.Path != "/tmp/leads.db" {
		t.Errorf("Database.Path = %q, want /tmp/leads.db", cfg.Database.Path)
	}
	if cfg.Session.TTLDays != 7 {
		t.Errorf("Session.TTLDays = %d, want 7", cfg.Session.TTLDays)
	}
	if !cfg.Session.SecureCookies {
		t.Error("Session.SecureCookies = false, want true")
	}
	if len(cfg.CORS.AllowedOrigins) != 1 || cfg.CORS.AllowedOrigins[0] != "https://app.example.com" {
		t.Errorf("CORS.AllowedOrigins = %v", cfg.CORS.AllowedOrigins)
	}

	if got := cfg.SessionTTL(); got != 7*24*time.Hour {
		t.Errorf("SessionTTL() = %v, want 168h", got)
	}
}

func TestLoad_EnvOverrideWithoutFile(t *testing.T) {
	t.Setenv("DATABASE_PATH", "/tmp/override.db")
	t.Setenv("SESSION_TTLDAYS", "3")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() with missing file: %v", err)
	}

	if cfg.Database.Path != "/tmp/override.db" {
		t.Errorf("Database.Path = %q, want /tmp/override.db", cfg.Database.Path)
	}
	if cfg.Session.TTLDays != 3 {
		t.Errorf("Session.TTLDays = %d, want 3", cfg.Session.TTLDays)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, "port: 9191\n")
	t.Setenv("PORT", "7777")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}
	if cfg.Port != 7777 {
		t.Errorf("Port = %d, want 7777 (env over file)", cfg.Port)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfigFile(t, "port: [not a port\n")
	if _, err := Load(path); err == nil {
		t.Error("Load() with invalid YAML: expected error, got nil")
	}
}

func TestLoad_NegativeTTLRejected(t *testing.T) {
	path := writeConfigFile(t, "session:\n  ttlDays: -1\n")
	if _, err := Load(path); err == nil {
		t.Error("Load() with negative ttlDays: expected error, got nil")
	}
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo}, // unknown falls back to info
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		cfg := &Config{}
		cfg.Log.Level = tt.level
		if got := cfg.SlogLevel(); got != tt.want {
			t.Errorf("SlogLevel(%q) = %v, want %v", tt.level, got, tt.want)
		}
	}
}
