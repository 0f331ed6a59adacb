// Package config loads runtime configuration from a YAML file with
// environment-variable overrides, via viper. Missing file is fine —
// everything has a default, so the zero-config case just works.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds everything the server needs to run.
type Config struct {
	Port     int `mapstructure:"port"`
	Database struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"database"`
	Session struct {
		// TTLDays is how long a session stays valid after login.
		TTLDays int `mapstructure:"ttlDays"`
		// SecureCookies should be true behind HTTPS.
		SecureCookies bool `mapstructure:"secureCookies"`
	} `mapstructure:"session"`
	CORS struct {
		AllowedOrigins []string `mapstructure:"allowedOrigins"`
	} `mapstructure:"cors"`
	Log struct {
		// Level is one of debug, info, warn, error.
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
}

// Load reads the config file at path (if it exists) and applies env
// overrides. Env vars use underscores for nesting: database.path becomes
// DATABASE_PATH, session.ttlDays becomes SESSION_TTLDAYS.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Defaults registered up front so viper knows every key; AutomaticEnv
	// only consults the environment for keys it already knows about.
	v.SetDefault("port", 8080)
	v.SetDefault("database.path", "data/scraper.db")
	v.SetDefault("session.ttlDays", 30)
	v.SetDefault("session.secureCookies", false)
	v.SetDefault("cors.allowedOrigins", []string{"http://localhost:3000"})
	v.SetDefault("log.level", "info")

	if err := v.ReadInConfig(); err != nil {
		// A missing file just means defaults + env; anything else (bad
		// YAML, unreadable file) is a real error.
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Session.TTLDays < 0 {
		return nil, fmt.Errorf("session.ttlDays must not be negative, got %d", cfg.Session.TTLDays)
	}

	return &cfg, nil
}

// SessionTTL returns the configured session lifetime as a duration.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Session.TTLDays) * 24 * time.Hour
}

// SlogLevel maps the configured log level string to a slog.Level.
// Unknown values fall back to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
