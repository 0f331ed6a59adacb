// Package main is the entry point. Its job is configuration and wiring:
// load config, build the logger, hand both to the server. All behaviour
// lives in internal/.
package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/MrJayasuriya/Ai-scraper/internal/config"
	"github.com/MrJayasuriya/Ai-scraper/internal/server"
)

func main() {
	// The config path itself can't come from the config file, so it is
	// the one thing read straight from the environment.
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load config",
			slog.String("path", configPath),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))

	// Make sure the database directory exists before sqlite tries to
	// create the file inside it.
	if dir := filepath.Dir(cfg.Database.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Error("failed to create database directory",
				slog.String("dir", dir),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
	}

	srv, err := server.New(server.Config{
		Port:           cfg.Port,
		DBPath:         cfg.Database.Path,
		SessionTTL:     cfg.SessionTTL(),
		SecureCookies:  cfg.Session.SecureCookies,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	}, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Blocks until SIGINT/SIGTERM.
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
