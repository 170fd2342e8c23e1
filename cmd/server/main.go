// Package main is the entry point for the plsleave server.
//
// main stays minimal: read configuration, create the logger, ensure the
// data directory exists, and hand everything to internal/server. All actual
// logic lives in the imported packages.
package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sakif/plsleave/internal/config"
	"github.com/sakif/plsleave/internal/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsDevSecret() {
		logger.Warn("SECRET_KEY not set — using the development placeholder; sessions are forgeable")
	}
	if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" {
		logger.Warn("Google OAuth credentials not set — /google-login will fail")
	}

	// Template and static directories live under web/ at the project root;
	// when running with `go run` the working directory is the project root,
	// so the relative paths resolve directly.
	templateDir, _ := filepath.Abs("web/templates")
	staticDir, _ := filepath.Abs("web/static")

	// Ensure the directory for the SQLite file exists (like `mkdir -p`).
	dbDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		logger.Error("failed to create database directory",
			slog.String("dir", dbDir),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	srv, err := server.New(server.Config{
		App:         cfg,
		TemplateDir: templateDir,
		StaticDir:   staticDir,
	}, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start() blocks until the server is shut down (Ctrl+C or SIGTERM)
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
