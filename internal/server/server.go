// Package server sets up the HTTP server, router, and all route definitions.
//
// This package is the composition root — the one place where the whole
// dependency graph is assembled:
//
//	Config → sqlite.DB → services → handlers → routes
//
// Nothing here holds process-wide globals: every handler receives its
// dependencies through the Server, so tests can build isolated instances.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/plsleave/internal/auth"
	"github.com/sakif/plsleave/internal/config"
	"github.com/sakif/plsleave/internal/handler"
	"github.com/sakif/plsleave/internal/middleware"
	sqliteRepo "github.com/sakif/plsleave/internal/repository/sqlite"
	"github.com/sakif/plsleave/internal/service"
)

// Config holds everything the server needs beyond the environment config:
// the parsed app configuration plus the filesystem locations resolved by main.
type Config struct {
	App         config.Config
	TemplateDir string
	StaticDir   string
}

// Server owns the router and the resources that need closing on shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB // closed during graceful shutdown
}

// New creates a Server with the full dependency chain wired:
//
//  1. sqlite.DB — implements both UserRepository and SettingsStore; the
//     durable settings store is the production choice (the in-memory one in
//     internal/settings serves tests)
//  2. SessionService (signed cookies) and GoogleProvider (OAuth flow)
//  3. Services, then handlers, then routes
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.App.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
//
//	GET  /                   → index page (auth required, redirect class)
//	GET  /login              → login page
//	GET  /logout             → clear session, redirect to /login
//	GET  /google-login       → redirect to Google
//	GET  /auth/callback      → complete OAuth, set session, redirect to /
//	GET  /dev-login          → stub auto-login (only when DEV_LOGIN=true)
//	GET  /health             → liveness probe
//	GET  /static/*           → static assets
//	POST /api/motion/toggle  → write motion preference (auth, JSON class)
//	GET  /api/user/settings  → read profile + preferences (auth, JSON class)
//
// The two authenticated route classes use different guards: pages redirect
// anonymous browsers to /login, the API answers 401 JSON.
func (s *Server) setupRoutes() error {
	app := s.config.App

	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	fileServer := http.FileServer(http.Dir(s.config.StaticDir))
	s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	sessions, err := auth.NewSessionService(app.SecretKey)
	if err != nil {
		return fmt.Errorf("creating session service: %w", err)
	}

	pages, err := handler.NewPageHandler(
		s.config.TemplateDir,
		app.PubNubPublishKey,
		app.PubNubSubscribeKey,
		s.logger,
	)
	if err != nil {
		return fmt.Errorf("creating page handler: %w", err)
	}

	google := auth.NewGoogleProvider(app.GoogleClientID, app.GoogleClientSecret, app.CallbackURL())
	authService := service.NewAuthService(s.db, sessions, s.logger)
	authHandler := handler.NewAuthHandler(google, authService, pages, app.OAuthTimeout, s.logger)

	settingsService := service.NewSettingsService(s.db, s.logger)
	settingsHandler := handler.NewSettingsHandler(settingsService, s.logger)

	// Pages and the auth flow
	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequireSessionRedirect(sessions, "/login"))
		r.Get("/", pages.HandleIndex)
	})
	s.router.Get("/login", pages.HandleLogin)
	s.router.Get("/logout", authHandler.HandleLogout)
	s.router.Get("/google-login", authHandler.HandleGoogleLogin)
	s.router.Get("/auth/callback", authHandler.HandleCallback)
	if app.DevLogin {
		s.logger.Warn("DEV_LOGIN enabled — /dev-login issues sessions without Google")
		s.router.Get("/dev-login", authHandler.HandleDevLogin)
	}

	// JSON API
	s.router.Route("/api", func(r chi.Router) {
		r.Use(auth.RequireSession(sessions))
		r.Post("/motion/toggle", settingsHandler.HandleToggleMotion)
		r.Get("/user/settings", settingsHandler.HandleGetSettings)
	})

	s.router.Get("/health", handler.HandleHealth)

	return nil
}

// Start starts the HTTP server and handles graceful shutdown:
// stop accepting connections, give in-flight requests 30s to finish,
// then close the database (flushes the WAL, releases the file lock).
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.App.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.App.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.App.Port)),
			slog.String("database", s.config.App.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
