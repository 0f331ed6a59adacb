// Package server wires the application together: database, services,
// handlers, middleware, and routes, plus the HTTP listener's lifecycle.
//
// This is the composition root — every dependency is assembled here, in
// one place, and each layer only receives what it needs: services get
// repository interfaces, handlers get services, nothing below the handler
// layer ever sees HTTP.
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
	"github.com/go-chi/cors"

	"github.com/MrJayasuriya/Ai-scraper/internal/auth"
	"github.com/MrJayasuriya/Ai-scraper/internal/handler"
	"github.com/MrJayasuriya/Ai-scraper/internal/middleware"
	sqliteRepo "github.com/MrJayasuriya/Ai-scraper/internal/repository/sqlite"
	"github.com/MrJayasuriya/Ai-scraper/internal/service"
)

// Config holds everything New needs to assemble the server.
type Config struct {
	Port           int
	DBPath         string
	SessionTTL     time.Duration
	SecureCookies  bool
	AllowedOrigins []string
}

// sweepInterval is how often the background job retires expired sessions.
// Validation already rejects (and deactivates) expired sessions lazily, so
// the sweep is housekeeping and the interval is not precision-critical.
const sweepInterval = time.Hour

// Server owns the router, the database connection, and the background
// session sweeper. The database is closed during Start's shutdown path.
type Server struct {
	router  *chi.Mux
	config  Config
	logger  *slog.Logger
	db      *sqliteRepo.DB
	authSvc *service.AuthService
}

// New opens the database and assembles the full dependency chain.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}
	s.setupRoutes()

	return s, nil
}

// setupRoutes mounts middleware and routes.
//
// Middleware order: RequestID first so the logger can include it, then
// RealIP, CORS (must answer preflights before auth can reject them), the
// request logger, and Recoverer.
func (s *Server) setupRoutes() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true, // the session rides in a cookie
		MaxAge:           300,
	}))
	s.router.Use(middleware.RequestLogger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	passwords := auth.NewPasswordService()
	s.authSvc = service.NewAuthService(s.db.Users, s.db.Sessions, passwords, s.logger, s.config.SessionTTL)
	leadSvc := service.NewLeadService(s.db.Leads, s.logger)

	cookieMaxAge := int(s.config.SessionTTL / time.Second)
	authHandler := handler.NewAuthHandler(s.authSvc, s.config.SecureCookies, cookieMaxAge, s.logger)
	leadHandler := handler.NewLeadHandler(leadSvc, s.logger)

	s.router.Route("/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.HandleSignup)
		r.Post("/login", authHandler.HandleLogin)
		r.Post("/logout", authHandler.HandleLogout)
	})

	s.router.Route("/api", func(r chi.Router) {
		r.Use(auth.RequireAuth(s.authSvc))

		r.Get("/me", authHandler.HandleMe)
		r.Delete("/me", authHandler.HandleDeactivate)

		r.Post("/results", leadHandler.HandleSaveResults)
		r.Get("/results", leadHandler.HandleListResults)
		r.Delete("/results", leadHandler.HandleClearAll)
		r.Get("/results/unscraped", leadHandler.HandleListUnscraped)
		r.Post("/results/{id}/contact", leadHandler.HandleRecordContact)
		r.Get("/results/{id}/contacts", leadHandler.HandleListContacts)

		r.Get("/stats", leadHandler.HandleStats)
	})

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
}

// Start runs the HTTP server and the session sweeper until SIGINT/SIGTERM,
// then shuts down gracefully: stop accepting connections, drain in-flight
// requests, stop the sweeper, close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go s.runSweeper(sweepCtx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
			slog.Duration("sessionTTL", s.config.SessionTTL),
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

// runSweeper periodically retires expired sessions until ctx is cancelled.
// One sweep runs immediately so a restart doesn't wait an hour to clean up.
func (s *Server) runSweeper(ctx context.Context) {
	s.sweepOnce(ctx)

	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweepOnce(ctx)
		}
	}
}

func (s *Server) sweepOnce(ctx context.Context) {
	n, err := s.authSvc.SweepExpired(ctx)
	if err != nil {
		s.logger.Error("session sweep failed", slog.String("error", err.Error()))
		return
	}
	if n > 0 {
		s.logger.Info("expired sessions retired", slog.Int64("count", n))
	}
}
