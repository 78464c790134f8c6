// Package server wires the dependency graph and runs the HTTP API.
//
// This is the composition root: one SQLite handle feeds the entry, user, and
// key-value repositories; the cache stores and services are built on top;
// handlers are bound to routes here and nowhere else.
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

	"github.com/sakif/daybook/internal/auth"
	"github.com/sakif/daybook/internal/cache"
	"github.com/sakif/daybook/internal/handler"
	"github.com/sakif/daybook/internal/middleware"
	"github.com/sakif/daybook/internal/quoteapi"
	sqliteRepo "github.com/sakif/daybook/internal/repository/sqlite"
	"github.com/sakif/daybook/internal/service"
)

// Config holds server configuration.
type Config struct {
	Port        int
	DBPath      string
	JWTSecret   string // empty disables auth routes and entry protection
	QuoteAPIURL string // empty means the production endpoint
}

// Server owns the router and the database handle; the handle is closed
// during graceful shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New opens the database, builds the full dependency graph, and registers
// all routes.
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

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	quoteStore, err := cache.NewQuoteStore(context.Background(), s.db, s.logger)
	if err != nil {
		return fmt.Errorf("creating quote store: %w", err)
	}
	settingsStore := cache.NewSettingsStore(s.db)

	var tokens *auth.TokenService
	if s.config.JWTSecret != "" {
		tokens, err = auth.NewTokenService(s.config.JWTSecret)
		if err != nil {
			return fmt.Errorf("creating token service: %w", err)
		}
	} else {
		s.logger.Warn("JWT_SECRET not set — authentication is disabled and entry routes are open")
	}

	authSvc := service.NewAuthService(s.db, tokens, s.logger)
	entrySvc := service.NewEntryService(s.db, s.logger)
	quoteSvc := service.NewQuoteService(quoteStore,
		quoteapi.NewClient(s.config.QuoteAPIURL, s.logger), s.logger)

	authHandler := handler.NewAuthHandler(authSvc, settingsStore, s.logger)
	entryHandler := handler.NewEntryHandler(entrySvc, s.logger)
	quoteHandler := handler.NewQuoteHandler(quoteSvc, s.logger)
	settingsHandler := handler.NewSettingsHandler(settingsStore, s.logger)

	s.router.Route("/api", func(r chi.Router) {
		if tokens != nil {
			r.Post("/auth/register", authHandler.HandleRegister)
			r.Post("/auth/login", authHandler.HandleLogin)
			r.Post("/auth/logout", authHandler.HandleLogout)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireAuth(tokens))
				r.Get("/me", authHandler.HandleMe)
			})
		}

		// Entries sit behind auth when it is configured; quotes and
		// settings are always open, matching the app's gating.
		r.Group(func(r chi.Router) {
			if tokens != nil {
				r.Use(auth.RequireAuth(tokens))
			}
			r.Get("/entries", entryHandler.HandleList)
			r.Post("/entries", entryHandler.HandleCreate)
			r.Delete("/entries", entryHandler.HandleDeleteAll)
			r.Get("/entries/favorites", entryHandler.HandleFavorites)
			r.Get("/entries/{id}", entryHandler.HandleGetByID)
			r.Put("/entries/{id}", entryHandler.HandleUpdate)
			r.Delete("/entries/{id}", entryHandler.HandleDelete)
		})

		r.Get("/quote/today", quoteHandler.HandleToday)
		r.Post("/quote/refresh", quoteHandler.HandleRefresh)
		r.Get("/quote/weekly", quoteHandler.HandleWeekly)
		r.Get("/quote/favorites", quoteHandler.HandleFavorites)
		r.Post("/quote/favorites/toggle", quoteHandler.HandleToggleFavorite)
		r.Delete("/quote/cache", quoteHandler.HandleClearCache)

		r.Get("/settings", settingsHandler.HandleGet)
		r.Put("/settings", settingsHandler.HandleUpdate)
		r.Delete("/settings", settingsHandler.HandleClearAll)
		r.Delete("/settings/user", settingsHandler.HandleClearUserData)
	})

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully and closes the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
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
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
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
