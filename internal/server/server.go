// Package server is the composition root: it opens the store, builds the
// services and handlers, and binds them to routes.
//
// DEPENDENCY INJECTION FLOW:
//
//	config.Config → sqlstore.DB → UserService / TripService / MessageService
//	             → AuthHandler / TripHandler / MessageHandler / ProfileHandler
//
// Each layer only receives what it needs: services get repository
// interfaces, handlers get services. Keeping the wiring here (not in
// main.go) lets tests build a complete server on an in-memory database.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/travel-together/internal/auth"
	"github.com/sakif/travel-together/internal/config"
	"github.com/sakif/travel-together/internal/handler"
	"github.com/sakif/travel-together/internal/middleware"
	"github.com/sakif/travel-together/internal/repository/sqlstore"
	"github.com/sakif/travel-together/internal/service"
	"github.com/sakif/travel-together/web"
)

// openTimeout bounds connecting to the store and running migrations.
const openTimeout = 30 * time.Second

// Server represents the HTTP server and all its dependencies.
//
// RESOURCE MANAGEMENT:
// The Server owns the database pool. Start closes it after the HTTP server
// has drained; tests that never call Start call Close.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	db     *sqlstore.DB
}

// New opens the store, applies migrations and wires every route.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), openTimeout)
	defer cancel()

	db, err := sqlstore.Open(ctx, cfg.DB.Driver, cfg.DB.DSN())
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

// setupRoutes configures middleware and route handlers.
//
// ROUTE STRUCTURE:
//
//	GET       /                   → login page, or redirect to /dashboard   [LoadSession]
//	GET       /home, /about       → static pages
//	GET/POST  /register, /login   → account forms
//	GET       /logout             → clear session                          [RequireAuth]
//	GET       /dashboard          → own trips + others' trips              [RequireAuth]
//	GET/POST  /create_trip        → new trip form                          [RequireAuth]
//	GET       /trip/{id}          → trip detail + chat                     [RequireAuth]
//	POST      /join_trip/{id}     → join                                   [RequireAuth]
//	GET/POST  /search             → search form                            [RequireAuth]
//	GET/POST  /profile            → profile form                           [RequireAuth]
//	GET/POST  /messages/{tripID}  → chat JSON                              [RequireAuthAPI]
//	GET       /metrics, /healthz  → operations
//
// MIDDLEWARE ORDER MATTERS:
//  1. RequestID: assigns the id Logger prints
//  2. RealIP: extracts the client IP from proxy headers
//  3. Logger: one line per request
//  4. Instrument: Prometheus counters and latency
//  5. Recoverer: turns a panic into a 500 that Logger and Instrument still see
func (s *Server) setupRoutes() error {
	sessions, err := auth.NewSessionManager(s.config.SecretKey, s.config.SessionTTL)
	if err != nil {
		return err
	}

	render, err := handler.NewRenderer(web.Templates(), s.logger)
	if err != nil {
		return err
	}

	passwords := auth.NewPasswordServiceWithCost(s.config.BcryptCost)
	users := service.NewUserService(s.db, passwords, s.logger)
	trips := service.NewTripService(s.db, s.logger)
	messages := service.NewMessageService(s.db, s.logger)

	authHandler := handler.NewAuthHandler(users, sessions, render, s.logger)
	pageHandler := handler.NewPageHandler(render)
	tripHandler := handler.NewTripHandler(trips, render, s.logger)
	messageHandler := handler.NewMessageHandler(messages, s.logger)
	profileHandler := handler.NewProfileHandler(users, sessions, render, s.logger)
	healthHandler := handler.NewHealthHandler(s.db, s.logger)
	metrics := middleware.NewMetrics()

	r := s.router
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(s.logger))
	r.Use(metrics.Instrument)
	r.Use(chimiddleware.Recoverer)

	// === Operations ===
	r.Handle("/metrics", metrics.Handler())
	r.Get("/healthz", healthHandler.Check)

	// === Public pages ===
	// LoadSession on every public route lets the layout show the
	// logged-in navigation without ever rejecting anyone.
	r.Group(func(r chi.Router) {
		r.Use(auth.LoadSession(sessions))

		r.Get("/", authHandler.Index)
		r.Get("/home", pageHandler.Home)
		r.Get("/about", pageHandler.About)
		r.Get("/register", authHandler.ShowRegister)
		r.Post("/register", authHandler.Register)
		r.Get("/login", authHandler.ShowLogin)
		r.Post("/login", authHandler.Login)
	})

	// === Pages behind a session ===
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(sessions))

		r.Get("/logout", authHandler.Logout)
		r.Get("/dashboard", tripHandler.Dashboard)
		r.Get("/create_trip", tripHandler.ShowCreate)
		r.Post("/create_trip", tripHandler.Create)
		r.Get("/trip/{id:[0-9]+}", tripHandler.Show)
		r.Post("/join_trip/{id:[0-9]+}", tripHandler.Join)
		r.Get("/search", tripHandler.ShowSearch)
		r.Post("/search", tripHandler.Search)
		r.Get("/profile", profileHandler.Show)
		r.Post("/profile", profileHandler.Update)
	})

	// === Chat API ===
	// Same session cookie, but failures answer 401 JSON for the page script.
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuthAPI(sessions))

		r.Get("/messages/{tripID:[0-9]+}", messageHandler.List)
		r.Post("/messages/{tripID:[0-9]+}", messageHandler.Post)
	})

	return nil
}

// Router exposes the fully wired handler, for tests and embedding.
func (s *Server) Router() http.Handler {
	return s.router
}

// Close releases the database pool.
func (s *Server) Close() error {
	return s.db.Close()
}

// Start serves HTTP until SIGINT or SIGTERM, then shuts down gracefully:
//  1. Stop accepting new connections
//  2. Wait up to 30s for in-flight requests
//  3. Close the database pool
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
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("driver", s.config.DB.Driver),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
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
