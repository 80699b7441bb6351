// Package server sets up the HTTP server, router, and all route definitions.
//
// This is the composition root: every dependency — database, session store,
// OAuth provider, services, handlers — is wired together here, in one place,
// rather than scattered across the codebase. main.go only loads config and
// calls New/Start.
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
	"github.com/redis/go-redis/v9"

	"github.com/avaldez/project-tracker/internal/auth"
	"github.com/avaldez/project-tracker/internal/config"
	"github.com/avaldez/project-tracker/internal/handler"
	"github.com/avaldez/project-tracker/internal/middleware"
	sqliteRepo "github.com/avaldez/project-tracker/internal/repository/sqlite"
	"github.com/avaldez/project-tracker/internal/service"
	"github.com/avaldez/project-tracker/internal/session"
)

// Server owns the router and every long-lived resource behind it. Start
// closes the database (and the Redis client, when configured) on shutdown.
type Server struct {
	router *chi.Mux
	cfg    config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
	redis  *redis.Client // nil unless REDIS_ADDR is set
}

// New creates a Server with the given config and wires the full dependency
// graph:
//
//	sqlite.DB → repositories → services → handlers → routes
//	sessions: SQLite store by default, Redis when REDIS_ADDR is set
//	auth: Google provider + resolver + codec + gate (skipped when
//	      credentials are absent — the app then runs read-only, logged out)
//
// ctx is used for OIDC discovery against Google at startup.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		cfg:    cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// sessionStore picks the session backend. SQLite keeps single-binary
// deployments dependency-free; Redis is for running several instances
// against one session space.
func (s *Server) sessionStore() session.Store {
	if s.cfg.RedisAddr == "" {
		return s.db.Sessions()
	}

	s.redis = redis.NewClient(&redis.Options{
		Addr:     s.cfg.RedisAddr,
		Password: s.cfg.RedisPassword,
	})
	s.logger.Info("using Redis session store", slog.String("addr", s.cfg.RedisAddr))
	return session.NewRedisStore(s.redis)
}

func (s *Server) setupRoutes(ctx context.Context) error {
	// Global middleware, in order: request ID, real client IP, panic
	// recovery, then our structured request log.
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	// Static files: GET /static/css/style.css → {StaticDir}/css/style.css
	fileServer := http.FileServer(http.Dir(s.cfg.StaticDir))
	s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	// Repositories → services → handlers.
	projectService := service.NewProjectService(s.db.Projects(), s.logger)
	courseService := service.NewCourseService(s.db.Courses(), s.logger)
	projectHandler := handler.NewProjectHandler(projectService, s.logger)
	courseHandler := handler.NewCourseHandler(courseService, s.logger)

	pageHandler, err := handler.NewPageHandler(s.cfg.TemplateDir, projectService, courseService, s.logger)
	if err != nil {
		return fmt.Errorf("creating page handler: %w", err)
	}

	// Authentication. Without Google credentials the OAuth routes are not
	// registered and every request is anonymous; reads still work.
	var gate *auth.Gate
	var authHandler *handler.AuthHandler
	if s.cfg.AuthConfigured() {
		provider, err := auth.NewGoogleProvider(ctx,
			s.cfg.GoogleClientID,
			s.cfg.GoogleClientSecret,
			s.cfg.GoogleCallbackURL,
		)
		if err != nil {
			return fmt.Errorf("creating Google provider: %w", err)
		}

		codec, err := session.NewCodec(s.db.Users(), s.cfg.SessionSecret, s.cfg.SessionTTL, s.cfg.StoreTimeout)
		if err != nil {
			return fmt.Errorf("creating session codec: %w", err)
		}

		store := s.sessionStore()
		resolver := service.NewAuthService(s.db.Users(), s.cfg.StoreTimeout, s.logger)
		gate = auth.NewGate(store, codec, s.logger)
		authHandler = handler.NewAuthHandler(provider, resolver, codec, store, s.cfg.SessionTTL, s.logger)
	} else {
		s.logger.Warn("Google OAuth not configured — login disabled, mutations unavailable")
	}

	// requireUser guards mutation routes. With auth disabled there is no
	// gate, so mutations are flatly denied rather than silently open.
	requireUser := func(next http.Handler) http.Handler {
		if gate == nil {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, `{"error":"unauthorized","message":"authentication is not configured"}`,
					http.StatusUnauthorized)
			})
		}
		return gate.RequireUser(next)
	}
	withUser := func(next http.Handler) http.Handler {
		if gate == nil {
			return next
		}
		return gate.WithUser(next)
	}

	// Pages.
	s.router.Group(func(r chi.Router) {
		r.Use(withUser)
		r.Get("/", pageHandler.HandleIndex)
	})
	s.router.NotFound(pageHandler.HandleNotFound)

	// OAuth flow.
	if authHandler != nil {
		s.router.Get("/auth/google/login", authHandler.HandleGoogleLogin)
		s.router.Get("/auth/google/callback", authHandler.HandleGoogleCallback)
		s.router.Post("/auth/logout", authHandler.HandleLogout)
	}

	// JSON API. Reads are public; mutations require a signed-in user.
	s.router.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
		r.Use(withUser)

		if authHandler != nil {
			r.With(requireUser).Get("/me", authHandler.HandleMe)
		}

		r.Get("/projects", projectHandler.HandleList)
		r.Get("/projects/{id}", projectHandler.HandleGetByID)
		r.With(requireUser).Post("/projects", projectHandler.HandleCreate)
		r.With(requireUser).Put("/projects/{id}", projectHandler.HandleUpdate)
		r.With(requireUser).Delete("/projects/{id}", projectHandler.HandleDelete)

		r.Get("/courses", courseHandler.HandleList)
		r.Get("/courses/{id}", courseHandler.HandleGetByID)
		r.With(requireUser).Post("/courses", courseHandler.HandleCreate)
		r.With(requireUser).Put("/courses/{id}", courseHandler.HandleUpdate)
		r.With(requireUser).Delete("/courses/{id}", courseHandler.HandleDelete)
	})

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30s,
// close the database (flushes WAL) and the Redis client if any.
func (s *Server) Start() error {
	defer s.db.Close()
	defer func() {
		if s.redis != nil {
			s.redis.Close()
		}
	}()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
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
			slog.Int("port", s.cfg.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.cfg.Port)),
			slog.String("database", s.cfg.DBPath),
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
