// Package server wires handlers, middleware, and routes together and owns
// the HTTP server lifecycle. It is the composition root below main: the
// database, services, and handlers are all assembled here.
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

	"github.com/sakif/online-compiler/internal/auth"
	"github.com/sakif/online-compiler/internal/executor"
	"github.com/sakif/online-compiler/internal/handler"
	"github.com/sakif/online-compiler/internal/middleware"
	sqliteRepo "github.com/sakif/online-compiler/internal/repository/sqlite"
	"github.com/sakif/online-compiler/internal/service"
)

// Config holds server configuration.
type Config struct {
	Port        int
	TemplateDir string
	StaticDir   string
	DBPath      string

	// JWTSecret enables authentication; when empty the auth routes are not
	// registered and all snippets are anonymous.
	JWTSecret string

	// GitHub OAuth app credentials; when incomplete the OAuth routes are
	// not registered (password auth still works).
	GitHubClientID     string
	GitHubClientSecret string
	GitHubCallbackURL  string
}

// Server is the HTTP server and its owned dependencies. The database
// connection is closed during graceful shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
	exec   executor.Executor
}

// New assembles the full dependency chain: database, services, handlers,
// routes. The executor is injected — main decides which implementation runs
// the snippets.
func New(cfg Config, logger *slog.Logger, exec executor.Executor) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
		exec:   exec,
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

	// Static editor assets.
	fileServer := http.FileServer(http.Dir(s.config.StaticDir))
	s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	// Playground page.
	playgroundHandler, err := handler.NewPlaygroundHandler(s.config.TemplateDir, s.logger)
	if err != nil {
		return fmt.Errorf("creating playground handler: %w", err)
	}
	s.router.Get("/", playgroundHandler.HandlePlayground)
	s.router.Get("/health", handler.HandleHealth)

	// Auth is optional: without a JWT secret the playground runs fully
	// anonymous and only the auth routes disappear.
	var tokens *auth.TokenService
	if s.config.JWTSecret != "" {
		tokens, err = auth.NewTokenService(s.config.JWTSecret)
		if err != nil {
			return fmt.Errorf("creating token service: %w", err)
		}
	}

	executeHandler := handler.NewExecuteHandler(s.exec, s.logger)
	snippetService := service.NewSnippetService(s.db, s.logger)
	snippetHandler := handler.NewSnippetHandler(snippetService, s.logger)

	s.router.Route("/api", func(r chi.Router) {
		if tokens != nil {
			r.Use(auth.OptionalAuth(tokens))
		}

		r.Post("/execute", executeHandler.HandleExecute)
		r.Get("/languages", handler.HandleLanguages)

		r.Get("/snippets", snippetHandler.HandleList)
		r.Get("/snippets/{id}", snippetHandler.HandleGetByID)
		r.Post("/snippets", snippetHandler.HandleCreate)
		r.Put("/snippets/{id}", snippetHandler.HandleUpdate)
		r.Delete("/snippets/{id}", snippetHandler.HandleDelete)
	})

	if tokens != nil {
		authService := service.NewAuthService(s.db, auth.NewPasswordService(), s.logger)

		var github *auth.GitHubProvider
		if s.config.GitHubClientID != "" && s.config.GitHubClientSecret != "" {
			github = auth.NewGitHubProvider(
				s.config.GitHubClientID,
				s.config.GitHubClientSecret,
				s.config.GitHubCallbackURL,
			)
		}

		authHandler := handler.NewAuthHandler(authService, tokens, github, s.db, s.logger)

		s.router.Route("/api/auth", func(r chi.Router) {
			r.Post("/register", authHandler.HandleRegister)
			r.Post("/login", authHandler.HandleLogin)
			r.Post("/logout", authHandler.HandleLogout)
			r.With(auth.RequireAuth(tokens)).Get("/me", authHandler.HandleMe)
		})

		if github != nil {
			s.router.Get("/auth/github/login", authHandler.HandleGitHubLogin)
			s.router.Get("/auth/github/callback", authHandler.HandleGitHubCallback)
		}
	}

	return nil
}

// Start runs the server until SIGINT/SIGTERM, then shuts down gracefully:
// stop accepting connections, drain in-flight requests, close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // executions can legitimately take tens of seconds
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
