package web

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/kozaktomas/page-composer/internal/app"
	"github.com/kozaktomas/page-composer/internal/config"
	"github.com/kozaktomas/page-composer/internal/export"
	"github.com/kozaktomas/page-composer/internal/web/handlers"
	"github.com/kozaktomas/page-composer/internal/web/middleware"
)

// Server represents the web server
type Server struct {
	config        *config.Config
	router        *chi.Mux
	httpServer    *http.Server
	editor        *app.Editor
	jobManager    *handlers.JobManager
	editorHandler *handlers.EditorHandler
}

// NewServer creates a new web server for an editor. The caller runs the editor loop.
func NewServer(cfg *config.Config, editor *app.Editor) *Server {
	r := chi.NewRouter()

	s := &Server{
		config:     cfg,
		router:     r,
		editor:     editor,
		jobManager: handlers.NewJobManager(),
	}

	// Set up middleware stack
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(5 * time.Minute))
	r.Use(middleware.CORS(cfg.Web.AllowedOrigins))
	r.Use(middleware.SecurityHeaders())

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // SSE streams stay open
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// encoderFactory returns PDF encoders honoring the verify setting.
func (s *Server) encoderFactory() handlers.EncoderFactory {
	verify := s.config.Export.Verify
	return func(dpi int) export.Encoder {
		return export.NewPDFEncoder(dpi, verify)
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	log.Printf("Starting web server on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server and removes uploaded files.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down web server...")

	for _, job := range s.jobManager.ListJobs() {
		job.Cancel()
	}
	defer s.editorHandler.Cleanup()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Router returns the chi router for testing
func (s *Server) Router() *chi.Mux {
	return s.router
}
