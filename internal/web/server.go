// Package web provides the HTTP boundary for the registration ingestor:
// one upload endpoint, a health check, and a small embedded upload form.
package web

import (
	"context"
	"embed"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Jacklau9515AI/PPSR.Registration/internal/config"
	"github.com/Jacklau9515AI/PPSR.Registration/internal/registration"
)

//go:embed static
var staticFiles embed.FS

// Server is the HTTP server for the ingestor.
type Server struct {
	service *registration.Service
	cfg     *config.Config
	router  *chi.Mux
	server  *http.Server
}

// NewServer creates a Server around the registration service.
func NewServer(service *registration.Service, cfg *config.Config) *Server {
	s := &Server{
		service: service,
		cfg:     cfg,
		router:  chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))

	if s.cfg.Rate.Enabled {
		s.router.Use(newRateLimiter(s.cfg.Rate.RequestsPerMinute).middleware)
	}
}

func (s *Server) setupRoutes() {
	staticFS, _ := fs.Sub(staticFiles, "static")
	s.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	s.router.Get("/", s.handleIndex)
	s.router.Get("/healthz", s.handleHealthz)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/registrations/upload", s.handleUpload)
	})
}

// Start begins listening for HTTP requests. Blocks until the server
// stops.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
