// Package server is the HTTP transport for the pipeline: an upload
// endpoint that runs the full pipeline and persists the result, and a
// read endpoint over the interval store.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"fishtrack/internal/container"
)

// Server is the chi-routed HTTP application.
type Server struct {
	router *chi.Mux
	app    *container.Container
}

// New builds a Server wired to app.
func New(app *container.Container) *Server {
	s := &Server{
		router: chi.NewRouter(),
		app:    app,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

func (s *Server) setupRoutes() {
	s.router.Get("/", s.handleIndex)
	s.router.Get("/add", s.handleAddForm)
	s.router.Post("/add", s.handleAdd)
	s.router.Get("/intervals", s.handleIntervals)
}

// ListenAndServe starts the HTTP server on addr.
func (s *Server) ListenAndServe(addr string) error {
	s.app.Logger.Info("[Server] listening on %s", addr)
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) renderJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := encodeJSON(w, data); err != nil {
		s.app.Logger.Error("[Server] JSON encoding error: %v", err)
	}
}
