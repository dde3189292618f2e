// Package server provides the debug HTTP server for the hand tracking system.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xxDMONxx/HandCameraDriverbyDmonOw/internal/bridge"
	"github.com/xxDMONxx/HandCameraDriverbyDmonOw/internal/store"
)

// Config holds the server configuration. Nil fields disable the
// corresponding endpoints.
type Config struct {
	Store    *store.Store
	States   *bridge.StateTable
	Registry *prometheus.Registry
}

// Server represents the debug HTTP server.
type Server struct {
	config Config
	router chi.Router
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		router: chi.NewRouter(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.router.Get("/api/health", s.handleHealth)

	if s.config.Registry != nil {
		s.router.Get("/metrics", promhttp.HandlerFor(
			s.config.Registry, promhttp.HandlerOpts{},
		).ServeHTTP)
	}

	if s.config.States != nil {
		stateHandler := NewStateHandler(s.config.States)
		s.router.Get("/api/state", stateHandler.ServeHTTP)
	}

	if s.config.Store != nil {
		profiles := NewProfileHandler(s.config.Store)
		s.router.Route("/api/profiles", func(r chi.Router) {
			r.Get("/", profiles.list)
			r.Post("/", profiles.create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", profiles.get)
				r.Put("/", profiles.update)
				r.Delete("/", profiles.delete)
				r.Post("/activate", profiles.activate)
			})
		})
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
