package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.Route("/api", func(r chi.Router) {
		// Health check (no auth required)
		r.Get("/health", s.handleHealth)

		// Session endpoints
		r.Post("/login", s.handleLogin)

		// Device state is readable without a session so wall displays
		// can poll it; mutations below are gated.
		r.Get("/devices", s.handleListDevices)

		// Event ingestion: devices authenticate by registered ID only.
		r.Post("/event", s.handleRecordEvent)

		// On-demand liveness sweep, safe to expose: it only reconciles
		// state the background monitor would reach anyway.
		r.Get("/check_offline", s.handleCheckOffline)

		// Session-holder routes
		r.Group(func(r chi.Router) {
			r.Use(s.sessionMiddleware)

			r.Post("/logout", s.handleLogout)
			r.Get("/me", s.handleMe)
			r.Get("/events", s.handleListEvents)

			// Admin-only mutations
			r.Group(func(r chi.Router) {
				r.Use(s.requireAdmin)

				r.Post("/add", s.handleAddDevice)
				r.Post("/resolve/{device_id}", s.handleResolveAlarm)
				r.Delete("/delete/{device_id}", s.handleDeleteDevice)

				r.Get("/users", s.handleListUsers)
				r.Post("/users", s.handleCreateUser)
			})
		})
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}
