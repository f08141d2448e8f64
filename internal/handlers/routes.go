package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// conditionalHTTPLogger only logs HTTP requests when HTTP logging is enabled
func (h *Handlers) conditionalHTTPLogger(next http.Handler) http.Handler {
	logger := middleware.Logger(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Log != nil && h.Log.IsHTTPLoggingEnabled() {
			logger.ServeHTTP(w, r)
		} else {
			next.ServeHTTP(w, r)
		}
	})
}

// Router returns a configured chi router with all routes
func (h *Handlers) Router() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.conditionalHTTPLogger) // Custom conditional HTTP logger
	r.Use(middleware.Recoverer)
	r.Use(middleware.RedirectSlashes)
	r.Use(middleware.Timeout(60 * time.Second))

	// Health
	r.Get("/healthz", h.handleHealth)

	// WebSocket
	r.Get("/ws", h.Hub.ServeWs)

	// Card catalog (public)
	r.Get("/api/cards", h.handleGetCards)

	// Auth routes (public)
	r.Post("/api/admin/login", h.handleLogin)
	r.Post("/api/admin/logout", h.handleLogout)

	// Admin API (protected)
	r.Group(func(r chi.Router) {
		r.Use(h.Auth.RequireAuthAPI)

		// Rooms
		r.Get("/api/admin/rooms", h.handleGetRooms)
		r.Get("/api/admin/rooms/{id}", h.handleGetRoom)
		r.Delete("/api/admin/rooms/{id}", h.handleDeleteRoom)
		r.Get("/api/admin/rooms/{id}/qr", h.handleGetRoomQR)

		// Players
		r.Delete("/api/admin/rooms/{id}/players/{name}", h.handleDeletePlayer)
		r.Post("/api/admin/clear-players", h.handleClearPlayers)

		// Stats
		r.Get("/api/admin/stats", h.handleGetStats)
	})

	return r
}
