package handlers

import (
	"github.com/infosegura/loteria-server/internal/auth"
	"github.com/infosegura/loteria-server/internal/gateway"
	"github.com/infosegura/loteria-server/internal/services"
)

// Handlers holds all HTTP handler dependencies
type Handlers struct {
	Rooms   services.RoomServicer
	Caller  services.CallerServicer
	Auth    *auth.Auth
	Hub     *gateway.Hub
	Log     HTTPLogger
	BaseURL string
}

// HTTPLogger is an interface for loggers that support HTTP logging control
type HTTPLogger interface {
	IsHTTPLoggingEnabled() bool
}

// New creates a new Handlers instance with all dependencies
func New(
	rooms services.RoomServicer,
	caller services.CallerServicer,
	adminAuth *auth.Auth,
	hub *gateway.Hub,
	log HTTPLogger,
	baseURL string,
) *Handlers {
	return &Handlers{
		Rooms:   rooms,
		Caller:  caller,
		Auth:    adminAuth,
		Hub:     hub,
		Log:     log,
		BaseURL: baseURL,
	}
}

// NoopHTTPLogger is a test logger that always returns false for HTTP logging
type NoopHTTPLogger struct{}

func (NoopHTTPLogger) IsHTTPLoggingEnabled() bool { return false }

// NewForTesting creates a Handlers instance with a known admin password
func NewForTesting(rooms services.RoomServicer, caller services.CallerServicer) *Handlers {
	return &Handlers{
		Rooms:   rooms,
		Caller:  caller,
		Auth:    auth.New("test-password"),
		Log:     NoopHTTPLogger{},
		BaseURL: "http://localhost:3000",
	}
}
