package app

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/infosegura/loteria-server/internal/auth"
	"github.com/infosegura/loteria-server/internal/gateway"
	"github.com/infosegura/loteria-server/internal/handlers"
	"github.com/infosegura/loteria-server/internal/logger"
	"github.com/infosegura/loteria-server/internal/repository"
	"github.com/infosegura/loteria-server/internal/scheduler"
	"github.com/infosegura/loteria-server/internal/services"
)

// Presence sweep defaults. A player whose client stops refreshing presence
// goes offline after a minute and is removed from the roster after five.
const (
	DefaultSweepInterval = 30 * time.Second
	DefaultOfflineAfter  = 60 * time.Second
	DefaultRemoveAfter   = 5 * time.Minute
)

// Config carries the runtime tunables wired in from flags. Zero durations
// fall back to the defaults above and the caller's default cadence.
type Config struct {
	DBPath        string
	BaseURL       string
	CallInterval  time.Duration
	SweepInterval time.Duration
	OfflineAfter  time.Duration
	RemoveAfter   time.Duration
}

func (c *Config) applyDefaults() {
	if c.SweepInterval <= 0 {
		c.SweepInterval = DefaultSweepInterval
	}
	if c.OfflineAfter <= 0 {
		c.OfflineAfter = DefaultOfflineAfter
	}
	if c.RemoveAfter <= 0 {
		c.RemoveAfter = DefaultRemoveAfter
	}
}

// App holds all application dependencies
type App struct {
	log         logger.Logger
	cfg         Config
	handlers    *handlers.Handlers
	repo        *repository.Repository
	caller      *services.CardCaller
	sched       *scheduler.Scheduler
	cancelSweep context.CancelFunc
}

// New creates and initializes a new application instance
func New(log logger.Logger, cfg Config, adminAuth *auth.Auth) (*App, error) {
	cfg.applyDefaults()

	repo, err := repository.New(cfg.DBPath, log)
	if err != nil {
		return nil, err
	}

	// Initialize services
	roomService := services.NewRoomService(log, repo)
	sched := scheduler.New()
	caller := services.NewCardCaller(log, roomService, sched)
	if cfg.CallInterval > 0 {
		caller.SetInterval(cfg.CallInterval)
	}
	roomService.SetSequencer(caller)

	// Initialize WebSocket hub with DI
	hub := gateway.New(log, roomService, caller)
	hub.Start()
	roomService.SetBroadcaster(hub)
	caller.SetBroadcaster(hub)

	// A previous process may have left rooms behind; every seat in them is
	// stale by now
	if n, err := roomService.ClearAllPlayers(context.Background()); err != nil {
		log.Warn("Startup room wipe failed", "error", err)
	} else if n > 0 {
		log.Info("Dropped rooms from previous run", "rooms", n)
	}

	// Start the presence sweep with context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	go runPresenceSweep(ctx, log, roomService, cfg)

	h := handlers.New(roomService, caller, adminAuth, hub, log, cfg.BaseURL)

	return &App{
		log:         log,
		cfg:         cfg,
		handlers:    h,
		repo:        repo,
		caller:      caller,
		sched:       sched,
		cancelSweep: cancel,
	}, nil
}

// runPresenceSweep periodically flags stale players offline and reaps the
// long gone
func runPresenceSweep(ctx context.Context, log logger.Logger, rooms services.RoomServicer, cfg Config) {
	ticker := time.NewTicker(cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("Presence sweep stopped")
			return
		case <-ticker.C:
			changed, err := rooms.CleanupStale(ctx, cfg.OfflineAfter, cfg.RemoveAfter)
			if err != nil {
				log.Warn("Presence sweep failed", "error", err)
				continue
			}
			if len(changed) > 0 {
				log.Debug("Presence sweep updated rooms", "rooms", len(changed))
			}
		}
	}
}

// Router returns the configured HTTP router
func (a *App) Router() chi.Router {
	return a.handlers.Router()
}

// Close performs graceful shutdown of app resources
func (a *App) Close() {
	if a.cancelSweep != nil {
		a.cancelSweep()
	}
	a.sched.CancelAll()
	a.repo.Close()
}

// Run starts the HTTP server
func (a *App) Run(addr string) error {
	// Default the invite base URL to the detected LAN IP so QR codes work
	// for phones on the same network
	if a.handlers.BaseURL == "" || strings.Contains(a.handlers.BaseURL, "localhost") {
		ip := getPreferredIP(realNetworkProvider{})
		a.handlers.BaseURL = fmt.Sprintf("http://%s%s", ip, addr)
	}

	a.log.Info("Server starting", "url", a.handlers.BaseURL)
	a.log.Info("WebSocket endpoint", "url", a.handlers.BaseURL+"/ws")
	return http.ListenAndServe(addr, a.Router())
}

// networkInterface wraps net.Interface for testing
type networkInterface interface {
	Flags() net.Flags
	Addrs() ([]net.Addr, error)
}

// realInterface wraps a real net.Interface
type realInterface struct {
	iface net.Interface
}

func (r realInterface) Flags() net.Flags {
	return r.iface.Flags
}

func (r realInterface) Addrs() ([]net.Addr, error) {
	return r.iface.Addrs()
}

// networkProvider is an interface for getting network interfaces (for testing)
type networkProvider interface {
	Interfaces() ([]networkInterface, error)
}

// realNetworkProvider implements networkProvider using actual net package
type realNetworkProvider struct{}

func (realNetworkProvider) Interfaces() ([]networkInterface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	result := make([]networkInterface, len(ifaces))
	for i, iface := range ifaces {
		result[i] = realInterface{iface: iface}
	}
	return result, nil
}

// getPreferredIP returns the best IP address for LAN access.
// Prefers private network addresses (192.168.x.x, 10.x.x.x, 172.16-31.x.x).
// Falls back to localhost if no suitable address is found.
func getPreferredIP(provider networkProvider) string {
	ifaces, err := provider.Interfaces()
	if err != nil {
		return "localhost"
	}

	var candidates []net.IP

	for _, iface := range ifaces {
		// Skip down, loopback, and point-to-point interfaces
		flags := iface.Flags()
		if flags&net.FlagUp == 0 || flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			var ip net.IP
			switch v := addr.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}

			// Only consider IPv4 addresses
			if ip == nil || ip.To4() == nil {
				continue
			}

			// Skip loopback
			if ip.IsLoopback() {
				continue
			}

			candidates = append(candidates, ip)
		}
	}

	// Prefer private network addresses
	for _, ip := range candidates {
		ipStr := ip.String()
		if strings.HasPrefix(ipStr, "192.168.") ||
			strings.HasPrefix(ipStr, "10.") ||
			isPrivate172(ip) {
			return ipStr
		}
	}

	// Fall back to any non-loopback if no private address found
	if len(candidates) > 0 {
		return candidates[0].String()
	}

	return "localhost"
}

// isPrivate172 checks if IP is in 172.16.0.0/12 range
func isPrivate172(ip net.IP) bool {
	if ip4 := ip.To4(); ip4 != nil {
		return ip4[0] == 172 && ip4[1] >= 16 && ip4[1] <= 31
	}
	return false
}
