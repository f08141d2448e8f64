package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/infosegura/loteria-server/internal/app"
	"github.com/infosegura/loteria-server/internal/auth"
	"github.com/infosegura/loteria-server/internal/logger"
	"github.com/infosegura/loteria-server/internal/services"
)

var (
	version = "dev"
)

// envOr returns the environment value for key, or fallback when unset
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envDurOr parses a duration from the environment, or returns fallback
func envDurOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func main() {
	// Optional .env file for local development; flags still win
	godotenv.Load()

	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", envOr("LOTERIA_DB", "loteria.db"), "SQLite database path")
	adminPw := flag.String("adminpw", os.Getenv("LOTERIA_ADMIN_PASSWORD"), "Admin password (auto-generated if not set)")
	logLevel := flag.String("loglevel", envOr("LOTERIA_LOG_LEVEL", "info"), "Log level (debug, info, warn, error)")
	baseURL := flag.String("baseurl", os.Getenv("LOTERIA_BASE_URL"), "Public base URL for room invite QR codes (detected if not set)")
	callInterval := flag.Duration("interval", envDurOr("LOTERIA_CALL_INTERVAL", services.DefaultCallInterval), "Delay between called cards")
	offlineAfter := flag.Duration("offlineafter", envDurOr("LOTERIA_OFFLINE_AFTER", app.DefaultOfflineAfter), "Flag a silent player offline after this long")
	removeAfter := flag.Duration("removeafter", envDurOr("LOTERIA_REMOVE_AFTER", app.DefaultRemoveAfter), "Remove an offline player after this long")
	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Lotería Server - real-time multiplayer Lotería rooms

Usage:
  loteria-server [options]

Options:
  -port int      HTTP server port (default 8080)
  -db string     SQLite database path (default "loteria.db")
  -adminpw str   Admin password (auto-generated if not set)
  -loglevel str  Log level: debug, info, warn, error (default "info")
  -baseurl str   Public base URL for invite QR codes (LAN IP if not set)
  -interval dur      Delay between called cards (default 3.5s)
  -offlineafter dur  Flag a silent player offline after this long (default 1m)
  -removeafter dur   Remove an offline player after this long (default 5m)
  -version       Show version and exit
  -help          Show this help message

Examples:
  loteria-server                         # Run on port 8080 with loteria.db
  loteria-server -port 3001              # Run on port 3001
  loteria-server -db /data/loteria.db    # Use custom database path
  loteria-server -adminpw secret123      # Use specific admin password

`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("loteria-server %s\n", version)
		os.Exit(0)
	}

	// Setup admin authentication
	password := *adminPw
	if password == "" {
		password = auth.GeneratePassword()
	}
	adminAuth := auth.New(password)

	// Create logger with specified level
	appLog := logger.NewWithLevel(logger.ParseLevel(*logLevel))

	a, err := app.New(appLog, app.Config{
		DBPath:       *dbPath,
		BaseURL:      *baseURL,
		CallInterval: *callInterval,
		OfflineAfter: *offlineAfter,
		RemoveAfter:  *removeAfter,
	}, adminAuth)
	if err != nil {
		log.Fatal("Failed to initialize application:", err)
	}
	defer a.Close()

	addr := fmt.Sprintf(":%d", *port)
	appLog.Info("Admin password", "password", password)

	if err := a.Run(addr); err != nil {
		log.Fatal(err)
	}
}
