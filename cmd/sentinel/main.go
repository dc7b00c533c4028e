// Sentinel Core - Panic Button Backend
//
// This is the main entry point for the Sentinel Core application.
// Sentinel tracks a fleet of battery-powered panic buttons: it records
// their alarm events, watches their heartbeats, and serves the REST API
// that dashboards and the devices themselves talk to.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/sentinel-labs/sentinel-core/migrations"

	"github.com/sentinel-labs/sentinel-core/internal/api"
	"github.com/sentinel-labs/sentinel-core/internal/auth"
	"github.com/sentinel-labs/sentinel-core/internal/device"
	"github.com/sentinel-labs/sentinel-core/internal/infrastructure/config"
	"github.com/sentinel-labs/sentinel-core/internal/infrastructure/database"
	"github.com/sentinel-labs/sentinel-core/internal/infrastructure/logging"
	"github.com/sentinel-labs/sentinel-core/internal/infrastructure/telemetry"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Sentinel Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database
	db, err := database.Open(ctx, database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	// Run migrations
	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Seed the initial admin account on a fresh database
	userRepo := auth.NewUserRepository(db.DB)
	if _, seedErr := auth.SeedAdmin(ctx, userRepo, log.Logger); seedErr != nil {
		return fmt.Errorf("seeding admin account: %w", seedErr)
	}

	// Connect telemetry sink (returns a no-op client when disabled)
	sink, err := telemetry.Connect(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("connecting telemetry: %w", err)
	}
	defer func() {
		log.Info("closing telemetry sink")
		sink.Close()
	}()
	if sink.Enabled() {
		log.Info("telemetry connected",
			"url", cfg.Telemetry.URL,
			"bucket", cfg.Telemetry.Bucket,
		)
		// Drain async write errors into the log
		go func() {
			for writeErr := range sink.Errors() {
				log.Error("telemetry write error", "error", writeErr)
			}
		}()
	} else {
		log.Info("telemetry disabled")
	}

	// Device registry, event ledger, and liveness monitor
	deviceRepo := device.NewSQLiteRepository(db.DB)
	ledger := device.NewLedger(db.DB, sink, log.Logger)
	monitor := device.NewMonitor(db.DB, cfg.LivenessTimeout(), cfg.SweepInterval(), sink, log.Logger)

	// Background offline sweep (no-op when the interval is zero)
	go monitor.Run(ctx)
	log.Info("liveness monitor initialised",
		"timeout", monitor.Timeout(),
		"sweep_interval", cfg.SweepInterval(),
	)

	// Start the HTTP API
	server, err := api.New(api.Deps{
		Config:   cfg.API,
		Security: cfg.Security,
		Logger:   log,
		Users:    userRepo,
		Devices:  deviceRepo,
		Ledger:   ledger,
		Monitor:  monitor,
		Version:  version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if startErr := server.Start(ctx); startErr != nil {
		return fmt.Errorf("starting API server: %w", startErr)
	}
	defer func() {
		log.Info("stopping API server")
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()
	log.Info("API server started",
		"host", cfg.API.Host,
		"port", cfg.API.Port,
	)

	// Verify connections are healthy
	if err := healthCheck(ctx, db); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls will run in reverse order:
	// 1. API server (graceful drain)
	// 2. Telemetry (flushes buffered points)
	// 3. Database

	log.Info("Sentinel Core stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses SENTINEL_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("SENTINEL_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies infrastructure connections are healthy.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - db: Database connection to check
//
// Returns:
//   - error: First health check failure, or nil if all healthy
func healthCheck(ctx context.Context, db *database.DB) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	// Telemetry health is verified during Connect(), and the API server
	// fails fast in Start() if the port is unavailable.

	return nil
}
