// Package api provides the HTTP REST API for Sentinel Core.
//
// It exposes device registry operations, event ingestion, the offline
// sweep, and session management to monitoring dashboards and the
// devices themselves.
//
// The server follows the same lifecycle pattern as other infrastructure components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sentinel-labs/sentinel-core/internal/auth"
	"github.com/sentinel-labs/sentinel-core/internal/device"
	"github.com/sentinel-labs/sentinel-core/internal/infrastructure/config"
	"github.com/sentinel-labs/sentinel-core/internal/infrastructure/logging"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config      config.APIConfig
	Security    config.SecurityConfig
	Logger      *logging.Logger
	Users       auth.UserRepository
	Devices     device.Repository
	Ledger      *device.Ledger
	Monitor     *device.Monitor
	Revocations *auth.RevocationList
	Version     string
}

// Server is the HTTP API server for Sentinel Core.
//
// It manages the HTTP listener, routes, and middleware. The server is
// created with New() and started with Start().
type Server struct {
	cfg         config.APIConfig
	secCfg      config.SecurityConfig
	logger      *logging.Logger
	users       auth.UserRepository
	devices     device.Repository
	ledger      *device.Ledger
	monitor     *device.Monitor
	revocations *auth.RevocationList
	version     string
	server      *http.Server
	cancel      context.CancelFunc // cancels background goroutines on Close()
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
//
// Parameters:
//   - deps: Required dependencies (config, logger, repositories, ledger, monitor)
//
// Returns:
//   - *Server: Configured server ready to start
//   - error: If required dependencies are missing
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Users == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if deps.Devices == nil {
		return nil, fmt.Errorf("device repository is required")
	}
	if deps.Ledger == nil {
		return nil, fmt.Errorf("event ledger is required")
	}
	if deps.Monitor == nil {
		return nil, fmt.Errorf("liveness monitor is required")
	}

	revocations := deps.Revocations
	if revocations == nil {
		revocations = auth.NewRevocationList()
	}

	return &Server{
		cfg:         deps.Config,
		secCfg:      deps.Security,
		logger:      deps.Logger,
		users:       deps.Users,
		devices:     deps.Devices,
		ledger:      deps.Ledger,
		monitor:     deps.Monitor,
		revocations: revocations,
		version:     deps.Version,
	}, nil
}

// Start begins listening for HTTP connections.
//
// It sets up the router, starts the revocation list cleanup loop, and
// launches the HTTP listener in a background goroutine. The server can
// be stopped with Close().
//
// Parameters:
//   - ctx: Context for cancellation (not used for listener lifetime)
//
// Returns:
//   - error: If the server fails to start (port in use, etc.)
func (s *Server) Start(ctx context.Context) error {
	// Create internal context so Close() can stop background goroutines
	// independently of the parent context.
	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)

	// Purge expired revocation entries to prevent unbounded growth
	go s.revocations.CleanLoop(srvCtx)

	router := s.buildRouter()

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           router,
		ReadTimeout:       s.cfg.ReadTimeout(),
		ReadHeaderTimeout: s.cfg.ReadTimeout(),
		WriteTimeout:      s.cfg.WriteTimeout(),
		IdleTimeout:       s.cfg.IdleTimeout(),
	}

	// Start listening in background
	go func() {
		s.logger.Info("API server starting", "address", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
//
// Returns:
//   - error: If shutdown encounters an error
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	// Cancel background goroutines (revocation cleanup)
	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running and responsive.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - error: nil if healthy, error describing the issue otherwise
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}

	return nil
}
