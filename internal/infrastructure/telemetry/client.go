package telemetry

import (
	"context"
	"fmt"
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/sentinel-labs/sentinel-core/internal/infrastructure/config"
)

// healthCheckTimeout bounds the initial connection health check.
const healthCheckTimeout = 5 * time.Second

// Client wraps the InfluxDB client for device telemetry writes.
//
// Writes use the non-blocking write API: points are batched in memory
// and flushed in the background, so a slow or unreachable InfluxDB never
// stalls alarm handling. Write errors are reported on an error channel
// and logged, not returned to callers.
type Client struct {
	mu        sync.RWMutex
	client    influxdb2.Client
	writeAPI  api.WriteAPI
	bucket    string
	connected bool
	enabled   bool
}

// Connect creates a telemetry client and verifies connectivity.
//
// When telemetry is disabled in configuration, Connect returns a client
// whose write methods are no-ops. This lets callers wire telemetry
// unconditionally and leave the on/off decision to configuration.
//
// Parameters:
//   - ctx: Context for the connection health check
//   - cfg: Telemetry configuration section
//
// Returns:
//   - *Client: Connected (or disabled no-op) client
//   - error: ErrConnectionFailed if the health check fails
func Connect(ctx context.Context, cfg config.TelemetryConfig) (*Client, error) {
	if !cfg.Enabled {
		return &Client{enabled: false}, nil
	}

	options := influxdb2.DefaultOptions()
	if cfg.BatchSize > 0 {
		options.SetBatchSize(uint(cfg.BatchSize))
	}
	if cfg.FlushInterval > 0 {
		options.SetFlushInterval(uint(cfg.FlushInterval))
	}

	client := influxdb2.NewClientWithOptions(cfg.URL, cfg.Token, options)

	healthCtx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	health, err := client.Health(healthCtx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}
	if health.Status != "pass" {
		client.Close()
		return nil, fmt.Errorf("%w: status %s", ErrConnectionFailed, health.Status)
	}

	return &Client{
		client:    client,
		writeAPI:  client.WriteAPI(cfg.Org, cfg.Bucket),
		bucket:    cfg.Bucket,
		connected: true,
		enabled:   true,
	}, nil
}

// Enabled reports whether telemetry writes are active.
func (c *Client) Enabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.enabled && c.connected
}

// Errors returns the channel of asynchronous write errors, or nil when
// telemetry is disabled. Callers should drain it to log write failures.
func (c *Client) Errors() <-chan error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.connected {
		return nil
	}

	return c.writeAPI.Errors()
}

// Close flushes pending points and releases the client.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return
	}

	c.writeAPI.Flush()
	c.client.Close()
	c.connected = false
}
