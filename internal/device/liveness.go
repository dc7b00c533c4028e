package device

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// Monitor marks devices offline after a period of silence.
//
// The sweep is a single UPDATE keyed on both the staleness cutoff and
// the current online flag. Filtering on online=1 makes the affected-row
// count a transition count (already-offline devices are not re-counted),
// and comparing last_event at write time means a sweep never clobbers a
// device whose event landed between the sweep being scheduled and the
// UPDATE executing.
type Monitor struct {
	db       *sql.DB
	timeout  time.Duration
	interval time.Duration
	sink     TelemetrySink
	logger   *slog.Logger
}

// NewMonitor creates a liveness monitor.
//
// Parameters:
//   - db: Open database handle
//   - timeout: Silence period after which a device is considered offline
//   - interval: Background sweep period; 0 disables Run's ticker loop
//   - sink: Optional telemetry sink (nil to disable)
//   - logger: Structured logger
func NewMonitor(db *sql.DB, timeout, interval time.Duration, sink TelemetrySink, logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{
		db:       db,
		timeout:  timeout,
		interval: interval,
		sink:     sink,
		logger:   logger,
	}
}

// Timeout returns the configured silence threshold.
func (m *Monitor) Timeout() time.Duration {
	return m.timeout
}

// Sweep marks every stale device offline and returns the number of
// devices that transitioned from online to offline. A device is stale
// when it has never reported (last_event null) or its last report is
// older than the timeout relative to now.
func (m *Monitor) Sweep(ctx context.Context, now time.Time) (int64, error) {
	cutoff := now.UTC().Add(-m.timeout).Format(time.RFC3339)

	result, err := m.db.ExecContext(ctx,
		`UPDATE devices SET online = 0
		 WHERE online = 1 AND (last_event IS NULL OR last_event < ?)`,
		cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("sweeping offline devices: %w", err)
	}

	updated, _ := result.RowsAffected() //nolint:errcheck // always succeeds on SQLite

	if updated > 0 {
		m.logger.Info("liveness sweep marked devices offline",
			"count", updated,
			"timeout", m.timeout.String(),
		)
	}

	if m.sink != nil {
		m.sink.WriteSweepResult(updated, now)
	}

	return updated, nil
}

// Run executes the sweep periodically until the context is cancelled.
// It returns immediately when the interval is zero (on-demand only).
func (m *Monitor) Run(ctx context.Context) {
	if m.interval <= 0 {
		m.logger.Info("background liveness sweep disabled")
		return
	}

	m.logger.Info("background liveness sweep started",
		"interval", m.interval.String(),
		"timeout", m.timeout.String(),
	)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("background liveness sweep stopped")
			return
		case <-ticker.C:
			if _, err := m.Sweep(ctx, time.Now()); err != nil {
				m.logger.Error("liveness sweep failed", "error", err)
			}
		}
	}
}
