package device

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// defaultEventLimit bounds listEvents when the caller gives no limit.
const defaultEventLimit = 200

// maxEventLimit is the hard ceiling for a single listEvents query.
const maxEventLimit = 1000

// TelemetrySink receives derived metrics from ledger and sweep
// operations. Implementations must be non-blocking; *telemetry.Client
// satisfies this interface.
type TelemetrySink interface {
	WriteDeviceEvent(deviceID string, button bool, battery int, at time.Time)
	WriteSweepResult(markedOffline int64, at time.Time)
}

// Ledger is the append-only log of device reports and the write path
// for device state updates.
type Ledger struct {
	db     *sql.DB
	sink   TelemetrySink
	logger *slog.Logger
}

// NewLedger creates a ledger backed by the given database.
// The telemetry sink is optional; pass nil to disable metric writes.
func NewLedger(db *sql.DB, sink TelemetrySink, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{db: db, sink: sink, logger: logger}
}

// Record ingests a device report: it updates the device row's button,
// battery, last_event and online flag, and appends an event row carrying
// the same timestamp.
//
// Both writes happen in one transaction. The device update runs first;
// zero rows affected means the device does not exist, the transaction is
// rolled back and no orphan event is written. This ordering also makes
// ingestion safe against a concurrent sweep: whichever transaction
// commits second wins, and an event arriving after a sweep re-asserts
// online=1.
//
// Parameters:
//   - ctx: Request context
//   - deviceID: The reporting device
//   - button: Button state (0 or 1)
//   - battery: Battery percentage (0-100)
//
// Returns:
//   - time.Time: The timestamp stored on both the device and the event
//   - error: ErrDeviceNotFound, ErrInvalidEvent, or a wrapped storage error
func (l *Ledger) Record(ctx context.Context, deviceID string, button, battery int) (time.Time, error) {
	if !validButton(button) {
		return time.Time{}, fmt.Errorf("%w: button must be 0 or 1", ErrInvalidEvent)
	}
	if !validBattery(battery) {
		return time.Time{}, fmt.Errorf("%w: battery must be 0-100", ErrInvalidEvent)
	}

	now := time.Now().UTC().Truncate(time.Second)
	stamp := now.Format(time.RFC3339)

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return time.Time{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	result, err := tx.ExecContext(ctx,
		`UPDATE devices SET button = ?, battery = ?, last_event = ?, online = 1 WHERE id = ?`,
		button, battery, stamp, deviceID,
	)
	if err != nil {
		return time.Time{}, fmt.Errorf("updating device state: %w", err)
	}

	rows, _ := result.RowsAffected() //nolint:errcheck // always succeeds on SQLite
	if rows == 0 {
		return time.Time{}, ErrDeviceNotFound
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO events (device_id, button, battery, created_at) VALUES (?, ?, ?, ?)`,
		deviceID, button, battery, stamp,
	); err != nil {
		return time.Time{}, fmt.Errorf("appending event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return time.Time{}, fmt.Errorf("committing event: %w", err)
	}

	if l.sink != nil {
		l.sink.WriteDeviceEvent(deviceID, button == ButtonPressed, battery, now)
	}

	l.logger.Debug("event recorded",
		"device_id", deviceID,
		"button", button,
		"battery", battery,
	)

	return now, nil
}

// List returns the most recent events, newest first, bounded by limit.
// A limit <= 0 falls back to the default; limits above the ceiling are
// clamped.
func (l *Ledger) List(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = defaultEventLimit
	}
	if limit > maxEventLimit {
		limit = maxEventLimit
	}

	rows, err := l.db.QueryContext(ctx,
		`SELECT id, device_id, button, battery, created_at
		 FROM events
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var createdAt string
		if err := rows.Scan(&e.ID, &e.DeviceID, &e.Button, &e.Battery, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt) //nolint:errcheck // format is controlled
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating events: %w", err)
	}

	if events == nil {
		events = []Event{}
	}
	return events, nil
}

// CountForDevice returns the number of ledger entries for a device,
// including entries for devices that have since been deleted.
func (l *Ledger) CountForDevice(ctx context.Context, deviceID string) (int, error) {
	var count int
	if err := l.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM events WHERE device_id = ?", deviceID).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting events: %w", err)
	}
	return count, nil
}
