package device

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Repository defines the interface for device persistence operations.
// This abstraction allows for different implementations (SQLite, mock, etc.)
// and enables unit testing without database dependencies.
type Repository interface {
	// GetByID retrieves a device by its unique identifier.
	// Returns ErrDeviceNotFound if the device does not exist.
	GetByID(ctx context.Context, id string) (*Device, error)

	// List retrieves all devices ordered by ID.
	List(ctx context.Context) ([]Device, error)

	// Create registers a new device with default state.
	// Returns ErrDeviceExists if a device with the same ID already exists.
	Create(ctx context.Context, id, location string) (*Device, error)

	// Delete removes a device by ID. Ledger events for the device are
	// kept as historical record.
	// Returns ErrDeviceNotFound if the device does not exist.
	Delete(ctx context.Context, id string) error

	// ResolveAlarm clears a device's button flag back to normal.
	// Returns ErrDeviceNotFound if the device does not exist.
	ResolveAlarm(ctx context.Context, id string) error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed repository.
// The db parameter should be an open SQLite connection.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// GetByID retrieves a device by its unique identifier.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*Device, error) {
	query := `
		SELECT id, button, battery, last_event, online, location, created_at
		FROM devices
		WHERE id = ?`

	row := r.db.QueryRowContext(ctx, query, id)
	d, err := scanDevice(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDeviceNotFound
		}
		return nil, fmt.Errorf("querying device by id: %w", err)
	}
	return d, nil
}

// List retrieves all devices ordered by ID for stable output.
func (r *SQLiteRepository) List(ctx context.Context) ([]Device, error) {
	query := `
		SELECT id, button, battery, last_event, online, location, created_at
		FROM devices
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing devices: %w", err)
	}
	defer rows.Close()

	var devices []Device
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning device: %w", err)
		}
		devices = append(devices, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating devices: %w", err)
	}

	if devices == nil {
		devices = []Device{}
	}
	return devices, nil
}

// Create registers a new device with default state: no alarm, full
// battery, online, no events yet.
func (r *SQLiteRepository) Create(ctx context.Context, id, location string) (*Device, error) {
	if strings.TrimSpace(id) == "" || strings.TrimSpace(location) == "" {
		return nil, fmt.Errorf("%w: id and location are required", ErrInvalidDevice)
	}

	now := time.Now().UTC().Truncate(time.Second)

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO devices (id, button, battery, last_event, online, location, created_at)
		 VALUES (?, ?, ?, NULL, 1, ?, ?)`,
		id, DefaultButton, DefaultBattery, location, now.Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDeviceExists
		}
		return nil, fmt.Errorf("creating device: %w", err)
	}

	return &Device{
		ID:        id,
		Button:    DefaultButton,
		Battery:   DefaultBattery,
		Online:    true,
		Location:  location,
		CreatedAt: now,
	}, nil
}

// Delete removes a device by ID. The rowcount check is the not-found
// detection mechanism: SQLite reports success for a DELETE matching
// zero rows.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM devices WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting device: %w", err)
	}

	rows, _ := result.RowsAffected() //nolint:errcheck // always succeeds on SQLite
	if rows == 0 {
		return ErrDeviceNotFound
	}
	return nil
}

// ResolveAlarm clears the button flag back to normal (0). Resolving an
// already-resolved device is a no-op success, not an error.
func (r *SQLiteRepository) ResolveAlarm(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE devices SET button = ? WHERE id = ?", ButtonNormal, id)
	if err != nil {
		return fmt.Errorf("resolving alarm: %w", err)
	}

	rows, _ := result.RowsAffected() //nolint:errcheck // always succeeds on SQLite
	if rows == 0 {
		return ErrDeviceNotFound
	}
	return nil
}

// scanner is an interface for sql.Row and sql.Rows Scan methods.
type scanner interface {
	Scan(dest ...any) error
}

// scanDevice scans a device from any scanner (Row or Rows).
func scanDevice(s scanner) (*Device, error) {
	var d Device
	var lastEvent sql.NullString
	var online int
	var createdAt string

	err := s.Scan(&d.ID, &d.Button, &d.Battery, &lastEvent, &online, &d.Location, &createdAt)
	if err != nil {
		return nil, err
	}

	d.Online = online != 0
	if lastEvent.Valid {
		// Malformed timestamps degrade to null rather than failing the read.
		if t, err := time.Parse(time.RFC3339, lastEvent.String); err == nil {
			d.LastEvent = &t
		}
	}

	d.CreatedAt, _ = time.Parse(time.RFC3339, createdAt) //nolint:errcheck // format is controlled

	return &d, nil
}

// isUniqueViolation checks if a SQLite error is a UNIQUE constraint violation.
func isUniqueViolation(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "unique constraint"))
}
