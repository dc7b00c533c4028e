package device

import (
	"database/sql"
	"os"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// testDB creates a temporary SQLite database with the device schema applied.
// The database file is cleaned up when the test completes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	// Use a temp file so WAL mode works (in-memory doesn't support it)
	f, err := os.CreateTemp("", "device-test-*.db")
	if err != nil {
		t.Fatalf("creating temp db: %v", err)
	}
	dbPath := f.Name()
	f.Close()
	t.Cleanup(func() { os.Remove(dbPath) })

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000")
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	migrationSQL := `
		CREATE TABLE devices (
			id TEXT PRIMARY KEY,
			button INTEGER NOT NULL DEFAULT 0,
			battery INTEGER NOT NULL DEFAULT 100,
			last_event TEXT,
			online INTEGER NOT NULL DEFAULT 1,
			location TEXT NOT NULL,
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		) STRICT;

		CREATE INDEX idx_devices_online ON devices(online);

		CREATE TABLE events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			device_id TEXT NOT NULL,
			button INTEGER NOT NULL,
			battery INTEGER NOT NULL,
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		);

		CREATE INDEX idx_events_device ON events(device_id);
		CREATE INDEX idx_events_created ON events(created_at);
	`
	if _, err := db.Exec(migrationSQL); err != nil {
		t.Fatalf("applying device migration: %v", err)
	}

	return db
}

// seedTestDevice registers a device and returns it.
func seedTestDevice(t *testing.T, db *sql.DB, id, location string) *Device {
	t.Helper()

	repo := NewSQLiteRepository(db)
	d, err := repo.Create(t.Context(), id, location)
	if err != nil {
		t.Fatalf("creating test device %s: %v", id, err)
	}
	return d
}

// setLastEvent backdates a device's last_event for liveness tests.
func setLastEvent(t *testing.T, db *sql.DB, id string, at time.Time) {
	t.Helper()

	_, err := db.Exec("UPDATE devices SET last_event = ? WHERE id = ?",
		at.UTC().Format(time.RFC3339), id)
	if err != nil {
		t.Fatalf("setting last_event for %s: %v", id, err)
	}
}
