package device

import (
	"errors"
	"testing"
)

func TestRepository_CreateDefaults(t *testing.T) {
	db := testDB(t)
	repo := NewSQLiteRepository(db)

	d := seedTestDevice(t, db, "btn-001", "Hallway")

	if d.Button != ButtonNormal {
		t.Errorf("Button = %d, want %d", d.Button, ButtonNormal)
	}
	if d.Battery != DefaultBattery {
		t.Errorf("Battery = %d, want %d", d.Battery, DefaultBattery)
	}
	if !d.Online {
		t.Error("new device should be online")
	}
	if d.LastEvent != nil {
		t.Errorf("LastEvent = %v, want nil", d.LastEvent)
	}

	got, err := repo.GetByID(t.Context(), "btn-001")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Location != "Hallway" {
		t.Errorf("Location = %q, want Hallway", got.Location)
	}
	if got.LastEvent != nil {
		t.Errorf("persisted LastEvent = %v, want nil", got.LastEvent)
	}
}

func TestRepository_CreateDuplicate(t *testing.T) {
	db := testDB(t)
	repo := NewSQLiteRepository(db)

	seedTestDevice(t, db, "btn-001", "Hallway")

	_, err := repo.Create(t.Context(), "btn-001", "Kitchen")
	if !errors.Is(err, ErrDeviceExists) {
		t.Fatalf("Create() duplicate error = %v, want ErrDeviceExists", err)
	}

	// The failed call must not have touched the original row.
	got, err := repo.GetByID(t.Context(), "btn-001")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Location != "Hallway" {
		t.Errorf("Location = %q, want Hallway (unchanged)", got.Location)
	}
}

func TestRepository_CreateInvalidInput(t *testing.T) {
	db := testDB(t)
	repo := NewSQLiteRepository(db)

	tests := []struct {
		name     string
		id       string
		location string
	}{
		{"empty id", "", "Hallway"},
		{"empty location", "btn-001", ""},
		{"whitespace id", "   ", "Hallway"},
		{"both empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repo.Create(t.Context(), tt.id, tt.location)
			if !errors.Is(err, ErrInvalidDevice) {
				t.Errorf("Create(%q, %q) error = %v, want ErrInvalidDevice", tt.id, tt.location, err)
			}
		})
	}
}

func TestRepository_ListOrdered(t *testing.T) {
	db := testDB(t)
	repo := NewSQLiteRepository(db)

	devices, err := repo.List(t.Context())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(devices) != 0 {
		t.Errorf("List() on empty table = %d devices, want 0", len(devices))
	}

	seedTestDevice(t, db, "btn-charlie", "Garage")
	seedTestDevice(t, db, "btn-alpha", "Hallway")
	seedTestDevice(t, db, "btn-bravo", "Kitchen")

	devices, err = repo.List(t.Context())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(devices) != 3 {
		t.Fatalf("List() = %d devices, want 3", len(devices))
	}

	want := []string{"btn-alpha", "btn-bravo", "btn-charlie"}
	for i, id := range want {
		if devices[i].ID != id {
			t.Errorf("devices[%d].ID = %q, want %q", i, devices[i].ID, id)
		}
	}
}

func TestRepository_Delete(t *testing.T) {
	db := testDB(t)
	repo := NewSQLiteRepository(db)

	seedTestDevice(t, db, "btn-001", "Hallway")

	if err := repo.Delete(t.Context(), "btn-001"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	_, err := repo.GetByID(t.Context(), "btn-001")
	if !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrDeviceNotFound", err)
	}

	err = repo.Delete(t.Context(), "btn-001")
	if !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("Delete() missing device error = %v, want ErrDeviceNotFound", err)
	}
}

func TestRepository_DeleteKeepsEvents(t *testing.T) {
	db := testDB(t)
	repo := NewSQLiteRepository(db)
	ledger := NewLedger(db, nil, nil)

	seedTestDevice(t, db, "btn-001", "Hallway")

	if _, err := ledger.Record(t.Context(), "btn-001", ButtonPressed, 80); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	if err := repo.Delete(t.Context(), "btn-001"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	// Events are historical record and survive device deletion.
	count, err := ledger.CountForDevice(t.Context(), "btn-001")
	if err != nil {
		t.Fatalf("CountForDevice() error = %v", err)
	}
	if count != 1 {
		t.Errorf("events after device delete = %d, want 1", count)
	}
}

func TestRepository_ResolveAlarm(t *testing.T) {
	db := testDB(t)
	repo := NewSQLiteRepository(db)
	ledger := NewLedger(db, nil, nil)

	seedTestDevice(t, db, "btn-001", "Hallway")

	if _, err := ledger.Record(t.Context(), "btn-001", ButtonPressed, 90); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	d, _ := repo.GetByID(t.Context(), "btn-001") //nolint:errcheck // seeded above
	if !d.Alarming() {
		t.Fatal("device should be alarming after a pressed event")
	}

	if err := repo.ResolveAlarm(t.Context(), "btn-001"); err != nil {
		t.Fatalf("ResolveAlarm() error = %v", err)
	}

	d, _ = repo.GetByID(t.Context(), "btn-001") //nolint:errcheck // seeded above
	if d.Alarming() {
		t.Error("device should not be alarming after resolve")
	}
	if d.Button != ButtonNormal {
		t.Errorf("Button = %d, want %d", d.Button, ButtonNormal)
	}

	err := repo.ResolveAlarm(t.Context(), "btn-missing")
	if !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("ResolveAlarm() missing device error = %v, want ErrDeviceNotFound", err)
	}
}
