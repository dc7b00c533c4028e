package auth

import (
	"errors"
	"testing"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)

	user := seedTestUser(t, db, "alice", RoleAdmin)

	if user.ID == "" {
		t.Fatal("Create() should generate an ID")
	}

	got, err := repo.GetByID(t.Context(), user.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Username != "alice" {
		t.Errorf("Username = %q, want alice", got.Username)
	}
	if got.Role != RoleAdmin {
		t.Errorf("Role = %q, want admin", got.Role)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}

	byName, err := repo.GetByUsername(t.Context(), "alice")
	if err != nil {
		t.Fatalf("GetByUsername() error = %v", err)
	}
	if byName.ID != user.ID {
		t.Errorf("GetByUsername ID = %q, want %q", byName.ID, user.ID)
	}
}

func TestUserRepository_DuplicateUsername(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)

	seedTestUser(t, db, "bob", RoleUser)

	dup := &User{Username: "bob", PasswordHash: "hash", Role: RoleUser}
	err := repo.Create(t.Context(), dup)
	if !errors.Is(err, ErrUsernameExists) {
		t.Errorf("Create() duplicate error = %v, want ErrUsernameExists", err)
	}
}

func TestUserRepository_GetNotFound(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)

	_, err := repo.GetByID(t.Context(), "usr-missing")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetByID() error = %v, want ErrUserNotFound", err)
	}

	_, err = repo.GetByUsername(t.Context(), "nobody")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetByUsername() error = %v, want ErrUserNotFound", err)
	}
}

func TestUserRepository_List(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)

	users, err := repo.List(t.Context())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(users) != 0 {
		t.Errorf("List() on empty table = %d users, want 0", len(users))
	}

	seedTestUser(t, db, "alice", RoleAdmin)
	seedTestUser(t, db, "bob", RoleUser)

	users, err = repo.List(t.Context())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(users) != 2 {
		t.Errorf("List() = %d users, want 2", len(users))
	}
}

func TestUserRepository_Delete(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)

	user := seedTestUser(t, db, "carol", RoleUser)

	if err := repo.Delete(t.Context(), user.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	_, err := repo.GetByID(t.Context(), user.ID)
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrUserNotFound", err)
	}

	err = repo.Delete(t.Context(), user.ID)
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Delete() missing user error = %v, want ErrUserNotFound", err)
	}
}

func TestUserRepository_Count(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)

	count, err := repo.Count(t.Context())
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 0 {
		t.Errorf("Count() on empty table = %d, want 0", count)
	}

	seedTestUser(t, db, "alice", RoleAdmin)

	count, err = repo.Count(t.Context())
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 1 {
		t.Errorf("Count() = %d, want 1", count)
	}
}

func TestIsValidUsername(t *testing.T) {
	tests := []struct {
		username string
		want     bool
	}{
		{"alice", true},
		{"alice.smith", true},
		{"user_01", true},
		{"a-b", true},
		{"", false},
		{"has space", false},
		{"has/slash", false},
		{string(make([]byte, 65)), false},
	}

	for _, tt := range tests {
		if got := IsValidUsername(tt.username); got != tt.want {
			t.Errorf("IsValidUsername(%q) = %v, want %v", tt.username, got, tt.want)
		}
	}
}

func TestIsValidUserRole(t *testing.T) {
	if !IsValidUserRole(RoleUser) || !IsValidUserRole(RoleAdmin) {
		t.Error("user and admin should be valid roles")
	}
	if IsValidUserRole(Role("owner")) || IsValidUserRole(Role("")) {
		t.Error("unknown roles should be invalid")
	}
}
