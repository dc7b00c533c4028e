package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sentinel-labs/sentinel-core/internal/auth"
)

func TestListUsers_AdminOnly(t *testing.T) {
	srv, db := testServer(t)
	router := srv.buildRouter()

	seedUser(t, db, "admin", auth.RoleAdmin)
	seedUser(t, db, "viewer", auth.RoleUser)

	// Non-admin: 403.
	viewerToken := loginAs(t, router, "viewer")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodGet, "/api/users", "", viewerToken))
	if w.Code != http.StatusForbidden {
		t.Errorf("non-admin status = %d, want %d", w.Code, http.StatusForbidden)
	}

	// Admin: 200 with both accounts.
	adminToken := loginAs(t, router, "admin")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodGet, "/api/users", "", adminToken))
	if w.Code != http.StatusOK {
		t.Fatalf("admin status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp struct {
		Users []auth.User `json:"users"`
		Count int         `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Count != 2 {
		t.Errorf("count = %d, want 2", resp.Count)
	}
	if strings.Contains(w.Body.String(), "password") {
		t.Error("user listing must not expose password hashes")
	}
}

func TestCreateUser(t *testing.T) {
	srv, db := testServer(t)
	router := srv.buildRouter()

	seedUser(t, db, "admin", auth.RoleAdmin)
	token := loginAs(t, router, "admin")

	body := `{"username": "operator", "password": "long-enough-pass", "role": "user"}`
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodPost, "/api/users", body, token))
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusCreated, w.Body.String())
	}

	// The new account can log in straight away.
	loginBody := `{"username": "operator", "password": "long-enough-pass"}`
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(loginBody)))
	if w.Code != http.StatusOK {
		t.Errorf("new user login status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestCreateUser_DefaultRole(t *testing.T) {
	srv, db := testServer(t)
	router := srv.buildRouter()

	seedUser(t, db, "admin", auth.RoleAdmin)
	token := loginAs(t, router, "admin")

	body := `{"username": "operator", "password": "long-enough-pass"}`
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodPost, "/api/users", body, token))
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusCreated, w.Body.String())
	}

	var created auth.User
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if created.Role != auth.RoleUser {
		t.Errorf("role = %q, want %q", created.Role, auth.RoleUser)
	}
}

func TestCreateUser_Validation(t *testing.T) {
	srv, db := testServer(t)
	router := srv.buildRouter()

	seedUser(t, db, "admin", auth.RoleAdmin)
	token := loginAs(t, router, "admin")

	tests := []struct {
		name string
		body string
		want int
	}{
		{"missing username", `{"password": "long-enough-pass"}`, http.StatusBadRequest},
		{"bad username chars", `{"username": "no spaces!", "password": "long-enough-pass"}`, http.StatusBadRequest},
		{"short password", `{"username": "ok", "password": "short"}`, http.StatusBadRequest},
		{"unknown role", `{"username": "ok", "password": "long-enough-pass", "role": "wizard"}`, http.StatusBadRequest},
		{"invalid JSON", `not json`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, authedRequest(http.MethodPost, "/api/users", tt.body, token))
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d; body: %s", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestCreateUser_Duplicate(t *testing.T) {
	srv, db := testServer(t)
	router := srv.buildRouter()

	seedUser(t, db, "admin", auth.RoleAdmin)
	token := loginAs(t, router, "admin")

	body := `{"username": "operator", "password": "long-enough-pass"}`

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodPost, "/api/users", body, token))
	if w.Code != http.StatusCreated {
		t.Fatalf("first create status = %d, want %d", w.Code, http.StatusCreated)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodPost, "/api/users", body, token))
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate create status = %d, want %d", w.Code, http.StatusConflict)
	}
}

func TestCreateUser_NonAdminForbidden(t *testing.T) {
	srv, db := testServer(t)
	router := srv.buildRouter()

	seedUser(t, db, "viewer", auth.RoleUser)
	token := loginAs(t, router, "viewer")

	body := `{"username": "sneaky", "password": "long-enough-pass", "role": "admin"}`
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodPost, "/api/users", body, token))
	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", w.Code, http.StatusForbidden)
	}
}
