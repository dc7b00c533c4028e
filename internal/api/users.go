package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sentinel-labs/sentinel-core/internal/auth"
)

// createUserRequest is the request body for POST /api/users.
type createUserRequest struct {
	Username string    `json:"username"`
	Password string    `json:"password"`
	Role     auth.Role `json:"role"`
}

// minPasswordLength is the minimum accepted password length.
const minPasswordLength = 8

// handleListUsers returns all user accounts. Password hashes are never
// serialised (struct tag).
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.List(r.Context())
	if err != nil {
		s.logger.Error("listing users", "error", err)
		writeInternalError(w, "listing users")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"users": users,
		"count": len(users),
	})
}

// handleCreateUser creates a new operator account.
func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if !auth.IsValidUsername(req.Username) {
		writeBadRequest(w, "username must be 1-64 characters: letters, digits, dots, hyphens, underscores")
		return
	}
	if len(req.Password) < minPasswordLength {
		writeBadRequest(w, "password must be at least 8 characters")
		return
	}

	role := req.Role
	if role == "" {
		role = auth.RoleUser
	}
	if !auth.IsValidUserRole(role) {
		writeBadRequest(w, "role must be user or admin")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error("hashing password", "error", err)
		writeInternalError(w, "creating user")
		return
	}

	user := &auth.User{
		Username:     req.Username,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(r.Context(), user); err != nil {
		if errors.Is(err, auth.ErrUsernameExists) {
			writeConflict(w, "username already exists")
			return
		}
		s.logger.Error("creating user", "username", req.Username, "error", err)
		writeInternalError(w, "creating user")
		return
	}

	s.logger.Info("user created", "username", user.Username, "role", user.Role)

	writeJSON(w, http.StatusCreated, user)
}
