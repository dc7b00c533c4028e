package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sentinel-labs/sentinel-core/internal/auth"
)

// loginRequest is the request body for POST /api/login.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// loginResponse is the response body for POST /api/login.
type loginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int       `json:"expires_in"`
	Username    string    `json:"username"`
	Role        auth.Role `json:"role"`
}

// secondsPerMinute converts the configured TTL to the expires_in field.
const secondsPerMinute = 60

// handleLogin authenticates a user and returns a session token.
//
// Failures are deliberately uniform: a missing user and a wrong password
// both produce the same 401, so usernames cannot be enumerated.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if req.Username == "" || req.Password == "" {
		writeBadRequest(w, "username and password are required")
		return
	}

	user, err := auth.VerifyCredentials(r.Context(), s.users, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeUnauthorized(w, "invalid credentials")
			return
		}
		s.logger.Error("verifying credentials", "error", err)
		writeInternalError(w, "verifying credentials")
		return
	}

	ttl := s.secCfg.JWT.AccessTokenTTL
	token, err := auth.GenerateAccessToken(user, s.secCfg.JWT.Secret, ttl)
	if err != nil {
		s.logger.Error("generating session token", "error", err)
		writeInternalError(w, "failed to generate token")
		return
	}

	s.logger.Info("user logged in", "username", user.Username, "role", user.Role)

	writeJSON(w, http.StatusOK, loginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   ttl * secondsPerMinute,
		Username:    user.Username,
		Role:        user.Role,
	})
}

// handleLogout revokes the current session's token until its natural expiry.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	if sess == nil {
		writeUnauthorized(w, "missing session")
		return
	}

	s.revocations.Revoke(sess.Claims.ID, sess.Claims.ExpiresAt.Time)

	s.logger.Info("user logged out", "username", sess.User.Username)

	writeJSON(w, http.StatusOK, map[string]string{
		"detail": "logged out",
	})
}

// handleMe returns the current session's user.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	if sess == nil {
		writeUnauthorized(w, "missing session")
		return
	}

	writeJSON(w, http.StatusOK, sess.User)
}
