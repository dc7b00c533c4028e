// Package auth provides authentication and authorisation for Sentinel Core.
//
// It implements a 2-tier role model (user → admin) with:
//   - Argon2id password hashing (OWASP 2025 recommendation)
//   - HS256 JWT session tokens carrying subject, role and token ID (jti)
//   - In-memory token revocation so logout takes effect before expiry
//   - First-boot admin seeding with a random printed password
//
// Session tokens are validated by signature on every request and the
// user record is re-fetched from the database, so deleting an account
// revokes its access immediately regardless of outstanding tokens.
package auth
