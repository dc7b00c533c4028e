package auth

import (
	"context"
	"sync"
	"time"
)

// revocationCleanInterval is how often expired entries are purged.
const revocationCleanInterval = 5 * time.Minute

// RevocationList tracks revoked session token IDs (jti) until their
// natural expiry. Logout adds the token's jti here; the auth middleware
// rejects any token whose jti is present.
//
// Entries are kept in memory only. A restart clears the list, which is
// acceptable: a restart also rotates nothing, and the tokens expire on
// their own within the configured TTL.
type RevocationList struct {
	revoked map[string]time.Time
	mu      sync.Mutex
}

// NewRevocationList creates an empty revocation list.
func NewRevocationList() *RevocationList {
	return &RevocationList{
		revoked: make(map[string]time.Time),
	}
}

// Revoke marks a token ID as revoked until the given expiry time.
func (rl *RevocationList) Revoke(tokenID string, expiresAt time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.revoked[tokenID] = expiresAt
}

// IsRevoked reports whether a token ID has been revoked.
func (rl *RevocationList) IsRevoked(tokenID string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	expiresAt, ok := rl.revoked[tokenID]
	if !ok {
		return false
	}

	// Entries past their expiry no longer block anything: the token
	// itself is expired. Drop them lazily.
	if time.Now().After(expiresAt) {
		delete(rl.revoked, tokenID)
		return false
	}

	return true
}

// cleanExpired removes entries whose underlying tokens have expired.
func (rl *RevocationList) cleanExpired() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	for tokenID, expiresAt := range rl.revoked {
		if now.After(expiresAt) {
			delete(rl.revoked, tokenID)
		}
	}
}

// CleanLoop purges expired entries periodically until the context is cancelled.
func (rl *RevocationList) CleanLoop(ctx context.Context) {
	ticker := time.NewTicker(revocationCleanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.cleanExpired()
		}
	}
}
