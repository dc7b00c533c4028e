package auth

import (
	"context"
	"errors"
	"fmt"
)

// VerifyCredentials authenticates a username/password pair against the
// credential store.
//
// An unknown username and a wrong password both return
// ErrInvalidCredentials with no distinction, so callers cannot leak
// which accounts exist.
//
// Parameters:
//   - ctx: Request context
//   - repo: User repository to look up the account
//   - username: Claimed username
//   - password: Plaintext password to verify
//
// Returns:
//   - *User: The authenticated user on success
//   - error: ErrInvalidCredentials on any mismatch, or a wrapped storage error
func VerifyCredentials(ctx context.Context, repo UserRepository, username, password string) (*User, error) {
	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	ok, err := VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}
