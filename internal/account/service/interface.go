// Package service provides the credential primitives used by the account use cases:
// password derivation/verification and signed session tokens.
package service

import (
	"context"

	"github.com/allisson/storefront/internal/account/domain"
)

// PasswordCodec turns passwords into storable secrets and checks them later.
// Implementations are pure: no I/O and no shared mutable state.
type PasswordCodec interface {
	// Derive returns a self-describing secret for password. Every call uses a fresh
	// random salt, so two calls for the same password never return the same secret.
	Derive(password string) (string, error)

	// Verify reports whether password matches secret. A malformed secret yields false;
	// Verify never panics and never reports success on a parse failure.
	Verify(password, secret string) bool
}

// PasswordHasher is the context-aware view of a PasswordCodec used by request paths.
// Calls may block while waiting for a free KDF slot.
type PasswordHasher interface {
	Derive(ctx context.Context, password string) (string, error)
	Verify(ctx context.Context, password, secret string) (bool, error)
}

// TokenService issues and verifies the signed credential returned by login.
type TokenService interface {
	// Issue signs a token for the account. The token carries the account id and identity.
	Issue(account *domain.Account) (*IssuedToken, error)

	// Parse verifies signature, issuer and expiry and returns the embedded claims.
	// Any failure is reported as an error wrapping ErrUnauthorized.
	Parse(token string) (*TokenClaims, error)
}
