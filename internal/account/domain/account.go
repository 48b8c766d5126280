// Package domain defines the account entity, roles and the errors raised by
// registration, login and admin provisioning.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Account is the persisted identity record.
type Account struct {
	ID          uuid.UUID
	Identity    string // normalized email address, unique
	DisplayName string
	Secret      string //nolint:gosec // derived secret, never the plaintext password
	Role        Role
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Redacted returns a copy of the account with the secret cleared.
// Everything handed out past the use case boundary goes through here.
func (a *Account) Redacted() *Account {
	if a == nil {
		return nil
	}
	cp := *a
	cp.Secret = ""
	return &cp
}

// IsAdministrator reports whether the account holds the administrator role.
func (a *Account) IsAdministrator() bool {
	return a != nil && a.Role == RoleAdministrator
}

// NormalizeIdentity trims and lowercases an identity for storage and lookup.
func NormalizeIdentity(identity string) string {
	return strings.ToLower(strings.TrimSpace(identity))
}

// CountFilter narrows AccountStore.Count. A nil Role counts every account.
type CountFilter struct {
	Role *Role
}

// RegisterInput contains the data required to register a new account.
type RegisterInput struct {
	Identity    string
	Password    string //nolint:gosec // plaintext password, only lives for the duration of the request
	DisplayName string
}

// ChangePasswordInput contains the data required to rotate an account's password.
type ChangePasswordInput struct {
	Identity        string
	CurrentPassword string //nolint:gosec
	NewPassword     string //nolint:gosec
}

// AccountStats summarizes the account population by role.
type AccountStats struct {
	Total          int64
	Administrators int64
	Standard       int64
}
