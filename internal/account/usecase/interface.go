// Package usecase implements account registration, login, password changes and
// administrator provisioning on top of an AccountRepository and a PasswordHasher.
package usecase

import (
	"context"

	"github.com/allisson/storefront/internal/account/domain"
)

// AccountRepository defines persistence operations for accounts. Identities are
// always passed already normalized.
type AccountRepository interface {
	// Create stores a new account and sets its timestamps.
	// Returns ErrAccountAlreadyExists if the identity is taken.
	Create(ctx context.Context, account *domain.Account) error

	// GetByIdentity retrieves an account. Returns ErrAccountNotFound if not found.
	GetByIdentity(ctx context.Context, identity string) (*domain.Account, error)

	// UpdateRole sets the role and returns the updated account.
	// Returns ErrAccountNotFound if not found.
	UpdateRole(ctx context.Context, identity string, role domain.Role) (*domain.Account, error)

	// UpdateSecret replaces the stored secret and returns the updated account.
	// Returns ErrAccountNotFound if not found.
	UpdateSecret(ctx context.Context, identity string, secret string) (*domain.Account, error)

	// Count returns the number of accounts matching filter.
	Count(ctx context.Context, filter domain.CountFilter) (int64, error)
}

// AccountUseCase defines the account operations exposed to the HTTP layer.
// Every returned account has its secret cleared.
type AccountUseCase interface {
	// Register validates the input, derives a secret and stores a standard account.
	// Returns ErrIdentityTaken if the identity is already registered.
	Register(ctx context.Context, input *domain.RegisterInput) (*domain.Account, error)

	// Login checks the password for identity. Unknown identity, wrong password and an
	// unreadable stored secret all return ErrInvalidCredentials.
	Login(ctx context.Context, identity, password string) (*domain.Account, error)

	// ChangePassword verifies the current password and replaces the secret.
	ChangePassword(ctx context.Context, input *domain.ChangePasswordInput) error

	// GetAccount returns the account for identity. Returns ErrAccountNotFound if not found.
	GetAccount(ctx context.Context, identity string) (*domain.Account, error)

	// Stats counts accounts per role.
	Stats(ctx context.Context) (*domain.AccountStats, error)
}

// AdminProvisioner makes sure an identity exists with the administrator role.
type AdminProvisioner interface {
	// EnsureAdmin creates, promotes or leaves the account untouched. Repeating it is
	// safe and an existing account's secret is never modified.
	EnsureAdmin(ctx context.Context, input *domain.EnsureAdminInput) (domain.ProvisionResult, error)
}
