package repository

import (
	"context"
	"sync"
	"time"

	"github.com/allisson/storefront/internal/account/domain"
)

// MemoryAccountRepository keeps accounts in a map guarded by a mutex. It is used
// with DB_DRIVER=memory for local runs and by tests; data is lost on restart.
type MemoryAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]domain.Account
}

// NewMemoryAccountRepository creates an empty MemoryAccountRepository.
func NewMemoryAccountRepository() *MemoryAccountRepository {
	return &MemoryAccountRepository{accounts: make(map[string]domain.Account)}
}

// Create inserts a new account.
func (r *MemoryAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[account.Identity]; ok {
		return domain.ErrAccountAlreadyExists
	}

	now := time.Now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now
	r.accounts[account.Identity] = *account
	return nil
}

// GetByIdentity returns a copy of the stored account.
func (r *MemoryAccountRepository) GetByIdentity(ctx context.Context, identity string) (*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.accounts[identity]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return &account, nil
}

// UpdateRole sets the account role.
func (r *MemoryAccountRepository) UpdateRole(
	ctx context.Context,
	identity string,
	role domain.Role,
) (*domain.Account, error) {
	return r.update(ctx, identity, func(a *domain.Account) { a.Role = role })
}

// UpdateSecret replaces the account secret.
func (r *MemoryAccountRepository) UpdateSecret(
	ctx context.Context,
	identity string,
	secret string,
) (*domain.Account, error) {
	return r.update(ctx, identity, func(a *domain.Account) { a.Secret = secret })
}

// Count returns the number of accounts, optionally restricted to one role.
func (r *MemoryAccountRepository) Count(ctx context.Context, filter domain.CountFilter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if filter.Role == nil {
		return int64(len(r.accounts)), nil
	}
	var count int64
	for _, account := range r.accounts {
		if account.Role == *filter.Role {
			count++
		}
	}
	return count, nil
}

func (r *MemoryAccountRepository) update(
	ctx context.Context,
	identity string,
	mutate func(*domain.Account),
) (*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[identity]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	mutate(&account)
	account.UpdatedAt = time.Now().UTC()
	r.accounts[identity] = account

	return &account, nil
}
