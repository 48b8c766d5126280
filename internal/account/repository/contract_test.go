package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/allisson/storefront/internal/account/domain"
)

type accountStore interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByIdentity(ctx context.Context, identity string) (*domain.Account, error)
	UpdateRole(ctx context.Context, identity string, role domain.Role) (*domain.Account, error)
	UpdateSecret(ctx context.Context, identity string, secret string) (*domain.Account, error)
	Count(ctx context.Context, filter domain.CountFilter) (int64, error)
}

// runAccountStoreContract exercises behaviour every backend must share. newStore
// must return an empty store.
func runAccountStoreContract(t *testing.T, newStore func(t *testing.T) accountStore) {
	ctx := context.Background()

	t.Run("CreateThenGet", func(t *testing.T) {
		store := newStore(t)
		account := newTestAccount("jane@example.com", domain.RoleStandard)
		require.NoError(t, store.Create(ctx, account))

		got, err := store.GetByIdentity(ctx, "jane@example.com")
		require.NoError(t, err)
		assert.Equal(t, account.ID, got.ID)
		assert.Equal(t, account.Secret, got.Secret)
		assert.Equal(t, domain.RoleStandard, got.Role)
		assert.Equal(t, "Jane", got.DisplayName)
		assert.False(t, got.CreatedAt.IsZero())
	})

	t.Run("DuplicateIdentity", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Create(ctx, newTestAccount("dup@example.com", domain.RoleStandard)))

		err := store.Create(ctx, newTestAccount("dup@example.com", domain.RoleStandard))
		assert.ErrorIs(t, err, domain.ErrAccountAlreadyExists)
	})

	t.Run("ConcurrentCreateSingleWinner", func(t *testing.T) {
		store := newStore(t)
		const attempts = 8
		results := make([]error, attempts)

		var g errgroup.Group
		for i := 0; i < attempts; i++ {
			g.Go(func() error {
				results[i] = store.Create(ctx, newTestAccount("race@example.com", domain.RoleStandard))
				return nil
			})
		}
		require.NoError(t, g.Wait())

		successes := 0
		for _, err := range results {
			if err == nil {
				successes++
				continue
			}
			assert.ErrorIs(t, err, domain.ErrAccountAlreadyExists)
		}
		assert.Equal(t, 1, successes)

		count, err := store.Count(ctx, domain.CountFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("GetMissing", func(t *testing.T) {
		store := newStore(t)
		_, err := store.GetByIdentity(ctx, "ghost@example.com")
		assert.ErrorIs(t, err, domain.ErrAccountNotFound)
	})

	t.Run("UpdateRoleKeepsSecret", func(t *testing.T) {
		store := newStore(t)
		account := newTestAccount("promote@example.com", domain.RoleStandard)
		require.NoError(t, store.Create(ctx, account))

		updated, err := store.UpdateRole(ctx, "promote@example.com", domain.RoleAdministrator)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleAdministrator, updated.Role)
		assert.Equal(t, account.Secret, updated.Secret)

		admin := domain.RoleAdministrator
		standard := domain.RoleStandard
		admins, err := store.Count(ctx, domain.CountFilter{Role: &admin})
		require.NoError(t, err)
		assert.Equal(t, int64(1), admins)
		standards, err := store.Count(ctx, domain.CountFilter{Role: &standard})
		require.NoError(t, err)
		assert.Equal(t, int64(0), standards)
	})

	t.Run("UpdateSecret", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Create(ctx, newTestAccount("rotate@example.com", domain.RoleStandard)))

		updated, err := store.UpdateSecret(ctx, "rotate@example.com", "rotated")
		require.NoError(t, err)
		assert.Equal(t, "rotated", updated.Secret)

		got, err := store.GetByIdentity(ctx, "rotate@example.com")
		require.NoError(t, err)
		assert.Equal(t, "rotated", got.Secret)
	})

	t.Run("UpdateMissing", func(t *testing.T) {
		store := newStore(t)
		_, err := store.UpdateRole(ctx, "ghost@example.com", domain.RoleAdministrator)
		assert.ErrorIs(t, err, domain.ErrAccountNotFound)
		_, err = store.UpdateSecret(ctx, "ghost@example.com", "x")
		assert.ErrorIs(t, err, domain.ErrAccountNotFound)
	})

	t.Run("CountByRole", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Create(ctx, newTestAccount("a@example.com", domain.RoleStandard)))
		require.NoError(t, store.Create(ctx, newTestAccount("b@example.com", domain.RoleStandard)))
		require.NoError(t, store.Create(ctx, newTestAccount("c@example.com", domain.RoleAdministrator)))

		total, err := store.Count(ctx, domain.CountFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)

		admin := domain.RoleAdministrator
		admins, err := store.Count(ctx, domain.CountFilter{Role: &admin})
		require.NoError(t, err)
		assert.Equal(t, int64(1), admins)
	})
}
