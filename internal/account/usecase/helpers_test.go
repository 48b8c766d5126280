package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/allisson/storefront/internal/account/repository"
	"github.com/allisson/storefront/internal/account/service"
	"github.com/allisson/storefront/internal/account/usecase"
)

var testPolicy = usecase.PasswordPolicy{MinLength: 8}

type testEnv struct {
	repo        *repository.MemoryAccountRepository
	codec       service.PasswordCodec
	accounts    usecase.AccountUseCase
	provisioner usecase.AdminProvisioner
}

// newTestEnv wires the use cases to an in-memory store and a real, fast codec.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	codec, err := service.NewPasswordCodec(service.WithIterations(service.MinIterations))
	require.NoError(t, err)
	hasher := service.NewBoundedHasher(codec, 4)

	dummySecret, err := hasher.Derive(context.Background(), "dummy-password")
	require.NoError(t, err)

	repo := repository.NewMemoryAccountRepository()
	return &testEnv{
		repo:        repo,
		codec:       codec,
		accounts:    usecase.NewAccountUseCase(repo, hasher, testPolicy, dummySecret),
		provisioner: usecase.NewAdminProvisioner(repo, hasher, testPolicy),
	}
}
