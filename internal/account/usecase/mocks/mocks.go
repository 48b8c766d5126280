// Package mocks provides mock implementations of the account use case dependencies.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/allisson/storefront/internal/account/domain"
)

// MockAccountRepository is a mock implementation of AccountRepository for testing.
type MockAccountRepository struct {
	mock.Mock
}

// Create mocks the Create method of AccountRepository.
func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

// GetByIdentity mocks the GetByIdentity method of AccountRepository.
func (m *MockAccountRepository) GetByIdentity(ctx context.Context, identity string) (*domain.Account, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

// UpdateRole mocks the UpdateRole method of AccountRepository.
func (m *MockAccountRepository) UpdateRole(
	ctx context.Context,
	identity string,
	role domain.Role,
) (*domain.Account, error) {
	args := m.Called(ctx, identity, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

// UpdateSecret mocks the UpdateSecret method of AccountRepository.
func (m *MockAccountRepository) UpdateSecret(
	ctx context.Context,
	identity string,
	secret string,
) (*domain.Account, error) {
	args := m.Called(ctx, identity, secret)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

// Count mocks the Count method of AccountRepository.
func (m *MockAccountRepository) Count(ctx context.Context, filter domain.CountFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockPasswordHasher is a mock implementation of PasswordHasher for testing.
type MockPasswordHasher struct {
	mock.Mock
}

// Derive mocks the Derive method of PasswordHasher.
func (m *MockPasswordHasher) Derive(ctx context.Context, password string) (string, error) {
	args := m.Called(ctx, password)
	return args.String(0), args.Error(1)
}

// Verify mocks the Verify method of PasswordHasher.
func (m *MockPasswordHasher) Verify(ctx context.Context, password, secret string) (bool, error) {
	args := m.Called(ctx, password, secret)
	return args.Bool(0), args.Error(1)
}

// MockAccountUseCase is a mock implementation of AccountUseCase for testing.
type MockAccountUseCase struct {
	mock.Mock
}

// Register mocks the Register method of AccountUseCase.
func (m *MockAccountUseCase) Register(ctx context.Context, input *domain.RegisterInput) (*domain.Account, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

// Login mocks the Login method of AccountUseCase.
func (m *MockAccountUseCase) Login(ctx context.Context, identity, password string) (*domain.Account, error) {
	args := m.Called(ctx, identity, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

// ChangePassword mocks the ChangePassword method of AccountUseCase.
func (m *MockAccountUseCase) ChangePassword(ctx context.Context, input *domain.ChangePasswordInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}

// GetAccount mocks the GetAccount method of AccountUseCase.
func (m *MockAccountUseCase) GetAccount(ctx context.Context, identity string) (*domain.Account, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

// Stats mocks the Stats method of AccountUseCase.
func (m *MockAccountUseCase) Stats(ctx context.Context) (*domain.AccountStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountStats), args.Error(1)
}

// MockAdminProvisioner is a mock implementation of AdminProvisioner for testing.
type MockAdminProvisioner struct {
	mock.Mock
}

// EnsureAdmin mocks the EnsureAdmin method of AdminProvisioner.
func (m *MockAdminProvisioner) EnsureAdmin(
	ctx context.Context,
	input *domain.EnsureAdminInput,
) (domain.ProvisionResult, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(domain.ProvisionResult), args.Error(1)
}
