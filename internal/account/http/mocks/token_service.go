// Package mocks provides mock implementations for testing HTTP handlers.
package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/allisson/storefront/internal/account/domain"
	"github.com/allisson/storefront/internal/account/service"
)

// MockTokenService is a mock implementation of TokenService for testing.
type MockTokenService struct {
	mock.Mock
}

// Issue mocks the Issue method of TokenService.
func (m *MockTokenService) Issue(account *domain.Account) (*service.IssuedToken, error) {
	args := m.Called(account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.IssuedToken), args.Error(1)
}

// Parse mocks the Parse method of TokenService.
func (m *MockTokenService) Parse(token string) (*service.TokenClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TokenClaims), args.Error(1)
}
