// Package http provides the account HTTP handlers and the bearer token middleware.
package http

import (
	"context"

	"github.com/allisson/storefront/internal/account/domain"
)

// accountKey is a context key type for storing the authenticated account.
type accountKey struct{}

// WithAccount stores the authenticated account in the context.
func WithAccount(ctx context.Context, account *domain.Account) context.Context {
	return context.WithValue(ctx, accountKey{}, account)
}

// GetAccount retrieves the authenticated account from the context.
// Returns (nil, false) if AuthenticationMiddleware did not run.
func GetAccount(ctx context.Context) (*domain.Account, bool) {
	account, ok := ctx.Value(accountKey{}).(*domain.Account)
	return account, ok && account != nil
}
