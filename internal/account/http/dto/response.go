package dto

import (
	"time"

	"github.com/allisson/storefront/internal/account/domain"
)

// AccountResponse represents an account in API responses. It has no secret field.
type AccountResponse struct {
	ID        string    `json:"id"`
	Identity  string    `json:"identity"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MapAccountToResponse converts a domain account to an API response.
func MapAccountToResponse(account *domain.Account) AccountResponse {
	return AccountResponse{
		ID:        account.ID.String(),
		Identity:  account.Identity,
		Name:      account.DisplayName,
		Role:      string(account.Role),
		CreatedAt: account.CreatedAt,
		UpdatedAt: account.UpdatedAt,
	}
}

// LoginResponse contains the authenticated account and its session token.
type LoginResponse struct {
	Account   AccountResponse `json:"account"`
	Token     string          `json:"token"` //nolint:gosec // returned to the account owner
	ExpiresAt time.Time       `json:"expires_at"`
}

// SeedResponse reports the outcome of admin provisioning.
type SeedResponse struct {
	Result string `json:"result"`
}

// StatsResponse contains account counts by role.
type StatsResponse struct {
	Total          int64 `json:"total"`
	Administrators int64 `json:"administrators"`
	Standard       int64 `json:"standard"`
}

// MapStatsToResponse converts domain stats to an API response.
func MapStatsToResponse(stats *domain.AccountStats) StatsResponse {
	return StatsResponse{
		Total:          stats.Total,
		Administrators: stats.Administrators,
		Standard:       stats.Standard,
	}
}
