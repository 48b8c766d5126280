package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/storefront/internal/account/domain"
)

func TestMapAccountToResponse(t *testing.T) {
	now := time.Now().UTC()
	account := &domain.Account{
		ID:          uuid.Must(uuid.NewV7()),
		Identity:    "jane@example.com",
		DisplayName: "Jane",
		Secret:      "pbkdf2-sha512:aa:100000:bb",
		Role:        domain.RoleAdministrator,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	response := MapAccountToResponse(account)
	assert.Equal(t, account.ID.String(), response.ID)
	assert.Equal(t, "Jane", response.Name)
	assert.Equal(t, "administrator", response.Role)

	body, err := json.Marshal(response)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "secret")
	assert.NotContains(t, string(body), account.Secret)
}

func TestMapStatsToResponse(t *testing.T) {
	response := MapStatsToResponse(&domain.AccountStats{Total: 3, Administrators: 1, Standard: 2})
	assert.Equal(t, StatsResponse{Total: 3, Administrators: 1, Standard: 2}, response)
}
