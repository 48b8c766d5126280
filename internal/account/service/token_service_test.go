package service

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/storefront/internal/account/domain"
	apperrors "github.com/allisson/storefront/internal/errors"
)

var testTokenSecret = []byte("0123456789abcdef0123456789abcdef")

func newTestAccount() *domain.Account {
	return &domain.Account{
		ID:       uuid.Must(uuid.NewV7()),
		Identity: "jane@example.com",
		Role:     domain.RoleStandard,
	}
}

func TestNewTokenService(t *testing.T) {
	t.Run("Error_ShortSecret", func(t *testing.T) {
		svc, err := NewTokenService([]byte("short"), "storefront", time.Hour)
		assert.Nil(t, svc)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	})

	t.Run("Error_NonPositiveTTL", func(t *testing.T) {
		svc, err := NewTokenService(testTokenSecret, "storefront", 0)
		assert.Nil(t, svc)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	})
}

func TestTokenService_IssueAndParse(t *testing.T) {
	svc, err := NewTokenService(testTokenSecret, "storefront", time.Hour)
	require.NoError(t, err)
	account := newTestAccount()

	issued, err := svc.Issue(account)
	require.NoError(t, err)
	assert.NotEmpty(t, issued.Token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), issued.ExpiresAt, 5*time.Second)

	claims, err := svc.Parse(issued.Token)
	require.NoError(t, err)
	assert.Equal(t, account.ID.String(), claims.AccountID)
	assert.Equal(t, account.Identity, claims.Subject)
	assert.Equal(t, "storefront", claims.Issuer)

	t.Run("Error_NilAccount", func(t *testing.T) {
		_, err := svc.Issue(nil)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	})
}

func TestTokenService_Parse_Rejects(t *testing.T) {
	svc, err := NewTokenService(testTokenSecret, "storefront", time.Hour)
	require.NoError(t, err)
	issued, err := svc.Issue(newTestAccount())
	require.NoError(t, err)

	t.Run("Garbage", func(t *testing.T) {
		_, err := svc.Parse("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
		assert.True(t, apperrors.Is(err, apperrors.ErrUnauthorized))
	})

	t.Run("TamperedSignature", func(t *testing.T) {
		parts := strings.Split(issued.Token, ".")
		require.Len(t, parts, 3)
		sig := parts[2]
		replacement := "A"
		if sig[0] == 'A' {
			replacement = "B"
		}
		tampered := parts[0] + "." + parts[1] + "." + replacement + sig[1:]
		_, err := svc.Parse(tampered)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("OtherKey", func(t *testing.T) {
		other, err := NewTokenService([]byte("fedcba9876543210fedcba9876543210"), "storefront", time.Hour)
		require.NoError(t, err)
		_, err = other.Parse(issued.Token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("OtherIssuer", func(t *testing.T) {
		other, err := NewTokenService(testTokenSecret, "someone-else", time.Hour)
		require.NoError(t, err)
		_, err = other.Parse(issued.Token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Expired", func(t *testing.T) {
		svc, err := NewTokenService(testTokenSecret, "storefront", time.Minute)
		require.NoError(t, err)
		impl := svc.(*tokenService)
		impl.now = func() time.Time { return time.Now().Add(-time.Hour) }

		expired, err := svc.Issue(newTestAccount())
		require.NoError(t, err)

		impl.now = time.Now
		_, err = svc.Parse(expired.Token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
