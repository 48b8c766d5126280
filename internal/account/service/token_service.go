package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/allisson/storefront/internal/account/domain"
	apperrors "github.com/allisson/storefront/internal/errors"
)

const minTokenSecretLength = 32

// ErrInvalidToken indicates a token that is malformed, expired or signed with another key.
var ErrInvalidToken = apperrors.Wrap(apperrors.ErrUnauthorized, "invalid token")

// TokenClaims are the claims embedded in session tokens.
type TokenClaims struct {
	AccountID string `json:"aid"`
	jwt.RegisteredClaims
}

// IssuedToken is a signed token and the instant it stops being accepted.
type IssuedToken struct {
	Token     string
	ExpiresAt time.Time
}

// tokenService implements TokenService with HMAC-SHA256 signed JWTs.
type tokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a TokenService. The secret must be at least 32 bytes.
func NewTokenService(secret []byte, issuer string, ttl time.Duration) (TokenService, error) {
	if len(secret) < minTokenSecretLength {
		return nil, apperrors.Wrapf(
			apperrors.ErrInvalidInput,
			"token secret must be at least %d bytes",
			minTokenSecretLength,
		)
	}
	if ttl <= 0 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "token expiration must be positive")
	}
	return &tokenService{
		secret: secret,
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue implements TokenService.
func (s *tokenService) Issue(account *domain.Account) (*IssuedToken, error) {
	if account == nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "account is required")
	}

	issuedAt := s.now().UTC().Truncate(time.Second)
	expiresAt := issuedAt.Add(s.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, TokenClaims{
		AccountID: account.ID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   account.Identity,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to sign token")
	}

	return &IssuedToken{Token: signed, ExpiresAt: expiresAt}, nil
}

// Parse implements TokenService.
func (s *tokenService) Parse(tokenString string) (*TokenClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
	)

	claims := &TokenClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" || claims.AccountID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
