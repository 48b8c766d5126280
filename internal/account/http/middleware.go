package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/allisson/storefront/internal/account/domain"
	"github.com/allisson/storefront/internal/account/service"
	"github.com/allisson/storefront/internal/account/usecase"
	apperrors "github.com/allisson/storefront/internal/errors"
	"github.com/allisson/storefront/internal/httputil"
)

const bearerPrefix = "bearer "

// AuthenticationMiddleware authenticates requests carrying "Authorization: Bearer <token>".
//
// The token signature and expiry are checked by tokenService, then the account is
// reloaded through accountUseCase so role checks see the stored role rather than
// anything the client holds. A token whose account id no longer matches the stored
// account (deleted and re-registered identity) is rejected.
//
// Error handling:
//   - Missing, malformed or invalid token → 401 Unauthorized
//   - Account no longer exists → 401 Unauthorized
//   - Store unreachable → 503 Service Unavailable
func AuthenticationMiddleware(
	accountUseCase usecase.AccountUseCase,
	tokenService service.TokenService,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if len(authHeader) <= len(bearerPrefix) ||
			!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
			logger.Debug("authentication failed: missing or malformed authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		claims, err := tokenService.Parse(strings.TrimSpace(authHeader[len(bearerPrefix):]))
		if err != nil {
			logger.Debug("authentication failed: invalid token")
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		account, err := accountUseCase.GetAccount(c.Request.Context(), claims.Subject)
		if err != nil {
			if apperrors.Is(err, domain.ErrAccountNotFound) {
				err = apperrors.ErrUnauthorized
			}
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}
		if account.ID.String() != claims.AccountID {
			logger.Debug("authentication failed: token account id mismatch")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		if !account.Role.Valid() {
			// still authenticated; Authorize rejects the role on every gated route
			logger.Warn("account has unknown role",
				slog.String("account_id", account.ID.String()),
				slog.String("role", string(account.Role)))
		}

		c.Request = c.Request.WithContext(WithAccount(c.Request.Context(), account))

		logger.Debug("authentication successful", slog.String("account_id", account.ID.String()))

		c.Next()
	}
}

// AuthorizationMiddleware requires the authenticated account to hold requiredRole.
// It must run after AuthenticationMiddleware. All role checks go through domain.Authorize.
func AuthorizationMiddleware(requiredRole domain.Role, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		account, _ := GetAccount(c.Request.Context())

		if err := domain.Authorize(account, requiredRole); err != nil {
			if account != nil {
				logger.Debug("authorization failed",
					slog.String("account_id", account.ID.String()),
					slog.String("role", string(account.Role)),
					slog.String("required_role", string(requiredRole)))
			}
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		c.Next()
	}
}
