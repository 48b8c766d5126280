package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/storefront/internal/account/domain"
	"github.com/allisson/storefront/internal/account/http/dto"
	"github.com/allisson/storefront/internal/account/service"
	"github.com/allisson/storefront/internal/account/usecase"
	apperrors "github.com/allisson/storefront/internal/errors"
	"github.com/allisson/storefront/internal/httputil"
	customValidation "github.com/allisson/storefront/internal/validation"
)

// AccountHandler handles registration, login and self-service account operations.
type AccountHandler struct {
	accountUseCase usecase.AccountUseCase
	tokenService   service.TokenService
	logger         *slog.Logger
}

// NewAccountHandler creates a new account handler.
func NewAccountHandler(
	accountUseCase usecase.AccountUseCase,
	tokenService service.TokenService,
	logger *slog.Logger,
) *AccountHandler {
	return &AccountHandler{
		accountUseCase: accountUseCase,
		tokenService:   tokenService,
		logger:         logger,
	}
}

// RegisterHandler creates a standard account.
// POST /v1/accounts/register - Returns 201 Created with the account.
func (h *AccountHandler) RegisterHandler(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	account, err := h.accountUseCase.Register(c.Request.Context(), &domain.RegisterInput{
		Identity:    req.Identity,
		Password:    req.Password,
		DisplayName: req.Name,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	httputil.RespondSuccessGin(c, http.StatusCreated, dto.MapAccountToResponse(account))
}

// LoginHandler checks credentials and issues a session token.
// POST /v1/accounts/login - Returns 200 OK with the account and token.
func (h *AccountHandler) LoginHandler(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	account, err := h.accountUseCase.Login(c.Request.Context(), req.Identity, req.Password)
	if err != nil {
		if apperrors.Is(err, domain.ErrInvalidCredentials) {
			h.respondInvalidCredentials(c)
			return
		}
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	token, err := h.tokenService.Issue(account)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	httputil.RespondSuccessGin(c, http.StatusOK, dto.LoginResponse{
		Account:   dto.MapAccountToResponse(account),
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt,
	})
}

// MeHandler returns the authenticated account.
// GET /v1/accounts/me - Requires AuthenticationMiddleware.
func (h *AccountHandler) MeHandler(c *gin.Context) {
	account, ok := GetAccount(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	httputil.RespondSuccessGin(c, http.StatusOK, dto.MapAccountToResponse(account))
}

// ChangePasswordHandler rotates the authenticated account's password.
// PUT /v1/accounts/me/password - Returns 204 No Content.
func (h *AccountHandler) ChangePasswordHandler(c *gin.Context) {
	account, ok := GetAccount(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	err := h.accountUseCase.ChangePassword(c.Request.Context(), &domain.ChangePasswordInput{
		Identity:        account.Identity,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		if apperrors.Is(err, domain.ErrInvalidCredentials) {
			h.respondInvalidCredentials(c)
			return
		}
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// respondInvalidCredentials writes the one body used for every credential failure.
func (h *AccountHandler) respondInvalidCredentials(c *gin.Context) {
	h.logger.Debug("credential check failed")
	httputil.RespondErrorGin(c, http.StatusUnauthorized, "invalid_credentials", "Invalid identity or password")
}
