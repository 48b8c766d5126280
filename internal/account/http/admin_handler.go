package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/storefront/internal/account/domain"
	"github.com/allisson/storefront/internal/account/http/dto"
	"github.com/allisson/storefront/internal/account/usecase"
	apperrors "github.com/allisson/storefront/internal/errors"
	"github.com/allisson/storefront/internal/httputil"
)

// SeedConfig holds the administrator credentials used by the seed endpoint.
type SeedConfig struct {
	Enabled  bool
	Identity string
	Password string //nolint:gosec // configured seed password
}

// AdminHandler handles administrator provisioning and reporting.
type AdminHandler struct {
	provisioner    usecase.AdminProvisioner
	accountUseCase usecase.AccountUseCase
	seed           SeedConfig
	logger         *slog.Logger
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(
	provisioner usecase.AdminProvisioner,
	accountUseCase usecase.AccountUseCase,
	seed SeedConfig,
	logger *slog.Logger,
) *AdminHandler {
	return &AdminHandler{
		provisioner:    provisioner,
		accountUseCase: accountUseCase,
		seed:           seed,
		logger:         logger,
	}
}

// SeedHandler runs EnsureAdmin with the configured identity and password.
// POST /v1/admin/seed - Returns 404 unless seeding is enabled.
func (h *AdminHandler) SeedHandler(c *gin.Context) {
	if !h.seed.Enabled {
		httputil.HandleErrorGin(c, apperrors.ErrNotFound, h.logger)
		return
	}

	result, err := h.provisioner.EnsureAdmin(c.Request.Context(), &domain.EnsureAdminInput{
		Identity: h.seed.Identity,
		Password: h.seed.Password,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info("admin seed completed", slog.String("result", string(result)))

	httputil.RespondSuccessGin(c, http.StatusOK, dto.SeedResponse{Result: string(result)})
}

// StatsHandler returns account counts by role.
// GET /v1/admin/accounts/stats - Requires the administrator role.
func (h *AdminHandler) StatsHandler(c *gin.Context) {
	stats, err := h.accountUseCase.Stats(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	httputil.RespondSuccessGin(c, http.StatusOK, dto.MapStatsToResponse(stats))
}
