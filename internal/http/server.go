package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/storefront/internal/account/domain"
	accountHTTP "github.com/allisson/storefront/internal/account/http"
	accountService "github.com/allisson/storefront/internal/account/service"
	accountUseCase "github.com/allisson/storefront/internal/account/usecase"
	"github.com/allisson/storefront/internal/config"
	"github.com/allisson/storefront/internal/database"
	"github.com/allisson/storefront/internal/metrics"
)

const readinessTimeout = 2 * time.Second

// Server is the public API server.
type Server struct {
	store  database.Pinger
	server *http.Server
	router *gin.Engine
	logger *slog.Logger
}

// NewServer creates the API server. The store is pinged by /ready.
func NewServer(store database.Pinger, host string, port int, logger *slog.Logger) *Server {
	return &Server{
		store:  store,
		logger: logger,
		server: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:       15 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

// SetupRouter builds the gin engine with all middleware and routes.
//
// Routes:
//
//	GET  /health
//	GET  /ready
//	POST /v1/accounts/register
//	POST /v1/accounts/login
//	GET  /v1/accounts/me                 (bearer token)
//	PUT  /v1/accounts/me/password        (bearer token)
//	POST /v1/admin/seed                  (ADMIN_SEED_ENABLED)
//	GET  /v1/admin/accounts/stats        (bearer token, administrator)
func (s *Server) SetupRouter(
	cfg *config.Config,
	accountHandler *accountHTTP.AccountHandler,
	adminHandler *accountHTTP.AdminHandler,
	accounts accountUseCase.AccountUseCase,
	tokenService accountService.TokenService,
	metricsProvider *metrics.Provider,
) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	authenticate := accountHTTP.AuthenticationMiddleware(accounts, tokenService, s.logger)
	requireAdmin := accountHTTP.AuthorizationMiddleware(domain.RoleAdministrator, s.logger)

	v1 := router.Group("/v1")

	accountRoutes := v1.Group("/accounts")
	accountRoutes.POST("/register", accountHandler.RegisterHandler)
	accountRoutes.POST("/login", accountHandler.LoginHandler)
	accountRoutes.GET("/me", authenticate, accountHandler.MeHandler)
	accountRoutes.PUT("/me/password", authenticate, accountHandler.ChangePasswordHandler)

	adminRoutes := v1.Group("/admin")
	adminRoutes.POST("/seed", adminHandler.SeedHandler)
	adminRoutes.GET("/accounts/stats", authenticate, requireAdmin, adminHandler.StatsHandler)

	s.router = router
	s.server.Handler = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.server.Handler
}

// Start serves until Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	if s.server.Handler == nil {
		s.server.Handler = s.router
	}

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler pings the account store.
func (s *Server) readinessHandler(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"database": "error"},
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	if err := s.store.PingContext(ctx); err != nil {
		s.logger.Warn("readiness check failed", slog.Any("error", err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"database": "error"},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": gin.H{"database": "ok"},
	})
}
