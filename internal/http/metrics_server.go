package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/allisson/storefront/internal/metrics"
)

const metricsPath = "/metrics"

// MetricsServer exposes the storefront registry (operation and HTTP metrics plus the
// Go and process collectors) on a port separate from the account API.
type MetricsServer struct {
	server    *http.Server
	namespace string
	logger    *slog.Logger
}

// NewMetricsServer creates a MetricsServer for provider. The container only builds one
// when METRICS_ENABLED is true, so provider is never nil here.
//
// Scrapes are not access-logged: a 15s scrape interval would drown the request log.
// Failures still surface through gin.Recovery.
func NewMetricsServer(
	host string,
	port int,
	logger *slog.Logger,
	provider *metrics.Provider,
) *MetricsServer {
	router := gin.New()
	router.Use(gin.Recovery())

	handler := gin.WrapH(provider.Handler())
	router.GET(metricsPath, handler)
	router.HEAD(metricsPath, handler)

	return &MetricsServer{
		server: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", host, port),
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		namespace: provider.Namespace(),
		logger:    logger,
	}
}

// GetHandler returns the http.Handler for testing purposes.
func (s *MetricsServer) GetHandler() http.Handler {
	return s.server.Handler
}

// Start serves until Shutdown is called.
func (s *MetricsServer) Start(ctx context.Context) error {
	s.logger.Info("starting metrics server",
		slog.String("addr", s.server.Addr),
		slog.String("path", metricsPath),
		slog.String("namespace", s.namespace),
	)

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server on %s: %w", s.server.Addr, err)
	}

	return nil
}

// Shutdown stops accepting scrapes and waits for in-flight ones within ctx.
func (s *MetricsServer) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down metrics server", slog.String("addr", s.server.Addr))
	return s.server.Shutdown(ctx)
}
