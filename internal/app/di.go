// Package app provides the dependency injection container that assembles the service.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/allisson/storefront/internal/config"
	"github.com/allisson/storefront/internal/database"
	"github.com/allisson/storefront/internal/http"
	"github.com/allisson/storefront/internal/metrics"
)

// lazy holds a component that is built on first access. A failed build is remembered
// and returned to every later caller.
type lazy[T any] struct {
	once  sync.Once
	value T
	err   error
}

func (l *lazy[T]) get(build func() (T, error)) (T, error) {
	l.once.Do(func() {
		l.value, l.err = build()
	})
	return l.value, l.err
}

// Container holds all application dependencies. Components are created on first access
// so commands that only need part of the graph (migrate, hash-password) never open the
// account store or start metrics.
type Container struct {
	config *config.Config

	loggerInit sync.Once
	logger     *slog.Logger

	db              lazy[*sql.DB]
	redisClient     lazy[*redis.Client]
	metricsProvider lazy[*metrics.Provider]
	businessMetrics lazy[metrics.BusinessMetrics]
	httpServer      lazy[*http.Server]
	metricsServer   lazy[*http.MetricsServer]

	accountComponents
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{config: cfg}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the JSON logger writing to stdout at the configured level.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: parseLogLevel(c.config.LogLevel),
		}))
	})
	return c.logger
}

// DB returns the SQL connection pool. Only valid for the postgres and mysql drivers.
func (c *Container) DB() (*sql.DB, error) {
	return c.db.get(func() (*sql.DB, error) {
		switch c.config.DBDriver {
		case config.DriverPostgres, config.DriverMySQL:
		default:
			return nil, fmt.Errorf("driver %q has no sql database", c.config.DBDriver)
		}

		db, err := database.Connect(c.databaseConfig())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return db, nil
	})
}

// RedisClient returns the redis client. Only valid for the redis driver.
func (c *Container) RedisClient() (*redis.Client, error) {
	return c.redisClient.get(func() (*redis.Client, error) {
		if c.config.DBDriver != config.DriverRedis {
			return nil, fmt.Errorf("driver %q has no redis client", c.config.DBDriver)
		}

		client, err := database.ConnectRedis(c.databaseConfig())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return client, nil
	})
}

// StorePinger returns the readiness check for the configured account store.
func (c *Container) StorePinger() (database.Pinger, error) {
	switch c.config.DBDriver {
	case config.DriverPostgres, config.DriverMySQL:
		db, err := c.DB()
		if err != nil {
			return nil, err
		}
		return db, nil
	case config.DriverRedis:
		client, err := c.RedisClient()
		if err != nil {
			return nil, err
		}
		return database.RedisPinger{Client: client}, nil
	case config.DriverMemory:
		return database.StaticPinger{}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// MetricsProvider returns the metrics provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	return c.metricsProvider.get(func() (*metrics.Provider, error) {
		if !c.config.MetricsEnabled {
			return nil, nil
		}
		provider, err := metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			return nil, fmt.Errorf("failed to create metrics provider: %w", err)
		}
		return provider, nil
	})
}

// BusinessMetrics returns the business metrics recorder; a no-op when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	return c.businessMetrics.get(func() (metrics.BusinessMetrics, error) {
		provider, err := c.MetricsProvider()
		if err != nil {
			return nil, err
		}
		if provider == nil {
			return metrics.NewNoOpBusinessMetrics(), nil
		}
		return metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
	})
}

// HTTPServer returns the API server with its router configured.
func (c *Container) HTTPServer() (*http.Server, error) {
	return c.httpServer.get(c.initHTTPServer)
}

// MetricsServer returns the metrics server, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	return c.metricsServer.get(func() (*http.MetricsServer, error) {
		provider, err := c.MetricsProvider()
		if err != nil || provider == nil {
			return nil, err
		}
		return http.NewMetricsServer(c.config.ServerHost, c.config.MetricsPort, c.Logger(), provider), nil
	})
}

// Shutdown releases every component that was initialized.
func (c *Container) Shutdown(ctx context.Context) error {
	var errs []error

	if server, err := c.httpServer.value, c.httpServer.err; server != nil && err == nil {
		if err := server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http server shutdown: %w", err))
		}
	}
	if server := c.metricsServer.value; server != nil {
		if err := server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}
	if provider := c.metricsProvider.value; provider != nil {
		if err := provider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}
	if db := c.db.value; db != nil {
		if err := db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("database close: %w", err))
		}
	}
	if client := c.redisClient.value; client != nil {
		if err := client.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close: %w", err))
		}
	}

	return errors.Join(errs...)
}

func (c *Container) databaseConfig() database.Config {
	return database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	}
}

func (c *Container) initHTTPServer() (*http.Server, error) {
	pinger, err := c.StorePinger()
	if err != nil {
		return nil, fmt.Errorf("failed to get store for http server: %w", err)
	}
	accountUseCase, err := c.AccountUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get account use case for http server: %w", err)
	}
	tokenService, err := c.TokenService()
	if err != nil {
		return nil, fmt.Errorf("failed to get token service for http server: %w", err)
	}
	accountHandler, err := c.AccountHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get account handler for http server: %w", err)
	}
	adminHandler, err := c.AdminHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get admin handler for http server: %w", err)
	}
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	server := http.NewServer(pinger, c.config.ServerHost, c.config.ServerPort, c.Logger())
	server.SetupRouter(c.config, accountHandler, adminHandler, accountUseCase, tokenService, provider)

	return server, nil
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
