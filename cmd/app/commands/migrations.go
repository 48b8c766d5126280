package commands

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/allisson/storefront/internal/config"
)

// RunMigrations applies pending SQL migrations for the configured driver.
// The redis and memory drivers have no schema, so the call only logs and returns.
// A database that is already up to date is not an error.
func RunMigrations(logger *slog.Logger, dbDriver, dbConnectionString string) error {
	logger.Info("running database migrations", slog.String("driver", dbDriver))

	var migrationsPath string
	switch dbDriver {
	case config.DriverRedis, config.DriverMemory:
		logger.Info("driver has no schema, skipping migrations", slog.String("driver", dbDriver))
		return nil
	case config.DriverMySQL:
		migrationsPath = "file://migrations/mysql"
	default:
		migrationsPath = "file://migrations/postgresql"
	}

	m, err := migrate.New(migrationsPath, dbConnectionString)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer closeMigrate(m, logger)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("migrations completed successfully")
	return nil
}
