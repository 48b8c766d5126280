package commands

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/allisson/storefront/internal/config"
)

func TestRunMigrations(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("invalid-driver", func(t *testing.T) {
		err := RunMigrations(logger, "invalid", "postgres://localhost")
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to create migrate instance")
	})

	t.Run("invalid-connection-string", func(t *testing.T) {
		err := RunMigrations(logger, config.DriverPostgres, "invalid-connection-string")
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to create migrate instance")
	})

	t.Run("schemaless-drivers-are-skipped", func(t *testing.T) {
		require.NoError(t, RunMigrations(logger, config.DriverRedis, "redis://localhost:6379/0"))
		require.NoError(t, RunMigrations(logger, config.DriverMemory, ""))
	})
}
