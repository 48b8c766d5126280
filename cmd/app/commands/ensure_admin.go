package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/allisson/storefront/internal/account/domain"
	"github.com/allisson/storefront/internal/account/usecase"
)

// RunEnsureAdmin makes identity an administrator, creating the account with
// password when it does not exist. An empty password is read from the first
// line of io.Reader. Running it again reports already_admin and changes nothing.
func RunEnsureAdmin(
	ctx context.Context,
	provisioner usecase.AdminProvisioner,
	logger *slog.Logger,
	io IOTuple,
	identity string,
	password string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	if password == "" {
		line, err := readLine(io.Reader)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		password = line
	}

	logger.Debug("ensuring administrator account", slog.String("identity", identity))

	result, err := provisioner.EnsureAdmin(ctx, &domain.EnsureAdminInput{
		Identity: identity,
		Password: password,
	})
	if err != nil {
		return fmt.Errorf("failed to ensure administrator: %w", err)
	}

	logger.Info("administrator ensured", slog.String("result", string(result)))

	if format == formatJSON {
		return writeJSON(io.Writer, map[string]string{
			"identity": identity,
			"result":   string(result),
		})
	}
	return outputEnsureAdminText(io.Writer, identity, result)
}

func outputEnsureAdminText(writer io.Writer, identity string, result domain.ProvisionResult) error {
	var message string
	switch result {
	case domain.ProvisionCreated:
		message = "Administrator account created"
	case domain.ProvisionPromoted:
		message = "Existing account promoted to administrator"
	default:
		message = "Account is already an administrator, nothing changed"
	}

	_, err := fmt.Fprintf(writer, "%s: %s\n", message, identity)
	return err
}
