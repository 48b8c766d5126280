package commands

import (
	"context"
	"fmt"

	"github.com/allisson/storefront/internal/account/service"
)

// RunHashPassword derives a stored secret for the password on the first line
// of io.Reader and prints it. The secret uses the configured scheme, so it can
// be written directly into an account row.
func RunHashPassword(ctx context.Context, hasher service.PasswordHasher, io IOTuple, format string) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	password, err := readLine(io.Reader)
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	secret, err := hasher.Derive(ctx, password)
	if err != nil {
		return fmt.Errorf("failed to derive secret: %w", err)
	}

	if format == formatJSON {
		return writeJSON(io.Writer, map[string]string{"secret": secret})
	}

	_, err = fmt.Fprintln(io.Writer, secret)
	return err
}
