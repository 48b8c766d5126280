package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/storefront/cmd/app/commands"
	"github.com/allisson/storefront/internal/app"
	"github.com/allisson/storefront/internal/config"
)

func getAccountCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "ensure-admin",
			Usage: "Create or promote an administrator account",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "identity",
					Aliases:  []string{"i"},
					Required: true,
					Usage:    "Email address of the administrator",
				},
				&cli.StringFlag{
					Name:    "password",
					Aliases: []string{"p"},
					Usage:   "Password used when the account has to be created (read from stdin when omitted)",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				provisioner, err := container.AdminProvisioner()
				if err != nil {
					return err
				}

				return commands.RunEnsureAdmin(
					ctx,
					provisioner,
					container.Logger(),
					commands.DefaultIO(),
					cmd.String("identity"),
					cmd.String("password"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "hash-password",
			Usage: "Derive a stored secret for a password read from stdin",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				hasher, err := container.PasswordHasher()
				if err != nil {
					return err
				}

				return commands.RunHashPassword(ctx, hasher, commands.DefaultIO(), cmd.String("format"))
			},
		},
	}
}
