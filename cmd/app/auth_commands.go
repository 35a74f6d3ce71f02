package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/docrest/cmd/app/commands"
	"github.com/allisson/docrest/internal/app"
	"github.com/allisson/docrest/internal/config"
)

func getAuthCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-api-key",
			Usage: "Provision an API key/secret pair for a record",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "doctype",
					Aliases: []string{"d"},
					Value:   "User",
					Usage:   "Doctype of the record carrying the key",
				},
				&cli.StringFlag{
					Name:     "record",
					Aliases:  []string{"r"},
					Required: true,
					Usage:    "Record name the key belongs to",
				},
				&cli.StringFlag{
					Name:    "user",
					Aliases: []string{"u"},
					Usage:   "Session user for non-user records",
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

				apiKeyUseCase, err := container.APIKeyUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateAPIKey(
					ctx,
					apiKeyUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("doctype"),
					cmd.String("record"),
					cmd.String("user"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "clean-expired-tokens",
			Usage: "Delete OAuth bearer tokens whose expiry has passed",
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

				bearerTokenUseCase, err := container.BearerTokenUseCase()
				if err != nil {
					return err
				}

				return commands.RunCleanExpiredTokens(
					ctx,
					bearerTokenUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("format"),
				)
			},
		},
	}
}
