package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/docrest/cmd/app/commands"
	"github.com/allisson/docrest/internal/app"
	"github.com/allisson/docrest/internal/config"
)

func getDocumentCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-doctype",
			Usage: "Seed doctype metadata with permissions and whitelisted methods",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "name",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Canonical doctype name (e.g., 'Sales Order')",
				},
				&cli.StringFlag{
					Name:    "module",
					Aliases: []string{"m"},
					Value:   "Core",
					Usage:   "Module the doctype belongs to",
				},
				&cli.BoolFlag{
					Name:  "child",
					Value: false,
					Usage: "Whether the doctype is a child table",
				},
				&cli.StringFlag{
					Name:    "permissions",
					Aliases: []string{"p"},
					Usage:   "JSON array of role permissions (e.g., '[{\"role\":\"All\",\"capabilities\":[\"read\"]}]')",
				},
				&cli.StringFlag{
					Name:    "whitelisted-methods",
					Aliases: []string{"w"},
					Usage:   "Comma-separated list of whitelisted document methods",
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

				doctypeRepo, err := container.DoctypeRepository()
				if err != nil {
					return err
				}

				return commands.RunCreateDoctype(
					ctx,
					doctypeRepo,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("name"),
					cmd.String("module"),
					cmd.Bool("child"),
					cmd.String("permissions"),
					cmd.String("whitelisted-methods"),
					cmd.String("format"),
				)
			},
		},
	}
}
