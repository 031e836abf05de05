package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"gsearch/internal/app"
	"gsearch/internal/observability"
)

// Execute runs the root command with the given context and arguments.
func Execute(ctx context.Context, args []string) error {
	cmd := &cli.Command{
		Name:  "gsearch",
		Usage: "Globus Search demo client",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to config file",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "log level (debug|info|warn|error)",
				Value: slog.LevelInfo.String(),
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "log format (text|json|otel)",
			},
		},
		Commands: []*cli.Command{
			searchCommand(),
			loginCommand(),
		},
	}

	return cmd.Run(ctx, args)
}

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "run one query against the configured index",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "auth--method",
				Usage: "authentication method (native|confidential)",
				Value: string(app.DefaultConfigAuthMethod),
			},
			&cli.StringFlag{
				Name:  "auth--storage",
				Usage: "token storage backend (file|env|keyring)",
				Value: string(app.DefaultConfigAuthStorage),
			},
			&cli.StringFlag{
				Name:  "auth--file",
				Usage: "token cache file path",
				Value: app.DefaultConfigAuthFile,
			},
			&cli.StringFlag{
				Name:  "search--index",
				Usage: "search index identifier",
				Value: app.DefaultConfigSearchIndex,
			},
			&cli.StringFlag{
				Name:  "search--query",
				Usage: "free-text query",
				Value: app.DefaultConfigSearchQuery,
			},
		},
		Action: searchAction,
	}
}

func searchAction(ctx context.Context, cmd *cli.Command) error {
	application, err := setup(cmd)
	if err != nil {
		return err
	}

	return application.Run(ctx, os.Stdout)
}

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "authenticate interactively and replace any cached tokens",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "auth--storage",
				Usage: "token storage backend (file|keyring)",
				Value: string(app.DefaultConfigAuthStorage),
			},
			&cli.StringFlag{
				Name:  "auth--file",
				Usage: "token cache file path",
				Value: app.DefaultConfigAuthFile,
			},
		},
		Action: loginAction,
	}
}

func loginAction(ctx context.Context, cmd *cli.Command) error {
	application, err := setup(cmd)
	if err != nil {
		return err
	}

	return application.Login(ctx)
}

// setup loads configuration, installs logging, and builds the application.
func setup(cmd *cli.Command) (*app.App, error) {
	cfg, err := loadConfig(cmd.String("config"), cmd, os.Environ)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Set up observability before creating app
	if err := observability.Instrument(cfg.LogLevel, string(cfg.LogFormat), cfg.LogExporter); err != nil {
		return nil, fmt.Errorf("failed to set up observability layer: %w", err)
	}

	application, err := app.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create app: %w", err)
	}

	return application, nil
}
