// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/leadgrid/leadgrid/cmd/app/commands"
	"github.com/leadgrid/leadgrid/internal/app"
	"github.com/leadgrid/leadgrid/internal/config"
)

const version = "1.0.0"

// withContainer loads configuration, builds the DI container and hands it to
// the command body, shutting the container down afterwards.
func withContainer(fn func(container *app.Container) error) error {
	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()

	defer func() {
		if err := container.Shutdown(context.Background()); err != nil {
			logger.Error("failed to shutdown container", slog.Any("error", err))
		}
	}()

	return fn(container)
}

func main() {
	cmd := &cli.Command{
		Name:    "app",
		Usage:   "Event lead capture device backend",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "Start the HTTP server",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunServer(ctx, version)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migrations",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg := config.Load()
					container := app.NewContainer(cfg)
					return commands.RunMigrations(container.Logger(), cfg.DBDriver, cfg.DBConnectionString)
				},
			},
			{
				Name:  "create-tenant",
				Usage: "Register a tenant and print its admin key",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Aliases:  []string{"n"},
						Required: true,
						Usage:    "Human-readable tenant name",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withContainer(func(container *app.Container) error {
						tenantUseCase, err := container.TenantUseCase()
						if err != nil {
							return fmt.Errorf("failed to initialize tenant use case: %w", err)
						}
						return commands.RunCreateTenant(
							ctx,
							tenantUseCase,
							container.Logger(),
							os.Stdout,
							cmd.String("name"),
							cmd.String("format"),
						)
					})
				},
			},
			{
				Name:  "create-device",
				Usage: "Register a device under a tenant",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "tenant-id",
						Aliases:  []string{"t"},
						Required: true,
						Usage:    "Tenant ID (UUID)",
					},
					&cli.StringFlag{
						Name:     "name",
						Aliases:  []string{"n"},
						Required: true,
						Usage:    "Human-readable device name",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withContainer(func(container *app.Container) error {
						deviceUseCase, err := container.DeviceUseCase()
						if err != nil {
							return fmt.Errorf("failed to initialize device use case: %w", err)
						}
						return commands.RunCreateDevice(
							ctx,
							deviceUseCase,
							container.Logger(),
							os.Stdout,
							cmd.String("tenant-id"),
							cmd.String("name"),
							cmd.String("format"),
						)
					})
				},
			},
			{
				Name:  "clean-expired-tokens",
				Usage: "Delete finished provisioning tokens older than specified days",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "days",
						Aliases:  []string{"d"},
						Required: true,
						Usage:    "Delete finished tokens older than this many days",
					},
					&cli.BoolFlag{
						Name:  "dry-run",
						Value: false,
						Usage: "Show how many tokens would be deleted without deleting",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withContainer(func(container *app.Container) error {
						tokenUseCase, err := container.TokenUseCase()
						if err != nil {
							return fmt.Errorf("failed to initialize token use case: %w", err)
						}
						return commands.RunCleanExpiredTokens(
							ctx,
							tokenUseCase,
							container.Logger(),
							os.Stdout,
							cmd.Int("days"),
							cmd.Bool("dry-run"),
							cmd.String("format"),
						)
					})
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}
