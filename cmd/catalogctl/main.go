package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/micca12/Progetto-IW/internal/config"
	"github.com/micca12/Progetto-IW/internal/db"
	"github.com/micca12/Progetto-IW/internal/logging"
	"github.com/micca12/Progetto-IW/pkg/client"
)

func main() {
	cmd := &cli.Command{
		Name:  "catalogctl",
		Usage: "Manage the paint catalog database and talk to its API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api",
				Usage:   "base URL of the API",
				Value:   client.DefaultBaseURL,
				Sources: cli.EnvVars("CATALOG_API_URL"),
			},
			&cli.StringFlag{
				Name:    "session",
				Usage:   "file holding the token and theme",
				Value:   defaultSessionPath(),
				Sources: cli.EnvVars("CATALOG_SESSION"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "Run database migration",
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg := config.Load()
					gdb, err := db.Open(ctx, cfg.DatabaseURL)
					if err != nil {
						return err
					}
					defer db.Close(gdb)
					if err := db.Migrate(ctx, gdb); err != nil {
						return err
					}
					logging.NewText(os.Stderr, cfg.LogLevel).Info("migration_complete")
					return nil
				},
			},
			{
				Name:  "seed",
				Usage: "Insert roles, lookups and the admin account",
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg := config.Load()
					gdb, err := db.Open(ctx, cfg.DatabaseURL)
					if err != nil {
						return err
					}
					defer db.Close(gdb)
					if err := db.Migrate(ctx, gdb); err != nil {
						return err
					}
					if err := db.Seed(ctx, gdb, db.SeedOptions{AdminEmail: cfg.AdminEmail, AdminPassword: cfg.AdminPassword}); err != nil {
						return err
					}
					logging.NewText(os.Stderr, cfg.LogLevel).Info("seed_complete", "admin", cfg.AdminEmail)
					return nil
				},
			},
			loginCommand(),
			logoutCommand(),
			whoamiCommand(),
			productsCommand(),
			productCommand(),
			trendingCommand(),
			searchCommand(),
			favoritesCommand(),
			brandCommand(),
			themeCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".catalogctl.json"
	}
	return filepath.Join(dir, "catalogctl", "session.json")
}

func newApp(c *cli.Command) (*client.App, error) {
	sess, err := client.OpenSession(c.String("session"))
	if err != nil {
		return nil, err
	}
	return client.NewApp(c.String("api"), sess), nil
}
