package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"

	"github.com/JaimeStill/scribe/internal/config"
	"github.com/JaimeStill/scribe/internal/infrastructure"
	"github.com/JaimeStill/scribe/internal/migrations"
	"github.com/JaimeStill/scribe/pkg/database"
	"github.com/JaimeStill/scribe/pkg/lifecycle"
)

func newMigrateCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or revert the database schema",
		Long: `Manage the PostgreSQL schema. The connection comes from the [database]
configuration and SCRIBE_DB_* variables.`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(g, func(m *migrate.Migrate) error {
					if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
						return fmt.Errorf("up migrations: %w", err)
					}
					fmt.Println("migrations applied successfully")
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Revert all migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(g, func(m *migrate.Migrate) error {
					if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
						return fmt.Errorf("down migrations: %w", err)
					}
					fmt.Println("migrations reverted successfully")
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "steps <n>",
			Short: "Apply n migrations, or revert them when n is negative",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := strconv.Atoi(args[0])
				if err != nil || n == 0 {
					return fmt.Errorf("%w: steps %q", errUsage, args[0])
				}
				return withMigrator(g, func(m *migrate.Migrate) error {
					if err := m.Steps(n); err != nil && !errors.Is(err, migrate.ErrNoChange) {
						return fmt.Errorf("migration steps: %w", err)
					}
					fmt.Printf("applied %d migration steps\n", n)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(g, func(m *migrate.Migrate) error {
					v, dirty, err := m.Version()
					if errors.Is(err, migrate.ErrNilVersion) {
						fmt.Println("version: none")
						return nil
					}
					if err != nil {
						return fmt.Errorf("get version: %w", err)
					}
					fmt.Printf("version: %d, dirty: %v\n", v, dirty)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "force <version>",
			Short: "Set the schema version without running migrations",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				v, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("%w: version %q", errUsage, args[0])
				}
				return withMigrator(g, func(m *migrate.Migrate) error {
					if err := m.Force(v); err != nil {
						return fmt.Errorf("force version: %w", err)
					}
					fmt.Printf("forced to version %d\n", v)
					return nil
				})
			},
		},
	)

	return cmd
}

// withMigrator connects to the database only; migrations need no blob
// storage.
func withMigrator(g *globals, fn func(*migrate.Migrate) error) error {
	cfg, err := config.LoadFile(g.configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	lc := lifecycle.New()
	logger := infrastructure.NewLogger().With("command", "migrate")

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return err
	}
	if err := db.Start(lc); err != nil {
		return err
	}
	lc.WaitForStartup()
	defer lc.Shutdown(cfg.ShutdownTimeoutDuration())

	if err := db.Err(); err != nil {
		return err
	}

	m, err := migrations.New(db.Connection())
	if err != nil {
		return err
	}

	return fn(m)
}
