package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/laborguard/complaint-service/internal/infrastructure/database/postgres"
)

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	cmd.AddCommand(
		newMigrateUpCommand(opts),
		newMigrateDownCommand(opts),
		newMigrateVersionCommand(opts),
	)
	return cmd
}

// withMigrator loads the configuration, connects to the database, and hands
// a ready Migrator to fn.  The connection is closed before returning.
func withMigrator(opts *rootOptions, fn func(*postgres.Migrator) error) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	conn, err := postgres.NewConnection(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer conn.Close()

	migrator, err := postgres.NewMigrator(conn.DB(), cfg.Database.MigrationsPath, log)
	if err != nil {
		return err
	}
	return fn(migrator)
}

func newMigrateUpCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(opts, func(m *postgres.Migrator) error {
				if err := m.Up(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
				return nil
			})
		},
	}
}

func newMigrateDownCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(opts, func(m *postgres.Migrator) error {
				if err := m.Down(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "rolled back one migration")
				return nil
			})
		},
	}
}

func newMigrateVersionCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(opts, func(m *postgres.Migrator) error {
				version, dirty, err := m.Version()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version: %d dirty: %v\n", version, dirty)
				return nil
			})
		},
	}
}
