package main

import (
	"fmt"

	"github.com/eaglebank/finance/internal/repository"
	"github.com/eaglebank/finance/migrations"
	"github.com/spf13/cobra"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or revert the database schema",
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd, opts, true)
		},
	})
	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Revert all migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd, opts, false)
		},
	})

	return migrateCmd
}

func runMigrate(cmd *cobra.Command, opts *rootOptions, up bool) error {
	dbCfg := opts.cfg.Database
	if dbCfg.Driver == "memory" {
		return fmt.Errorf("nothing to migrate for the memory driver")
	}

	db, err := repository.Open(dbCfg.Driver, dbCfg.URL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repository.Migrate(db, migrations.FS, up); err != nil {
		return err
	}

	direction := "up"
	if !up {
		direction = "down"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "migrations %s: done (%s)\n", direction, dbCfg.Driver)
	return nil
}
