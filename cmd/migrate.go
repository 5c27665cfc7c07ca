package cmd

import (
	"fmt"
	"strconv"

	"gambler/wager-engine/database"

	"github.com/spf13/cobra"
	log "github.com/sirupsen/logrus"
)

func newMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	migrateCmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return database.MigrateUp(database.MigrationDatabaseURL())
			},
		},
		&cobra.Command{
			Use:   "down [steps]",
			Short: "Roll back migrations (default 1 step)",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				steps := 1
				if len(args) == 1 {
					n, err := strconv.Atoi(args[0])
					if err != nil || n <= 0 {
						return fmt.Errorf("invalid step count %q", args[0])
					}
					steps = n
				}
				return database.MigrateDown(database.MigrationDatabaseURL(), steps)
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Print the current schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				version, dirty, err := database.MigrateStatus(database.MigrationDatabaseURL())
				if err != nil {
					return err
				}
				log.WithFields(log.Fields{"version": version, "dirty": dirty}).Info("Migration status")
				fmt.Fprintf(cmd.OutOrStdout(), "version %d dirty %t\n", version, dirty)
				return nil
			},
		},
	)
	return migrateCmd
}
