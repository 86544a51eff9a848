package cli

import (
	"fmt"

	"github.com/kutbudev/blog/pkg/config"
	"github.com/kutbudev/blog/pkg/repository"
	"github.com/spf13/cobra"
)

// NewMigrateCommand creates the command bringing the schema up to date.
func NewMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			// NewDatabase migrates on connect
			db, err := repository.NewDatabase(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date.")
			return nil
		},
	}

	return cmd
}
