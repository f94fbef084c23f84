package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"expensetracker/internal/config"
	"expensetracker/internal/db"
)

func newMigrateCommand(cfg *config.Config) *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the accounts and expenses tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer db.Close(gdb)

			if reset {
				if err := db.Reset(gdb); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Tables dropped")
			}
			if err := db.Migrate(gdb); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Schema up to date")
			return nil
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "drop existing tables first (destroys data)")

	return cmd
}
