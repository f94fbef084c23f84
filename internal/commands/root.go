package commands

import (
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"expensetracker/internal/config"
	"expensetracker/internal/db"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
// Database settings default to the server's environment configuration.
func NewRootCommand() *cobra.Command {
	cfg := config.Load()

	rootCmd := &cobra.Command{
		Use:   "expense-admin",
		Short: "Operate the expense tracker store",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfg.DBDriver, "driver", cfg.DBDriver, "database driver (mysql, postgres, sqlite)")
	rootCmd.PersistentFlags().StringVar(&cfg.DBDSN, "dsn", cfg.DBDSN, "database DSN")

	rootCmd.AddCommand(newMigrateCommand(cfg))
	rootCmd.AddCommand(newUserCommand(cfg))

	return rootCmd
}

func openStore(cfg *config.Config) (*gorm.DB, error) {
	return db.Open(db.Options{
		Driver:         cfg.DBDriver,
		DSN:            cfg.DBDSN,
		MaxOpenConns:   1,
		MaxIdleConns:   1,
		ConnectTimeout: cfg.DBConnectTimeout,
	})
}
