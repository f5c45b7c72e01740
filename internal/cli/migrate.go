package cli

import (
	"fmt"

	"sealed-auction/internal/config"

	"github.com/spf13/cobra"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the SQL schema to the configured store",
		Long: `Creates the users, items and bids tables when they do not exist.
Safe to run repeatedly.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rootOpts.Config
			if cfg.Store == config.StoreMemory {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "memory store: nothing to migrate")
				return err
			}

			_, closeStore, err := openStore(cfg)
			if err != nil {
				return fmt.Errorf("migrate %s store: %w", cfg.Store, err)
			}
			if err := closeStore(); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s store schema is up to date\n", cfg.Store)
			return err
		},
	}
}
