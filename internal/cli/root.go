package cli

import (
	"fmt"

	"sealed-auction/internal/config"
	"sealed-auction/utils"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags and the resolved configuration for all commands.
type RootOptions struct {
	Store string
	Port  int

	Config config.Config
}

// NewRootCommand creates the root command for the auction service.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "sealed-auction",
		Short: "Timed sealed-range auctions over chat",
		Long: `Runs timed auctions where every bid must fall inside the creator's sealed
range and beat the current highest bid. Expired auctions are closed by a
background sweep that notifies the winner and the creator.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Store, "store", "", "store backend (memory|sqlite|mysql), overrides AUCTION_STORE")
	cmd.PersistentFlags().IntVar(&opts.Port, "port", 0, "HTTP port, overrides PORT")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewSweepCommand(opts))

	return cmd
}

// resolve loads the environment, applies flag overrides and validates the result
func (o *RootOptions) resolve(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("store") {
		cfg.Store = o.Store
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = o.Port
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := utils.SetLevel(cfg.LogLevel); err != nil {
		return err
	}
	o.Config = cfg
	return nil
}
