package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewSweepCommand creates the sweep command.
func NewSweepCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Finalize expired auctions once and exit",
		Long: `Runs a single finalization sweep against the configured store, waits for
the resulting notifications to be delivered and exits. Safe to run while a
server is sweeping the same store.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(rootOpts.Config)
			if err != nil {
				return err
			}
			defer a.close(context.WithoutCancel(cmd.Context()))

			result, err := a.service.Finalize.Sweep(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "scanned=%d finalized=%d skipped=%d failed=%d\n",
				result.Scanned, result.Finalized, result.Skipped, result.Failed)
			return err
		},
	}
}
