package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oyster-market/oyster/app"
)

// GenesisCmd groups the ledger genesis helpers.
func GenesisCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "genesis",
		Short: "Ledger genesis helpers",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "default",
			Short: "Print the default genesis of every ledger module",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				bz, err := json.MarshalIndent(app.NewDefaultGenesisState(), "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(bz))
				return err
			},
		},
		&cobra.Command{
			Use:   "validate [genesis-file]",
			Short: "Validate a ledger genesis file",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				bz, err := os.ReadFile(args[0])
				if err != nil {
					return err
				}

				var genesis app.GenesisState
				if err := json.Unmarshal(bz, &genesis); err != nil {
					return fmt.Errorf("failed to decode %s: %w", args[0], err)
				}
				if err := genesis.Validate(); err != nil {
					return err
				}

				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s is valid\n", args[0])
				return err
			},
		},
	)

	return cmd
}
