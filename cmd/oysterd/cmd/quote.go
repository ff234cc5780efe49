package cmd

import (
	"fmt"
	"time"

	"cosmossdk.io/math"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	markettypes "github.com/oyster-market/oyster/x/market/types"
	sharedkeeper "github.com/oyster-market/oyster/x/shared/keeper"
)

const (
	flagRate     = "rate"
	flagDuration = "duration"
	flagBalance  = "balance"
)

// QuoteCmd prints the cost of running a job and how long a balance lasts.
func QuoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Quote the cost of a job at a given rate",
		Long: `Quote the amount a job at --rate (token units per second, scaled by 10^12)
owes after --duration, rounded up as settlement does. With --balance the
runway of that balance at the rate is printed as well.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v := configFromCmd(cmd)

			rate, err := cast.ToUint64E(v.Get(flagRate))
			if err != nil || rate == 0 {
				return fmt.Errorf("--%s must be a positive integer", flagRate)
			}
			duration, err := cast.ToDurationE(v.Get(flagDuration))
			if err != nil || duration < 0 {
				return fmt.Errorf("--%s must be a non-negative duration", flagDuration)
			}

			seconds := uint64(duration / time.Second)
			owed := markettypes.CalcAmountUsed(rate, seconds)
			fmt.Fprintf(cmd.OutOrStdout(), "rate=%d duration=%ds owed=%s\n", rate, seconds, owed)

			balance, err := cast.ToUint64E(v.Get(flagBalance))
			if err != nil {
				return fmt.Errorf("--%s must be an integer", flagBalance)
			}
			if balance > 0 {
				runway := runwaySeconds(rate, balance)
				fmt.Fprintf(cmd.OutOrStdout(), "balance=%d runway=%s\n", balance, sharedkeeper.SecondsToDuration(runway))
			}
			return nil
		},
	}

	cmd.Flags().Uint64(flagRate, 0, "job rate in token units per second scaled by 10^12")
	cmd.Flags().Duration(flagDuration, time.Hour, "usage duration")
	cmd.Flags().Uint64(flagBalance, 0, "optional job balance to compute runway for")
	return cmd
}

// runwaySeconds is the longest duration whose cost fits in balance.
func runwaySeconds(rate, balance uint64) uint64 {
	runway := math.NewIntFromUint64(balance).Mul(markettypes.RatePrecision).Quo(math.NewIntFromUint64(rate))
	if !runway.IsUint64() {
		return ^uint64(0)
	}
	return runway.Uint64()
}
