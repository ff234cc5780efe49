package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

const flagMetricsAddr = "metrics-addr"

// SimulateCmd replays a scenario file against an in-memory ledger.
func SimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate [scenario-file]",
		Short: "Replay a job scenario against an in-memory ledger",
		Long: `Replay a YAML scenario of job operations against a fresh in-memory ledger.
Each step is printed as a JSON line. Module invariants are checked after every
step and the run stops at the first broken one.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v := configFromCmd(cmd)

			logger, err := newLogger(v)
			if err != nil {
				return err
			}
			logger = logger.With("run", uuid.NewString())

			scenario, err := LoadScenario(args[0])
			if err != nil {
				return err
			}

			runner, err := NewRunner(logger, scenario)
			if err != nil {
				return err
			}

			addr := v.GetString(flagMetricsAddr)
			if addr != "" {
				StartPrometheusServer(logger, addr)
			}

			results, runErr := runner.Run()
			if err := WriteResults(cmd.OutOrStdout(), results); err != nil {
				return err
			}
			if runErr != nil {
				return runErr
			}

			if addr == "" {
				return nil
			}

			logger.Info("scenario finished; serving metrics until interrupted", "addr", addr)
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			<-ctx.Done()
			return nil
		},
	}

	cmd.Flags().String(flagMetricsAddr, "", fmt.Sprintf("serve Prometheus metrics on this address (e.g. %s)", defaultMetricsAddr))
	return cmd
}
