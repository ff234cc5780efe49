package keeper

import (
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/oyster-market/oyster/x/market/types"
)

// RegisterInvariants registers all market invariants
func RegisterInvariants(ir sdk.InvariantRegistry, k Keeper) {
	ir.RegisterRoute(types.ModuleName, "job-balances", JobBalancesInvariant(k))
	ir.RegisterRoute(types.ModuleName, "escrow-coverage", EscrowCoverageInvariant(k))
	ir.RegisterRoute(types.ModuleName, "job-index", JobIndexInvariant(k))
}

// AllInvariants runs all invariants of the market module
func AllInvariants(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		res, stop := JobBalancesInvariant(k)(ctx)
		if stop {
			return res, stop
		}

		res, stop = EscrowCoverageInvariant(k)(ctx)
		if stop {
			return res, stop
		}

		return JobIndexInvariant(k)(ctx)
	}
}

// JobBalancesInvariant checks that no job holds more credit than balance and
// that no credit is held while credits are disabled
func JobBalancesInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		market, err := k.GetMarket(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "job-balances", err.Error()), true
		}

		k.IterateJobs(ctx, func(job types.Job) bool {
			if job.CreditBalance > job.Balance {
				count++
				msg += fmt.Sprintf("job %d: credit balance (%d) > balance (%d)\n",
					job.Index, job.CreditBalance, job.Balance)
			}
			if !market.CreditsEnabled() && job.CreditBalance > 0 {
				count++
				msg += fmt.Sprintf("job %d: holds credit (%d) while credits are disabled\n",
					job.Index, job.CreditBalance)
			}
			return false
		})

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "job-balances",
			fmt.Sprintf("found %d jobs with inconsistent balances\n%s", count, msg),
		), broken
	}
}

// EscrowCoverageInvariant checks that the module account holds at least the
// escrow recorded across all jobs, per pool
func EscrowCoverageInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		market, err := k.GetMarket(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "escrow-coverage", err.Error()), true
		}

		primary := math.ZeroInt()
		credit := math.ZeroInt()
		k.IterateJobs(ctx, func(job types.Job) bool {
			primary = primary.Add(math.NewIntFromUint64(job.PrimaryBalance()))
			credit = credit.Add(math.NewIntFromUint64(job.CreditBalance))
			return false
		})

		moduleAddr := k.EscrowAddress()
		balance := k.bankKeeper.GetBalance(ctx, moduleAddr, market.TokenDenom)
		if balance.Amount.LT(primary) {
			count++
			msg += fmt.Sprintf("token %s: module balance (%s) < job escrow (%s)\n",
				market.TokenDenom, balance.Amount.String(), primary.String())
		}

		if market.CreditsEnabled() {
			balance := k.bankKeeper.GetBalance(ctx, moduleAddr, market.CreditDenom)
			if balance.Amount.LT(credit) {
				count++
				msg += fmt.Sprintf("credit %s: module balance (%s) < job escrow (%s)\n",
					market.CreditDenom, balance.Amount.String(), credit.String())
			}
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "escrow-coverage",
			fmt.Sprintf("found %d pools with insufficient module balance\n%s", count, msg),
		), broken
	}
}

// JobIndexInvariant checks that every job index was handed out by the counter
func JobIndexInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		market, err := k.GetMarket(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "job-index", err.Error()), true
		}

		k.IterateJobs(ctx, func(job types.Job) bool {
			if job.Index == 0 || job.Index > market.JobIndex {
				count++
				msg += fmt.Sprintf("job %d: index outside (0, %d]\n", job.Index, market.JobIndex)
			}
			return false
		})

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "job-index",
			fmt.Sprintf("found %d jobs with invalid index\n%s", count, msg),
		), broken
	}
}
