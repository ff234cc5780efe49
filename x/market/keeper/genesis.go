package keeper

import (
	"context"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/oyster-market/oyster/x/market/types"
)

// InitGenesis initializes the market module's state from a genesis state
func (k Keeper) InitGenesis(ctx context.Context, genState types.GenesisState) error {
	if err := genState.Validate(); err != nil {
		return err
	}

	if err := k.SetMarket(ctx, genState.Market); err != nil {
		return fmt.Errorf("failed to set market: %w", err)
	}

	for _, job := range genState.Jobs {
		if err := k.SetJob(ctx, job); err != nil {
			return fmt.Errorf("failed to set job %d: %w", job.Index, err)
		}
		if err := k.indexJob(ctx, job); err != nil {
			return fmt.Errorf("failed to index job %d: %w", job.Index, err)
		}
	}

	for _, provider := range genState.Providers {
		if err := k.SetProvider(ctx, provider); err != nil {
			return fmt.Errorf("failed to set provider %s: %w", provider.Address, err)
		}
	}

	for _, allowance := range genState.CreditAllowances {
		owner, err := sdk.AccAddressFromBech32(allowance.Owner)
		if err != nil {
			return fmt.Errorf("invalid credit allowance owner %s: %w", allowance.Owner, err)
		}
		if err := k.setCreditAllowance(ctx, owner, allowance.Limit); err != nil {
			return fmt.Errorf("failed to set credit allowance of %s: %w", allowance.Owner, err)
		}
	}

	if len(genState.Jobs) > 0 {
		k.metrics.OpenJobs.Add(float64(len(genState.Jobs)))
	}

	return nil
}

// ExportGenesis exports the market module's state
func (k Keeper) ExportGenesis(ctx context.Context) (*types.GenesisState, error) {
	market, err := k.GetMarket(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get market: %w", err)
	}

	genState := types.DefaultGenesis()
	genState.Market = market

	k.IterateJobs(ctx, func(job types.Job) bool {
		genState.Jobs = append(genState.Jobs, job)
		return false
	})
	k.IterateProviders(ctx, func(provider types.Provider) bool {
		genState.Providers = append(genState.Providers, provider)
		return false
	})
	k.IterateCreditAllowances(ctx, func(allowance types.CreditAllowance) bool {
		genState.CreditAllowances = append(genState.CreditAllowances, allowance)
		return false
	})

	return genState, nil
}
