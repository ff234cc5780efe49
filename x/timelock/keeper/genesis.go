package keeper

import (
	"context"
	"fmt"

	"github.com/oyster-market/oyster/x/timelock/types"
)

// InitGenesis initializes the timelock module's state from a genesis state.
func (k Keeper) InitGenesis(ctx context.Context, gs types.GenesisState) error {
	for _, wt := range gs.WaitTimes {
		if err := k.SetWaitTime(ctx, wt.Selector, wt.WaitTime); err != nil {
			return fmt.Errorf("failed to set wait time for %s: %w", wt.Selector, err)
		}
	}

	for _, lock := range gs.Locks {
		if err := lock.Validate(); err != nil {
			return err
		}
		if err := k.setLock(ctx, lock); err != nil {
			return fmt.Errorf("failed to import lock %s: %w", types.LockID(lock.Selector, lock.Key), err)
		}
	}

	return nil
}

// ExportGenesis exports the timelock module's state.
func (k Keeper) ExportGenesis(ctx context.Context) *types.GenesisState {
	gs := types.DefaultGenesis()

	k.IterateWaitTimes(ctx, func(wt types.WaitTime) bool {
		gs.WaitTimes = append(gs.WaitTimes, wt)
		return false
	})
	k.IterateLocks(ctx, func(lock types.Lock) bool {
		gs.Locks = append(gs.Locks, lock)
		return false
	})

	return gs
}
