package keeper

import (
	"context"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/oyster-market/oyster/x/market/types"
	sharedkeeper "github.com/oyster-market/oyster/x/shared/keeper"
)

func requireMode(market types.Market, mode string) error {
	if market.RateRevisionMode != mode {
		return types.ErrWrongRevisionMode.Wrapf("market uses %q revisions, not %q", market.RateRevisionMode, mode)
	}
	return nil
}

func validateNewRate(job types.Job, newRate uint64) error {
	if newRate == 0 {
		return types.ErrInvalidRate.Wrap("new rate must be positive")
	}
	if newRate == job.Rate {
		return types.ErrInvalidRate.Wrapf("job %d already runs at rate %d", job.Index, newRate)
	}
	return nil
}

// JobReviseRate changes a job's rate at once. Usage so far is settled at the
// old rate, then the notice window is pre-paid at the higher of the two rates
// so neither side can profit from the change while it takes effect.
func (k Keeper) JobReviseRate(ctx context.Context, owner sdk.AccAddress, jobIndex, newRate uint64) error {
	market, err := k.GetMarket(ctx)
	if err != nil {
		return err
	}
	if err := requireMode(market, types.RevisionModeNotice); err != nil {
		return err
	}
	job, err := k.ownedJob(ctx, jobIndex, owner.String())
	if err != nil {
		return err
	}
	if err := validateNewRate(job, newRate); err != nil {
		return err
	}

	now := sharedkeeper.BlockTimeSeconds(ctx)
	deadline, err := noticeDeadline(now, market)
	if err != nil {
		return err
	}

	oldRate := job.Rate
	if err := k.mustSettle(ctx, market, &job, oldRate, now); err != nil {
		return err
	}

	job.Rate = newRate
	k.emitRateRevised(ctx, job.Index, oldRate, newRate)

	if err := k.mustSettle(ctx, market, &job, types.MaxRate(oldRate, newRate), deadline); err != nil {
		return err
	}

	if err := k.SetJob(ctx, job); err != nil {
		return err
	}

	k.recordMetrics(ctx, func(m *MarketMetrics) {
		m.RateRevisions.WithLabelValues(types.RevisionModeNotice, "revised").Inc()
	})
	return nil
}

// JobReviseRateInitiate stages newRate behind the rate lock of the job and
// returns the time from which it can be finalized.
func (k Keeper) JobReviseRateInitiate(ctx context.Context, owner sdk.AccAddress, jobIndex, newRate uint64) (uint64, error) {
	market, err := k.GetMarket(ctx)
	if err != nil {
		return 0, err
	}
	if err := requireMode(market, types.RevisionModeTimelock); err != nil {
		return 0, err
	}
	job, err := k.ownedJob(ctx, jobIndex, owner.String())
	if err != nil {
		return 0, err
	}
	if err := validateNewRate(job, newRate); err != nil {
		return 0, err
	}

	unlockTime, err := k.timelockKeeper.CreateLock(ctx, types.RateLockSelector, JobRateLockKey(job.Index), newRate)
	if err != nil {
		return 0, err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeJobReviseRateInitiated,
			sdk.NewAttribute(types.AttributeKeyJob, fmt.Sprintf("%d", job.Index)),
			sdk.NewAttribute(types.AttributeKeyNewRate, fmt.Sprintf("%d", newRate)),
			sdk.NewAttribute(types.AttributeKeyUnlockTime, fmt.Sprintf("%d", unlockTime)),
		),
	)

	k.recordMetrics(ctx, func(m *MarketMetrics) {
		m.RateRevisions.WithLabelValues(types.RevisionModeTimelock, "initiated").Inc()
	})
	return unlockTime, nil
}

// JobReviseRateCancel drops the staged rate change of a job.
func (k Keeper) JobReviseRateCancel(ctx context.Context, owner sdk.AccAddress, jobIndex uint64) error {
	market, err := k.GetMarket(ctx)
	if err != nil {
		return err
	}
	if err := requireMode(market, types.RevisionModeTimelock); err != nil {
		return err
	}
	job, err := k.ownedJob(ctx, jobIndex, owner.String())
	if err != nil {
		return err
	}

	if _, err := k.timelockKeeper.CancelLock(ctx, types.RateLockSelector, JobRateLockKey(job.Index)); err != nil {
		return err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeJobReviseRateCancelled,
			sdk.NewAttribute(types.AttributeKeyJob, fmt.Sprintf("%d", job.Index)),
		),
	)

	k.recordMetrics(ctx, func(m *MarketMetrics) {
		m.RateRevisions.WithLabelValues(types.RevisionModeTimelock, "cancelled").Inc()
	})
	return nil
}

// JobReviseRateFinalize applies a matured staged rate. Usage up to the block
// time is settled in full at the old rate before the new one takes over.
func (k Keeper) JobReviseRateFinalize(ctx context.Context, owner sdk.AccAddress, jobIndex uint64) (uint64, error) {
	market, err := k.GetMarket(ctx)
	if err != nil {
		return 0, err
	}
	if err := requireMode(market, types.RevisionModeTimelock); err != nil {
		return 0, err
	}
	job, err := k.ownedJob(ctx, jobIndex, owner.String())
	if err != nil {
		return 0, err
	}

	newRate, err := k.timelockKeeper.FinalizeLock(ctx, types.RateLockSelector, JobRateLockKey(job.Index))
	if err != nil {
		return 0, err
	}

	oldRate := job.Rate
	if err := k.mustSettle(ctx, market, &job, oldRate, sharedkeeper.BlockTimeSeconds(ctx)); err != nil {
		return 0, err
	}

	job.Rate = newRate
	if err := k.SetJob(ctx, job); err != nil {
		return 0, err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeJobReviseRateFinalized,
			sdk.NewAttribute(types.AttributeKeyJob, fmt.Sprintf("%d", job.Index)),
			sdk.NewAttribute(types.AttributeKeyOldRate, fmt.Sprintf("%d", oldRate)),
			sdk.NewAttribute(types.AttributeKeyNewRate, fmt.Sprintf("%d", newRate)),
		),
	)
	k.emitRateRevised(ctx, job.Index, oldRate, newRate)

	k.recordMetrics(ctx, func(m *MarketMetrics) {
		m.RateRevisions.WithLabelValues(types.RevisionModeTimelock, "finalized").Inc()
	})
	return newRate, nil
}

// PendingRevision returns the rate change staged for a job, if any.
func (k Keeper) PendingRevision(ctx context.Context, jobIndex uint64) (types.PendingRevision, bool) {
	newRate, unlockTime, found := k.timelockKeeper.PeekLock(ctx, types.RateLockSelector, JobRateLockKey(jobIndex))
	if !found {
		return types.PendingRevision{}, false
	}
	return types.PendingRevision{
		JobIndex:   jobIndex,
		NewRate:    newRate,
		UnlockTime: unlockTime,
	}, true
}

func (k Keeper) emitRateRevised(ctx context.Context, jobIndex, oldRate, newRate uint64) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeJobRateRevised,
			sdk.NewAttribute(types.AttributeKeyJob, fmt.Sprintf("%d", jobIndex)),
			sdk.NewAttribute(types.AttributeKeyOldRate, fmt.Sprintf("%d", oldRate)),
			sdk.NewAttribute(types.AttributeKeyNewRate, fmt.Sprintf("%d", newRate)),
		),
	)
	k.Logger(ctx).Info("job rate revised", "job", jobIndex, "old_rate", oldRate, "new_rate", newRate)
}
