package keeper

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/oyster-market/oyster/x/market/types"
	sharedkeeper "github.com/oyster-market/oyster/x/shared/keeper"
)

// GetJob returns the job stored under jobIndex.
func (k Keeper) GetJob(ctx context.Context, jobIndex uint64) (types.Job, error) {
	bz := k.getStore(ctx).Get(JobKey(jobIndex))
	if bz == nil {
		return types.Job{}, types.ErrJobNotFound.Wrapf("job %d", jobIndex)
	}

	var job types.Job
	if err := json.Unmarshal(bz, &job); err != nil {
		return types.Job{}, fmt.Errorf("unmarshal job %d: %w", jobIndex, err)
	}
	return job, nil
}

// HasJob reports whether a job is stored under jobIndex.
func (k Keeper) HasJob(ctx context.Context, jobIndex uint64) bool {
	return k.getStore(ctx).Has(JobKey(jobIndex))
}

// SetJob stores a job record.
func (k Keeper) SetJob(ctx context.Context, job types.Job) error {
	bz, err := json.Marshal(&job)
	if err != nil {
		return err
	}
	k.getStore(ctx).Set(JobKey(job.Index), bz)
	return nil
}

// indexJob writes the owner and provider index entries of a job.
func (k Keeper) indexJob(ctx context.Context, job types.Job) error {
	owner, err := sdk.AccAddressFromBech32(job.Owner)
	if err != nil {
		return types.ErrInvalidAddress.Wrapf("job %d owner: %s", job.Index, err)
	}
	provider, err := sdk.AccAddressFromBech32(job.Provider)
	if err != nil {
		return types.ErrInvalidAddress.Wrapf("job %d provider: %s", job.Index, err)
	}

	store := k.getStore(ctx)
	store.Set(JobByOwnerKey(owner, job.Index), []byte{})
	store.Set(JobByProviderKey(provider, job.Index), []byte{})
	return nil
}

// removeJob deletes a job and its index entries.
func (k Keeper) removeJob(ctx context.Context, job types.Job) {
	store := k.getStore(ctx)
	store.Delete(JobKey(job.Index))
	if owner, err := sdk.AccAddressFromBech32(job.Owner); err == nil {
		store.Delete(JobByOwnerKey(owner, job.Index))
	}
	if provider, err := sdk.AccAddressFromBech32(job.Provider); err == nil {
		store.Delete(JobByProviderKey(provider, job.Index))
	}
}

// IterateJobs calls cb for every job in index order until cb returns true.
func (k Keeper) IterateJobs(ctx context.Context, cb func(types.Job) (stop bool)) {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), JobKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var job types.Job
		if err := json.Unmarshal(iterator.Value(), &job); err != nil {
			panic(fmt.Errorf("corrupt job at key %X: %w", iterator.Key(), err))
		}
		if cb(job) {
			break
		}
	}
}

// ownedJob loads a job and checks that signer owns it.
func (k Keeper) ownedJob(ctx context.Context, jobIndex uint64, signer string) (types.Job, error) {
	job, err := k.GetJob(ctx, jobIndex)
	if err != nil {
		return types.Job{}, err
	}
	if err := sharedkeeper.ValidateSigner("job owner", job.Owner, signer, types.ErrUnauthorized); err != nil {
		return types.Job{}, err
	}
	return job, nil
}

// JobOpen opens a job between owner and provider funded with balance and
// returns its index. The provider does not need to be registered.
func (k Keeper) JobOpen(ctx context.Context, owner, provider sdk.AccAddress, metadata string, rate, balance uint64) (uint64, error) {
	if rate == 0 {
		return 0, types.ErrInvalidRate.Wrap("rate must be positive")
	}
	if balance == 0 {
		return 0, types.ErrInvalidAmount.Wrap("initial balance must be positive")
	}
	if err := types.ValidateMetadata(metadata); err != nil {
		return 0, err
	}

	market, err := k.GetMarket(ctx)
	if err != nil {
		return 0, err
	}

	jobIndex, err := k.nextJobIndex(ctx, &market)
	if err != nil {
		return 0, err
	}
	if k.HasJob(ctx, jobIndex) {
		return 0, types.ErrJobAlreadyExists.Wrapf("job %d", jobIndex)
	}

	credit, err := k.depositFunds(ctx, market, owner, balance)
	if err != nil {
		return 0, err
	}

	job := types.Job{
		Index:         jobIndex,
		Metadata:      metadata,
		Owner:         owner.String(),
		Provider:      provider.String(),
		Rate:          rate,
		Balance:       balance,
		CreditBalance: credit,
		LastSettled:   sharedkeeper.BlockTimeSeconds(ctx),
	}
	if err := k.SetJob(ctx, job); err != nil {
		return 0, fmt.Errorf("failed to store job: %w", err)
	}
	if err := k.indexJob(ctx, job); err != nil {
		return 0, err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeJobOpened,
			sdk.NewAttribute(types.AttributeKeyJob, fmt.Sprintf("%d", job.Index)),
			sdk.NewAttribute(types.AttributeKeyOwner, job.Owner),
			sdk.NewAttribute(types.AttributeKeyProvider, job.Provider),
			sdk.NewAttribute(types.AttributeKeyMetadata, job.Metadata),
			sdk.NewAttribute(types.AttributeKeyRate, fmt.Sprintf("%d", job.Rate)),
			sdk.NewAttribute(types.AttributeKeyBalance, fmt.Sprintf("%d", job.Balance)),
			sdk.NewAttribute(types.AttributeKeyCreditAmount, fmt.Sprintf("%d", credit)),
			sdk.NewAttribute(types.AttributeKeyTimestamp, fmt.Sprintf("%d", job.LastSettled)),
		),
	)

	k.recordMetrics(ctx, func(m *MarketMetrics) {
		m.JobsOpened.Inc()
		m.OpenJobs.Inc()
	})
	k.Logger(ctx).Info("job opened", "job", job.Index, "owner", job.Owner, "provider", job.Provider, "rate", rate, "balance", balance)

	return jobIndex, nil
}

// JobSettle pays the provider for usage up to the block time. A shortfall is
// reported through the returned flag, not as an error.
func (k Keeper) JobSettle(ctx context.Context, jobIndex uint64) (bool, uint64, error) {
	market, err := k.GetMarket(ctx)
	if err != nil {
		return false, 0, err
	}
	job, err := k.GetJob(ctx, jobIndex)
	if err != nil {
		return false, 0, err
	}

	fullyPaid, amount, err := k.settleToNow(ctx, market, &job)
	if err != nil {
		return false, 0, err
	}
	if err := k.SetJob(ctx, job); err != nil {
		return false, 0, err
	}
	return fullyPaid, amount, nil
}

// JobDeposit adds amount from sender to a job after settling it to the block
// time. Anyone may deposit. A deposit only grows the balance, so unlike
// withdraw and close it does not pre-settle the notice window.
func (k Keeper) JobDeposit(ctx context.Context, sender sdk.AccAddress, jobIndex, amount uint64) error {
	if amount == 0 {
		return types.ErrInvalidAmount.Wrap("deposit amount must be positive")
	}

	market, err := k.GetMarket(ctx)
	if err != nil {
		return err
	}
	job, err := k.GetJob(ctx, jobIndex)
	if err != nil {
		return err
	}

	if err := k.mustSettle(ctx, market, &job, job.Rate, sharedkeeper.BlockTimeSeconds(ctx)); err != nil {
		return err
	}

	if amount > math.MaxUint64-job.Balance {
		return types.ErrBalanceOverflow.Wrapf("job %d balance %d + deposit %d", job.Index, job.Balance, amount)
	}

	credit, err := k.depositFunds(ctx, market, sender, amount)
	if err != nil {
		return err
	}
	job.Balance += amount
	job.CreditBalance += credit

	if err := k.SetJob(ctx, job); err != nil {
		return err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeJobDeposited,
			sdk.NewAttribute(types.AttributeKeyJob, fmt.Sprintf("%d", job.Index)),
			sdk.NewAttribute(types.AttributeKeySender, sender.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, fmt.Sprintf("%d", amount)),
			sdk.NewAttribute(types.AttributeKeyCreditAmount, fmt.Sprintf("%d", credit)),
		),
	)
	return nil
}

// JobWithdraw pays amount back to the owner. The job is settled to the block
// time and pre-settled through the notice window first, both in full.
func (k Keeper) JobWithdraw(ctx context.Context, owner sdk.AccAddress, jobIndex, amount uint64) error {
	if amount == 0 {
		return types.ErrInvalidAmount.Wrap("withdrawal amount must be positive")
	}

	market, err := k.GetMarket(ctx)
	if err != nil {
		return err
	}
	job, err := k.ownedJob(ctx, jobIndex, owner.String())
	if err != nil {
		return err
	}

	now := sharedkeeper.BlockTimeSeconds(ctx)
	deadline, err := noticeDeadline(now, market)
	if err != nil {
		return err
	}
	if err := k.mustSettle(ctx, market, &job, job.Rate, now); err != nil {
		return err
	}
	if err := k.mustSettle(ctx, market, &job, job.Rate, deadline); err != nil {
		return err
	}

	if amount > job.Balance {
		return types.ErrInsufficientBalance.Wrapf("job %d holds %d after notice settlement, requested %d", job.Index, job.Balance, amount)
	}

	credit, primary, err := k.payFromJob(ctx, market, &job, owner, amount)
	if err != nil {
		return err
	}
	if err := k.SetJob(ctx, job); err != nil {
		return err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeJobWithdrew,
			sdk.NewAttribute(types.AttributeKeyJob, fmt.Sprintf("%d", job.Index)),
			sdk.NewAttribute(types.AttributeKeyOwner, job.Owner),
			sdk.NewAttribute(types.AttributeKeyAmount, fmt.Sprintf("%d", amount)),
			sdk.NewAttribute(types.AttributeKeyCreditAmount, fmt.Sprintf("%d", credit)),
		),
	)

	k.recordMetrics(ctx, func(m *MarketMetrics) {
		m.addByPool(m.WithdrawnAmount, credit, primary)
	})
	return nil
}

// JobClose settles a job through the notice window, refunds what is left to
// the owner, drops any staged rate change and deletes the job. Shortfalls
// do not block closing.
func (k Keeper) JobClose(ctx context.Context, owner sdk.AccAddress, jobIndex uint64) (uint64, error) {
	market, err := k.GetMarket(ctx)
	if err != nil {
		return 0, err
	}
	job, err := k.ownedJob(ctx, jobIndex, owner.String())
	if err != nil {
		return 0, err
	}

	now := sharedkeeper.BlockTimeSeconds(ctx)
	deadline, err := noticeDeadline(now, market)
	if err != nil {
		return 0, err
	}
	if _, _, err := k.settleUpTo(ctx, market, &job, job.Rate, now); err != nil {
		return 0, err
	}
	if _, _, err := k.settleUpTo(ctx, market, &job, job.Rate, deadline); err != nil {
		return 0, err
	}

	refund := job.Balance
	credit, primary, err := k.payFromJob(ctx, market, &job, owner, refund)
	if err != nil {
		return 0, err
	}

	if _, _, pending := k.timelockKeeper.PeekLock(ctx, types.RateLockSelector, JobRateLockKey(job.Index)); pending {
		if _, err := k.timelockKeeper.CancelLock(ctx, types.RateLockSelector, JobRateLockKey(job.Index)); err != nil {
			return 0, err
		}
	}

	k.removeJob(ctx, job)

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeJobClosed,
			sdk.NewAttribute(types.AttributeKeyJob, fmt.Sprintf("%d", job.Index)),
			sdk.NewAttribute(types.AttributeKeyOwner, job.Owner),
			sdk.NewAttribute(types.AttributeKeyAmount, fmt.Sprintf("%d", refund)),
			sdk.NewAttribute(types.AttributeKeyCreditAmount, fmt.Sprintf("%d", credit)),
		),
	)

	k.recordMetrics(ctx, func(m *MarketMetrics) {
		m.addByPool(m.RefundedAmount, credit, primary)
		m.JobsClosed.Inc()
		m.OpenJobs.Dec()
	})
	k.Logger(ctx).Info("job closed", "job", job.Index, "refunded", refund)

	return refund, nil
}
