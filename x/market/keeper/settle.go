package keeper

import (
	"context"
	"fmt"
	"math"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/oyster-market/oyster/x/market/types"
	sharedkeeper "github.com/oyster-market/oyster/x/shared/keeper"
)

// settleJob pays the provider for usage between job.LastSettled and
// settleTill at rate and advances the watermark to settleTill. Payment is
// capped at the job balance; the returned flag is false when the balance did
// not cover usage. The caller stores the job.
//
// settleTill below the watermark is a caller bug and panics.
func (k Keeper) settleJob(ctx context.Context, market types.Market, job *types.Job, rate, settleTill uint64) (bool, uint64, error) {
	if settleTill == job.LastSettled {
		return true, 0, nil
	}
	if settleTill < job.LastSettled {
		panic(fmt.Sprintf("settle job %d: settle till %d before last settled %d", job.Index, settleTill, job.LastSettled))
	}

	used := types.CalcAmountUsed(rate, settleTill-job.LastSettled)
	settleAmount := job.Balance
	if used.LT(sdkmath.NewIntFromUint64(job.Balance)) {
		settleAmount = used.Uint64()
	}

	provider, err := sdk.AccAddressFromBech32(job.Provider)
	if err != nil {
		return false, 0, types.ErrInvalidAddress.Wrapf("job %d provider: %s", job.Index, err)
	}

	credit, primary, err := k.payFromJob(ctx, market, job, provider, settleAmount)
	if err != nil {
		return false, 0, err
	}
	job.LastSettled = settleTill

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeJobSettled,
			sdk.NewAttribute(types.AttributeKeyJob, fmt.Sprintf("%d", job.Index)),
			sdk.NewAttribute(types.AttributeKeyAmount, fmt.Sprintf("%d", settleAmount)),
			sdk.NewAttribute(types.AttributeKeyCreditAmount, fmt.Sprintf("%d", credit)),
			sdk.NewAttribute(types.AttributeKeyTimestamp, fmt.Sprintf("%d", settleTill)),
		),
	)

	k.recordMetrics(ctx, func(m *MarketMetrics) {
		m.addByPool(m.SettledAmount, credit, primary)
	})

	fullyPaid := used.LTE(sdkmath.NewIntFromUint64(settleAmount))
	if !fullyPaid {
		k.recordMetrics(ctx, func(m *MarketMetrics) {
			m.SettlementShortfall.Inc()
		})
		k.Logger(ctx).Info("job settlement shortfall",
			"job", job.Index, "used", used.String(), "paid", settleAmount)
	}
	return fullyPaid, settleAmount, nil
}

// settleUpTo settles at rate up to till when till lies past the watermark.
// Jobs pre-paid beyond till are left alone.
func (k Keeper) settleUpTo(ctx context.Context, market types.Market, job *types.Job, rate, till uint64) (bool, uint64, error) {
	if till <= job.LastSettled {
		return true, 0, nil
	}
	return k.settleJob(ctx, market, job, rate, till)
}

// settleToNow settles at the job's current rate up to the block time.
func (k Keeper) settleToNow(ctx context.Context, market types.Market, job *types.Job) (bool, uint64, error) {
	return k.settleUpTo(ctx, market, job, job.Rate, sharedkeeper.BlockTimeSeconds(ctx))
}

// mustSettle settles at rate up to till and fails on a shortfall.
func (k Keeper) mustSettle(ctx context.Context, market types.Market, job *types.Job, rate, till uint64) error {
	fullyPaid, _, err := k.settleUpTo(ctx, market, job, rate, till)
	if err != nil {
		return err
	}
	if !fullyPaid {
		return types.ErrSettlementShortfall.Wrapf("job %d cannot cover usage at rate %d up to %d", job.Index, rate, till)
	}
	return nil
}

// noticeDeadline returns now plus the notice period.
func noticeDeadline(now uint64, market types.Market) (uint64, error) {
	if market.NoticePeriod > math.MaxUint64-now {
		return 0, types.ErrTimestampOverflow.Wrapf("notice deadline: now %d, notice %d", now, market.NoticePeriod)
	}
	return now + market.NoticePeriod, nil
}

// PendingSettlement returns what JobSettle would pay at the current block
// time and whether the balance covers it, without touching state.
func (k Keeper) PendingSettlement(ctx context.Context, jobIndex uint64) (amount, creditAmount uint64, fullyCovered bool, err error) {
	market, err := k.GetMarket(ctx)
	if err != nil {
		return 0, 0, false, err
	}
	job, err := k.GetJob(ctx, jobIndex)
	if err != nil {
		return 0, 0, false, err
	}

	now := sharedkeeper.BlockTimeSeconds(ctx)
	if now <= job.LastSettled {
		return 0, 0, true, nil
	}

	used := types.CalcAmountUsed(job.Rate, now-job.LastSettled)
	amount = job.Balance
	if used.LT(sdkmath.NewIntFromUint64(job.Balance)) {
		amount = used.Uint64()
	}
	creditAmount, _ = types.SplitCredit(amount, job.CreditBalance, market.CreditsEnabled())
	return amount, creditAmount, used.LTE(sdkmath.NewIntFromUint64(amount)), nil
}
