package keeper

import (
	"context"
	"encoding/json"
	"fmt"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/oyster-market/oyster/x/market/types"
)

// GetCreditAllowance returns the credit allowance owner granted the market.
func (k Keeper) GetCreditAllowance(ctx context.Context, owner sdk.AccAddress) (types.CreditAllowance, bool) {
	bz := k.getStore(ctx).Get(CreditAllowanceKey(owner))
	if bz == nil {
		return types.CreditAllowance{}, false
	}

	var allowance types.CreditAllowance
	if err := json.Unmarshal(bz, &allowance); err != nil {
		panic(fmt.Errorf("corrupt credit allowance for %s: %w", owner, err))
	}
	return allowance, true
}

func (k Keeper) setCreditAllowance(ctx context.Context, owner sdk.AccAddress, limit uint64) error {
	bz, err := json.Marshal(&types.CreditAllowance{Owner: owner.String(), Limit: limit})
	if err != nil {
		return err
	}
	k.getStore(ctx).Set(CreditAllowanceKey(owner), bz)
	return nil
}

// SetCreditAllowance caps how much of owner's credit the market may draw on
// deposits. Without an allowance the whole spendable credit balance is usable.
func (k Keeper) SetCreditAllowance(ctx context.Context, owner sdk.AccAddress, limit uint64) error {
	if err := k.setCreditAllowance(ctx, owner, limit); err != nil {
		return err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeCreditAllowanceSet,
			sdk.NewAttribute(types.AttributeKeyOwner, owner.String()),
			sdk.NewAttribute(types.AttributeKeyLimit, fmt.Sprintf("%d", limit)),
		),
	)
	return nil
}

// IterateCreditAllowances calls cb for every stored allowance until cb returns true.
func (k Keeper) IterateCreditAllowances(ctx context.Context, cb func(types.CreditAllowance) (stop bool)) {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), CreditAllowanceKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var allowance types.CreditAllowance
		if err := json.Unmarshal(iterator.Value(), &allowance); err != nil {
			panic(fmt.Errorf("corrupt credit allowance at key %X: %w", iterator.Key(), err))
		}
		if cb(allowance) {
			break
		}
	}
}

// availableCredit is the credit a depositor can put into escrow: the
// spendable credit balance, capped by the allowance when one exists.
func (k Keeper) availableCredit(ctx context.Context, market types.Market, depositor sdk.AccAddress) uint64 {
	if !market.CreditsEnabled() {
		return 0
	}

	spendable := k.bankKeeper.SpendableCoin(ctx, depositor, market.CreditDenom).Amount
	available := saturateIntToUint64(spendable)

	if allowance, found := k.GetCreditAllowance(ctx, depositor); found {
		available = min(available, allowance.Limit)
	}
	return available
}

// depositFunds moves amount from depositor into escrow, credit first, and
// returns the credit-backed part.
func (k Keeper) depositFunds(ctx context.Context, market types.Market, depositor sdk.AccAddress, amount uint64) (uint64, error) {
	credit, primary := types.SplitCredit(amount, k.availableCredit(ctx, market, depositor), market.CreditsEnabled())

	if credit > 0 {
		coins := sdk.NewCoins(sdk.NewCoin(market.CreditDenom, math.NewIntFromUint64(credit)))
		if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, depositor, types.ModuleName, coins); err != nil {
			return 0, types.ErrTransferFailed.Wrapf("credit deposit: %s", err)
		}
		if allowance, found := k.GetCreditAllowance(ctx, depositor); found {
			if err := k.setCreditAllowance(ctx, depositor, allowance.Limit-credit); err != nil {
				return 0, err
			}
		}
	}

	if primary > 0 {
		coins := sdk.NewCoins(sdk.NewCoin(market.TokenDenom, math.NewIntFromUint64(primary)))
		if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, depositor, types.ModuleName, coins); err != nil {
			return 0, types.ErrInsufficientBalance.Wrapf("deposit of %d %s: %s", primary, market.TokenDenom, err)
		}
	}

	k.recordMetrics(ctx, func(m *MarketMetrics) {
		m.addByPool(m.DepositedAmount, credit, primary)
	})
	return credit, nil
}

// payFromJob moves amount out of a job's escrow to recipient, drawing on the
// job's credit balance first. The job record is updated but not stored.
func (k Keeper) payFromJob(ctx context.Context, market types.Market, job *types.Job, recipient sdk.AccAddress, amount uint64) (uint64, uint64, error) {
	if amount > job.Balance {
		return 0, 0, types.ErrInsufficientBalance.Wrapf("job %d holds %d, requested %d", job.Index, job.Balance, amount)
	}

	credit, primary := types.SplitCredit(amount, job.CreditBalance, market.CreditsEnabled())

	if credit > 0 {
		coins := sdk.NewCoins(sdk.NewCoin(market.CreditDenom, math.NewIntFromUint64(credit)))
		if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, recipient, coins); err != nil {
			return 0, 0, types.ErrTransferFailed.Wrapf("credit payout of job %d: %s", job.Index, err)
		}
	}
	if primary > 0 {
		coins := sdk.NewCoins(sdk.NewCoin(market.TokenDenom, math.NewIntFromUint64(primary)))
		if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, recipient, coins); err != nil {
			return 0, 0, types.ErrTransferFailed.Wrapf("payout of job %d: %s", job.Index, err)
		}
	}

	job.Balance -= amount
	job.CreditBalance -= credit
	return credit, primary, nil
}

func saturateIntToUint64(v math.Int) uint64 {
	if v.IsNegative() {
		return 0
	}
	if !v.IsUint64() {
		return ^uint64(0)
	}
	return v.Uint64()
}
