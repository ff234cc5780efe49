package keeper

import (
	"context"
	"encoding/json"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/oyster-market/oyster/x/market/types"
	sharedkeeper "github.com/oyster-market/oyster/x/shared/keeper"
)

// GetMarket returns the market configuration.
func (k Keeper) GetMarket(ctx context.Context) (types.Market, error) {
	bz := k.getStore(ctx).Get(MarketKey)
	if bz == nil {
		return types.Market{}, types.ErrMarketNotFound
	}

	var market types.Market
	if err := json.Unmarshal(bz, &market); err != nil {
		return types.Market{}, fmt.Errorf("unmarshal market: %w", err)
	}
	return market, nil
}

// SetMarket stores the market configuration.
func (k Keeper) SetMarket(ctx context.Context, market types.Market) error {
	bz, err := json.Marshal(&market)
	if err != nil {
		return err
	}
	k.getStore(ctx).Set(MarketKey, bz)
	return nil
}

// nextJobIndex advances the job counter and returns the new value. The first
// job gets index 1 and indices are never reused.
func (k Keeper) nextJobIndex(ctx context.Context, market *types.Market) (uint64, error) {
	if market.JobIndex == ^uint64(0) {
		return 0, types.ErrJobAlreadyExists.Wrap("job index space exhausted")
	}
	market.JobIndex++
	if err := k.SetMarket(ctx, *market); err != nil {
		return 0, err
	}
	return market.JobIndex, nil
}

// adminMarket loads the market and checks that signer is its admin.
func (k Keeper) adminMarket(ctx context.Context, signer string) (types.Market, error) {
	market, err := k.GetMarket(ctx)
	if err != nil {
		return types.Market{}, err
	}
	if err := sharedkeeper.ValidateSigner("market admin", market.Admin, signer, types.ErrUnauthorized); err != nil {
		return types.Market{}, err
	}
	return market, nil
}

// HasOpenJobs reports whether any job record exists.
func (k Keeper) HasOpenJobs(ctx context.Context) bool {
	found := false
	k.IterateJobs(ctx, func(types.Job) bool {
		found = true
		return true
	})
	return found
}

func (k Keeper) emitMarketUpdate(ctx context.Context, eventType, oldValue, newValue string) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			eventType,
			sdk.NewAttribute(types.AttributeKeyOld, oldValue),
			sdk.NewAttribute(types.AttributeKeyNew, newValue),
		),
	)
	k.Logger(ctx).Info("market updated", "event", eventType, "old", oldValue, "new", newValue)
}

// UpdateToken replaces the primary denom. Escrow is held in the current denoms,
// so the change is refused while jobs are open.
func (k Keeper) UpdateToken(ctx context.Context, admin, denom string) error {
	market, err := k.adminMarket(ctx, admin)
	if err != nil {
		return err
	}
	if err := sdk.ValidateDenom(denom); err != nil {
		return types.ErrInvalidDenom.Wrap(err.Error())
	}
	if denom == market.CreditDenom {
		return types.ErrInvalidDenom.Wrap("token denom must differ from credit denom")
	}
	if k.HasOpenJobs(ctx) {
		return types.ErrMarketHasOpenJobs.Wrap("cannot change token denom")
	}

	old := market.TokenDenom
	market.TokenDenom = denom
	if err := k.SetMarket(ctx, market); err != nil {
		return err
	}

	k.emitMarketUpdate(ctx, types.EventTypeTokenUpdated, old, denom)
	return nil
}

// UpdateCreditToken replaces the credit denom; an empty denom disables credits.
func (k Keeper) UpdateCreditToken(ctx context.Context, admin, denom string) error {
	market, err := k.adminMarket(ctx, admin)
	if err != nil {
		return err
	}
	if denom != "" {
		if err := sdk.ValidateDenom(denom); err != nil {
			return types.ErrInvalidDenom.Wrap(err.Error())
		}
		if denom == market.TokenDenom {
			return types.ErrInvalidDenom.Wrap("credit denom must differ from token denom")
		}
	}
	if k.HasOpenJobs(ctx) {
		return types.ErrMarketHasOpenJobs.Wrap("cannot change credit denom")
	}

	old := market.CreditDenom
	market.CreditDenom = denom
	if err := k.SetMarket(ctx, market); err != nil {
		return err
	}

	k.emitMarketUpdate(ctx, types.EventTypeCreditTokenUpdated, old, denom)
	return nil
}

// UpdateNoticePeriod changes the notice window applied by rate revisions,
// withdrawals and closes from now on.
func (k Keeper) UpdateNoticePeriod(ctx context.Context, admin string, noticePeriod uint64) error {
	market, err := k.adminMarket(ctx, admin)
	if err != nil {
		return err
	}

	old := market.NoticePeriod
	market.NoticePeriod = noticePeriod
	if err := k.SetMarket(ctx, market); err != nil {
		return err
	}

	k.emitMarketUpdate(ctx, types.EventTypeNoticePeriodUpdated, fmt.Sprintf("%d", old), fmt.Sprintf("%d", noticePeriod))
	return nil
}

// UpdateRateRevisionMode switches between notice and timelock revisions.
func (k Keeper) UpdateRateRevisionMode(ctx context.Context, admin, mode string) error {
	market, err := k.adminMarket(ctx, admin)
	if err != nil {
		return err
	}
	if err := types.ValidateRevisionMode(mode); err != nil {
		return err
	}

	old := market.RateRevisionMode
	market.RateRevisionMode = mode
	if err := k.SetMarket(ctx, market); err != nil {
		return err
	}

	k.emitMarketUpdate(ctx, types.EventTypeRateRevisionModeUpdated, old, mode)
	return nil
}

// UpdateLockWaitTime changes the timelock wait time of selector.
func (k Keeper) UpdateLockWaitTime(ctx context.Context, admin, selector string, waitTime uint64) error {
	if _, err := k.adminMarket(ctx, admin); err != nil {
		return err
	}
	return k.timelockKeeper.SetWaitTime(ctx, selector, waitTime)
}

// TransferAdmin hands market administration to newAdmin.
func (k Keeper) TransferAdmin(ctx context.Context, admin, newAdmin string) error {
	market, err := k.adminMarket(ctx, admin)
	if err != nil {
		return err
	}
	if _, err := sdk.AccAddressFromBech32(newAdmin); err != nil {
		return types.ErrInvalidAddress.Wrapf("invalid new admin address: %s", err)
	}

	market.Admin = newAdmin
	if err := k.SetMarket(ctx, market); err != nil {
		return err
	}

	k.emitMarketUpdate(ctx, types.EventTypeAdminTransferred, admin, newAdmin)
	return nil
}
