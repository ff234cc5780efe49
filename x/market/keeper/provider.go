package keeper

import (
	"context"
	"encoding/json"
	"fmt"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/oyster-market/oyster/x/market/types"
)

// GetProvider returns the registration of a provider.
func (k Keeper) GetProvider(ctx context.Context, addr sdk.AccAddress) (types.Provider, error) {
	bz := k.getStore(ctx).Get(ProviderKey(addr))
	if bz == nil {
		return types.Provider{}, types.ErrProviderNotFound.Wrapf("provider %s", addr)
	}

	var provider types.Provider
	if err := json.Unmarshal(bz, &provider); err != nil {
		return types.Provider{}, fmt.Errorf("unmarshal provider %s: %w", addr, err)
	}
	return provider, nil
}

// SetProvider stores a provider registration.
func (k Keeper) SetProvider(ctx context.Context, provider types.Provider) error {
	addr, err := sdk.AccAddressFromBech32(provider.Address)
	if err != nil {
		return types.ErrInvalidAddress.Wrapf("provider %s: %s", provider.Address, err)
	}
	bz, err := json.Marshal(&provider)
	if err != nil {
		return err
	}
	k.getStore(ctx).Set(ProviderKey(addr), bz)
	return nil
}

// IterateProviders calls cb for every registered provider until cb returns true.
func (k Keeper) IterateProviders(ctx context.Context, cb func(types.Provider) (stop bool)) {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), ProviderKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var provider types.Provider
		if err := json.Unmarshal(iterator.Value(), &provider); err != nil {
			panic(fmt.Errorf("corrupt provider at key %X: %w", iterator.Key(), err))
		}
		if cb(provider) {
			break
		}
	}
}

// ProviderAdd registers addr with its control plane URL.
func (k Keeper) ProviderAdd(ctx context.Context, addr sdk.AccAddress, cp string) error {
	if k.getStore(ctx).Has(ProviderKey(addr)) {
		return types.ErrProviderAlreadyExists.Wrapf("provider %s", addr)
	}
	if err := types.ValidateControlPlaneURL(cp); err != nil {
		return err
	}

	if err := k.SetProvider(ctx, types.Provider{Address: addr.String(), Cp: cp}); err != nil {
		return err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeProviderAdded,
			sdk.NewAttribute(types.AttributeKeyProvider, addr.String()),
			sdk.NewAttribute(types.AttributeKeyCp, cp),
		),
	)
	return nil
}

// ProviderRemove unregisters addr. Jobs already running with it are unaffected.
func (k Keeper) ProviderRemove(ctx context.Context, addr sdk.AccAddress) error {
	store := k.getStore(ctx)
	if !store.Has(ProviderKey(addr)) {
		return types.ErrProviderNotFound.Wrapf("provider %s", addr)
	}
	store.Delete(ProviderKey(addr))

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeProviderRemoved,
			sdk.NewAttribute(types.AttributeKeyProvider, addr.String()),
		),
	)
	return nil
}

// ProviderUpdateWithCp replaces the control plane URL of a registered provider.
func (k Keeper) ProviderUpdateWithCp(ctx context.Context, addr sdk.AccAddress, newCp string) error {
	provider, err := k.GetProvider(ctx, addr)
	if err != nil {
		return err
	}
	if err := types.ValidateControlPlaneURL(newCp); err != nil {
		return err
	}

	provider.Cp = newCp
	if err := k.SetProvider(ctx, provider); err != nil {
		return err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeProviderUpdatedWithCp,
			sdk.NewAttribute(types.AttributeKeyProvider, addr.String()),
			sdk.NewAttribute(types.AttributeKeyCp, newCp),
		),
	)
	return nil
}
