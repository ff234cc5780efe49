package keeper

import (
	"context"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/oyster-market/oyster/x/market/types"
)

// Keeper of the market store
type Keeper struct {
	storeKey       storetypes.StoreKey
	bankKeeper     types.BankKeeper
	accountKeeper  types.AccountKeeper
	timelockKeeper types.TimelockKeeper

	metrics *MarketMetrics
}

type kvStoreProvider interface {
	KVStore(key storetypes.StoreKey) storetypes.KVStore
}

// NewKeeper creates a new market Keeper instance
func NewKeeper(
	key storetypes.StoreKey,
	bankKeeper types.BankKeeper,
	accountKeeper types.AccountKeeper,
	timelockKeeper types.TimelockKeeper,
) *Keeper {
	// the module account holds every job's escrow
	if addr := accountKeeper.GetModuleAddress(types.ModuleName); addr == nil {
		panic("the " + types.ModuleName + " module account has not been set")
	}

	return &Keeper{
		storeKey:       key,
		bankKeeper:     bankKeeper,
		accountKeeper:  accountKeeper,
		timelockKeeper: timelockKeeper,
		metrics:        NewMarketMetrics(),
	}
}

// Logger returns a module-specific logger.
func (k Keeper) Logger(ctx context.Context) log.Logger {
	return sdk.UnwrapSDKContext(ctx).Logger().With("module", "x/"+types.ModuleName)
}

// EscrowAddress returns the address of the account holding job escrow.
func (k Keeper) EscrowAddress() sdk.AccAddress {
	return k.accountKeeper.GetModuleAddress(types.ModuleName)
}

// getStore returns the KVStore for the market module
func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	if provider, ok := ctx.(kvStoreProvider); ok {
		return provider.KVStore(k.storeKey)
	}

	unwrapped := sdk.UnwrapSDKContext(ctx)
	return unwrapped.KVStore(k.storeKey)
}
