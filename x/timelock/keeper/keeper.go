package keeper

import (
	"context"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	sharedkeeper "github.com/oyster-market/oyster/x/shared/keeper"
	"github.com/oyster-market/oyster/x/timelock/types"
)

var _ sharedkeeper.TimelockKeeperV1Extended = Keeper{}

// Keeper of the timelock store
type Keeper struct {
	storeKey  storetypes.StoreKey
	authority string
}

type kvStoreProvider interface {
	KVStore(key storetypes.StoreKey) storetypes.KVStore
}

// NewKeeper creates a new timelock Keeper instance. authority is the account
// allowed to change wait times through MsgUpdateWaitTime.
func NewKeeper(key storetypes.StoreKey, authority string) Keeper {
	return Keeper{
		storeKey:  key,
		authority: authority,
	}
}

// GetAuthority returns the module's authority.
func (k Keeper) GetAuthority() string {
	return k.authority
}

// Logger returns a module-specific logger.
func (k Keeper) Logger(ctx context.Context) log.Logger {
	return sdk.UnwrapSDKContext(ctx).Logger().With("module", "x/"+types.ModuleName)
}

// getStore returns the KVStore for the timelock module
func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	if provider, ok := ctx.(kvStoreProvider); ok {
		return provider.KVStore(k.storeKey)
	}

	unwrapped := sdk.UnwrapSDKContext(ctx)
	return unwrapped.KVStore(k.storeKey)
}
