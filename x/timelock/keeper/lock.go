package keeper

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	sharedkeeper "github.com/oyster-market/oyster/x/shared/keeper"
	"github.com/oyster-market/oyster/x/timelock/types"
)

// GetLock returns the pending lock stored under (selector, key).
func (k Keeper) GetLock(ctx context.Context, selector string, key []byte) (types.Lock, bool) {
	bz := k.getStore(ctx).Get(LockKey(selector, key))
	if bz == nil {
		return types.Lock{}, false
	}

	var lock types.Lock
	if err := json.Unmarshal(bz, &lock); err != nil {
		panic(fmt.Errorf("corrupt lock %s: %w", types.LockID(selector, key), err))
	}
	return lock, true
}

// HasLock reports whether a lock is pending under (selector, key).
func (k Keeper) HasLock(ctx context.Context, selector string, key []byte) bool {
	return k.getStore(ctx).Has(LockKey(selector, key))
}

// PeekLock returns the value and unlock time of a pending lock.
func (k Keeper) PeekLock(ctx context.Context, selector string, key []byte) (uint64, uint64, bool) {
	lock, found := k.GetLock(ctx, selector, key)
	if !found {
		return 0, 0, false
	}
	return lock.Value, lock.UnlockTime, true
}

// setLock stores a lock record.
func (k Keeper) setLock(ctx context.Context, lock types.Lock) error {
	bz, err := json.Marshal(&lock)
	if err != nil {
		return err
	}
	k.getStore(ctx).Set(LockKey(lock.Selector, lock.Key), bz)
	return nil
}

// GetWaitTime returns the wait time configured for selector, zero when unset.
func (k Keeper) GetWaitTime(ctx context.Context, selector string) uint64 {
	bz := k.getStore(ctx).Get(WaitTimeKey(selector))
	if len(bz) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(bz)
}

// SetWaitTime changes the wait time applied to locks of selector created
// from now on. Pending locks keep their unlock time.
func (k Keeper) SetWaitTime(ctx context.Context, selector string, waitTime uint64) error {
	if err := types.ValidateSelector(selector); err != nil {
		return err
	}

	prev := k.GetWaitTime(ctx, selector)

	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, waitTime)
	k.getStore(ctx).Set(WaitTimeKey(selector), bz)

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeLockWaitTimeUpdated,
			sdk.NewAttribute(types.AttributeKeySelector, selector),
			sdk.NewAttribute(types.AttributeKeyPrevWaitTime, fmt.Sprintf("%d", prev)),
			sdk.NewAttribute(types.AttributeKeyUpdatedWaitTime, fmt.Sprintf("%d", waitTime)),
		),
	)

	k.Logger(ctx).Info("lock wait time updated", "selector", selector, "prev", prev, "updated", waitTime)
	return nil
}

// CreateLock stages value under (selector, key). At most one lock may be
// pending per key; the unlock time is now plus the selector's wait time.
func (k Keeper) CreateLock(ctx context.Context, selector string, key []byte, value uint64) (uint64, error) {
	if err := types.ValidateSelector(selector); err != nil {
		return 0, err
	}
	if err := types.ValidateLockKey(key); err != nil {
		return 0, err
	}
	if k.HasLock(ctx, selector, key) {
		return 0, types.ErrLockAlreadyExists.Wrapf("lock %s is pending", types.LockID(selector, key))
	}

	now := sharedkeeper.BlockTimeSeconds(ctx)
	wait := k.GetWaitTime(ctx, selector)
	if wait > math.MaxUint64-now {
		return 0, types.ErrUnlockTimeOverflow.Wrapf("now %d + wait time %d", now, wait)
	}

	lock := types.Lock{
		Selector:   selector,
		Key:        append([]byte(nil), key...),
		UnlockTime: now + wait,
		Value:      value,
	}
	if err := k.setLock(ctx, lock); err != nil {
		return 0, fmt.Errorf("failed to store lock: %w", err)
	}

	k.emitLockCreated(ctx, lock)
	return lock.UnlockTime, nil
}

// CancelLock destroys a pending lock without checking maturity and returns
// its value.
func (k Keeper) CancelLock(ctx context.Context, selector string, key []byte) (uint64, error) {
	lock, found := k.GetLock(ctx, selector, key)
	if !found {
		return 0, types.ErrLockNotFound.Wrapf("lock %s", types.LockID(selector, key))
	}

	k.deleteLock(ctx, lock, types.DeleteReasonCancelled)
	return lock.Value, nil
}

// FinalizeLock consumes a matured lock and returns its value. An immature
// lock stays pending.
func (k Keeper) FinalizeLock(ctx context.Context, selector string, key []byte) (uint64, error) {
	lock, found := k.GetLock(ctx, selector, key)
	if !found {
		return 0, types.ErrLockNotFound.Wrapf("lock %s", types.LockID(selector, key))
	}

	now := sharedkeeper.BlockTimeSeconds(ctx)
	if !lock.IsMature(now) {
		return 0, types.ErrLockNotMature.Wrapf("lock %s unlocks at %d, now %d", types.LockID(selector, key), lock.UnlockTime, now)
	}

	k.deleteLock(ctx, lock, types.DeleteReasonFinalized)
	return lock.Value, nil
}

// CloneLock copies the pending lock under fromKey to toKey, keeping its
// unlock time and value.
func (k Keeper) CloneLock(ctx context.Context, selector string, fromKey, toKey []byte) error {
	if err := types.ValidateLockKey(toKey); err != nil {
		return err
	}

	src, found := k.GetLock(ctx, selector, fromKey)
	if !found {
		return types.ErrLockNotFound.Wrapf("lock %s", types.LockID(selector, fromKey))
	}
	if k.HasLock(ctx, selector, toKey) {
		return types.ErrLockAlreadyExists.Wrapf("lock %s is pending", types.LockID(selector, toKey))
	}

	clone := types.Lock{
		Selector:   selector,
		Key:        append([]byte(nil), toKey...),
		UnlockTime: src.UnlockTime,
		Value:      src.Value,
	}
	if err := k.setLock(ctx, clone); err != nil {
		return fmt.Errorf("failed to store lock: %w", err)
	}

	k.emitLockCreated(ctx, clone)
	return nil
}

// IterateLocks calls cb for every pending lock until cb returns true.
func (k Keeper) IterateLocks(ctx context.Context, cb func(lock types.Lock) (stop bool)) {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), LockKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var lock types.Lock
		if err := json.Unmarshal(iterator.Value(), &lock); err != nil {
			panic(fmt.Errorf("corrupt lock at key %X: %w", iterator.Key(), err))
		}
		if cb(lock) {
			break
		}
	}
}

// IterateWaitTimes calls cb for every configured wait time until cb returns true.
func (k Keeper) IterateWaitTimes(ctx context.Context, cb func(wt types.WaitTime) (stop bool)) {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), WaitTimeKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		wt := types.WaitTime{
			Selector: string(iterator.Key()[len(WaitTimeKeyPrefix):]),
		}
		if bz := iterator.Value(); len(bz) == 8 {
			wt.WaitTime = binary.BigEndian.Uint64(bz)
		}
		if cb(wt) {
			break
		}
	}
}

func (k Keeper) deleteLock(ctx context.Context, lock types.Lock, reason string) {
	k.getStore(ctx).Delete(LockKey(lock.Selector, lock.Key))

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeLockDeleted,
			sdk.NewAttribute(types.AttributeKeySelector, lock.Selector),
			sdk.NewAttribute(types.AttributeKeyKey, hex.EncodeToString(lock.Key)),
			sdk.NewAttribute(types.AttributeKeyValue, fmt.Sprintf("%d", lock.Value)),
			sdk.NewAttribute(types.AttributeKeyReason, reason),
		),
	)

	k.Logger(ctx).Debug("lock deleted", "lock", types.LockID(lock.Selector, lock.Key), "reason", reason)
}

func (k Keeper) emitLockCreated(ctx context.Context, lock types.Lock) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeLockCreated,
			sdk.NewAttribute(types.AttributeKeySelector, lock.Selector),
			sdk.NewAttribute(types.AttributeKeyKey, hex.EncodeToString(lock.Key)),
			sdk.NewAttribute(types.AttributeKeyValue, fmt.Sprintf("%d", lock.Value)),
			sdk.NewAttribute(types.AttributeKeyUnlockTime, fmt.Sprintf("%d", lock.UnlockTime)),
		),
	)

	k.Logger(ctx).Debug("lock created", "lock", types.LockID(lock.Selector, lock.Key), "unlock_time", lock.UnlockTime)
}
