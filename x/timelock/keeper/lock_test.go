package keeper_test

import (
	"testing"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	keepertest "github.com/oyster-market/oyster/testutil/keeper"
	"github.com/oyster-market/oyster/x/timelock/types"
)

const testSelector = "RATE_LOCK"

var testKey = sdk.Uint64ToBigEndian(7)

func TestCreateLockUsesWaitTime(t *testing.T) {
	k, ctx, _ := keepertest.TimelockKeeper(t)
	require.NoError(t, k.SetWaitTime(ctx, testSelector, 600))

	now := uint64(keepertest.GenesisTime.Unix())
	unlockTime, err := k.CreateLock(ctx, testSelector, testKey, 42)
	require.NoError(t, err)
	require.Equal(t, now+600, unlockTime)

	value, gotUnlock, found := k.PeekLock(ctx, testSelector, testKey)
	require.True(t, found)
	require.Equal(t, uint64(42), value)
	require.Equal(t, unlockTime, gotUnlock)
}

func TestCreateLockRejectsDuplicate(t *testing.T) {
	k, ctx, _ := keepertest.TimelockKeeper(t)

	_, err := k.CreateLock(ctx, testSelector, testKey, 1)
	require.NoError(t, err)

	_, err = k.CreateLock(ctx, testSelector, testKey, 2)
	require.ErrorIs(t, err, types.ErrLockAlreadyExists)

	// a different key under the same selector is independent
	_, err = k.CreateLock(ctx, testSelector, sdk.Uint64ToBigEndian(8), 3)
	require.NoError(t, err)
}

func TestCreateLockValidatesAddressing(t *testing.T) {
	k, ctx, _ := keepertest.TimelockKeeper(t)

	_, err := k.CreateLock(ctx, "", testKey, 1)
	require.ErrorIs(t, err, types.ErrInvalidSelector)

	_, err = k.CreateLock(ctx, testSelector, nil, 1)
	require.ErrorIs(t, err, types.ErrInvalidKey)
}

func TestFinalizeLockWaitsForUnlockTime(t *testing.T) {
	k, _, ledger := keepertest.TimelockKeeper(t)
	require.NoError(t, k.SetWaitTime(ledger.Context(), testSelector, 100))

	_, err := k.CreateLock(ledger.Context(), testSelector, testKey, 99)
	require.NoError(t, err)

	ledger.AdvanceTime(99 * time.Second)
	_, err = k.FinalizeLock(ledger.Context(), testSelector, testKey)
	require.ErrorIs(t, err, types.ErrLockNotMature)
	require.True(t, k.HasLock(ledger.Context(), testSelector, testKey), "immature lock stays pending")

	ledger.AdvanceTime(time.Second)
	value, err := k.FinalizeLock(ledger.Context(), testSelector, testKey)
	require.NoError(t, err)
	require.Equal(t, uint64(99), value)
	require.False(t, k.HasLock(ledger.Context(), testSelector, testKey))

	_, err = k.FinalizeLock(ledger.Context(), testSelector, testKey)
	require.ErrorIs(t, err, types.ErrLockNotFound)
}

func TestFinalizeLockWithZeroWaitTime(t *testing.T) {
	k, ctx, _ := keepertest.TimelockKeeper(t)

	_, err := k.CreateLock(ctx, testSelector, testKey, 5)
	require.NoError(t, err)

	value, err := k.FinalizeLock(ctx, testSelector, testKey)
	require.NoError(t, err)
	require.Equal(t, uint64(5), value)
}

func TestCancelLock(t *testing.T) {
	k, ctx, _ := keepertest.TimelockKeeper(t)
	require.NoError(t, k.SetWaitTime(ctx, testSelector, 3600))

	_, err := k.CancelLock(ctx, testSelector, testKey)
	require.ErrorIs(t, err, types.ErrLockNotFound)

	_, err = k.CreateLock(ctx, testSelector, testKey, 11)
	require.NoError(t, err)

	// cancellation ignores maturity
	value, err := k.CancelLock(ctx, testSelector, testKey)
	require.NoError(t, err)
	require.Equal(t, uint64(11), value)
	require.False(t, k.HasLock(ctx, testSelector, testKey))

	// the key is free again
	_, err = k.CreateLock(ctx, testSelector, testKey, 12)
	require.NoError(t, err)
}

func TestCloneLockKeepsUnlockTime(t *testing.T) {
	k, _, ledger := keepertest.TimelockKeeper(t)
	require.NoError(t, k.SetWaitTime(ledger.Context(), testSelector, 500))

	unlockTime, err := k.CreateLock(ledger.Context(), testSelector, testKey, 77)
	require.NoError(t, err)

	ledger.AdvanceTime(200 * time.Second)
	toKey := sdk.Uint64ToBigEndian(9)
	require.NoError(t, k.CloneLock(ledger.Context(), testSelector, testKey, toKey))

	value, cloneUnlock, found := k.PeekLock(ledger.Context(), testSelector, toKey)
	require.True(t, found)
	require.Equal(t, uint64(77), value)
	require.Equal(t, unlockTime, cloneUnlock)

	err = k.CloneLock(ledger.Context(), testSelector, testKey, toKey)
	require.ErrorIs(t, err, types.ErrLockAlreadyExists)

	err = k.CloneLock(ledger.Context(), testSelector, sdk.Uint64ToBigEndian(1000), sdk.Uint64ToBigEndian(1001))
	require.ErrorIs(t, err, types.ErrLockNotFound)
}

func TestSetWaitTimeKeepsPendingLocks(t *testing.T) {
	k, ctx, _ := keepertest.TimelockKeeper(t)
	require.Zero(t, k.GetWaitTime(ctx, testSelector))

	require.NoError(t, k.SetWaitTime(ctx, testSelector, 100))
	unlockTime, err := k.CreateLock(ctx, testSelector, testKey, 1)
	require.NoError(t, err)

	require.NoError(t, k.SetWaitTime(ctx, testSelector, 10_000))
	require.Equal(t, uint64(10_000), k.GetWaitTime(ctx, testSelector))

	_, pendingUnlock, found := k.PeekLock(ctx, testSelector, testKey)
	require.True(t, found)
	require.Equal(t, unlockTime, pendingUnlock)

	// selectors are independent
	require.Zero(t, k.GetWaitTime(ctx, "OTHER"))
}

func TestLockEvents(t *testing.T) {
	k, ctx, _ := keepertest.TimelockKeeper(t)

	_, err := k.CreateLock(ctx, testSelector, testKey, 3)
	require.NoError(t, err)
	_, err = k.CancelLock(ctx, testSelector, testKey)
	require.NoError(t, err)

	var created, deleted int
	for _, ev := range ctx.EventManager().Events() {
		switch ev.Type {
		case types.EventTypeLockCreated:
			created++
		case types.EventTypeLockDeleted:
			deleted++
			require.Equal(t, types.DeleteReasonCancelled, attribute(ev, types.AttributeKeyReason))
		}
	}
	require.Equal(t, 1, created)
	require.Equal(t, 1, deleted)
}

func attribute(ev sdk.Event, key string) string {
	for _, attr := range ev.Attributes {
		if attr.Key == key {
			return attr.Value
		}
	}
	return ""
}
