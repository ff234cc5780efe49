package keeper_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oyster-market/oyster/app"
	keepertest "github.com/oyster-market/oyster/testutil/keeper"
	"github.com/oyster-market/oyster/x/market/keeper"
	"github.com/oyster-market/oyster/x/market/types"
	timelocktypes "github.com/oyster-market/oyster/x/timelock/types"
)

func TestJobReviseRateNoticeIncrease(t *testing.T) {
	k, _, ledger := keepertest.MarketKeeper(t)
	jobIndex := keepertest.OpenTestJob(t, ledger, alice, bob, unitRate, 10_000)

	ledger.AdvanceTime(100 * time.Second)
	require.NoError(t, k.JobReviseRate(ledger.Context(), alice, jobIndex, 2*unitRate))

	// 100 at the old rate, then the notice window at the new, higher rate
	job, err := k.GetJob(ledger.Context(), jobIndex)
	require.NoError(t, err)
	require.Equal(t, 2*unitRate, job.Rate)
	require.Equal(t, uint64(700), balanceOf(ledger, bob, usdc))
	require.Equal(t, uint64(9300), job.Balance)
	require.Equal(t, genesisSeconds()+400, job.LastSettled)

	ledger.AdvanceTime(400 * time.Second)
	_, amount, err := k.JobSettle(ledger.Context(), jobIndex)
	require.NoError(t, err)
	require.Equal(t, uint64(200), amount, "100s past the window at the new rate")
}

func TestJobReviseRateNoticeDecrease(t *testing.T) {
	k, _, ledger := keepertest.MarketKeeper(t)
	jobIndex := keepertest.OpenTestJob(t, ledger, alice, bob, 2*unitRate, 10_000)

	ledger.AdvanceTime(100 * time.Second)
	require.NoError(t, k.JobReviseRate(ledger.Context(), alice, jobIndex, unitRate))

	// the window is still billed at the old, higher rate
	require.Equal(t, uint64(200+600), balanceOf(ledger, bob, usdc))

	job, err := k.GetJob(ledger.Context(), jobIndex)
	require.NoError(t, err)
	require.Equal(t, unitRate, job.Rate)
}

func TestJobReviseRateValidation(t *testing.T) {
	k, _, ledger := keepertest.MarketKeeper(t)
	jobIndex := keepertest.OpenTestJob(t, ledger, alice, bob, unitRate, 10_000)

	require.ErrorIs(t, k.JobReviseRate(ledger.Context(), alice, jobIndex, unitRate), types.ErrInvalidRate)
	require.ErrorIs(t, k.JobReviseRate(ledger.Context(), alice, jobIndex, 0), types.ErrInvalidRate)
	require.ErrorIs(t, k.JobReviseRate(ledger.Context(), mallory, jobIndex, 2*unitRate), types.ErrUnauthorized)
	require.ErrorIs(t, k.JobReviseRate(ledger.Context(), alice, 77, 2*unitRate), types.ErrJobNotFound)

	_, err := k.JobReviseRateInitiate(ledger.Context(), alice, jobIndex, 2*unitRate)
	require.ErrorIs(t, err, types.ErrWrongRevisionMode)
	require.ErrorIs(t, k.JobReviseRateCancel(ledger.Context(), alice, jobIndex), types.ErrWrongRevisionMode)
	_, err = k.JobReviseRateFinalize(ledger.Context(), alice, jobIndex)
	require.ErrorIs(t, err, types.ErrWrongRevisionMode)
}

func TestJobReviseRateShortfallRollsBack(t *testing.T) {
	_, _, ledger := keepertest.MarketKeeper(t)
	jobIndex := keepertest.OpenTestJob(t, ledger, alice, bob, unitRate, 500)

	ledger.AdvanceTime(100 * time.Second)
	_, err := ledger.MarketMsgServer.JobReviseRate(ledger.Context(), &types.MsgJobReviseRate{
		Owner: alice.String(), JobIndex: jobIndex, NewRate: 2 * unitRate,
	})
	require.ErrorIs(t, err, types.ErrSettlementShortfall)
	require.Contains(t, err.Error(), types.TypeMsgJobReviseRate)

	job, err := ledger.MarketKeeper.GetJob(ledger.Context(), jobIndex)
	require.NoError(t, err)
	require.Equal(t, unitRate, job.Rate)
	require.Equal(t, uint64(500), job.Balance)
	require.Equal(t, genesisSeconds(), job.LastSettled)
	require.Zero(t, balanceOf(ledger, bob, usdc))
}

// timelockLedger returns a ledger whose market revises rates through a
// timelock of waitTime seconds.
func timelockLedger(t *testing.T, waitTime uint64) *app.Ledger {
	t.Helper()
	_, ctx, ledger := keepertest.MarketKeeper(t)
	admin := keepertest.MarketAdmin(t, ledger)

	require.NoError(t, ledger.MarketKeeper.UpdateRateRevisionMode(ctx, admin, types.RevisionModeTimelock))
	require.NoError(t, ledger.MarketKeeper.UpdateLockWaitTime(ctx, admin, types.RateLockSelector, waitTime))
	return ledger
}

func TestJobReviseRateTimelock(t *testing.T) {
	ledger := timelockLedger(t, 600)
	k := ledger.MarketKeeper
	jobIndex := keepertest.OpenTestJob(t, ledger, alice, bob, unitRate, 10_000)

	require.ErrorIs(t, k.JobReviseRate(ledger.Context(), alice, jobIndex, 2*unitRate), types.ErrWrongRevisionMode)

	unlockTime, err := k.JobReviseRateInitiate(ledger.Context(), alice, jobIndex, 2*unitRate)
	require.NoError(t, err)
	require.Equal(t, genesisSeconds()+600, unlockTime)

	revision, found := k.PendingRevision(ledger.Context(), jobIndex)
	require.True(t, found)
	require.Equal(t, types.PendingRevision{JobIndex: jobIndex, NewRate: 2 * unitRate, UnlockTime: unlockTime}, revision)

	_, err = k.JobReviseRateInitiate(ledger.Context(), alice, jobIndex, 3*unitRate)
	require.ErrorIs(t, err, timelocktypes.ErrLockAlreadyExists)

	ledger.AdvanceTime(599 * time.Second)
	_, err = k.JobReviseRateFinalize(ledger.Context(), alice, jobIndex)
	require.ErrorIs(t, err, timelocktypes.ErrLockNotMature)

	ledger.AdvanceTime(time.Second)
	_, err = k.JobReviseRateFinalize(ledger.Context(), mallory, jobIndex)
	require.ErrorIs(t, err, types.ErrUnauthorized)

	newRate, err := k.JobReviseRateFinalize(ledger.Context(), alice, jobIndex)
	require.NoError(t, err)
	require.Equal(t, 2*unitRate, newRate)

	// the whole wait ran at the old rate
	job, err := k.GetJob(ledger.Context(), jobIndex)
	require.NoError(t, err)
	require.Equal(t, 2*unitRate, job.Rate)
	require.Equal(t, uint64(600), balanceOf(ledger, bob, usdc))
	require.Equal(t, genesisSeconds()+600, job.LastSettled)

	_, found = k.PendingRevision(ledger.Context(), jobIndex)
	require.False(t, found)

	_, err = k.JobReviseRateFinalize(ledger.Context(), alice, jobIndex)
	require.ErrorIs(t, err, timelocktypes.ErrLockNotFound)
}

func TestJobReviseRateTimelockCancel(t *testing.T) {
	ledger := timelockLedger(t, 600)
	k := ledger.MarketKeeper
	jobIndex := keepertest.OpenTestJob(t, ledger, alice, bob, unitRate, 10_000)

	require.ErrorIs(t, k.JobReviseRateCancel(ledger.Context(), alice, jobIndex), timelocktypes.ErrLockNotFound)

	_, err := k.JobReviseRateInitiate(ledger.Context(), alice, jobIndex, 2*unitRate)
	require.NoError(t, err)
	require.ErrorIs(t, k.JobReviseRateCancel(ledger.Context(), mallory, jobIndex), types.ErrUnauthorized)
	require.NoError(t, k.JobReviseRateCancel(ledger.Context(), alice, jobIndex))

	_, found := k.PendingRevision(ledger.Context(), jobIndex)
	require.False(t, found)

	ledger.AdvanceTime(time.Hour)
	_, err = k.JobReviseRateFinalize(ledger.Context(), alice, jobIndex)
	require.ErrorIs(t, err, timelocktypes.ErrLockNotFound)

	job, err := k.GetJob(ledger.Context(), jobIndex)
	require.NoError(t, err)
	require.Equal(t, unitRate, job.Rate)
}

func TestJobCloseDropsPendingRevision(t *testing.T) {
	ledger := timelockLedger(t, 600)
	k := ledger.MarketKeeper
	jobIndex := keepertest.OpenTestJob(t, ledger, alice, bob, unitRate, 10_000)

	_, err := k.JobReviseRateInitiate(ledger.Context(), alice, jobIndex, 2*unitRate)
	require.NoError(t, err)

	_, err = k.JobClose(ledger.Context(), alice, jobIndex)
	require.NoError(t, err)

	_, found := k.PendingRevision(ledger.Context(), jobIndex)
	require.False(t, found)
	require.False(t, ledger.TimelockKeeper.HasLock(ledger.Context(), types.RateLockSelector, keeper.JobRateLockKey(jobIndex)))
}

func TestJobReviseRateFinalizeShortfall(t *testing.T) {
	ledger := timelockLedger(t, 600)
	k := ledger.MarketKeeper
	jobIndex := keepertest.OpenTestJob(t, ledger, alice, bob, unitRate, 300)

	_, err := k.JobReviseRateInitiate(ledger.Context(), alice, jobIndex, 2*unitRate)
	require.NoError(t, err)

	ledger.AdvanceTime(600 * time.Second)
	_, err = ledger.MarketMsgServer.JobReviseRateFinalize(ledger.Context(), &types.MsgJobReviseRateFinalize{
		Owner: alice.String(), JobIndex: jobIndex,
	})
	require.ErrorIs(t, err, types.ErrSettlementShortfall)

	// the lock survives a failed finalization
	_, found := k.PendingRevision(ledger.Context(), jobIndex)
	require.True(t, found)
}
