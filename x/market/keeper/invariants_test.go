package keeper_test

import (
	"testing"
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	keepertest "github.com/oyster-market/oyster/testutil/keeper"
	"github.com/oyster-market/oyster/x/market/keeper"
	"github.com/oyster-market/oyster/x/market/types"
)

func TestInvariantsHoldThroughLifecycle(t *testing.T) {
	ledger := creditLedger(t)
	k := ledger.MarketKeeper
	keepertest.FundAccount(t, ledger, alice, credit, 250)

	first := keepertest.OpenTestJob(t, ledger, alice, bob, unitRate, 1000)
	second := keepertest.OpenTestJob(t, ledger, carol, bob, 3*unitRate, 5000)
	require.NoError(t, ledger.AssertInvariants())

	ledger.AdvanceTime(500 * time.Second)
	_, _, err := k.JobSettle(ledger.Context(), first)
	require.NoError(t, err)
	require.NoError(t, k.JobWithdraw(ledger.Context(), carol, second, 100))
	require.NoError(t, ledger.AssertInvariants())

	_, err = k.JobClose(ledger.Context(), alice, first)
	require.NoError(t, err)
	require.NoError(t, ledger.AssertInvariants())

	msg, broken := keeper.AllInvariants(*k)(ledger.Context())
	require.False(t, broken, msg)
}

func TestEscrowCoverageInvariantDetectsDrain(t *testing.T) {
	k, _, ledger := keepertest.MarketKeeper(t)
	keepertest.OpenTestJob(t, ledger, alice, bob, unitRate, 1000)

	ctx := ledger.Context()
	_, broken := keeper.EscrowCoverageInvariant(*k)(ctx)
	require.False(t, broken)

	drained := sdk.NewCoins(sdk.NewCoin(usdc, math.NewInt(1)))
	require.NoError(t, ledger.BankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, mallory, drained))

	msg, broken := keeper.EscrowCoverageInvariant(*k)(ctx)
	require.True(t, broken)
	require.Contains(t, msg, "escrow-coverage")
	require.Error(t, ledger.AssertInvariants())
}

func TestJobBalancesInvariant(t *testing.T) {
	k, ctx, _ := keepertest.MarketKeeper(t)

	job := types.Job{
		Index:         1,
		Owner:         alice.String(),
		Provider:      bob.String(),
		Rate:          unitRate,
		Balance:       10,
		CreditBalance: 5,
	}
	require.NoError(t, k.SetJob(ctx, job))

	// credit is held although the market has no credit denom
	msg, broken := keeper.JobBalancesInvariant(*k)(ctx)
	require.True(t, broken)
	require.Contains(t, msg, "credits are disabled")

	job.CreditBalance = 11
	require.NoError(t, k.SetJob(ctx, job))
	msg, broken = keeper.JobBalancesInvariant(*k)(ctx)
	require.True(t, broken)
	require.Contains(t, msg, "credit balance (11) > balance (10)")
}

func TestJobIndexInvariant(t *testing.T) {
	k, ctx, _ := keepertest.MarketKeeper(t)

	require.NoError(t, k.SetJob(ctx, types.Job{
		Index:    7,
		Owner:    alice.String(),
		Provider: bob.String(),
		Rate:     unitRate,
	}))

	msg, broken := keeper.JobIndexInvariant(*k)(ctx)
	require.True(t, broken)
	require.Contains(t, msg, "job 7")
}
