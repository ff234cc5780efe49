package keeper_test

import (
	"testing"
	"time"

	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	keepertest "github.com/oyster-market/oyster/testutil/keeper"
	"github.com/oyster-market/oyster/x/market/keeper"
	"github.com/oyster-market/oyster/x/market/types"
)

func TestMsgJobOpenIsAtomic(t *testing.T) {
	_, _, ledger := keepertest.MarketKeeper(t)
	ms := ledger.MarketMsgServer
	keepertest.FundAccount(t, ledger, alice, usdc, 100)

	// the counter is bumped before the deposit fails; the whole message rolls back
	_, err := ms.JobOpen(ledger.Context(), &types.MsgJobOpen{
		Owner: alice.String(), Provider: bob.String(), Rate: unitRate, Balance: 101,
	})
	require.ErrorIs(t, err, types.ErrInsufficientBalance)
	require.Contains(t, err.Error(), types.TypeMsgJobOpen)

	market, err := ledger.MarketKeeper.GetMarket(ledger.Context())
	require.NoError(t, err)
	require.Zero(t, market.JobIndex)

	resp, err := ms.JobOpen(ledger.Context(), &types.MsgJobOpen{
		Owner: alice.String(), Provider: bob.String(), Rate: unitRate, Balance: 100, Metadata: "{}",
	})
	require.NoError(t, err)
	require.Equal(t, uint64(1), resp.JobIndex)
}

func TestMsgJobOpenValidatesFirst(t *testing.T) {
	_, _, ledger := keepertest.MarketKeeper(t)

	_, err := ledger.MarketMsgServer.JobOpen(ledger.Context(), &types.MsgJobOpen{
		Owner: alice.String(), Provider: "not-bech32", Rate: unitRate, Balance: 1,
	})
	require.ErrorIs(t, err, types.ErrInvalidAddress)
}

func TestMsgJobLifecycle(t *testing.T) {
	_, _, ledger := keepertest.MarketKeeper(t)
	ms := ledger.MarketMsgServer
	keepertest.FundAccount(t, ledger, alice, usdc, 2000)

	opened, err := ms.JobOpen(ledger.Context(), &types.MsgJobOpen{
		Owner: alice.String(), Provider: bob.String(), Rate: unitRate, Balance: 1000,
	})
	require.NoError(t, err)

	ledger.AdvanceTime(10 * time.Second)
	settled, err := ms.JobSettle(ledger.Context(), &types.MsgJobSettle{Sender: carol.String(), JobIndex: opened.JobIndex})
	require.NoError(t, err)
	require.True(t, settled.FullyPaid)
	require.Equal(t, uint64(10), settled.Amount)

	_, err = ms.JobDeposit(ledger.Context(), &types.MsgJobDeposit{Sender: alice.String(), JobIndex: opened.JobIndex, Amount: 1000})
	require.NoError(t, err)

	_, err = ms.JobReviseRate(ledger.Context(), &types.MsgJobReviseRate{Owner: alice.String(), JobIndex: opened.JobIndex, NewRate: 2 * unitRate})
	require.NoError(t, err)

	closed, err := ms.JobClose(ledger.Context(), &types.MsgJobClose{Owner: alice.String(), JobIndex: opened.JobIndex})
	require.NoError(t, err)
	// 2000 deposited, 10 settled, 600 pre-paid by the revision
	require.Equal(t, uint64(2000-10-600), closed.Refunded)
	require.Equal(t, uint64(2000-10-600), balanceOf(ledger, alice, usdc))
}

func TestMsgAdminAndProviderHandlers(t *testing.T) {
	_, _, ledger := keepertest.MarketKeeper(t)
	ms := ledger.MarketMsgServer
	admin := keepertest.MarketAdmin(t, ledger)

	_, err := ms.UpdateNoticePeriod(ledger.Context(), &types.MsgUpdateNoticePeriod{Admin: mallory.String(), NoticePeriod: 1})
	require.ErrorIs(t, err, types.ErrUnauthorized)

	_, err = ms.UpdateRateRevisionMode(ledger.Context(), &types.MsgUpdateRateRevisionMode{Admin: admin, Mode: types.RevisionModeTimelock})
	require.NoError(t, err)
	_, err = ms.UpdateLockWaitTime(ledger.Context(), &types.MsgUpdateLockWaitTime{Admin: admin, Selector: types.RateLockSelector, WaitTime: 60})
	require.NoError(t, err)
	_, err = ms.UpdateCreditToken(ledger.Context(), &types.MsgUpdateCreditToken{Admin: admin, Denom: "ucredit"})
	require.NoError(t, err)
	_, err = ms.UpdateToken(ledger.Context(), &types.MsgUpdateToken{Admin: admin, Denom: "uatom"})
	require.NoError(t, err)
	_, err = ms.TransferAdmin(ledger.Context(), &types.MsgTransferAdmin{Admin: admin, NewAdmin: carol.String()})
	require.NoError(t, err)

	market, err := ledger.MarketKeeper.GetMarket(ledger.Context())
	require.NoError(t, err)
	require.Equal(t, types.Market{
		Admin:            carol.String(),
		TokenDenom:       "uatom",
		CreditDenom:      "ucredit",
		NoticePeriod:     types.DefaultNoticePeriod,
		RateRevisionMode: types.RevisionModeTimelock,
	}, market)
	require.Equal(t, uint64(60), ledger.TimelockKeeper.GetWaitTime(ledger.Context(), types.RateLockSelector))

	_, err = ms.ProviderAdd(ledger.Context(), &types.MsgProviderAdd{Provider: bob.String(), Cp: "https://cp.bob.example"})
	require.NoError(t, err)
	_, err = ms.ProviderUpdateWithCp(ledger.Context(), &types.MsgProviderUpdateWithCp{Provider: bob.String(), NewCp: "https://cp2.bob.example"})
	require.NoError(t, err)
	_, err = ms.ProviderRemove(ledger.Context(), &types.MsgProviderRemove{Provider: bob.String()})
	require.NoError(t, err)
	_, err = ms.ProviderRemove(ledger.Context(), &types.MsgProviderRemove{Provider: bob.String()})
	require.ErrorIs(t, err, types.ErrProviderNotFound)

	_, err = ms.SetCreditAllowance(ledger.Context(), &types.MsgSetCreditAllowance{Owner: alice.String(), Limit: 5})
	require.NoError(t, err)
	allowance, found := ledger.MarketKeeper.GetCreditAllowance(ledger.Context(), alice)
	require.True(t, found)
	require.Equal(t, uint64(5), allowance.Limit)
}

func TestMsgTimelockRevisionHandlers(t *testing.T) {
	ledger := timelockLedger(t, 60)
	ms := ledger.MarketMsgServer
	jobIndex := keepertest.OpenTestJob(t, ledger, alice, bob, unitRate, 1000)

	initiated, err := ms.JobReviseRateInitiate(ledger.Context(), &types.MsgJobReviseRateInitiate{
		Owner: alice.String(), JobIndex: jobIndex, NewRate: 2 * unitRate,
	})
	require.NoError(t, err)
	require.Equal(t, genesisSeconds()+60, initiated.UnlockTime)

	_, err = ms.JobReviseRateCancel(ledger.Context(), &types.MsgJobReviseRateCancel{Owner: alice.String(), JobIndex: jobIndex})
	require.NoError(t, err)

	_, err = ms.JobReviseRateInitiate(ledger.Context(), &types.MsgJobReviseRateInitiate{
		Owner: alice.String(), JobIndex: jobIndex, NewRate: 3 * unitRate,
	})
	require.NoError(t, err)

	ledger.AdvanceTime(time.Minute)
	finalized, err := ms.JobReviseRateFinalize(ledger.Context(), &types.MsgJobReviseRateFinalize{Owner: alice.String(), JobIndex: jobIndex})
	require.NoError(t, err)
	require.Equal(t, 3*unitRate, finalized.NewRate)
}

func TestMsgMetricsSkipRolledBackMessages(t *testing.T) {
	_, _, ledger := keepertest.MarketKeeper(t)
	ms := ledger.MarketMsgServer
	metrics := keeper.NewMarketMetrics()
	settled := metrics.SettledAmount.WithLabelValues("primary")

	jobIndex := keepertest.OpenTestJob(t, ledger, alice, bob, unitRate, 500)
	ledger.AdvanceTime(100 * time.Second)

	settledBefore := promtestutil.ToFloat64(settled)
	shortfallsBefore := promtestutil.ToFloat64(metrics.SettlementShortfall)

	// 100 settles at the old rate, then the notice window at the doubled rate
	// cannot be covered and the whole message rolls back
	_, err := ms.JobReviseRate(ledger.Context(), &types.MsgJobReviseRate{Owner: alice.String(), JobIndex: jobIndex, NewRate: 2 * unitRate})
	require.ErrorIs(t, err, types.ErrSettlementShortfall)
	require.Zero(t, balanceOf(ledger, bob, usdc))

	require.Equal(t, settledBefore, promtestutil.ToFloat64(settled))
	require.Equal(t, shortfallsBefore, promtestutil.ToFloat64(metrics.SettlementShortfall))

	_, err = ms.JobSettle(ledger.Context(), &types.MsgJobSettle{Sender: carol.String(), JobIndex: jobIndex})
	require.NoError(t, err)
	require.Equal(t, uint64(100), balanceOf(ledger, bob, usdc))
	require.Equal(t, settledBefore+100, promtestutil.ToFloat64(settled))
}
