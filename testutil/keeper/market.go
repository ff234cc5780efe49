package keeper

import (
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/oyster-market/oyster/app"
	"github.com/oyster-market/oyster/x/market/keeper"
	"github.com/oyster-market/oyster/x/market/types"
)

// MarketKeeper creates a test keeper for the market module on a fresh ledger
// with the default market configuration.
func MarketKeeper(t testing.TB) (*keeper.Keeper, sdk.Context, *app.Ledger) {
	t.Helper()
	ledger := SetupLedger(t)
	return ledger.MarketKeeper, ledger.Context(), ledger
}

// MarketAdmin returns the admin of the default market.
func MarketAdmin(t testing.TB, ledger *app.Ledger) string {
	t.Helper()
	market, err := ledger.MarketKeeper.GetMarket(ledger.Context())
	require.NoError(t, err)
	return market.Admin
}

// OpenTestJob funds owner with balance of the primary token and opens a job
// at rate for provider.
func OpenTestJob(t testing.TB, ledger *app.Ledger, owner, provider sdk.AccAddress, rate, balance uint64) uint64 {
	t.Helper()
	FundAccount(t, ledger, owner, types.DefaultTokenDenom, balance)
	jobIndex, err := ledger.MarketKeeper.JobOpen(ledger.Context(), owner, provider, "{\"region\":\"ap-south-1\"}", rate, balance)
	require.NoError(t, err)
	return jobIndex
}
