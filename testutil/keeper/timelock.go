package keeper

import (
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/oyster-market/oyster/app"
	"github.com/oyster-market/oyster/x/timelock/keeper"
)

// TimelockKeeper creates a test keeper for the timelock module on a fresh ledger.
func TimelockKeeper(t testing.TB) (keeper.Keeper, sdk.Context, *app.Ledger) {
	t.Helper()
	ledger := SetupLedger(t)
	return ledger.TimelockKeeper, ledger.Context(), ledger
}
