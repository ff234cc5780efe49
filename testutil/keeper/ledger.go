package keeper

import (
	"testing"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/oyster-market/oyster/app"
)

// GenesisTime is the block time every test ledger starts at.
var GenesisTime = time.Unix(1_700_000_000, 0).UTC()

// SetupLedger creates an in-memory ledger at GenesisTime with default genesis.
func SetupLedger(t testing.TB) *app.Ledger {
	t.Helper()
	return SetupLedgerWithGenesis(t, nil)
}

// SetupLedgerWithGenesis creates an in-memory ledger at GenesisTime from genesis.
func SetupLedgerWithGenesis(t testing.TB, genesis app.GenesisState) *app.Ledger {
	t.Helper()
	ledger, err := app.NewLedger(log.NewNopLogger(), GenesisTime, genesis)
	require.NoError(t, err)
	return ledger
}

// TestAddr derives a deterministic account address from name.
func TestAddr(name string) sdk.AccAddress {
	return app.ActorAddress(name)
}

// FundAccount mints amount of denom to addr.
func FundAccount(t testing.TB, ledger *app.Ledger, addr sdk.AccAddress, denom string, amount uint64) {
	t.Helper()
	require.NoError(t, ledger.Fund(addr, sdk.NewCoins(sdk.NewCoin(denom, math.NewIntFromUint64(amount)))))
}
