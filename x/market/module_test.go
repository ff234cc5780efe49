package market_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	keepertest "github.com/oyster-market/oyster/testutil/keeper"
	"github.com/oyster-market/oyster/x/market"
	"github.com/oyster-market/oyster/x/market/types"
)

func TestModuleGenesisBasics(t *testing.T) {
	basic := market.AppModuleBasic{}
	require.Equal(t, types.ModuleName, basic.Name())

	require.NoError(t, basic.ValidateGenesis(nil, nil, basic.DefaultGenesis(nil)))
	require.Error(t, basic.ValidateGenesis(nil, nil, []byte(`{"market":{"admin":"x"}}`)))
	require.Error(t, basic.ValidateGenesis(nil, nil, []byte(`not json`)))
}

func TestModuleInitGenesisPanicsOnInvalidState(t *testing.T) {
	k, ctx, _ := keepertest.MarketKeeper(t)
	am := market.NewAppModule(k)

	require.Panics(t, func() {
		am.InitGenesis(ctx, nil, []byte(`{"market":{"admin":"x"}}`))
	})
}

func TestModuleExportGenesis(t *testing.T) {
	k, _, ledger := keepertest.MarketKeeper(t)
	keepertest.OpenTestJob(t, ledger, keepertest.TestAddr("owner"), keepertest.TestAddr("provider"), 1, 10)

	am := market.NewAppModule(k)
	bz := am.ExportGenesis(ledger.Context(), nil)

	genState, err := types.ParseGenesis(bz)
	require.NoError(t, err)
	require.Len(t, genState.Jobs, 1)
	require.NoError(t, am.ValidateGenesis(nil, nil, bz))
}
