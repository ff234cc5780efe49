package app

import (
	"encoding/json"
	"fmt"

	"github.com/cosmos/cosmos-sdk/types/module"

	"github.com/oyster-market/oyster/x/market"
	"github.com/oyster-market/oyster/x/timelock"
)

// GenesisState represents the genesis state of the Oyster ledger, keyed by
// module name.
type GenesisState map[string]json.RawMessage

type genesisBasic interface {
	module.HasName
	module.HasGenesisBasics
}

// genesisBasics lists the ledger modules in genesis order.
var genesisBasics = []genesisBasic{
	timelock.AppModuleBasic{},
	market.AppModuleBasic{},
}

// NewDefaultGenesisState returns the default genesis of every ledger module.
func NewDefaultGenesisState() GenesisState {
	genesis := make(GenesisState, len(genesisBasics))
	for _, basic := range genesisBasics {
		genesis[basic.Name()] = basic.DefaultGenesis(nil)
	}
	return genesis
}

// Validate checks the genesis of every ledger module. Missing modules fall
// back to their defaults.
func (gs GenesisState) Validate() error {
	for _, basic := range genesisBasics {
		bz, ok := gs[basic.Name()]
		if !ok {
			continue
		}
		if err := basic.ValidateGenesis(nil, nil, bz); err != nil {
			return fmt.Errorf("%s genesis: %w", basic.Name(), err)
		}
	}
	return nil
}
