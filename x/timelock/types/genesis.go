package types

import (
	"encoding/json"
	"fmt"
)

// GenesisState defines the timelock module's genesis state.
type GenesisState struct {
	WaitTimes []WaitTime `json:"wait_times"`
	Locks     []Lock     `json:"locks"`
}

// DefaultGenesis returns the default genesis state
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		WaitTimes: []WaitTime{},
		Locks:     []Lock{},
	}
}

// Validate performs basic genesis state validation
func (gs GenesisState) Validate() error {
	selectors := make(map[string]struct{}, len(gs.WaitTimes))
	for _, wt := range gs.WaitTimes {
		if err := ValidateSelector(wt.Selector); err != nil {
			return err
		}
		if _, dup := selectors[wt.Selector]; dup {
			return ErrInvalidGenesis.Wrapf("duplicate wait time for selector %s", wt.Selector)
		}
		selectors[wt.Selector] = struct{}{}
	}

	locks := make(map[string]struct{}, len(gs.Locks))
	for _, lock := range gs.Locks {
		if err := lock.Validate(); err != nil {
			return err
		}
		id := LockID(lock.Selector, lock.Key)
		if _, dup := locks[id]; dup {
			return ErrInvalidGenesis.Wrapf("duplicate lock %s", id)
		}
		locks[id] = struct{}{}
	}

	return nil
}

// ParseGenesis decodes a JSON genesis document.
func ParseGenesis(bz json.RawMessage) (*GenesisState, error) {
	var gs GenesisState
	if err := json.Unmarshal(bz, &gs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s genesis state: %w", ModuleName, err)
	}
	return &gs, nil
}
