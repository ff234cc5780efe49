package types

import (
	"encoding/json"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	govtypes "github.com/cosmos/cosmos-sdk/x/gov/types"
)

const (
	// DefaultTokenDenom is the primary currency of a fresh market.
	DefaultTokenDenom = "uusdc"

	// DefaultNoticePeriod is the default notice window in seconds.
	DefaultNoticePeriod uint64 = 300
)

// GenesisState defines the market module's genesis state.
type GenesisState struct {
	Market           Market            `json:"market"`
	Jobs             []Job             `json:"jobs"`
	Providers        []Provider        `json:"providers"`
	CreditAllowances []CreditAllowance `json:"credit_allowances"`
}

// DefaultMarket returns a market administered by the governance module
// account with credits disabled.
func DefaultMarket() Market {
	return Market{
		Admin:            authtypes.NewModuleAddress(govtypes.ModuleName).String(),
		TokenDenom:       DefaultTokenDenom,
		CreditDenom:      "",
		JobIndex:         0,
		NoticePeriod:     DefaultNoticePeriod,
		RateRevisionMode: RevisionModeNotice,
	}
}

// DefaultGenesis returns the default genesis state
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Market:           DefaultMarket(),
		Jobs:             []Job{},
		Providers:        []Provider{},
		CreditAllowances: []CreditAllowance{},
	}
}

// Validate performs basic genesis state validation
func (gs GenesisState) Validate() error {
	if err := gs.Market.Validate(); err != nil {
		return fmt.Errorf("invalid market: %w", err)
	}

	jobs := make(map[uint64]struct{}, len(gs.Jobs))
	for _, job := range gs.Jobs {
		if err := job.Validate(); err != nil {
			return err
		}
		if _, dup := jobs[job.Index]; dup {
			return ErrInvalidGenesis.Wrapf("duplicate job index %d", job.Index)
		}
		if job.Index > gs.Market.JobIndex {
			return ErrInvalidGenesis.Wrapf("job index %d exceeds market job index %d", job.Index, gs.Market.JobIndex)
		}
		if job.CreditBalance > 0 && !gs.Market.CreditsEnabled() {
			return ErrInvalidGenesis.Wrapf("job %d holds credit but credits are disabled", job.Index)
		}
		jobs[job.Index] = struct{}{}
	}

	providers := make(map[string]struct{}, len(gs.Providers))
	for _, p := range gs.Providers {
		if _, err := sdk.AccAddressFromBech32(p.Address); err != nil {
			return ErrInvalidAddress.Wrapf("provider %s: %s", p.Address, err)
		}
		if err := ValidateControlPlaneURL(p.Cp); err != nil {
			return err
		}
		if _, dup := providers[p.Address]; dup {
			return ErrInvalidGenesis.Wrapf("duplicate provider %s", p.Address)
		}
		providers[p.Address] = struct{}{}
	}

	owners := make(map[string]struct{}, len(gs.CreditAllowances))
	for _, a := range gs.CreditAllowances {
		if _, err := sdk.AccAddressFromBech32(a.Owner); err != nil {
			return ErrInvalidAddress.Wrapf("credit allowance owner %s: %s", a.Owner, err)
		}
		if _, dup := owners[a.Owner]; dup {
			return ErrInvalidGenesis.Wrapf("duplicate credit allowance for %s", a.Owner)
		}
		owners[a.Owner] = struct{}{}
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
