package types

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Rate revision modes.
const (
	// RevisionModeNotice applies a new rate at once and pre-settles the
	// notice window at the higher of the old and new rates.
	RevisionModeNotice = "notice"

	// RevisionModeTimelock stages a new rate behind a timelock and applies
	// it on finalization.
	RevisionModeTimelock = "timelock"
)

// Market is the per-instance configuration of the marketplace.
type Market struct {
	Admin            string `json:"admin"`
	TokenDenom       string `json:"token_denom"`
	CreditDenom      string `json:"credit_denom"`
	JobIndex         uint64 `json:"job_index"`
	NoticePeriod     uint64 `json:"notice_period"`
	RateRevisionMode string `json:"rate_revision_mode"`
}

// CreditsEnabled reports whether a credit denom is configured.
func (m Market) CreditsEnabled() bool {
	return m.CreditDenom != ""
}

// Validate performs stateless validation of the market configuration.
func (m Market) Validate() error {
	if _, err := sdk.AccAddressFromBech32(m.Admin); err != nil {
		return ErrInvalidAddress.Wrapf("invalid admin address: %s", err)
	}
	if err := sdk.ValidateDenom(m.TokenDenom); err != nil {
		return ErrInvalidDenom.Wrapf("token denom: %s", err)
	}
	if m.CreditDenom != "" {
		if err := sdk.ValidateDenom(m.CreditDenom); err != nil {
			return ErrInvalidDenom.Wrapf("credit denom: %s", err)
		}
		if m.CreditDenom == m.TokenDenom {
			return ErrInvalidDenom.Wrap("credit denom must differ from token denom")
		}
	}
	return ValidateRevisionMode(m.RateRevisionMode)
}

// ValidateRevisionMode checks that mode names a known rate revision mode.
func ValidateRevisionMode(mode string) error {
	switch mode {
	case RevisionModeNotice, RevisionModeTimelock:
		return nil
	default:
		return ErrInvalidRevisionMode.Wrapf("unknown mode %q", mode)
	}
}

// Job is the escrow state of a single owner/provider agreement.
type Job struct {
	Index         uint64 `json:"index"`
	Metadata      string `json:"metadata"`
	Owner         string `json:"owner"`
	Provider      string `json:"provider"`
	Rate          uint64 `json:"rate"`
	Balance       uint64 `json:"balance"`
	CreditBalance uint64 `json:"credit_balance"`
	LastSettled   uint64 `json:"last_settled"`
}

// PrimaryBalance is the part of the balance backed by the primary denom.
func (j Job) PrimaryBalance() uint64 {
	return j.Balance - j.CreditBalance
}

// Validate performs stateless validation of a job record.
func (j Job) Validate() error {
	if j.Index == 0 {
		return ErrInvalidGenesis.Wrap("job index cannot be zero")
	}
	if err := ValidateMetadata(j.Metadata); err != nil {
		return err
	}
	if _, err := sdk.AccAddressFromBech32(j.Owner); err != nil {
		return ErrInvalidAddress.Wrapf("job %d owner: %s", j.Index, err)
	}
	if _, err := sdk.AccAddressFromBech32(j.Provider); err != nil {
		return ErrInvalidAddress.Wrapf("job %d provider: %s", j.Index, err)
	}
	if j.Rate == 0 {
		return ErrInvalidRate.Wrapf("job %d rate cannot be zero", j.Index)
	}
	if j.CreditBalance > j.Balance {
		return ErrInvalidAmount.Wrapf("job %d credit balance %d exceeds balance %d", j.Index, j.CreditBalance, j.Balance)
	}
	return nil
}

// String implements fmt.Stringer.
func (j Job) String() string {
	return fmt.Sprintf("job %d (owner %s, provider %s, rate %d, balance %d, credit %d, last settled %d)",
		j.Index, j.Owner, j.Provider, j.Rate, j.Balance, j.CreditBalance, j.LastSettled)
}

// ValidateMetadata enforces the metadata bound.
func ValidateMetadata(metadata string) error {
	if len(metadata) > MaxMetadataLength {
		return ErrInvalidMetadata.Wrapf("metadata length %d exceeds %d", len(metadata), MaxMetadataLength)
	}
	return nil
}

// Provider is a registered compute provider and its control plane.
type Provider struct {
	Address string `json:"address"`
	Cp      string `json:"cp"`
}

// ValidateControlPlaneURL checks a provider control plane URL.
func ValidateControlPlaneURL(cp string) error {
	if cp == "" {
		return ErrInvalidControlPlaneURL.Wrap("control plane URL cannot be empty")
	}
	if len(cp) > MaxControlPlaneURLLength {
		return ErrInvalidControlPlaneURL.Wrapf("control plane URL length %d exceeds %d", len(cp), MaxControlPlaneURLLength)
	}
	return nil
}

// CreditAllowance caps how much of an owner's credit balance the market may
// draw on deposits.
type CreditAllowance struct {
	Owner string `json:"owner"`
	Limit uint64 `json:"limit"`
}

// PendingRevision is a rate change staged behind a timelock.
type PendingRevision struct {
	JobIndex   uint64 `json:"job_index"`
	NewRate    uint64 `json:"new_rate"`
	UnlockTime uint64 `json:"unlock_time"`
}
