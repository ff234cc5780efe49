package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Message type names
const (
	TypeMsgJobOpen                = "job_open"
	TypeMsgJobSettle              = "job_settle"
	TypeMsgJobDeposit             = "job_deposit"
	TypeMsgJobWithdraw            = "job_withdraw"
	TypeMsgJobClose               = "job_close"
	TypeMsgJobReviseRate          = "job_revise_rate"
	TypeMsgJobReviseRateInitiate  = "job_revise_rate_initiate"
	TypeMsgJobReviseRateCancel    = "job_revise_rate_cancel"
	TypeMsgJobReviseRateFinalize  = "job_revise_rate_finalize"
	TypeMsgProviderAdd            = "provider_add"
	TypeMsgProviderRemove         = "provider_remove"
	TypeMsgProviderUpdateWithCp   = "provider_update_with_cp"
	TypeMsgSetCreditAllowance     = "set_credit_allowance"
	TypeMsgUpdateToken            = "update_token"
	TypeMsgUpdateCreditToken      = "update_credit_token"
	TypeMsgUpdateNoticePeriod     = "update_notice_period"
	TypeMsgUpdateRateRevisionMode = "update_rate_revision_mode"
	TypeMsgUpdateLockWaitTime     = "update_lock_wait_time"
	TypeMsgTransferAdmin          = "transfer_admin"
)

func validateAddress(field, addr string) error {
	if _, err := sdk.AccAddressFromBech32(addr); err != nil {
		return ErrInvalidAddress.Wrapf("invalid %s address: %s", field, err)
	}
	return nil
}

func signer(addr string) []sdk.AccAddress {
	acc, _ := sdk.AccAddressFromBech32(addr)
	return []sdk.AccAddress{acc}
}

// MsgJobOpen opens a job funded with Balance from Owner.
type MsgJobOpen struct {
	Owner    string `json:"owner"`
	Metadata string `json:"metadata"`
	Provider string `json:"provider"`
	Rate     uint64 `json:"rate"`
	Balance  uint64 `json:"balance"`
}

// MsgJobOpenResponse returns the index assigned to the new job.
type MsgJobOpenResponse struct {
	JobIndex uint64 `json:"job_index"`
}

// ValidateBasic performs stateless validation
func (msg *MsgJobOpen) ValidateBasic() error {
	if err := validateAddress("owner", msg.Owner); err != nil {
		return err
	}
	if err := validateAddress("provider", msg.Provider); err != nil {
		return err
	}
	if msg.Rate == 0 {
		return ErrInvalidRate.Wrap("rate must be positive")
	}
	if msg.Balance == 0 {
		return ErrInvalidAmount.Wrap("initial balance must be positive")
	}
	return ValidateMetadata(msg.Metadata)
}

// GetSigners returns the expected signers
func (msg *MsgJobOpen) GetSigners() []sdk.AccAddress { return signer(msg.Owner) }

// MsgJobSettle settles a job up to the current block time. Anyone may send it.
type MsgJobSettle struct {
	Sender   string `json:"sender"`
	JobIndex uint64 `json:"job_index"`
}

// MsgJobSettleResponse reports whether usage was fully covered.
type MsgJobSettleResponse struct {
	FullyPaid bool   `json:"fully_paid"`
	Amount    uint64 `json:"amount"`
}

// ValidateBasic performs stateless validation
func (msg *MsgJobSettle) ValidateBasic() error {
	return validateAddress("sender", msg.Sender)
}

// GetSigners returns the expected signers
func (msg *MsgJobSettle) GetSigners() []sdk.AccAddress { return signer(msg.Sender) }

// MsgJobDeposit adds funds to a job. Anyone may send it.
type MsgJobDeposit struct {
	Sender   string `json:"sender"`
	JobIndex uint64 `json:"job_index"`
	Amount   uint64 `json:"amount"`
}

// MsgJobDepositResponse is the response type for MsgJobDeposit.
type MsgJobDepositResponse struct{}

// ValidateBasic performs stateless validation
func (msg *MsgJobDeposit) ValidateBasic() error {
	if err := validateAddress("sender", msg.Sender); err != nil {
		return err
	}
	if msg.Amount == 0 {
		return ErrInvalidAmount.Wrap("deposit amount must be positive")
	}
	return nil
}

// GetSigners returns the expected signers
func (msg *MsgJobDeposit) GetSigners() []sdk.AccAddress { return signer(msg.Sender) }

// MsgJobWithdraw returns funds from a job to its owner.
type MsgJobWithdraw struct {
	Owner    string `json:"owner"`
	JobIndex uint64 `json:"job_index"`
	Amount   uint64 `json:"amount"`
}

// MsgJobWithdrawResponse is the response type for MsgJobWithdraw.
type MsgJobWithdrawResponse struct{}

// ValidateBasic performs stateless validation
func (msg *MsgJobWithdraw) ValidateBasic() error {
	if err := validateAddress("owner", msg.Owner); err != nil {
		return err
	}
	if msg.Amount == 0 {
		return ErrInvalidAmount.Wrap("withdrawal amount must be positive")
	}
	return nil
}

// GetSigners returns the expected signers
func (msg *MsgJobWithdraw) GetSigners() []sdk.AccAddress { return signer(msg.Owner) }

// MsgJobClose settles a job, refunds the remainder and removes it.
type MsgJobClose struct {
	Owner    string `json:"owner"`
	JobIndex uint64 `json:"job_index"`
}

// MsgJobCloseResponse reports the amount refunded to the owner.
type MsgJobCloseResponse struct {
	Refunded uint64 `json:"refunded"`
}

// ValidateBasic performs stateless validation
func (msg *MsgJobClose) ValidateBasic() error {
	return validateAddress("owner", msg.Owner)
}

// GetSigners returns the expected signers
func (msg *MsgJobClose) GetSigners() []sdk.AccAddress { return signer(msg.Owner) }

// MsgJobReviseRate changes a job's rate in notice mode.
type MsgJobReviseRate struct {
	Owner    string `json:"owner"`
	JobIndex uint64 `json:"job_index"`
	NewRate  uint64 `json:"new_rate"`
}

// MsgJobReviseRateResponse is the response type for MsgJobReviseRate.
type MsgJobReviseRateResponse struct{}

// ValidateBasic performs stateless validation
func (msg *MsgJobReviseRate) ValidateBasic() error {
	if err := validateAddress("owner", msg.Owner); err != nil {
		return err
	}
	if msg.NewRate == 0 {
		return ErrInvalidRate.Wrap("new rate must be positive")
	}
	return nil
}

// GetSigners returns the expected signers
func (msg *MsgJobReviseRate) GetSigners() []sdk.AccAddress { return signer(msg.Owner) }

// MsgJobReviseRateInitiate stages a rate change in timelock mode.
type MsgJobReviseRateInitiate struct {
	Owner    string `json:"owner"`
	JobIndex uint64 `json:"job_index"`
	NewRate  uint64 `json:"new_rate"`
}

// MsgJobReviseRateInitiateResponse returns when the staged rate can be finalized.
type MsgJobReviseRateInitiateResponse struct {
	UnlockTime uint64 `json:"unlock_time"`
}

// ValidateBasic performs stateless validation
func (msg *MsgJobReviseRateInitiate) ValidateBasic() error {
	if err := validateAddress("owner", msg.Owner); err != nil {
		return err
	}
	if msg.NewRate == 0 {
		return ErrInvalidRate.Wrap("new rate must be positive")
	}
	return nil
}

// GetSigners returns the expected signers
func (msg *MsgJobReviseRateInitiate) GetSigners() []sdk.AccAddress { return signer(msg.Owner) }

// MsgJobReviseRateCancel drops a staged rate change.
type MsgJobReviseRateCancel struct {
	Owner    string `json:"owner"`
	JobIndex uint64 `json:"job_index"`
}

// MsgJobReviseRateCancelResponse is the response type for MsgJobReviseRateCancel.
type MsgJobReviseRateCancelResponse struct{}

// ValidateBasic performs stateless validation
func (msg *MsgJobReviseRateCancel) ValidateBasic() error {
	return validateAddress("owner", msg.Owner)
}

// GetSigners returns the expected signers
func (msg *MsgJobReviseRateCancel) GetSigners() []sdk.AccAddress { return signer(msg.Owner) }

// MsgJobReviseRateFinalize applies a matured staged rate change.
type MsgJobReviseRateFinalize struct {
	Owner    string `json:"owner"`
	JobIndex uint64 `json:"job_index"`
}

// MsgJobReviseRateFinalizeResponse returns the rate now in force.
type MsgJobReviseRateFinalizeResponse struct {
	NewRate uint64 `json:"new_rate"`
}

// ValidateBasic performs stateless validation
func (msg *MsgJobReviseRateFinalize) ValidateBasic() error {
	return validateAddress("owner", msg.Owner)
}

// GetSigners returns the expected signers
func (msg *MsgJobReviseRateFinalize) GetSigners() []sdk.AccAddress { return signer(msg.Owner) }

// MsgProviderAdd registers the sender as a provider.
type MsgProviderAdd struct {
	Provider string `json:"provider"`
	Cp       string `json:"cp"`
}

// MsgProviderAddResponse is the response type for MsgProviderAdd.
type MsgProviderAddResponse struct{}

// ValidateBasic performs stateless validation
func (msg *MsgProviderAdd) ValidateBasic() error {
	if err := validateAddress("provider", msg.Provider); err != nil {
		return err
	}
	return ValidateControlPlaneURL(msg.Cp)
}

// GetSigners returns the expected signers
func (msg *MsgProviderAdd) GetSigners() []sdk.AccAddress { return signer(msg.Provider) }

// MsgProviderRemove unregisters the sender.
type MsgProviderRemove struct {
	Provider string `json:"provider"`
}

// MsgProviderRemoveResponse is the response type for MsgProviderRemove.
type MsgProviderRemoveResponse struct{}

// ValidateBasic performs stateless validation
func (msg *MsgProviderRemove) ValidateBasic() error {
	return validateAddress("provider", msg.Provider)
}

// GetSigners returns the expected signers
func (msg *MsgProviderRemove) GetSigners() []sdk.AccAddress { return signer(msg.Provider) }

// MsgProviderUpdateWithCp changes the sender's control plane URL.
type MsgProviderUpdateWithCp struct {
	Provider string `json:"provider"`
	NewCp    string `json:"new_cp"`
}

// MsgProviderUpdateWithCpResponse is the response type for MsgProviderUpdateWithCp.
type MsgProviderUpdateWithCpResponse struct{}

// ValidateBasic performs stateless validation
func (msg *MsgProviderUpdateWithCp) ValidateBasic() error {
	if err := validateAddress("provider", msg.Provider); err != nil {
		return err
	}
	return ValidateControlPlaneURL(msg.NewCp)
}

// GetSigners returns the expected signers
func (msg *MsgProviderUpdateWithCp) GetSigners() []sdk.AccAddress { return signer(msg.Provider) }

// MsgSetCreditAllowance sets how much credit the market may draw from Owner.
type MsgSetCreditAllowance struct {
	Owner string `json:"owner"`
	Limit uint64 `json:"limit"`
}

// MsgSetCreditAllowanceResponse is the response type for MsgSetCreditAllowance.
type MsgSetCreditAllowanceResponse struct{}

// ValidateBasic performs stateless validation
func (msg *MsgSetCreditAllowance) ValidateBasic() error {
	return validateAddress("owner", msg.Owner)
}

// GetSigners returns the expected signers
func (msg *MsgSetCreditAllowance) GetSigners() []sdk.AccAddress { return signer(msg.Owner) }

// MsgUpdateToken replaces the primary denom.
type MsgUpdateToken struct {
	Admin string `json:"admin"`
	Denom string `json:"denom"`
}

// MsgUpdateTokenResponse is the response type for MsgUpdateToken.
type MsgUpdateTokenResponse struct{}

// ValidateBasic performs stateless validation
func (msg *MsgUpdateToken) ValidateBasic() error {
	if err := validateAddress("admin", msg.Admin); err != nil {
		return err
	}
	if err := sdk.ValidateDenom(msg.Denom); err != nil {
		return ErrInvalidDenom.Wrap(err.Error())
	}
	return nil
}

// GetSigners returns the expected signers
func (msg *MsgUpdateToken) GetSigners() []sdk.AccAddress { return signer(msg.Admin) }

// MsgUpdateCreditToken replaces the credit denom. An empty denom disables credits.
type MsgUpdateCreditToken struct {
	Admin string `json:"admin"`
	Denom string `json:"denom"`
}

// MsgUpdateCreditTokenResponse is the response type for MsgUpdateCreditToken.
type MsgUpdateCreditTokenResponse struct{}

// ValidateBasic performs stateless validation
func (msg *MsgUpdateCreditToken) ValidateBasic() error {
	if err := validateAddress("admin", msg.Admin); err != nil {
		return err
	}
	if msg.Denom == "" {
		return nil
	}
	if err := sdk.ValidateDenom(msg.Denom); err != nil {
		return ErrInvalidDenom.Wrap(err.Error())
	}
	return nil
}

// GetSigners returns the expected signers
func (msg *MsgUpdateCreditToken) GetSigners() []sdk.AccAddress { return signer(msg.Admin) }

// MsgUpdateNoticePeriod changes the notice window in seconds.
type MsgUpdateNoticePeriod struct {
	Admin        string `json:"admin"`
	NoticePeriod uint64 `json:"notice_period"`
}

// MsgUpdateNoticePeriodResponse is the response type for MsgUpdateNoticePeriod.
type MsgUpdateNoticePeriodResponse struct{}

// ValidateBasic performs stateless validation
func (msg *MsgUpdateNoticePeriod) ValidateBasic() error {
	return validateAddress("admin", msg.Admin)
}

// GetSigners returns the expected signers
func (msg *MsgUpdateNoticePeriod) GetSigners() []sdk.AccAddress { return signer(msg.Admin) }

// MsgUpdateRateRevisionMode switches between notice and timelock revisions.
type MsgUpdateRateRevisionMode struct {
	Admin string `json:"admin"`
	Mode  string `json:"mode"`
}

// MsgUpdateRateRevisionModeResponse is the response type for MsgUpdateRateRevisionMode.
type MsgUpdateRateRevisionModeResponse struct{}

// ValidateBasic performs stateless validation
func (msg *MsgUpdateRateRevisionMode) ValidateBasic() error {
	if err := validateAddress("admin", msg.Admin); err != nil {
		return err
	}
	return ValidateRevisionMode(msg.Mode)
}

// GetSigners returns the expected signers
func (msg *MsgUpdateRateRevisionMode) GetSigners() []sdk.AccAddress { return signer(msg.Admin) }

// MsgUpdateLockWaitTime changes the wait time of a timelock selector.
type MsgUpdateLockWaitTime struct {
	Admin    string `json:"admin"`
	Selector string `json:"selector"`
	WaitTime uint64 `json:"wait_time"`
}

// MsgUpdateLockWaitTimeResponse is the response type for MsgUpdateLockWaitTime.
type MsgUpdateLockWaitTimeResponse struct{}

// ValidateBasic performs stateless validation
func (msg *MsgUpdateLockWaitTime) ValidateBasic() error {
	return validateAddress("admin", msg.Admin)
}

// GetSigners returns the expected signers
func (msg *MsgUpdateLockWaitTime) GetSigners() []sdk.AccAddress { return signer(msg.Admin) }

// MsgTransferAdmin hands market administration to another account.
type MsgTransferAdmin struct {
	Admin    string `json:"admin"`
	NewAdmin string `json:"new_admin"`
}

// MsgTransferAdminResponse is the response type for MsgTransferAdmin.
type MsgTransferAdminResponse struct{}

// ValidateBasic performs stateless validation
func (msg *MsgTransferAdmin) ValidateBasic() error {
	if err := validateAddress("admin", msg.Admin); err != nil {
		return err
	}
	return validateAddress("new admin", msg.NewAdmin)
}

// GetSigners returns the expected signers
func (msg *MsgTransferAdmin) GetSigners() []sdk.AccAddress { return signer(msg.Admin) }
