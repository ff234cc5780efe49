package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// MsgUpdateWaitTime changes the wait time of a selector. Only the module
// authority may send it.
type MsgUpdateWaitTime struct {
	Authority string `json:"authority"`
	Selector  string `json:"selector"`
	WaitTime  uint64 `json:"wait_time"`
}

// MsgUpdateWaitTimeResponse is the response type for MsgUpdateWaitTime.
type MsgUpdateWaitTimeResponse struct {
	PrevWaitTime uint64 `json:"prev_wait_time"`
}

// ValidateBasic performs stateless validation
func (msg *MsgUpdateWaitTime) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return ErrUnauthorized.Wrapf("invalid authority address: %s", err)
	}
	return ValidateSelector(msg.Selector)
}

// GetSigners returns the expected signers
func (msg *MsgUpdateWaitTime) GetSigners() []sdk.AccAddress {
	authority, _ := sdk.AccAddressFromBech32(msg.Authority)
	return []sdk.AccAddress{authority}
}
