package types

import "context"

// MsgServer is the timelock message service.
type MsgServer interface {
	UpdateWaitTime(context.Context, *MsgUpdateWaitTime) (*MsgUpdateWaitTimeResponse, error)
}
