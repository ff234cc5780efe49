package keeper

import (
	"context"

	sharedkeeper "github.com/oyster-market/oyster/x/shared/keeper"
	"github.com/oyster-market/oyster/x/timelock/types"
)

var _ types.MsgServer = msgServer{}

type msgServer struct {
	Keeper
}

// NewMsgServerImpl returns an implementation of the MsgServer interface
func NewMsgServerImpl(keeper Keeper) types.MsgServer {
	return &msgServer{Keeper: keeper}
}

// UpdateWaitTime handles governance updates of a selector's wait time.
func (ms msgServer) UpdateWaitTime(goCtx context.Context, msg *types.MsgUpdateWaitTime) (*types.MsgUpdateWaitTimeResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	if err := sharedkeeper.ValidateAuthority(ms.authority, msg.Authority); err != nil {
		return nil, err
	}

	prev := ms.GetWaitTime(goCtx, msg.Selector)
	if err := ms.SetWaitTime(goCtx, msg.Selector, msg.WaitTime); err != nil {
		return nil, err
	}

	return &types.MsgUpdateWaitTimeResponse{PrevWaitTime: prev}, nil
}
