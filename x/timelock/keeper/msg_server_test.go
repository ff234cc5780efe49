package keeper_test

import (
	"testing"

	govtypes "github.com/cosmos/cosmos-sdk/x/gov/types"
	"github.com/stretchr/testify/require"

	keepertest "github.com/oyster-market/oyster/testutil/keeper"
	"github.com/oyster-market/oyster/x/timelock/keeper"
	"github.com/oyster-market/oyster/x/timelock/types"
)

func TestMsgUpdateWaitTime(t *testing.T) {
	k, ctx, _ := keepertest.TimelockKeeper(t)
	msgServer := keeper.NewMsgServerImpl(k)

	resp, err := msgServer.UpdateWaitTime(ctx, &types.MsgUpdateWaitTime{
		Authority: k.GetAuthority(),
		Selector:  testSelector,
		WaitTime:  120,
	})
	require.NoError(t, err)
	require.Zero(t, resp.PrevWaitTime)
	require.Equal(t, uint64(120), k.GetWaitTime(ctx, testSelector))

	resp, err = msgServer.UpdateWaitTime(ctx, &types.MsgUpdateWaitTime{
		Authority: k.GetAuthority(),
		Selector:  testSelector,
		WaitTime:  30,
	})
	require.NoError(t, err)
	require.Equal(t, uint64(120), resp.PrevWaitTime)
}

func TestMsgUpdateWaitTimeRequiresAuthority(t *testing.T) {
	k, ctx, _ := keepertest.TimelockKeeper(t)
	msgServer := keeper.NewMsgServerImpl(k)

	_, err := msgServer.UpdateWaitTime(ctx, &types.MsgUpdateWaitTime{
		Authority: keepertest.TestAddr("mallory").String(),
		Selector:  testSelector,
		WaitTime:  1,
	})
	require.ErrorIs(t, err, govtypes.ErrInvalidSigner)
	require.Zero(t, k.GetWaitTime(ctx, testSelector))

	_, err = msgServer.UpdateWaitTime(ctx, &types.MsgUpdateWaitTime{
		Authority: "not-an-address",
		Selector:  testSelector,
	})
	require.ErrorIs(t, err, types.ErrUnauthorized)
}
