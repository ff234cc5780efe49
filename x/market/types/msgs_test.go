package types_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oyster-market/oyster/x/market/types"
)

type validatable interface {
	ValidateBasic() error
}

func TestMsgValidateBasic(t *testing.T) {
	tests := []struct {
		name    string
		msg     validatable
		wantErr error
	}{
		{
			name: "job open",
			msg:  &types.MsgJobOpen{Owner: ownerAddr, Provider: providerAddr, Rate: 1, Balance: 1},
		},
		{
			name:    "job open with bad provider",
			msg:     &types.MsgJobOpen{Owner: ownerAddr, Provider: "provider", Rate: 1, Balance: 1},
			wantErr: types.ErrInvalidAddress,
		},
		{
			name:    "job open with zero rate",
			msg:     &types.MsgJobOpen{Owner: ownerAddr, Provider: providerAddr, Balance: 1},
			wantErr: types.ErrInvalidRate,
		},
		{
			name:    "job open with zero balance",
			msg:     &types.MsgJobOpen{Owner: ownerAddr, Provider: providerAddr, Rate: 1},
			wantErr: types.ErrInvalidAmount,
		},
		{
			name:    "job open with oversized metadata",
			msg:     &types.MsgJobOpen{Owner: ownerAddr, Provider: providerAddr, Rate: 1, Balance: 1, Metadata: strings.Repeat("x", types.MaxMetadataLength+1)},
			wantErr: types.ErrInvalidMetadata,
		},
		{
			name:    "deposit of zero",
			msg:     &types.MsgJobDeposit{Sender: ownerAddr, JobIndex: 1},
			wantErr: types.ErrInvalidAmount,
		},
		{
			name:    "withdraw of zero",
			msg:     &types.MsgJobWithdraw{Owner: ownerAddr, JobIndex: 1},
			wantErr: types.ErrInvalidAmount,
		},
		{
			name:    "settle without sender",
			msg:     &types.MsgJobSettle{JobIndex: 1},
			wantErr: types.ErrInvalidAddress,
		},
		{
			name:    "revise to zero",
			msg:     &types.MsgJobReviseRate{Owner: ownerAddr, JobIndex: 1},
			wantErr: types.ErrInvalidRate,
		},
		{
			name:    "initiate revise to zero",
			msg:     &types.MsgJobReviseRateInitiate{Owner: ownerAddr, JobIndex: 1},
			wantErr: types.ErrInvalidRate,
		},
		{
			name:    "provider add without cp",
			msg:     &types.MsgProviderAdd{Provider: providerAddr},
			wantErr: types.ErrInvalidControlPlaneURL,
		},
		{
			name: "provider update",
			msg:  &types.MsgProviderUpdateWithCp{Provider: providerAddr, NewCp: "https://cp.example"},
		},
		{
			name:    "token update with bad denom",
			msg:     &types.MsgUpdateToken{Admin: ownerAddr, Denom: "!"},
			wantErr: types.ErrInvalidDenom,
		},
		{
			name: "credit token disabled",
			msg:  &types.MsgUpdateCreditToken{Admin: ownerAddr, Denom: ""},
		},
		{
			name:    "unknown revision mode",
			msg:     &types.MsgUpdateRateRevisionMode{Admin: ownerAddr, Mode: "instant"},
			wantErr: types.ErrInvalidRevisionMode,
		},
		{
			name:    "transfer admin to nobody",
			msg:     &types.MsgTransferAdmin{Admin: ownerAddr, NewAdmin: ""},
			wantErr: types.ErrInvalidAddress,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.msg.ValidateBasic()
			if tc.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestMsgGetSigners(t *testing.T) {
	msg := &types.MsgJobClose{Owner: ownerAddr, JobIndex: 3}
	signers := msg.GetSigners()
	require.Len(t, signers, 1)
	require.Equal(t, ownerAddr, signers[0].String())
}
