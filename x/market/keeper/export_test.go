package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/oyster-market/oyster/x/market/types"
)

// SettleJobForTest exposes the settlement primitive for white-box tests.
func SettleJobForTest(k *Keeper, ctx sdk.Context, job *types.Job, rate, settleTill uint64) (bool, uint64, error) {
	market, err := k.GetMarket(ctx)
	if err != nil {
		return false, 0, err
	}
	return k.settleJob(ctx, market, job, rate, settleTill)
}
