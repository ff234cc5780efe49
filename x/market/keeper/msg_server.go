package keeper

import (
	"context"
	"fmt"
	"time"

	"github.com/cosmos/cosmos-sdk/telemetry"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/hashicorp/go-metrics"

	"github.com/oyster-market/oyster/x/market/types"
)

type msgServer struct {
	Keeper
}

// NewMsgServerImpl returns an implementation of the market MsgServer interface
func NewMsgServerImpl(keeper Keeper) types.MsgServer {
	return &msgServer{Keeper: keeper}
}

var _ types.MsgServer = msgServer{}

// execute runs handler on a cached branch of the state and writes the branch
// back only when handler succeeds.
func (ms msgServer) execute(goCtx context.Context, msgType string, handler func(ctx context.Context) error) error {
	defer telemetry.MeasureSince(time.Now(), types.ModuleName, "msg", msgType)

	sdkCtx := sdk.UnwrapSDKContext(goCtx)
	cacheCtx, writeFn := sdkCtx.CacheContext()
	cacheCtx, pending := withPendingMetrics(cacheCtx)

	if err := handler(cacheCtx); err != nil {
		telemetry.IncrCounterWithLabels(
			[]string{types.ModuleName, "msg", "failed"},
			1,
			[]metrics.Label{telemetry.NewLabel("type", msgType)},
		)
		return fmt.Errorf("%s: %w", msgType, err)
	}

	writeFn()
	pending.flush(ms.metrics)
	telemetry.IncrCounterWithLabels(
		[]string{types.ModuleName, "msg", "executed"},
		1,
		[]metrics.Label{telemetry.NewLabel("type", msgType)},
	)
	return nil
}

// JobOpen handles opening a new job
func (ms msgServer) JobOpen(goCtx context.Context, msg *types.MsgJobOpen) (*types.MsgJobOpenResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("JobOpen: validate: %w", err)
	}

	owner, err := sdk.AccAddressFromBech32(msg.Owner)
	if err != nil {
		return nil, fmt.Errorf("JobOpen: invalid owner address: %w", err)
	}
	provider, err := sdk.AccAddressFromBech32(msg.Provider)
	if err != nil {
		return nil, fmt.Errorf("JobOpen: invalid provider address: %w", err)
	}

	var jobIndex uint64
	err = ms.execute(goCtx, types.TypeMsgJobOpen, func(ctx context.Context) error {
		jobIndex, err = ms.Keeper.JobOpen(ctx, owner, provider, msg.Metadata, msg.Rate, msg.Balance)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &types.MsgJobOpenResponse{JobIndex: jobIndex}, nil
}

// JobSettle handles settling a job up to the block time
func (ms msgServer) JobSettle(goCtx context.Context, msg *types.MsgJobSettle) (*types.MsgJobSettleResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("JobSettle: validate: %w", err)
	}

	var (
		fullyPaid bool
		amount    uint64
	)
	err := ms.execute(goCtx, types.TypeMsgJobSettle, func(ctx context.Context) error {
		var err error
		fullyPaid, amount, err = ms.Keeper.JobSettle(ctx, msg.JobIndex)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &types.MsgJobSettleResponse{FullyPaid: fullyPaid, Amount: amount}, nil
}

// JobDeposit handles topping up a job
func (ms msgServer) JobDeposit(goCtx context.Context, msg *types.MsgJobDeposit) (*types.MsgJobDepositResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("JobDeposit: validate: %w", err)
	}

	sender, err := sdk.AccAddressFromBech32(msg.Sender)
	if err != nil {
		return nil, fmt.Errorf("JobDeposit: invalid sender address: %w", err)
	}

	err = ms.execute(goCtx, types.TypeMsgJobDeposit, func(ctx context.Context) error {
		return ms.Keeper.JobDeposit(ctx, sender, msg.JobIndex, msg.Amount)
	})
	if err != nil {
		return nil, err
	}

	return &types.MsgJobDepositResponse{}, nil
}

// JobWithdraw handles withdrawing unspent balance from a job
func (ms msgServer) JobWithdraw(goCtx context.Context, msg *types.MsgJobWithdraw) (*types.MsgJobWithdrawResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("JobWithdraw: validate: %w", err)
	}

	owner, err := sdk.AccAddressFromBech32(msg.Owner)
	if err != nil {
		return nil, fmt.Errorf("JobWithdraw: invalid owner address: %w", err)
	}

	err = ms.execute(goCtx, types.TypeMsgJobWithdraw, func(ctx context.Context) error {
		return ms.Keeper.JobWithdraw(ctx, owner, msg.JobIndex, msg.Amount)
	})
	if err != nil {
		return nil, err
	}

	return &types.MsgJobWithdrawResponse{}, nil
}

// JobClose handles closing a job and refunding its balance
func (ms msgServer) JobClose(goCtx context.Context, msg *types.MsgJobClose) (*types.MsgJobCloseResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("JobClose: validate: %w", err)
	}

	owner, err := sdk.AccAddressFromBech32(msg.Owner)
	if err != nil {
		return nil, fmt.Errorf("JobClose: invalid owner address: %w", err)
	}

	var refunded uint64
	err = ms.execute(goCtx, types.TypeMsgJobClose, func(ctx context.Context) error {
		refunded, err = ms.Keeper.JobClose(ctx, owner, msg.JobIndex)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &types.MsgJobCloseResponse{Refunded: refunded}, nil
}

// JobReviseRate handles an immediate rate change in notice mode
func (ms msgServer) JobReviseRate(goCtx context.Context, msg *types.MsgJobReviseRate) (*types.MsgJobReviseRateResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("JobReviseRate: validate: %w", err)
	}

	owner, err := sdk.AccAddressFromBech32(msg.Owner)
	if err != nil {
		return nil, fmt.Errorf("JobReviseRate: invalid owner address: %w", err)
	}

	err = ms.execute(goCtx, types.TypeMsgJobReviseRate, func(ctx context.Context) error {
		return ms.Keeper.JobReviseRate(ctx, owner, msg.JobIndex, msg.NewRate)
	})
	if err != nil {
		return nil, err
	}

	return &types.MsgJobReviseRateResponse{}, nil
}

// JobReviseRateInitiate handles staging a rate change in timelock mode
func (ms msgServer) JobReviseRateInitiate(goCtx context.Context, msg *types.MsgJobReviseRateInitiate) (*types.MsgJobReviseRateInitiateResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("JobReviseRateInitiate: validate: %w", err)
	}

	owner, err := sdk.AccAddressFromBech32(msg.Owner)
	if err != nil {
		return nil, fmt.Errorf("JobReviseRateInitiate: invalid owner address: %w", err)
	}

	var unlockTime uint64
	err = ms.execute(goCtx, types.TypeMsgJobReviseRateInitiate, func(ctx context.Context) error {
		unlockTime, err = ms.Keeper.JobReviseRateInitiate(ctx, owner, msg.JobIndex, msg.NewRate)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &types.MsgJobReviseRateInitiateResponse{UnlockTime: unlockTime}, nil
}

// JobReviseRateCancel handles dropping a staged rate change
func (ms msgServer) JobReviseRateCancel(goCtx context.Context, msg *types.MsgJobReviseRateCancel) (*types.MsgJobReviseRateCancelResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("JobReviseRateCancel: validate: %w", err)
	}

	owner, err := sdk.AccAddressFromBech32(msg.Owner)
	if err != nil {
		return nil, fmt.Errorf("JobReviseRateCancel: invalid owner address: %w", err)
	}

	err = ms.execute(goCtx, types.TypeMsgJobReviseRateCancel, func(ctx context.Context) error {
		return ms.Keeper.JobReviseRateCancel(ctx, owner, msg.JobIndex)
	})
	if err != nil {
		return nil, err
	}

	return &types.MsgJobReviseRateCancelResponse{}, nil
}

// JobReviseRateFinalize handles applying a matured rate change
func (ms msgServer) JobReviseRateFinalize(goCtx context.Context, msg *types.MsgJobReviseRateFinalize) (*types.MsgJobReviseRateFinalizeResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("JobReviseRateFinalize: validate: %w", err)
	}

	owner, err := sdk.AccAddressFromBech32(msg.Owner)
	if err != nil {
		return nil, fmt.Errorf("JobReviseRateFinalize: invalid owner address: %w", err)
	}

	var newRate uint64
	err = ms.execute(goCtx, types.TypeMsgJobReviseRateFinalize, func(ctx context.Context) error {
		newRate, err = ms.Keeper.JobReviseRateFinalize(ctx, owner, msg.JobIndex)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &types.MsgJobReviseRateFinalizeResponse{NewRate: newRate}, nil
}

// ProviderAdd handles provider registration
func (ms msgServer) ProviderAdd(goCtx context.Context, msg *types.MsgProviderAdd) (*types.MsgProviderAddResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("ProviderAdd: validate: %w", err)
	}

	provider, err := sdk.AccAddressFromBech32(msg.Provider)
	if err != nil {
		return nil, fmt.Errorf("ProviderAdd: invalid provider address: %w", err)
	}

	err = ms.execute(goCtx, types.TypeMsgProviderAdd, func(ctx context.Context) error {
		return ms.Keeper.ProviderAdd(ctx, provider, msg.Cp)
	})
	if err != nil {
		return nil, err
	}

	return &types.MsgProviderAddResponse{}, nil
}

// ProviderRemove handles provider unregistration
func (ms msgServer) ProviderRemove(goCtx context.Context, msg *types.MsgProviderRemove) (*types.MsgProviderRemoveResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("ProviderRemove: validate: %w", err)
	}

	provider, err := sdk.AccAddressFromBech32(msg.Provider)
	if err != nil {
		return nil, fmt.Errorf("ProviderRemove: invalid provider address: %w", err)
	}

	err = ms.execute(goCtx, types.TypeMsgProviderRemove, func(ctx context.Context) error {
		return ms.Keeper.ProviderRemove(ctx, provider)
	})
	if err != nil {
		return nil, err
	}

	return &types.MsgProviderRemoveResponse{}, nil
}

// ProviderUpdateWithCp handles control plane URL changes
func (ms msgServer) ProviderUpdateWithCp(goCtx context.Context, msg *types.MsgProviderUpdateWithCp) (*types.MsgProviderUpdateWithCpResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("ProviderUpdateWithCp: validate: %w", err)
	}

	provider, err := sdk.AccAddressFromBech32(msg.Provider)
	if err != nil {
		return nil, fmt.Errorf("ProviderUpdateWithCp: invalid provider address: %w", err)
	}

	err = ms.execute(goCtx, types.TypeMsgProviderUpdateWithCp, func(ctx context.Context) error {
		return ms.Keeper.ProviderUpdateWithCp(ctx, provider, msg.NewCp)
	})
	if err != nil {
		return nil, err
	}

	return &types.MsgProviderUpdateWithCpResponse{}, nil
}

// SetCreditAllowance handles owner credit allowance updates
func (ms msgServer) SetCreditAllowance(goCtx context.Context, msg *types.MsgSetCreditAllowance) (*types.MsgSetCreditAllowanceResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("SetCreditAllowance: validate: %w", err)
	}

	owner, err := sdk.AccAddressFromBech32(msg.Owner)
	if err != nil {
		return nil, fmt.Errorf("SetCreditAllowance: invalid owner address: %w", err)
	}

	err = ms.execute(goCtx, types.TypeMsgSetCreditAllowance, func(ctx context.Context) error {
		return ms.Keeper.SetCreditAllowance(ctx, owner, msg.Limit)
	})
	if err != nil {
		return nil, err
	}

	return &types.MsgSetCreditAllowanceResponse{}, nil
}

// UpdateToken handles replacing the primary denom
func (ms msgServer) UpdateToken(goCtx context.Context, msg *types.MsgUpdateToken) (*types.MsgUpdateTokenResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("UpdateToken: validate: %w", err)
	}

	err := ms.execute(goCtx, types.TypeMsgUpdateToken, func(ctx context.Context) error {
		return ms.Keeper.UpdateToken(ctx, msg.Admin, msg.Denom)
	})
	if err != nil {
		return nil, err
	}

	return &types.MsgUpdateTokenResponse{}, nil
}

// UpdateCreditToken handles replacing or disabling the credit denom
func (ms msgServer) UpdateCreditToken(goCtx context.Context, msg *types.MsgUpdateCreditToken) (*types.MsgUpdateCreditTokenResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("UpdateCreditToken: validate: %w", err)
	}

	err := ms.execute(goCtx, types.TypeMsgUpdateCreditToken, func(ctx context.Context) error {
		return ms.Keeper.UpdateCreditToken(ctx, msg.Admin, msg.Denom)
	})
	if err != nil {
		return nil, err
	}

	return &types.MsgUpdateCreditTokenResponse{}, nil
}

// UpdateNoticePeriod handles notice period changes
func (ms msgServer) UpdateNoticePeriod(goCtx context.Context, msg *types.MsgUpdateNoticePeriod) (*types.MsgUpdateNoticePeriodResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("UpdateNoticePeriod: validate: %w", err)
	}

	err := ms.execute(goCtx, types.TypeMsgUpdateNoticePeriod, func(ctx context.Context) error {
		return ms.Keeper.UpdateNoticePeriod(ctx, msg.Admin, msg.NoticePeriod)
	})
	if err != nil {
		return nil, err
	}

	return &types.MsgUpdateNoticePeriodResponse{}, nil
}

// UpdateRateRevisionMode handles switching between notice and timelock revisions
func (ms msgServer) UpdateRateRevisionMode(goCtx context.Context, msg *types.MsgUpdateRateRevisionMode) (*types.MsgUpdateRateRevisionModeResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("UpdateRateRevisionMode: validate: %w", err)
	}

	err := ms.execute(goCtx, types.TypeMsgUpdateRateRevisionMode, func(ctx context.Context) error {
		return ms.Keeper.UpdateRateRevisionMode(ctx, msg.Admin, msg.Mode)
	})
	if err != nil {
		return nil, err
	}

	return &types.MsgUpdateRateRevisionModeResponse{}, nil
}

// UpdateLockWaitTime handles timelock wait time changes
func (ms msgServer) UpdateLockWaitTime(goCtx context.Context, msg *types.MsgUpdateLockWaitTime) (*types.MsgUpdateLockWaitTimeResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("UpdateLockWaitTime: validate: %w", err)
	}

	err := ms.execute(goCtx, types.TypeMsgUpdateLockWaitTime, func(ctx context.Context) error {
		return ms.Keeper.UpdateLockWaitTime(ctx, msg.Admin, msg.Selector, msg.WaitTime)
	})
	if err != nil {
		return nil, err
	}

	return &types.MsgUpdateLockWaitTimeResponse{}, nil
}

// TransferAdmin handles handing over market administration
func (ms msgServer) TransferAdmin(goCtx context.Context, msg *types.MsgTransferAdmin) (*types.MsgTransferAdminResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("TransferAdmin: validate: %w", err)
	}

	err := ms.execute(goCtx, types.TypeMsgTransferAdmin, func(ctx context.Context) error {
		return ms.Keeper.TransferAdmin(ctx, msg.Admin, msg.NewAdmin)
	})
	if err != nil {
		return nil, err
	}

	return &types.MsgTransferAdminResponse{}, nil
}
