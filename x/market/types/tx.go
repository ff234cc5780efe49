package types

import "context"

// MsgServer is the transaction surface of the market module.
type MsgServer interface {
	JobOpen(context.Context, *MsgJobOpen) (*MsgJobOpenResponse, error)
	JobSettle(context.Context, *MsgJobSettle) (*MsgJobSettleResponse, error)
	JobDeposit(context.Context, *MsgJobDeposit) (*MsgJobDepositResponse, error)
	JobWithdraw(context.Context, *MsgJobWithdraw) (*MsgJobWithdrawResponse, error)
	JobClose(context.Context, *MsgJobClose) (*MsgJobCloseResponse, error)

	JobReviseRate(context.Context, *MsgJobReviseRate) (*MsgJobReviseRateResponse, error)
	JobReviseRateInitiate(context.Context, *MsgJobReviseRateInitiate) (*MsgJobReviseRateInitiateResponse, error)
	JobReviseRateCancel(context.Context, *MsgJobReviseRateCancel) (*MsgJobReviseRateCancelResponse, error)
	JobReviseRateFinalize(context.Context, *MsgJobReviseRateFinalize) (*MsgJobReviseRateFinalizeResponse, error)

	ProviderAdd(context.Context, *MsgProviderAdd) (*MsgProviderAddResponse, error)
	ProviderRemove(context.Context, *MsgProviderRemove) (*MsgProviderRemoveResponse, error)
	ProviderUpdateWithCp(context.Context, *MsgProviderUpdateWithCp) (*MsgProviderUpdateWithCpResponse, error)

	SetCreditAllowance(context.Context, *MsgSetCreditAllowance) (*MsgSetCreditAllowanceResponse, error)

	UpdateToken(context.Context, *MsgUpdateToken) (*MsgUpdateTokenResponse, error)
	UpdateCreditToken(context.Context, *MsgUpdateCreditToken) (*MsgUpdateCreditTokenResponse, error)
	UpdateNoticePeriod(context.Context, *MsgUpdateNoticePeriod) (*MsgUpdateNoticePeriodResponse, error)
	UpdateRateRevisionMode(context.Context, *MsgUpdateRateRevisionMode) (*MsgUpdateRateRevisionModeResponse, error)
	UpdateLockWaitTime(context.Context, *MsgUpdateLockWaitTime) (*MsgUpdateLockWaitTimeResponse, error)
	TransferAdmin(context.Context, *MsgTransferAdmin) (*MsgTransferAdminResponse, error)
}
