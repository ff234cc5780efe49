package types

import (
	sdkerrors "cosmossdk.io/errors"
)

// Market module sentinel errors

var (
	// Authorization errors
	ErrUnauthorized = sdkerrors.Register(ModuleName, 2, "unauthorized")

	// Validation errors
	ErrInvalidAddress         = sdkerrors.Register(ModuleName, 10, "invalid address")
	ErrInvalidRate            = sdkerrors.Register(ModuleName, 11, "invalid rate")
	ErrInvalidAmount          = sdkerrors.Register(ModuleName, 12, "invalid amount")
	ErrInvalidMetadata        = sdkerrors.Register(ModuleName, 13, "invalid job metadata")
	ErrInvalidDenom           = sdkerrors.Register(ModuleName, 14, "invalid denom")
	ErrInvalidControlPlaneURL = sdkerrors.Register(ModuleName, 15, "invalid control plane URL")
	ErrInvalidRevisionMode    = sdkerrors.Register(ModuleName, 16, "invalid rate revision mode")
	ErrWrongRevisionMode      = sdkerrors.Register(ModuleName, 17, "rate revision mode not active")
	ErrInvalidGenesis         = sdkerrors.Register(ModuleName, 18, "invalid genesis state")

	// Job lifecycle errors
	ErrJobNotFound       = sdkerrors.Register(ModuleName, 20, "job not found")
	ErrJobAlreadyExists  = sdkerrors.Register(ModuleName, 21, "job already exists")
	ErrMarketHasOpenJobs = sdkerrors.Register(ModuleName, 22, "market has open jobs")
	ErrMarketNotFound    = sdkerrors.Register(ModuleName, 23, "market not initialized")

	// Funds errors
	ErrInsufficientBalance = sdkerrors.Register(ModuleName, 30, "insufficient balance")
	ErrSettlementShortfall = sdkerrors.Register(ModuleName, 31, "settlement shortfall")
	ErrBalanceOverflow     = sdkerrors.Register(ModuleName, 32, "job balance overflows")
	ErrTransferFailed      = sdkerrors.Register(ModuleName, 33, "escrow transfer failed")
	ErrTimestampOverflow   = sdkerrors.Register(ModuleName, 34, "timestamp overflows")

	// Provider errors
	ErrProviderAlreadyExists = sdkerrors.Register(ModuleName, 40, "provider already exists")
	ErrProviderNotFound      = sdkerrors.Register(ModuleName, 41, "provider not found")

	// Rate revision errors
	ErrNoPendingRevision = sdkerrors.Register(ModuleName, 50, "no pending rate revision")
)
