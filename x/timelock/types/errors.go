package types

import (
	sdkerrors "cosmossdk.io/errors"
)

// Timelock module sentinel errors
var (
	ErrInvalidSelector    = sdkerrors.Register(ModuleName, 2, "invalid lock selector")
	ErrInvalidKey         = sdkerrors.Register(ModuleName, 3, "invalid lock key")
	ErrLockAlreadyExists  = sdkerrors.Register(ModuleName, 4, "lock already exists")
	ErrLockNotFound       = sdkerrors.Register(ModuleName, 5, "lock not found")
	ErrLockNotMature      = sdkerrors.Register(ModuleName, 6, "lock not yet unlocked")
	ErrUnauthorized       = sdkerrors.Register(ModuleName, 7, "unauthorized")
	ErrInvalidGenesis     = sdkerrors.Register(ModuleName, 8, "invalid genesis state")
	ErrUnlockTimeOverflow = sdkerrors.Register(ModuleName, 9, "unlock time overflows")
)
