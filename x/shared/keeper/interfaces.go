// Package keeper provides shared keeper interfaces for cross-module communication.
// Versioned interfaces allow stable API contracts between modules.
package keeper

import (
	"context"
)

// =============================================================================
// Timelock Keeper Interfaces (Versioned)
// =============================================================================

// TimelockKeeperV1 defines the timelock keeper interface for cross-module use.
// Modules should depend on this interface rather than the concrete keeper.
type TimelockKeeperV1 interface {
	// CreateLock stages value under (selector, key) and returns the unlock time.
	CreateLock(ctx context.Context, selector string, key []byte, value uint64) (uint64, error)

	// CancelLock destroys a pending lock regardless of maturity and returns its value.
	CancelLock(ctx context.Context, selector string, key []byte) (uint64, error)

	// FinalizeLock consumes a matured lock and returns its value.
	FinalizeLock(ctx context.Context, selector string, key []byte) (uint64, error)

	// PeekLock returns the value and unlock time of a pending lock without consuming it.
	PeekLock(ctx context.Context, selector string, key []byte) (value, unlockTime uint64, found bool)

	// SetWaitTime changes the delay applied to future locks of selector.
	SetWaitTime(ctx context.Context, selector string, waitTime uint64) error

	// GetWaitTime returns the delay applied to locks of selector.
	GetWaitTime(ctx context.Context, selector string) uint64
}

// TimelockKeeperV1Extended extends V1 with lock duplication.
type TimelockKeeperV1Extended interface {
	TimelockKeeperV1

	// CloneLock copies a pending lock to another key without resetting its timer.
	CloneLock(ctx context.Context, selector string, fromKey, toKey []byte) error
}
