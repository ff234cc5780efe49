// Package keeper provides shared keeper interfaces and utilities for cross-module communication.
package keeper

import (
	errorsmod "cosmossdk.io/errors"
	govtypes "github.com/cosmos/cosmos-sdk/x/gov/types"
)

// ValidateAuthority checks that the provided authority matches the expected authority.
// This is used for governance-only operations like wait-time updates.
//
// Usage example:
//
//	if err := keeper.ValidateAuthority(ms.authority, msg.Authority); err != nil {
//	    return nil, err
//	}
func ValidateAuthority(expected, actual string) error {
	if expected != actual {
		return govtypes.ErrInvalidSigner.Wrapf(
			"invalid authority; expected %s, got %s",
			expected,
			actual,
		)
	}
	return nil
}

// ValidateSigner checks that the signer of a message is the account recorded
// as the holder of a role (market admin, job owner). The mismatch is reported
// with the caller's module error so that each module keeps its own code space.
func ValidateSigner(role, expected, actual string, unauthorized *errorsmod.Error) error {
	if expected == "" || expected != actual {
		return unauthorized.Wrapf("signer %s is not the %s (%s)", actual, role, expected)
	}
	return nil
}
