package types

const (
	// ModuleName defines the module name
	ModuleName = "timelock"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// RouterKey is the message route for timelock
	RouterKey = ModuleName

	// MaxSelectorLength bounds selectors so they can be length-prefixed in store keys.
	MaxSelectorLength = 255

	// MaxLockKeyLength bounds the instance key of a lock.
	MaxLockKeyLength = 255
)
