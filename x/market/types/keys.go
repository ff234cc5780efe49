package types

const (
	// ModuleName defines the module name
	ModuleName = "market"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// RouterKey is the message route for market
	RouterKey = ModuleName

	// RateLockSelector is the timelock selector under which staged rate
	// revisions are kept, keyed by job index.
	RateLockSelector = "RATE_LOCK"

	// MaxMetadataLength bounds the job metadata string in bytes.
	MaxMetadataLength = 4096

	// MaxControlPlaneURLLength bounds a provider's control plane URL.
	MaxControlPlaneURLLength = 2048
)
