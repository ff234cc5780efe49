package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"
)

var (
	// MarketKey is the key for the market configuration
	MarketKey = []byte{0x01}

	// JobKeyPrefix is the prefix for job storage
	JobKeyPrefix = []byte{0x02}

	// JobsByOwnerPrefix is the prefix for indexing jobs by owner
	// Key: prefix + len(owner) + owner + jobIndex
	JobsByOwnerPrefix = []byte{0x03}

	// JobsByProviderPrefix is the prefix for indexing jobs by provider
	// Key: prefix + len(provider) + provider + jobIndex
	JobsByProviderPrefix = []byte{0x04}

	// ProviderKeyPrefix is the prefix for provider storage
	ProviderKeyPrefix = []byte{0x05}

	// CreditAllowanceKeyPrefix is the prefix for owner credit allowances
	CreditAllowanceKeyPrefix = []byte{0x06}
)

func concat(parts ...[]byte) []byte {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	key := make([]byte, 0, n)
	for _, p := range parts {
		key = append(key, p...)
	}
	return key
}

// JobKey returns the store key for a job
func JobKey(jobIndex uint64) []byte {
	return concat(JobKeyPrefix, sdk.Uint64ToBigEndian(jobIndex))
}

// JobRateLockKey returns the timelock key under which a job's staged rate is kept.
func JobRateLockKey(jobIndex uint64) []byte {
	return sdk.Uint64ToBigEndian(jobIndex)
}

// JobsByOwnerPrefixFor returns the index prefix of all jobs of owner
func JobsByOwnerPrefixFor(owner sdk.AccAddress) []byte {
	return concat(JobsByOwnerPrefix, address.MustLengthPrefix(owner))
}

// JobByOwnerKey returns the index key for a job by owner
func JobByOwnerKey(owner sdk.AccAddress, jobIndex uint64) []byte {
	return concat(JobsByOwnerPrefixFor(owner), sdk.Uint64ToBigEndian(jobIndex))
}

// JobsByProviderPrefixFor returns the index prefix of all jobs of provider
func JobsByProviderPrefixFor(provider sdk.AccAddress) []byte {
	return concat(JobsByProviderPrefix, address.MustLengthPrefix(provider))
}

// JobByProviderKey returns the index key for a job by provider
func JobByProviderKey(provider sdk.AccAddress, jobIndex uint64) []byte {
	return concat(JobsByProviderPrefixFor(provider), sdk.Uint64ToBigEndian(jobIndex))
}

// ProviderKey returns the store key for a provider
func ProviderKey(provider sdk.AccAddress) []byte {
	return concat(ProviderKeyPrefix, provider.Bytes())
}

// CreditAllowanceKey returns the store key for an owner's credit allowance
func CreditAllowanceKey(owner sdk.AccAddress) []byte {
	return concat(CreditAllowanceKeyPrefix, owner.Bytes())
}
