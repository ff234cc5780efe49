package keeper

var (
	// LockKeyPrefix is the prefix for pending lock storage.
	// Key: prefix + len(selector) + selector + key
	LockKeyPrefix = []byte{0x01}

	// WaitTimeKeyPrefix is the prefix for per-selector wait times.
	// Key: prefix + selector
	WaitTimeKeyPrefix = []byte{0x02}
)

// LockKey returns the store key for the lock identified by (selector, key).
// The selector is length-prefixed so distinct pairs never share a key.
func LockKey(selector string, key []byte) []byte {
	bz := make([]byte, 0, len(LockKeyPrefix)+1+len(selector)+len(key))
	bz = append(bz, LockSelectorPrefix(selector)...)
	return append(bz, key...)
}

// LockSelectorPrefix returns the prefix shared by all locks of a selector.
func LockSelectorPrefix(selector string) []byte {
	bz := make([]byte, 0, len(LockKeyPrefix)+1+len(selector))
	bz = append(bz, LockKeyPrefix...)
	bz = append(bz, byte(len(selector)))
	return append(bz, selector...)
}

// WaitTimeKey returns the store key for the wait time of a selector.
func WaitTimeKey(selector string) []byte {
	key := make([]byte, 0, len(WaitTimeKeyPrefix)+len(selector))
	key = append(key, WaitTimeKeyPrefix...)
	return append(key, selector...)
}
