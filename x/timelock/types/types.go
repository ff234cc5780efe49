package types

import (
	"fmt"
)

// Lock is a pending delayed action. The record exists from creation until it
// is cancelled or finalized; UnlockTime is fixed at creation.
type Lock struct {
	Selector   string `json:"selector"`
	Key        []byte `json:"key"`
	UnlockTime uint64 `json:"unlock_time"`
	Value      uint64 `json:"i_value"`
}

// IsMature reports whether the lock may be finalized at now.
func (l Lock) IsMature(now uint64) bool {
	return now >= l.UnlockTime
}

// Validate checks the addressing fields of a lock.
func (l Lock) Validate() error {
	if err := ValidateSelector(l.Selector); err != nil {
		return err
	}
	return ValidateLockKey(l.Key)
}

// WaitTime is the delay applied to new locks of a selector.
type WaitTime struct {
	Selector string `json:"selector"`
	WaitTime uint64 `json:"wait_time"`
}

// ValidateSelector checks that a selector is usable as a store key component.
func ValidateSelector(selector string) error {
	if selector == "" {
		return ErrInvalidSelector.Wrap("selector cannot be empty")
	}
	if len(selector) > MaxSelectorLength {
		return ErrInvalidSelector.Wrapf("selector length %d exceeds %d", len(selector), MaxSelectorLength)
	}
	return nil
}

// ValidateLockKey checks the instance key of a lock.
func ValidateLockKey(key []byte) error {
	if len(key) == 0 {
		return ErrInvalidKey.Wrap("key cannot be empty")
	}
	if len(key) > MaxLockKeyLength {
		return ErrInvalidKey.Wrapf("key length %d exceeds %d", len(key), MaxLockKeyLength)
	}
	return nil
}

// LockID renders (selector, key) for logs and events.
func LockID(selector string, key []byte) string {
	return fmt.Sprintf("%s/%X", selector, key)
}
