package types

// Event types for the Timelock module
const (
	EventTypeLockCreated         = "lock_created"
	EventTypeLockDeleted         = "lock_deleted"
	EventTypeLockWaitTimeUpdated = "lock_wait_time_updated"
)

// Event attribute keys for the Timelock module
const (
	AttributeKeySelector        = "selector"
	AttributeKeyKey             = "key"
	AttributeKeyValue           = "i_value"
	AttributeKeyUnlockTime      = "unlock_time"
	AttributeKeyPrevWaitTime    = "prev_lock_time"
	AttributeKeyUpdatedWaitTime = "updated_lock_time"
	AttributeKeyReason          = "reason"
)

// Reasons attached to lock_deleted events.
const (
	DeleteReasonCancelled = "cancelled"
	DeleteReasonFinalized = "finalized"
)
