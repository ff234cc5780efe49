package types

// Event types for the Market module
// All event types use lowercase with underscore separator
const (
	// Job events
	EventTypeJobOpened      = "job_opened"
	EventTypeJobSettled     = "job_settled"
	EventTypeJobDeposited   = "job_deposited"
	EventTypeJobWithdrew    = "job_withdrew"
	EventTypeJobRateRevised = "job_rate_revised"
	EventTypeJobClosed      = "job_closed"

	// Staged rate revision events
	EventTypeJobReviseRateInitiated = "job_revise_rate_initiated"
	EventTypeJobReviseRateCancelled = "job_revise_rate_cancelled"
	EventTypeJobReviseRateFinalized = "job_revise_rate_finalized"

	// Provider events
	EventTypeProviderAdded         = "provider_added"
	EventTypeProviderRemoved       = "provider_removed"
	EventTypeProviderUpdatedWithCp = "provider_updated_with_cp"

	// Market administration events
	EventTypeTokenUpdated            = "token_updated"
	EventTypeCreditTokenUpdated      = "credit_token_updated"
	EventTypeNoticePeriodUpdated     = "notice_period_updated"
	EventTypeRateRevisionModeUpdated = "rate_revision_mode_updated"
	EventTypeAdminTransferred        = "admin_transferred"
	EventTypeCreditAllowanceSet      = "credit_allowance_set"
)

// Event attribute keys for the Market module
const (
	AttributeKeyJob          = "job"
	AttributeKeyOwner        = "owner"
	AttributeKeyProvider     = "provider"
	AttributeKeySender       = "sender"
	AttributeKeyMetadata     = "metadata"
	AttributeKeyRate         = "rate"
	AttributeKeyNewRate      = "new_rate"
	AttributeKeyOldRate      = "old_rate"
	AttributeKeyBalance      = "balance"
	AttributeKeyAmount       = "amount"
	AttributeKeyCreditAmount = "credit_amount"
	AttributeKeyTimestamp    = "timestamp"
	AttributeKeyUnlockTime   = "unlock_time"
	AttributeKeyCp           = "cp"
	AttributeKeyOld          = "old"
	AttributeKeyNew          = "new"
	AttributeKeyLimit        = "limit"
)
