package domain

// Event type names published on the event bus. The sse hub forwards these to
// UI consumers verbatim.
const (
	EventOperationStarted   = "operation.started"
	EventOperationCompleted = "operation.completed"
	EventOperationCancelled = "operation.cancelled"
	EventEffectAdded        = "effect.added"
	EventEffectExpired      = "effect.expired"
	EventSyncStatusChanged  = "sync.status_changed"
	EventExperienceGained   = "experience.gained"
	EventLevelUp            = "level.up"
	EventMissionCompleted   = "mission.completed"
	EventLoyaltyAwarded     = "loyalty.awarded"
)
