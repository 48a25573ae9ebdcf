package eventlog

// Query bounds
const (
	DefaultQueryLimit = 50
	MaxQueryLimit     = 500
)

// Log messages
const (
	LogMsgPayloadNotSerializable = "Event payload not serializable, skipping audit"
	LogMsgFailedToLogEvent       = "Failed to persist event"
	LogMsgCleanupJobFailed       = "Event audit cleanup failed"
	LogMsgCleanupJobCompleted    = "Event audit cleanup completed"
)
