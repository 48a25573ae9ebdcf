package sse

import "time"

// Buffer sizes
const (
	// BroadcastBufferSize is the buffer size for the broadcast channel
	BroadcastBufferSize = 100

	// ClientEventBuffer is the buffer size for each client's event channel
	ClientEventBuffer = 50

	// ClientChannelBuffer is the buffer size for register/unregister channels
	ClientChannelBuffer = 10
)

// SSE connection settings
const (
	// KeepaliveInterval is how often to send keepalive pings
	KeepaliveInterval = 30 * time.Second
)

// Event types for SSE
const (
	// EventTypeOperationCompleted is sent when a timed operation finishes
	EventTypeOperationCompleted = "operation.completed"

	// EventTypeLevelUp is sent when a player's level changes
	EventTypeLevelUp = "level.up"

	// EventTypeMissionCompleted is sent when a mission reaches its target
	EventTypeMissionCompleted = "mission.completed"

	// EventTypeEffectExpired is sent when a timed effect lapses
	EventTypeEffectExpired = "effect.expired"

	// EventTypeSyncStatus is sent when a remote sync attempt resolves
	EventTypeSyncStatus = "sync.status_changed"

	// EventTypeKeepalive is the keepalive ping event type
	EventTypeKeepalive = "keepalive"
)

// Log messages
const (
	LogMsgClientConnected    = "SSE client connected"
	LogMsgClientDisconnected = "SSE client disconnected"
	LogMsgEventBroadcast     = "Broadcasting SSE event"
	LogMsgWriteError         = "Failed to write SSE event"
)
