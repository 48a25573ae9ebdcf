package eventlog

import (
	"context"
	"time"
)

// Entry is one persisted event.
type Entry struct {
	ID        int64                  `json:"id"`
	EventType string                 `json:"event_type"`
	PlayerID  *string                `json:"player_id,omitempty"`
	Payload   map[string]interface{} `json:"payload"`
	CreatedAt time.Time              `json:"created_at"`
}

// Filter narrows audit queries.
type Filter struct {
	PlayerID  *string
	EventType *string
	Since     *time.Time
	Limit     int
}

// Repository defines the interface for event audit storage.
type Repository interface {
	// Log stores an event.
	Log(ctx context.Context, eventType string, playerID *string, payload []byte) error

	// Recent retrieves entries matching the filter, newest first.
	Recent(ctx context.Context, filter Filter) ([]Entry, error)

	// CleanupOldEntries removes entries older than the given number of days
	// and returns how many were deleted.
	CleanupOldEntries(ctx context.Context, retentionDays int) (int64, error)
}
