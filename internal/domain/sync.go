package domain

import "time"

// SyncStatus is the synchronizer's per-player state machine.
type SyncStatus string

const (
	SyncIdle    SyncStatus = "idle"
	SyncSyncing SyncStatus = "syncing"
)

// SyncRecord tracks the outcome of the most recent sync attempt. It drives UI
// status only and never gates gameplay correctness.
type SyncRecord struct {
	PlayerID            string     `json:"player_id"`
	Status              SyncStatus `json:"status"`
	LastSyncTime        time.Time  `json:"last_sync_time"`
	LastSuccess         bool       `json:"last_success"`
	HasLocalProgress    bool       `json:"has_local_progress"`
	HasRemoteProgress   bool       `json:"has_remote_progress"`
	ConflictFields      []string   `json:"conflict_fields,omitempty"`
	ConsecutiveFailures int        `json:"consecutive_failures"`
}

// SyncResult is returned by an explicit sync call. Remote failures surface
// here as Success=false, never as an error.
type SyncResult struct {
	Success        bool     `json:"success"`
	ConflictFields []string `json:"conflict_fields,omitempty"`
}
