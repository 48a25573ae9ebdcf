package domain

import (
	"time"

	"github.com/google/uuid"
)

// OperationKind identifies the activity an operation performs
type OperationKind string

const (
	OperationMining   OperationKind = "mining"
	OperationCrafting OperationKind = "crafting"
)

// OperationStatus is the lifecycle state of a timed operation
type OperationStatus string

const (
	OperationPending   OperationStatus = "pending"
	OperationRunning   OperationStatus = "running"
	OperationCompleted OperationStatus = "completed"
	OperationCancelled OperationStatus = "cancelled"
)

// Operation is a player-scoped, time-boxed activity tracked by the operation
// registry. Duration is fixed at creation and never mutated; only the registry's
// tick advances Elapsed and transitions Status.
type Operation struct {
	ID        uuid.UUID       `json:"id"`
	PlayerID  string          `json:"player_id"`
	TargetID  string          `json:"target_id"`
	Kind      OperationKind   `json:"kind"`
	Status    OperationStatus `json:"status"`
	StartedAt time.Time       `json:"started_at"`
	Duration  time.Duration   `json:"duration"`
	Elapsed   time.Duration   `json:"elapsed"`
	// Seq orders completions when several operations cross their threshold in
	// the same tick pass (registration order wins ties).
	Seq uint64 `json:"-"`
}

// Remaining returns the time left before the operation completes.
func (o *Operation) Remaining() time.Duration {
	if o.Elapsed >= o.Duration {
		return 0
	}
	return o.Duration - o.Elapsed
}

// ResourceStack is a quantity of a single resource type.
type ResourceStack struct {
	Resource string `json:"resource"`
	Quantity int    `json:"quantity"`
}

// Reward describes what a completed operation yields before bonuses apply.
type Reward struct {
	OperationID uuid.UUID       `json:"operation_id"`
	PlayerID    string          `json:"player_id"`
	Kind        OperationKind   `json:"kind"`
	Resources   []ResourceStack `json:"resources"`
	BaseXP      int             `json:"base_xp"`
}
