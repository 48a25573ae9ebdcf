package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gbax/gbax-core/internal/domain"
)

// Type represents the type of an event
type Type string

// Common event types, mirrored from domain so subscribers can use either form.
const (
	OperationStarted   Type = domain.EventOperationStarted
	OperationCompleted Type = domain.EventOperationCompleted
	OperationCancelled Type = domain.EventOperationCancelled
	EffectAdded        Type = domain.EventEffectAdded
	EffectExpired      Type = domain.EventEffectExpired
	SyncStatusChanged  Type = domain.EventSyncStatusChanged
	ExperienceGained   Type = domain.EventExperienceGained
	LevelUp            Type = domain.EventLevelUp
	MissionCompleted   Type = domain.EventMissionCompleted
	LoyaltyAwarded     Type = domain.EventLoyaltyAwarded
)

// Event represents a generic event in the system
type Event struct {
	Version string      `json:"version"` // Event schema version (e.g., "1.0")
	Type    Type        `json:"type"`
	Payload interface{} `json:"payload"`
}

// Typed event payloads for type safety

// OperationPayloadV1 carries operation lifecycle transitions.
type OperationPayloadV1 struct {
	OperationID string `json:"operation_id"`
	PlayerID    string `json:"player_id"`
	Kind        string `json:"kind"`
	TargetID    string `json:"target_id"`
	Timestamp   int64  `json:"timestamp"`
}

// OperationCompletedPayloadV1 carries the reward descriptor for a completed
// operation. Resources and XP are pre-bonus base values; the reward pipeline
// applies the aggregated multipliers downstream.
type OperationCompletedPayloadV1 struct {
	OperationID string                 `json:"operation_id"`
	PlayerID    string                 `json:"player_id"`
	Kind        string                 `json:"kind"`
	TargetID    string                 `json:"target_id"`
	Resources   []domain.ResourceStack `json:"resources"`
	BaseXP      int                    `json:"base_xp"`
	Timestamp   int64                  `json:"timestamp"`
}

// EffectPayloadV1 carries effect ledger changes.
type EffectPayloadV1 struct {
	EffectID   string  `json:"effect_id"`
	Label      string  `json:"label"`
	Domain     string  `json:"domain"`
	Multiplier float64 `json:"multiplier"`
	Timestamp  int64   `json:"timestamp"`
}

// SyncStatusPayloadV1 carries synchronizer status transitions.
type SyncStatusPayloadV1 struct {
	PlayerID       string   `json:"player_id"`
	Success        bool     `json:"success"`
	ConflictFields []string `json:"conflict_fields,omitempty"`
	Timestamp      int64    `json:"timestamp"`
}

// ExperiencePayloadV1 carries experience and level changes.
type ExperiencePayloadV1 struct {
	PlayerID string `json:"player_id"`
	Delta    int64  `json:"delta"`
	Total    int64  `json:"total"`
	OldLevel int    `json:"old_level"`
	NewLevel int    `json:"new_level"`
	Source   string `json:"source,omitempty"`
}

// MissionCompletedPayloadV1 carries mission completion.
type MissionCompletedPayloadV1 struct {
	PlayerID  string `json:"player_id"`
	MissionID string `json:"mission_id"`
	Name      string `json:"name"`
	RewardXP  int    `json:"reward_xp"`
	Timestamp int64  `json:"timestamp"`
}

// LoyaltyAwardedPayloadV1 carries loyalty point awards.
type LoyaltyAwardedPayloadV1 struct {
	PlayerID string `json:"player_id"`
	Points   int64  `json:"points"`
	Total    int64  `json:"total"`
	Tier     string `json:"tier"`
}

// Type-safe event constructors

// NewOperationStartedEvent creates a new operation started event
func NewOperationStartedEvent(op *domain.Operation) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    OperationStarted,
		Payload: OperationPayloadV1{
			OperationID: op.ID.String(),
			PlayerID:    op.PlayerID,
			Kind:        string(op.Kind),
			TargetID:    op.TargetID,
			Timestamp:   time.Now().Unix(),
		},
	}
}

// NewOperationCompletedEvent creates a new operation completed event with its
// reward descriptor
func NewOperationCompletedEvent(op *domain.Operation, reward domain.Reward) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    OperationCompleted,
		Payload: OperationCompletedPayloadV1{
			OperationID: op.ID.String(),
			PlayerID:    op.PlayerID,
			Kind:        string(op.Kind),
			TargetID:    op.TargetID,
			Resources:   reward.Resources,
			BaseXP:      reward.BaseXP,
			Timestamp:   time.Now().Unix(),
		},
	}
}

// NewOperationCancelledEvent creates a new operation cancelled event
func NewOperationCancelledEvent(op *domain.Operation) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    OperationCancelled,
		Payload: OperationPayloadV1{
			OperationID: op.ID.String(),
			PlayerID:    op.PlayerID,
			Kind:        string(op.Kind),
			TargetID:    op.TargetID,
			Timestamp:   time.Now().Unix(),
		},
	}
}

// NewEffectAddedEvent creates a new effect added event
func NewEffectAddedEvent(eff *domain.Effect) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    EffectAdded,
		Payload: effectPayload(eff),
	}
}

// NewEffectExpiredEvent creates a new effect expired event
func NewEffectExpiredEvent(eff *domain.Effect) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    EffectExpired,
		Payload: effectPayload(eff),
	}
}

func effectPayload(eff *domain.Effect) EffectPayloadV1 {
	return EffectPayloadV1{
		EffectID:   eff.ID.String(),
		Label:      eff.Label,
		Domain:     string(eff.Domain),
		Multiplier: eff.Multiplier,
		Timestamp:  time.Now().Unix(),
	}
}

// NewSyncStatusEvent creates a new sync status changed event
func NewSyncStatusEvent(playerID string, success bool, conflicts []string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    SyncStatusChanged,
		Payload: SyncStatusPayloadV1{
			PlayerID:       playerID,
			Success:        success,
			ConflictFields: conflicts,
			Timestamp:      time.Now().Unix(),
		},
	}
}

// NewExperienceGainedEvent creates a new experience gained event
func NewExperienceGainedEvent(playerID string, delta, total int64, oldLevel, newLevel int, source string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    ExperienceGained,
		Payload: ExperiencePayloadV1{
			PlayerID: playerID,
			Delta:    delta,
			Total:    total,
			OldLevel: oldLevel,
			NewLevel: newLevel,
			Source:   source,
		},
	}
}

// NewLevelUpEvent creates a new level up event
func NewLevelUpEvent(playerID string, total int64, oldLevel, newLevel int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    LevelUp,
		Payload: ExperiencePayloadV1{
			PlayerID: playerID,
			Total:    total,
			OldLevel: oldLevel,
			NewLevel: newLevel,
		},
	}
}

// NewMissionCompletedEvent creates a new mission completed event
func NewMissionCompletedEvent(m *domain.Mission) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    MissionCompleted,
		Payload: MissionCompletedPayloadV1{
			PlayerID:  m.PlayerID,
			MissionID: m.ID,
			Name:      m.Name,
			RewardXP:  m.RewardXP,
			Timestamp: time.Now().Unix(),
		},
	}
}

// NewLoyaltyAwardedEvent creates a new loyalty awarded event
func NewLoyaltyAwardedEvent(playerID string, points, total int64, tier string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    LoyaltyAwarded,
		Payload: LoyaltyAwardedPayloadV1{
			PlayerID: playerID,
			Points:   points,
			Total:    total,
			Tier:     tier,
		},
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers. Handlers run synchronously
// on the caller's goroutine; completion ordering within a tick is preserved
// because the registry publishes in threshold order.
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers, ok := b.handlers[event.Type]
	b.mu.RUnlock()

	if !ok {
		return nil
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("encountered %d errors while handling event %s: %v", len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
