package eventlog

import (
	"context"
	"encoding/json"

	"github.com/gbax/gbax-core/internal/event"
	"github.com/gbax/gbax-core/internal/logger"
)

// Service persists every bus event for audit and balancing analysis. Entries
// are written on the publisher's goroutine, so the repository write must stay
// cheap; failures are logged and surfaced to the bus, never panicked.
type Service interface {
	// Subscribe registers the audit logger on every event type.
	Subscribe(bus event.Bus) error

	// Recent retrieves entries matching the filter, newest first.
	Recent(ctx context.Context, filter Filter) ([]Entry, error)

	// CleanupOldEntries removes entries older than the retention period.
	CleanupOldEntries(ctx context.Context, retentionDays int) (int64, error)
}

type service struct {
	repo Repository
}

// NewService creates a new event audit service
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Subscribe registers the handler for every event type the system publishes.
func (s *service) Subscribe(bus event.Bus) error {
	eventTypes := []event.Type{
		event.OperationStarted,
		event.OperationCompleted,
		event.OperationCancelled,
		event.EffectAdded,
		event.EffectExpired,
		event.SyncStatusChanged,
		event.ExperienceGained,
		event.LevelUp,
		event.MissionCompleted,
		event.LoyaltyAwarded,
	}

	for _, eventType := range eventTypes {
		bus.Subscribe(eventType, s.handleEvent)
	}

	return nil
}

// playerIDProbe pulls the player identifier out of any versioned payload.
type playerIDProbe struct {
	PlayerID string `json:"player_id"`
}

func (s *service) handleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	raw, err := json.Marshal(evt.Payload)
	if err != nil {
		log.Warn(LogMsgPayloadNotSerializable, "type", evt.Type, "error", err)
		return nil
	}

	var playerID *string
	var probe playerIDProbe
	if err := json.Unmarshal(raw, &probe); err == nil && probe.PlayerID != "" {
		playerID = &probe.PlayerID
	}

	if err := s.repo.Log(ctx, string(evt.Type), playerID, raw); err != nil {
		log.Error(LogMsgFailedToLogEvent, "error", err, "type", evt.Type)
		return err
	}

	return nil
}

func (s *service) Recent(ctx context.Context, filter Filter) ([]Entry, error) {
	if filter.Limit <= 0 || filter.Limit > MaxQueryLimit {
		filter.Limit = DefaultQueryLimit
	}
	return s.repo.Recent(ctx, filter)
}

func (s *service) CleanupOldEntries(ctx context.Context, retentionDays int) (int64, error) {
	return s.repo.CleanupOldEntries(ctx, retentionDays)
}
