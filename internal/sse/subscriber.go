package sse

import (
	"context"
	"log/slog"

	"github.com/gbax/gbax-core/internal/event"
)

// Subscriber bridges the internal event bus to the SSE hub so connected UIs
// see operation completions, level ups, and sync status in real time.
type Subscriber struct {
	hub *Hub
	bus event.Bus
}

// NewSubscriber creates a new SSE subscriber
func NewSubscriber(hub *Hub, bus event.Bus) *Subscriber {
	return &Subscriber{hub: hub, bus: bus}
}

// Subscribe registers handlers for all streamed event types
func (s *Subscriber) Subscribe() {
	s.bus.Subscribe(event.OperationCompleted, s.forward(EventTypeOperationCompleted))
	s.bus.Subscribe(event.LevelUp, s.forward(EventTypeLevelUp))
	s.bus.Subscribe(event.MissionCompleted, s.forward(EventTypeMissionCompleted))
	s.bus.Subscribe(event.EffectExpired, s.forward(EventTypeEffectExpired))
	s.bus.Subscribe(event.SyncStatusChanged, s.forward(EventTypeSyncStatus))

	slog.Info("SSE subscriber registered for event types",
		"types", []string{
			EventTypeOperationCompleted,
			EventTypeLevelUp,
			EventTypeMissionCompleted,
			EventTypeEffectExpired,
			EventTypeSyncStatus,
		})
}

// forward relays the bus payload to the hub verbatim. Payloads are versioned
// structs, so clients get a stable JSON shape.
func (s *Subscriber) forward(sseType string) event.Handler {
	return func(_ context.Context, evt event.Event) error {
		s.hub.Broadcast(sseType, evt.Payload)
		slog.Debug(LogMsgEventBroadcast, "event_type", sseType)
		return nil
	}
}
