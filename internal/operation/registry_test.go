package operation

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gbax/gbax-core/internal/domain"
	"github.com/gbax/gbax-core/internal/event"
	"github.com/gbax/gbax-core/internal/tuning"
)

// mapTargets is a test double for TargetSource
type mapTargets map[string]*domain.SectorObject

func (m mapTargets) Target(id string) (*domain.SectorObject, bool) {
	obj, ok := m[id]
	return obj, ok
}

func asteroid(id string, health int) *domain.SectorObject {
	return &domain.SectorObject{
		ID:        id,
		Kind:      domain.ObjectAsteroid,
		Health:    health,
		MaxHealth: health,
		Resources: []domain.ResourceYieldSpec{
			{Resource: "iron", Min: 2, Max: 6},
		},
	}
}

func newTestRegistry(t *testing.T, targets mapTargets) (Registry, *event.MemoryBus) {
	t.Helper()
	bus := event.NewMemoryBus()
	cfg := tuning.Default()
	reg := NewRegistry(cfg.Operations, cfg.Rewards, targets, bus, 1)
	return reg, bus
}

func collectEvents(bus *event.MemoryBus, types ...event.Type) *[]event.Event {
	var events []event.Event
	for _, typ := range types {
		bus.Subscribe(typ, func(_ context.Context, e event.Event) error {
			events = append(events, e)
			return nil
		})
	}
	return &events
}

func TestStart_ConcurrencyCap(t *testing.T) {
	targets := mapTargets{}
	for _, id := range []string{"a1", "a2", "a3", "a4"} {
		targets[id] = asteroid(id, 100)
	}
	reg, _ := newTestRegistry(t, targets)
	ctx := context.Background()

	for i, id := range []string{"a1", "a2", "a3"} {
		_, err := reg.Start(ctx, "p1", domain.OperationMining, id, time.Second)
		require.NoError(t, err, "start %d", i)
	}

	// The 4th concurrent mining operation must reject.
	_, err := reg.Start(ctx, "p1", domain.OperationMining, "a4", time.Second)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCapacityExceeded)

	// The cap is per-kind: crafting is still allowed.
	_, err = reg.Start(ctx, "p1", domain.OperationCrafting, "recipe-hull", time.Second)
	assert.NoError(t, err)

	// And per-player: another player can still mine.
	_, err = reg.Start(ctx, "p2", domain.OperationMining, "a4", time.Second)
	assert.NoError(t, err)
}

func TestStart_CapFreedByCancelAndCompletion(t *testing.T) {
	targets := mapTargets{}
	for _, id := range []string{"a1", "a2", "a3", "a4", "a5"} {
		targets[id] = asteroid(id, 100)
	}
	reg, _ := newTestRegistry(t, targets)
	ctx := context.Background()

	op1, err := reg.Start(ctx, "p1", domain.OperationMining, "a1", time.Second)
	require.NoError(t, err)
	_, err = reg.Start(ctx, "p1", domain.OperationMining, "a2", time.Second)
	require.NoError(t, err)
	_, err = reg.Start(ctx, "p1", domain.OperationMining, "a3", 10*time.Second)
	require.NoError(t, err)

	// Cancel frees a slot.
	require.NoError(t, reg.Cancel(ctx, op1.ID))
	_, err = reg.Start(ctx, "p1", domain.OperationMining, "a4", time.Second)
	require.NoError(t, err)

	// Completion frees slots too.
	reg.Tick(ctx, time.Second)
	_, err = reg.Start(ctx, "p1", domain.OperationMining, "a5", time.Second)
	assert.NoError(t, err)
}

func TestStart_TargetLockedAndDepleted(t *testing.T) {
	targets := mapTargets{
		"a1":   asteroid("a1", 100),
		"dead": asteroid("dead", 0),
	}
	reg, _ := newTestRegistry(t, targets)
	ctx := context.Background()

	_, err := reg.Start(ctx, "p1", domain.OperationMining, "a1", time.Second)
	require.NoError(t, err)

	_, err = reg.Start(ctx, "p2", domain.OperationMining, "a1", time.Second)
	assert.ErrorIs(t, err, domain.ErrTargetLocked)

	_, err = reg.Start(ctx, "p2", domain.OperationMining, "dead", time.Second)
	assert.ErrorIs(t, err, domain.ErrTargetDepleted)

	_, err = reg.Start(ctx, "p2", domain.OperationMining, "missing", time.Second)
	assert.ErrorIs(t, err, domain.ErrTargetDepleted)
}

func TestTick_CompletionAndReward(t *testing.T) {
	obj := asteroid("a1", 100)
	reg, bus := newTestRegistry(t, mapTargets{"a1": obj})
	ctx := context.Background()
	completed := collectEvents(bus, event.OperationCompleted)

	op, err := reg.Start(ctx, "p1", domain.OperationMining, "a1", 4*time.Second)
	require.NoError(t, err)

	reg.Tick(ctx, 3*time.Second)
	assert.Empty(t, *completed)

	reg.Tick(ctx, time.Second)
	require.Len(t, *completed, 1)

	payload := (*completed)[0].Payload.(event.OperationCompletedPayloadV1)
	assert.Equal(t, op.ID.String(), payload.OperationID)
	assert.Equal(t, "p1", payload.PlayerID)
	require.NotEmpty(t, payload.Resources)
	assert.Equal(t, "iron", payload.Resources[0].Resource)
	assert.GreaterOrEqual(t, payload.Resources[0].Quantity, 2)
	assert.LessOrEqual(t, payload.Resources[0].Quantity, 6)
	assert.Equal(t, 25, payload.BaseXP)

	// Mining decrements target health.
	assert.Equal(t, 75, obj.Health)

	// No double completion: further ticks are a no-op for this operation.
	reg.Tick(ctx, 10*time.Second)
	assert.Len(t, *completed, 1)
	assert.Empty(t, reg.Active("p1"))
}

func TestTick_CompletionOrder(t *testing.T) {
	targets := mapTargets{
		"a1": asteroid("a1", 100),
		"a2": asteroid("a2", 100),
		"a3": asteroid("a3", 100),
	}
	reg, bus := newTestRegistry(t, targets)
	ctx := context.Background()
	completed := collectEvents(bus, event.OperationCompleted)

	// Registered in order a1, a2, a3 but a3 finishes first and a1/a2 tie.
	_, err := reg.Start(ctx, "p1", domain.OperationMining, "a1", 3*time.Second)
	require.NoError(t, err)
	_, err = reg.Start(ctx, "p1", domain.OperationMining, "a2", 3*time.Second)
	require.NoError(t, err)
	_, err = reg.Start(ctx, "p1", domain.OperationMining, "a3", time.Second)
	require.NoError(t, err)

	reg.Tick(ctx, 5*time.Second)
	require.Len(t, *completed, 3)

	ids := make([]string, 0, 3)
	for _, e := range *completed {
		ids = append(ids, e.Payload.(event.OperationCompletedPayloadV1).TargetID)
	}
	// Threshold order first, then registration order for the tie.
	assert.Equal(t, []string{"a3", "a1", "a2"}, ids)
}

func TestCancel(t *testing.T) {
	reg, bus := newTestRegistry(t, mapTargets{"a1": asteroid("a1", 100)})
	ctx := context.Background()
	cancelled := collectEvents(bus, event.OperationCancelled)
	completed := collectEvents(bus, event.OperationCompleted)

	op, err := reg.Start(ctx, "p1", domain.OperationMining, "a1", time.Second)
	require.NoError(t, err)

	require.NoError(t, reg.Cancel(ctx, op.ID))
	assert.Len(t, *cancelled, 1)

	// Cancelled operations never complete or reward.
	reg.Tick(ctx, 5*time.Second)
	assert.Empty(t, *completed)

	// Cancelling again reports not found.
	err = reg.Cancel(ctx, op.ID)
	assert.ErrorIs(t, err, domain.ErrOperationNotFound)

	err = reg.Cancel(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrOperationNotFound)
}

func TestCancel_ReleasesTargetLock(t *testing.T) {
	reg, _ := newTestRegistry(t, mapTargets{"a1": asteroid("a1", 100)})
	ctx := context.Background()

	op, err := reg.Start(ctx, "p1", domain.OperationMining, "a1", time.Second)
	require.NoError(t, err)
	require.NoError(t, reg.Cancel(ctx, op.ID))

	_, err = reg.Start(ctx, "p2", domain.OperationMining, "a1", time.Second)
	assert.NoError(t, err)
}

func TestStart_InvalidInput(t *testing.T) {
	reg, _ := newTestRegistry(t, mapTargets{})
	ctx := context.Background()

	_, err := reg.Start(ctx, "", domain.OperationMining, "a1", time.Second)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = reg.Start(ctx, "p1", domain.OperationMining, "", time.Second)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = reg.Start(ctx, "p1", domain.OperationMining, "a1", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
