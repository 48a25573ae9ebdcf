package operation

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gbax/gbax-core/internal/domain"
	"github.com/gbax/gbax-core/internal/event"
	"github.com/gbax/gbax-core/internal/logger"
	"github.com/gbax/gbax-core/internal/metrics"
	"github.com/gbax/gbax-core/internal/tuning"
)

// TargetSource resolves operation targets to sector objects. Crafting targets
// (recipe keys) are allowed to not resolve; mining targets must.
type TargetSource interface {
	Target(id string) (*domain.SectorObject, bool)
}

// Registry tracks in-flight, player-scoped, time-boxed operations and
// advances them on Tick. Rejections come back as typed errors, never panics;
// the caller decides whether to retry.
type Registry interface {
	// Start begins a new operation. Rejects with domain.ErrCapacityExceeded,
	// domain.ErrTargetDepleted, or domain.ErrTargetLocked.
	Start(ctx context.Context, playerID string, kind domain.OperationKind, targetID string, duration time.Duration) (*domain.Operation, error)

	// Tick advances all active operations by delta and completes the ones
	// that reach their duration. Completions are processed in the order they
	// cross the threshold; ties resolve in registration order.
	Tick(ctx context.Context, delta time.Duration)

	// Cancel transitions an active operation to cancelled. No reward.
	Cancel(ctx context.Context, id uuid.UUID) error

	// Active returns the player's in-flight operations.
	Active(playerID string) []*domain.Operation
}

type registry struct {
	mu      sync.Mutex
	active  map[uuid.UUID]*domain.Operation
	byOwner map[string]map[domain.OperationKind]int
	locked  map[string]uuid.UUID // targetID -> operation holding it
	nextSeq uint64

	cfg     tuning.OperationTuning
	rewards map[string]tuning.RewardSpec
	targets TargetSource
	bus     event.Bus
	rng     *rand.Rand
}

// NewRegistry creates an operation registry. The rng seeds reward quantity
// rolls; pass a fixed seed in tests for reproducible rewards.
func NewRegistry(cfg tuning.OperationTuning, rewards map[string]tuning.RewardSpec, targets TargetSource, bus event.Bus, seed int64) Registry {
	return &registry{
		active:  make(map[uuid.UUID]*domain.Operation),
		byOwner: make(map[string]map[domain.OperationKind]int),
		locked:  make(map[string]uuid.UUID),
		cfg:     cfg,
		rewards: rewards,
		targets: targets,
		bus:     bus,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

func (r *registry) Start(ctx context.Context, playerID string, kind domain.OperationKind, targetID string, duration time.Duration) (*domain.Operation, error) {
	log := logger.FromContext(ctx)

	if playerID == "" || targetID == "" || duration <= 0 {
		return nil, fmt.Errorf("%w: player, target, and positive duration required", domain.ErrInvalidInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.byOwner[playerID][kind] >= r.cfg.MaxConcurrentPerKind {
		log.Warn("Operation start rejected: capacity", "playerID", playerID, "kind", kind)
		return nil, fmt.Errorf("%w: %d %s operations already running", domain.ErrCapacityExceeded, r.cfg.MaxConcurrentPerKind, kind)
	}

	if holder, locked := r.locked[targetID]; locked {
		log.Warn("Operation start rejected: target locked", "targetID", targetID, "holder", holder)
		return nil, fmt.Errorf("%w: %s", domain.ErrTargetLocked, targetID)
	}

	if obj, ok := r.targets.Target(targetID); ok {
		if obj.MaxHealth > 0 && obj.Health <= 0 {
			log.Warn("Operation start rejected: target depleted", "targetID", targetID)
			return nil, fmt.Errorf("%w: %s", domain.ErrTargetDepleted, targetID)
		}
	} else if kind == domain.OperationMining {
		return nil, fmt.Errorf("%w: unknown mining target %s", domain.ErrTargetDepleted, targetID)
	}

	op := &domain.Operation{
		ID:        uuid.New(),
		PlayerID:  playerID,
		TargetID:  targetID,
		Kind:      kind,
		Status:    domain.OperationRunning,
		StartedAt: time.Now(),
		Duration:  duration,
		Seq:       r.nextSeq,
	}
	r.nextSeq++

	r.active[op.ID] = op
	if r.byOwner[playerID] == nil {
		r.byOwner[playerID] = make(map[domain.OperationKind]int)
	}
	r.byOwner[playerID][kind]++
	r.locked[targetID] = op.ID

	metrics.OperationsStarted.WithLabelValues(string(kind)).Inc()
	log.Info("Operation started", "operationID", op.ID, "playerID", playerID, "kind", kind, "targetID", targetID, "duration", duration)

	if err := r.bus.Publish(ctx, event.NewOperationStartedEvent(op)); err != nil {
		log.Warn("Failed to publish operation started event", "error", err)
	}

	return op, nil
}

func (r *registry) Tick(ctx context.Context, delta time.Duration) {
	if delta <= 0 {
		return
	}

	type finished struct {
		op *domain.Operation
		// remainingBefore is how far from the threshold the operation was
		// when the tick began; smaller crossed first inside this window.
		remainingBefore time.Duration
	}

	r.mu.Lock()

	var done []finished
	for _, op := range r.active {
		remainingBefore := op.Duration - op.Elapsed
		op.Elapsed += delta
		if op.Elapsed >= op.Duration {
			op.Status = domain.OperationCompleted
			op.Elapsed = op.Duration
			done = append(done, finished{op: op, remainingBefore: remainingBefore})
		}
	}

	sort.Slice(done, func(i, j int) bool {
		if done[i].remainingBefore != done[j].remainingBefore {
			return done[i].remainingBefore < done[j].remainingBefore
		}
		return done[i].op.Seq < done[j].op.Seq
	})
	r.mu.Unlock()

	for _, f := range done {
		r.complete(ctx, f.op)
	}
}

func (r *registry) Cancel(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	op, ok := r.active[id]
	if !ok || op.Status != domain.OperationRunning {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s", domain.ErrOperationNotFound, id)
	}
	op.Status = domain.OperationCancelled
	r.remove(op)
	r.mu.Unlock()

	metrics.OperationsCancelled.WithLabelValues(string(op.Kind)).Inc()
	logger.FromContext(ctx).Info("Operation cancelled", "operationID", id, "playerID", op.PlayerID)

	if err := r.bus.Publish(ctx, event.NewOperationCancelledEvent(op)); err != nil {
		logger.FromContext(ctx).Warn("Failed to publish operation cancelled event", "error", err)
	}
	return nil
}

func (r *registry) Active(playerID string) []*domain.Operation {
	r.mu.Lock()
	defer r.mu.Unlock()

	var ops []*domain.Operation
	for _, op := range r.active {
		if op.PlayerID == playerID {
			ops = append(ops, op)
		}
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i].Seq < ops[j].Seq })
	return ops
}

// remove must be called with the lock held.
func (r *registry) remove(op *domain.Operation) {
	delete(r.active, op.ID)
	if counts := r.byOwner[op.PlayerID]; counts != nil {
		counts[op.Kind]--
		if counts[op.Kind] <= 0 {
			delete(counts, op.Kind)
		}
		if len(counts) == 0 {
			delete(r.byOwner, op.PlayerID)
		}
	}
	if r.locked[op.TargetID] == op.ID {
		delete(r.locked, op.TargetID)
	}
}

func (r *registry) complete(ctx context.Context, op *domain.Operation) {
	log := logger.FromContext(ctx)

	r.mu.Lock()
	if _, ok := r.active[op.ID]; !ok {
		// Already removed; completion fires at most once.
		r.mu.Unlock()
		return
	}
	reward := r.rollReward(op)

	if op.Kind == domain.OperationMining {
		if obj, ok := r.targets.Target(op.TargetID); ok && obj.MaxHealth > 0 {
			obj.Health -= r.cfg.MiningHealthCost
			if obj.Health < 0 {
				obj.Health = 0
			}
		}
	}

	r.remove(op)
	r.mu.Unlock()

	metrics.OperationsCompleted.WithLabelValues(string(op.Kind)).Inc()
	log.Info("Operation completed", "operationID", op.ID, "playerID", op.PlayerID, "kind", op.Kind, "baseXP", reward.BaseXP)

	if err := r.bus.Publish(ctx, event.NewOperationCompletedEvent(op, reward)); err != nil {
		log.Warn("Failed to publish operation completed event", "error", err)
	}
}

// rollReward derives the reward descriptor from the target's yield table.
// Quantities are the only random draw; resource identity comes straight from
// the table. Must be called with the lock held.
func (r *registry) rollReward(op *domain.Operation) domain.Reward {
	reward := domain.Reward{
		OperationID: op.ID,
		PlayerID:    op.PlayerID,
		Kind:        op.Kind,
	}

	var yields []domain.ResourceYieldSpec
	var tableKey string

	if obj, ok := r.targets.Target(op.TargetID); ok && op.Kind == domain.OperationMining {
		yields = obj.Resources
		tableKey = string(obj.Kind)
	} else {
		tableKey = "crafting"
		if spec, ok := r.rewards[tableKey]; ok {
			yields = spec.Resources
		}
	}

	if spec, ok := r.rewards[tableKey]; ok {
		reward.BaseXP = spec.BaseXP
	}

	for _, y := range yields {
		qty := y.Min
		if y.Max > y.Min {
			qty += r.rng.Intn(y.Max - y.Min + 1)
		}
		if qty <= 0 {
			continue
		}
		reward.Resources = append(reward.Resources, domain.ResourceStack{
			Resource: y.Resource,
			Quantity: qty,
		})
	}

	return reward
}
