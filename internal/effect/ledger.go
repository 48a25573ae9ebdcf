package effect

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gbax/gbax-core/internal/domain"
	"github.com/gbax/gbax-core/internal/event"
	"github.com/gbax/gbax-core/internal/logger"
)

// Ledger tracks consumable-granted temporary effects per player. Effects are
// created only by consumable use and destroyed only by expiry; expiry is
// checked lazily on every read and eagerly by the periodic sweep.
type Ledger interface {
	// Add appends a new effect starting now. Multiplier must be >= 1.0 and
	// duration > 0.
	Add(ctx context.Context, playerID string, d domain.BonusDomain, multiplier float64, duration time.Duration, label string) (*domain.Effect, error)

	// ActiveMultiplier returns the maximum of all non-expired multipliers for
	// the domain, defaulting to 1.0. Max rather than product keeps consumable
	// spam from stacking multiplicatively.
	ActiveMultiplier(playerID string, d domain.BonusDomain) float64

	// ActiveEffects returns all non-expired effects for the player.
	ActiveEffects(playerID string) []*domain.Effect

	// SweepExpired removes expired effects and emits effect.expired events.
	// Idempotent; safe to call on every tick.
	SweepExpired(ctx context.Context)
}

type ledger struct {
	mu      sync.Mutex
	byOwner map[string][]*domain.Effect
	bus     event.Bus
	now     func() time.Time
}

// NewLedger creates an effect ledger publishing to bus.
func NewLedger(bus event.Bus) Ledger {
	return &ledger{
		byOwner: make(map[string][]*domain.Effect),
		bus:     bus,
		now:     time.Now,
	}
}

// NewLedgerWithClock creates a ledger with an injected clock for tests.
func NewLedgerWithClock(bus event.Bus, now func() time.Time) Ledger {
	return &ledger{
		byOwner: make(map[string][]*domain.Effect),
		bus:     bus,
		now:     now,
	}
}

func (l *ledger) Add(ctx context.Context, playerID string, d domain.BonusDomain, multiplier float64, duration time.Duration, label string) (*domain.Effect, error) {
	if multiplier < 1.0 {
		return nil, fmt.Errorf("%w: multiplier %v below 1.0", domain.ErrInvalidEffect, multiplier)
	}
	if duration <= 0 {
		return nil, fmt.Errorf("%w: non-positive duration %v", domain.ErrInvalidEffect, duration)
	}

	eff := &domain.Effect{
		ID:         uuid.New(),
		Label:      label,
		Domain:     d,
		Multiplier: multiplier,
		StartTime:  l.now(),
		Duration:   duration,
	}

	l.mu.Lock()
	l.byOwner[playerID] = append(l.byOwner[playerID], eff)
	l.mu.Unlock()

	logger.FromContext(ctx).Info("Effect added",
		"playerID", playerID, "domain", d, "multiplier", multiplier, "duration", duration, "label", label)

	if err := l.bus.Publish(ctx, event.NewEffectAddedEvent(eff)); err != nil {
		logger.FromContext(ctx).Warn("Failed to publish effect added event", "error", err)
	}

	return eff, nil
}

func (l *ledger) ActiveMultiplier(playerID string, d domain.BonusDomain) float64 {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	best := 1.0
	for _, eff := range l.byOwner[playerID] {
		if eff.Domain != d || eff.ExpiredAt(now) {
			continue
		}
		if eff.Multiplier > best {
			best = eff.Multiplier
		}
	}
	return best
}

func (l *ledger) ActiveEffects(playerID string) []*domain.Effect {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	var active []*domain.Effect
	for _, eff := range l.byOwner[playerID] {
		if !eff.ExpiredAt(now) {
			active = append(active, eff)
		}
	}
	return active
}

func (l *ledger) SweepExpired(ctx context.Context) {
	now := l.now()

	l.mu.Lock()
	var expired []*domain.Effect
	for owner, effects := range l.byOwner {
		kept := effects[:0]
		for _, eff := range effects {
			if eff.ExpiredAt(now) {
				expired = append(expired, eff)
			} else {
				kept = append(kept, eff)
			}
		}
		if len(kept) == 0 {
			delete(l.byOwner, owner)
		} else {
			l.byOwner[owner] = kept
		}
	}
	l.mu.Unlock()

	for _, eff := range expired {
		logger.FromContext(ctx).Debug("Effect expired", "effectID", eff.ID, "domain", eff.Domain, "label", eff.Label)
		if err := l.bus.Publish(ctx, event.NewEffectExpiredEvent(eff)); err != nil {
			logger.FromContext(ctx).Warn("Failed to publish effect expired event", "error", err)
		}
	}
}
