package effect

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gbax/gbax-core/internal/domain"
	"github.com/gbax/gbax-core/internal/event"
)

// fakeClock is a manually advanced clock for expiry tests.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLedger(t *testing.T) (Ledger, *fakeClock, *event.MemoryBus) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	bus := event.NewMemoryBus()
	return NewLedgerWithClock(bus, clock.now), clock, bus
}

func TestLedger_AddValidation(t *testing.T) {
	l, _, _ := newTestLedger(t)
	ctx := context.Background()

	_, err := l.Add(ctx, "p1", domain.BonusMiningEfficiency, 0.9, time.Minute, "bad")
	assert.ErrorIs(t, err, domain.ErrInvalidEffect)

	_, err = l.Add(ctx, "p1", domain.BonusMiningEfficiency, 1.5, 0, "bad")
	assert.ErrorIs(t, err, domain.ErrInvalidEffect)

	eff, err := l.Add(ctx, "p1", domain.BonusMiningEfficiency, 1.5, time.Minute, "stim")
	require.NoError(t, err)
	assert.Equal(t, 1.5, eff.Multiplier)
}

func TestLedger_ActiveMultiplierUsesMaxNotProduct(t *testing.T) {
	l, _, _ := newTestLedger(t)
	ctx := context.Background()

	_, err := l.Add(ctx, "p1", domain.BonusMiningEfficiency, 1.3, time.Minute, "a")
	require.NoError(t, err)
	_, err = l.Add(ctx, "p1", domain.BonusMiningEfficiency, 1.5, time.Minute, "b")
	require.NoError(t, err)
	_, err = l.Add(ctx, "p1", domain.BonusMiningEfficiency, 1.2, time.Minute, "c")
	require.NoError(t, err)

	// Max, not 1.3*1.5*1.2.
	assert.Equal(t, 1.5, l.ActiveMultiplier("p1", domain.BonusMiningEfficiency))
}

func TestLedger_DomainsAreIndependent(t *testing.T) {
	l, _, _ := newTestLedger(t)
	ctx := context.Background()

	_, err := l.Add(ctx, "p1", domain.BonusCraftingSpeed, 1.4, time.Minute, "serum")
	require.NoError(t, err)

	assert.Equal(t, 1.4, l.ActiveMultiplier("p1", domain.BonusCraftingSpeed))
	assert.Equal(t, 1.0, l.ActiveMultiplier("p1", domain.BonusMiningEfficiency))
	assert.Equal(t, 1.0, l.ActiveMultiplier("p2", domain.BonusCraftingSpeed))
}

func TestLedger_ExpiryOnRead(t *testing.T) {
	l, clock, _ := newTestLedger(t)
	ctx := context.Background()

	_, err := l.Add(ctx, "p1", domain.BonusExperience, 2.0, time.Minute, "booster")
	require.NoError(t, err)

	clock.advance(59 * time.Second)
	assert.Equal(t, 2.0, l.ActiveMultiplier("p1", domain.BonusExperience))

	// now - startTime >= duration means expired, so the boundary is exclusive.
	clock.advance(time.Second)
	assert.Equal(t, 1.0, l.ActiveMultiplier("p1", domain.BonusExperience))
	assert.Empty(t, l.ActiveEffects("p1"))
}

func TestLedger_SweepExpiredEmitsEvents(t *testing.T) {
	l, clock, bus := newTestLedger(t)
	ctx := context.Background()

	var expired []event.Event
	bus.Subscribe(event.EffectExpired, func(_ context.Context, e event.Event) error {
		expired = append(expired, e)
		return nil
	})

	_, err := l.Add(ctx, "p1", domain.BonusResourceYield, 1.4, 30*time.Second, "catalyst")
	require.NoError(t, err)
	_, err = l.Add(ctx, "p1", domain.BonusExperience, 1.2, 2*time.Minute, "booster")
	require.NoError(t, err)

	clock.advance(time.Minute)
	l.SweepExpired(ctx)

	require.Len(t, expired, 1)
	payload := expired[0].Payload.(event.EffectPayloadV1)
	assert.Equal(t, "catalyst", payload.Label)

	// Idempotent: second sweep emits nothing new.
	l.SweepExpired(ctx)
	assert.Len(t, expired, 1)

	// Unexpired effect survived the sweep.
	assert.Equal(t, 1.2, l.ActiveMultiplier("p1", domain.BonusExperience))
}
