package loyalty

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gbax/gbax-core/internal/domain"
	"github.com/gbax/gbax-core/internal/event"
	"github.com/gbax/gbax-core/internal/player"
	"github.com/gbax/gbax-core/internal/tuning"
)

type mockPlayerRepository struct {
	players map[string]*domain.Player
}

func (m *mockPlayerRepository) GetPlayer(_ context.Context, playerID string) (*domain.Player, error) {
	p, ok := m.players[playerID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *mockPlayerRepository) UpsertPlayer(_ context.Context, p *domain.Player) error {
	cp := *p
	m.players[p.ID] = &cp
	return nil
}

func newFixture(t *testing.T) (Service, player.Service, *event.MemoryBus) {
	t.Helper()
	bus := event.NewMemoryBus()
	players, err := player.NewService(&mockPlayerRepository{players: make(map[string]*domain.Player)}, bus)
	require.NoError(t, err)
	return NewService(tuning.Default().LoyaltyTiers, players, bus), players, bus
}

func TestTierFor_Boundaries(t *testing.T) {
	svc, _, _ := newFixture(t)

	assert.Equal(t, "bronze", svc.TierFor(0).Name)
	assert.Equal(t, "bronze", svc.TierFor(99).Name)
	assert.Equal(t, "silver", svc.TierFor(100).Name)
	assert.Equal(t, "gold", svc.TierFor(500).Name)
	assert.Equal(t, "platinum", svc.TierFor(2000).Name)
	assert.Equal(t, "platinum", svc.TierFor(1_000_000).Name)
}

func TestMultiplierFor_UnknownPlayerIsNeutral(t *testing.T) {
	svc, _, _ := newFixture(t)
	assert.Equal(t, 1.0, svc.MultiplierFor(context.Background(), "ghost"))
}

func TestAward_PublishesTier(t *testing.T) {
	svc, players, bus := newFixture(t)
	ctx := context.Background()

	var awarded []event.LoyaltyAwardedPayloadV1
	bus.Subscribe(event.LoyaltyAwarded, func(_ context.Context, e event.Event) error {
		awarded = append(awarded, e.Payload.(event.LoyaltyAwardedPayloadV1))
		return nil
	})

	_, err := players.GetOrCreate(ctx, "p1", "Vesper")
	require.NoError(t, err)

	require.NoError(t, svc.Award(ctx, "p1", 120))

	require.Len(t, awarded, 1)
	assert.Equal(t, int64(120), awarded[0].Points)
	assert.Equal(t, int64(120), awarded[0].Total)
	assert.Equal(t, "silver", awarded[0].Tier)

	assert.Equal(t, 1.1, svc.MultiplierFor(ctx, "p1"))
}

func TestAward_UnknownPlayer(t *testing.T) {
	svc, _, _ := newFixture(t)
	err := svc.Award(context.Background(), "ghost", 10)
	assert.ErrorIs(t, err, domain.ErrPlayerNotFound)
}
