package reward

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gbax/gbax-core/internal/bonus"
	"github.com/gbax/gbax-core/internal/domain"
	"github.com/gbax/gbax-core/internal/effect"
	"github.com/gbax/gbax-core/internal/event"
	"github.com/gbax/gbax-core/internal/guild"
	"github.com/gbax/gbax-core/internal/ledger"
	"github.com/gbax/gbax-core/internal/loyalty"
	"github.com/gbax/gbax-core/internal/mission"
	"github.com/gbax/gbax-core/internal/player"
	"github.com/gbax/gbax-core/internal/trait"
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

type mockGuildRepository struct {
	guilds map[string]*domain.Guild
}

func (m *mockGuildRepository) GetGuild(_ context.Context, guildID string) (*domain.Guild, error) {
	g, ok := m.guilds[guildID]
	if !ok {
		return nil, nil
	}
	cp := *g
	return &cp, nil
}

func (m *mockGuildRepository) UpsertGuild(_ context.Context, g *domain.Guild) error {
	cp := *g
	m.guilds[g.ID] = &cp
	return nil
}

func (m *mockGuildRepository) ListGuilds(_ context.Context) ([]domain.Guild, error) {
	return nil, nil
}

type mockMissionRepository struct {
	missions map[string]*domain.Mission
}

func (m *mockMissionRepository) GetActiveMissions(_ context.Context, playerID string) ([]domain.Mission, error) {
	var out []domain.Mission
	for _, ms := range m.missions {
		if ms.PlayerID == playerID && ms.Status == domain.MissionActive {
			out = append(out, *ms)
		}
	}
	return out, nil
}

func (m *mockMissionRepository) UpsertMission(_ context.Context, ms *domain.Mission) error {
	cp := *ms
	m.missions[ms.ID] = &cp
	return nil
}

type fixture struct {
	bus      *event.MemoryBus
	players  player.Service
	effects  effect.Ledger
	guilds   guild.Service
	missions mission.Service
	rewards  *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	tun := tuning.Default()
	bus := event.NewMemoryBus()

	players, err := player.NewService(&mockPlayerRepository{players: make(map[string]*domain.Player)}, bus)
	require.NoError(t, err)

	effects := effect.NewLedger(bus)
	loyaltySvc := loyalty.NewService(tun.LoyaltyTiers, players, bus)
	guilds := guild.NewService(&mockGuildRepository{guilds: map[string]*domain.Guild{
		"prospectors": {ID: "prospectors", Name: "Prospectors", Benefits: []domain.GuildBenefit{
			{Domain: domain.BonusResourceYield, Value: 1.25},
		}},
	}}, players, ledger.NewMockClient())
	traits := trait.NewService(players)
	missions := mission.NewService(&mockMissionRepository{missions: make(map[string]*domain.Mission)}, players, bus)

	rewards := NewService(bonus.NewAggregator(tun.Bonus), effects, players, loyaltySvc, guilds, traits, missions, tun.Operations)
	rewards.Subscribe(bus)

	return &fixture{bus: bus, players: players, effects: effects, guilds: guilds, missions: missions, rewards: rewards}
}

func completionEvent(playerID string, resources []domain.ResourceStack, baseXP int) event.Event {
	op := &domain.Operation{
		ID:       uuid.New(),
		PlayerID: playerID,
		TargetID: "ast-1",
		Kind:     domain.OperationMining,
		Status:   domain.OperationCompleted,
	}
	return event.NewOperationCompletedEvent(op, domain.Reward{
		OperationID: op.ID,
		PlayerID:    playerID,
		Kind:        op.Kind,
		Resources:   resources,
		BaseXP:      baseXP,
	})
}

func TestCompletion_NoBonusesCreditsBaseValues(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.players.GetOrCreate(ctx, "p1", "Vesper")
	require.NoError(t, err)

	require.NoError(t, f.bus.Publish(ctx, completionEvent("p1",
		[]domain.ResourceStack{{Resource: "iron", Quantity: 4}}, 25)))

	p, err := f.players.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(25), p.Experience)
	assert.Equal(t, int64(1), p.LoyaltyPoints)
	require.Len(t, p.Inventory, 1)
	assert.Equal(t, 4, p.Inventory[0].Quantity)
}

func TestCompletion_AppliesYieldAndExperienceMultipliers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.players.GetOrCreate(ctx, "p1", "Vesper")
	require.NoError(t, err)
	require.NoError(t, f.guilds.Join(ctx, "p1", "prospectors"))

	_, err = f.effects.Add(ctx, "p1", domain.BonusExperience, 2.0, time.Minute, "XP Booster")
	require.NoError(t, err)

	require.NoError(t, f.bus.Publish(ctx, completionEvent("p1",
		[]domain.ResourceStack{{Resource: "iron", Quantity: 4}}, 25)))

	p, err := f.players.Get(ctx, "p1")
	require.NoError(t, err)

	// Yield: 4 * 1.25 (guild benefit) = 5. XP: 25 * 2.0 (effect) = 50.
	require.Len(t, p.Inventory, 1)
	assert.Equal(t, 5, p.Inventory[0].Quantity)
	assert.Equal(t, int64(50), p.Experience)
}

func TestCompletion_AdvancesMatchingMissions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.players.GetOrCreate(ctx, "p1", "Vesper")
	require.NoError(t, err)

	m, err := f.missions.Create(ctx, "p1", "Mine 2 asteroids", domain.OperationMining, 2, 100)
	require.NoError(t, err)

	require.NoError(t, f.bus.Publish(ctx, completionEvent("p1", nil, 0)))
	require.NoError(t, f.bus.Publish(ctx, completionEvent("p1", nil, 0)))

	active, err := f.missions.Active(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, active, "mission %s should be completed", m.ID)

	p, err := f.players.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(100), p.Experience) // mission reward only, completions carried no XP
	assert.Equal(t, int64(2), p.LoyaltyPoints)
}

func TestSnapshot_NeverExceedsCeiling(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.players.GetOrCreate(ctx, "p1", "Vesper")
	require.NoError(t, err)
	_, err = f.players.AddLoyaltyPoints(ctx, "p1", 5000) // platinum
	require.NoError(t, err)
	require.NoError(t, f.guilds.Join(ctx, "p1", "prospectors"))
	_, err = f.effects.Add(ctx, "p1", domain.BonusResourceYield, 2.0, time.Minute, "Yield Catalyst")
	require.NoError(t, err)

	snap := f.rewards.Snapshot(ctx, "p1")
	for _, mult := range []float64{snap.MiningEfficiency, snap.CraftingSpeed, snap.ExperienceBoost, snap.ResourceYield} {
		assert.LessOrEqual(t, mult, 3.0)
		assert.GreaterOrEqual(t, mult, 1.0)
	}
}
