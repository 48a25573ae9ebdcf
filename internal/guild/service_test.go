package guild

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gbax/gbax-core/internal/domain"
	"github.com/gbax/gbax-core/internal/event"
	"github.com/gbax/gbax-core/internal/ledger"
	"github.com/gbax/gbax-core/internal/player"
)

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
	out := make([]domain.Guild, 0, len(m.guilds))
	for _, g := range m.guilds {
		out = append(out, *g)
	}
	return out, nil
}

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

type fixture struct {
	svc     Service
	players player.Service
	remote  *ledger.MockClient
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	players, err := player.NewService(&mockPlayerRepository{players: make(map[string]*domain.Player)}, event.NewMemoryBus())
	require.NoError(t, err)

	repo := &mockGuildRepository{guilds: map[string]*domain.Guild{
		"miners": {ID: "miners", Name: "Miners Union", Benefits: []domain.GuildBenefit{
			{Domain: domain.BonusMiningEfficiency, Value: 1.2},
		}},
	}}

	remote := ledger.NewMockClient()
	return &fixture{svc: NewService(repo, players, remote), players: players, remote: remote}
}

func TestJoin_SetsMembershipAndMirrorsRemote(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.players.GetOrCreate(ctx, "p1", "Vesper")
	require.NoError(t, err)

	require.NoError(t, f.svc.Join(ctx, "p1", "miners"))

	p, err := f.players.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "miners", p.GuildID)
	assert.Equal(t, "miners", f.remote.Remote("p1").GuildID)
}

func TestJoin_AlreadyInGuild(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.players.GetOrCreate(ctx, "p1", "Vesper")
	require.NoError(t, err)
	require.NoError(t, f.svc.Join(ctx, "p1", "miners"))

	err = f.svc.Join(ctx, "p1", "miners")
	assert.ErrorIs(t, err, domain.ErrAlreadyInGuild)
}

func TestJoin_UnknownGuild(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.players.GetOrCreate(ctx, "p1", "Vesper")
	require.NoError(t, err)

	err = f.svc.Join(ctx, "p1", "pirates")
	assert.ErrorIs(t, err, domain.ErrGuildNotFound)
}

func TestJoin_RemoteFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.players.GetOrCreate(ctx, "p1", "Vesper")
	require.NoError(t, err)

	f.remote.FailAll = true
	require.NoError(t, f.svc.Join(ctx, "p1", "miners"))

	p, err := f.players.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "miners", p.GuildID)
}

func TestLeave_NotAMember(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.players.GetOrCreate(ctx, "p1", "Vesper")
	require.NoError(t, err)

	err = f.svc.Leave(ctx, "p1")
	assert.ErrorIs(t, err, domain.ErrNotGuildMember)
}

func TestBenefitsFor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.players.GetOrCreate(ctx, "p1", "Vesper")
	require.NoError(t, err)

	assert.Empty(t, f.svc.BenefitsFor(ctx, "p1"))

	require.NoError(t, f.svc.Join(ctx, "p1", "miners"))
	benefits := f.svc.BenefitsFor(ctx, "p1")
	require.Len(t, benefits, 1)
	assert.Equal(t, domain.BonusMiningEfficiency, benefits[0].Domain)
	assert.Equal(t, 1.2, benefits[0].Value)

	require.NoError(t, f.svc.Leave(ctx, "p1"))
	assert.Empty(t, f.svc.BenefitsFor(ctx, "p1"))
}
