package progress

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gbax/gbax-core/internal/domain"
	"github.com/gbax/gbax-core/internal/event"
	"github.com/gbax/gbax-core/internal/ledger"
	"github.com/gbax/gbax-core/internal/mission"
	"github.com/gbax/gbax-core/internal/player"
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

type mockMissionRepository struct {
	missions map[string][]domain.Mission
}

func (m *mockMissionRepository) GetActiveMissions(_ context.Context, playerID string) ([]domain.Mission, error) {
	var active []domain.Mission
	for _, ms := range m.missions[playerID] {
		if ms.Status == domain.MissionActive {
			active = append(active, ms)
		}
	}
	return active, nil
}

func (m *mockMissionRepository) UpsertMission(_ context.Context, ms *domain.Mission) error {
	list := m.missions[ms.PlayerID]
	for i := range list {
		if list[i].ID == ms.ID {
			list[i] = *ms
			return nil
		}
	}
	m.missions[ms.PlayerID] = append(list, *ms)
	return nil
}

type fixture struct {
	sync     *Synchronizer
	players  player.Service
	missions mission.Service
	remote   *ledger.MockClient
	bus      *event.MemoryBus
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	bus := event.NewMemoryBus()

	players, err := player.NewService(&mockPlayerRepository{players: make(map[string]*domain.Player)}, bus)
	require.NoError(t, err)
	missions := mission.NewService(&mockMissionRepository{missions: make(map[string][]domain.Mission)}, players, bus)
	remote := ledger.NewMockClient()

	opts = append([]Option{WithRetryBackoff(time.Millisecond)}, opts...)
	return &fixture{
		sync:     NewSynchronizer(players, missions, remote, bus, opts...),
		players:  players,
		missions: missions,
		remote:   remote,
		bus:      bus,
	}
}

func TestSyncNow_PushesLocalState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.players.GetOrCreate(ctx, "p1", "Vesper")
	require.NoError(t, err)
	_, err = f.players.GrantExperience(ctx, "p1", 450, "mining")
	require.NoError(t, err)
	_, err = f.players.AddLoyaltyPoints(ctx, "p1", 3)
	require.NoError(t, err)
	m, err := f.missions.Create(ctx, "p1", "Ore Run", domain.OperationMining, 5, 100)
	require.NoError(t, err)
	_, err = f.missions.RecordProgress(ctx, "p1", domain.OperationMining, 2)
	require.NoError(t, err)

	res := f.sync.SyncNow(ctx, "p1")
	assert.True(t, res.Success)
	assert.Empty(t, res.ConflictFields)

	remote := f.remote.Remote("p1")
	assert.Equal(t, int64(450), remote.Experience)
	assert.Equal(t, int64(3), remote.LoyaltyPoints)
	assert.Equal(t, 2, remote.MissionProgress[m.ID])

	rec := f.sync.Record("p1")
	assert.Equal(t, domain.SyncIdle, rec.Status)
	assert.True(t, rec.LastSuccess)
	assert.Zero(t, rec.ConsecutiveFailures)
}

func TestSyncNow_RemoteFailureLeavesLocalIntact(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.players.GetOrCreate(ctx, "p1", "Vesper")
	require.NoError(t, err)
	_, err = f.players.GrantExperience(ctx, "p1", 450, "mining")
	require.NoError(t, err)

	var statuses []event.SyncStatusPayloadV1
	f.bus.Subscribe(event.SyncStatusChanged, func(_ context.Context, e event.Event) error {
		statuses = append(statuses, e.Payload.(event.SyncStatusPayloadV1))
		return nil
	})

	f.remote.FailAll = true
	res := f.sync.SyncNow(ctx, "p1")

	// No error surfaces; the failure is a result, and local state is untouched.
	assert.False(t, res.Success)
	p, err := f.players.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(450), p.Experience)

	rec := f.sync.Record("p1")
	assert.Equal(t, domain.SyncIdle, rec.Status)
	assert.False(t, rec.LastSuccess)
	assert.Equal(t, 1, rec.ConsecutiveFailures)

	require.Len(t, statuses, 1)
	assert.False(t, statuses[0].Success)

	// Retry happened: the profile fetch was attempted twice.
	assert.Equal(t, 2, f.remote.Calls["GetPlayerProfile"])

	// Next explicit sync after recovery catches the remote up.
	f.remote.FailAll = false
	res = f.sync.SyncNow(ctx, "p1")
	assert.True(t, res.Success)
	assert.Equal(t, int64(450), f.remote.Remote("p1").Experience)
}

func TestSyncNow_ConflictsRecordedLocalWins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.players.GetOrCreate(ctx, "p1", "Vesper")
	require.NoError(t, err)
	_, err = f.players.GrantExperience(ctx, "p1", 200, "mining")
	require.NoError(t, err)
	m, err := f.missions.Create(ctx, "p1", "Ore Run", domain.OperationMining, 5, 100)
	require.NoError(t, err)
	_, err = f.missions.RecordProgress(ctx, "p1", domain.OperationMining, 1)
	require.NoError(t, err)

	f.remote.SeedProfile(ledger.RemoteProfile{
		PlayerID:        "p1",
		Experience:      900,
		MissionProgress: map[string]int{m.ID: 4},
	})

	res := f.sync.SyncNow(ctx, "p1")
	assert.True(t, res.Success)
	assert.ElementsMatch(t, []string{"experience", "mission:" + m.ID}, res.ConflictFields)

	// Local state is never overwritten by the remote.
	p, err := f.players.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(200), p.Experience)

	// Experience moves by delta so the remote total never decreases, but
	// mission progress is absolute and follows local.
	assert.Zero(t, f.remote.Calls["UpdateExperience"])
	assert.Equal(t, 1, f.remote.Calls["UpdateMissionProgress"])
	assert.Equal(t, 1, f.remote.Remote("p1").MissionProgress[m.ID])
}

func TestSubscribe_DebouncedSyncOnExperience(t *testing.T) {
	f := newFixture(t, WithDebounce(20*time.Millisecond))
	ctx := context.Background()

	f.sync.Subscribe(f.bus)

	_, err := f.players.GetOrCreate(ctx, "p1", "Vesper")
	require.NoError(t, err)

	// A burst of gains collapses into one push after the quiet period.
	for i := 0; i < 3; i++ {
		_, err = f.players.GrantExperience(ctx, "p1", 100, "mining")
		require.NoError(t, err)
	}

	require.Eventually(t, func() bool {
		return f.remote.Remote("p1").Experience == 300
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, f.remote.Calls["GetPlayerProfile"])
}

func TestClose_StopsDebouncedTriggers(t *testing.T) {
	f := newFixture(t, WithDebounce(time.Millisecond))
	ctx := context.Background()

	f.sync.Subscribe(f.bus)

	_, err := f.players.GetOrCreate(ctx, "p1", "Vesper")
	require.NoError(t, err)
	_, err = f.players.GrantExperience(ctx, "p1", 100, "mining")
	require.NoError(t, err)

	require.NoError(t, f.sync.Close(ctx))

	// Close waits for any in-flight debounced push; none may start afterwards.
	fetches := f.remote.Calls["GetPlayerProfile"]
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, fetches, f.remote.Calls["GetPlayerProfile"])
}

func TestClose_FlushesKnownPlayers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.players.GetOrCreate(ctx, "p1", "Vesper")
	require.NoError(t, err)
	_, err = f.players.GrantExperience(ctx, "p1", 150, "mining")
	require.NoError(t, err)

	f.sync.Track("p1")
	require.NoError(t, f.sync.Close(ctx))

	assert.Equal(t, int64(150), f.remote.Remote("p1").Experience)
}
