package progress

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/gbax/gbax-core/internal/domain"
	"github.com/gbax/gbax-core/internal/event"
	"github.com/gbax/gbax-core/internal/ledger"
	"github.com/gbax/gbax-core/internal/logger"
	"github.com/gbax/gbax-core/internal/metrics"
	"github.com/gbax/gbax-core/internal/mission"
	"github.com/gbax/gbax-core/internal/player"
)

const (
	defaultRemoteTimeout = 3 * time.Second
	defaultRetryBackoff  = 500 * time.Millisecond
	defaultDebounce      = 10 * time.Second
)

// Synchronizer pushes local player state (experience, mission progress,
// loyalty) to the remote ledger. Local state is truth; the remote is an
// advisory cache. Remote failures are absorbed here and surfaced only as a
// status record and a sync.status_changed event - never as an error and never
// by rolling back local state.
type Synchronizer struct {
	players  player.Service
	missions mission.Service
	remote   ledger.Client
	bus      event.Bus

	remoteTimeout time.Duration
	retryBackoff  time.Duration
	debounce      time.Duration

	mu      sync.Mutex
	records map[string]*domain.SyncRecord
	pending map[string]*time.Timer // debounced triggers
	wg      sync.WaitGroup
	closed  bool
}

// Option tweaks synchronizer timing, mainly for tests.
type Option func(*Synchronizer)

// WithRemoteTimeout bounds each remote call.
func WithRemoteTimeout(d time.Duration) Option {
	return func(s *Synchronizer) { s.remoteTimeout = d }
}

// WithRetryBackoff sets the delay before the single retry.
func WithRetryBackoff(d time.Duration) Option {
	return func(s *Synchronizer) { s.retryBackoff = d }
}

// WithDebounce sets the quiet period after a local change before syncing.
func WithDebounce(d time.Duration) Option {
	return func(s *Synchronizer) { s.debounce = d }
}

// NewSynchronizer creates a progress synchronizer.
func NewSynchronizer(players player.Service, missions mission.Service, remote ledger.Client, bus event.Bus, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		players:       players,
		missions:      missions,
		remote:        remote,
		bus:           bus,
		remoteTimeout: defaultRemoteTimeout,
		retryBackoff:  defaultRetryBackoff,
		debounce:      defaultDebounce,
		records:       make(map[string]*domain.SyncRecord),
		pending:       make(map[string]*time.Timer),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe wires the debounced trigger on qualifying local changes.
func (s *Synchronizer) Subscribe(bus event.Bus) {
	bus.Subscribe(event.ExperienceGained, func(_ context.Context, e event.Event) error {
		if payload, ok := e.Payload.(event.ExperiencePayloadV1); ok {
			s.scheduleSync(payload.PlayerID)
		}
		return nil
	})
	bus.Subscribe(event.LevelUp, func(_ context.Context, e event.Event) error {
		if payload, ok := e.Payload.(event.ExperiencePayloadV1); ok {
			s.scheduleSync(payload.PlayerID)
		}
		return nil
	})
}

// scheduleSync debounces bursts of local changes into a single push.
func (s *Synchronizer) scheduleSync(playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	if timer, ok := s.pending[playerID]; ok {
		timer.Reset(s.debounce)
		return
	}

	s.pending[playerID] = time.AfterFunc(s.debounce, func() {
		s.mu.Lock()
		delete(s.pending, playerID)
		if s.closed {
			s.mu.Unlock()
			return
		}
		// Registered under the same lock as the closed check so Close cannot
		// observe an empty WaitGroup between the check and the sync.
		s.wg.Add(1)
		s.mu.Unlock()

		defer s.wg.Done()
		s.SyncNow(context.Background(), playerID)
	})
}

// Record returns the player's latest sync record.
func (s *Synchronizer) Record(playerID string) domain.SyncRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.records[playerID]; ok {
		return *rec
	}
	return domain.SyncRecord{PlayerID: playerID, Status: domain.SyncIdle}
}

// Known returns every player the synchronizer has seen, for the periodic
// sweep and final flush.
func (s *Synchronizer) Known() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Track registers a player for periodic syncing without pushing yet.
func (s *Synchronizer) Track(playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[playerID]; !ok {
		s.records[playerID] = &domain.SyncRecord{PlayerID: playerID, Status: domain.SyncIdle}
	}
}

// SyncNow pushes the player's state to the remote ledger. Re-entrant: a call
// while a sync is in flight returns the last known result without a second
// push. Remote failures come back as Success=false, never as an error.
func (s *Synchronizer) SyncNow(ctx context.Context, playerID string) domain.SyncResult {
	log := logger.FromContext(ctx)

	s.mu.Lock()
	rec, ok := s.records[playerID]
	if !ok {
		rec = &domain.SyncRecord{PlayerID: playerID, Status: domain.SyncIdle}
		s.records[playerID] = rec
	}
	if rec.Status == domain.SyncSyncing {
		res := domain.SyncResult{Success: rec.LastSuccess, ConflictFields: rec.ConflictFields}
		s.mu.Unlock()
		return res
	}
	rec.Status = domain.SyncSyncing
	s.mu.Unlock()

	start := time.Now()
	success, conflicts := s.push(ctx, playerID)
	if !success {
		// One bounded retry, then give up silently until the next trigger.
		time.Sleep(s.retryBackoff)
		success, conflicts = s.push(ctx, playerID)
	}
	metrics.SyncDuration.Observe(time.Since(start).Seconds())

	s.mu.Lock()
	rec.Status = domain.SyncIdle
	rec.LastSyncTime = time.Now()
	rec.LastSuccess = success
	rec.HasLocalProgress = true
	rec.HasRemoteProgress = rec.HasRemoteProgress || success
	rec.ConflictFields = conflicts
	if success {
		rec.ConsecutiveFailures = 0
	} else {
		rec.ConsecutiveFailures++
	}
	s.mu.Unlock()

	if success {
		metrics.SyncAttempts.WithLabelValues("success").Inc()
	} else {
		metrics.SyncAttempts.WithLabelValues("failure").Inc()
		log.Warn("Remote sync failed, local state remains authoritative", "playerID", playerID)
	}

	if err := s.bus.Publish(ctx, event.NewSyncStatusEvent(playerID, success, conflicts)); err != nil {
		log.Warn("Failed to publish sync status event", "error", err)
	}

	return domain.SyncResult{Success: success, ConflictFields: conflicts}
}

// push performs one remote round trip: read remote profile, detect conflicts,
// write local deltas. Returns success and the conflict fields observed.
func (s *Synchronizer) push(ctx context.Context, playerID string) (bool, []string) {
	log := logger.FromContext(ctx)

	rctx, cancel := context.WithTimeout(ctx, s.remoteTimeout)
	defer cancel()

	local, err := s.players.Get(rctx, playerID)
	if err != nil {
		log.Warn("Sync skipped: local player unavailable", "playerID", playerID, "error", err)
		return false, nil
	}

	remote, err := s.remote.GetPlayerProfile(rctx, playerID)
	if err != nil {
		log.Debug("Remote profile fetch failed", "playerID", playerID, "error", err)
		return false, nil
	}

	var conflicts []string
	if remote.Experience > local.Experience {
		conflicts = append(conflicts, "experience")
	}

	missions, err := s.missions.Active(rctx, playerID)
	if err != nil {
		log.Warn("Sync skipped: missions unavailable", "playerID", playerID, "error", err)
		return false, conflicts
	}
	for _, m := range missions {
		if remoteProgress, ok := remote.MissionProgress[m.ID]; ok && remoteProgress > m.Progress {
			conflicts = append(conflicts, "mission:"+m.ID)
		}
	}

	if len(conflicts) > 0 {
		metrics.SyncConflicts.Add(float64(len(conflicts)))
		// Local wins for display; the divergence is recorded, not merged.
		log.Info("Sync conflicts detected, local state wins", "playerID", playerID, "fields", conflicts)
	}

	if delta := local.Experience - remote.Experience; delta > 0 {
		if err := s.remote.UpdateExperience(rctx, playerID, delta); err != nil {
			return false, conflicts
		}
	}

	for _, m := range missions {
		if remote.MissionProgress[m.ID] == m.Progress {
			continue
		}
		if err := s.remote.UpdateMissionProgress(rctx, playerID, m.ID, m.Progress); err != nil {
			return false, conflicts
		}
	}

	if delta := local.LoyaltyPoints - remote.LoyaltyPoints; delta > 0 {
		if err := s.remote.AwardLoyaltyPoints(rctx, playerID, delta); err != nil {
			return false, conflicts
		}
	}

	return true, conflicts
}

// Close flushes every known player once and stops debounced triggers. Called
// on shutdown so final state reaches the remote when it is reachable.
func (s *Synchronizer) Close(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	for id, timer := range s.pending {
		timer.Stop()
		delete(s.pending, id)
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	for _, id := range s.Known() {
		s.SyncNow(ctx, id)
	}
	return nil
}
