package mission

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/gbax/gbax-core/internal/domain"
	"github.com/gbax/gbax-core/internal/event"
	"github.com/gbax/gbax-core/internal/logger"
	"github.com/gbax/gbax-core/internal/player"
)

// Repository defines the data access required by the mission service
type Repository interface {
	GetActiveMissions(ctx context.Context, playerID string) ([]domain.Mission, error)
	UpsertMission(ctx context.Context, m *domain.Mission) error
}

// Service tracks mission progress. Operation completions advance matching
// missions; a mission reaching its target completes, grants its reward XP,
// and publishes mission.completed.
type Service interface {
	Create(ctx context.Context, playerID, name string, kind domain.OperationKind, target, rewardXP int) (*domain.Mission, error)
	Active(ctx context.Context, playerID string) ([]domain.Mission, error)

	// RecordProgress advances all active missions of the given kind by n and
	// returns the missions completed by this call.
	RecordProgress(ctx context.Context, playerID string, kind domain.OperationKind, n int) ([]domain.Mission, error)
}

type service struct {
	repo    Repository
	players player.Service
	bus     event.Bus
}

// NewService creates a new mission service
func NewService(repo Repository, players player.Service, bus event.Bus) Service {
	return &service{repo: repo, players: players, bus: bus}
}

func (s *service) Create(ctx context.Context, playerID, name string, kind domain.OperationKind, target, rewardXP int) (*domain.Mission, error) {
	if target <= 0 || rewardXP < 0 {
		return nil, fmt.Errorf("%w: target must be positive", domain.ErrInvalidInput)
	}

	m := &domain.Mission{
		ID:       uuid.NewString(),
		PlayerID: playerID,
		Name:     name,
		Kind:     kind,
		Target:   target,
		RewardXP: rewardXP,
		Status:   domain.MissionActive,
	}
	if err := s.repo.UpsertMission(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to create mission: %w", err)
	}

	logger.FromContext(ctx).Info("Mission created", "playerID", playerID, "missionID", m.ID, "name", name, "target", target)
	return m, nil
}

func (s *service) Active(ctx context.Context, playerID string) ([]domain.Mission, error) {
	return s.repo.GetActiveMissions(ctx, playerID)
}

func (s *service) RecordProgress(ctx context.Context, playerID string, kind domain.OperationKind, n int) ([]domain.Mission, error) {
	if n <= 0 {
		return nil, nil
	}
	log := logger.FromContext(ctx)

	missions, err := s.repo.GetActiveMissions(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load missions: %w", err)
	}

	var completed []domain.Mission
	for i := range missions {
		m := &missions[i]
		if m.Kind != kind {
			continue
		}

		m.Progress += n
		if m.Progress >= m.Target {
			m.Progress = m.Target
			m.Status = domain.MissionCompleted
		}

		if err := s.repo.UpsertMission(ctx, m); err != nil {
			return completed, fmt.Errorf("failed to save mission progress: %w", err)
		}

		if m.Status != domain.MissionCompleted {
			continue
		}

		completed = append(completed, *m)
		log.Info("Mission completed", "playerID", playerID, "missionID", m.ID, "rewardXP", m.RewardXP)

		if m.RewardXP > 0 {
			if _, err := s.players.GrantExperience(ctx, playerID, int64(m.RewardXP), "mission"); err != nil {
				log.Error("Failed to grant mission reward", "missionID", m.ID, "error", err)
			}
		}
		if err := s.bus.Publish(ctx, event.NewMissionCompletedEvent(m)); err != nil {
			log.Warn("Failed to publish mission completed event", "error", err)
		}
	}

	return completed, nil
}
