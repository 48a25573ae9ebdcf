package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gbax/gbax-core/internal/domain"
)

// MissionRepository implements the mission repository for PostgreSQL
type MissionRepository struct {
	db *pgxpool.Pool
}

// NewMissionRepository creates a new MissionRepository
func NewMissionRepository(db *pgxpool.Pool) *MissionRepository {
	return &MissionRepository{db: db}
}

// GetActiveMissions returns the player's active missions ordered by id.
func (r *MissionRepository) GetActiveMissions(ctx context.Context, playerID string) ([]domain.Mission, error) {
	query := `
		SELECT mission_id, player_id, name, kind, progress, target, reward_xp, status, updated_at
		FROM missions
		WHERE player_id = $1 AND status = $2
		ORDER BY mission_id
	`

	rows, err := r.db.Query(ctx, query, playerID, domain.MissionActive)
	if err != nil {
		return nil, fmt.Errorf("failed to query missions: %w", err)
	}
	defer rows.Close()

	var missions []domain.Mission
	for rows.Next() {
		var m domain.Mission
		if err := rows.Scan(&m.ID, &m.PlayerID, &m.Name, &m.Kind, &m.Progress,
			&m.Target, &m.RewardXP, &m.Status, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan mission: %w", err)
		}
		missions = append(missions, m)
	}
	return missions, rows.Err()
}

// UpsertMission inserts or replaces a mission record.
func (r *MissionRepository) UpsertMission(ctx context.Context, m *domain.Mission) error {
	query := `
		INSERT INTO missions (mission_id, player_id, name, kind, progress, target, reward_xp, status, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (mission_id) DO UPDATE SET
			progress = EXCLUDED.progress,
			status = EXCLUDED.status,
			updated_at = NOW()
	`
	if _, err := r.db.Exec(ctx, query, m.ID, m.PlayerID, m.Name, m.Kind,
		m.Progress, m.Target, m.RewardXP, m.Status); err != nil {
		return fmt.Errorf("failed to upsert mission: %w", err)
	}
	return nil
}
