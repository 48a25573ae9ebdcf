package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gbax/gbax-core/internal/domain"
)

// PlayerRepository implements the player repository for PostgreSQL
type PlayerRepository struct {
	db *pgxpool.Pool
}

// NewPlayerRepository creates a new PlayerRepository
func NewPlayerRepository(db *pgxpool.Pool) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// GetPlayer fetches a player record. Returns (nil, nil) when absent.
func (r *PlayerRepository) GetPlayer(ctx context.Context, playerID string) (*domain.Player, error) {
	query := `
		SELECT player_id, schema_version, name, experience, level, loyalty_points,
		       COALESCE(guild_id, ''), traits, inventory, created_at, updated_at
		FROM players
		WHERE player_id = $1
	`

	var p domain.Player
	var traitsJSON, inventoryJSON []byte
	err := r.db.QueryRow(ctx, query, playerID).Scan(
		&p.ID, &p.SchemaVersion, &p.Name, &p.Experience, &p.Level, &p.LoyaltyPoints,
		&p.GuildID, &traitsJSON, &inventoryJSON, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	if err := json.Unmarshal(traitsJSON, &p.Traits); err != nil {
		return nil, fmt.Errorf("failed to decode traits: %w", err)
	}
	if err := json.Unmarshal(inventoryJSON, &p.Inventory); err != nil {
		return nil, fmt.Errorf("failed to decode inventory: %w", err)
	}

	return &p, nil
}

// UpsertPlayer inserts or replaces the player's full record.
func (r *PlayerRepository) UpsertPlayer(ctx context.Context, p *domain.Player) error {
	traitsJSON, err := json.Marshal(p.Traits)
	if err != nil {
		return fmt.Errorf("failed to encode traits: %w", err)
	}
	inventoryJSON, err := json.Marshal(p.Inventory)
	if err != nil {
		return fmt.Errorf("failed to encode inventory: %w", err)
	}

	query := `
		INSERT INTO players (player_id, schema_version, name, experience, level,
		                     loyalty_points, guild_id, traits, inventory, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9, NOW(), NOW())
		ON CONFLICT (player_id) DO UPDATE SET
			schema_version = EXCLUDED.schema_version,
			name = EXCLUDED.name,
			experience = EXCLUDED.experience,
			level = EXCLUDED.level,
			loyalty_points = EXCLUDED.loyalty_points,
			guild_id = EXCLUDED.guild_id,
			traits = EXCLUDED.traits,
			inventory = EXCLUDED.inventory,
			updated_at = NOW()
	`

	if _, err := r.db.Exec(ctx, query, p.ID, p.SchemaVersion, p.Name, p.Experience,
		p.Level, p.LoyaltyPoints, p.GuildID, traitsJSON, inventoryJSON); err != nil {
		return fmt.Errorf("failed to upsert player: %w", err)
	}
	return nil
}
