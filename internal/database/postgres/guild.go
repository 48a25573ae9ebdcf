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

// GuildRepository implements the guild repository for PostgreSQL
type GuildRepository struct {
	db *pgxpool.Pool
}

// NewGuildRepository creates a new GuildRepository
func NewGuildRepository(db *pgxpool.Pool) *GuildRepository {
	return &GuildRepository{db: db}
}

// GetGuild fetches a guild. Returns (nil, nil) when absent.
func (r *GuildRepository) GetGuild(ctx context.Context, guildID string) (*domain.Guild, error) {
	query := `SELECT guild_id, name, benefits FROM guilds WHERE guild_id = $1`

	var g domain.Guild
	var benefitsJSON []byte
	err := r.db.QueryRow(ctx, query, guildID).Scan(&g.ID, &g.Name, &benefitsJSON)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get guild: %w", err)
	}

	if err := json.Unmarshal(benefitsJSON, &g.Benefits); err != nil {
		return nil, fmt.Errorf("failed to decode benefits: %w", err)
	}
	return &g, nil
}

// UpsertGuild inserts or replaces a guild.
func (r *GuildRepository) UpsertGuild(ctx context.Context, g *domain.Guild) error {
	benefitsJSON, err := json.Marshal(g.Benefits)
	if err != nil {
		return fmt.Errorf("failed to encode benefits: %w", err)
	}

	query := `
		INSERT INTO guilds (guild_id, name, benefits)
		VALUES ($1, $2, $3)
		ON CONFLICT (guild_id) DO UPDATE SET name = EXCLUDED.name, benefits = EXCLUDED.benefits
	`
	if _, err := r.db.Exec(ctx, query, g.ID, g.Name, benefitsJSON); err != nil {
		return fmt.Errorf("failed to upsert guild: %w", err)
	}
	return nil
}

// ListGuilds returns all guilds.
func (r *GuildRepository) ListGuilds(ctx context.Context) ([]domain.Guild, error) {
	rows, err := r.db.Query(ctx, `SELECT guild_id, name, benefits FROM guilds ORDER BY guild_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list guilds: %w", err)
	}
	defer rows.Close()

	var guilds []domain.Guild
	for rows.Next() {
		var g domain.Guild
		var benefitsJSON []byte
		if err := rows.Scan(&g.ID, &g.Name, &benefitsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan guild: %w", err)
		}
		if err := json.Unmarshal(benefitsJSON, &g.Benefits); err != nil {
			return nil, fmt.Errorf("failed to decode benefits: %w", err)
		}
		guilds = append(guilds, g)
	}
	return guilds, rows.Err()
}
