package player

import (
	"context"

	"github.com/gbax/gbax-core/internal/domain"
	"github.com/gbax/gbax-core/internal/logger"
)

// migratePlayer upgrades a loaded record to the current schema version in
// place. Returns true when anything changed and the record needs persisting.
// Unknown (future) versions are reset to defaults rather than guessed at.
func migratePlayer(ctx context.Context, p *domain.Player) bool {
	log := logger.FromContext(ctx)

	switch {
	case p.SchemaVersion == domain.PlayerSchemaVersion:
		return false

	case p.SchemaVersion > domain.PlayerSchemaVersion:
		// A downgrade path does not exist; keep identity, reset progression.
		log.Warn("Player record from a newer schema, falling back to defaults",
			"playerID", p.ID, "recordVersion", p.SchemaVersion)
		reset := domain.Player{
			SchemaVersion: domain.PlayerSchemaVersion,
			ID:            p.ID,
			Name:          p.Name,
			Level:         1,
			CreatedAt:     p.CreatedAt,
			UpdatedAt:     p.UpdatedAt,
		}
		*p = reset
		return true
	}

	// Stepwise upgrades so each hop stays small and testable.
	for p.SchemaVersion < domain.PlayerSchemaVersion {
		switch p.SchemaVersion {
		case 0, 1:
			// v1 records predate the loyalty system and stored level only
			// implicitly; recompute from experience.
			p.Level = domain.LevelForExperience(p.Experience)
			if p.LoyaltyPoints < 0 {
				p.LoyaltyPoints = 0
			}
			p.SchemaVersion = 2
		}
	}

	log.Info("Player record migrated", "playerID", p.ID, "toVersion", p.SchemaVersion)
	return true
}
