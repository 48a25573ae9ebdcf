package bootstrap

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gbax/gbax-core/internal/database/postgres"
	"github.com/gbax/gbax-core/internal/eventlog"
	"github.com/gbax/gbax-core/internal/guild"
	"github.com/gbax/gbax-core/internal/mission"
	"github.com/gbax/gbax-core/internal/player"
)

// Repositories holds all repository implementations used by the application.
type Repositories struct {
	Player   player.Repository
	Guild    guild.Repository
	Mission  mission.Repository
	EventLog eventlog.Repository
}

// InitializeRepositories creates all repository implementations over the
// shared connection pool.
func InitializeRepositories(dbPool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Player:   postgres.NewPlayerRepository(dbPool),
		Guild:    postgres.NewGuildRepository(dbPool),
		Mission:  postgres.NewMissionRepository(dbPool),
		EventLog: postgres.NewEventLogRepository(dbPool),
	}
}
