package guild

import (
	"context"
	"fmt"

	"github.com/gbax/gbax-core/internal/domain"
	"github.com/gbax/gbax-core/internal/ledger"
	"github.com/gbax/gbax-core/internal/logger"
	"github.com/gbax/gbax-core/internal/player"
)

// Repository defines the data access required by the guild service
type Repository interface {
	GetGuild(ctx context.Context, guildID string) (*domain.Guild, error)
	UpsertGuild(ctx context.Context, g *domain.Guild) error
	ListGuilds(ctx context.Context) ([]domain.Guild, error)
}

// Service manages guild membership and exposes member benefits to the bonus
// aggregator. Membership changes are mirrored to the remote ledger
// best-effort; remote failures are logged and ignored, local membership is
// authoritative.
type Service interface {
	Join(ctx context.Context, playerID, guildID string) error
	Leave(ctx context.Context, playerID string) error
	BenefitsFor(ctx context.Context, playerID string) []domain.GuildBenefit
	List(ctx context.Context) ([]domain.Guild, error)
}

type service struct {
	repo    Repository
	players player.Service
	remote  ledger.Client
}

// NewService creates a new guild service
func NewService(repo Repository, players player.Service, remote ledger.Client) Service {
	return &service{repo: repo, players: players, remote: remote}
}

func (s *service) Join(ctx context.Context, playerID, guildID string) error {
	log := logger.FromContext(ctx)

	p, err := s.players.Get(ctx, playerID)
	if err != nil {
		return err
	}
	if p.GuildID != "" {
		return fmt.Errorf("%w: %s", domain.ErrAlreadyInGuild, p.GuildID)
	}

	g, err := s.repo.GetGuild(ctx, guildID)
	if err != nil {
		return fmt.Errorf("failed to look up guild: %w", err)
	}
	if g == nil {
		return fmt.Errorf("%w: %s", domain.ErrGuildNotFound, guildID)
	}

	if err := s.players.SetGuild(ctx, playerID, guildID); err != nil {
		return err
	}
	log.Info("Player joined guild", "playerID", playerID, "guildID", guildID)

	// Remote mirror is advisory; errors are logged and ignored by design.
	if err := s.remote.JoinGuild(ctx, playerID, guildID); err != nil {
		log.Warn("Remote guild join failed, continuing with local state", "error", err)
	}

	return nil
}

func (s *service) Leave(ctx context.Context, playerID string) error {
	log := logger.FromContext(ctx)

	p, err := s.players.Get(ctx, playerID)
	if err != nil {
		return err
	}
	if p.GuildID == "" {
		return domain.ErrNotGuildMember
	}
	guildID := p.GuildID

	if err := s.players.SetGuild(ctx, playerID, ""); err != nil {
		return err
	}
	log.Info("Player left guild", "playerID", playerID, "guildID", guildID)

	if err := s.remote.LeaveGuild(ctx, playerID, guildID); err != nil {
		log.Warn("Remote guild leave failed, continuing with local state", "error", err)
	}

	return nil
}

// BenefitsFor returns the benefits of the player's guild, or nil when the
// player is guildless or lookups fail (bonus math treats both the same).
func (s *service) BenefitsFor(ctx context.Context, playerID string) []domain.GuildBenefit {
	p, err := s.players.Get(ctx, playerID)
	if err != nil || p.GuildID == "" {
		return nil
	}

	g, err := s.repo.GetGuild(ctx, p.GuildID)
	if err != nil || g == nil {
		logger.FromContext(ctx).Warn("Guild lookup failed for benefits", "playerID", playerID, "guildID", p.GuildID, "error", err)
		return nil
	}
	return g.Benefits
}

func (s *service) List(ctx context.Context) ([]domain.Guild, error) {
	return s.repo.ListGuilds(ctx)
}
