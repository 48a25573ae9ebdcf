package loyalty

import (
	"context"
	"sort"

	"github.com/gbax/gbax-core/internal/domain"
	"github.com/gbax/gbax-core/internal/event"
	"github.com/gbax/gbax-core/internal/logger"
	"github.com/gbax/gbax-core/internal/player"
)

// Service resolves loyalty tiers from accumulated points and awards points
// for gameplay activity.
type Service interface {
	// TierFor returns the highest tier whose threshold the points reach.
	TierFor(points int64) domain.LoyaltyTier

	// MultiplierFor returns the tier multiplier for a player, defaulting to
	// 1.0 when the player has no loyalty data.
	MultiplierFor(ctx context.Context, playerID string) float64

	// Award adds points and publishes loyalty.awarded.
	Award(ctx context.Context, playerID string, points int64) error
}

type service struct {
	tiers   []domain.LoyaltyTier
	players player.Service
	bus     event.Bus
}

// NewService creates a loyalty service. Tiers are sorted by threshold once at
// construction.
func NewService(tiers []domain.LoyaltyTier, players player.Service, bus event.Bus) Service {
	sorted := make([]domain.LoyaltyTier, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].MinPoints < sorted[j].MinPoints })
	return &service{tiers: sorted, players: players, bus: bus}
}

func (s *service) TierFor(points int64) domain.LoyaltyTier {
	tier := domain.LoyaltyTier{Name: "none", Multiplier: 1.0}
	for _, t := range s.tiers {
		if points >= t.MinPoints {
			tier = t
		}
	}
	return tier
}

func (s *service) MultiplierFor(ctx context.Context, playerID string) float64 {
	p, err := s.players.Get(ctx, playerID)
	if err != nil {
		// No loyalty data is not an error condition for bonus math.
		return 1.0
	}
	return s.TierFor(p.LoyaltyPoints).Multiplier
}

func (s *service) Award(ctx context.Context, playerID string, points int64) error {
	p, err := s.players.AddLoyaltyPoints(ctx, playerID, points)
	if err != nil {
		return err
	}

	tier := s.TierFor(p.LoyaltyPoints)
	logger.FromContext(ctx).Debug("Loyalty awarded",
		"playerID", playerID, "points", points, "total", p.LoyaltyPoints, "tier", tier.Name)

	if err := s.bus.Publish(ctx, event.NewLoyaltyAwardedEvent(playerID, points, p.LoyaltyPoints, tier.Name)); err != nil {
		logger.FromContext(ctx).Warn("Failed to publish loyalty event", "error", err)
	}
	return nil
}
