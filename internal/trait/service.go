package trait

import (
	"context"
	"fmt"

	"github.com/gbax/gbax-core/internal/domain"
	"github.com/gbax/gbax-core/internal/logger"
	"github.com/gbax/gbax-core/internal/player"
)

// Service manages character traits. Traits live on the player record; this
// service owns assignment rules and the per-domain bonus lookup the
// aggregator consumes.
type Service interface {
	// Assign attaches a trait, replacing any existing trait with the same key.
	Assign(ctx context.Context, playerID string, t domain.Trait) error

	// TraitsFor returns the player's traits, nil when lookups fail.
	TraitsFor(ctx context.Context, playerID string) []domain.Trait

	// BonusPercent sums the player's trait bonuses for one domain.
	BonusPercent(ctx context.Context, playerID string, d domain.BonusDomain) float64
}

type service struct {
	players player.Service
}

// NewService creates a new trait service
func NewService(players player.Service) Service {
	return &service{players: players}
}

func (s *service) Assign(ctx context.Context, playerID string, t domain.Trait) error {
	if t.Key == "" || t.BonusPercent < 0 {
		return fmt.Errorf("%w: trait needs a key and non-negative bonus", domain.ErrInvalidInput)
	}

	p, err := s.players.Get(ctx, playerID)
	if err != nil {
		return err
	}

	replaced := false
	for i := range p.Traits {
		if p.Traits[i].Key == t.Key {
			p.Traits[i] = t
			replaced = true
			break
		}
	}
	if !replaced {
		p.Traits = append(p.Traits, t)
	}

	logger.FromContext(ctx).Info("Trait assigned", "playerID", playerID, "trait", t.Key, "domain", t.Domain)
	return s.players.SaveTraits(ctx, playerID, p.Traits)
}

func (s *service) TraitsFor(ctx context.Context, playerID string) []domain.Trait {
	p, err := s.players.Get(ctx, playerID)
	if err != nil {
		return nil
	}
	return p.Traits
}

func (s *service) BonusPercent(ctx context.Context, playerID string, d domain.BonusDomain) float64 {
	total := 0.0
	for _, t := range s.TraitsFor(ctx, playerID) {
		if t.Domain == d {
			total += t.BonusPercent
		}
	}
	return total
}
