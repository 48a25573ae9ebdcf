package consumable

import (
	"context"
	"fmt"
	"time"

	"github.com/gbax/gbax-core/internal/domain"
	"github.com/gbax/gbax-core/internal/effect"
	"github.com/gbax/gbax-core/internal/logger"
	"github.com/gbax/gbax-core/internal/player"
	"github.com/gbax/gbax-core/internal/tuning"
)

// Service turns inventory consumables into ledger effects. The catalog comes
// from tuning; unknown items and short stacks reject before anything mutates.
type Service interface {
	Use(ctx context.Context, playerID, itemKey string) (*domain.Effect, error)
	Catalog() []tuning.ConsumableSpec
}

type service struct {
	catalog map[string]tuning.ConsumableSpec
	order   []tuning.ConsumableSpec
	players player.Service
	effects effect.Ledger
}

// NewService creates a new consumable service
func NewService(specs []tuning.ConsumableSpec, players player.Service, effects effect.Ledger) Service {
	catalog := make(map[string]tuning.ConsumableSpec, len(specs))
	for _, spec := range specs {
		catalog[spec.Key] = spec
	}
	return &service{catalog: catalog, order: specs, players: players, effects: effects}
}

func (s *service) Use(ctx context.Context, playerID, itemKey string) (*domain.Effect, error) {
	log := logger.FromContext(ctx)

	spec, ok := s.catalog[itemKey]
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a consumable", domain.ErrItemNotFound, itemKey)
	}

	// Debit first; the effect only exists if the item was actually spent.
	if err := s.players.ConsumeItem(ctx, playerID, itemKey, 1); err != nil {
		return nil, err
	}

	eff, err := s.effects.Add(ctx, playerID, domain.BonusDomain(spec.Domain), spec.Multiplier,
		time.Duration(spec.DurationMs)*time.Millisecond, spec.Name)
	if err != nil {
		// Catalog validation keeps this from happening; refund if it does.
		log.Error("Consumable produced invalid effect, refunding", "itemKey", itemKey, "error", err)
		if refundErr := s.players.AddResources(ctx, playerID, []domain.ResourceStack{{Resource: itemKey, Quantity: 1}}); refundErr != nil {
			log.Error("Refund failed", "itemKey", itemKey, "error", refundErr)
		}
		return nil, err
	}

	log.Info("Consumable used", "playerID", playerID, "itemKey", itemKey, "effectID", eff.ID)
	return eff, nil
}

func (s *service) Catalog() []tuning.ConsumableSpec {
	return s.order
}
