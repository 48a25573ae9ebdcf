package reward

import (
	"context"
	"math"

	"github.com/gbax/gbax-core/internal/bonus"
	"github.com/gbax/gbax-core/internal/domain"
	"github.com/gbax/gbax-core/internal/effect"
	"github.com/gbax/gbax-core/internal/event"
	"github.com/gbax/gbax-core/internal/guild"
	"github.com/gbax/gbax-core/internal/logger"
	"github.com/gbax/gbax-core/internal/loyalty"
	"github.com/gbax/gbax-core/internal/mission"
	"github.com/gbax/gbax-core/internal/player"
	"github.com/gbax/gbax-core/internal/trait"
	"github.com/gbax/gbax-core/internal/tuning"
)

// Service applies completed-operation rewards: it aggregates the player's
// bonus stack, scales base resources and XP, credits the player, awards
// loyalty, and advances missions. It subscribes to operation.completed so the
// registry stays ignorant of progression systems.
type Service struct {
	aggregator *bonus.Aggregator
	effects    effect.Ledger
	players    player.Service
	loyalty    loyalty.Service
	guilds     guild.Service
	traits     trait.Service
	missions   mission.Service
	ops        tuning.OperationTuning
}

// NewService creates a reward service
func NewService(aggregator *bonus.Aggregator, effects effect.Ledger, players player.Service,
	loyaltySvc loyalty.Service, guilds guild.Service, traits trait.Service,
	missions mission.Service, ops tuning.OperationTuning) *Service {
	return &Service{
		aggregator: aggregator,
		effects:    effects,
		players:    players,
		loyalty:    loyaltySvc,
		guilds:     guilds,
		traits:     traits,
		missions:   missions,
		ops:        ops,
	}
}

// Subscribe registers the reward pipeline on the bus.
func (s *Service) Subscribe(bus event.Bus) {
	bus.Subscribe(event.OperationCompleted, s.handleCompletion)
}

// Snapshot computes the player's current per-domain multipliers.
func (s *Service) Snapshot(ctx context.Context, playerID string) domain.BonusSnapshot {
	return s.aggregator.Snapshot(
		s.loyalty.MultiplierFor(ctx, playerID),
		s.guilds.BenefitsFor(ctx, playerID),
		s.traits.TraitsFor(ctx, playerID),
		func(d domain.BonusDomain) float64 { return s.effects.ActiveMultiplier(playerID, d) },
	)
}

func (s *Service) handleCompletion(ctx context.Context, e event.Event) error {
	payload, ok := e.Payload.(event.OperationCompletedPayloadV1)
	if !ok {
		return nil
	}
	log := logger.FromContext(ctx)

	snap := s.Snapshot(ctx, payload.PlayerID)

	yieldMult := snap.For(domain.BonusResourceYield)
	scaled := make([]domain.ResourceStack, 0, len(payload.Resources))
	for _, stack := range payload.Resources {
		qty := int(math.Round(float64(stack.Quantity) * yieldMult))
		if qty < stack.Quantity {
			qty = stack.Quantity // bonuses never reduce the base roll
		}
		scaled = append(scaled, domain.ResourceStack{Resource: stack.Resource, Quantity: qty})
	}

	if len(scaled) > 0 {
		if err := s.players.AddResources(ctx, payload.PlayerID, scaled); err != nil {
			log.Error("Failed to credit resources", "playerID", payload.PlayerID, "error", err)
			return err
		}
	}

	if payload.BaseXP > 0 {
		xp := int64(math.Round(float64(payload.BaseXP) * snap.For(domain.BonusExperience)))
		if _, err := s.players.GrantExperience(ctx, payload.PlayerID, xp, string(domain.OperationKind(payload.Kind))); err != nil {
			log.Error("Failed to grant experience", "playerID", payload.PlayerID, "error", err)
			return err
		}
	}

	if s.ops.LoyaltyPerCompletion > 0 {
		if err := s.loyalty.Award(ctx, payload.PlayerID, s.ops.LoyaltyPerCompletion); err != nil {
			log.Warn("Failed to award loyalty", "playerID", payload.PlayerID, "error", err)
		}
	}

	if _, err := s.missions.RecordProgress(ctx, payload.PlayerID, domain.OperationKind(payload.Kind), 1); err != nil {
		log.Warn("Failed to advance missions", "playerID", payload.PlayerID, "error", err)
	}

	return nil
}
