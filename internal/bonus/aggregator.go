package bonus

import (
	"github.com/gbax/gbax-core/internal/domain"
	"github.com/gbax/gbax-core/internal/tuning"
)

// Aggregator combines multipliers from loyalty tier, guild benefits, character
// traits, and live consumable effects into per-domain multipliers.
//
// Tier, guild, and trait bonuses combine additively so a player with many
// simultaneous sources does not blow up exponentially; the consumable effect
// layer multiplies on top so potions stay distinct and time-boxed. Every
// contribution and the final result are capped by tuning.
type Aggregator struct {
	caps tuning.BonusCaps
}

// NewAggregator creates an aggregator with the given caps.
func NewAggregator(caps tuning.BonusCaps) *Aggregator {
	return &Aggregator{caps: caps}
}

// Inputs carries the progression state feeding one Compute call. Zero values
// are safe: a player with no loyalty data has TierMultiplier 0, which defaults
// to 1.0.
type Inputs struct {
	TierMultiplier    float64
	GuildBenefits     []domain.GuildBenefit
	TraitBonusPercent float64
	EffectMultiplier  float64
}

// Compute returns the final multiplier for a domain.
func (a *Aggregator) Compute(d domain.BonusDomain, in Inputs) float64 {
	tier := in.TierMultiplier
	if tier < 1.0 {
		tier = 1.0
	}

	additive := 1.0
	additive += min(tier-1.0, a.caps.LoyaltyCap)

	guild := 0.0
	for _, b := range in.GuildBenefits {
		if b.Domain != d {
			continue
		}
		contribution := b.Value - 1.0
		if contribution <= 0 {
			continue
		}
		guild += min(contribution, a.caps.GuildEachCap)
	}
	additive += min(guild, a.caps.GuildTotalCap)

	additive += in.TraitBonusPercent / 100.0

	effect := in.EffectMultiplier
	if effect < 1.0 {
		effect = 1.0
	}
	effect = min(effect, a.caps.EffectCap)

	return min(additive*effect, a.caps.GlobalCeiling)
}

// Snapshot computes all four domains at once. EffectFor supplies the live
// ledger multiplier per domain; traits contribute only to their own domain.
func (a *Aggregator) Snapshot(tierMultiplier float64, benefits []domain.GuildBenefit, traits []domain.Trait, effectFor func(domain.BonusDomain) float64) domain.BonusSnapshot {
	compute := func(d domain.BonusDomain) float64 {
		traitPercent := 0.0
		for _, t := range traits {
			if t.Domain == d {
				traitPercent += t.BonusPercent
			}
		}
		return a.Compute(d, Inputs{
			TierMultiplier:    tierMultiplier,
			GuildBenefits:     benefits,
			TraitBonusPercent: traitPercent,
			EffectMultiplier:  effectFor(d),
		})
	}

	return domain.BonusSnapshot{
		MiningEfficiency: compute(domain.BonusMiningEfficiency),
		CraftingSpeed:    compute(domain.BonusCraftingSpeed),
		ExperienceBoost:  compute(domain.BonusExperience),
		ResourceYield:    compute(domain.BonusResourceYield),
	}
}
