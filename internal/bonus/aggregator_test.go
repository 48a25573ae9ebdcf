package bonus

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gbax/gbax-core/internal/domain"
	"github.com/gbax/gbax-core/internal/tuning"
)

func newTestAggregator() *Aggregator {
	return NewAggregator(tuning.Default().Bonus)
}

func TestCompute_BaseCase(t *testing.T) {
	a := newTestAggregator()

	// No bonuses at all.
	got := a.Compute(domain.BonusMiningEfficiency, Inputs{})
	assert.Equal(t, 1.0, got)
}

func TestCompute_MissingLoyaltyDefaultsToOne(t *testing.T) {
	a := newTestAggregator()

	// TierMultiplier 0 (no loyalty data) must behave like 1.0.
	got := a.Compute(domain.BonusMiningEfficiency, Inputs{TierMultiplier: 0})
	assert.Equal(t, 1.0, got)
}

func TestCompute_AdditiveStacking(t *testing.T) {
	a := newTestAggregator()

	got := a.Compute(domain.BonusMiningEfficiency, Inputs{
		TierMultiplier: 1.25, // +0.25
		GuildBenefits: []domain.GuildBenefit{
			{Domain: domain.BonusMiningEfficiency, Value: 1.15}, // +0.15
		},
		TraitBonusPercent: 10, // +0.10
		EffectMultiplier:  1.0,
	})
	assert.InDelta(t, 1.5, got, 1e-9)
}

func TestCompute_GuildBenefitDomainMismatchContributesZero(t *testing.T) {
	a := newTestAggregator()

	got := a.Compute(domain.BonusCraftingSpeed, Inputs{
		GuildBenefits: []domain.GuildBenefit{
			{Domain: domain.BonusMiningEfficiency, Value: 1.5},
		},
	})
	assert.Equal(t, 1.0, got)
}

func TestCompute_GuildCaps(t *testing.T) {
	a := newTestAggregator()

	// One oversized benefit is capped per-benefit at 0.5.
	got := a.Compute(domain.BonusMiningEfficiency, Inputs{
		GuildBenefits: []domain.GuildBenefit{
			{Domain: domain.BonusMiningEfficiency, Value: 3.0},
		},
	})
	assert.InDelta(t, 1.5, got, 1e-9)

	// Many benefits are capped in aggregate at 1.0.
	got = a.Compute(domain.BonusMiningEfficiency, Inputs{
		GuildBenefits: []domain.GuildBenefit{
			{Domain: domain.BonusMiningEfficiency, Value: 1.5},
			{Domain: domain.BonusMiningEfficiency, Value: 1.5},
			{Domain: domain.BonusMiningEfficiency, Value: 1.5},
		},
	})
	assert.InDelta(t, 2.0, got, 1e-9)
}

func TestCompute_EffectsMultiplyOnTop(t *testing.T) {
	a := newTestAggregator()

	got := a.Compute(domain.BonusExperience, Inputs{
		TierMultiplier:   1.2, // additive 1.2
		EffectMultiplier: 1.5,
	})
	assert.InDelta(t, 1.8, got, 1e-9)
}

func TestCompute_GlobalCeiling(t *testing.T) {
	a := newTestAggregator()

	// Pathological stacking in every layer still lands at the ceiling.
	got := a.Compute(domain.BonusMiningEfficiency, Inputs{
		TierMultiplier: 10.0,
		GuildBenefits: []domain.GuildBenefit{
			{Domain: domain.BonusMiningEfficiency, Value: 5.0},
			{Domain: domain.BonusMiningEfficiency, Value: 5.0},
			{Domain: domain.BonusMiningEfficiency, Value: 5.0},
		},
		TraitBonusPercent: 500,
		EffectMultiplier:  10.0,
	})
	assert.Equal(t, 3.0, got)
}

func TestCompute_CeilingHoldsAcrossInputGrid(t *testing.T) {
	a := newTestAggregator()
	ceiling := tuning.Default().Bonus.GlobalCeiling

	tiers := []float64{0, 1.0, 1.5, 2.0, 50}
	traits := []float64{0, 10, 100, 1000}
	effects := []float64{0, 1.0, 1.5, 2.0, 25}

	for _, tier := range tiers {
		for _, trait := range traits {
			for _, eff := range effects {
				got := a.Compute(domain.BonusResourceYield, Inputs{
					TierMultiplier: tier,
					GuildBenefits: []domain.GuildBenefit{
						{Domain: domain.BonusResourceYield, Value: tier},
					},
					TraitBonusPercent: trait,
					EffectMultiplier:  eff,
				})
				assert.LessOrEqual(t, got, ceiling)
				assert.GreaterOrEqual(t, got, 1.0)
			}
		}
	}
}

func TestSnapshot_PerDomainTraits(t *testing.T) {
	a := newTestAggregator()

	traits := []domain.Trait{
		{Key: "prospector", Domain: domain.BonusMiningEfficiency, BonusPercent: 20},
		{Key: "artisan", Domain: domain.BonusCraftingSpeed, BonusPercent: 10},
	}

	snap := a.Snapshot(1.0, nil, traits, func(domain.BonusDomain) float64 { return 1.0 })

	assert.InDelta(t, 1.2, snap.MiningEfficiency, 1e-9)
	assert.InDelta(t, 1.1, snap.CraftingSpeed, 1e-9)
	assert.Equal(t, 1.0, snap.ExperienceBoost)
	assert.Equal(t, 1.0, snap.ResourceYield)
}
