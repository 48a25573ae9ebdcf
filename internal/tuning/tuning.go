package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gbax/gbax-core/internal/domain"
)

// Tuning holds every gameplay constant loaded from tuning.yaml. The capping
// constants are tuning choices carried over from the original balance pass,
// exposed here rather than hardcoded.
type Tuning struct {
	Bonus        BonusCaps             `yaml:"bonus"`
	Operations   OperationTuning       `yaml:"operations"`
	LoyaltyTiers []domain.LoyaltyTier  `yaml:"loyalty_tiers"`
	Rewards      map[string]RewardSpec `yaml:"rewards"`
	Consumables  []ConsumableSpec      `yaml:"consumables"`
}

// BonusCaps bounds the bonus aggregator's stacking math.
type BonusCaps struct {
	LoyaltyCap    float64 `yaml:"loyalty_cap"`     // max additive contribution from the tier multiplier
	GuildEachCap  float64 `yaml:"guild_each_cap"`  // max additive contribution per guild benefit
	GuildTotalCap float64 `yaml:"guild_total_cap"` // max aggregate guild contribution
	GlobalCeiling float64 `yaml:"global_ceiling"`  // hard cap on any final multiplier
	EffectCap     float64 `yaml:"effect_cap"`      // max consumable effect multiplier
}

// OperationTuning bounds the timed operation registry.
type OperationTuning struct {
	MaxConcurrentPerKind int   `yaml:"max_concurrent_per_kind"`
	LoyaltyPerCompletion int64 `yaml:"loyalty_per_completion"`
	MiningHealthCost     int   `yaml:"mining_health_cost"`
}

// RewardSpec is the base reward table entry for a target kind.
type RewardSpec struct {
	BaseXP    int                        `yaml:"base_xp"`
	Resources []domain.ResourceYieldSpec `yaml:"resources"`
}

// ConsumableSpec defines a usable item granting a temporary effect.
type ConsumableSpec struct {
	Key        string  `yaml:"key"`
	Name       string  `yaml:"name"`
	Domain     string  `yaml:"domain"`
	Multiplier float64 `yaml:"multiplier"`
	DurationMs int     `yaml:"duration_ms"`
}

// Load reads and validates tuning from a YAML file.
func Load(path string) (Tuning, error) {
	var t Tuning
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := t.validate(); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

// Default returns the shipped balance values, used when no tuning file is
// configured and as the fallback for tests.
func Default() Tuning {
	return Tuning{
		Bonus: BonusCaps{
			LoyaltyCap:    0.5,
			GuildEachCap:  0.5,
			GuildTotalCap: 1.0,
			GlobalCeiling: 3.0,
			EffectCap:     2.0,
		},
		Operations: OperationTuning{
			MaxConcurrentPerKind: 3,
			LoyaltyPerCompletion: 1,
			MiningHealthCost:     25,
		},
		LoyaltyTiers: []domain.LoyaltyTier{
			{Name: "bronze", MinPoints: 0, Multiplier: 1.0},
			{Name: "silver", MinPoints: 100, Multiplier: 1.1},
			{Name: "gold", MinPoints: 500, Multiplier: 1.25},
			{Name: "platinum", MinPoints: 2000, Multiplier: 1.5},
		},
		Rewards: map[string]RewardSpec{
			string(domain.ObjectAsteroid): {
				BaseXP: 25,
				Resources: []domain.ResourceYieldSpec{
					{Resource: "iron", Min: 2, Max: 6},
					{Resource: "nickel", Min: 1, Max: 3},
				},
			},
			string(domain.ObjectResourceNode): {
				BaseXP: 40,
				Resources: []domain.ResourceYieldSpec{
					{Resource: "crystal", Min: 1, Max: 4},
				},
			},
			"crafting": {
				BaseXP: 35,
				Resources: []domain.ResourceYieldSpec{
					{Resource: "component", Min: 1, Max: 1},
				},
			},
		},
		Consumables: []ConsumableSpec{
			{Key: "mining_stim", Name: "Mining Stimulant", Domain: string(domain.BonusMiningEfficiency), Multiplier: 1.5, DurationMs: 60000},
			{Key: "focus_serum", Name: "Focus Serum", Domain: string(domain.BonusCraftingSpeed), Multiplier: 1.3, DurationMs: 90000},
			{Key: "xp_booster", Name: "XP Booster", Domain: string(domain.BonusExperience), Multiplier: 2.0, DurationMs: 120000},
			{Key: "yield_catalyst", Name: "Yield Catalyst", Domain: string(domain.BonusResourceYield), Multiplier: 1.4, DurationMs: 60000},
		},
	}
}

func (t Tuning) validate() error {
	if t.Bonus.GlobalCeiling < 1.0 {
		return fmt.Errorf("bonus.global_ceiling must be >= 1.0, got %v", t.Bonus.GlobalCeiling)
	}
	if t.Operations.MaxConcurrentPerKind < 1 {
		return fmt.Errorf("operations.max_concurrent_per_kind must be >= 1, got %d", t.Operations.MaxConcurrentPerKind)
	}
	for _, c := range t.Consumables {
		if c.Multiplier < 1.0 {
			return fmt.Errorf("consumable %s: multiplier must be >= 1.0", c.Key)
		}
		if c.DurationMs <= 0 {
			return fmt.Errorf("consumable %s: duration_ms must be > 0", c.Key)
		}
	}
	return nil
}
