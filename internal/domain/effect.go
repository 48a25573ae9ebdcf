package domain

import (
	"time"

	"github.com/google/uuid"
)

// BonusDomain identifies the activity domain a bonus applies to
type BonusDomain string

const (
	BonusMiningEfficiency BonusDomain = "mining_efficiency"
	BonusCraftingSpeed    BonusDomain = "crafting_speed"
	BonusExperience       BonusDomain = "experience_boost"
	BonusResourceYield    BonusDomain = "resource_yield"
)

// BonusDomains lists every domain the aggregator computes.
var BonusDomains = []BonusDomain{
	BonusMiningEfficiency,
	BonusCraftingSpeed,
	BonusExperience,
	BonusResourceYield,
}

// Effect is a time-boxed multiplier granted by consuming an item. Effects are
// created only by consumable use and destroyed only by expiry.
type Effect struct {
	ID         uuid.UUID     `json:"id"`
	Label      string        `json:"label"`
	Domain     BonusDomain   `json:"domain"`
	Multiplier float64       `json:"multiplier"`
	StartTime  time.Time     `json:"start_time"`
	Duration   time.Duration `json:"duration"`
}

// ExpiredAt reports whether the effect has run out at the given instant.
func (e *Effect) ExpiredAt(now time.Time) bool {
	return now.Sub(e.StartTime) >= e.Duration
}

// BonusSnapshot is the derived per-domain multiplier set. It is recomputed on
// demand and never persisted; only its inputs are.
type BonusSnapshot struct {
	MiningEfficiency float64 `json:"mining_efficiency"`
	CraftingSpeed    float64 `json:"crafting_speed"`
	ExperienceBoost  float64 `json:"experience_boost"`
	ResourceYield    float64 `json:"resource_yield"`
}

// For returns the snapshot's multiplier for a domain.
func (s BonusSnapshot) For(d BonusDomain) float64 {
	switch d {
	case BonusMiningEfficiency:
		return s.MiningEfficiency
	case BonusCraftingSpeed:
		return s.CraftingSpeed
	case BonusExperience:
		return s.ExperienceBoost
	case BonusResourceYield:
		return s.ResourceYield
	}
	return 1.0
}
