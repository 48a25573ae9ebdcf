package domain

// Guild is a joinable collective whose benefits apply to all members.
type Guild struct {
	ID       string         `json:"id" db:"guild_id"`
	Name     string         `json:"name" db:"name"`
	Benefits []GuildBenefit `json:"benefits"`
}

// GuildBenefit is a percentage bonus granted to all members, scoped by
// activity domain. Value is a multiplier (1.15 = +15%).
type GuildBenefit struct {
	Domain BonusDomain `json:"domain"`
	Value  float64     `json:"value"`
}

// LoyaltyTier is a progression bracket unlocking a multiplier once the
// player's accumulated points reach MinPoints.
type LoyaltyTier struct {
	Name       string  `json:"name" yaml:"name"`
	MinPoints  int64   `json:"min_points" yaml:"min_points"`
	Multiplier float64 `json:"multiplier" yaml:"multiplier"`
}
