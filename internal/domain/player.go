package domain

import "time"

// PlayerSchemaVersion is the current version of the persisted player record.
// Records loaded with an older version are migrated; records with an unknown
// version fall back to a fresh default profile.
const PlayerSchemaVersion = 2

// Player is the versioned persistent player record.
type Player struct {
	SchemaVersion int             `json:"schema_version" db:"schema_version"`
	ID            string          `json:"id" db:"player_id"`
	Name          string          `json:"name" db:"name"`
	Experience    int64           `json:"experience" db:"experience"`
	Level         int             `json:"level" db:"level"`
	LoyaltyPoints int64           `json:"loyalty_points" db:"loyalty_points"`
	GuildID       string          `json:"guild_id,omitempty" db:"guild_id"`
	Traits        []Trait         `json:"traits"`
	Inventory     []InventorySlot `json:"inventory"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}

// InventorySlot holds a stack of one item.
type InventorySlot struct {
	ItemKey  string `json:"item_key"`
	Quantity int    `json:"quantity"`
}

// Trait is a character-attached modifier granting a fixed percent bonus to
// one activity domain.
type Trait struct {
	Key          string      `json:"key"`
	Name         string      `json:"name"`
	Domain       BonusDomain `json:"domain"`
	BonusPercent float64     `json:"bonus_percent"`
}

// LevelForExperience converts accumulated experience into a level using the
// fixed 1000-XP bracket the original progression curve uses.
func LevelForExperience(xp int64) int {
	if xp < 0 {
		return 1
	}
	return int(xp/1000) + 1
}
