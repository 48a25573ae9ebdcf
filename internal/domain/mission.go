package domain

import "time"

// MissionStatus is the lifecycle state of a mission record.
type MissionStatus string

const (
	MissionActive    MissionStatus = "active"
	MissionCompleted MissionStatus = "completed"
)

// Mission tracks a player's progress toward an objective. Progress advances
// when matching operations complete; reaching Target completes the mission
// and grants RewardXP through the normal reward path.
type Mission struct {
	ID        string        `json:"id" db:"mission_id"`
	PlayerID  string        `json:"player_id" db:"player_id"`
	Name      string        `json:"name" db:"name"`
	Kind      OperationKind `json:"kind" db:"kind"`
	Progress  int           `json:"progress" db:"progress"`
	Target    int           `json:"target" db:"target"`
	RewardXP  int           `json:"reward_xp" db:"reward_xp"`
	Status    MissionStatus `json:"status" db:"status"`
	UpdatedAt time.Time     `json:"updated_at" db:"updated_at"`
}
