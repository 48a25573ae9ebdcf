package ledger

import "context"

// RemoteProfile is the ledger's view of a player, used for conflict detection.
type RemoteProfile struct {
	PlayerID        string         `json:"player_id"`
	Experience      int64          `json:"experience"`
	LoyaltyPoints   int64          `json:"loyalty_points"`
	GuildID         string         `json:"guild_id,omitempty"`
	MissionProgress map[string]int `json:"mission_progress,omitempty"`
}

// Client is the remote ledger boundary. Implementations must tolerate
// arbitrary latency; callers bound calls with context deadlines and treat
// every error as non-fatal.
type Client interface {
	GetPlayerProfile(ctx context.Context, playerID string) (*RemoteProfile, error)
	UpdateExperience(ctx context.Context, playerID string, delta int64) error
	UpdateMissionProgress(ctx context.Context, playerID, missionID string, progress int) error
	JoinGuild(ctx context.Context, playerID, guildID string) error
	LeaveGuild(ctx context.Context, playerID, guildID string) error
	AwardLoyaltyPoints(ctx context.Context, playerID string, points int64) error
}
