package ledger

import (
	"context"
	"sync"
)

// MockClient is an in-memory ledger used in mock mode and in tests. FailAll
// simulates a down remote: every call errors while local state stays intact.
type MockClient struct {
	mu       sync.Mutex
	profiles map[string]*RemoteProfile

	FailAll bool
	Err     error

	// Calls counts invocations by method name, for assertions.
	Calls map[string]int
}

// NewMockClient creates an empty in-memory ledger.
func NewMockClient() *MockClient {
	return &MockClient{
		profiles: make(map[string]*RemoteProfile),
		Calls:    make(map[string]int),
	}
}

func (m *MockClient) failure() error {
	if !m.FailAll {
		return nil
	}
	if m.Err != nil {
		return m.Err
	}
	return errRemoteDown
}

var errRemoteDown = &remoteDownError{}

type remoteDownError struct{}

func (*remoteDownError) Error() string { return "remote ledger unavailable" }

func (m *MockClient) profile(playerID string) *RemoteProfile {
	p, ok := m.profiles[playerID]
	if !ok {
		p = &RemoteProfile{PlayerID: playerID, MissionProgress: make(map[string]int)}
		m.profiles[playerID] = p
	}
	return p
}

// SeedProfile installs a remote-side profile, for conflict tests.
func (m *MockClient) SeedProfile(p RemoteProfile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.MissionProgress == nil {
		p.MissionProgress = make(map[string]int)
	}
	m.profiles[p.PlayerID] = &p
}

func (m *MockClient) GetPlayerProfile(_ context.Context, playerID string) (*RemoteProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls["GetPlayerProfile"]++
	if err := m.failure(); err != nil {
		return nil, err
	}
	cp := *m.profile(playerID)
	return &cp, nil
}

func (m *MockClient) UpdateExperience(_ context.Context, playerID string, delta int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls["UpdateExperience"]++
	if err := m.failure(); err != nil {
		return err
	}
	m.profile(playerID).Experience += delta
	return nil
}

func (m *MockClient) UpdateMissionProgress(_ context.Context, playerID, missionID string, progress int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls["UpdateMissionProgress"]++
	if err := m.failure(); err != nil {
		return err
	}
	m.profile(playerID).MissionProgress[missionID] = progress
	return nil
}

func (m *MockClient) JoinGuild(_ context.Context, playerID, guildID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls["JoinGuild"]++
	if err := m.failure(); err != nil {
		return err
	}
	m.profile(playerID).GuildID = guildID
	return nil
}

func (m *MockClient) LeaveGuild(_ context.Context, playerID, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls["LeaveGuild"]++
	if err := m.failure(); err != nil {
		return err
	}
	m.profile(playerID).GuildID = ""
	return nil
}

func (m *MockClient) AwardLoyaltyPoints(_ context.Context, playerID string, points int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls["AwardLoyaltyPoints"]++
	if err := m.failure(); err != nil {
		return err
	}
	m.profile(playerID).LoyaltyPoints += points
	return nil
}

// Remote returns a copy of the stored profile, for assertions.
func (m *MockClient) Remote(playerID string) RemoteProfile {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.profile(playerID)
}
