package eventlog

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Log(ctx context.Context, eventType string, playerID *string, payload []byte) error {
	args := m.Called(ctx, eventType, playerID, payload)
	return args.Error(0)
}

func (m *MockRepository) Recent(ctx context.Context, filter Filter) ([]Entry, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]Entry), args.Error(1)
}

func (m *MockRepository) CleanupOldEntries(ctx context.Context, retentionDays int) (int64, error) {
	args := m.Called(ctx, retentionDays)
	return args.Get(0).(int64), args.Error(1)
}
