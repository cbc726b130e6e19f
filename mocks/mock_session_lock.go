package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockSessionLock is a mock implementation of port.SessionLock.
type MockSessionLock struct {
	mock.Mock
}

func (m *MockSessionLock) Acquire(ctx context.Context, sessionID string, ttl time.Duration) (func(context.Context) error, error) {
	args := m.Called(ctx, sessionID, ttl)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(func(context.Context) error), args.Error(1)
}
