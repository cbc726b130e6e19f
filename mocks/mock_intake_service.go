package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"claimos/internal/domain"
	"claimos/internal/flow"
	"claimos/internal/service"
)

// MockIntakeService is a mock implementation of service.IntakeService.
type MockIntakeService struct {
	mock.Mock
}

func (m *MockIntakeService) SendMessage(ctx context.Context, input *service.SendMessageInput, emit flow.Emit) error {
	args := m.Called(ctx, input, emit)
	return args.Error(0)
}

func (m *MockIntakeService) GetState(ctx context.Context, sessionID string) (*domain.FlowState, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FlowState), args.Error(1)
}

func (m *MockIntakeService) Reset(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}
