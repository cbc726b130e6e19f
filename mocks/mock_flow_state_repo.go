package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"claimos/internal/domain"
)

// MockFlowStateRepo is a mock implementation of port.FlowStateRepository.
type MockFlowStateRepo struct {
	mock.Mock
}

func (m *MockFlowStateRepo) Init(ctx context.Context, state *domain.FlowState) (*domain.FlowState, error) {
	args := m.Called(ctx, state)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FlowState), args.Error(1)
}

func (m *MockFlowStateRepo) GetBySessionID(ctx context.Context, sessionID string) (*domain.FlowState, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FlowState), args.Error(1)
}

func (m *MockFlowStateRepo) Update(ctx context.Context, state *domain.FlowState) error {
	args := m.Called(ctx, state)
	return args.Error(0)
}

func (m *MockFlowStateRepo) Delete(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}
