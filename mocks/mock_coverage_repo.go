package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"claimos/internal/domain"
)

// MockCoverageRepo is a mock implementation of port.CoverageRepository.
type MockCoverageRepo struct {
	mock.Mock
}

func (m *MockCoverageRepo) ListCoverageTypesForUser(ctx context.Context, userID uuid.UUID) ([]domain.CoverageType, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CoverageType), args.Error(1)
}

func (m *MockCoverageRepo) GetCoverageType(ctx context.Context, id string) (*domain.CoverageType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CoverageType), args.Error(1)
}

func (m *MockCoverageRepo) ListQuestions(ctx context.Context, coverageTypeIDs []string) ([]domain.Question, error) {
	args := m.Called(ctx, coverageTypeIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Question), args.Error(1)
}
