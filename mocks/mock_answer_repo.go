package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"claimos/internal/domain"
)

// MockAnswerRepo is a mock implementation of port.AnswerRepository.
type MockAnswerRepo struct {
	mock.Mock
}

func (m *MockAnswerRepo) Create(ctx context.Context, answer *domain.Answer) error {
	args := m.Called(ctx, answer)
	return args.Error(0)
}

func (m *MockAnswerRepo) ListBySession(ctx context.Context, sessionID string) ([]domain.Answer, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Answer), args.Error(1)
}

func (m *MockAnswerRepo) LinkToClaim(ctx context.Context, sessionID string, claimID uuid.UUID) error {
	args := m.Called(ctx, sessionID, claimID)
	return args.Error(0)
}
