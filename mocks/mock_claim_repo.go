package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"claimos/internal/domain"
)

// MockClaimRepo is a mock implementation of port.ClaimRepository.
type MockClaimRepo struct {
	mock.Mock
}

func (m *MockClaimRepo) Create(ctx context.Context, claim *domain.Claim) error {
	args := m.Called(ctx, claim)
	return args.Error(0)
}

func (m *MockClaimRepo) GetByID(ctx context.Context, claimID uuid.UUID) (*domain.Claim, error) {
	args := m.Called(ctx, claimID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Claim), args.Error(1)
}

func (m *MockClaimRepo) GetBySessionID(ctx context.Context, sessionID string) (*domain.Claim, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Claim), args.Error(1)
}

func (m *MockClaimRepo) List(ctx context.Context, userID *uuid.UUID, offset, limit int) ([]domain.Claim, int, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Claim), args.Int(1), args.Error(2)
}

func (m *MockClaimRepo) SaveExtractedInfo(ctx context.Context, claimID uuid.UUID, info []domain.ClaimExtractedInfo) error {
	args := m.Called(ctx, claimID, info)
	return args.Error(0)
}

func (m *MockClaimRepo) ListExtractedInfo(ctx context.Context, claimID uuid.UUID) ([]domain.ClaimExtractedInfo, error) {
	args := m.Called(ctx, claimID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ClaimExtractedInfo), args.Error(1)
}
