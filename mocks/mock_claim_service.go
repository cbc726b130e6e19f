package mocks

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"claimos/internal/domain"
	"claimos/internal/service"
)

// MockClaimService is a mock implementation of service.ClaimService.
type MockClaimService struct {
	mock.Mock
}

func (m *MockClaimService) List(ctx context.Context, userID *uuid.UUID, offset, limit int) ([]domain.Claim, int, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Claim), args.Int(1), args.Error(2)
}

func (m *MockClaimService) GetByID(ctx context.Context, claimID uuid.UUID) (*service.ClaimDetail, error) {
	args := m.Called(ctx, claimID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ClaimDetail), args.Error(1)
}

func (m *MockClaimService) GetBySessionID(ctx context.Context, sessionID string) (*domain.Claim, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Claim), args.Error(1)
}

func (m *MockClaimService) ExportCSV(ctx context.Context, w io.Writer, userID *uuid.UUID) error {
	args := m.Called(ctx, w, userID)
	return args.Error(0)
}
