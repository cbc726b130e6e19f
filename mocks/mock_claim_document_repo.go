package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"claimos/internal/domain"
)

// MockClaimDocumentRepo is a mock implementation of port.ClaimDocumentRepository.
type MockClaimDocumentRepo struct {
	mock.Mock
}

func (m *MockClaimDocumentRepo) Create(ctx context.Context, doc *domain.ClaimDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockClaimDocumentRepo) GetByID(ctx context.Context, docID uuid.UUID) (*domain.ClaimDocument, error) {
	args := m.Called(ctx, docID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClaimDocument), args.Error(1)
}

func (m *MockClaimDocumentRepo) ListBySession(ctx context.Context, sessionID string) ([]domain.ClaimDocument, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ClaimDocument), args.Error(1)
}

func (m *MockClaimDocumentRepo) UpdateExtraction(ctx context.Context, doc *domain.ClaimDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockClaimDocumentRepo) UpdateTrust(ctx context.Context, doc *domain.ClaimDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockClaimDocumentRepo) ClaimQueued(ctx context.Context, limit int, now time.Time) ([]domain.ClaimDocument, error) {
	args := m.Called(ctx, limit, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ClaimDocument), args.Error(1)
}

func (m *MockClaimDocumentRepo) MarkFailed(ctx context.Context, docID uuid.UUID, procErr string, retryAfter *time.Time) error {
	args := m.Called(ctx, docID, procErr, retryAfter)
	return args.Error(0)
}

func (m *MockClaimDocumentRepo) LinkToClaim(ctx context.Context, sessionID string, claimID uuid.UUID) error {
	args := m.Called(ctx, sessionID, claimID)
	return args.Error(0)
}
