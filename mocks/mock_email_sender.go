package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"claimos/internal/domain"
)

// MockEmailSender is a mock implementation of port.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendClaimConfirmation(ctx context.Context, toEmail, toName string, claim *domain.Claim) error {
	args := m.Called(ctx, toEmail, toName, claim)
	return args.Error(0)
}
