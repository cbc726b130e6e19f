package port

import (
	"context"

	"claimos/internal/domain"
)

// EmailSender defines the contract for sending emails.
type EmailSender interface {
	SendClaimConfirmation(ctx context.Context, toEmail, toName string, claim *domain.Claim) error
}
