package noop

import (
	"context"
	"log"

	"claimos/internal/domain"
	"claimos/internal/port"
)

type noopSender struct{}

// NewNoopSender creates a no-op EmailSender that logs confirmations to stdout.
func NewNoopSender() port.EmailSender {
	return &noopSender{}
}

func (s *noopSender) SendClaimConfirmation(_ context.Context, toEmail, toName string, claim *domain.Claim) error {
	log.Printf("[NOOP EMAIL] Claim confirmation for %s (%s): claim %s, amount %.2f",
		toName, toEmail, claim.ClaimNumber, claim.ClaimedAmount)
	return nil
}
