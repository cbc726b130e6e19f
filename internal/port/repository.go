package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"claimos/internal/domain"
)

// FlowStateRepository defines the contract for intake session persistence.
type FlowStateRepository interface {
	// Init creates the row for sessionID if none exists and returns the
	// stored state. Concurrent calls for the same session all observe the
	// same row.
	Init(ctx context.Context, state *domain.FlowState) (*domain.FlowState, error)
	GetBySessionID(ctx context.Context, sessionID string) (*domain.FlowState, error)
	Update(ctx context.Context, state *domain.FlowState) error
	Delete(ctx context.Context, sessionID string) error
}

// ClaimDocumentRepository defines the contract for document persistence.
type ClaimDocumentRepository interface {
	Create(ctx context.Context, doc *domain.ClaimDocument) error
	GetByID(ctx context.Context, docID uuid.UUID) (*domain.ClaimDocument, error)
	ListBySession(ctx context.Context, sessionID string) ([]domain.ClaimDocument, error)
	UpdateExtraction(ctx context.Context, doc *domain.ClaimDocument) error
	UpdateTrust(ctx context.Context, doc *domain.ClaimDocument) error
	// ClaimQueued atomically moves up to limit queued documents whose retry
	// time has passed into processing state and returns them.
	ClaimQueued(ctx context.Context, limit int, now time.Time) ([]domain.ClaimDocument, error)
	MarkFailed(ctx context.Context, docID uuid.UUID, procErr string, retryAfter *time.Time) error
	LinkToClaim(ctx context.Context, sessionID string, claimID uuid.UUID) error
}

// ClaimRepository defines the contract for submitted claim persistence.
type ClaimRepository interface {
	Create(ctx context.Context, claim *domain.Claim) error
	GetByID(ctx context.Context, claimID uuid.UUID) (*domain.Claim, error)
	GetBySessionID(ctx context.Context, sessionID string) (*domain.Claim, error)
	List(ctx context.Context, userID *uuid.UUID, offset, limit int) ([]domain.Claim, int, error)
	SaveExtractedInfo(ctx context.Context, claimID uuid.UUID, info []domain.ClaimExtractedInfo) error
	ListExtractedInfo(ctx context.Context, claimID uuid.UUID) ([]domain.ClaimExtractedInfo, error)
}

// AnswerRepository defines the contract for question answer persistence.
type AnswerRepository interface {
	Create(ctx context.Context, answer *domain.Answer) error
	ListBySession(ctx context.Context, sessionID string) ([]domain.Answer, error)
	LinkToClaim(ctx context.Context, sessionID string, claimID uuid.UUID) error
}

// CoverageRepository defines the contract for coverage type and question
// catalog reads.
type CoverageRepository interface {
	// ListCoverageTypesForUser returns the active coverage types available
	// to one claimant: the union of explicit policy coverage links and
	// legacy policy item entries.
	ListCoverageTypesForUser(ctx context.Context, userID uuid.UUID) ([]domain.CoverageType, error)
	GetCoverageType(ctx context.Context, id string) (*domain.CoverageType, error)
	ListQuestions(ctx context.Context, coverageTypeIDs []string) ([]domain.Question, error)
}
