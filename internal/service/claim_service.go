package service

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"claimos/internal/csvexport"
	"claimos/internal/domain"
	"claimos/internal/port"
)

// ClaimDetail bundles a claim with its snapshotted fields and documents.
type ClaimDetail struct {
	Claim         domain.Claim                `json:"claim"`
	ExtractedInfo []domain.ClaimExtractedInfo `json:"extracted_info"`
	Documents     []domain.ClaimDocument      `json:"documents"`
	Answers       []domain.Answer             `json:"answers"`
}

// ClaimService defines the submitted-claim read contract.
type ClaimService interface {
	List(ctx context.Context, userID *uuid.UUID, offset, limit int) ([]domain.Claim, int, error)
	GetByID(ctx context.Context, claimID uuid.UUID) (*ClaimDetail, error)
	GetBySessionID(ctx context.Context, sessionID string) (*domain.Claim, error)
	// ExportCSV streams all claims (optionally one user's) as CSV to w,
	// prefixed with a UTF-8 BOM for spreadsheet compatibility.
	ExportCSV(ctx context.Context, w io.Writer, userID *uuid.UUID) error
}

const exportBatchSize = 500

type claimService struct {
	claimRepo  port.ClaimRepository
	docRepo    port.ClaimDocumentRepository
	answerRepo port.AnswerRepository
}

// NewClaimService creates a new ClaimService implementation.
func NewClaimService(claimRepo port.ClaimRepository, docRepo port.ClaimDocumentRepository, answerRepo port.AnswerRepository) ClaimService {
	return &claimService{
		claimRepo:  claimRepo,
		docRepo:    docRepo,
		answerRepo: answerRepo,
	}
}

func (s *claimService) List(ctx context.Context, userID *uuid.UUID, offset, limit int) ([]domain.Claim, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.claimRepo.List(ctx, userID, offset, limit)
}

func (s *claimService) GetByID(ctx context.Context, claimID uuid.UUID) (*ClaimDetail, error) {
	claim, err := s.claimRepo.GetByID(ctx, claimID)
	if err != nil {
		return nil, err
	}

	info, err := s.claimRepo.ListExtractedInfo(ctx, claimID)
	if err != nil {
		return nil, fmt.Errorf("claimService.GetByID: %w", err)
	}
	docs, err := s.docRepo.ListBySession(ctx, claim.SessionID)
	if err != nil {
		return nil, fmt.Errorf("claimService.GetByID: %w", err)
	}
	answers, err := s.answerRepo.ListBySession(ctx, claim.SessionID)
	if err != nil {
		return nil, fmt.Errorf("claimService.GetByID: %w", err)
	}

	return &ClaimDetail{
		Claim:         *claim,
		ExtractedInfo: info,
		Documents:     docs,
		Answers:       answers,
	}, nil
}

func (s *claimService) GetBySessionID(ctx context.Context, sessionID string) (*domain.Claim, error) {
	return s.claimRepo.GetBySessionID(ctx, sessionID)
}

func (s *claimService) ExportCSV(ctx context.Context, w io.Writer, userID *uuid.UUID) error {
	if _, err := w.Write(csvexport.BOM); err != nil {
		return fmt.Errorf("claimService.ExportCSV: %w", err)
	}

	writer := csvexport.NewWriter(w)
	if err := writer.WriteHeader(); err != nil {
		return fmt.Errorf("claimService.ExportCSV: %w", err)
	}

	offset := 0
	for {
		claims, total, err := s.claimRepo.List(ctx, userID, offset, exportBatchSize)
		if err != nil {
			return fmt.Errorf("claimService.ExportCSV: %w", err)
		}
		if err := writer.WriteClaims(claims); err != nil {
			return fmt.Errorf("claimService.ExportCSV: %w", err)
		}
		offset += len(claims)
		if offset >= total || len(claims) == 0 {
			break
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("claimService.ExportCSV: %w", err)
	}
	return nil
}
