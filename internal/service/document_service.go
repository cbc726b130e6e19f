package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"

	"claimos/internal/alignment"
	"claimos/internal/doctrust"
	"claimos/internal/domain"
	"claimos/internal/extractor"
	"claimos/internal/port"
)

// UploadDocumentInput is the DTO for uploading one supporting document.
type UploadDocumentInput struct {
	SessionID    string
	UserID       uuid.UUID
	FileName     string
	ContentType  string
	FileSize     int64
	Body         io.Reader
	ExpectedType string
}

// DocumentService defines the supporting-document contract.
type DocumentService interface {
	Upload(ctx context.Context, input *UploadDocumentInput) (*domain.ClaimDocument, error)
	GetByID(ctx context.Context, docID uuid.UUID) (*domain.ClaimDocument, error)
	ListBySession(ctx context.Context, sessionID string) ([]domain.ClaimDocument, error)
	GetDownloadURL(ctx context.Context, docID uuid.UUID) (string, error)
	// ProcessDocument runs the trust pipeline for one claimed document. It
	// never returns an error; failures are recorded on the document row.
	ProcessDocument(ctx context.Context, doc *domain.ClaimDocument, maxRetries int)
}

type documentService struct {
	docRepo       port.ClaimDocumentRepository
	stateRepo     port.FlowStateRepository
	storage       port.ObjectStorage
	trust         *doctrust.Pipeline
	bucket        string
	maxFileSize   int64
	presignExpiry int64
}

// NewDocumentService creates a new DocumentService implementation.
func NewDocumentService(
	docRepo port.ClaimDocumentRepository,
	stateRepo port.FlowStateRepository,
	storage port.ObjectStorage,
	trust *doctrust.Pipeline,
	bucket string,
	maxFileSizeMB int64,
	presignExpiry int64,
) DocumentService {
	return &documentService{
		docRepo:       docRepo,
		stateRepo:     stateRepo,
		storage:       storage,
		trust:         trust,
		bucket:        bucket,
		maxFileSize:   maxFileSizeMB * 1024 * 1024,
		presignExpiry: presignExpiry,
	}
}

func (s *documentService) Upload(ctx context.Context, input *UploadDocumentInput) (*domain.ClaimDocument, error) {
	if _, ok := domain.AllowedContentTypes[input.ContentType]; !ok {
		return nil, fmt.Errorf("documentService.Upload: %s: %w", input.ContentType, domain.ErrUnsupportedFileType)
	}
	if input.FileSize > s.maxFileSize {
		return nil, fmt.Errorf("documentService.Upload: %d bytes: %w", input.FileSize, domain.ErrFileTooLarge)
	}

	state, err := s.stateRepo.GetBySessionID(ctx, input.SessionID)
	if err != nil && !errors.Is(err, domain.ErrFlowStateNotFound) {
		return nil, fmt.Errorf("documentService.Upload: %w", err)
	}
	if state != nil && state.CurrentStage == domain.StageCompleted {
		return nil, fmt.Errorf("documentService.Upload: %w", domain.ErrSessionCompleted)
	}

	docID := uuid.New()
	key := fmt.Sprintf("sessions/%s/documents/%s", input.SessionID, docID)

	_, err = s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.bucket,
		Key:         key,
		Body:        input.Body,
		ContentType: input.ContentType,
		Size:        input.FileSize,
		SessionID:   input.SessionID,
		FileName:    input.FileName,
	})
	if err != nil {
		return nil, fmt.Errorf("documentService.Upload: %w: %v", domain.ErrUploadFailed, err)
	}

	doc := &domain.ClaimDocument{
		ID:               docID,
		SessionID:        input.SessionID,
		UserID:           input.UserID,
		FileName:         input.FileName,
		ContentType:      input.ContentType,
		FileSize:         input.FileSize,
		S3Bucket:         s.bucket,
		S3Key:            key,
		ExpectedType:     input.ExpectedType,
		TrustStatus:      domain.DocumentTrustStatusPending,
		ProcessingStatus: domain.DocumentProcessingStatusPending,
	}
	if err := s.docRepo.Create(ctx, doc); err != nil {
		// Best effort: do not leave an orphaned object behind.
		if delErr := s.storage.Delete(ctx, s.bucket, key); delErr != nil {
			log.Printf("documentService.Upload: cleaning up s3 object %s: %v", key, delErr)
		}
		return nil, fmt.Errorf("documentService.Upload: %w", err)
	}
	return doc, nil
}

func (s *documentService) GetByID(ctx context.Context, docID uuid.UUID) (*domain.ClaimDocument, error) {
	return s.docRepo.GetByID(ctx, docID)
}

func (s *documentService) ListBySession(ctx context.Context, sessionID string) ([]domain.ClaimDocument, error) {
	return s.docRepo.ListBySession(ctx, sessionID)
}

func (s *documentService) GetDownloadURL(ctx context.Context, docID uuid.UUID) (string, error) {
	doc, err := s.docRepo.GetByID(ctx, docID)
	if err != nil {
		return "", err
	}
	url, err := s.storage.GetPresignedURL(ctx, doc.S3Bucket, doc.S3Key, doc.FileName, s.presignExpiry)
	if err != nil {
		return "", fmt.Errorf("documentService.GetDownloadURL: %w", err)
	}
	return url, nil
}

func (s *documentService) ProcessDocument(ctx context.Context, doc *domain.ClaimDocument, maxRetries int) {
	fileBytes, err := s.storage.Download(ctx, doc.S3Bucket, doc.S3Key)
	if err != nil {
		log.Printf("documentService.ProcessDocument: downloading %s: %v", doc.ID, err)
		s.recordFailure(ctx, doc, maxRetries, fmt.Sprintf("download failed: %v", err), 30*time.Second)
		return
	}

	var expectedTypes []string
	if doc.ExpectedType != "" {
		expectedTypes = []string{doc.ExpectedType}
	}

	result, err := s.trust.Evaluate(ctx, doctrust.Input{
		FileBytes:     fileBytes,
		ContentType:   doc.ContentType,
		ExpectedTypes: expectedTypes,
		Context:       s.claimContext(ctx, doc.SessionID),
	})
	if err != nil {
		var rateLimitErr *extractor.RateLimitError
		if errors.As(err, &rateLimitErr) {
			log.Printf("documentService.ProcessDocument: rate limited on %s, retrying in %s", doc.ID, rateLimitErr.RetryAfter)
			s.recordFailure(ctx, doc, maxRetries, "model rate limited", rateLimitErr.RetryAfter)
			return
		}
		log.Printf("documentService.ProcessDocument: evaluating %s: %v", doc.ID, err)
		s.recordFailure(ctx, doc, maxRetries, fmt.Sprintf("evaluation failed: %v", err), 30*time.Second)
		return
	}

	now := time.Now().UTC()
	doc.DetectedType = result.DocumentType
	doc.RecognizedText = result.RecognizedText
	doc.Entities = result.Entities
	doc.AuthenticityScore = result.AuthenticityScore
	doc.TamperingDetected = result.TamperingDetected
	doc.IsLegitimate = result.IsLegitimate
	doc.IsRelevant = result.IsRelevant
	doc.ProcessingStatus = domain.DocumentProcessingStatusCompleted
	doc.ProcessingError = ""
	doc.RetryAfter = nil
	doc.ProcessedAt = &now

	if err := s.docRepo.UpdateExtraction(ctx, doc); err != nil {
		log.Printf("documentService.ProcessDocument: persisting extraction for %s: %v", doc.ID, err)
		return
	}

	doc.ContextMatches = result.ContextMatches
	doc.TrustStatus = result.Status
	doc.StatusReason = result.Reason
	doc.Guidance = result.Guidance
	if err := s.docRepo.UpdateTrust(ctx, doc); err != nil {
		log.Printf("documentService.ProcessDocument: persisting trust verdict for %s: %v", doc.ID, err)
		return
	}

	log.Printf("documentService.ProcessDocument: document %s evaluated as %s", doc.ID, doc.TrustStatus)
}

// recordFailure requeues the document with a retry delay, or marks it failed
// permanently once attempts are exhausted.
func (s *documentService) recordFailure(ctx context.Context, doc *domain.ClaimDocument, maxRetries int, reason string, delay time.Duration) {
	var retryAfter *time.Time
	if doc.ProcessAttempts < maxRetries {
		t := time.Now().UTC().Add(delay)
		retryAfter = &t
	}
	if err := s.docRepo.MarkFailed(ctx, doc.ID, reason, retryAfter); err != nil {
		log.Printf("documentService.recordFailure: marking %s failed: %v", doc.ID, err)
	}
}

// claimContext assembles the alignment context from whatever the flow has
// already collected. Missing state just disables the context checks.
func (s *documentService) claimContext(ctx context.Context, sessionID string) *alignment.ClaimContext {
	state, err := s.stateRepo.GetBySessionID(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, domain.ErrFlowStateNotFound) {
			log.Printf("documentService.claimContext: loading state for session %s: %v", sessionID, err)
		}
		return nil
	}

	claimCtx := &alignment.ClaimContext{}
	if v, ok := state.Field("claimant_name"); ok {
		claimCtx.ClaimantName = v
	}
	if v, ok := state.Field("incident_location"); ok {
		claimCtx.Location = v
	}
	if v, ok := state.Field("incident_date"); ok {
		if d, parsed := alignment.ParseEntityDate(v); parsed {
			claimCtx.IncidentDate = &d
		}
	}
	if v, ok := state.Field("claimed_amount"); ok {
		if amt, parsed := alignment.ParseAmount(v); parsed {
			claimCtx.ClaimedAmount = amt
		}
	}
	return claimCtx
}
