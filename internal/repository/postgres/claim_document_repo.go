package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"claimos/internal/domain"
	"claimos/internal/port"
)

type claimDocumentRepo struct {
	db *sqlx.DB
}

// NewClaimDocumentRepo creates a PostgreSQL-backed claim document repository.
func NewClaimDocumentRepo(db *sqlx.DB) port.ClaimDocumentRepository {
	return &claimDocumentRepo{db: db}
}

func (r *claimDocumentRepo) Create(ctx context.Context, doc *domain.ClaimDocument) error {
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	query := `
		INSERT INTO claim_documents (
			id, session_id, user_id, claim_id, file_name, content_type, file_size,
			s3_bucket, s3_key, expected_type, detected_type, recognized_text,
			entities, authenticity_score, tampering_detected, is_legitimate,
			is_relevant, context_matches, trust_status, status_reason, guidance,
			processing_status, processing_error, process_attempts, retry_after,
			processed_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28)`

	_, err := r.db.ExecContext(ctx, query,
		doc.ID, doc.SessionID, doc.UserID, doc.ClaimID, doc.FileName, doc.ContentType, doc.FileSize,
		doc.S3Bucket, doc.S3Key, doc.ExpectedType, doc.DetectedType, doc.RecognizedText,
		doc.Entities, doc.AuthenticityScore, doc.TamperingDetected, doc.IsLegitimate,
		doc.IsRelevant, doc.ContextMatches, doc.TrustStatus, doc.StatusReason, doc.Guidance,
		doc.ProcessingStatus, doc.ProcessingError, doc.ProcessAttempts, doc.RetryAfter,
		doc.ProcessedAt, doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("claimDocumentRepo.Create: %w", err)
	}
	return nil
}

func (r *claimDocumentRepo) GetByID(ctx context.Context, docID uuid.UUID) (*domain.ClaimDocument, error) {
	var doc domain.ClaimDocument
	err := r.db.GetContext(ctx, &doc, "SELECT * FROM claim_documents WHERE id = $1", docID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("claimDocumentRepo.GetByID: %w", err)
	}
	return &doc, nil
}

func (r *claimDocumentRepo) ListBySession(ctx context.Context, sessionID string) ([]domain.ClaimDocument, error) {
	docs := []domain.ClaimDocument{}
	err := r.db.SelectContext(ctx, &docs,
		"SELECT * FROM claim_documents WHERE session_id = $1 ORDER BY created_at ASC", sessionID)
	if err != nil {
		return nil, fmt.Errorf("claimDocumentRepo.ListBySession: %w", err)
	}
	return docs, nil
}

func (r *claimDocumentRepo) UpdateExtraction(ctx context.Context, doc *domain.ClaimDocument) error {
	doc.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE claim_documents SET
			detected_type = $1,
			recognized_text = $2,
			entities = $3,
			authenticity_score = $4,
			tampering_detected = $5,
			is_legitimate = $6,
			is_relevant = $7,
			processing_status = $8,
			processing_error = $9,
			process_attempts = $10,
			retry_after = $11,
			processed_at = $12,
			updated_at = $13
		WHERE id = $14`

	result, err := r.db.ExecContext(ctx, query,
		doc.DetectedType, doc.RecognizedText, doc.Entities, doc.AuthenticityScore,
		doc.TamperingDetected, doc.IsLegitimate, doc.IsRelevant,
		doc.ProcessingStatus, doc.ProcessingError, doc.ProcessAttempts,
		doc.RetryAfter, doc.ProcessedAt, doc.UpdatedAt, doc.ID,
	)
	if err != nil {
		return fmt.Errorf("claimDocumentRepo.UpdateExtraction: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("claimDocumentRepo.UpdateExtraction: %w", err)
	}
	if rows == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

func (r *claimDocumentRepo) UpdateTrust(ctx context.Context, doc *domain.ClaimDocument) error {
	doc.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE claim_documents SET
			context_matches = $1,
			trust_status = $2,
			status_reason = $3,
			guidance = $4,
			updated_at = $5
		WHERE id = $6`

	result, err := r.db.ExecContext(ctx, query,
		doc.ContextMatches, doc.TrustStatus, doc.StatusReason, doc.Guidance,
		doc.UpdatedAt, doc.ID,
	)
	if err != nil {
		return fmt.Errorf("claimDocumentRepo.UpdateTrust: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("claimDocumentRepo.UpdateTrust: %w", err)
	}
	if rows == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

// ClaimQueued moves up to limit due documents into processing state in one
// statement. SKIP LOCKED lets multiple worker instances poll the same table
// without handing out the same document twice.
func (r *claimDocumentRepo) ClaimQueued(ctx context.Context, limit int, now time.Time) ([]domain.ClaimDocument, error) {
	query := `
		UPDATE claim_documents SET
			processing_status = 'processing',
			process_attempts = process_attempts + 1,
			updated_at = $1
		WHERE id IN (
			SELECT id FROM claim_documents
			WHERE processing_status IN ('pending', 'queued')
			  AND (retry_after IS NULL OR retry_after <= $2)
			ORDER BY created_at ASC
			LIMIT $3
			FOR UPDATE SKIP LOCKED
		)
		RETURNING *`

	docs := []domain.ClaimDocument{}
	err := r.db.SelectContext(ctx, &docs, query, now.UTC(), now.UTC(), limit)
	if err != nil {
		return nil, fmt.Errorf("claimDocumentRepo.ClaimQueued: %w", err)
	}
	return docs, nil
}

func (r *claimDocumentRepo) MarkFailed(ctx context.Context, docID uuid.UUID, procErr string, retryAfter *time.Time) error {
	status := domain.DocumentProcessingStatusFailed
	if retryAfter != nil {
		status = domain.DocumentProcessingStatusQueued
	}

	query := `
		UPDATE claim_documents SET
			processing_status = $1,
			processing_error = $2,
			retry_after = $3,
			updated_at = $4
		WHERE id = $5`

	result, err := r.db.ExecContext(ctx, query, status, procErr, retryAfter, time.Now().UTC(), docID)
	if err != nil {
		return fmt.Errorf("claimDocumentRepo.MarkFailed: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("claimDocumentRepo.MarkFailed: %w", err)
	}
	if rows == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

func (r *claimDocumentRepo) LinkToClaim(ctx context.Context, sessionID string, claimID uuid.UUID) error {
	query := `UPDATE claim_documents SET claim_id = $1, updated_at = $2 WHERE session_id = $3`
	_, err := r.db.ExecContext(ctx, query, claimID, time.Now().UTC(), sessionID)
	if err != nil {
		return fmt.Errorf("claimDocumentRepo.LinkToClaim: %w", err)
	}
	return nil
}
