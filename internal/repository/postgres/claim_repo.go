package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"claimos/internal/domain"
	"claimos/internal/port"
)

type claimRepo struct {
	db *sqlx.DB
}

// NewClaimRepo creates a PostgreSQL-backed claim repository.
func NewClaimRepo(db *sqlx.DB) port.ClaimRepository {
	return &claimRepo{db: db}
}

func (r *claimRepo) Create(ctx context.Context, claim *domain.Claim) error {
	now := time.Now().UTC()
	claim.CreatedAt = now
	claim.UpdatedAt = now

	query := `
		INSERT INTO claims (
			id, claim_number, session_id, user_id, coverage_type_ids,
			incident_description, incident_date, incident_location,
			claimed_amount, status, submitted_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.db.ExecContext(ctx, query,
		claim.ID, claim.ClaimNumber, claim.SessionID, claim.UserID, claim.CoverageTypeIDs,
		claim.IncidentDescription, claim.IncidentDate, claim.IncidentLocation,
		claim.ClaimedAmount, claim.Status, claim.SubmittedAt, claim.CreatedAt, claim.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return fmt.Errorf("claimRepo.Create: claim already exists for session %s: %w", claim.SessionID, err)
		}
		return fmt.Errorf("claimRepo.Create: %w", err)
	}
	return nil
}

func (r *claimRepo) GetByID(ctx context.Context, claimID uuid.UUID) (*domain.Claim, error) {
	var claim domain.Claim
	err := r.db.GetContext(ctx, &claim, "SELECT * FROM claims WHERE id = $1", claimID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrClaimNotFound
		}
		return nil, fmt.Errorf("claimRepo.GetByID: %w", err)
	}
	return &claim, nil
}

func (r *claimRepo) GetBySessionID(ctx context.Context, sessionID string) (*domain.Claim, error) {
	var claim domain.Claim
	err := r.db.GetContext(ctx, &claim, "SELECT * FROM claims WHERE session_id = $1", sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrClaimNotFound
		}
		return nil, fmt.Errorf("claimRepo.GetBySessionID: %w", err)
	}
	return &claim, nil
}

func (r *claimRepo) List(ctx context.Context, userID *uuid.UUID, offset, limit int) ([]domain.Claim, int, error) {
	var total int
	countQuery := "SELECT COUNT(*) FROM claims"
	listQuery := "SELECT * FROM claims"
	args := []interface{}{}
	if userID != nil {
		countQuery += " WHERE user_id = $1"
		listQuery += " WHERE user_id = $1"
		args = append(args, *userID)
	}

	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("claimRepo.List: %w", err)
	}

	listQuery += fmt.Sprintf(" ORDER BY submitted_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	claims := []domain.Claim{}
	if err := r.db.SelectContext(ctx, &claims, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("claimRepo.List: %w", err)
	}
	return claims, total, nil
}

func (r *claimRepo) SaveExtractedInfo(ctx context.Context, claimID uuid.UUID, info []domain.ClaimExtractedInfo) error {
	if len(info) == 0 {
		return nil
	}

	query := `
		INSERT INTO claim_extracted_info (
			id, claim_id, field_name, value, confidence, source, extracted_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	for i := range info {
		rec := &info[i]
		if rec.ID == uuid.Nil {
			rec.ID = uuid.New()
		}
		rec.ClaimID = claimID
		_, err := r.db.ExecContext(ctx, query,
			rec.ID, rec.ClaimID, rec.FieldName, rec.Value, rec.Confidence, rec.Source, rec.ExtractedAt,
		)
		if err != nil {
			return fmt.Errorf("claimRepo.SaveExtractedInfo: field %s: %w", rec.FieldName, err)
		}
	}
	return nil
}

func (r *claimRepo) ListExtractedInfo(ctx context.Context, claimID uuid.UUID) ([]domain.ClaimExtractedInfo, error) {
	info := []domain.ClaimExtractedInfo{}
	err := r.db.SelectContext(ctx, &info,
		"SELECT * FROM claim_extracted_info WHERE claim_id = $1 ORDER BY field_name ASC", claimID)
	if err != nil {
		return nil, fmt.Errorf("claimRepo.ListExtractedInfo: %w", err)
	}
	return info, nil
}
