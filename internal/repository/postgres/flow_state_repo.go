package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"claimos/internal/domain"
	"claimos/internal/port"
)

type flowStateRepo struct {
	db *sqlx.DB
}

// NewFlowStateRepo creates a PostgreSQL-backed flow state repository.
func NewFlowStateRepo(db *sqlx.DB) port.FlowStateRepository {
	return &flowStateRepo{db: db}
}

// Init inserts the row for the session if none exists and returns whatever
// row is stored. The unique constraint on session_id makes concurrent inits
// converge on a single row.
func (r *flowStateRepo) Init(ctx context.Context, state *domain.FlowState) (*domain.FlowState, error) {
	now := time.Now().UTC()
	state.CreatedAt = now
	state.UpdatedAt = now

	query := `
		INSERT INTO flow_states (
			id, session_id, user_id, current_stage, coverage_type_ids,
			incident_description, classification_confidence, classification_reasoning,
			asked_question_ids, conversation_turns, extracted_data, document_ids,
			validation_result, policy_limit_result, claim_id, claim_number,
			created_at, updated_at, completed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		ON CONFLICT (session_id) DO NOTHING`

	_, err := r.db.ExecContext(ctx, query,
		state.ID, state.SessionID, state.UserID, state.CurrentStage, state.CoverageTypeIDs,
		state.IncidentDescription, state.ClassificationConfidence, state.ClassificationReasoning,
		state.AskedQuestionIDs, state.ConversationTurns, state.ExtractedData, state.DocumentIDs,
		state.ValidationResult, state.PolicyLimitResult, state.ClaimID, state.ClaimNumber,
		state.CreatedAt, state.UpdatedAt, state.CompletedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("flowStateRepo.Init: %w", err)
	}

	return r.GetBySessionID(ctx, state.SessionID)
}

func (r *flowStateRepo) GetBySessionID(ctx context.Context, sessionID string) (*domain.FlowState, error) {
	var state domain.FlowState
	err := r.db.GetContext(ctx, &state, "SELECT * FROM flow_states WHERE session_id = $1", sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrFlowStateNotFound
		}
		return nil, fmt.Errorf("flowStateRepo.GetBySessionID: %w", err)
	}
	return &state, nil
}

func (r *flowStateRepo) Update(ctx context.Context, state *domain.FlowState) error {
	state.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE flow_states SET
			current_stage = $1,
			coverage_type_ids = $2,
			incident_description = $3,
			classification_confidence = $4,
			classification_reasoning = $5,
			asked_question_ids = $6,
			conversation_turns = $7,
			extracted_data = $8,
			document_ids = $9,
			validation_result = $10,
			policy_limit_result = $11,
			claim_id = $12,
			claim_number = $13,
			updated_at = $14,
			completed_at = $15
		WHERE session_id = $16`

	result, err := r.db.ExecContext(ctx, query,
		state.CurrentStage, state.CoverageTypeIDs, state.IncidentDescription,
		state.ClassificationConfidence, state.ClassificationReasoning,
		state.AskedQuestionIDs, state.ConversationTurns, state.ExtractedData,
		state.DocumentIDs, state.ValidationResult, state.PolicyLimitResult,
		state.ClaimID, state.ClaimNumber, state.UpdatedAt, state.CompletedAt,
		state.SessionID,
	)
	if err != nil {
		return fmt.Errorf("flowStateRepo.Update: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("flowStateRepo.Update: %w", err)
	}
	if rows == 0 {
		return domain.ErrFlowStateNotFound
	}
	return nil
}

func (r *flowStateRepo) Delete(ctx context.Context, sessionID string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM flow_states WHERE session_id = $1", sessionID)
	if err != nil {
		return fmt.Errorf("flowStateRepo.Delete: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("flowStateRepo.Delete: %w", err)
	}
	if rows == 0 {
		return domain.ErrFlowStateNotFound
	}
	return nil
}
