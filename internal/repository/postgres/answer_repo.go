package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"claimos/internal/domain"
	"claimos/internal/port"
)

type answerRepo struct {
	db *sqlx.DB
}

// NewAnswerRepo creates a PostgreSQL-backed answer repository.
func NewAnswerRepo(db *sqlx.DB) port.AnswerRepository {
	return &answerRepo{db: db}
}

func (r *answerRepo) Create(ctx context.Context, answer *domain.Answer) error {
	answer.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO claim_answers (id, session_id, question_id, value, claim_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		answer.ID, answer.SessionID, answer.QuestionID, answer.Value, answer.ClaimID, answer.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("answerRepo.Create: %w", err)
	}
	return nil
}

func (r *answerRepo) ListBySession(ctx context.Context, sessionID string) ([]domain.Answer, error) {
	answers := []domain.Answer{}
	err := r.db.SelectContext(ctx, &answers,
		"SELECT * FROM claim_answers WHERE session_id = $1 ORDER BY created_at ASC", sessionID)
	if err != nil {
		return nil, fmt.Errorf("answerRepo.ListBySession: %w", err)
	}
	return answers, nil
}

func (r *answerRepo) LinkToClaim(ctx context.Context, sessionID string, claimID uuid.UUID) error {
	query := `UPDATE claim_answers SET claim_id = $1 WHERE session_id = $2`
	_, err := r.db.ExecContext(ctx, query, claimID, sessionID)
	if err != nil {
		return fmt.Errorf("answerRepo.LinkToClaim: %w", err)
	}
	return nil
}
