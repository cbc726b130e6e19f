package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"claimos/internal/domain"
	"claimos/internal/port"
)

type coverageRepo struct {
	db *sqlx.DB
}

// NewCoverageRepo creates a PostgreSQL-backed coverage catalog repository.
func NewCoverageRepo(db *sqlx.DB) port.CoverageRepository {
	return &coverageRepo{db: db}
}

func (r *coverageRepo) ListCoverageTypesForUser(ctx context.Context, userID uuid.UUID) ([]domain.CoverageType, error) {
	types := []domain.CoverageType{}
	// Union of explicit policy coverage links and legacy policy items that
	// were migrated with a coverage type mapping.
	err := r.db.SelectContext(ctx, &types, `
		SELECT ct.* FROM coverage_types ct
		JOIN policy_coverages pc ON pc.coverage_type_id = ct.id
		WHERE pc.user_id = $1 AND ct.is_active = TRUE
		UNION
		SELECT ct.* FROM coverage_types ct
		JOIN policy_items pi ON pi.coverage_type_id = ct.id
		WHERE pi.user_id = $1 AND ct.is_active = TRUE
		ORDER BY name ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("coverageRepo.ListCoverageTypesForUser: %w", err)
	}
	return types, nil
}

func (r *coverageRepo) GetCoverageType(ctx context.Context, id string) (*domain.CoverageType, error) {
	var ct domain.CoverageType
	err := r.db.GetContext(ctx, &ct, "SELECT * FROM coverage_types WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNoCoverageMatch
		}
		return nil, fmt.Errorf("coverageRepo.GetCoverageType: %w", err)
	}
	return &ct, nil
}

func (r *coverageRepo) ListQuestions(ctx context.Context, coverageTypeIDs []string) ([]domain.Question, error) {
	questions := []domain.Question{}
	if len(coverageTypeIDs) == 0 {
		return questions, nil
	}

	query, args, err := sqlx.In(
		"SELECT * FROM coverage_questions WHERE coverage_type_id IN (?) ORDER BY priority ASC, id ASC",
		coverageTypeIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("coverageRepo.ListQuestions: %w", err)
	}
	query = r.db.Rebind(query)

	if err := r.db.SelectContext(ctx, &questions, query, args...); err != nil {
		return nil, fmt.Errorf("coverageRepo.ListQuestions: %w", err)
	}
	return questions, nil
}
