package flow

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"claimos/internal/domain"
	"claimos/internal/port"
)

// stageTransitions is the fixed table of legal stage edges. Validation is
// the only stage allowed to route backward, for remediation.
var stageTransitions = map[domain.Stage][]domain.Stage{
	domain.StageCategorization: {domain.StageQuestioning},
	domain.StageQuestioning:    {domain.StageDocuments, domain.StageValidation},
	domain.StageDocuments:      {domain.StageValidation},
	domain.StageValidation:     {domain.StageFinalization, domain.StageQuestioning, domain.StageDocuments},
	domain.StageFinalization:   {domain.StageCompleted},
	domain.StageCompleted:      {},
}

// CanTransition reports whether the edge from → to exists in the transition
// table.
func CanTransition(from, to domain.Stage) bool {
	for _, next := range stageTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// StateManager is the persistence and transition gate for FlowState. All
// stage writes go through it; no other code path may change CurrentStage.
type StateManager struct {
	repo port.FlowStateRepository
}

// NewStateManager creates a StateManager backed by the given repository.
func NewStateManager(repo port.FlowStateRepository) *StateManager {
	return &StateManager{repo: repo}
}

// LoadOrInitialize returns the existing state for sessionID or creates one
// at the categorization stage. Creation is idempotent: concurrent calls for
// the same session observe a single row.
func (m *StateManager) LoadOrInitialize(ctx context.Context, sessionID string, userID uuid.UUID) (*domain.FlowState, error) {
	state := &domain.FlowState{
		ID:                uuid.New(),
		SessionID:         sessionID,
		UserID:            userID,
		CurrentStage:      domain.StageCategorization,
		CoverageTypeIDs:   domain.StringList{},
		AskedQuestionIDs:  domain.StringList{},
		ConversationTurns: domain.Turns{},
		ExtractedData:     domain.ExtractedData{},
		DocumentIDs:       domain.StringList{},
	}
	stored, err := m.repo.Init(ctx, state)
	if err != nil {
		return nil, fmt.Errorf("initializing flow state for session %s: %w", sessionID, err)
	}
	return stored, nil
}

// Load returns the state for sessionID, or nil without error when the
// session is unknown.
func (m *StateManager) Load(ctx context.Context, sessionID string) (*domain.FlowState, error) {
	state, err := m.repo.GetBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrFlowStateNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return state, nil
}

// Save persists the state's current field values.
func (m *StateManager) Save(ctx context.Context, state *domain.FlowState) error {
	state.UpdatedAt = time.Now().UTC()
	return m.repo.Update(ctx, state)
}

// Delete removes the state. Used by reset tooling and tests.
func (m *StateManager) Delete(ctx context.Context, sessionID string) error {
	return m.repo.Delete(ctx, sessionID)
}

// Transition moves the state to the target stage after checking the
// transition table, then persists. An illegal edge fails with
// domain.ErrInvalidTransition and leaves the state untouched.
func (m *StateManager) Transition(ctx context.Context, state *domain.FlowState, to domain.Stage) error {
	from := state.CurrentStage
	if !CanTransition(from, to) {
		log.Printf("flow.Transition: illegal transition %s -> %s for session %s", from, to, state.SessionID)
		return fmt.Errorf("transition %s -> %s: %w", from, to, domain.ErrInvalidTransition)
	}

	state.CurrentStage = to
	if to == domain.StageCompleted {
		now := time.Now().UTC()
		state.CompletedAt = &now
	}
	if err := m.Save(ctx, state); err != nil {
		state.CurrentStage = from
		state.CompletedAt = nil
		return fmt.Errorf("persisting transition %s -> %s: %w", from, to, err)
	}
	return nil
}
