package flow_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"claimos/internal/domain"
	"claimos/internal/flow"
)

// fakeStateRepo is an in-memory FlowStateRepository with the same
// uniqueness semantics as the Postgres implementation.
type fakeStateRepo struct {
	mu     sync.Mutex
	states map[string]*domain.FlowState
}

func newFakeStateRepo() *fakeStateRepo {
	return &fakeStateRepo{states: make(map[string]*domain.FlowState)}
}

func cloneState(s *domain.FlowState) *domain.FlowState {
	c := *s
	c.CoverageTypeIDs = append(domain.StringList{}, s.CoverageTypeIDs...)
	c.AskedQuestionIDs = append(domain.StringList{}, s.AskedQuestionIDs...)
	c.ConversationTurns = append(domain.Turns{}, s.ConversationTurns...)
	c.DocumentIDs = append(domain.StringList{}, s.DocumentIDs...)
	c.ExtractedData = make(domain.ExtractedData, len(s.ExtractedData))
	for k, v := range s.ExtractedData {
		c.ExtractedData[k] = v
	}
	return &c
}

func (r *fakeStateRepo) Init(ctx context.Context, state *domain.FlowState) (*domain.FlowState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.states[state.SessionID]; ok {
		return cloneState(existing), nil
	}
	r.states[state.SessionID] = cloneState(state)
	return cloneState(state), nil
}

func (r *fakeStateRepo) GetBySessionID(ctx context.Context, sessionID string) (*domain.FlowState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.states[sessionID]
	if !ok {
		return nil, domain.ErrFlowStateNotFound
	}
	return cloneState(s), nil
}

func (r *fakeStateRepo) Update(ctx context.Context, state *domain.FlowState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.states[state.SessionID]; !ok {
		return domain.ErrFlowStateNotFound
	}
	r.states[state.SessionID] = cloneState(state)
	return nil
}

func (r *fakeStateRepo) Delete(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.states, sessionID)
	return nil
}

var allStages = []domain.Stage{
	domain.StageCategorization,
	domain.StageQuestioning,
	domain.StageDocuments,
	domain.StageValidation,
	domain.StageFinalization,
	domain.StageCompleted,
}

func legalEdges() map[domain.Stage][]domain.Stage {
	return map[domain.Stage][]domain.Stage{
		domain.StageCategorization: {domain.StageQuestioning},
		domain.StageQuestioning:    {domain.StageDocuments, domain.StageValidation},
		domain.StageDocuments:      {domain.StageValidation},
		domain.StageValidation:     {domain.StageFinalization, domain.StageQuestioning, domain.StageDocuments},
		domain.StageFinalization:   {domain.StageCompleted},
		domain.StageCompleted:      {},
	}
}

func isLegal(from, to domain.Stage) bool {
	for _, next := range legalEdges()[from] {
		if next == to {
			return true
		}
	}
	return false
}

func TestTransition_IllegalEdgesFailAndLeaveStageUnchanged(t *testing.T) {
	for _, from := range allStages {
		for _, to := range allStages {
			if isLegal(from, to) {
				continue
			}
			repo := newFakeStateRepo()
			sm := flow.NewStateManager(repo)
			state, err := sm.LoadOrInitialize(context.Background(), "s1", uuid.New())
			require.NoError(t, err)
			state.CurrentStage = from
			require.NoError(t, sm.Save(context.Background(), state))

			err = sm.Transition(context.Background(), state, to)
			assert.ErrorIs(t, err, domain.ErrInvalidTransition, "%s -> %s must be rejected", from, to)
			assert.Equal(t, from, state.CurrentStage, "%s -> %s must not change the stage", from, to)

			stored, err := sm.Load(context.Background(), "s1")
			require.NoError(t, err)
			assert.Equal(t, from, stored.CurrentStage)
		}
	}
}

func TestTransition_LegalEdgesPersist(t *testing.T) {
	for from, tos := range legalEdges() {
		for _, to := range tos {
			repo := newFakeStateRepo()
			sm := flow.NewStateManager(repo)
			state, err := sm.LoadOrInitialize(context.Background(), "s1", uuid.New())
			require.NoError(t, err)
			state.CurrentStage = from
			require.NoError(t, sm.Save(context.Background(), state))

			require.NoError(t, sm.Transition(context.Background(), state, to))
			assert.Equal(t, to, state.CurrentStage)

			stored, err := sm.Load(context.Background(), "s1")
			require.NoError(t, err)
			assert.Equal(t, to, stored.CurrentStage)
		}
	}
}

func TestTransition_CompletedSetsCompletedAt(t *testing.T) {
	repo := newFakeStateRepo()
	sm := flow.NewStateManager(repo)
	state, err := sm.LoadOrInitialize(context.Background(), "s1", uuid.New())
	require.NoError(t, err)
	state.CurrentStage = domain.StageFinalization
	require.NoError(t, sm.Save(context.Background(), state))

	require.NoError(t, sm.Transition(context.Background(), state, domain.StageCompleted))
	require.NotNil(t, state.CompletedAt)
}

func TestLoadOrInitialize_Idempotent(t *testing.T) {
	repo := newFakeStateRepo()
	sm := flow.NewStateManager(repo)
	userID := uuid.New()

	first, err := sm.LoadOrInitialize(context.Background(), "s1", userID)
	require.NoError(t, err)
	second, err := sm.LoadOrInitialize(context.Background(), "s1", userID)
	require.NoError(t, err)

	assert.Equal(t, domain.StageCategorization, first.CurrentStage)
	assert.Equal(t, domain.StageCategorization, second.CurrentStage)
	assert.Equal(t, first.ID, second.ID, "no duplicate row may be created")
	assert.Len(t, repo.states, 1)
}

func TestLoad_UnknownSessionIsNilNotError(t *testing.T) {
	sm := flow.NewStateManager(newFakeStateRepo())

	state, err := sm.Load(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, state)
}
