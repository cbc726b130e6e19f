package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"claimos/internal/domain"
	"claimos/internal/flow"
	"claimos/internal/requirements"
	"claimos/internal/rules"
	"claimos/internal/service"
	"claimos/mocks"
)

// minimalOrchestrator wires just enough of the flow to exercise the service
// layer; the categorization stage simply refuses low-confidence input so no
// further collaborators are needed.
func minimalOrchestrator(stateRepo *mocks.MockFlowStateRepo) *flow.Orchestrator {
	states := flow.NewStateManager(stateRepo)
	engine := rules.NewEngine(rules.DefaultRules()...)
	registry := requirements.NewRegistry(requirements.DefaultSource(), time.Minute)

	classifier := new(mocks.MockClassifier)
	coverage := new(mocks.MockCoverageRepo)
	answers := new(mocks.MockAnswerRepo)
	docs := new(mocks.MockClaimDocumentRepo)

	return flow.NewOrchestrator(states,
		flow.NewCategorizationHandler(states, classifier, coverage),
		flow.NewQuestioningHandler(states, coverage, answers, engine, registry),
		flow.NewDocumentsHandler(states, docs, engine),
	)
}

func TestSendMessage_BusySessionFailsFast(t *testing.T) {
	lock := new(mocks.MockSessionLock)
	lock.On("Acquire", mock.Anything, "sess-1", 2*time.Minute).Return(nil, domain.ErrSessionBusy)

	svc := service.NewIntakeService(minimalOrchestrator(new(mocks.MockFlowStateRepo)), lock, 2*time.Minute)

	err := svc.SendMessage(context.Background(), &service.SendMessageInput{
		SessionID: "sess-1",
		UserID:    uuid.New(),
		Message:   "hello",
	}, nil)

	assert.ErrorIs(t, err, domain.ErrSessionBusy)
	lock.AssertExpectations(t)
}

func TestSendMessage_ReleasesLockAfterRun(t *testing.T) {
	released := false
	release := func(context.Context) error { released = true; return nil }

	lock := new(mocks.MockSessionLock)
	lock.On("Acquire", mock.Anything, "sess-1", 2*time.Minute).Return(release, nil)

	userID := uuid.New()
	completed := &domain.FlowState{
		ID:           uuid.New(),
		SessionID:    "sess-1",
		UserID:       userID,
		CurrentStage: domain.StageCompleted,
		ClaimNumber:  "CLM-20250310-A1B2C3D4",
	}

	stateRepo := new(mocks.MockFlowStateRepo)
	stateRepo.On("Init", mock.Anything, mock.Anything).Return(completed, nil)

	svc := service.NewIntakeService(minimalOrchestrator(stateRepo), lock, 2*time.Minute)

	var chunks []string
	err := svc.SendMessage(context.Background(), &service.SendMessageInput{
		SessionID: "sess-1",
		UserID:    userID,
		Message:   "hello again",
	}, func(chunk string) { chunks = append(chunks, chunk) })

	require.NoError(t, err)
	assert.True(t, released)
	require.NotEmpty(t, chunks)
	assert.Contains(t, chunks[0], "CLM-20250310-A1B2C3D4")
}

func TestReset_DeletesState(t *testing.T) {
	release := func(context.Context) error { return nil }
	lock := new(mocks.MockSessionLock)
	lock.On("Acquire", mock.Anything, "sess-1", 2*time.Minute).Return(release, nil)

	stateRepo := new(mocks.MockFlowStateRepo)
	stateRepo.On("Delete", mock.Anything, "sess-1").Return(nil)

	svc := service.NewIntakeService(minimalOrchestrator(stateRepo), lock, 2*time.Minute)
	require.NoError(t, svc.Reset(context.Background(), "sess-1"))
	stateRepo.AssertExpectations(t)
}
