package flow

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"claimos/internal/domain"
)

// maxChainedStages bounds how many stage executions one invocation may
// chain, so a misbehaving handler cannot loop the trampoline forever.
const maxChainedStages = 4

// autoChain lists the stage edges the orchestrator follows within a single
// invocation, so the claimant sees e.g. classification and the first
// question in one turn.
var autoChain = map[domain.Stage]domain.Stage{
	domain.StageCategorization: domain.StageQuestioning,
	domain.StageDocuments:      domain.StageValidation,
	domain.StageValidation:     domain.StageFinalization,
}

// Orchestrator is the single entry point of the intake pipeline.
type Orchestrator struct {
	states   *StateManager
	handlers map[domain.Stage]StageHandler
}

// NewOrchestrator wires the stage handlers. Every non-terminal stage must
// have a handler.
func NewOrchestrator(states *StateManager, handlers ...StageHandler) *Orchestrator {
	byStage := make(map[domain.Stage]StageHandler, len(handlers))
	for _, h := range handlers {
		byStage[h.Stage()] = h
	}
	return &Orchestrator{states: states, handlers: byStage}
}

// Run loads or initializes the session state, dispatches to the active
// stage, and chains into the next stage when the handler transitioned along
// an auto-chain edge. Narration from every chained stage is emitted in
// order through emit.
func (o *Orchestrator) Run(ctx context.Context, sessionID string, userID uuid.UUID, input Input, emit Emit) error {
	if emit == nil {
		emit = discard
	}

	state, err := o.states.LoadOrInitialize(ctx, sessionID, userID)
	if err != nil {
		return err
	}

	if state.CurrentStage == domain.StageCompleted {
		emit(fmt.Sprintf("This claim has already been submitted (claim number %s). Start a new session to file another claim.", state.ClaimNumber))
		return nil
	}

	stageInput := input
	for i := 0; i < maxChainedStages; i++ {
		handler, ok := o.handlers[state.CurrentStage]
		if !ok {
			return fmt.Errorf("no handler for stage %s (session %s)", state.CurrentStage, sessionID)
		}

		before := state.CurrentStage
		if err := handler.Run(ctx, state, stageInput, emit); err != nil {
			log.Printf("flow.Orchestrator: stage %s failed for session %s: %v", before, sessionID, err)
			return err
		}

		// Re-read to observe the stage the handler left the session in.
		reloaded, err := o.states.Load(ctx, sessionID)
		if err != nil {
			return fmt.Errorf("reloading session %s after stage %s: %w", sessionID, before, err)
		}
		if reloaded == nil {
			return fmt.Errorf("session %s disappeared during stage %s", sessionID, before)
		}
		state = reloaded

		if state.CurrentStage == before || state.CurrentStage == domain.StageCompleted {
			return nil
		}
		if next, chained := autoChain[before]; !chained || next != state.CurrentStage {
			return nil
		}
		// Chained stages run without the original message; it was consumed
		// by the stage it was addressed to.
		stageInput = Input{}
	}
	log.Printf("flow.Orchestrator: chain limit reached for session %s at stage %s", sessionID, state.CurrentStage)
	return nil
}

// State returns the current flow state, or nil when the session is unknown.
func (o *Orchestrator) State(ctx context.Context, sessionID string) (*domain.FlowState, error) {
	return o.states.Load(ctx, sessionID)
}

// Reset deletes the session state. Inspection and retry tooling only.
func (o *Orchestrator) Reset(ctx context.Context, sessionID string) error {
	return o.states.Delete(ctx, sessionID)
}
