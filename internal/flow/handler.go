package flow

import (
	"context"

	"claimos/internal/domain"
)

// StageHandler runs one stage of the intake pipeline. A handler mutates the
// state through the StateManager only, emits narration as it works, and
// must not let a collaborator error escape: collaborator failures become a
// narrated retry message with the state left unchanged.
type StageHandler interface {
	Stage() domain.Stage
	Run(ctx context.Context, state *domain.FlowState, input Input, emit Emit) error
}

// recordTurn appends a conversation turn to the state in memory. The caller
// is responsible for persisting.
func recordTurn(state *domain.FlowState, role, content string) {
	if content == "" {
		return
	}
	state.ConversationTurns = append(state.ConversationTurns, domain.ConversationTurn{
		Role: role, Content: content, At: nowUTC(),
	})
}
