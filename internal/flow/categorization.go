package flow

import (
	"context"
	"fmt"
	"log"
	"strings"

	"claimos/internal/domain"
	"claimos/internal/port"
)

// minClassificationConfidence is the lowest classifier confidence accepted
// for an automatic coverage match.
const minClassificationConfidence = 0.5

// CategorizationHandler resolves the claimant's coverage types from the
// incident description. It never creates a claim row.
type CategorizationHandler struct {
	states     *StateManager
	classifier port.Classifier
	coverage   port.CoverageRepository
}

func NewCategorizationHandler(states *StateManager, classifier port.Classifier, coverage port.CoverageRepository) *CategorizationHandler {
	return &CategorizationHandler{states: states, classifier: classifier, coverage: coverage}
}

func (h *CategorizationHandler) Stage() domain.Stage { return domain.StageCategorization }

func (h *CategorizationHandler) Run(ctx context.Context, state *domain.FlowState, input Input, emit Emit) error {
	description := strings.TrimSpace(input.Message)
	if description == "" {
		description = state.IncidentDescription
	}
	if description == "" {
		emit("Hi! I can help you file a claim. Please describe what happened, including when and where.")
		return nil
	}
	recordTurn(state, "user", input.Message)

	available, err := h.coverage.ListCoverageTypesForUser(ctx, state.UserID)
	if err != nil {
		log.Printf("flow.Categorization: listing coverage types for session %s: %v", state.SessionID, err)
		emit("Sorry, something went wrong on our side. Please send your description again in a moment.")
		return nil
	}
	if len(available) == 0 {
		emit("There are no active coverage types on your policy, so a claim cannot be filed right now.")
		return nil
	}

	candidates := make([]port.ClassifyCandidate, 0, len(available))
	for _, ct := range available {
		candidates = append(candidates, port.ClassifyCandidate{ID: ct.ID, Name: ct.Name, Description: ct.Description})
	}

	out, err := h.classifier.Classify(ctx, port.ClassifyInput{Description: description, Candidates: candidates})
	if err != nil {
		log.Printf("flow.Categorization: classify failed for session %s: %v", state.SessionID, err)
		emit("Sorry, I could not analyze your description just now. Please try sending it again.")
		return nil
	}

	if len(out.CoverageTypeIDs) == 0 || out.Confidence < minClassificationConfidence {
		msg := "I could not confidently match your incident to a coverage on your policy. Could you describe what happened in a bit more detail?"
		recordTurn(state, "assistant", msg)
		if err := h.states.Save(ctx, state); err != nil {
			log.Printf("flow.Categorization: saving state for session %s: %v", state.SessionID, err)
		}
		emit(msg)
		return nil
	}

	state.IncidentDescription = description
	state.CoverageTypeIDs = domain.StringList(out.CoverageTypeIDs)
	state.ClassificationConfidence = out.Confidence
	state.ClassificationReasoning = out.Reasoning

	names := coverageNames(available, out.CoverageTypeIDs)
	msg := fmt.Sprintf("Thanks! This looks like a %s claim. I'll ask a few questions to complete your filing.", strings.Join(names, " and "))
	recordTurn(state, "assistant", msg)

	if err := h.states.Save(ctx, state); err != nil {
		log.Printf("flow.Categorization: saving state for session %s: %v", state.SessionID, err)
		emit("Sorry, something went wrong saving your claim details. Please send your description again.")
		return nil
	}
	if err := h.states.Transition(ctx, state, domain.StageQuestioning); err != nil {
		return err
	}
	emit(msg)
	return nil
}

func coverageNames(available []domain.CoverageType, ids []string) []string {
	byID := make(map[string]string, len(available))
	for _, ct := range available {
		byID[ct.ID] = ct.Name
	}
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := byID[id]; ok {
			names = append(names, name)
		} else {
			names = append(names, id)
		}
	}
	return names
}
