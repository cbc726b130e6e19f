package flow

import (
	"context"
	"fmt"
	"log"
	"strings"

	"claimos/internal/alignment"
	"claimos/internal/domain"
	"claimos/internal/port"
	"claimos/internal/requirements"
	"claimos/internal/rules"
)

// ValidationHandler runs the blocking checks in order and is the only stage
// that routes the flow backward: eligibility and field gaps return to
// questioning, document gaps return to documents. The policy limit check is
// advisory only.
type ValidationHandler struct {
	states   *StateManager
	docs     port.ClaimDocumentRepository
	coverage port.CoverageRepository
	engine   *rules.Engine
	registry requirements.Registry
}

func NewValidationHandler(states *StateManager, docs port.ClaimDocumentRepository, coverage port.CoverageRepository, engine *rules.Engine, registry requirements.Registry) *ValidationHandler {
	return &ValidationHandler{states: states, docs: docs, coverage: coverage, engine: engine, registry: registry}
}

func (h *ValidationHandler) Stage() domain.Stage { return domain.StageValidation }

func (h *ValidationHandler) Run(ctx context.Context, state *domain.FlowState, input Input, emit Emit) error {
	out := h.engine.Evaluate(rules.Input{
		CoverageTypeIDs: state.CoverageTypeIDs,
		Answers:         answerValues(state),
	})

	if out.EligibilityStatus == domain.EligibilityStatusIneligible || out.EligibilityStatus == domain.EligibilityStatusNeedsInfo || len(out.ValidationErrors) > 0 {
		h.recordFailure(state, out.ValidationErrors, out.Reasons)
		if err := h.states.Transition(ctx, state, domain.StageQuestioning); err != nil {
			return err
		}
		msg := "I need to revisit a few answers before this claim can be submitted"
		if len(out.Reasons) > 0 {
			msg += ": " + strings.Join(out.Reasons, "; ")
		}
		emit(msg + ".")
		return nil
	}

	missing, err := h.registry.MissingRequired(ctx, state.CoverageTypeIDs, state.ExtractedData)
	if err != nil {
		log.Printf("flow.Validation: resolving required fields for session %s: %v", state.SessionID, err)
		emit("Sorry, I could not run the final checks just now. Please try again in a moment.")
		return nil
	}
	if len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for _, f := range missing {
			names = append(names, f.Label)
		}
		h.recordFailure(state, nil, []string{"missing required details: " + strings.Join(names, ", ")})
		if err := h.states.Transition(ctx, state, domain.StageQuestioning); err != nil {
			return err
		}
		emit(fmt.Sprintf("A few details are still missing: %s. Let me ask you about those.", strings.Join(names, ", ")))
		return nil
	}

	if len(out.RequiredDocuments) > 0 {
		docs, err := h.docs.ListBySession(ctx, state.SessionID)
		if err != nil {
			log.Printf("flow.Validation: listing documents for session %s: %v", state.SessionID, err)
			emit("Sorry, I could not run the final checks just now. Please try again in a moment.")
			return nil
		}
		if missingTypes := missingDocumentTypes(docs, out.RequiredDocuments); len(missingTypes) > 0 {
			h.recordFailure(state, nil, []string{"missing required documents: " + strings.Join(missingTypes, ", ")})
			if err := h.states.Transition(ctx, state, domain.StageDocuments); err != nil {
				return err
			}
			emit(fmt.Sprintf("Some documents are still outstanding: %s. Let's get those uploaded.", strings.Join(missingTypes, ", ")))
			return nil
		}
	}

	limitWarning := h.checkPolicyLimit(ctx, state)

	state.ValidationResult = &domain.ValidationOutcome{Passed: true, CheckedAt: nowUTC()}
	if err := h.states.Save(ctx, state); err != nil {
		log.Printf("flow.Validation: saving state for session %s: %v", state.SessionID, err)
		emit("Sorry, I could not run the final checks just now. Please try again in a moment.")
		return nil
	}
	if err := h.states.Transition(ctx, state, domain.StageFinalization); err != nil {
		return err
	}

	if limitWarning != "" {
		emit(limitWarning)
	}
	emit("Everything checks out. Submitting your claim now.")
	return nil
}

// recordFailure stores the failed validation outcome in memory; the
// transition that follows persists it.
func (h *ValidationHandler) recordFailure(state *domain.FlowState, issues []domain.ValidationIssue, reasons []string) {
	for _, r := range reasons {
		issues = append(issues, domain.ValidationIssue{Code: "validation_failed", Message: r})
	}
	state.ValidationResult = &domain.ValidationOutcome{Passed: false, Issues: issues, CheckedAt: nowUTC()}
}

// checkPolicyLimit compares the claimed amount against the summed limits of
// the matched coverage types. Exceeding the limit never blocks submission;
// it is surfaced as a warning and stored for the assessor.
func (h *ValidationHandler) checkPolicyLimit(ctx context.Context, state *domain.FlowState) string {
	raw, ok := state.Field("claimed_amount")
	if !ok {
		return ""
	}
	claimed, ok := alignment.ParseAmount(raw)
	if !ok || claimed <= 0 {
		return ""
	}

	var limit float64
	for _, id := range state.CoverageTypeIDs {
		ct, err := h.coverage.GetCoverageType(ctx, id)
		if err != nil {
			log.Printf("flow.Validation: loading coverage type %s for session %s: %v", id, state.SessionID, err)
			return ""
		}
		limit += ct.LimitAmount
	}
	if limit <= 0 {
		return ""
	}

	result := &domain.PolicyLimitResult{WithinLimit: claimed <= limit, LimitAmount: limit, ClaimedAmount: claimed}
	if !result.WithinLimit {
		result.Message = fmt.Sprintf("claimed amount %.2f exceeds the policy limit %.2f", claimed, limit)
	}
	state.PolicyLimitResult = result

	if !result.WithinLimit {
		return fmt.Sprintf("Note: your claimed amount %.2f is above your policy limit of %.2f; the payout may be capped.", claimed, limit)
	}
	return ""
}
