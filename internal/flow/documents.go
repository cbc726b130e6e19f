package flow

import (
	"context"
	"fmt"
	"log"
	"strings"

	"claimos/internal/alignment"
	"claimos/internal/domain"
	"claimos/internal/port"
	"claimos/internal/rules"
)

// DocumentsHandler tracks supporting document collection. Uploads are
// processed asynchronously by the document worker; this stage reads their
// trust verdicts, absorbs OCR-derived fields, and reports what is missing.
type DocumentsHandler struct {
	states *StateManager
	docs   port.ClaimDocumentRepository
	engine *rules.Engine
}

func NewDocumentsHandler(states *StateManager, docs port.ClaimDocumentRepository, engine *rules.Engine) *DocumentsHandler {
	return &DocumentsHandler{states: states, docs: docs, engine: engine}
}

func (h *DocumentsHandler) Stage() domain.Stage { return domain.StageDocuments }

func (h *DocumentsHandler) Run(ctx context.Context, state *domain.FlowState, input Input, emit Emit) error {
	if msg := strings.TrimSpace(input.Message); msg != "" {
		recordTurn(state, "user", msg)
	}

	out := h.engine.Evaluate(rules.Input{
		CoverageTypeIDs: state.CoverageTypeIDs,
		Answers:         answerValues(state),
	})
	if len(out.RequiredDocuments) == 0 {
		if err := h.states.Save(ctx, state); err != nil {
			log.Printf("flow.Documents: saving state for session %s: %v", state.SessionID, err)
		}
		if err := h.states.Transition(ctx, state, domain.StageValidation); err != nil {
			return err
		}
		emit("No documents are needed for this claim. Let me check everything over.")
		return nil
	}

	docs, err := h.docs.ListBySession(ctx, state.SessionID)
	if err != nil {
		log.Printf("flow.Documents: listing documents for session %s: %v", state.SessionID, err)
		emit("Sorry, I could not check your documents just now. Please try again in a moment.")
		return nil
	}

	h.absorbDocumentFields(state, docs)

	pending := 0
	for _, d := range docs {
		switch d.ProcessingStatus {
		case domain.DocumentProcessingStatusPending,
			domain.DocumentProcessingStatusQueued,
			domain.DocumentProcessingStatusProcessing:
			pending++
		}
		if d.TrustStatus == domain.DocumentTrustStatusReupload || d.TrustStatus == domain.DocumentTrustStatusInvalid {
			emit(fmt.Sprintf("About %q: %s %s", d.FileName, d.StatusReason, d.Guidance))
		}
	}

	missing := missingDocumentTypes(docs, out.RequiredDocuments)

	if err := h.states.Save(ctx, state); err != nil {
		log.Printf("flow.Documents: saving state for session %s: %v", state.SessionID, err)
		emit("Sorry, something went wrong on our side. Please try again in a moment.")
		return nil
	}

	if len(missing) == 0 && pending == 0 {
		if err := h.states.Transition(ctx, state, domain.StageValidation); err != nil {
			return err
		}
		emit("All required documents are in. Let me check everything over.")
		return nil
	}

	if pending > 0 {
		emit(fmt.Sprintf("%d document(s) are still being processed. I'll pick this up as soon as they're done.", pending))
	}
	if len(missing) > 0 {
		emit(fmt.Sprintf("Still needed: %s. Please upload these to continue.", strings.Join(missing, ", ")))
	}
	return nil
}

// absorbDocumentFields copies OCR-derived entity values from accepted
// documents into the flow's extracted data, without overwriting values the
// claimant already provided.
func (h *DocumentsHandler) absorbDocumentFields(state *domain.FlowState, docs []domain.ClaimDocument) {
	for _, d := range docs {
		if !d.Acceptable() || d.ProcessingStatus != domain.DocumentProcessingStatusCompleted {
			continue
		}
		if !state.DocumentIDs.Contains(d.ID.String()) {
			state.DocumentIDs = append(state.DocumentIDs, d.ID.String())
		}
		for key, value := range d.Entities {
			if value == "" {
				continue
			}
			field := alignment.Normalize(key)
			field = strings.ReplaceAll(field, " ", "_")
			if _, exists := state.Field(field); exists {
				continue
			}
			state.SetField(field, value, "document", 0.8)
		}
	}
}

// missingDocumentTypes returns required types with no accepted upload yet.
func missingDocumentTypes(docs []domain.ClaimDocument, required []string) []string {
	var missing []string
	for _, reqType := range required {
		found := false
		for _, d := range docs {
			if !d.Acceptable() {
				continue
			}
			if alignment.MatchDocumentType(d.DetectedType, reqType) || alignment.MatchDocumentType(d.ExpectedType, reqType) {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, reqType)
		}
	}
	return missing
}
