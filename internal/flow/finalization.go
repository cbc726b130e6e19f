package flow

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"claimos/internal/alignment"
	"claimos/internal/domain"
	"claimos/internal/port"
)

// FinalizationHandler is the only stage permitted to create the claim
// record. On any persistence failure the state stays in finalization so a
// retry regenerates a fresh claim number and runs the whole stage again.
type FinalizationHandler struct {
	states  *StateManager
	claims  port.ClaimRepository
	answers port.AnswerRepository
	docs    port.ClaimDocumentRepository
	email   port.EmailSender // optional
	// notifyEmail receives the claim confirmation when email is configured.
	notifyEmail string
	notifyName  string
}

func NewFinalizationHandler(states *StateManager, claims port.ClaimRepository, answers port.AnswerRepository, docs port.ClaimDocumentRepository, email port.EmailSender, notifyEmail, notifyName string) *FinalizationHandler {
	return &FinalizationHandler{
		states: states, claims: claims, answers: answers, docs: docs,
		email: email, notifyEmail: notifyEmail, notifyName: notifyName,
	}
}

func (h *FinalizationHandler) Stage() domain.Stage { return domain.StageFinalization }

func (h *FinalizationHandler) Run(ctx context.Context, state *domain.FlowState, input Input, emit Emit) error {
	if len(state.CoverageTypeIDs) == 0 {
		emit("Something went wrong finalizing your claim: no coverage could be determined. Please contact support.")
		return fmt.Errorf("finalizing session %s: %w", state.SessionID, domain.ErrMissingCoverageTypes)
	}
	if state.IncidentDescription == "" {
		emit("Something went wrong finalizing your claim: the incident description is missing. Please contact support.")
		return fmt.Errorf("finalizing session %s: %w", state.SessionID, domain.ErrMissingIncidentDescription)
	}

	now := nowUTC()
	claim := &domain.Claim{
		ID:                  uuid.New(),
		ClaimNumber:         newClaimNumber(now),
		SessionID:           state.SessionID,
		UserID:              state.UserID,
		CoverageTypeIDs:     state.CoverageTypeIDs,
		IncidentDescription: state.IncidentDescription,
		Status:              domain.ClaimStatusSubmitted,
		SubmittedAt:         now,
	}
	h.deriveClaimFields(state, claim)

	if err := h.claims.Create(ctx, claim); err != nil {
		log.Printf("flow.Finalization: creating claim for session %s: %v", state.SessionID, err)
		emit("Sorry, I could not submit your claim just now. Please send any message to retry.")
		return nil
	}

	if err := h.answers.LinkToClaim(ctx, state.SessionID, claim.ID); err != nil {
		log.Printf("flow.Finalization: linking answers for session %s: %v", state.SessionID, err)
	}
	if err := h.docs.LinkToClaim(ctx, state.SessionID, claim.ID); err != nil {
		log.Printf("flow.Finalization: linking documents for session %s: %v", state.SessionID, err)
	}
	if err := h.claims.SaveExtractedInfo(ctx, claim.ID, extractedInfo(state, claim.ID)); err != nil {
		log.Printf("flow.Finalization: saving extracted info for session %s: %v", state.SessionID, err)
	}

	state.ClaimID = &claim.ID
	state.ClaimNumber = claim.ClaimNumber
	if err := h.states.Transition(ctx, state, domain.StageCompleted); err != nil {
		// The claim row exists but completion did not persist; the retry
		// path will fail on the duplicate session and needs support.
		log.Printf("flow.Finalization: completing session %s after claim %s: %v", state.SessionID, claim.ClaimNumber, err)
		emit("Your claim was created but I could not record completion. Please contact support with claim number " + claim.ClaimNumber + ".")
		return err
	}

	h.sendConfirmation(ctx, claim)

	emit(fmt.Sprintf("Your claim has been submitted. Claim number: %s.", claim.ClaimNumber))
	emit(h.summarize(state, claim))
	return nil
}

// newClaimNumber generates a fresh claim number. Retries after a failed
// submission must call this again rather than reuse an earlier number.
func newClaimNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("CLM-%s-%s", now.Format("20060102"), suffix)
}

// deriveClaimFields copies the most specific extracted values onto the
// claim record.
func (h *FinalizationHandler) deriveClaimFields(state *domain.FlowState, claim *domain.Claim) {
	if raw, ok := state.Field("incident_date"); ok {
		if d, parsed := alignment.ParseEntityDate(raw); parsed {
			claim.IncidentDate = &d
		}
	}
	if loc, ok := state.Field("incident_location"); ok {
		claim.IncidentLocation = loc
	}
	if raw, ok := state.Field("claimed_amount"); ok {
		if amount, parsed := alignment.ParseAmount(raw); parsed {
			claim.ClaimedAmount = amount
		}
	}
}

// extractedInfo snapshots every extracted field onto the claim.
func extractedInfo(state *domain.FlowState, claimID uuid.UUID) []domain.ClaimExtractedInfo {
	names := make([]string, 0, len(state.ExtractedData))
	for name := range state.ExtractedData {
		names = append(names, name)
	}
	sort.Strings(names)

	info := make([]domain.ClaimExtractedInfo, 0, len(names))
	for _, name := range names {
		f := state.ExtractedData[name]
		info = append(info, domain.ClaimExtractedInfo{
			ID:          uuid.New(),
			ClaimID:     claimID,
			FieldName:   name,
			Value:       f.Value,
			Confidence:  f.Confidence,
			Source:      f.Source,
			ExtractedAt: f.ExtractedAt,
		})
	}
	return info
}

func (h *FinalizationHandler) sendConfirmation(ctx context.Context, claim *domain.Claim) {
	if h.email == nil || h.notifyEmail == "" {
		return
	}
	if err := h.email.SendClaimConfirmation(ctx, h.notifyEmail, h.notifyName, claim); err != nil {
		log.Printf("flow.Finalization: sending confirmation for claim %s: %v", claim.ClaimNumber, err)
	}
}

func (h *FinalizationHandler) summarize(state *domain.FlowState, claim *domain.Claim) string {
	var b strings.Builder
	b.WriteString("Summary: ")
	b.WriteString(claim.IncidentDescription)
	if claim.IncidentDate != nil {
		b.WriteString(fmt.Sprintf(" Incident date: %s.", claim.IncidentDate.Format("2006-01-02")))
	}
	if claim.IncidentLocation != "" {
		b.WriteString(fmt.Sprintf(" Location: %s.", claim.IncidentLocation))
	}
	if claim.ClaimedAmount > 0 {
		b.WriteString(fmt.Sprintf(" Claimed amount: %.2f.", claim.ClaimedAmount))
	}
	b.WriteString(fmt.Sprintf(" Documents on file: %d.", len(state.DocumentIDs)))
	return b.String()
}
