package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"claimos/internal/domain"
)

func defaultEngine() *Engine {
	return NewEngine(DefaultRules()...)
}

func TestEvaluate_BaggageLossRequiresDocuments(t *testing.T) {
	out := defaultEngine().Evaluate(Input{
		CoverageTypeIDs: []string{"baggage_loss"},
		Answers:         map[string]string{"claimed_amount": "1000"},
	})

	assert.Equal(t, domain.EligibilityStatusEligible, out.EligibilityStatus)
	assert.ElementsMatch(t, []string{"flight_ticket", "property_irregularity_report"}, out.RequiredDocuments)
	assert.Empty(t, out.ValidationErrors)
}

func TestEvaluate_ShortDelayIneligible(t *testing.T) {
	out := defaultEngine().Evaluate(Input{
		CoverageTypeIDs: []string{"flight_delay"},
		Answers:         map[string]string{"delay_hours": "2"},
	})

	assert.Equal(t, domain.EligibilityStatusIneligible, out.EligibilityStatus)
	assert.NotEmpty(t, out.Reasons)
}

func TestEvaluate_MissingDelayHoursNeedsInfo(t *testing.T) {
	out := defaultEngine().Evaluate(Input{
		CoverageTypeIDs: []string{"flight_delay"},
		Answers:         map[string]string{},
	})

	assert.Equal(t, domain.EligibilityStatusNeedsInfo, out.EligibilityStatus)
}

func TestEvaluate_IneligibleWinsOverNeedsInfo(t *testing.T) {
	e := NewEngine(
		NewRule("a", "needs info", "", func(Input) Finding { return Finding{NeedsInfo: true} }),
		NewRule("b", "ineligible", "", func(Input) Finding { return Finding{Ineligible: true, Reason: "excluded"} }),
	)

	out := e.Evaluate(Input{})
	assert.Equal(t, domain.EligibilityStatusIneligible, out.EligibilityStatus)
	assert.Contains(t, out.Reasons, "excluded")
}

func TestEvaluate_RulesScopedToCoverageType(t *testing.T) {
	out := defaultEngine().Evaluate(Input{
		CoverageTypeIDs: []string{"theft"},
		Answers:         map[string]string{"delay_hours": "1"},
	})

	// The flight delay rule must not fire for a theft claim.
	assert.Equal(t, domain.EligibilityStatusEligible, out.EligibilityStatus)
	assert.ElementsMatch(t, []string{"police_report"}, out.RequiredDocuments)
}

func TestEvaluate_HiddenQuestions(t *testing.T) {
	out := defaultEngine().Evaluate(Input{
		CoverageTypeIDs: []string{"medical_expense"},
		Answers:         map[string]string{"claimed_amount": "250"},
	})

	assert.Contains(t, out.HiddenQuestionIDs, "medical_diagnosis_details")
}

func TestEvaluate_InvalidAmountValidationError(t *testing.T) {
	out := defaultEngine().Evaluate(Input{
		CoverageTypeIDs: []string{"theft"},
		Answers:         map[string]string{"claimed_amount": "lots"},
	})

	assert.Len(t, out.ValidationErrors, 1)
	assert.Equal(t, "invalid_claimed_amount", out.ValidationErrors[0].Code)
}

func TestEvaluate_ChangeOfMindCancellation(t *testing.T) {
	out := defaultEngine().Evaluate(Input{
		CoverageTypeIDs: []string{"trip_cancellation"},
		Answers:         map[string]string{"cancellation_reason": "I changed my mind about the trip"},
	})

	assert.Equal(t, domain.EligibilityStatusIneligible, out.EligibilityStatus)
}

func TestEvaluate_MultipleCoverageTypesMergeDocuments(t *testing.T) {
	out := defaultEngine().Evaluate(Input{
		CoverageTypeIDs: []string{"baggage_loss", "theft"},
		Answers:         map[string]string{"claimed_amount": "1000"},
	})

	assert.ElementsMatch(t,
		[]string{"flight_ticket", "property_irregularity_report", "police_report"},
		out.RequiredDocuments)
}
