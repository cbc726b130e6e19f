package doctrust_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"claimos/internal/alignment"
	"claimos/internal/doctrust"
	"claimos/internal/domain"
	"claimos/internal/extractor"
	"claimos/internal/port"
	"claimos/mocks"
)

func extractorReturning(out *port.ExtractOutput, err error) *mocks.MockDocumentExtractor {
	ex := new(mocks.MockDocumentExtractor)
	ex.On("Extract", mock.Anything, mock.Anything).Return(out, err)
	return ex
}

func cleanOutput() *port.ExtractOutput {
	return &port.ExtractOutput{
		DocumentType:      "flight_ticket",
		RecognizedText:    "Passenger Name: Jane Doe\nFlight SA-204 from Bengaluru to Delhi\nDate: 2025-03-01\nTotal: INR 900",
		Entities:          map[string]string{"passenger_name": "Jane Doe", "flight_number": "SA-204", "origin": "Bengaluru", "destination": "Delhi"},
		AuthenticityScore: 0.95,
		IsLegitimate:      true,
		IsRelevant:        true,
	}
}

func incidentContext() *alignment.ClaimContext {
	d := time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC)
	return &alignment.ClaimContext{
		ClaimantName:  "Jane Doe",
		IncidentDate:  &d,
		Location:      "Bengaluru",
		ClaimedAmount: 1000,
	}
}

func TestEvaluate_Valid(t *testing.T) {
	p := doctrust.NewPipeline(extractorReturning(cleanOutput(), nil))

	res, _ := p.Evaluate(context.Background(), doctrust.Input{
		FileBytes:     []byte("pdf"),
		ContentType:   "application/pdf",
		ExpectedTypes: []string{"flight_ticket"},
		Context:       incidentContext(),
	})

	assert.Equal(t, domain.DocumentTrustStatusValid, res.Status)
	assert.True(t, res.ContextMatches)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, 4, res.Verification.VerifiedCount)
}

func TestEvaluate_ExtractionFailureDegrades(t *testing.T) {
	p := doctrust.NewPipeline(extractorReturning(nil, errors.New("model timeout")))

	res, err := p.Evaluate(context.Background(), doctrust.Input{FileBytes: []byte("pdf")})
	require.NoError(t, err)

	assert.Equal(t, domain.DocumentTrustStatusNeedsReview, res.Status)
	assert.True(t, res.IsLegitimate)
	assert.False(t, res.IsRelevant)
	assert.False(t, res.ContextMatches)
	assert.NotEmpty(t, res.Guidance)
}

func TestEvaluate_RateLimitErrorPropagates(t *testing.T) {
	rateErr := extractor.NewRateLimitError("claude", errors.New("429"), 0)
	p := doctrust.NewPipeline(extractorReturning(nil, rateErr))

	res, err := p.Evaluate(context.Background(), doctrust.Input{FileBytes: []byte("pdf")})
	require.Error(t, err)
	assert.Nil(t, res)

	var gotErr *extractor.RateLimitError
	assert.ErrorAs(t, err, &gotErr)
}

func TestEvaluate_TypeMismatchBeatsNameMismatch(t *testing.T) {
	out := cleanOutput()
	out.DocumentType = "bank_statement"
	out.Entities["passenger_name"] = "John Smith"
	p := doctrust.NewPipeline(extractorReturning(out, nil))

	res, _ := p.Evaluate(context.Background(), doctrust.Input{
		ExpectedTypes: []string{"flight_ticket"},
		Context:       incidentContext(),
	})

	assert.Equal(t, domain.DocumentTrustStatusReupload, res.Status)
	assert.Contains(t, res.Reason, "bank_statement")
	assert.Contains(t, res.Reason, "does not match the expected type")
}

func TestEvaluate_TamperingInvalid(t *testing.T) {
	out := cleanOutput()
	out.TamperingDetected = true
	p := doctrust.NewPipeline(extractorReturning(out, nil))

	res, _ := p.Evaluate(context.Background(), doctrust.Input{ExpectedTypes: []string{"flight_ticket"}})

	assert.Equal(t, domain.DocumentTrustStatusInvalid, res.Status)
	assert.Contains(t, res.Reason, "tampering")
}

func TestEvaluate_LowAuthenticityInvalid(t *testing.T) {
	out := cleanOutput()
	out.AuthenticityScore = 0.3
	p := doctrust.NewPipeline(extractorReturning(out, nil))

	res, _ := p.Evaluate(context.Background(), doctrust.Input{ExpectedTypes: []string{"flight_ticket"}})

	assert.Equal(t, domain.DocumentTrustStatusInvalid, res.Status)
	assert.Contains(t, res.Reason, "authenticity")
}

func TestEvaluate_NotRelevantReupload(t *testing.T) {
	out := cleanOutput()
	out.IsRelevant = false
	p := doctrust.NewPipeline(extractorReturning(out, nil))

	res, _ := p.Evaluate(context.Background(), doctrust.Input{ExpectedTypes: []string{"flight_ticket"}})

	assert.Equal(t, domain.DocumentTrustStatusReupload, res.Status)
	assert.Contains(t, res.Reason, "not appear related")
}

func TestEvaluate_NameMismatchReupload(t *testing.T) {
	out := cleanOutput()
	out.RecognizedText = "Passenger Name: John Smith\nFlight SA-204 from Bengaluru to Delhi"
	out.Entities = map[string]string{"passenger_name": "John Smith", "origin": "Bengaluru"}
	p := doctrust.NewPipeline(extractorReturning(out, nil))

	res, _ := p.Evaluate(context.Background(), doctrust.Input{
		ExpectedTypes: []string{"flight_ticket"},
		Context:       incidentContext(),
	})

	assert.Equal(t, domain.DocumentTrustStatusReupload, res.Status)
	assert.Contains(t, res.Reason, "name")
	assert.False(t, res.ContextMatches)
}

func TestEvaluate_DateMisalignedReupload(t *testing.T) {
	out := cleanOutput()
	out.DocumentType = "police_report"
	out.RecognizedText = "Complainant: Jane Doe\nReport dated 2025-03-12 at Bengaluru"
	out.Entities = map[string]string{"complainant_name": "Jane Doe", "report_date": "2025-03-12", "location": "Bengaluru"}
	p := doctrust.NewPipeline(extractorReturning(out, nil))

	res, _ := p.Evaluate(context.Background(), doctrust.Input{
		ExpectedTypes: []string{"police_report"},
		Context:       incidentContext(),
	})

	require.Equal(t, domain.DocumentTrustStatusReupload, res.Status)
	assert.Contains(t, res.Reason, "day(s) after")
}

func TestEvaluate_LocationMisalignedReupload(t *testing.T) {
	out := cleanOutput()
	out.RecognizedText = "Passenger Name: Jane Doe\nFlight from Mumbai to Kolkata on 2025-03-01"
	out.Entities = map[string]string{"passenger_name": "Jane Doe", "origin": "Mumbai", "destination": "Kolkata"}
	p := doctrust.NewPipeline(extractorReturning(out, nil))

	res, _ := p.Evaluate(context.Background(), doctrust.Input{
		ExpectedTypes: []string{"flight_ticket"},
		Context:       incidentContext(),
	})

	assert.Equal(t, domain.DocumentTrustStatusReupload, res.Status)
	assert.Contains(t, res.Reason, "location")
}

func TestEvaluate_RouteMatchesEitherEndpoint(t *testing.T) {
	out := cleanOutput()
	p := doctrust.NewPipeline(extractorReturning(out, nil))

	claimCtx := incidentContext()
	claimCtx.Location = "Delhi" // destination side of the route

	res, _ := p.Evaluate(context.Background(), doctrust.Input{
		ExpectedTypes: []string{"flight_ticket"},
		Context:       claimCtx,
	})

	assert.Equal(t, domain.DocumentTrustStatusValid, res.Status)
}

func TestEvaluate_AmountOverReupload(t *testing.T) {
	out := cleanOutput()
	out.DocumentType = "purchase_receipt"
	out.RecognizedText = "Receipt for Jane Doe\nTotal: INR 1200\nDate: 2025-03-08 Bengaluru"
	out.Entities = map[string]string{"customer_name": "Jane Doe", "total_amount": "INR 1200", "receipt_date": "2025-03-08", "location": "Bengaluru"}
	p := doctrust.NewPipeline(extractorReturning(out, nil))

	res, _ := p.Evaluate(context.Background(), doctrust.Input{
		ExpectedTypes: []string{"receipt"},
		Context:       incidentContext(),
	})

	assert.Equal(t, domain.DocumentTrustStatusReupload, res.Status)
	assert.Contains(t, res.Reason, "over the claimed amount")
}

func TestEvaluate_HallucinationWarningNeedsReview(t *testing.T) {
	out := cleanOutput()
	// Claimed entities not present in the text trigger a hallucination
	// warning for the critical name field.
	out.RecognizedText = "Flight SA-204 from Bengaluru to Delhi"
	out.Entities = map[string]string{"passenger_name": "Jane Doe", "origin": "Bengaluru"}
	p := doctrust.NewPipeline(extractorReturning(out, nil))

	res, _ := p.Evaluate(context.Background(), doctrust.Input{ExpectedTypes: []string{"flight_ticket"}})

	assert.Equal(t, domain.DocumentTrustStatusNeedsReview, res.Status)
	assert.NotEmpty(t, res.Warnings)
	assert.LessOrEqual(t, res.Verification.OverallConfidence, 0.5)
}

func TestEvaluate_ModelErrorsInvalid(t *testing.T) {
	out := cleanOutput()
	out.Errors = []string{"document is expired"}
	p := doctrust.NewPipeline(extractorReturning(out, nil))

	res, _ := p.Evaluate(context.Background(), doctrust.Input{ExpectedTypes: []string{"flight_ticket"}})

	assert.Equal(t, domain.DocumentTrustStatusInvalid, res.Status)
	assert.Contains(t, res.Reason, "expired")
}

func TestEvaluate_NoContextSkipsAlignment(t *testing.T) {
	p := doctrust.NewPipeline(extractorReturning(cleanOutput(), nil))

	res, _ := p.Evaluate(context.Background(), doctrust.Input{ExpectedTypes: []string{"flight_ticket"}})

	assert.Equal(t, domain.DocumentTrustStatusValid, res.Status)
	assert.True(t, res.ContextMatches)
}
