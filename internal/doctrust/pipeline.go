// Package doctrust decides whether an uploaded document should be accepted,
// flagged for review, or rejected with re-upload guidance. It wraps the
// model extraction call and reduces its output, the anti-hallucination
// checks, and the claim-context alignment into one status.
package doctrust

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"claimos/internal/alignment"
	"claimos/internal/domain"
	"claimos/internal/extractor"
	"claimos/internal/port"
)

// Input carries one document through the pipeline.
type Input struct {
	FileBytes     []byte
	ContentType   string
	ExpectedTypes []string
	// Context enables claim alignment checks when non-nil.
	Context *alignment.ClaimContext
}

// Result is the full trust evaluation for one document. Status is always
// set; Reason and Guidance are set for every non-valid status.
type Result struct {
	DocumentType      string
	RecognizedText    string
	Entities          map[string]string
	AuthenticityScore float64
	TamperingDetected bool
	IsLegitimate      bool
	IsRelevant        bool
	ContextMatches    bool
	Verification      alignment.VerificationResult
	Status            domain.DocumentTrustStatus
	Reason            string
	Guidance          string
	Errors            []string
	Warnings          []string
}

// Pipeline evaluates document trust. It holds no per-document state and is
// safe for concurrent use.
type Pipeline struct {
	extractor port.DocumentExtractor
}

// NewPipeline creates a trust pipeline backed by the given extractor.
func NewPipeline(extractor port.DocumentExtractor) *Pipeline {
	return &Pipeline{extractor: extractor}
}

// Evaluate runs the full pipeline. Rate-limit errors from the model are
// returned to the caller so the document can be requeued; any other
// extraction failure degrades to a needs_review result so a transient model
// failure cannot block a claimant.
func (p *Pipeline) Evaluate(ctx context.Context, input Input) (*Result, error) {
	expected := ""
	if len(input.ExpectedTypes) > 0 {
		expected = input.ExpectedTypes[0]
	}

	out, err := p.extractor.Extract(ctx, port.ExtractInput{
		FileBytes:    input.FileBytes,
		ContentType:  input.ContentType,
		ExpectedType: expected,
	})
	if err != nil {
		var rateLimitErr *extractor.RateLimitError
		if errors.As(err, &rateLimitErr) {
			return nil, fmt.Errorf("doctrust.Evaluate: %w", err)
		}
		log.Printf("doctrust.Evaluate: extraction failed: %v", err)
		return &Result{
			IsLegitimate: true,
			Status:       domain.DocumentTrustStatusNeedsReview,
			Reason:       "document could not be analyzed automatically",
			Guidance:     "We could not verify this document automatically. It has been queued for manual review; you do not need to re-upload it.",
			Warnings:     []string{fmt.Sprintf("extraction failed: %v", err)},
		}, nil
	}

	res := &Result{
		DocumentType:      out.DocumentType,
		RecognizedText:    out.RecognizedText,
		Entities:          out.Entities,
		AuthenticityScore: out.AuthenticityScore,
		TamperingDetected: out.TamperingDetected,
		IsLegitimate:      out.IsLegitimate,
		IsRelevant:        out.IsRelevant,
		Errors:            append([]string(nil), out.Errors...),
		Warnings:          append([]string(nil), out.Warnings...),
	}

	res.Verification = alignment.VerifyExtraction(out.Entities, out.RecognizedText)
	res.Warnings = append(res.Warnings, res.Verification.HallucinationWarnings...)

	align := p.checkContext(res, input.Context)
	res.ContextMatches = align.ok()

	p.resolveStatus(res, input.ExpectedTypes, align)
	return res, nil
}

// contextChecks records the outcome of each alignment check. A nil pointer
// means the check was not possible with the available data.
type contextChecks struct {
	nameOK     *bool
	dateOK     *bool
	dateMsg    string
	amountOK   *bool
	amountMsg  string
	locationOK *bool
}

func (c contextChecks) ok() bool {
	for _, v := range []*bool{c.nameOK, c.dateOK, c.amountOK, c.locationOK} {
		if v != nil && !*v {
			return false
		}
	}
	return true
}

func boolPtr(v bool) *bool { return &v }

// checkContext runs name, date, amount, and location alignment against the
// claim context. Checks that cannot run for lack of data are skipped rather
// than failed.
func (p *Pipeline) checkContext(res *Result, claimCtx *alignment.ClaimContext) contextChecks {
	var checks contextChecks
	if claimCtx == nil {
		return checks
	}

	if claimCtx.ClaimantName != "" {
		if docName := entityValue(res.Entities, "name"); docName != "" {
			if matched, checkable := alignment.MatchName(claimCtx.ClaimantName, docName); checkable {
				checks.nameOK = boolPtr(matched)
			}
		}
	}

	if claimCtx.IncidentDate != nil {
		if raw := entityValue(res.Entities, "date"); raw != "" {
			if docDate, ok := alignment.ParseEntityDate(raw); ok {
				cat := alignment.CategorizeDocumentDate(res.DocumentType)
				da := alignment.CheckDateAlignment(cat, *claimCtx.IncidentDate, docDate)
				checks.dateOK = boolPtr(da.Aligned)
				checks.dateMsg = da.Message
			}
		}
	}

	if claimCtx.ClaimedAmount > 0 {
		if raw := entityValue(res.Entities, "amount", "total", "price"); raw != "" {
			if docAmount, ok := alignment.ParseAmount(raw); ok {
				aa := alignment.CheckAmountAlignment(claimCtx.ClaimedAmount, docAmount)
				checks.amountOK = boolPtr(aa.Aligned)
				checks.amountMsg = aa.Message
				if aa.Warning != "" {
					res.Warnings = append(res.Warnings, aa.Warning)
				}
			}
		}
	}

	if claimCtx.Location != "" {
		origin := entityValue(res.Entities, "origin")
		dest := entityValue(res.Entities, "destination")
		loc := entityValue(res.Entities, "location", "city", "place")
		switch {
		case origin != "" || dest != "":
			m := alignment.MatchRoute(claimCtx.Location, origin, dest)
			checks.locationOK = boolPtr(m.Matched)
		case loc != "":
			m := alignment.MatchLocation(claimCtx.Location, loc)
			checks.locationOK = boolPtr(m.Matched)
		}
	}

	return checks
}

// entityValue returns the first non-empty entity whose key contains any of
// the given fragments.
func entityValue(entities map[string]string, fragments ...string) string {
	for _, frag := range fragments {
		for key, val := range entities {
			if val == "" {
				continue
			}
			if strings.Contains(alignment.Normalize(key), frag) {
				return val
			}
		}
	}
	return ""
}

// typeMatches reports whether the detected type fuzzy-matches any expected
// type. No expected types means the check passes.
func typeMatches(detected string, expected []string) bool {
	if len(expected) == 0 {
		return true
	}
	for _, e := range expected {
		if alignment.MatchDocumentType(detected, e) {
			return true
		}
	}
	return false
}

// resolveStatus applies the fixed precedence order, first match wins.
func (p *Pipeline) resolveStatus(res *Result, expectedTypes []string, checks contextChecks) {
	failed := func(v *bool) bool { return v != nil && !*v }

	switch {
	case !typeMatches(res.DocumentType, expectedTypes):
		res.Status = domain.DocumentTrustStatusReupload
		res.Reason = fmt.Sprintf("document type %q does not match the expected type (%s)", res.DocumentType, strings.Join(expectedTypes, ", "))
		res.Guidance = fmt.Sprintf("Please upload a document of type: %s.", strings.Join(expectedTypes, ", "))

	case res.TamperingDetected:
		res.Status = domain.DocumentTrustStatusInvalid
		res.Reason = "signs of tampering were detected"
		res.Guidance = "This document appears altered and cannot be accepted. Please upload the original, unmodified document."

	case res.AuthenticityScore < 0.5:
		res.Status = domain.DocumentTrustStatusInvalid
		res.Reason = fmt.Sprintf("authenticity score %.2f is below the acceptance threshold", res.AuthenticityScore)
		res.Guidance = "The document could not be authenticated. Please upload a clearer copy of the original document."

	case !res.IsRelevant:
		res.Status = domain.DocumentTrustStatusReupload
		res.Reason = "document does not appear related to this claim"
		res.Guidance = "This document does not look related to your claim. Please upload the requested supporting document."

	case failed(checks.nameOK):
		res.Status = domain.DocumentTrustStatusReupload
		res.Reason = "name on the document does not match the claimant"
		res.Guidance = "The name on this document does not match the name on the claim. Please upload a document issued in your name."

	case failed(checks.dateOK):
		res.Status = domain.DocumentTrustStatusReupload
		res.Reason = checks.dateMsg
		res.Guidance = "The date on this document is outside the acceptable range for your incident. Please upload a document from the relevant period."

	case failed(checks.locationOK):
		res.Status = domain.DocumentTrustStatusReupload
		res.Reason = "location on the document does not match the claim"
		res.Guidance = "The location on this document does not match where the incident occurred. Please upload a document from the incident location."

	case failed(checks.amountOK):
		res.Status = domain.DocumentTrustStatusReupload
		res.Reason = checks.amountMsg
		res.Guidance = "The amount on this document exceeds your claimed amount. Please check the claimed amount or upload the correct document."

	case len(res.Errors) > 0:
		res.Status = domain.DocumentTrustStatusInvalid
		res.Reason = strings.Join(res.Errors, "; ")
		res.Guidance = "The document failed validation. Please review and upload a corrected document."

	case len(res.Warnings) > 0:
		res.Status = domain.DocumentTrustStatusNeedsReview
		res.Reason = strings.Join(res.Warnings, "; ")
		res.Guidance = "The document was accepted but flagged for manual review."

	default:
		res.Status = domain.DocumentTrustStatusValid
	}
}
