package extractor

import (
	"fmt"
	"strings"

	"claimos/internal/port"
)

// BuildClassifyPrompt returns the coverage classification prompt.
func BuildClassifyPrompt(description string, candidates []port.ClassifyCandidate) string {
	var lines []string
	for _, c := range candidates {
		lines = append(lines, fmt.Sprintf(`- id: %q, name: %q, description: %q`, c.ID, c.Name, c.Description))
	}

	return `You are an insurance claim intake assistant. A claimant described an incident; decide which of their policy's coverage types the incident falls under.

Available coverage types:
` + strings.Join(lines, "\n") + `

Incident description:
` + description + `

Return ONLY valid JSON with no markdown formatting, no code fences, no explanation. Return just the raw JSON object:
{
  "coverage_type_ids": ["..."],
  "confidence": 0.0,
  "reasoning": ""
}

Rules:
- "coverage_type_ids" must only contain ids from the list above. Use an empty array if nothing fits.
- "confidence" is your overall confidence between 0.0 and 1.0.
- "reasoning" is one or two sentences explaining the match.`
}

// BuildExtractPrompt returns the document extraction prompt.
func BuildExtractPrompt(expectedType string) string {
	expectation := "The claimant did not state what kind of document this is."
	if expectedType != "" {
		expectation = fmt.Sprintf("The claimant says this should be a %q document.", expectedType)
	}

	return `You are an insurance document analysis assistant. Analyze the provided document image or PDF. ` + expectation + `

Return ONLY valid JSON with no markdown formatting, no code fences, no explanation. Return just the raw JSON object:
{
  "document_type": "",
  "recognized_text": "",
  "entities": {},
  "authenticity_score": 0.0,
  "tampering_detected": false,
  "is_legitimate": true,
  "is_relevant": true,
  "errors": [],
  "warnings": []
}

Rules:
- "document_type" is a short snake_case label such as "flight_ticket", "police_report", "medical_bill", "purchase_receipt".
- "recognized_text" is the full text you can read from the document, preserving line breaks.
- "entities" maps snake_case field names to string values you extracted, e.g. "passenger_name", "incident_date", "origin", "destination", "total_amount", "incident_location". Normalize dates to YYYY-MM-DD. Only include fields actually present.
- "authenticity_score" between 0.0 and 1.0 reflects how likely this is a genuine, unaltered document.
- "tampering_detected" is true only for visible signs of editing or forgery.
- "is_legitimate" is false only if the document is clearly fabricated.
- "is_relevant" is false if the document has nothing to do with an insurance claim of the expected kind.
- "errors" lists disqualifying problems (e.g. expired, unreadable); "warnings" lists concerns that do not disqualify.`
}
