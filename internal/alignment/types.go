// Package alignment contains the pure matching and verification rules used
// by the document trust pipeline: anti-hallucination checks of extracted
// fields against recognized text, and consistency scoring of document
// fields against the claim's declared context. The package performs no I/O.
package alignment

import "time"

// Confidence grades how strongly a check succeeded.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
	ConfidenceNone   Confidence = "none"
)

// ClaimContext carries the claim-level facts a document is checked against.
// Zero-valued fields are treated as "not checkable" rather than mismatches.
type ClaimContext struct {
	ClaimantName  string
	IncidentDate  *time.Time
	Location      string
	ClaimedAmount float64
}

// FieldResult reports whether one extracted field is substantiated by the
// document's recognized text.
type FieldResult struct {
	Field      string     `json:"field"`
	Value      string     `json:"value"`
	FoundInOCR bool       `json:"found_in_ocr"`
	Confidence Confidence `json:"confidence"`
}

// VerificationResult aggregates per-field verification over one document.
type VerificationResult struct {
	Fields                []FieldResult `json:"fields"`
	VerifiedCount         int           `json:"verified_count"`
	TotalCount            int           `json:"total_count"`
	OverallConfidence     float64       `json:"overall_confidence"`
	HallucinationWarnings []string      `json:"hallucination_warnings,omitempty"`
}

// DateAlignment is the outcome of checking a document date against the
// incident date.
type DateAlignment struct {
	Aligned   bool   `json:"aligned"`
	DeltaDays int    `json:"delta_days"`
	Message   string `json:"message,omitempty"`
}

// AmountAlignment is the outcome of checking a document amount against the
// claimed amount.
type AmountAlignment struct {
	Aligned bool   `json:"aligned"`
	Warning string `json:"warning,omitempty"`
	Message string `json:"message,omitempty"`
}

// LocationMatch is the outcome of semantic location comparison.
type LocationMatch struct {
	Matched    bool       `json:"matched"`
	Confidence Confidence `json:"confidence"`
	Reason     string     `json:"reason,omitempty"`
}
