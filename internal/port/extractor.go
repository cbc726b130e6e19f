package port

import "context"

// ClassifyInput carries the free-text description to categorize.
type ClassifyInput struct {
	Description string
	// Candidates lists the active coverage types the model may choose from.
	Candidates []ClassifyCandidate
}

// ClassifyCandidate is one coverage type offered to the classifier.
type ClassifyCandidate struct {
	ID          string
	Name        string
	Description string
}

// ClassifyOutput contains the classifier verdict.
type ClassifyOutput struct {
	CoverageTypeIDs []string
	Confidence      float64
	Reasoning       string
	ModelUsed       string
}

// Classifier categorizes an incident description into coverage types.
type Classifier interface {
	Classify(ctx context.Context, input ClassifyInput) (*ClassifyOutput, error)
}

// ExtractInput carries a document image or PDF for model extraction.
type ExtractInput struct {
	FileBytes    []byte
	ContentType  string
	ExpectedType string
}

// ExtractOutput contains the structured result of document extraction.
type ExtractOutput struct {
	DocumentType      string
	RecognizedText    string
	Entities          map[string]string
	AuthenticityScore float64
	TamperingDetected bool
	IsLegitimate      bool
	IsRelevant        bool
	Errors            []string
	Warnings          []string
	ModelUsed         string
}

// DocumentExtractor abstracts LLM-based document text and entity extraction.
type DocumentExtractor interface {
	Extract(ctx context.Context, input ExtractInput) (*ExtractOutput, error)
}
