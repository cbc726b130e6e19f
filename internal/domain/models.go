package domain

import (
	"time"

	"github.com/google/uuid"
)

// FlowState is the persistent record of one intake session. A session is
// identified by its external session ID; the row is created on first contact
// and survives process restarts.
type FlowState struct {
	ID                       uuid.UUID          `db:"id" json:"id"`
	SessionID                string             `db:"session_id" json:"session_id"`
	UserID                   uuid.UUID          `db:"user_id" json:"user_id"`
	CurrentStage             Stage              `db:"current_stage" json:"current_stage"`
	CoverageTypeIDs          StringList         `db:"coverage_type_ids" json:"coverage_type_ids"`
	IncidentDescription      string             `db:"incident_description" json:"incident_description"`
	ClassificationConfidence float64            `db:"classification_confidence" json:"classification_confidence"`
	ClassificationReasoning  string             `db:"classification_reasoning" json:"classification_reasoning,omitempty"`
	AskedQuestionIDs         StringList         `db:"asked_question_ids" json:"asked_question_ids"`
	ConversationTurns        Turns              `db:"conversation_turns" json:"conversation_turns"`
	ExtractedData            ExtractedData      `db:"extracted_data" json:"extracted_data"`
	DocumentIDs              StringList         `db:"document_ids" json:"document_ids"`
	ValidationResult         *ValidationOutcome `db:"validation_result" json:"validation_result,omitempty"`
	PolicyLimitResult        *PolicyLimitResult `db:"policy_limit_result" json:"policy_limit_result,omitempty"`
	ClaimID                  *uuid.UUID         `db:"claim_id" json:"claim_id,omitempty"`
	ClaimNumber              string             `db:"claim_number" json:"claim_number,omitempty"`
	CreatedAt                time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt                time.Time          `db:"updated_at" json:"updated_at"`
	CompletedAt              *time.Time         `db:"completed_at" json:"completed_at,omitempty"`
}

// Field returns the extracted value for name and whether it is present.
func (f *FlowState) Field(name string) (string, bool) {
	if f.ExtractedData == nil {
		return "", false
	}
	ef, ok := f.ExtractedData[name]
	if !ok || ef.Value == "" {
		return "", false
	}
	return ef.Value, true
}

// SetField records an extracted value, overwriting any earlier value for name.
func (f *FlowState) SetField(name, value, source string, confidence float64) {
	if f.ExtractedData == nil {
		f.ExtractedData = ExtractedData{}
	}
	f.ExtractedData[name] = ExtractedField{
		Value:       value,
		Confidence:  confidence,
		Source:      source,
		ExtractedAt: time.Now().UTC(),
	}
}

// ClaimDocument is an uploaded supporting document together with its
// extraction output and trust evaluation.
type ClaimDocument struct {
	ID                uuid.UUID                `db:"id" json:"id"`
	SessionID         string                   `db:"session_id" json:"session_id"`
	UserID            uuid.UUID                `db:"user_id" json:"user_id"`
	ClaimID           *uuid.UUID               `db:"claim_id" json:"claim_id,omitempty"`
	FileName          string                   `db:"file_name" json:"file_name"`
	ContentType       string                   `db:"content_type" json:"content_type"`
	FileSize          int64                    `db:"file_size" json:"file_size"`
	S3Bucket          string                   `db:"s3_bucket" json:"-"`
	S3Key             string                   `db:"s3_key" json:"-"`
	ExpectedType      string                   `db:"expected_type" json:"expected_type"`
	DetectedType      string                   `db:"detected_type" json:"detected_type,omitempty"`
	RecognizedText    string                   `db:"recognized_text" json:"-"`
	Entities          EntityMap                `db:"entities" json:"entities,omitempty"`
	AuthenticityScore float64                  `db:"authenticity_score" json:"authenticity_score"`
	TamperingDetected bool                     `db:"tampering_detected" json:"tampering_detected"`
	IsLegitimate      bool                     `db:"is_legitimate" json:"is_legitimate"`
	IsRelevant        bool                     `db:"is_relevant" json:"is_relevant"`
	ContextMatches    bool                     `db:"context_matches" json:"context_matches"`
	TrustStatus       DocumentTrustStatus      `db:"trust_status" json:"trust_status"`
	StatusReason      string                   `db:"status_reason" json:"status_reason,omitempty"`
	Guidance          string                   `db:"guidance" json:"guidance,omitempty"`
	ProcessingStatus  DocumentProcessingStatus `db:"processing_status" json:"processing_status"`
	ProcessingError   string                   `db:"processing_error" json:"processing_error,omitempty"`
	ProcessAttempts   int                      `db:"process_attempts" json:"process_attempts"`
	RetryAfter        *time.Time               `db:"retry_after" json:"-"`
	ProcessedAt       *time.Time               `db:"processed_at" json:"processed_at,omitempty"`
	CreatedAt         time.Time                `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time                `db:"updated_at" json:"updated_at"`
}

// Acceptable reports whether the document counts toward stage completion.
// Valid and needs_review documents count; invalid and reupload ones do not.
func (d *ClaimDocument) Acceptable() bool {
	return d.TrustStatus == DocumentTrustStatusValid || d.TrustStatus == DocumentTrustStatusNeedsReview
}

// Claim is a finalized intake session promoted to a submitted claim.
type Claim struct {
	ID                  uuid.UUID  `db:"id" json:"id"`
	ClaimNumber         string     `db:"claim_number" json:"claim_number"`
	SessionID           string     `db:"session_id" json:"session_id"`
	UserID              uuid.UUID  `db:"user_id" json:"user_id"`
	CoverageTypeIDs     StringList `db:"coverage_type_ids" json:"coverage_type_ids"`
	IncidentDescription string     `db:"incident_description" json:"incident_description"`
	IncidentDate        *time.Time `db:"incident_date" json:"incident_date,omitempty"`
	IncidentLocation    string     `db:"incident_location" json:"incident_location,omitempty"`
	ClaimedAmount       float64    `db:"claimed_amount" json:"claimed_amount"`
	Status              ClaimStatus `db:"status" json:"status"`
	SubmittedAt         time.Time  `db:"submitted_at" json:"submitted_at"`
	CreatedAt           time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at" json:"updated_at"`
}

// ClaimExtractedInfo is one structured field snapshotted onto a claim at
// finalization time.
type ClaimExtractedInfo struct {
	ID          uuid.UUID `db:"id" json:"id"`
	ClaimID     uuid.UUID `db:"claim_id" json:"claim_id"`
	FieldName   string    `db:"field_name" json:"field_name"`
	Value       string    `db:"value" json:"value"`
	Confidence  float64   `db:"confidence" json:"confidence"`
	Source      string    `db:"source" json:"source"`
	ExtractedAt time.Time `db:"extracted_at" json:"extracted_at"`
}

// CoverageType is one insurable coverage the intake flow can classify into.
type CoverageType struct {
	ID          string  `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	Description string  `db:"description" json:"description"`
	LimitAmount float64 `db:"limit_amount" json:"limit_amount"`
	IsActive    bool    `db:"is_active" json:"is_active"`
}

// Question is one follow-up question tied to a coverage type. FieldName is
// the extracted-data key the answer populates.
type Question struct {
	ID             string `db:"id" json:"id"`
	CoverageTypeID string `db:"coverage_type_id" json:"coverage_type_id"`
	Prompt         string `db:"prompt" json:"prompt"`
	FieldName      string `db:"field_name" json:"field_name"`
	Priority       int    `db:"priority" json:"priority"`
}

// Answer is a recorded response to a follow-up question.
type Answer struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	SessionID  string     `db:"session_id" json:"session_id"`
	QuestionID string     `db:"question_id" json:"question_id"`
	Value      string     `db:"value" json:"value"`
	ClaimID    *uuid.UUID `db:"claim_id" json:"claim_id,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}
