package domain

// Stage is one discrete phase of claim intake.
type Stage string

const (
	StageCategorization Stage = "categorization"
	StageQuestioning    Stage = "questioning"
	StageDocuments      Stage = "documents"
	StageValidation     Stage = "validation"
	StageFinalization   Stage = "finalization"
	StageCompleted      Stage = "completed"
)

// ValidStages enumerates every stage a flow state may persist.
var ValidStages = map[Stage]bool{
	StageCategorization: true,
	StageQuestioning:    true,
	StageDocuments:      true,
	StageValidation:     true,
	StageFinalization:   true,
	StageCompleted:      true,
}

// DocumentTrustStatus is the verdict of the document trust pipeline.
type DocumentTrustStatus string

const (
	DocumentTrustStatusPending     DocumentTrustStatus = "pending"
	DocumentTrustStatusValid       DocumentTrustStatus = "valid"
	DocumentTrustStatusNeedsReview DocumentTrustStatus = "needs_review"
	DocumentTrustStatusReupload    DocumentTrustStatus = "reupload_required"
	DocumentTrustStatusInvalid     DocumentTrustStatus = "invalid"
)

// DocumentProcessingStatus tracks a document through the extraction worker.
type DocumentProcessingStatus string

const (
	DocumentProcessingStatusPending    DocumentProcessingStatus = "pending"
	DocumentProcessingStatusProcessing DocumentProcessingStatus = "processing"
	DocumentProcessingStatusQueued     DocumentProcessingStatus = "queued"
	DocumentProcessingStatusCompleted  DocumentProcessingStatus = "completed"
	DocumentProcessingStatusFailed     DocumentProcessingStatus = "failed"
)

// EligibilityStatus is the rules engine's verdict over stored answers.
type EligibilityStatus string

const (
	EligibilityStatusEligible   EligibilityStatus = "eligible"
	EligibilityStatusIneligible EligibilityStatus = "ineligible"
	EligibilityStatusNeedsInfo  EligibilityStatus = "needs_info"
)

// ClaimStatus is the lifecycle status of a materialized claim.
type ClaimStatus string

const (
	ClaimStatusSubmitted ClaimStatus = "submitted"
)

// FileType represents the allowed file types for document upload.
type FileType string

const (
	FileTypePDF FileType = "pdf"
	FileTypeJPG FileType = "jpg"
	FileTypePNG FileType = "png"
)

// AllowedContentTypes maps MIME content types back to FileType.
var AllowedContentTypes = map[string]FileType{
	"application/pdf": FileTypePDF,
	"image/jpeg":      FileTypeJPG,
	"image/png":       FileTypePNG,
}
