package domain

import "errors"

var (
	ErrFlowStateNotFound          = errors.New("flow state not found")
	ErrInvalidTransition          = errors.New("invalid stage transition")
	ErrDocumentNotFound           = errors.New("document not found")
	ErrClaimNotFound              = errors.New("claim not found")
	ErrSessionBusy                = errors.New("session has an in-flight invocation")
	ErrSessionCompleted           = errors.New("session has already been submitted")
	ErrMissingCoverageTypes       = errors.New("no coverage types resolved for session")
	ErrMissingIncidentDescription = errors.New("no incident description recorded for session")
	ErrNoCoverageMatch            = errors.New("incident could not be matched to an active coverage type")
	ErrUnsupportedFileType        = errors.New("unsupported file type")
	ErrFileTooLarge               = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed               = errors.New("file upload to storage failed")
)
