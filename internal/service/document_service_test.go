package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"claimos/internal/doctrust"
	"claimos/internal/domain"
	"claimos/internal/extractor"
	"claimos/internal/port"
	"claimos/internal/service"
	"claimos/mocks"
)

func newDocService(docRepo *mocks.MockClaimDocumentRepo, stateRepo *mocks.MockFlowStateRepo, storage *mocks.MockObjectStorage, ex *mocks.MockDocumentExtractor) service.DocumentService {
	return service.NewDocumentService(docRepo, stateRepo, storage, doctrust.NewPipeline(ex), "test-bucket", 25, 3600)
}

func TestUpload_RejectsUnsupportedContentType(t *testing.T) {
	svc := newDocService(new(mocks.MockClaimDocumentRepo), new(mocks.MockFlowStateRepo), new(mocks.MockObjectStorage), new(mocks.MockDocumentExtractor))

	_, err := svc.Upload(context.Background(), &service.UploadDocumentInput{
		SessionID:   "sess-1",
		UserID:      uuid.New(),
		FileName:    "notes.txt",
		ContentType: "text/plain",
		FileSize:    10,
		Body:        strings.NewReader("hello"),
	})

	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}

func TestUpload_RejectsOversizedFile(t *testing.T) {
	svc := newDocService(new(mocks.MockClaimDocumentRepo), new(mocks.MockFlowStateRepo), new(mocks.MockObjectStorage), new(mocks.MockDocumentExtractor))

	_, err := svc.Upload(context.Background(), &service.UploadDocumentInput{
		SessionID:   "sess-1",
		UserID:      uuid.New(),
		FileName:    "huge.pdf",
		ContentType: "application/pdf",
		FileSize:    26 * 1024 * 1024,
		Body:        strings.NewReader("x"),
	})

	assert.ErrorIs(t, err, domain.ErrFileTooLarge)
}

func TestUpload_RejectsCompletedSession(t *testing.T) {
	stateRepo := new(mocks.MockFlowStateRepo)
	stateRepo.On("GetBySessionID", mock.Anything, "sess-1").Return(&domain.FlowState{
		SessionID:    "sess-1",
		CurrentStage: domain.StageCompleted,
	}, nil)

	svc := newDocService(new(mocks.MockClaimDocumentRepo), stateRepo, new(mocks.MockObjectStorage), new(mocks.MockDocumentExtractor))

	_, err := svc.Upload(context.Background(), &service.UploadDocumentInput{
		SessionID:   "sess-1",
		UserID:      uuid.New(),
		FileName:    "ticket.pdf",
		ContentType: "application/pdf",
		FileSize:    100,
		Body:        strings.NewReader("%PDF-1.4"),
	})

	assert.ErrorIs(t, err, domain.ErrSessionCompleted)
}

func TestUpload_StoresObjectAndCreatesPendingRow(t *testing.T) {
	userID := uuid.New()
	stateRepo := new(mocks.MockFlowStateRepo)
	stateRepo.On("GetBySessionID", mock.Anything, "sess-1").Return(nil, domain.ErrFlowStateNotFound)

	storage := new(mocks.MockObjectStorage)
	storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return in.Bucket == "test-bucket" &&
			strings.HasPrefix(in.Key, "sessions/sess-1/documents/") &&
			in.SessionID == "sess-1" &&
			in.FileName == "ticket.pdf"
	})).Return(&port.UploadOutput{Location: "https://s3/test"}, nil)

	docRepo := new(mocks.MockClaimDocumentRepo)
	docRepo.On("Create", mock.Anything, mock.MatchedBy(func(doc *domain.ClaimDocument) bool {
		return doc.SessionID == "sess-1" &&
			doc.UserID == userID &&
			doc.TrustStatus == domain.DocumentTrustStatusPending &&
			doc.ProcessingStatus == domain.DocumentProcessingStatusPending
	})).Return(nil)

	svc := newDocService(docRepo, stateRepo, storage, new(mocks.MockDocumentExtractor))

	doc, err := svc.Upload(context.Background(), &service.UploadDocumentInput{
		SessionID:    "sess-1",
		UserID:       userID,
		FileName:     "ticket.pdf",
		ContentType:  "application/pdf",
		FileSize:     100,
		Body:         strings.NewReader("%PDF-1.4"),
		ExpectedType: "flight_ticket",
	})

	require.NoError(t, err)
	assert.Equal(t, "flight_ticket", doc.ExpectedType)
	assert.Equal(t, "test-bucket", doc.S3Bucket)
	storage.AssertExpectations(t)
	docRepo.AssertExpectations(t)
}

func TestUpload_CleansUpObjectWhenCreateFails(t *testing.T) {
	stateRepo := new(mocks.MockFlowStateRepo)
	stateRepo.On("GetBySessionID", mock.Anything, "sess-1").Return(nil, domain.ErrFlowStateNotFound)

	storage := new(mocks.MockObjectStorage)
	storage.On("Upload", mock.Anything, mock.Anything).Return(&port.UploadOutput{}, nil)
	storage.On("Delete", mock.Anything, "test-bucket", mock.Anything).Return(nil)

	docRepo := new(mocks.MockClaimDocumentRepo)
	docRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("insert failed"))

	svc := newDocService(docRepo, stateRepo, storage, new(mocks.MockDocumentExtractor))

	_, err := svc.Upload(context.Background(), &service.UploadDocumentInput{
		SessionID:   "sess-1",
		UserID:      uuid.New(),
		FileName:    "ticket.pdf",
		ContentType: "application/pdf",
		FileSize:    100,
		Body:        strings.NewReader("%PDF-1.4"),
	})

	require.Error(t, err)
	storage.AssertCalled(t, "Delete", mock.Anything, "test-bucket", mock.Anything)
}

func TestGetDownloadURL_NamesDownloadAfterOriginalFile(t *testing.T) {
	docID := uuid.New()
	doc := &domain.ClaimDocument{
		ID:        docID,
		SessionID: "sess-1",
		FileName:  "boarding_pass.pdf",
		S3Bucket:  "test-bucket",
		S3Key:     "sessions/sess-1/documents/" + docID.String(),
	}

	docRepo := new(mocks.MockClaimDocumentRepo)
	docRepo.On("GetByID", mock.Anything, docID).Return(doc, nil)

	storage := new(mocks.MockObjectStorage)
	storage.On("GetPresignedURL", mock.Anything, "test-bucket", doc.S3Key, "boarding_pass.pdf", int64(3600)).
		Return("https://s3/presigned", nil)

	svc := newDocService(docRepo, new(mocks.MockFlowStateRepo), storage, new(mocks.MockDocumentExtractor))

	url, err := svc.GetDownloadURL(context.Background(), docID)
	require.NoError(t, err)
	assert.Equal(t, "https://s3/presigned", url)
	storage.AssertExpectations(t)
}

func TestProcessDocument_PersistsExtractionAndTrust(t *testing.T) {
	doc := &domain.ClaimDocument{
		ID:           uuid.New(),
		SessionID:    "sess-1",
		S3Bucket:     "test-bucket",
		S3Key:        "sessions/sess-1/documents/abc",
		ContentType:  "application/pdf",
		ExpectedType: "flight_ticket",
	}

	stateRepo := new(mocks.MockFlowStateRepo)
	stateRepo.On("GetBySessionID", mock.Anything, "sess-1").Return(nil, domain.ErrFlowStateNotFound)

	storage := new(mocks.MockObjectStorage)
	storage.On("Download", mock.Anything, "test-bucket", doc.S3Key).Return([]byte("%PDF-1.4"), nil)

	ex := new(mocks.MockDocumentExtractor)
	ex.On("Extract", mock.Anything, mock.Anything).Return(&port.ExtractOutput{
		DocumentType:      "flight_ticket",
		RecognizedText:    "Passenger Name: Jane Doe",
		Entities:          map[string]string{"passenger_name": "Jane Doe"},
		AuthenticityScore: 0.95,
		IsLegitimate:      true,
		IsRelevant:        true,
	}, nil)

	docRepo := new(mocks.MockClaimDocumentRepo)
	docRepo.On("UpdateExtraction", mock.Anything, mock.MatchedBy(func(d *domain.ClaimDocument) bool {
		return d.ProcessingStatus == domain.DocumentProcessingStatusCompleted && d.ProcessedAt != nil
	})).Return(nil)
	docRepo.On("UpdateTrust", mock.Anything, mock.MatchedBy(func(d *domain.ClaimDocument) bool {
		return d.TrustStatus == domain.DocumentTrustStatusValid
	})).Return(nil)

	svc := newDocService(docRepo, stateRepo, storage, ex)
	svc.ProcessDocument(context.Background(), doc, 5)

	docRepo.AssertExpectations(t)
}

func TestProcessDocument_RateLimitRequeues(t *testing.T) {
	doc := &domain.ClaimDocument{
		ID:              uuid.New(),
		SessionID:       "sess-1",
		S3Bucket:        "test-bucket",
		S3Key:           "k",
		ContentType:     "application/pdf",
		ProcessAttempts: 1,
	}

	stateRepo := new(mocks.MockFlowStateRepo)
	stateRepo.On("GetBySessionID", mock.Anything, "sess-1").Return(nil, domain.ErrFlowStateNotFound)

	storage := new(mocks.MockObjectStorage)
	storage.On("Download", mock.Anything, "test-bucket", "k").Return([]byte("%PDF-1.4"), nil)

	ex := new(mocks.MockDocumentExtractor)
	ex.On("Extract", mock.Anything, mock.Anything).
		Return(nil, extractor.NewRateLimitError("claude", errors.New("429"), 42))

	docRepo := new(mocks.MockClaimDocumentRepo)
	docRepo.On("MarkFailed", mock.Anything, doc.ID, "model rate limited", mock.MatchedBy(func(retryAfter *time.Time) bool {
		return retryAfter != nil && time.Until(*retryAfter) > 30*time.Second
	})).Return(nil)

	svc := newDocService(docRepo, stateRepo, storage, ex)
	svc.ProcessDocument(context.Background(), doc, 5)

	docRepo.AssertExpectations(t)
}

func TestProcessDocument_ExhaustedRetriesFailPermanently(t *testing.T) {
	doc := &domain.ClaimDocument{
		ID:              uuid.New(),
		SessionID:       "sess-1",
		S3Bucket:        "test-bucket",
		S3Key:           "k",
		ContentType:     "application/pdf",
		ProcessAttempts: 5,
	}

	stateRepo := new(mocks.MockFlowStateRepo)
	storage := new(mocks.MockObjectStorage)
	storage.On("Download", mock.Anything, "test-bucket", "k").Return(nil, errors.New("object gone"))

	docRepo := new(mocks.MockClaimDocumentRepo)
	docRepo.On("MarkFailed", mock.Anything, doc.ID, mock.Anything, (*time.Time)(nil)).Return(nil)

	svc := newDocService(docRepo, stateRepo, storage, new(mocks.MockDocumentExtractor))
	svc.ProcessDocument(context.Background(), doc, 5)

	docRepo.AssertExpectations(t)
}
