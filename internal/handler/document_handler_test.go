package handler_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"claimos/internal/domain"
	"claimos/internal/handler"
	"claimos/mocks"
)

func newUploadContext(w *httptest.ResponseRecorder, sessionID, userID, filename, contentType string) *gin.Context {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	_ = writer.WriteField("user_id", userID)
	_ = writer.WriteField("expected_type", "baggage_receipt")

	partHeader := textproto.MIMEHeader{}
	partHeader.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	partHeader.Set("Content-Type", contentType)
	part, _ := writer.CreatePart(partHeader)
	_, _ = part.Write([]byte("%PDF-1.4 receipt content"))
	_ = writer.Close()

	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/sessions/"+sessionID+"/documents", body)
	c.Request.Header.Set("Content-Type", writer.FormDataContentType())
	c.Params = gin.Params{{Key: "id", Value: sessionID}}
	return c
}

func TestDocumentHandler_Upload_Success(t *testing.T) {
	mockDocs := new(mocks.MockDocumentService)
	h := handler.NewDocumentHandler(mockDocs)

	userID := uuid.New()
	doc := &domain.ClaimDocument{
		ID:               uuid.New(),
		SessionID:        "sess-1",
		UserID:           userID,
		FileName:         "receipt.pdf",
		ContentType:      "application/pdf",
		TrustStatus:      domain.DocumentTrustStatusPending,
		ProcessingStatus: domain.DocumentProcessingStatusPending,
	}
	mockDocs.On("Upload", mock.Anything, mock.Anything).Return(doc, nil)

	w := httptest.NewRecorder()
	c := newUploadContext(w, "sess-1", userID.String(), "receipt.pdf", "application/pdf")

	h.Upload(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp handler.APIResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "receipt.pdf", data["file_name"])
	mockDocs.AssertExpectations(t)
}

func TestDocumentHandler_Upload_InvalidUserID(t *testing.T) {
	mockDocs := new(mocks.MockDocumentService)
	h := handler.NewDocumentHandler(mockDocs)

	w := httptest.NewRecorder()
	c := newUploadContext(w, "sess-1", "not-a-uuid", "receipt.pdf", "application/pdf")

	h.Upload(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockDocs.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestDocumentHandler_Upload_UnsupportedType(t *testing.T) {
	mockDocs := new(mocks.MockDocumentService)
	h := handler.NewDocumentHandler(mockDocs)

	mockDocs.On("Upload", mock.Anything, mock.Anything).Return(nil, domain.ErrUnsupportedFileType)

	w := httptest.NewRecorder()
	c := newUploadContext(w, "sess-1", uuid.New().String(), "notes.txt", "text/plain")

	h.Upload(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp handler.APIResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "UNSUPPORTED_FILE_TYPE", resp.Error.Code)
}

func TestDocumentHandler_GetDownloadURL_Success(t *testing.T) {
	mockDocs := new(mocks.MockDocumentService)
	h := handler.NewDocumentHandler(mockDocs)

	docID := uuid.New()
	mockDocs.On("GetDownloadURL", mock.Anything, docID).
		Return("https://bucket.s3.amazonaws.com/sessions/sess-1/documents/x?sig=abc", nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/documents/"+docID.String()+"/download", nil)
	c.Params = gin.Params{{Key: "id", Value: docID.String()}}

	h.GetDownloadURL(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp handler.APIResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	assert.Contains(t, data["url"], "sessions/sess-1/documents")
}

func TestDocumentHandler_GetByID_NotFound(t *testing.T) {
	mockDocs := new(mocks.MockDocumentService)
	h := handler.NewDocumentHandler(mockDocs)

	docID := uuid.New()
	mockDocs.On("GetByID", mock.Anything, docID).Return(nil, domain.ErrDocumentNotFound)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/documents/"+docID.String(), nil)
	c.Params = gin.Params{{Key: "id", Value: docID.String()}}

	h.GetByID(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	var resp handler.APIResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "DOCUMENT_NOT_FOUND", resp.Error.Code)
}
