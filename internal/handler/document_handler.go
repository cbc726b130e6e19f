package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"claimos/internal/service"
)

// DocumentHandler handles supporting document endpoints.
type DocumentHandler struct {
	docService service.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(docService service.DocumentService) *DocumentHandler {
	return &DocumentHandler{docService: docService}
}

// Upload handles POST /api/v1/sessions/:id/documents
func (h *DocumentHandler) Upload(c *gin.Context) {
	sessionID := c.Param("id")

	userID, err := uuid.Parse(c.PostForm("user_id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_USER_ID", "user_id must be a valid UUID")
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	input := &service.UploadDocumentInput{
		SessionID:    sessionID,
		UserID:       userID,
		FileName:     header.Filename,
		ContentType:  header.Header.Get("Content-Type"),
		FileSize:     header.Size,
		Body:         file,
		ExpectedType: c.PostForm("expected_type"),
	}

	doc, err := h.docService.Upload(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, doc)
}

// ListBySession handles GET /api/v1/sessions/:id/documents
func (h *DocumentHandler) ListBySession(c *gin.Context) {
	docs, err := h.docService.ListBySession(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, docs)
}

// GetByID handles GET /api/v1/documents/:id
func (h *DocumentHandler) GetByID(c *gin.Context) {
	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_DOCUMENT_ID", "document id must be a valid UUID")
		return
	}
	doc, err := h.docService.GetByID(c.Request.Context(), docID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, doc)
}

// GetDownloadURL handles GET /api/v1/documents/:id/download
func (h *DocumentHandler) GetDownloadURL(c *gin.Context) {
	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_DOCUMENT_ID", "document id must be a valid UUID")
		return
	}
	url, err := h.docService.GetDownloadURL(c.Request.Context(), docID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"url": url})
}
