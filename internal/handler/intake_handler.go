package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"claimos/internal/service"
)

// IntakeHandler handles conversational intake endpoints.
type IntakeHandler struct {
	intakeService service.IntakeService
}

// NewIntakeHandler creates a new IntakeHandler.
func NewIntakeHandler(intakeService service.IntakeService) *IntakeHandler {
	return &IntakeHandler{intakeService: intakeService}
}

type sendMessageRequest struct {
	UserID  string `json:"user_id" binding:"required"`
	Message string `json:"message"`
}

// SendMessage handles POST /api/v1/sessions/:id/messages
//
// Assistant output is streamed back as newline-delimited text chunks so the
// client can render narration while slower stages (classification, document
// checks) are still running.
func (h *IntakeHandler) SendMessage(c *gin.Context) {
	sessionID := c.Param("id")
	if sessionID == "" {
		RespondError(c, http.StatusBadRequest, "MISSING_SESSION_ID", "session id is required")
		return
	}

	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_BODY", "user_id is required")
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_USER_ID", "user_id must be a valid UUID")
		return
	}

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	flusher, canFlush := c.Writer.(http.Flusher)
	emit := func(chunk string) {
		_, _ = c.Writer.WriteString(chunk + "\n")
		if canFlush {
			flusher.Flush()
		}
	}

	input := &service.SendMessageInput{
		SessionID: sessionID,
		UserID:    userID,
		Message:   req.Message,
	}
	if err := h.intakeService.SendMessage(c.Request.Context(), input, emit); err != nil {
		// Headers are already out; report the failure as a final chunk.
		_, code, msg := MapDomainError(err)
		emit("[error:" + code + "] " + msg)
	}
}

// GetState handles GET /api/v1/sessions/:id/state
func (h *IntakeHandler) GetState(c *gin.Context) {
	sessionID := c.Param("id")
	state, err := h.intakeService.GetState(c.Request.Context(), sessionID)
	if err != nil {
		HandleError(c, err)
		return
	}
	if state == nil {
		RespondError(c, http.StatusNotFound, "SESSION_NOT_FOUND", "no intake session found for this session id")
		return
	}
	RespondOK(c, state)
}

// Reset handles DELETE /api/v1/sessions/:id/state
func (h *IntakeHandler) Reset(c *gin.Context) {
	sessionID := c.Param("id")
	if err := h.intakeService.Reset(c.Request.Context(), sessionID); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"reset": true})
}
