package handler

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"claimos/internal/csvexport"
	"claimos/internal/service"
)

// ClaimHandler handles submitted claim endpoints.
type ClaimHandler struct {
	claimService service.ClaimService
}

// NewClaimHandler creates a new ClaimHandler.
func NewClaimHandler(claimService service.ClaimService) *ClaimHandler {
	return &ClaimHandler{claimService: claimService}
}

// parseUserFilter reads the optional user_id query param.
func parseUserFilter(c *gin.Context) (*uuid.UUID, bool) {
	s := c.Query("user_id")
	if s == "" {
		return nil, true
	}
	id, err := uuid.Parse(s)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_USER_ID", "user_id must be a valid UUID")
		return nil, false
	}
	return &id, true
}

// List handles GET /api/v1/claims
func (h *ClaimHandler) List(c *gin.Context) {
	userID, ok := parseUserFilter(c)
	if !ok {
		return
	}
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	claims, total, err := h.claimService.List(c.Request.Context(), userID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, claims, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/claims/:id
func (h *ClaimHandler) GetByID(c *gin.Context) {
	claimID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_CLAIM_ID", "claim id must be a valid UUID")
		return
	}
	detail, err := h.claimService.GetByID(c.Request.Context(), claimID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, detail)
}

// Export handles GET /api/v1/claims/export
func (h *ClaimHandler) Export(c *gin.Context) {
	userID, ok := parseUserFilter(c)
	if !ok {
		return
	}

	filename := csvexport.BuildFilename("claims")
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := h.claimService.ExportCSV(c.Request.Context(), c.Writer, userID); err != nil {
		// Headers are already out; log and truncate the download.
		requestID, _ := c.Get("request_id")
		log.Printf("[%s] claim export failed: %v", requestID, err)
	}
}
