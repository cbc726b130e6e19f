package handler_test

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"claimos/internal/domain"
	"claimos/internal/handler"
	"claimos/internal/service"
	"claimos/mocks"
)

func TestClaimHandler_List_Success(t *testing.T) {
	mockClaims := new(mocks.MockClaimService)
	h := handler.NewClaimHandler(mockClaims)

	claims := []domain.Claim{
		{ID: uuid.New(), ClaimNumber: "CLM-20250310-A1B2C3D4", SessionID: "sess-1", Status: domain.ClaimStatusSubmitted, SubmittedAt: time.Now().UTC()},
	}
	mockClaims.On("List", mock.Anything, (*uuid.UUID)(nil), 0, 20).Return(claims, 1, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/claims", nil)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp handler.APIResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 1, resp.Meta.Total)
	assert.Equal(t, 20, resp.Meta.Limit)
}

func TestClaimHandler_List_InvalidUserFilter(t *testing.T) {
	mockClaims := new(mocks.MockClaimService)
	h := handler.NewClaimHandler(mockClaims)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/claims?user_id=not-a-uuid", nil)

	h.List(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp handler.APIResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_USER_ID", resp.Error.Code)
	mockClaims.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestClaimHandler_GetByID_Success(t *testing.T) {
	mockClaims := new(mocks.MockClaimService)
	h := handler.NewClaimHandler(mockClaims)

	claimID := uuid.New()
	detail := &service.ClaimDetail{
		Claim: domain.Claim{ID: claimID, ClaimNumber: "CLM-20250310-A1B2C3D4", Status: domain.ClaimStatusSubmitted},
	}
	mockClaims.On("GetByID", mock.Anything, claimID).Return(detail, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/claims/"+claimID.String(), nil)
	c.Params = gin.Params{{Key: "id", Value: claimID.String()}}

	h.GetByID(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp handler.APIResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestClaimHandler_GetByID_NotFound(t *testing.T) {
	mockClaims := new(mocks.MockClaimService)
	h := handler.NewClaimHandler(mockClaims)

	claimID := uuid.New()
	mockClaims.On("GetByID", mock.Anything, claimID).Return(nil, domain.ErrClaimNotFound)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/claims/"+claimID.String(), nil)
	c.Params = gin.Params{{Key: "id", Value: claimID.String()}}

	h.GetByID(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	var resp handler.APIResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "CLAIM_NOT_FOUND", resp.Error.Code)
}

func TestClaimHandler_GetByID_InvalidID(t *testing.T) {
	mockClaims := new(mocks.MockClaimService)
	h := handler.NewClaimHandler(mockClaims)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/claims/not-a-uuid", nil)
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}

	h.GetByID(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClaimHandler_Export_StreamsCSV(t *testing.T) {
	mockClaims := new(mocks.MockClaimService)
	h := handler.NewClaimHandler(mockClaims)

	mockClaims.On("ExportCSV", mock.Anything, mock.Anything, (*uuid.UUID)(nil)).
		Run(func(args mock.Arguments) {
			w := args.Get(1).(io.Writer)
			_, _ = w.Write([]byte("Claim Number,Status\nCLM-20250310-A1B2C3D4,submitted\n"))
		}).
		Return(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/claims/export", nil)

	h.Export(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), `attachment; filename="claims_`)
	assert.Contains(t, w.Body.String(), "CLM-20250310-A1B2C3D4")
	mockClaims.AssertExpectations(t)
}

func TestClaimHandler_Export_MidStreamFailureTruncates(t *testing.T) {
	mockClaims := new(mocks.MockClaimService)
	h := handler.NewClaimHandler(mockClaims)

	mockClaims.On("ExportCSV", mock.Anything, mock.Anything, (*uuid.UUID)(nil)).
		Return(errors.New("db gone"))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/claims/export", nil)

	h.Export(c)

	// Headers were already written, so the handler cannot change the status.
	assert.Equal(t, http.StatusOK, w.Code)
}
