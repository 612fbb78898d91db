package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gridbill/internal/domain"
	"gridbill/internal/handler"
	"gridbill/internal/service"
	"gridbill/mocks"
)

func TestCorrectionHandler_Create(t *testing.T) {
	mockSvc := new(mocks.MockCorrectionService)
	h := handler.NewCorrectionHandler(mockSvc)

	extractionID := uuid.New()
	mockSvc.On("Create", mock.Anything, mock.MatchedBy(func(in service.CorrectionInput) bool {
		return in.ExtractionID == extractionID &&
			in.FieldPath == "totals.total_amount_due" &&
			in.CorrectedValue == "184.27"
	})).Return(&domain.Correction{
		ID:             uuid.New(),
		ExtractionID:   extractionID,
		FieldPath:      "totals.total_amount_due",
		CorrectedValue: "184.27",
	}, nil)

	body, _ := json.Marshal(map[string]string{
		"field_path":      "totals.total_amount_due",
		"extracted_value": "1842.70",
		"corrected_value": "184.27",
		"note":            "decimal point dropped",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost,
		"/api/v1/extractions/"+extractionID.String()+"/corrections", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: extractionID.String()}}

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	mockSvc.AssertExpectations(t)
}

func TestCorrectionHandler_Create_MissingRequiredFields(t *testing.T) {
	mockSvc := new(mocks.MockCorrectionService)
	h := handler.NewCorrectionHandler(mockSvc)

	extractionID := uuid.New()
	body, _ := json.Marshal(map[string]string{"note": "missing the rest"})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost,
		"/api/v1/extractions/"+extractionID.String()+"/corrections", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: extractionID.String()}}

	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCorrectionHandler_Create_InvalidID(t *testing.T) {
	h := handler.NewCorrectionHandler(new(mocks.MockCorrectionService))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/extractions/bad-id/corrections", nil)
	c.Params = gin.Params{{Key: "id", Value: "bad-id"}}

	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCorrectionHandler_Create_ExtractionNotFound(t *testing.T) {
	mockSvc := new(mocks.MockCorrectionService)
	h := handler.NewCorrectionHandler(mockSvc)

	extractionID := uuid.New()
	mockSvc.On("Create", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)

	body, _ := json.Marshal(map[string]string{
		"field_path":      "account.account_number",
		"corrected_value": "556677",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost,
		"/api/v1/extractions/"+extractionID.String()+"/corrections", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: extractionID.String()}}

	h.Create(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCorrectionHandler_List(t *testing.T) {
	mockSvc := new(mocks.MockCorrectionService)
	h := handler.NewCorrectionHandler(mockSvc)

	extractionID := uuid.New()
	mockSvc.On("ListByExtraction", mock.Anything, extractionID).Return([]domain.Correction{
		{ID: uuid.New(), ExtractionID: extractionID, FieldPath: "account.account_number"},
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet,
		"/api/v1/extractions/"+extractionID.String()+"/corrections", nil)
	c.Params = gin.Params{{Key: "id", Value: extractionID.String()}}

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "account.account_number")
}
