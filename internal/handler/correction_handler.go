package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gridbill/internal/service"
)

// CorrectionHandler handles reviewer correction endpoints.
type CorrectionHandler struct {
	correctionService service.CorrectionService
}

// NewCorrectionHandler creates a new CorrectionHandler.
func NewCorrectionHandler(correctionService service.CorrectionService) *CorrectionHandler {
	return &CorrectionHandler{correctionService: correctionService}
}

type createCorrectionRequest struct {
	FieldPath      string `json:"field_path" binding:"required"`
	ExtractedValue string `json:"extracted_value"`
	CorrectedValue string `json:"corrected_value" binding:"required"`
	Note           string `json:"note"`
}

// Create handles POST /api/v1/extractions/:id/corrections
func (h *CorrectionHandler) Create(c *gin.Context) {
	extractionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid extraction id")
		return
	}

	var req createCorrectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_BODY", "field_path and corrected_value are required")
		return
	}

	correction, err := h.correctionService.Create(c.Request.Context(), service.CorrectionInput{
		ExtractionID:   extractionID,
		FieldPath:      req.FieldPath,
		ExtractedValue: req.ExtractedValue,
		CorrectedValue: req.CorrectedValue,
		Note:           req.Note,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, correction)
}

// List handles GET /api/v1/extractions/:id/corrections
func (h *CorrectionHandler) List(c *gin.Context) {
	extractionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid extraction id")
		return
	}

	corrections, err := h.correctionService.ListByExtraction(c.Request.Context(), extractionID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, corrections)
}
