package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gridbill/internal/service"
)

// DriftHandler handles drift comparison endpoints.
type DriftHandler struct {
	driftService service.DriftService
}

// NewDriftHandler creates a new DriftHandler.
func NewDriftHandler(driftService service.DriftService) *DriftHandler {
	return &DriftHandler{driftService: driftService}
}

// Compare handles GET /api/v1/extractions/:id/drift
// Compares the extraction against the pinned baseline for its source document.
func (h *DriftHandler) Compare(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid extraction id")
		return
	}

	report, err := h.driftService.Compare(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, report)
}

// Pin handles POST /api/v1/extractions/:id/drift/pin
// Pins the extraction as the drift baseline for its source document.
func (h *DriftHandler) Pin(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid extraction id")
		return
	}

	baseline, err := h.driftService.PinBaseline(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, baseline)
}
