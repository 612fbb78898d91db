package handler

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gridbill/internal/csvexport"
	"gridbill/internal/domain"
	"gridbill/internal/port"
	"gridbill/internal/service"
)

// ExtractionHandler handles document upload and extraction endpoints.
type ExtractionHandler struct {
	extractionService service.ExtractionService
}

// NewExtractionHandler creates a new ExtractionHandler.
func NewExtractionHandler(extractionService service.ExtractionService) *ExtractionHandler {
	return &ExtractionHandler{extractionService: extractionService}
}

// Upload handles POST /api/v1/extractions
// Accepts a multipart document (PDF, JPG, PNG) and enqueues a pending
// extraction. Processing is asynchronous; poll Get for the result.
func (h *ExtractionHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	rec, err := h.extractionService.Upload(c.Request.Context(), service.UploadInput{
		File:   file,
		Header: header,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondAccepted(c, rec)
}

// Get handles GET /api/v1/extractions/:id
func (h *ExtractionHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid extraction id")
		return
	}

	rec, err := h.extractionService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, rec)
}

// List handles GET /api/v1/extractions
func (h *ExtractionHandler) List(c *gin.Context) {
	filter := listFilter(c)

	recs, err := h.extractionService.List(c.Request.Context(), filter)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, recs, PagMeta{
		Offset: filter.Offset,
		Limit:  filter.Limit,
		Count:  len(recs),
	})
}

// Export handles GET /api/v1/extractions/export
// Streams the filtered extraction list as a CSV attachment.
func (h *ExtractionHandler) Export(c *gin.Context) {
	filter := listFilter(c)

	recs, err := h.extractionService.List(c.Request.Context(), filter)
	if err != nil {
		HandleError(c, err)
		return
	}

	filename := csvexport.BuildFilename("extractions")
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)

	if _, err := c.Writer.Write(csvexport.BOM); err != nil {
		log.Printf("extractionHandler.Export: writing BOM: %v", err)
		return
	}

	w := csvexport.NewWriter(c.Writer)
	if err := w.WriteHeader(); err != nil {
		log.Printf("extractionHandler.Export: writing header: %v", err)
		return
	}
	if err := w.WriteExtractions(recs); err != nil {
		log.Printf("extractionHandler.Export: writing rows: %v", err)
		return
	}
	w.Flush()
	if err := w.Error(); err != nil {
		log.Printf("extractionHandler.Export: flushing: %v", err)
	}
}

// DocumentURL handles GET /api/v1/extractions/:id/document
// Returns a presigned URL for the original uploaded document.
func (h *ExtractionHandler) DocumentURL(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid extraction id")
		return
	}

	url, err := h.extractionService.GetDocumentURL(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"url": url})
}

// listFilter parses query parameters into an ExtractionListFilter.
func listFilter(c *gin.Context) port.ExtractionListFilter {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit < 0 {
		limit = 0
	}
	if offset < 0 {
		offset = 0
	}

	return port.ExtractionListFilter{
		UtilityName:    c.Query("utility"),
		Commodity:      domain.CommodityType(c.Query("commodity")),
		Status:         domain.ExtractionStatus(c.Query("status")),
		ConfidenceTier: domain.ConfidenceTier(c.Query("tier")),
		Limit:          limit,
		Offset:         offset,
	}
}
