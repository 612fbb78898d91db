package router

import (
	"github.com/gin-gonic/gin"

	"gridbill/internal/config"
	"gridbill/internal/handler"
	"gridbill/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	extractionH *handler.ExtractionHandler,
	correctionH *handler.CorrectionHandler,
	driftH *handler.DriftHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.APIKey(cfg.Auth.APIKey))

	// Extraction routes
	extractions := v1.Group("/extractions")
	extractions.POST("", extractionH.Upload)
	extractions.GET("", extractionH.List)
	extractions.GET("/export", extractionH.Export)
	extractions.GET("/:id", extractionH.Get)
	extractions.GET("/:id/document", extractionH.DocumentURL)

	// Reviewer corrections
	extractions.POST("/:id/corrections", correctionH.Create)
	extractions.GET("/:id/corrections", correctionH.List)

	// Drift comparison
	extractions.GET("/:id/drift", driftH.Compare)
	extractions.POST("/:id/drift/pin", driftH.Pin)

	return r
}
