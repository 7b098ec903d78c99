// Package api serves the dataset documents and the maintenance endpoints over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/coursexp/services"
)

const serviceName = "coursexp"

// API holds dependencies for API handlers, primarily the running catalogue.
type API struct {
	catalogue services.Catalogue
	startedAt time.Time
}

// NewAPI creates a new API handler structure.
func NewAPI(catalogue services.Catalogue) *API {
	return &API{
		catalogue: catalogue,
		startedAt: time.Now(),
	}
}

// SetupRoutes defines all the API routes of the catalogue. Search happens in
// the client; the server only hands out the dataset documents.
func SetupRoutes(router *gin.Engine, catalogue services.Catalogue) {
	apiHandler := NewAPI(catalogue)

	router.GET("/health", apiHandler.HealthCheckHandler)

	// Dataset documents, in the exact wire layout the browser client reads
	router.GET("/data.json", apiHandler.DatasetHandler)
	router.GET("/last_update.json", apiHandler.LastUpdateHandler)
	router.GET("/reviews/:id", apiHandler.GetReviewHandler)

	// Maintenance
	router.POST("/ingest", apiHandler.IngestHandler)
	router.POST("/reload", apiHandler.ReloadHandler)

	jobRoutes := router.Group("/jobs")
	{
		jobRoutes.GET("", apiHandler.ListJobsHandler)
		jobRoutes.GET("/metrics", apiHandler.GetJobMetricsHandler)
		jobRoutes.GET("/:jobId", apiHandler.GetJobHandler)
	}
}

// HealthCheckHandler provides a simple health check endpoint
func (api *API) HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "healthy",
		"service":        serviceName,
		"reviews":        api.catalogue.Reviews().Len(),
		"last_update":    api.catalogue.LastUpdate(),
		"loaded_at":      api.catalogue.LoadedAt().UTC().Format(time.RFC3339),
		"ingest_enabled": api.catalogue.IngestEnabled(),
		"uptime_seconds": int64(time.Since(api.startedAt).Seconds()),
		"timestamp":      time.Now().Unix(),
	})
}
