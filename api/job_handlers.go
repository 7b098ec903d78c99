package api

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/coursexp/internal/errors"
	"github.com/gcbaptista/coursexp/model"
)

// GetJobHandler handles requests to get job status by ID
func (api *API) GetJobHandler(c *gin.Context) {
	jobID := c.Param("jobId")
	if validation := ValidateJobID(jobID); validation.HasErrors() {
		SendValidationError(c, validation)
		return
	}

	job, err := api.catalogue.GetJob(jobID)
	if err != nil {
		if stderrors.Is(err, errors.ErrJobNotFound) {
			SendJobNotFoundError(c, jobID)
			return
		}
		SendInternalError(c, "job lookup", err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// ListJobsHandler lists jobs, newest first, optionally filtered by ?status=
func (api *API) ListJobsHandler(c *gin.Context) {
	statusFilter, validation := ValidateJobStatus(c.Query("status"))
	if validation.HasErrors() {
		SendValidationError(c, validation)
		return
	}

	jobs := api.catalogue.ListJobs(statusFilter)
	if jobs == nil {
		jobs = []*model.Job{}
	}
	c.JSON(http.StatusOK, gin.H{
		"jobs":  jobs,
		"total": len(jobs),
	})
}

// GetJobMetricsHandler handles requests to get job performance metrics
func (api *API) GetJobMetricsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"metrics": api.catalogue.JobMetrics(),
	})
}
