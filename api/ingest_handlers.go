package api

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/coursexp/internal/errors"
)

// IngestHandler starts a channel ingest and answers with the job ID.
func (api *API) IngestHandler(c *gin.Context) {
	if !api.catalogue.IngestEnabled() {
		SendIngestDisabledError(c)
		return
	}

	jobID, err := api.catalogue.IngestAsync()
	if err != nil {
		if stderrors.Is(err, errors.ErrIngestDisabled) {
			SendIngestDisabledError(c)
			return
		}
		SendJobExecutionError(c, "ingest", err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status":  "accepted",
		"message": "Channel ingest started",
		"job_id":  jobID,
	})
}

// ReloadHandler swaps in the dataset currently on disk and answers with the job ID.
func (api *API) ReloadHandler(c *gin.Context) {
	jobID, err := api.catalogue.ReloadAsync()
	if err != nil {
		SendJobExecutionError(c, "reload", err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status":  "accepted",
		"message": "Dataset reload started",
		"job_id":  jobID,
	})
}
