package engine

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gcbaptista/coursexp/internal/errors"
	"github.com/gcbaptista/coursexp/internal/jobs"
	"github.com/gcbaptista/coursexp/model"
)

// IngestAsync starts a channel ingest in the background and returns its job ID.
func (c *Catalogue) IngestAsync() (string, error) {
	if c.ingester == nil {
		return "", errors.ErrIngestDisabled
	}

	jobID, err := c.jobManager.Submit(model.JobTypeIngest, map[string]string{
		"operation": "ingest",
		"channel":   c.settings.Ingest.Channel,
	}, c.executeIngestJob)
	if err != nil {
		return "", fmt.Errorf("failed to start ingest job: %w", err)
	}
	return jobID, nil
}

func (c *Catalogue) executeIngestJob(ctx context.Context, progress jobs.ProgressFunc) (map[string]string, error) {
	progress(0, 2, "Polling channel")
	result, err := c.ingester.Run(ctx)
	if err != nil {
		return result.Metadata(), err
	}

	if result.Added == 0 {
		progress(2, 2, "No new reviews")
		return result.Metadata(), nil
	}

	progress(1, 2, fmt.Sprintf("Added %d reviews, reloading", result.Added))
	if err := c.Reload(); err != nil {
		return result.Metadata(), err
	}
	progress(2, 2, "Completed")
	return result.Metadata(), nil
}

// ReloadAsync swaps in the dataset on disk in the background and returns the job ID.
func (c *Catalogue) ReloadAsync() (string, error) {
	jobID, err := c.jobManager.Submit(model.JobTypeReload, map[string]string{
		"operation": "reload",
	}, c.executeReloadJob)
	if err != nil {
		return "", fmt.Errorf("failed to start reload job: %w", err)
	}
	return jobID, nil
}

func (c *Catalogue) executeReloadJob(_ context.Context, progress jobs.ProgressFunc) (map[string]string, error) {
	progress(0, 1, "Reloading dataset")
	if err := c.Reload(); err != nil {
		return nil, err
	}
	progress(1, 1, "Completed")
	return map[string]string{"reviews": strconv.Itoa(c.Store().Len())}, nil
}
