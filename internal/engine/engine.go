// Package engine wires the dataset, the filter-sort engine, the ingester and
// the job manager into the running catalogue.
package engine

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/gcbaptista/coursexp/config"
	"github.com/gcbaptista/coursexp/internal/errors"
	"github.com/gcbaptista/coursexp/internal/ingest"
	"github.com/gcbaptista/coursexp/internal/jobs"
	"github.com/gcbaptista/coursexp/internal/view"
	"github.com/gcbaptista/coursexp/model"
	"github.com/gcbaptista/coursexp/services"
	"github.com/gcbaptista/coursexp/store"
)

// Ingest and reload both rewrite the served snapshot, so they run one at a time.
const maxJobWorkers = 1

// Catalogue serves one dataset snapshot at a time.
// It implements the services.Catalogue interface.
type Catalogue struct {
	mu         sync.RWMutex
	settings   config.Settings
	current    *snapshot
	ingester   *ingest.Service
	jobManager *jobs.Manager
}

// NewCatalogue validates settings and loads the dataset. A missing or
// malformed dataset yields an empty catalogue rather than an error.
func NewCatalogue(settings config.Settings) (*Catalogue, error) {
	return newCatalogue(settings, nil)
}

// NewCatalogueWithPoller is NewCatalogue with a custom Bot API client.
func NewCatalogueWithPoller(settings config.Settings, poller ingest.Poller) (*Catalogue, error) {
	return newCatalogue(settings, poller)
}

func newCatalogue(settings config.Settings, poller ingest.Poller) (*Catalogue, error) {
	settings.ApplyDefaults()
	if problems := settings.Validate(); len(problems) > 0 {
		return nil, errors.NewValidationError("settings", strings.Join(problems, "; "))
	}

	reviews := store.LoadReviewsOrEmpty(settings.DataFile)
	current, err := newSnapshot(reviews, store.LoadLastUpdate(settings.LastUpdateFile), settings.ResultCacheSize)
	if err != nil {
		return nil, err
	}
	log.Printf("Loaded %d reviews from %s", current.store.Len(), settings.DataFile)

	c := &Catalogue{
		settings:   settings,
		current:    current,
		jobManager: jobs.NewManager(maxJobWorkers),
	}

	if settings.Ingest.Enabled() {
		ingester, err := ingest.NewService(settings, poller)
		if err != nil {
			return nil, fmt.Errorf("failed to create ingester: %w", err)
		}
		c.ingester = ingester
	} else {
		log.Printf("Warning: %s is not set; channel ingest is disabled", config.EnvBotToken)
	}

	c.jobManager.Start()
	return c, nil
}

// snapshot returns the generation currently served.
func (c *Catalogue) snapshot() *snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Searcher returns the filter-sort engine of the current snapshot.
func (c *Catalogue) Searcher() services.Searcher {
	return c.snapshot().searcher
}

// Store returns the records of the current snapshot.
func (c *Catalogue) Store() *store.ReviewStore {
	return c.snapshot().store
}

// Reviews returns read access to the current snapshot.
func (c *Catalogue) Reviews() services.ReviewReader {
	return c.snapshot().store
}

// LastUpdate returns the last-update display string of the current snapshot.
func (c *Catalogue) LastUpdate() string {
	return c.snapshot().lastUpdate
}

// LoadedAt returns when the current snapshot was read from disk.
func (c *Catalogue) LoadedAt() time.Time {
	return c.snapshot().loadedAt
}

// NewView opens a browsing session on the current snapshot. onGrow may be nil.
func (c *Catalogue) NewView(onGrow func(view.Snapshot)) *view.Coordinator {
	return view.NewCoordinator(c.Searcher(), view.Options{
		PageSize:     c.settings.PageSize,
		GrowDebounce: c.settings.GrowDebounce,
		OnGrow:       onGrow,
	})
}

// Reload swaps in a snapshot of the dataset currently on disk. Unlike the
// initial load it is strict: an unreadable dataset keeps the current snapshot.
func (c *Catalogue) Reload() error {
	reviews, err := store.LoadReviews(c.settings.DataFile)
	if err != nil {
		return fmt.Errorf("failed to reload dataset: %w", err)
	}
	current, err := newSnapshot(reviews, store.LoadLastUpdate(c.settings.LastUpdateFile), c.settings.ResultCacheSize)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.current = current
	c.mu.Unlock()

	log.Printf("Reloaded %d reviews from %s", current.store.Len(), c.settings.DataFile)
	return nil
}

// IngestEnabled reports whether a bot token is configured.
func (c *Catalogue) IngestEnabled() bool {
	return c.ingester != nil
}

// Ingest polls the channel once and, when reviews were added, reloads.
func (c *Catalogue) Ingest(ctx context.Context) (ingest.Result, error) {
	if c.ingester == nil {
		return ingest.Result{}, errors.ErrIngestDisabled
	}
	result, err := c.ingester.Run(ctx)
	if err != nil {
		return result, err
	}
	if result.Added > 0 {
		if err := c.Reload(); err != nil {
			return result, err
		}
	}
	return result, nil
}

// GetJob retrieves a job by ID
func (c *Catalogue) GetJob(jobID string) (*model.Job, error) {
	return c.jobManager.GetJob(jobID)
}

// ListJobs returns all jobs, newest first, optionally filtered by status
func (c *Catalogue) ListJobs(status *model.JobStatus) []*model.Job {
	return c.jobManager.ListJobs(status)
}

// JobMetrics returns the job counters
func (c *Catalogue) JobMetrics() model.JobMetrics {
	return c.jobManager.Metrics()
}

// Close stops background jobs.
func (c *Catalogue) Close() {
	c.jobManager.Stop()
}
