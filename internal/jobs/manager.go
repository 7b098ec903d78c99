// Package jobs runs catalogue maintenance (ingest and reload) in the
// background and keeps their status for polling.
package jobs

import (
	"context"
	"fmt"
	"log"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gcbaptista/coursexp/internal/errors"
	"github.com/gcbaptista/coursexp/model"
)

const (
	// DefaultRetention is how long finished jobs stay listed.
	DefaultRetention = 24 * time.Hour
	cleanupInterval  = time.Hour
)

// ProgressFunc reports how far a running job got.
type ProgressFunc func(current, total int, message string)

// Func is the body of a job. The returned metadata is merged into the job's
// metadata whether or not the job fails.
type Func func(ctx context.Context, progress ProgressFunc) (map[string]string, error)

// Manager handles background job execution and tracking
type Manager struct {
	mu        sync.RWMutex
	jobs      map[string]*model.Job
	workers   chan struct{} // Limits concurrent jobs
	ctx       context.Context
	cancel    context.CancelFunc
	stopOnce  sync.Once
	wg        sync.WaitGroup
	metrics   *metrics
	retention time.Duration
}

// NewManager creates a job manager running at most maxWorkers jobs at once.
func NewManager(maxWorkers int) *Manager {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		jobs:      make(map[string]*model.Job),
		workers:   make(chan struct{}, maxWorkers),
		ctx:       ctx,
		cancel:    cancel,
		metrics:   newMetrics(),
		retention: DefaultRetention,
	}
}

// Start begins the background cleanup of finished jobs.
func (m *Manager) Start() {
	log.Printf("Job manager started with %d max workers", cap(m.workers))

	m.wg.Add(1)
	go m.cleanupRoutine()
}

// Stop cancels running jobs and waits for them to return. It is safe to call
// more than once.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		// Cancelling under mu orders it against the wg.Add in ExecuteJob.
		m.mu.Lock()
		m.cancel()
		m.mu.Unlock()
		m.wg.Wait()
		log.Printf("Job manager stopped")
	})
}

// CreateJob registers a pending job and returns its ID.
func (m *Manager) CreateJob(jobType model.JobType, metadata map[string]string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	job := &model.Job{
		ID:        uuid.New().String(),
		Type:      jobType,
		Status:    model.JobStatusPending,
		CreatedAt: time.Now(),
		Metadata:  maps.Clone(metadata),
	}

	m.jobs[job.ID] = job
	m.metrics.jobCreated(jobType)
	log.Printf("Created job %s (type: %s)", job.ID, job.Type)
	return job.ID
}

// Submit creates a job and starts it.
func (m *Manager) Submit(jobType model.JobType, metadata map[string]string, fn Func) (string, error) {
	jobID := m.CreateJob(jobType, metadata)
	if err := m.ExecuteJob(jobID, fn); err != nil {
		return jobID, err
	}
	return jobID, nil
}

// GetJob returns a copy of the job with the given ID.
func (m *Manager) GetJob(jobID string) (*model.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return nil, errors.NewJobNotFoundError(jobID)
	}
	return copyJob(job), nil
}

// ListJobs returns copies of all jobs, newest first, optionally filtered by status.
func (m *Manager) ListJobs(status *model.JobStatus) []*model.Job {
	m.mu.RLock()
	result := make([]*model.Job, 0, len(m.jobs))
	for _, job := range m.jobs {
		if status == nil || job.Status == *status {
			result = append(result, copyJob(job))
		}
	}
	m.mu.RUnlock()

	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result
}

// ExecuteJob runs a pending job in the background. The job stays pending
// until a worker slot frees up.
func (m *Manager) ExecuteJob(jobID string, fn Func) error {
	m.mu.Lock()
	job, exists := m.jobs[jobID]
	if !exists {
		m.mu.Unlock()
		return errors.NewJobNotFoundError(jobID)
	}
	if job.Status != model.JobStatusPending {
		status := job.Status
		m.mu.Unlock()
		return fmt.Errorf("job with ID '%s' is not in pending status (current: %s)", jobID, status)
	}
	if m.ctx.Err() != nil {
		m.mu.Unlock()
		m.finish(jobID, model.JobStatusCancelled, nil, "Job manager shutting down")
		return fmt.Errorf("job manager is shutting down")
	}
	m.wg.Add(1)
	m.mu.Unlock()

	go m.run(jobID, fn)
	return nil
}

func (m *Manager) run(jobID string, fn Func) {
	defer m.wg.Done()

	select {
	case m.workers <- struct{}{}:
	case <-m.ctx.Done():
		m.finish(jobID, model.JobStatusCancelled, nil, "Job manager shutting down")
		return
	}
	defer func() { <-m.workers }()

	jobType, ok := m.markRunning(jobID)
	if !ok {
		return
	}

	startTime := time.Now()
	result, err := fn(m.ctx, func(current, total int, message string) {
		m.UpdateJobProgress(jobID, current, total, message)
	})
	executionTime := time.Since(startTime)
	m.metrics.jobFinished(jobType, executionTime, err)

	switch {
	case err != nil && m.ctx.Err() != nil:
		m.finish(jobID, model.JobStatusCancelled, result, err.Error())
		log.Printf("Job %s cancelled after %v: %v", jobID, executionTime, err)
	case err != nil:
		m.finish(jobID, model.JobStatusFailed, result, err.Error())
		log.Printf("Job %s failed after %v: %v", jobID, executionTime, err)
	default:
		m.finish(jobID, model.JobStatusCompleted, result, "")
		log.Printf("Job %s completed successfully in %v", jobID, executionTime)
	}
}

func (m *Manager) markRunning(jobID string) (model.JobType, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, exists := m.jobs[jobID]
	if !exists || job.Status != model.JobStatusPending {
		return "", false
	}
	now := time.Now()
	job.Status = model.JobStatusRunning
	job.StartedAt = &now
	m.metrics.statusChanged(model.JobStatusPending, model.JobStatusRunning)
	return job.Type, true
}

// UpdateJobProgress updates the progress of a running job
func (m *Manager) UpdateJobProgress(jobID string, current, total int, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return
	}
	if job.Progress == nil {
		job.Progress = &model.JobProgress{}
	}
	job.Progress.Current = current
	job.Progress.Total = total
	job.Progress.Message = message
}

// finish moves a job to a terminal status.
func (m *Manager) finish(jobID string, status model.JobStatus, result map[string]string, errorMsg string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, exists := m.jobs[jobID]
	if !exists || job.Status.IsTerminal() {
		return
	}

	oldStatus := job.Status
	job.Status = status
	job.Error = errorMsg
	if len(result) > 0 {
		if job.Metadata == nil {
			job.Metadata = make(map[string]string, len(result))
		}
		maps.Copy(job.Metadata, result)
	}
	now := time.Now()
	job.CompletedAt = &now
	m.metrics.statusChanged(oldStatus, status)
}

func (m *Manager) cleanupRoutine() {
	defer m.wg.Done()

	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.CleanupOldJobs(m.retention)
		case <-m.ctx.Done():
			return
		}
	}
}

// CleanupOldJobs removes finished jobs that completed more than maxAge ago.
func (m *Manager) CleanupOldJobs(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	cleaned := 0
	for jobID, job := range m.jobs {
		if job.CompletedAt != nil && job.CompletedAt.Before(cutoff) {
			delete(m.jobs, jobID)
			cleaned++
		}
	}

	if cleaned > 0 {
		log.Printf("Cleaned up %d old jobs", cleaned)
	}
	return cleaned
}

// Metrics returns a snapshot of the job counters.
func (m *Manager) Metrics() model.JobMetrics {
	return m.metrics.snapshot()
}

// AverageExecutionTime returns the mean duration of recent jobs of jobType.
func (m *Manager) AverageExecutionTime(jobType model.JobType) time.Duration {
	return m.metrics.averageFor(jobType)
}

// CurrentWorkload returns the number of pending and running jobs.
func (m *Manager) CurrentWorkload() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	active := 0
	for _, job := range m.jobs {
		if !job.Status.IsTerminal() {
			active++
		}
	}
	return active
}

func copyJob(job *model.Job) *model.Job {
	jobCopy := *job
	if job.Progress != nil {
		progressCopy := *job.Progress
		jobCopy.Progress = &progressCopy
	}
	jobCopy.Metadata = maps.Clone(job.Metadata)
	return &jobCopy
}
