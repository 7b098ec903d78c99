package model

import (
	"time"
)

// JobStatus represents the status of a long-running job
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

// IsTerminal reports whether the job can no longer change status.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed || s == JobStatusCancelled
}

// JobType represents the type of job being executed
type JobType string

const (
	// JobTypeIngest polls the channel and appends new reviews to the dataset.
	JobTypeIngest JobType = "ingest"
	// JobTypeReload swaps the served snapshot for the dataset currently on disk.
	JobTypeReload JobType = "reload"
)

// Job represents a background operation on the dataset
type Job struct {
	ID          string            `json:"id"`
	Type        JobType           `json:"type"`
	Status      JobStatus         `json:"status"`
	Progress    *JobProgress      `json:"progress,omitempty"`
	Error       string            `json:"error,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	StartedAt   *time.Time        `json:"started_at,omitempty"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// JobProgress tracks the progress of a job
type JobProgress struct {
	Current int    `json:"current"`
	Total   int    `json:"total"`
	Message string `json:"message,omitempty"`
}

// GetProgressPercentage returns the progress as a percentage (0-100)
func (jp *JobProgress) GetProgressPercentage() float64 {
	if jp.Total == 0 {
		return 0
	}
	return float64(jp.Current) / float64(jp.Total) * 100
}

// JobMetrics summarizes the jobs a manager has run since it started.
type JobMetrics struct {
	JobsCreated          int64               `json:"jobs_created"`
	JobsCompleted        int64               `json:"jobs_completed"`
	JobsFailed           int64               `json:"jobs_failed"`
	AverageExecutionTime time.Duration       `json:"average_execution_time_ns"`
	SuccessRate          float64             `json:"success_rate"`
	JobsByType           map[JobType]int64   `json:"jobs_by_type"`
	JobsByStatus         map[JobStatus]int64 `json:"jobs_by_status"`
	LastUpdated          time.Time           `json:"last_updated"`
}
