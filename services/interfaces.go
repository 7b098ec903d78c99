package services

import (
	"time"

	"github.com/gcbaptista/coursexp/model"
)

// Searcher derives the ordered result sequence for a query.
// Implementations must be pure: the same query always yields the same order.
type Searcher interface {
	FilterSort(query string) []model.Review
}

// ReviewReader gives read access to one immutable dataset snapshot.
type ReviewReader interface {
	All() []model.Review
	Len() int
	Get(id int) (model.Review, error)
}

// JobManager defines operations for inspecting background jobs
type JobManager interface {
	GetJob(jobID string) (*model.Job, error)
	ListJobs(status *model.JobStatus) []*model.Job
}

// JobReporter exposes the job counters.
type JobReporter interface {
	JobMetrics() model.JobMetrics
}

// Catalogue is everything the HTTP surface needs from the running catalogue.
type Catalogue interface {
	JobManager
	JobReporter
	Reviews() ReviewReader
	LastUpdate() string
	LoadedAt() time.Time
	IngestEnabled() bool
	IngestAsync() (string, error) // Returns job ID
	ReloadAsync() (string, error) // Returns job ID
}
