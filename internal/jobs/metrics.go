package jobs

import (
	"maps"
	"sync"
	"time"

	"github.com/gcbaptista/coursexp/model"
)

// recentWindow bounds how many execution times are kept per job type.
const recentWindow = 50

// metrics tracks job counters for one Manager.
type metrics struct {
	mu             sync.Mutex
	created        int64
	completed      int64
	failed         int64
	totalExecution time.Duration
	byType         map[model.JobType]int64
	byStatus       map[model.JobStatus]int64
	recentByType   map[model.JobType][]time.Duration
	lastUpdated    time.Time
}

func newMetrics() *metrics {
	return &metrics{
		byType:       make(map[model.JobType]int64),
		byStatus:     make(map[model.JobStatus]int64),
		recentByType: make(map[model.JobType][]time.Duration),
		lastUpdated:  time.Now(),
	}
}

func (m *metrics) jobCreated(jobType model.JobType) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.created++
	m.byType[jobType]++
	m.byStatus[model.JobStatusPending]++
	m.lastUpdated = time.Now()
}

func (m *metrics) statusChanged(from, to model.JobStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if from != "" && m.byStatus[from] > 0 {
		m.byStatus[from]--
	}
	m.byStatus[to]++
	m.lastUpdated = time.Now()
}

func (m *metrics) jobFinished(jobType model.JobType, elapsed time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err != nil {
		m.failed++
	} else {
		m.completed++
		m.totalExecution += elapsed
	}

	recent := append(m.recentByType[jobType], elapsed)
	if len(recent) > recentWindow {
		recent = recent[len(recent)-recentWindow:]
	}
	m.recentByType[jobType] = recent
	m.lastUpdated = time.Now()
}

// averageFor returns the mean of the recent execution times of jobType.
func (m *metrics) averageFor(jobType model.JobType) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()

	recent := m.recentByType[jobType]
	if len(recent) == 0 {
		return 0
	}
	var total time.Duration
	for _, d := range recent {
		total += d
	}
	return total / time.Duration(len(recent))
}

func (m *metrics) snapshot() model.JobMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := model.JobMetrics{
		JobsCreated:   m.created,
		JobsCompleted: m.completed,
		JobsFailed:    m.failed,
		SuccessRate:   1.0,
		JobsByType:    maps.Clone(m.byType),
		JobsByStatus:  maps.Clone(m.byStatus),
		LastUpdated:   m.lastUpdated,
	}
	if m.completed > 0 {
		snapshot.AverageExecutionTime = m.totalExecution / time.Duration(m.completed)
	}
	if finished := m.completed + m.failed; finished > 0 {
		snapshot.SuccessRate = float64(m.completed) / float64(finished)
	}
	return snapshot
}
