// Package testing provides fixtures and helpers shared by the catalogue's tests.
package testing

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/coursexp/config"
	"github.com/gcbaptista/coursexp/model"
	"github.com/gcbaptista/coursexp/services"
	"github.com/gcbaptista/coursexp/store"
)

// NewReview builds a review with the fields the pipeline looks at.
func NewReview(id int, course, professor, professorScore string) model.Review {
	return model.Review{
		ID:             id,
		Link:           fmt.Sprintf("https://t.me/IAUCourseExp/%d", 1000+id),
		Course:         course,
		StudentScore:   "?",
		ProfessorScore: professorScore,
		Professor:      professor,
		Text:           fmt.Sprintf("experience %d", id),
	}
}

// SampleReviews returns a small mixed-script dataset in authoring order.
func SampleReviews() []model.Review {
	return []model.Review{
		NewReview(1, "ساختمان داده", "دکتر احمدی", "۱۸"),
		NewReview(2, "Data Structures", "Dr. Ahmadi", "17.5"),
		NewReview(3, "ریاضی ۱", "دکتر رضایی", "?"),
		NewReview(4, "Operating Systems", "Dr. Karimi", "۱۹٫۵"),
		NewReview(5, "سیستم عامل", "دکتر کریمی", "٢٠"),
		NewReview(6, "Advanced Programming", "Dr. Ahmadi", "18"),
		NewReview(7, "فیزیک ۲", "دکتر نوری", ""),
		NewReview(8, "Database Design", "Dr. Rezaei", "12"),
	}
}

// GenerateReviews returns n reviews with IDs 1..n and cycling scores.
func GenerateReviews(n int) []model.Review {
	reviews := make([]model.Review, n)
	for i := 0; i < n; i++ {
		id := i + 1
		reviews[i] = NewReview(id,
			fmt.Sprintf("Course %d", id),
			fmt.Sprintf("Professor %d", id%7),
			fmt.Sprintf("%d", id%20))
	}
	return reviews
}

// IDs returns the IDs of reviews in order.
func IDs(reviews []model.Review) []int {
	ids := make([]int, len(reviews))
	for i, r := range reviews {
		ids[i] = r.ID
	}
	return ids
}

// WriteDataset writes reviews and a last-update marker into a fresh temporary
// directory and returns both document paths.
func WriteDataset(t *testing.T, reviews []model.Review, lastUpdate string) (dataPath, lastUpdatePath string) {
	t.Helper()
	dir := t.TempDir()
	dataPath = filepath.Join(dir, "data.json")
	lastUpdatePath = filepath.Join(dir, "last_update.json")

	require.NoError(t, store.SaveReviews(dataPath, reviews), "Failed to write dataset")
	if lastUpdate != "" {
		require.NoError(t, store.SaveLastUpdate(lastUpdatePath, lastUpdate), "Failed to write last-update marker")
	}
	return dataPath, lastUpdatePath
}

// NewTestSettings returns valid settings pointing at the given documents, with
// a short growth debounce so tests do not wait long.
func NewTestSettings(t *testing.T, dataPath, lastUpdatePath string) config.Settings {
	t.Helper()
	settings := config.Settings{
		DataFile:       dataPath,
		LastUpdateFile: lastUpdatePath,
		GrowDebounce:   20 * time.Millisecond,
	}
	settings.Ingest.StateFile = filepath.Join(filepath.Dir(dataPath), "ingest_state.gob")
	settings.ApplyDefaults()
	require.Empty(t, settings.Validate())
	return settings
}

// WaitForJobCompletion polls a job until it reaches a terminal status or times out
func WaitForJobCompletion(t *testing.T, jobManager services.JobManager, jobID string, timeout time.Duration) *model.Job {
	t.Helper()
	deadline := time.After(timeout)
	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			t.Fatalf("Job %s did not complete within %v timeout", jobID, timeout)
			return nil
		case <-ticker.C:
			job, err := jobManager.GetJob(jobID)
			require.NoError(t, err, "Failed to get job status")
			if job.Status.IsTerminal() {
				return job
			}
		}
	}
}
