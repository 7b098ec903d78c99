package search

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/coursexp/internal/textnorm"
	testutil "github.com/gcbaptista/coursexp/internal/testing"
	"github.com/gcbaptista/coursexp/model"
)

func newTestService(t *testing.T, reviews []model.Review) *Service {
	t.Helper()
	service, err := NewService(reviews, 8)
	require.NoError(t, err)
	return service
}

func TestFilterSort_Queries(t *testing.T) {
	service := newTestService(t, testutil.SampleReviews())

	tests := []struct {
		name     string
		query    string
		expected []int
	}{
		{name: "empty query browses by recency", query: "", expected: []int{8, 7, 6, 5, 4, 3, 2, 1}},
		{name: "latin professor", query: "Ahmadi", expected: []int{6, 2}},
		{name: "case insensitive", query: "aHMADI", expected: []int{6, 2}},
		{name: "persian professor", query: "احمدی", expected: []int{1}},
		{name: "persian digit scores rank numerically", query: "دکتر", expected: []int{5, 1, 7, 3}},
		{name: "arabic decimal separator", query: "dr.", expected: []int{4, 6, 2, 8}},
		{name: "course substring", query: "s", expected: []int{4, 2, 8}},
		{name: "narrative is not searched", query: "experience", expected: []int{}},
		{name: "no match", query: "zzz", expected: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := service.FilterSort(tt.query)
			assert.Equal(t, tt.expected, testutil.IDs(results))
		})
	}
}

func TestFilterSort_WhitespaceQueryRanksByScore(t *testing.T) {
	service := newTestService(t, testutil.SampleReviews())

	// Every multi-word name contains a space.
	results := service.FilterSort(" ")
	assert.Equal(t, []int{5, 4, 6, 1, 2, 8, 7, 3}, testutil.IDs(results))
}

func TestFilterSort_DefaultOrderIgnoresScores(t *testing.T) {
	reviews := []model.Review{
		testutil.NewReview(1, "Course A", "X", "۴"),
		testutil.NewReview(2, "Course B", "Y", "5"),
		testutil.NewReview(3, "Course C", "Z", "4"),
	}
	service := newTestService(t, reviews)

	assert.Equal(t, []int{3, 2, 1}, testutil.IDs(service.FilterSort("")))

	// A query matching every record switches to the score order.
	assert.Equal(t, []int{2, 3, 1}, testutil.IDs(service.FilterSort("course")))

	// The same two code paths, chosen explicitly.
	assert.Equal(t, []int{3, 2, 1}, testutil.IDs(service.Rank("", SortByRecency)))
	assert.Equal(t, []int{2, 3, 1}, testutil.IDs(service.Rank("", SortByScore)))
}

func TestFilterSort_UnparseableScoresRankAsZero(t *testing.T) {
	reviews := []model.Review{
		testutil.NewReview(1, "Course", "P", "abc"),
		testutil.NewReview(2, "Course", "P", "-1"),
		testutil.NewReview(3, "Course", "P", ""),
		testutil.NewReview(4, "Course", "P", "1e999"),
		testutil.NewReview(5, "Course", "P", "0.5"),
	}
	service := newTestService(t, reviews)

	results := service.FilterSort("course")
	assert.Len(t, results, len(reviews), "No record may be dropped for its score")
	assert.Equal(t, []int{5, 4, 3, 1, 2}, testutil.IDs(results))
}

func TestFilterSort_DecomposedNamesMatchBaseLetters(t *testing.T) {
	service := newTestService(t, []model.Review{
		testutil.NewReview(1, "Course", "\u0627\u0654\u062d\u0645\u062f\u06cc", "15"),
		testutil.NewReview(2, "Course", "Rene\u0301", "12"),
	})

	assert.Equal(t, []int{1}, testutil.IDs(service.FilterSort("\u0627")))
	assert.Equal(t, []int{2}, testutil.IDs(service.FilterSort("rene")))
}

func TestFilterSort_Properties(t *testing.T) {
	dataset := testutil.GenerateReviews(60)
	service := newTestService(t, dataset)

	queries := []string{"", "1", "course 2", "PROFESSOR 3", "5", "missing", " "}
	for _, query := range queries {
		t.Run("query="+query, func(t *testing.T) {
			results := service.FilterSort(query)

			// Filter predicate: exactly the matching records are kept.
			var expected []int
			for _, review := range dataset {
				if Matches(review, query) {
					expected = append(expected, review.ID)
				}
			}
			got := testutil.IDs(results)
			sortedGot := append([]int(nil), got...)
			sort.Ints(sortedGot)
			sort.Ints(expected)
			if len(expected) == 0 {
				assert.Empty(t, sortedGot)
			} else {
				assert.Equal(t, expected, sortedGot, "Results must be a permutation of the matching records")
			}

			// Idempotence.
			assert.Equal(t, got, testutil.IDs(service.FilterSort(query)))

			// Ordering law.
			for i := 0; i+1 < len(results); i++ {
				a, b := results[i], results[i+1]
				if query == "" {
					assert.Greater(t, a.ID, b.ID)
					continue
				}
				scoreA := textnorm.ParseScore(a.ProfessorScore)
				scoreB := textnorm.ParseScore(b.ProfessorScore)
				assert.GreaterOrEqual(t, scoreA, scoreB)
				if scoreA == scoreB {
					assert.Greater(t, a.ID, b.ID)
				}
			}
		})
	}
}

func TestFilterSort_IndependentOfInputOrder(t *testing.T) {
	forward := testutil.SampleReviews()
	backward := make([]model.Review, len(forward))
	for i, review := range forward {
		backward[len(forward)-1-i] = review
	}

	a := newTestService(t, forward)
	b := newTestService(t, backward)
	for _, query := range []string{"", "dr", "دکتر", "a"} {
		assert.Equal(t, testutil.IDs(a.FilterSort(query)), testutil.IDs(b.FilterSort(query)), "query %q", query)
	}
}

func TestFilterSort_CallerOwnsResult(t *testing.T) {
	service := newTestService(t, testutil.SampleReviews())

	first := service.FilterSort("")
	first[0].Course = "mutated"
	first[1] = model.Review{}

	second := service.FilterSort("")
	assert.Equal(t, []int{8, 7, 6, 5, 4, 3, 2, 1}, testutil.IDs(second))
	assert.Equal(t, "Database Design", second[0].Course)
}

func TestNewService_CopiesDataset(t *testing.T) {
	reviews := testutil.SampleReviews()
	service := newTestService(t, reviews)
	reviews[0].Course = "mutated"

	assert.Equal(t, 8, service.Len())
	assert.Empty(t, service.FilterSort("mutated"))
}

func TestNewService_EmptyDataset(t *testing.T) {
	service, err := NewService(nil, 0)
	require.NoError(t, err)

	assert.Empty(t, service.FilterSort(""))
	assert.Empty(t, service.FilterSort("anything"))
}

func TestPolicyFor(t *testing.T) {
	assert.Equal(t, SortByRecency, PolicyFor(""))
	assert.Equal(t, SortByScore, PolicyFor("a"))
	assert.Equal(t, SortByScore, PolicyFor(" "))
	assert.Equal(t, "score", SortByScore.String())
}
