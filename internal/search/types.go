package search

import (
	"github.com/gcbaptista/coursexp/internal/textnorm"
	"github.com/gcbaptista/coursexp/model"
)

// SortPolicy names the order applied to the records a query keeps.
type SortPolicy int

const (
	// SortByRecency orders by id descending. It is the browse order of an empty query.
	SortByRecency SortPolicy = iota
	// SortByScore orders by parsed professor score descending, then id descending.
	SortByScore
)

// String returns the policy name used in logs.
func (p SortPolicy) String() string {
	switch p {
	case SortByRecency:
		return "recency"
	case SortByScore:
		return "score"
	}
	return "unknown"
}

// PolicyFor returns the order a query is ranked with.
// Only the empty query browses by recency; any other text, whitespace
// included, ranks by score.
func PolicyFor(query string) SortPolicy {
	if query == "" {
		return SortByRecency
	}
	return SortByScore
}

// entry caches the derived keys of one record so filtering and ranking never
// recompute them.
type entry struct {
	review          model.Review
	foldedCourse    string
	foldedProfessor string
	score           float64
}

func newEntry(review model.Review) entry {
	return entry{
		review:          review,
		foldedCourse:    textnorm.Fold(review.Course),
		foldedProfessor: textnorm.Fold(review.Professor),
		score:           textnorm.ParseScore(review.ProfessorScore),
	}
}
