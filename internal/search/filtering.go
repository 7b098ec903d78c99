package search

import (
	"strings"

	"github.com/gcbaptista/coursexp/internal/textnorm"
	"github.com/gcbaptista/coursexp/model"
)

// Matches reports whether review is kept for query: the query is empty or its
// folded form occurs in the folded course or professor name.
// Narrative text and scores are never matched.
func Matches(review model.Review, query string) bool {
	if query == "" {
		return true
	}
	needle := textnorm.Fold(query)
	return textnorm.ContainsFolded(review.Course, needle) || textnorm.ContainsFolded(review.Professor, needle)
}

// matches is Matches over precomputed keys.
func (e entry) matches(foldedQuery string) bool {
	if foldedQuery == "" {
		return true
	}
	return strings.Contains(e.foldedCourse, foldedQuery) || strings.Contains(e.foldedProfessor, foldedQuery)
}

// filterEntries keeps the entries matching query, preserving dataset order.
func filterEntries(entries []entry, query string) []entry {
	if query == "" {
		kept := make([]entry, len(entries))
		copy(kept, entries)
		return kept
	}

	foldedQuery := textnorm.Fold(query)
	kept := make([]entry, 0, len(entries))
	for _, e := range entries {
		if e.matches(foldedQuery) {
			kept = append(kept, e)
		}
	}
	return kept
}
