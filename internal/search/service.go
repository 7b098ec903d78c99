package search

import (
	"fmt"
	"slices"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/gcbaptista/coursexp/model"
)

// DefaultCacheSize is the number of distinct queries memoized when the caller
// does not choose one.
const DefaultCacheSize = 128

// Service filters and ranks one immutable dataset snapshot.
// It fulfills the services.Searcher interface and is safe for concurrent use.
type Service struct {
	entries []entry
	cache   *lru.Cache[string, []model.Review]
}

// NewService creates a search Service over a copy of reviews.
// A cacheSize of zero or less selects DefaultCacheSize.
func NewService(reviews []model.Review, cacheSize int) (*Service, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, []model.Review](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create result cache: %w", err)
	}

	entries := make([]entry, len(reviews))
	for i, review := range reviews {
		entries[i] = newEntry(review)
	}

	return &Service{
		entries: entries,
		cache:   cache,
	}, nil
}

// Len returns the size of the dataset snapshot.
func (s *Service) Len() int {
	return len(s.entries)
}

// FilterSort returns the records kept by query in ranked order.
// The result is a pure function of the snapshot and the query. The returned
// slice belongs to the caller.
func (s *Service) FilterSort(query string) []model.Review {
	if cached, ok := s.cache.Get(query); ok {
		return slices.Clone(cached)
	}

	results := s.compute(query, PolicyFor(query))
	s.cache.Add(query, results)
	return slices.Clone(results)
}

// Rank filters by query but applies the given policy instead of the one the
// query implies. It is not memoized.
func (s *Service) Rank(query string, policy SortPolicy) []model.Review {
	return s.compute(query, policy)
}

func (s *Service) compute(query string, policy SortPolicy) []model.Review {
	kept := filterEntries(s.entries, query)
	rankEntries(kept, policy)

	results := make([]model.Review, len(kept))
	for i, e := range kept {
		results[i] = e.review
	}
	return results
}
