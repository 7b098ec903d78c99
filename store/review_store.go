package store

import (
	"errors"
	"log"
	"os"
	"strings"

	internalErrors "github.com/gcbaptista/coursexp/internal/errors"
	"github.com/gcbaptista/coursexp/internal/persistence"
	"github.com/gcbaptista/coursexp/model"
)

// ReviewStore is an immutable snapshot of the dataset document.
// It is never mutated after construction, so it is shared without locking.
type ReviewStore struct {
	reviews []model.Review
	byID    map[int]int // review ID -> position in reviews
	links   map[string]struct{}
	maxID   int
}

// NewReviewStore builds a snapshot from reviews. The slice is copied.
func NewReviewStore(reviews []model.Review) *ReviewStore {
	rs := &ReviewStore{
		reviews: make([]model.Review, len(reviews)),
		byID:    make(map[int]int, len(reviews)),
		links:   make(map[string]struct{}, len(reviews)),
	}
	copy(rs.reviews, reviews)

	for i, review := range rs.reviews {
		if _, dup := rs.byID[review.ID]; dup {
			log.Printf("Warning: duplicate review ID %d in dataset; lookups return the first occurrence", review.ID)
		} else {
			rs.byID[review.ID] = i
		}
		if review.Link != "" {
			rs.links[review.Link] = struct{}{}
		}
		if review.ID > rs.maxID {
			rs.maxID = review.ID
		}
	}
	return rs
}

// All returns the reviews in document order. The returned slice must not be modified.
func (rs *ReviewStore) All() []model.Review {
	return rs.reviews
}

// Len returns the number of reviews in the snapshot.
func (rs *ReviewStore) Len() int {
	return len(rs.reviews)
}

// Get returns the review with the given ID.
func (rs *ReviewStore) Get(id int) (model.Review, error) {
	pos, ok := rs.byID[id]
	if !ok {
		return model.Review{}, internalErrors.NewReviewNotFoundError(id)
	}
	return rs.reviews[pos], nil
}

// MaxID returns the highest review ID, or 0 for an empty snapshot.
func (rs *ReviewStore) MaxID() int {
	return rs.maxID
}

// HasLink reports whether a review already points at link.
func (rs *ReviewStore) HasLink(link string) bool {
	_, ok := rs.links[link]
	return ok
}

// LoadReviews reads the dataset document strictly: a missing file yields an
// empty dataset, but an unreadable or malformed file is an error.
func LoadReviews(path string) ([]model.Review, error) {
	var reviews []model.Review
	if err := persistence.LoadJSON(path, &reviews); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.Review{}, nil
		}
		return nil, err
	}
	if reviews == nil {
		reviews = []model.Review{}
	}
	return reviews, nil
}

// LoadReviewsOrEmpty reads the dataset document and degrades every failure to
// an empty dataset, which the catalogue reports as "no results".
func LoadReviewsOrEmpty(path string) []model.Review {
	reviews, err := LoadReviews(path)
	if err != nil {
		log.Printf("Warning: Failed to load dataset from %s: %v. Proceeding with an empty dataset.", path, err)
		return []model.Review{}
	}
	return reviews
}

// LoadLastUpdate returns the display string of the last-update marker, or the
// placeholder when the document is missing, malformed or blank.
func LoadLastUpdate(path string) string {
	var marker model.LastUpdate
	if err := persistence.LoadJSON(path, &marker); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("Warning: Failed to load last-update marker from %s: %v", path, err)
		}
		return model.LastUpdatePlaceholder
	}
	if strings.TrimSpace(marker.LastUpdate) == "" {
		return model.LastUpdatePlaceholder
	}
	return marker.LastUpdate
}

// SaveReviews writes the dataset document.
func SaveReviews(path string, reviews []model.Review) error {
	if reviews == nil {
		reviews = []model.Review{}
	}
	return persistence.SaveJSON(path, reviews)
}

// SaveLastUpdate writes the last-update marker document.
func SaveLastUpdate(path, display string) error {
	return persistence.SaveJSON(path, model.LastUpdate{LastUpdate: display})
}
