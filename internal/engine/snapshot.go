package engine

import (
	"fmt"
	"time"

	"github.com/gcbaptista/coursexp/internal/search"
	"github.com/gcbaptista/coursexp/model"
	"github.com/gcbaptista/coursexp/store"
)

// snapshot is one immutable generation of the dataset and everything derived
// from it. Views keep the snapshot they were opened on.
type snapshot struct {
	store      *store.ReviewStore
	searcher   *search.Service
	lastUpdate string
	loadedAt   time.Time
}

func newSnapshot(reviews []model.Review, lastUpdate string, cacheSize int) (*snapshot, error) {
	reviewStore := store.NewReviewStore(reviews)
	searcher, err := search.NewService(reviewStore.All(), cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create search service: %w", err)
	}
	return &snapshot{
		store:      reviewStore,
		searcher:   searcher,
		lastUpdate: lastUpdate,
		loadedAt:   time.Now(),
	}, nil
}
