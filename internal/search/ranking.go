package search

import (
	"sort"
)

// rankEntries orders entries in place. Both policies end on the id, which is
// unique, so the result never depends on the input order.
func rankEntries(entries []entry, policy SortPolicy) {
	switch policy {
	case SortByScore:
		sort.SliceStable(entries, func(i, j int) bool {
			if entries[i].score != entries[j].score {
				return entries[i].score > entries[j].score
			}
			return entries[i].review.ID > entries[j].review.ID
		})
	default:
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].review.ID > entries[j].review.ID
		})
	}
}
