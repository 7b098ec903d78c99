// Package pagination reveals ranked results a page at a time and debounces the
// signals that ask for the next page.
package pagination

import (
	"github.com/gcbaptista/coursexp/model"
)

// DefaultPageSize is both the initial reveal count and the growth step.
const DefaultPageSize = 12

// Controller tracks how many results are revealed. It is not safe for
// concurrent use; the owner serializes access.
type Controller struct {
	pageSize int
	revealed int
}

// NewController returns a controller revealing one page. A pageSize of zero or
// less selects DefaultPageSize.
func NewController(pageSize int) *Controller {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Controller{pageSize: pageSize, revealed: pageSize}
}

// PageSize returns the growth step.
func (c *Controller) PageSize() int {
	return c.pageSize
}

// Revealed returns the current reveal count. It may exceed the result count.
func (c *Controller) Revealed() int {
	return c.revealed
}

// Grow reveals one more page. There is no upper bound here; callers stop
// growing at the end of the list.
func (c *Controller) Grow() {
	c.revealed += c.pageSize
}

// Reset goes back to a single page.
func (c *Controller) Reset() {
	c.revealed = c.pageSize
}

// Page returns the revealed prefix of results. It shares results' backing array.
func (c *Controller) Page(results []model.Review) []model.Review {
	if c.revealed >= len(results) {
		return results
	}
	return results[:c.revealed]
}

// IsEndOfList reports whether every one of total results is revealed.
// An empty result set is not an end of list; see HasNoResults.
func (c *Controller) IsEndOfList(total int) bool {
	return total > 0 && c.revealed >= total
}

// HasNoResults reports whether the result set is empty.
func (c *Controller) HasNoResults(total int) bool {
	return total == 0
}
