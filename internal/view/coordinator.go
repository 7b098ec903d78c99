// Package view holds the browsing state of one catalogue session: the query,
// how many of its results are revealed and which record is selected.
package view

import (
	"sync"
	"time"

	"github.com/gcbaptista/coursexp/internal/pagination"
	"github.com/gcbaptista/coursexp/model"
	"github.com/gcbaptista/coursexp/services"
)

// ScrollLock tells the surface whether background scrolling is allowed.
type ScrollLock int

const (
	Unlocked ScrollLock = iota
	Locked
)

func (l ScrollLock) String() string {
	if l == Locked {
		return "locked"
	}
	return "unlocked"
}

// Snapshot is a consistent copy of the observable state.
type Snapshot struct {
	Query       string
	Page        []model.Review
	Total       int
	Revealed    int
	EndOfList   bool
	NoResults   bool
	Selection   *model.Review
	Lock        ScrollLock
	GrowPending bool
}

// Options configures a Coordinator.
type Options struct {
	PageSize     int
	GrowDebounce time.Duration
	// OnGrow is called with the new state after a debounced growth applied.
	// It runs on the timer goroutine without the Coordinator's lock held.
	OnGrow func(Snapshot)
}

// Coordinator serializes every state change behind one mutex, so the results
// and the reveal count always belong to the same query.
type Coordinator struct {
	mu        sync.Mutex
	searcher  services.Searcher
	query     string
	results   []model.Review
	pages     *pagination.Controller
	debouncer *pagination.Debouncer
	selection *model.Review
	closed    bool
	// epoch invalidates growth timers that fired before a query change or Close.
	epoch  uint64
	onGrow func(Snapshot)
}

// NewCoordinator starts a session with the empty query.
func NewCoordinator(searcher services.Searcher, opts Options) *Coordinator {
	return &Coordinator{
		searcher:  searcher,
		results:   searcher.FilterSort(""),
		pages:     pagination.NewController(opts.PageSize),
		debouncer: pagination.NewDebouncer(opts.GrowDebounce),
		onGrow:    opts.OnGrow,
	}
}

// SetQuery replaces the query. Results are recomputed, the reveal count goes
// back to one page and a pending growth is dropped. The same text again is
// not a change.
func (c *Coordinator) SetQuery(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || text == c.query {
		return
	}
	c.query = text
	c.results = c.searcher.FilterSort(text)
	c.pages.Reset()
	c.debouncer.Cancel()
	c.epoch++
}

// Query returns the current query text.
func (c *Coordinator) Query() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// CurrentResults returns the revealed prefix of the ranked results.
func (c *Coordinator) CurrentResults() []model.Review {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pageLocked()
}

// TotalMatchCount returns the number of records the query keeps.
func (c *Coordinator) TotalMatchCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.results)
}

// RevealCount returns the reveal count, which may exceed the match count.
func (c *Coordinator) RevealCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pages.Revealed()
}

func (c *Coordinator) IsEndOfList() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pages.IsEndOfList(len(c.results))
}

func (c *Coordinator) HasNoResults() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pages.HasNoResults(len(c.results))
}

// Grow reveals the next page right away. It reports whether anything changed;
// growth stops once every result is revealed.
func (c *Coordinator) Grow() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}
	return c.growLocked()
}

// NearEnd is the proximity signal: the surface is close to the last revealed
// record. The next page is revealed after the debounce delay. Signals arriving
// while a growth is pending are coalesced. It reports whether a growth was
// scheduled.
func (c *Coordinator) NearEnd() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.pages.Revealed() >= len(c.results) {
		return false
	}
	epoch := c.epoch
	return c.debouncer.Schedule(func() { c.applyGrowth(epoch) })
}

func (c *Coordinator) applyGrowth(epoch uint64) {
	c.mu.Lock()
	if c.closed || epoch != c.epoch || !c.growLocked() {
		c.mu.Unlock()
		return
	}
	snapshot := c.snapshotLocked()
	onGrow := c.onGrow
	c.mu.Unlock()

	if onGrow != nil {
		onGrow(snapshot)
	}
}

// Select opens review in the detail view; nil closes it. The selection is kept
// across query changes.
func (c *Coordinator) Select(review *model.Review) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	if review == nil {
		c.selection = nil
		return
	}
	selected := *review
	c.selection = &selected
}

// CurrentSelection returns a copy of the selected record, or nil.
func (c *Coordinator) CurrentSelection() *model.Review {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectionLocked()
}

// ScrollLock is Locked exactly while a record is selected.
func (c *Coordinator) ScrollLock() ScrollLock {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lockLocked()
}

// Snapshot returns every observable value at once.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Close drops any pending growth and ignores every later signal.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.epoch++
	c.debouncer.Close()
}

func (c *Coordinator) growLocked() bool {
	if c.pages.Revealed() >= len(c.results) {
		return false
	}
	c.pages.Grow()
	return true
}

func (c *Coordinator) pageLocked() []model.Review {
	page := c.pages.Page(c.results)
	out := make([]model.Review, len(page))
	copy(out, page)
	return out
}

func (c *Coordinator) selectionLocked() *model.Review {
	if c.selection == nil {
		return nil
	}
	selected := *c.selection
	return &selected
}

func (c *Coordinator) lockLocked() ScrollLock {
	if c.selection != nil {
		return Locked
	}
	return Unlocked
}

func (c *Coordinator) snapshotLocked() Snapshot {
	total := len(c.results)
	return Snapshot{
		Query:       c.query,
		Page:        c.pageLocked(),
		Total:       total,
		Revealed:    c.pages.Revealed(),
		EndOfList:   c.pages.IsEndOfList(total),
		NoResults:   c.pages.HasNoResults(total),
		Selection:   c.selectionLocked(),
		Lock:        c.lockLocked(),
		GrowPending: c.debouncer.Pending(),
	}
}
