package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"

	testutil "github.com/gcbaptista/coursexp/internal/testing"
)

func TestController_Defaults(t *testing.T) {
	c := NewController(0)
	assert.Equal(t, DefaultPageSize, c.PageSize())
	assert.Equal(t, 12, c.Revealed())
}

func TestController_GrowAndReset(t *testing.T) {
	c := NewController(12)

	c.Grow()
	assert.Equal(t, 24, c.Revealed())
	c.Grow()
	assert.Equal(t, 36, c.Revealed())

	c.Reset()
	assert.Equal(t, 12, c.Revealed())
}

func TestController_Page(t *testing.T) {
	results := testutil.GenerateReviews(30)

	tests := []struct {
		name     string
		grows    int
		results  int
		expected int
	}{
		{name: "first page", grows: 0, results: 30, expected: 12},
		{name: "second page", grows: 1, results: 30, expected: 24},
		{name: "reveal past the end", grows: 2, results: 30, expected: 30},
		{name: "short result set", grows: 0, results: 5, expected: 5},
		{name: "empty result set", grows: 0, results: 0, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController(12)
			for i := 0; i < tt.grows; i++ {
				c.Grow()
			}
			page := c.Page(results[:tt.results])
			assert.Len(t, page, tt.expected)
			assert.Equal(t, testutil.IDs(results[:tt.expected]), testutil.IDs(page), "Page must be a prefix")
		})
	}
}

func TestController_PagesGrowMonotonically(t *testing.T) {
	results := testutil.GenerateReviews(50)
	c := NewController(12)

	previous := c.Page(results)
	for i := 0; i < 6; i++ {
		c.Grow()
		current := c.Page(results)
		assert.GreaterOrEqual(t, len(current), len(previous))
		assert.Equal(t, testutil.IDs(previous), testutil.IDs(current[:len(previous)]))
		previous = current
	}
}

func TestController_TerminalStates(t *testing.T) {
	c := NewController(12)

	assert.True(t, c.HasNoResults(0))
	assert.False(t, c.IsEndOfList(0), "An empty result set is not an end of list")

	assert.True(t, c.IsEndOfList(12))
	assert.True(t, c.IsEndOfList(5))
	assert.False(t, c.IsEndOfList(13))
	assert.False(t, c.HasNoResults(13))

	c.Grow()
	assert.True(t, c.IsEndOfList(13))
}
