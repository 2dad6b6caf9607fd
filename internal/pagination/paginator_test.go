package pagination

import (
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestPaginate_PageCountAndLastPageSize(t *testing.T) {
	for _, perPage := range []int{1, 2, 3, 7, 10} {
		for n := 1; n <= 25; n++ {
			t.Run(fmt.Sprintf("n=%d/per=%d", n, perPage), func(t *testing.T) {
				items := seq(n)
				first := Paginate(items, perPage, "1")
				wantPages := (n + perPage - 1) / perPage
				assert.Equal(t, wantPages, first.TotalPages)

				last := Paginate(items, perPage, strconv.Itoa(wantPages))
				wantLast := n % perPage
				if wantLast == 0 {
					wantLast = perPage
				}
				assert.Len(t, last.Items, wantLast)
				assert.False(t, last.HasNext)
			})
		}
	}
}

func TestPaginate_ClampsOutOfRange(t *testing.T) {
	items := seq(13)

	for _, raw := range []string{"0", "-1", "-100"} {
		p := Paginate(items, 10, raw)
		assert.Equal(t, 1, p.Number, "page %q", raw)
		assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, p.Items)
		assert.False(t, p.HasPrevious)
		assert.True(t, p.HasNext)
	}

	p := Paginate(items, 10, "99")
	assert.Equal(t, 2, p.Number)
	assert.Equal(t, []int{10, 11, 12}, p.Items)
}

func TestPaginate_InvalidPageDefaultsToFirst(t *testing.T) {
	items := seq(5)
	for _, raw := range []string{"", "abc", "1.5", " "} {
		p := Paginate(items, 2, raw)
		assert.Equal(t, 1, p.Number, "page %q", raw)
	}
}

func TestPaginate_ExampleScenarios(t *testing.T) {
	items := seq(13)

	index := Paginate(items, 10, "2")
	assert.Len(t, index.Items, 3)
	assert.Equal(t, 1, index.PreviousNumber)

	profile := Paginate(items, 2, "7")
	require.Len(t, profile.Items, 1)
	assert.Equal(t, 12, profile.Items[0])
	assert.Equal(t, 7, profile.TotalPages)
}

func TestPaginate_EmptyListingHasOnePage(t *testing.T) {
	p := Paginate([]string{}, 10, "3")
	assert.Equal(t, 1, p.Number)
	assert.Equal(t, 1, p.TotalPages)
	assert.Empty(t, p.Items)
	assert.NotNil(t, p.Items)
}

func TestPaginate_DoesNotShareSource(t *testing.T) {
	items := seq(4)
	p := Paginate(items, 2, "1")
	p.Items[0] = 100
	assert.Equal(t, 0, items[0])
}

func TestNewWindow_OffsetAndLimit(t *testing.T) {
	w := NewWindow(13, 2, "7")
	assert.Equal(t, 12, w.Offset)
	assert.Equal(t, 1, w.Limit)

	w = NewWindow(13, 0, "2")
	assert.Equal(t, 1, w.PerPage)
	assert.Equal(t, 1, w.Offset)
}
