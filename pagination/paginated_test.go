package pagination_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clearstack/pkg/pagination"
)

func TestNewPaginated_TotalPages(t *testing.T) {
	tests := []struct {
		name       string
		total      int
		pageSize   int
		wantPages  int
	}{
		{name: "exact multiple", total: 30, pageSize: 10, wantPages: 3},
		{name: "with remainder", total: 25, pageSize: 10, wantPages: 3},
		{name: "single short page", total: 7, pageSize: 10, wantPages: 1},
		{name: "empty set", total: 0, pageSize: 10, wantPages: 0},
		{name: "page size one", total: 4, pageSize: 1, wantPages: 4},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := pagination.NewPaginated[int](tc.total, tc.pageSize, 1, nil)
			assert.Equal(t, tc.wantPages, p.TotalPages)
			assert.Equal(t, 1, p.Start)
			assert.Equal(t, tc.wantPages, p.End)
		})
	}
}

func TestNewPaginated_FirstPage(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}
	p := pagination.NewPaginated(25, 10, 1, items)

	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasNextPage)
	assert.False(t, p.HasPreviousPage)
	assert.True(t, p.IsFirstPage)
	assert.False(t, p.IsLastPage)
	assert.Equal(t, 1, p.From)
	assert.Equal(t, 10, p.To)
}

func TestNewPaginated_LastShortPage(t *testing.T) {
	items := []string{"u", "v", "w", "x", "y"} // 5 items on the last page
	p := pagination.NewPaginated(25, 10, 3, items)

	assert.True(t, p.IsLastPage)
	assert.False(t, p.HasNextPage)
	assert.True(t, p.HasPreviousPage)
	assert.Equal(t, 25, p.To)
	assert.Equal(t, 21, p.From)
	assert.GreaterOrEqual(t, p.From, 1)
}

func TestNewPaginated_ZeroIndexNormalized(t *testing.T) {
	items := []int{1, 2, 3}
	p := pagination.NewPaginated(3, 10, 0, items)

	assert.Equal(t, 1, p.PageIndex)
	assert.True(t, p.IsFirstPage)
	assert.True(t, p.IsLastPage)
	assert.False(t, p.HasPreviousPage)
	assert.False(t, p.HasNextPage)
}

func TestNewPaginated_MiddlePage(t *testing.T) {
	items := make([]int, 10)
	p := pagination.NewPaginated(100, 10, 5, items)

	assert.True(t, p.HasPreviousPage)
	assert.True(t, p.HasNextPage)
	assert.False(t, p.IsFirstPage)
	assert.False(t, p.IsLastPage)
	assert.Equal(t, 41, p.From)
	assert.Equal(t, 50, p.To)
}

func TestNewPaginated_EmptyResult(t *testing.T) {
	p := pagination.NewPaginated[int](0, 10, 1, nil)

	assert.Equal(t, 0, p.TotalItemsCount)
	assert.Equal(t, 0, p.TotalPages)
	assert.False(t, p.HasNextPage)
	assert.False(t, p.HasPreviousPage)
	assert.Empty(t, p.Items)
	assert.GreaterOrEqual(t, p.From, 1)
}

func TestNewPaginated_ItemsWithinPageSize(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	p := pagination.NewPaginated(5, 10, 1, items)
	assert.LessOrEqual(t, len(p.Items), p.PageSize)
}
