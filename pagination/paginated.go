// Package pagination provides page-window request normalization and a generic
// paginated result snapshot for list endpoints.
package pagination

// Paginated is a read-only snapshot describing one page of a larger result set.
//
// It is constructed once per query from a total count and a materialized page
// slice and must not be mutated afterwards. Items holds only the current page;
// len(Items) is expected to be <= PageSize.
type Paginated[E any] struct {
	// TotalItemsCount is the total number of rows matching the filter,
	// before pagination.
	TotalItemsCount int `json:"total_items_count"`
	// PageSize is the number of rows per page.
	PageSize int `json:"page_size"`
	// PageIndex is the 1-based index of the current page. A raw index of 0
	// supplied by the caller is normalized to 1.
	PageIndex int `json:"page_index"`
	// TotalPages is ceil(TotalItemsCount / PageSize).
	TotalPages int `json:"total_pages"`

	// Start and End are the first and last page numbers of the pager window.
	Start int `json:"start"`
	End   int `json:"end"`

	// From and To are the 1-based inclusive bounds of this page's items
	// within the full result set. From is never less than 1.
	From int `json:"from"`
	To   int `json:"to"`

	HasPreviousPage bool `json:"has_previous_page"`
	HasNextPage     bool `json:"has_next_page"`
	IsFirstPage     bool `json:"is_first_page"`
	IsLastPage      bool `json:"is_last_page"`

	// Items is the ordered sequence of items for this page only.
	Items []E `json:"items"`
}

// NewPaginated builds the page metadata for one page of a result set.
//
// totalItemsCount is the number of rows matching the filter before pagination,
// pageSize must be positive, and pageIndex is 1-based (0 is normalized to 1).
func NewPaginated[E any](totalItemsCount, pageSize, pageIndex int, items []E) *Paginated[E] {
	rawIndex := pageIndex
	if pageIndex == 0 {
		pageIndex = 1
	}

	totalPages := totalItemsCount / pageSize
	if totalItemsCount%pageSize > 0 {
		totalPages++
	}

	to := pageIndex * pageSize
	if to > totalItemsCount {
		to = totalItemsCount
	}
	from := to - len(items) + 1
	if from < 1 {
		from = 1
	}

	return &Paginated[E]{
		TotalItemsCount: totalItemsCount,
		PageSize:        pageSize,
		PageIndex:       pageIndex,
		TotalPages:      totalPages,
		Start:           1,
		End:             totalPages,
		From:            from,
		To:              to,
		HasPreviousPage: pageIndex > 1,
		HasNextPage:     pageIndex < totalPages,
		IsFirstPage:     rawIndex == 0 || rawIndex == 1,
		IsLastPage:      pageIndex == totalPages,
		Items:           items,
	}
}
