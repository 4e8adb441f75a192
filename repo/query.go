package repo

import "strings"

// Direction is the ordering direction for a query.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// Query describes one read over a repository: filter predicate, navigation
// includes, a single-key ordering and an optional page window.
//
// Adapters always compose the parts in the fixed order
// filter, includes, order, page window; each absent part is a no-op.
type Query struct {
	// Filter is the condition tree; nil means no filter.
	Filter *Predicate
	// OrderBy names the ordering key; empty means store order.
	OrderBy string
	// Direction applies when OrderBy is set; zero value means Ascending.
	Direction Direction
	// Includes lists navigation paths to load alongside the entity.
	Includes []string
	// Page and PageSize form the page window. Both must be positive for the
	// window to apply; otherwise the whole matching set is returned.
	Page     int
	PageSize int
}

// NewQuery returns an empty query matching the whole set.
func NewQuery() Query {
	return Query{}
}

// WithFilter sets the condition tree.
func (q Query) WithFilter(p *Predicate) Query {
	q.Filter = p
	return q
}

// WithOrder sets the ordering key and direction.
func (q Query) WithOrder(field string, dir Direction) Query {
	q.OrderBy = field
	q.Direction = dir
	return q
}

// WithIncludes appends navigation paths from a comma-separated list.
// Blank segments are skipped.
func (q Query) WithIncludes(paths string) Query {
	for _, p := range strings.Split(paths, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		q.Includes = append(q.Includes, p)
	}
	return q
}

// WithPage sets the page window.
func (q Query) WithPage(page, pageSize int) Query {
	q.Page = page
	q.PageSize = pageSize
	return q
}

// HasPage reports whether the page window applies.
func (q Query) HasPage() bool {
	return q.Page > 0 && q.PageSize > 0
}

// OrderDirection returns the effective direction, defaulting to Ascending.
func (q Query) OrderDirection() Direction {
	if q.Direction == Descending {
		return Descending
	}
	return Ascending
}

// Offset returns the zero-based row offset of the page window.
func (q Query) Offset() int {
	if !q.HasPage() {
		return 0
	}
	return (q.Page - 1) * q.PageSize
}
