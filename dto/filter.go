package dto

import (
	"github.com/clearstack/pkg/pagination"
	"github.com/clearstack/pkg/repo"
	"github.com/clearstack/pkg/sorter"
)

// FilterBase carries the page window and sort string of a list request.
// Embed it in concrete filter DTOs so query parameters bind automatically.
type FilterBase struct {
	pagination.Request
	// Sort is a comma-separated "field:direction" list, e.g. "name:asc".
	Sort string `query:"sort" json:"sort"`
}

// ToQuery translates the filter into a repository query: the page window is
// normalized first, and the first allowed sort option becomes the ordering.
// Fields not in allowedSortFields are silently dropped.
func (f FilterBase) ToQuery(allowedSortFields ...string) repo.Query {
	f.Normalize()

	q := repo.NewQuery().WithPage(f.PageNumber, f.PageSize)

	if opt := sorter.MakeFromStr(f.Sort, allowedSortFields...).First(); opt != nil {
		dir := repo.Ascending
		if opt.D == sorter.Desc {
			dir = repo.Descending
		}
		q = q.WithOrder(opt.F, dir)
	}

	return q
}
