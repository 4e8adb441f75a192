package pgrepo

import (
	"github.com/uptrace/bun"

	"github.com/clearstack/pkg/repo"
)

// The composition helpers apply the parts of a repo.Query to a bun select in
// the fixed order filter, includes, order, page window. Each helper is a
// no-op when its part is absent.

func applyFilter(sq *bun.SelectQuery, p *repo.Predicate) (*bun.SelectQuery, error) {
	if p == nil {
		return sq, nil
	}

	expr, args, err := renderPredicate(p)
	if err != nil {
		return nil, err
	}
	return sq.Where(expr, args...), nil
}

func applyIncludes(sq *bun.SelectQuery, includes []string) *bun.SelectQuery {
	for _, path := range includes {
		sq = sq.Relation(path)
	}
	return sq
}

func applyOrder(sq *bun.SelectQuery, q repo.Query) *bun.SelectQuery {
	if q.OrderBy == "" {
		return sq
	}
	return sq.OrderExpr("? ?", bun.Ident(q.OrderBy), bun.Safe(string(q.OrderDirection())))
}

func applyWindow(sq *bun.SelectQuery, q repo.Query) *bun.SelectQuery {
	if !q.HasPage() {
		return sq
	}
	return sq.Offset(q.Offset()).Limit(q.PageSize)
}

func compose(sq *bun.SelectQuery, q repo.Query) (*bun.SelectQuery, error) {
	sq, err := applyFilter(sq, q.Filter)
	if err != nil {
		return nil, err
	}
	sq = applyIncludes(sq, q.Includes)
	sq = applyOrder(sq, q)
	sq = applyWindow(sq, q)
	return sq, nil
}
