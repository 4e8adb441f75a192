package pgrepo

import (
	"context"
	"fmt"
	"reflect"

	"github.com/code19m/errx"
	"github.com/uptrace/bun"

	"github.com/clearstack/pkg/pagination"
	"github.com/clearstack/pkg/pg"
	"github.com/clearstack/pkg/repo"
)

// QueryRepo is the bun-backed implementation of repo.QueryRepo.
type QueryRepo[E any, K any] struct {
	provider DBProvider
	cfg      config
}

// NewQueryRepo creates a read-only repository running against the handle the
// provider yields at call time.
func NewQueryRepo[E any, K any](provider DBProvider, opts ...Option) *QueryRepo[E, K] {
	return &QueryRepo[E, K]{
		provider: provider,
		cfg:      newConfig(opts),
	}
}

func (r *QueryRepo[E, K]) GetByID(ctx context.Context, id K) (*E, error) {
	var entities = make([]E, 0)
	sq := r.provider.DB().NewSelect().Model(&entities).
		Where("? = ?", bun.Ident(r.cfg.idColumn), id).
		Limit(1)

	err := sq.Scan(ctx)
	if err != nil {
		return nil, errx.Wrap(err, errx.WithDetails(pg.GetPgErrorDetails(err, sq)))
	}

	if len(entities) == 0 {
		return nil, nil //nolint:nilnil // absence is not an error for key lookups
	}

	return &entities[0], nil
}

// Get applies the filter and includes only; ordering and the page window
// are ignored. Limit 2 is enough to detect ambiguity without a full scan.
func (r *QueryRepo[E, K]) Get(ctx context.Context, q repo.Query) (*E, error) {
	var entities = make([]E, 0)
	sq := r.provider.DB().NewSelect().Model(&entities).Limit(2) //nolint:mnd // limit 2 to check for multiple rows
	sq, err := applyFilter(sq, q.Filter)
	if err != nil {
		return nil, err
	}
	sq = applyIncludes(sq, q.Includes)

	if err := sq.Scan(ctx); err != nil {
		return nil, errx.Wrap(err, errx.WithDetails(pg.GetPgErrorDetails(err, sq)))
	}

	if len(entities) == 0 {
		return nil, nil //nolint:nilnil // zero matches yield no entity and no error
	}

	if len(entities) > 1 {
		return nil, errx.New(
			fmt.Sprintf("multiple %s found", nameOf(new(E))),
			errx.WithCode(repo.CodeMultipleRowsFound),
		)
	}

	return &entities[0], nil
}

func (r *QueryRepo[E, K]) List(ctx context.Context, q repo.Query) ([]E, error) {
	var entities = make([]E, 0)
	sq, err := compose(r.provider.DB().NewSelect().Model(&entities), q)
	if err != nil {
		return nil, err
	}

	if err := sq.Scan(ctx); err != nil {
		return nil, errx.Wrap(err, errx.WithDetails(pg.GetPgErrorDetails(err, sq)))
	}

	return entities, nil
}

// GetPaginated issues a count over the filter and then fetches one page.
// Two round trips; callers that only need the rows should use List.
func (r *QueryRepo[E, K]) GetPaginated(ctx context.Context, q repo.Query) (*pagination.Paginated[E], error) {
	if !q.HasPage() {
		q = q.WithPage(1, pagination.DefaultPageSize)
	}

	total, err := r.Count(ctx, q)
	if err != nil {
		return nil, err
	}

	items, err := r.List(ctx, q)
	if err != nil {
		return nil, err
	}

	return pagination.NewPaginated(total, q.PageSize, q.Page, items), nil
}

func (r *QueryRepo[E, K]) Count(ctx context.Context, q repo.Query) (int, error) {
	sq := r.provider.DB().NewSelect().Model((*E)(nil))
	sq, err := applyFilter(sq, q.Filter)
	if err != nil {
		return 0, err
	}
	sq = applyIncludes(sq, q.Includes)

	count, err := sq.Count(ctx)
	if err != nil {
		return 0, errx.Wrap(err, errx.WithDetails(pg.GetPgErrorDetails(err, sq)))
	}

	return count, nil
}

// Exists reports count > 0. Provider errors are masked to (false, nil)
// unless strict existence is configured.
func (r *QueryRepo[E, K]) Exists(ctx context.Context, q repo.Query) (bool, error) {
	count, err := r.Count(ctx, q)
	if err != nil {
		if r.cfg.settings.StrictExistence {
			return false, err
		}
		return false, nil
	}
	return count > 0, nil
}

// ExistsSingle reports count == 1, with the same masking rule as Exists.
func (r *QueryRepo[E, K]) ExistsSingle(ctx context.Context, q repo.Query) (bool, error) {
	count, err := r.Count(ctx, q)
	if err != nil {
		if r.cfg.settings.StrictExistence {
			return false, err
		}
		return false, nil
	}
	return count == 1, nil
}

// nameOf returns the name of the type of the given value.
// If the value is a pointer, it returns the name of the pointed-to type.
func nameOf(v any) string {
	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Pointer {
		return t.Elem().Name()
	}
	return t.Name()
}
