package memrepo

import (
	"context"
	"fmt"
	"sort"

	"github.com/code19m/errx"
	"github.com/spf13/cast"

	"github.com/clearstack/pkg/pagination"
	"github.com/clearstack/pkg/repo"
)

// GetByID retrieves an entity by key. Absent keys yield (nil, nil).
func (s *Store[E, K]) GetByID(_ context.Context, id K) (*E, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.rows {
		if s.keyEquals(s.rows[i], id) {
			entity := s.rows[i]
			return &entity, nil
		}
	}
	return nil, nil //nolint:nilnil // absence is not an error for key lookups
}

// Get retrieves the single entity matching the filter. Includes are a no-op
// here: related data lives on the entity values themselves.
func (s *Store[E, K]) Get(_ context.Context, q repo.Query) (*E, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches, err := s.filtered(q.Filter)
	if err != nil {
		return nil, err
	}

	switch len(matches) {
	case 0:
		return nil, nil //nolint:nilnil // zero matches yield no entity and no error
	case 1:
		entity := matches[0]
		return &entity, nil
	default:
		return nil, errx.New(
			"multiple entities found",
			errx.WithCode(repo.CodeMultipleRowsFound),
		)
	}
}

// List returns all matches composed in the fixed order
// filter, includes, order, page window.
func (s *Store[E, K]) List(_ context.Context, q repo.Query) ([]E, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches, err := s.filtered(q.Filter)
	if err != nil {
		return nil, err
	}

	if q.OrderBy != "" {
		if err := orderBy(matches, q.OrderBy, q.OrderDirection()); err != nil {
			return nil, err
		}
	}

	if q.HasPage() {
		matches = window(matches, q.Offset(), q.PageSize)
	}

	return matches, nil
}

// GetPaginated counts the filtered set and slices out one page.
func (s *Store[E, K]) GetPaginated(ctx context.Context, q repo.Query) (*pagination.Paginated[E], error) {
	if !q.HasPage() {
		q = q.WithPage(1, pagination.DefaultPageSize)
	}

	total, err := s.Count(ctx, q)
	if err != nil {
		return nil, err
	}

	items, err := s.List(ctx, q)
	if err != nil {
		return nil, err
	}

	return pagination.NewPaginated(total, q.PageSize, q.Page, items), nil
}

// Count returns the number of entities matching the filter.
func (s *Store[E, K]) Count(_ context.Context, q repo.Query) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches, err := s.filtered(q.Filter)
	if err != nil {
		return 0, err
	}
	return len(matches), nil
}

// Exists reports count > 0, masking evaluation errors to (false, nil)
// unless strict existence is configured.
func (s *Store[E, K]) Exists(ctx context.Context, q repo.Query) (bool, error) {
	count, err := s.Count(ctx, q)
	if err != nil {
		if s.settings.StrictExistence {
			return false, err
		}
		return false, nil
	}
	return count > 0, nil
}

// ExistsSingle reports count == 1, with the same masking rule as Exists.
func (s *Store[E, K]) ExistsSingle(ctx context.Context, q repo.Query) (bool, error) {
	count, err := s.Count(ctx, q)
	if err != nil {
		if s.settings.StrictExistence {
			return false, err
		}
		return false, nil
	}
	return count == 1, nil
}

func (s *Store[E, K]) filtered(p *repo.Predicate) ([]E, error) {
	matches := make([]E, 0, len(s.rows))
	for _, row := range s.rows {
		ok, err := evalPredicate(row, p)
		if err != nil {
			return nil, err
		}
		if ok {
			matches = append(matches, row)
		}
	}
	return matches, nil
}

func (s *Store[E, K]) keyEquals(entity E, id K) bool {
	value, ok := fieldByColumn(entity, s.idField)
	if !ok {
		return false
	}
	return equalValues(value, id)
}

func orderBy[E any](rows []E, field string, dir repo.Direction) error {
	if len(rows) == 0 {
		return nil
	}

	if _, ok := fieldByColumn(rows[0], field); !ok {
		return errx.New(
			fmt.Sprintf("entity has no field matching %q", field),
			errx.WithCode(codeInvalidPredicate),
		)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, _ := fieldByColumn(rows[i], field)
		b, _ := fieldByColumn(rows[j], field)
		less := lessValues(a, b)
		if dir == repo.Descending {
			return lessValues(b, a)
		}
		return less
	})
	return nil
}

func lessValues(a, b any) bool {
	af, aerr := cast.ToFloat64E(a)
	bf, berr := cast.ToFloat64E(b)
	if aerr == nil && berr == nil {
		return af < bf
	}
	return cast.ToString(a) < cast.ToString(b)
}

func window[E any](rows []E, offset, limit int) []E {
	if offset >= len(rows) {
		return []E{}
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}
