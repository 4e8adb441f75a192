package memrepo

import (
	"context"
	"fmt"
	"reflect"

	"github.com/code19m/errx"

	"github.com/clearstack/pkg/repo"
)

// Insert stages an insertion. Integer key fields left at zero receive an
// auto-incremented value when the save applies.
func (s *Store[E, K]) Insert(_ context.Context, entity *E) (*E, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.staged = append(s.staged, func() error {
		if err := s.duplicateOf(*entity); err != nil {
			return err
		}
		s.assignKey(entity)
		s.rows = append(s.rows, *entity)
		return nil
	})
	return entity, nil
}

// Update stages a full-row replacement of the entity with the same key.
// No matching row makes the save a no-op, mirroring the bun adapter.
func (s *Store[E, K]) Update(_ context.Context, entity *E) (*E, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.staged = append(s.staged, func() error {
		key, ok := fieldByColumn(*entity, s.idField)
		if !ok {
			return errx.New(
				fmt.Sprintf("entity has no field matching %q", s.idField),
				errx.WithCode(codeInvalidPredicate),
			)
		}
		for i := range s.rows {
			rowKey, ok := fieldByColumn(s.rows[i], s.idField)
			if ok && equalValues(rowKey, key) {
				s.rows[i] = *entity
				break
			}
		}
		return nil
	})
	return entity, nil
}

// HardDelete stages removal of the given entity by key.
func (s *Store[E, K]) HardDelete(ctx context.Context, entity *E) error {
	key, ok := fieldByColumn(*entity, s.idField)
	if !ok {
		return errx.New(
			fmt.Sprintf("entity has no field matching %q", s.idField),
			errx.WithCode(codeInvalidPredicate),
		)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.stageDeleteByKey(key)
	return nil
}

// HardDeleteByID stages removal of the entity with the given key.
func (s *Store[E, K]) HardDeleteByID(_ context.Context, id K) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stageDeleteByKey(id)
	return nil
}

// HardDeleteOne stages removal of the single entity matching the filter.
// The one-match requirement is checked when the save applies.
func (s *Store[E, K]) HardDeleteOne(_ context.Context, filter *repo.Predicate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.staged = append(s.staged, func() error {
		matched, kept, err := s.partition(filter)
		if err != nil {
			return err
		}

		switch {
		case matched == 0:
			return errx.New(
				"no entity found to delete",
				errx.WithCode(repo.CodeObjectNotFound),
				errx.WithType(errx.T_NotFound),
			)
		case matched > 1:
			return errx.New(
				"multiple entities found to delete",
				errx.WithCode(repo.CodeMultipleRowsFound),
			)
		}

		s.rows = kept
		return nil
	})
	return nil
}

// HardDeleteMany stages removal of every entity matching the filter.
func (s *Store[E, K]) HardDeleteMany(_ context.Context, filter *repo.Predicate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.staged = append(s.staged, func() error {
		_, kept, err := s.partition(filter)
		if err != nil {
			return err
		}
		s.rows = kept
		return nil
	})
	return nil
}

// HardDeleteAll stages removal of all given entities by key.
func (s *Store[E, K]) HardDeleteAll(ctx context.Context, entities []E) error {
	for i := range entities {
		if err := s.HardDelete(ctx, &entities[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store[E, K]) stageDeleteByKey(key any) {
	s.staged = append(s.staged, func() error {
		kept := s.rows[:0:0]
		for _, row := range s.rows {
			rowKey, ok := fieldByColumn(row, s.idField)
			if ok && equalValues(rowKey, key) {
				continue
			}
			kept = append(kept, row)
		}
		s.rows = kept
		return nil
	})
}

func (s *Store[E, K]) partition(filter *repo.Predicate) (int, []E, error) {
	matched := 0
	kept := s.rows[:0:0]
	for _, row := range s.rows {
		ok, err := evalPredicate(row, filter)
		if err != nil {
			return 0, nil, err
		}
		if ok {
			matched++
			continue
		}
		kept = append(kept, row)
	}
	return matched, kept, nil
}

// assignKey fills an integer key field that is still zero.
func (s *Store[E, K]) assignKey(entity *E) {
	v := reflect.ValueOf(entity).Elem()
	if v.Kind() != reflect.Struct {
		return
	}

	norm := normalizeName(s.idField)
	t := v.Type()
	for i := range t.NumField() {
		f := t.Field(i)
		if bunColumn(f) != s.idField && normalizeName(f.Name) != norm {
			continue
		}
		fv := v.Field(i)
		if fv.CanInt() && fv.Int() == 0 && fv.CanSet() {
			s.nextID++
			fv.SetInt(s.nextID)
		}
		return
	}
}
