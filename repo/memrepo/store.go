// Package memrepo implements the repo interfaces over an in-process slice.
//
// It mirrors the bun adapter's semantics (staged writes, duplicate-key
// classification, single-match rules, fixed query composition order) so it
// can stand in for the real store in tests and prototypes. Predicate fields
// name columns the same way the bun adapter does; they are matched to struct
// fields through bun tags or normalized field names.
package memrepo

import (
	"context"
	"fmt"
	"sync"

	"github.com/code19m/errx"

	"github.com/clearstack/pkg/repo"
	"github.com/clearstack/pkg/uow"
)

var _ repo.Repo[struct{ ID int64 }, int64] = (*Store[struct{ ID int64 }, int64])(nil)

// Store is an in-memory read-write repository for entities of type E keyed
// by K. The zero value is not usable; create stores with New.
type Store[E any, K comparable] struct {
	mu       sync.RWMutex
	rows     []E
	staged   []func() error
	nextID   int64
	idField  string
	unique   []string
	settings repo.Settings
}

// Option configures a Store.
type Option func(*storeConfig)

type storeConfig struct {
	idField  string
	unique   []string
	repoOpts []repo.Option
}

// WithIDField overrides the entity field holding the primary key.
// Defaults to "id".
func WithIDField(name string) Option {
	return func(c *storeConfig) {
		c.idField = name
	}
}

// WithUniqueFields declares fields whose values must be unique across the
// store. A staged insert violating them fails the save with the same
// duplicate-key code the bun adapter produces.
func WithUniqueFields(fields ...string) Option {
	return func(c *storeConfig) {
		c.unique = fields
	}
}

// WithRepoOptions forwards adapter-agnostic repo settings, such as
// repo.WithStrictExistence.
func WithRepoOptions(opts ...repo.Option) Option {
	return func(c *storeConfig) {
		c.repoOpts = append(c.repoOpts, opts...)
	}
}

// New creates an empty in-memory store.
func New[E any, K comparable](opts ...Option) *Store[E, K] {
	cfg := storeConfig{idField: "id"}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Store[E, K]{
		idField:  cfg.idField,
		unique:   cfg.unique,
		settings: repo.NewSettings(cfg.repoOpts...),
	}
}

// SaveEntities flushes staged mutations. The staged list is cleared only on
// success, matching the unit-of-work contract of the bun adapter.
func (s *Store[E, K]) SaveEntities(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make([]E, len(s.rows))
	copy(snapshot, s.rows)

	for _, action := range s.staged {
		if err := action(); err != nil {
			s.rows = snapshot // the whole batch applies or none of it does
			return err
		}
	}

	s.staged = s.staged[:0]
	return nil
}

// Pending returns the number of staged mutations.
func (s *Store[E, K]) Pending() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.staged)
}

// Discard drops all staged mutations without applying them.
func (s *Store[E, K]) Discard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staged = s.staged[:0]
}

func (s *Store[E, K]) duplicateOf(candidate E) error {
	for _, field := range s.unique {
		cv, ok := fieldByColumn(candidate, field)
		if !ok {
			continue
		}
		for _, row := range s.rows {
			rv, ok := fieldByColumn(row, field)
			if !ok {
				continue
			}
			if equalValues(rv, cv) {
				return errx.New(
					fmt.Sprintf("duplicate value for unique field %q", field),
					errx.WithCode(uow.CodeDuplicateKey),
					errx.WithType(errx.T_Conflict),
				)
			}
		}
	}
	return nil
}
