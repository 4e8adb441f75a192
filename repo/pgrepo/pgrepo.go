// Package pgrepo implements the repo interfaces on top of the bun ORM.
//
// Reads go through a DBProvider so they observe an open explicit transaction
// when one exists; writes are staged through a unit of work and reach the
// database only when it saves.
package pgrepo

import (
	"github.com/uptrace/bun"

	"github.com/clearstack/pkg/repo"
)

const defaultIDColumn = "id"

// DBProvider yields the handle queries should run against. uow.UnitOfWork
// implements it; StaticDB adapts a fixed handle for read-only use.
type DBProvider interface {
	DB() bun.IDB
}

type staticProvider struct {
	idb bun.IDB
}

func (p staticProvider) DB() bun.IDB { return p.idb }

// StaticDB wraps a fixed bun handle as a DBProvider.
func StaticDB(idb bun.IDB) DBProvider {
	return staticProvider{idb: idb}
}

type config struct {
	idColumn string
	settings repo.Settings
}

// Option configures the bun-backed repositories.
type Option func(*config)

// WithIDColumn overrides the primary key column used by GetByID and
// HardDeleteByID. Defaults to "id".
func WithIDColumn(column string) Option {
	return func(c *config) {
		c.idColumn = column
	}
}

// WithRepoOptions forwards adapter-agnostic repo settings, such as
// repo.WithStrictExistence.
func WithRepoOptions(opts ...repo.Option) Option {
	return func(c *config) {
		for _, opt := range opts {
			opt(&c.settings)
		}
	}
}

func newConfig(opts []Option) config {
	c := config{idColumn: defaultIDColumn}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Repo combines the bun-backed query and command repositories over one
// entity type, satisfying repo.Repo.
type Repo[E any, K any] struct {
	*QueryRepo[E, K]
	*CommandRepo[E, K]
}

// New builds a full read-write repository staging writes through u.
func New[E any, K any](u UoW, opts ...Option) *Repo[E, K] {
	return &Repo[E, K]{
		QueryRepo:   NewQueryRepo[E, K](u, opts...),
		CommandRepo: NewCommandRepo[E, K](u, opts...),
	}
}
