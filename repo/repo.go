// Package repo defines a portable, store-agnostic query description and
// generic repository interfaces for data access patterns.
//
// A Query carries a filter predicate tree, navigation includes, a single-key
// ordering and an optional page window. Adapters (repo/pgrepo, repo/memrepo)
// interpret the same Query with identical semantics, so business code and
// tests can swap storage backends without changing call sites.
package repo

import (
	"context"

	"github.com/clearstack/pkg/pagination"
)

// Error codes shared by all repository adapters.
const (
	CodeMultipleRowsFound = "MULTIPLE_ROWS_FOUND"
	CodeObjectNotFound    = "OBJECT_NOT_FOUND"
)

// QueryRepo defines generic read-only access to entities of type E keyed by K.
type QueryRepo[E any, K any] interface {
	// GetByID retrieves an entity by its primary key.
	// Returns (nil, nil) when no entity has the given key.
	GetByID(ctx context.Context, id K) (*E, error)
	// Get retrieves the single entity matching the query filter.
	// Returns (nil, nil) on zero matches and a MULTIPLE_ROWS_FOUND error
	// on two or more. Ordering and the page window are ignored.
	Get(ctx context.Context, q Query) (*E, error)
	// List returns all matching entities, composed in the fixed order
	// filter, includes, order, page window.
	List(ctx context.Context, q Query) ([]E, error)
	// GetPaginated runs a count over the filter and then fetches one page.
	// Note that this issues two round trips to the store.
	GetPaginated(ctx context.Context, q Query) (*pagination.Paginated[E], error)
	// Count returns the number of entities matching the filter.
	Count(ctx context.Context, q Query) (int, error)
	// Exists reports whether at least one entity matches the filter.
	Exists(ctx context.Context, q Query) (bool, error)
	// ExistsSingle reports whether exactly one entity matches the filter.
	ExistsSingle(ctx context.Context, q Query) (bool, error)
}

// CommandRepo defines generic mutation staging for entities of type E keyed
// by K. Mutations are staged through a unit of work and reach the store only
// when the unit of work saves.
type CommandRepo[E any, K any] interface {
	// Insert stages an insertion and returns the same instance.
	Insert(ctx context.Context, entity *E) (*E, error)
	// Update stages a full-row update (every column written, not a patch).
	Update(ctx context.Context, entity *E) (*E, error)
	// HardDelete stages removal of the given entity by primary key.
	HardDelete(ctx context.Context, entity *E) error
	// HardDeleteByID stages removal of the entity with the given key.
	HardDeleteByID(ctx context.Context, id K) error
	// HardDeleteOne stages removal of the single entity matching the filter.
	// At save time, zero matches fail with OBJECT_NOT_FOUND and two or more
	// with MULTIPLE_ROWS_FOUND.
	HardDeleteOne(ctx context.Context, filter *Predicate) error
	// HardDeleteMany stages removal of every entity matching the filter.
	HardDeleteMany(ctx context.Context, filter *Predicate) error
	// HardDeleteAll stages removal of all given entities by primary key.
	HardDeleteAll(ctx context.Context, entities []E) error
}

// Repo combines read and write access over one entity type.
type Repo[E any, K any] interface {
	QueryRepo[E, K]
	CommandRepo[E, K]
}
