// Package uow implements a unit of work over a bun database: mutations are
// staged as actions and flushed to the store in a single transaction, with
// duplicate-key failures classified into a stable error code.
//
// A UnitOfWork additionally manages at most one explicit transaction at a
// time, so callers can group several saves with reads in between. It is not
// safe for concurrent use; per-request scoping is the synchronization model.
package uow

import (
	"context"

	"github.com/code19m/errx"
	"github.com/uptrace/bun"

	"github.com/clearstack/pkg/pg"
)

const (
	// CodeDuplicateKey classifies primary-key and unique-constraint
	// violations raised while saving staged mutations.
	CodeDuplicateKey = "DUPLICATE_KEY"

	codeNoActiveTx = "NO_ACTIVE_TRANSACTION"
	codeForeignTx  = "FOREIGN_TRANSACTION_HANDLE"
)

// Action is one staged mutation. It runs against the transaction that the
// unit of work opens (or the explicit one, when active) at save time.
type Action func(ctx context.Context, idb bun.IDB) error

// UnitOfWork stages mutations and flushes them in one transaction.
type UnitOfWork struct {
	db       *bun.DB
	actions  []Action
	tx       *bun.Tx
	detector func(error) bool
}

// New creates a unit of work over the given database.
// The default duplicate-key detector recognizes PostgreSQL unique
// constraint violations; override it with WithConflictDetector.
func New(db *bun.DB, opts ...Option) *UnitOfWork {
	u := &UnitOfWork{
		db:       db,
		detector: pg.IsConflict,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Register stages an action. Nothing reaches the store until SaveEntities
// or Commit runs.
func (u *UnitOfWork) Register(action Action) {
	u.actions = append(u.actions, action)
}

// Pending returns the number of staged actions.
func (u *UnitOfWork) Pending() int {
	return len(u.actions)
}

// DB returns the handle reads and staged actions should go through:
// the explicit transaction when one is open, the root database otherwise.
func (u *UnitOfWork) DB() bun.IDB {
	if u.tx != nil {
		return *u.tx
	}
	return u.db
}

// SaveEntities flushes all staged actions.
//
// With no explicit transaction open, the actions run in one new transaction.
// With an explicit transaction open, they run inside it without committing.
// A duplicate-key failure is re-raised with code DUPLICATE_KEY and type
// conflict, keeping the provider error as cause; other failures are wrapped
// unclassified. The staged list is cleared only on success.
func (u *UnitOfWork) SaveEntities(ctx context.Context) error {
	if len(u.actions) == 0 {
		return nil
	}

	var err error
	if u.tx != nil {
		err = u.runActions(ctx, *u.tx)
	} else {
		err = u.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			return u.runActions(ctx, tx)
		})
	}
	if err != nil {
		return u.classify(err)
	}

	u.actions = u.actions[:0]
	return nil
}

// Begin opens the explicit transaction. If one is already open, Begin is a
// no-op returning (nil, nil); the caller keeps using the original handle.
func (u *UnitOfWork) Begin(ctx context.Context) (*bun.Tx, error) {
	if u.tx != nil {
		return nil, nil //nolint:nilnil // open transaction keeps its original handle
	}

	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	u.tx = &tx
	return u.tx, nil
}

// Commit flushes staged actions inside the explicit transaction and commits
// it. The handle must be the one Begin returned; a foreign handle fails
// without touching the open transaction. On flush or commit failure the
// transaction is rolled back. The handle is cleared in every outcome except
// the foreign-handle error.
func (u *UnitOfWork) Commit(ctx context.Context, tx *bun.Tx) error {
	if u.tx == nil {
		return errx.New(
			"commit called with no active transaction",
			errx.WithCode(codeNoActiveTx),
		)
	}
	if tx != u.tx {
		return errx.New(
			"commit called with a transaction handle this unit of work did not open",
			errx.WithCode(codeForeignTx),
		)
	}

	current := u.tx
	defer func() { u.tx = nil }()

	if err := u.runActions(ctx, *current); err != nil {
		_ = current.Rollback()
		return u.classify(err)
	}

	if err := current.Commit(); err != nil {
		_ = current.Rollback()
		return errx.Wrap(err)
	}

	u.actions = u.actions[:0]
	return nil
}

// Rollback aborts the explicit transaction if one is open and discards the
// staged actions. It is safe to call with no open transaction.
func (u *UnitOfWork) Rollback(_ context.Context) error {
	u.actions = u.actions[:0]

	if u.tx == nil {
		return nil
	}

	current := u.tx
	u.tx = nil

	if err := current.Rollback(); err != nil {
		return errx.Wrap(err)
	}
	return nil
}

// HasActiveTransaction reports whether the explicit transaction is open.
func (u *UnitOfWork) HasActiveTransaction() bool {
	return u.tx != nil
}

func (u *UnitOfWork) runActions(ctx context.Context, idb bun.IDB) error {
	for _, action := range u.actions {
		if err := action(ctx, idb); err != nil {
			return err
		}
	}
	return nil
}

func (u *UnitOfWork) classify(err error) error {
	if u.detector(err) {
		return errx.Wrap(err,
			errx.WithCode(CodeDuplicateKey),
			errx.WithType(errx.T_Conflict),
			errx.WithDetails(pg.GetPgErrorDetails(err, nil)),
		)
	}
	return errx.Wrap(err, errx.WithDetails(pg.GetPgErrorDetails(err, nil)))
}
