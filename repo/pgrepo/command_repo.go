package pgrepo

import (
	"context"
	"fmt"

	"github.com/code19m/errx"
	"github.com/uptrace/bun"

	"github.com/clearstack/pkg/repo"
	"github.com/clearstack/pkg/uow"
)

// UoW is the slice of the unit of work the command repository depends on:
// a handle for reads inside staged actions and action registration.
type UoW interface {
	DBProvider
	Register(action uow.Action)
}

// CommandRepo is the bun-backed implementation of repo.CommandRepo.
// Every method only stages work; the store changes when the unit of work
// saves or commits.
type CommandRepo[E any, K any] struct {
	u   UoW
	cfg config
}

// NewCommandRepo creates a write repository staging mutations through u.
func NewCommandRepo[E any, K any](u UoW, opts ...Option) *CommandRepo[E, K] {
	return &CommandRepo[E, K]{
		u:   u,
		cfg: newConfig(opts),
	}
}

func (r *CommandRepo[E, K]) Insert(_ context.Context, entity *E) (*E, error) {
	r.u.Register(func(ctx context.Context, idb bun.IDB) error {
		_, err := idb.NewInsert().Model(entity).Exec(ctx)
		return err
	})
	return entity, nil
}

// Update stages a full-row update: every column is written, not a patch.
func (r *CommandRepo[E, K]) Update(_ context.Context, entity *E) (*E, error) {
	r.u.Register(func(ctx context.Context, idb bun.IDB) error {
		_, err := idb.NewUpdate().Model(entity).WherePK().Exec(ctx)
		return err
	})
	return entity, nil
}

func (r *CommandRepo[E, K]) HardDelete(_ context.Context, entity *E) error {
	r.u.Register(func(ctx context.Context, idb bun.IDB) error {
		_, err := idb.NewDelete().Model(entity).WherePK().Exec(ctx)
		return err
	})
	return nil
}

func (r *CommandRepo[E, K]) HardDeleteByID(_ context.Context, id K) error {
	r.u.Register(func(ctx context.Context, idb bun.IDB) error {
		_, err := idb.NewDelete().Model((*E)(nil)).
			Where("? = ?", bun.Ident(r.cfg.idColumn), id).
			Exec(ctx)
		return err
	})
	return nil
}

// HardDeleteOne stages removal of the single entity matching the filter.
// The one-match requirement is checked at save time, inside the same
// transaction as the delete.
func (r *CommandRepo[E, K]) HardDeleteOne(_ context.Context, filter *repo.Predicate) error {
	r.u.Register(func(ctx context.Context, idb bun.IDB) error {
		sq := idb.NewSelect().Model((*E)(nil))
		sq, err := applyFilter(sq, filter)
		if err != nil {
			return err
		}

		count, err := sq.Count(ctx)
		if err != nil {
			return err
		}

		switch {
		case count == 0:
			return errx.New(
				fmt.Sprintf("no %s found to delete", nameOf(new(E))),
				errx.WithCode(repo.CodeObjectNotFound),
				errx.WithType(errx.T_NotFound),
			)
		case count > 1:
			return errx.New(
				fmt.Sprintf("multiple %s found to delete", nameOf(new(E))),
				errx.WithCode(repo.CodeMultipleRowsFound),
			)
		}

		return r.deleteByFilter(ctx, idb, filter)
	})
	return nil
}

func (r *CommandRepo[E, K]) HardDeleteMany(_ context.Context, filter *repo.Predicate) error {
	r.u.Register(func(ctx context.Context, idb bun.IDB) error {
		return r.deleteByFilter(ctx, idb, filter)
	})
	return nil
}

func (r *CommandRepo[E, K]) HardDeleteAll(_ context.Context, entities []E) error {
	if len(entities) == 0 {
		return nil
	}

	r.u.Register(func(ctx context.Context, idb bun.IDB) error {
		_, err := idb.NewDelete().Model(&entities).WherePK().Exec(ctx)
		return err
	})
	return nil
}

func (r *CommandRepo[E, K]) deleteByFilter(ctx context.Context, idb bun.IDB, filter *repo.Predicate) error {
	dq := idb.NewDelete().Model((*E)(nil))
	if filter != nil {
		expr, args, err := renderPredicate(filter)
		if err != nil {
			return err
		}
		dq = dq.Where(expr, args...)
	}

	_, err := dq.Exec(ctx)
	return err
}
