// Package pg provides PostgreSQL database connection and utility functions.
//
// It offers helpers for creating pgx connection pools, opening Bun ORM
// databases on top of them, classifying PostgreSQL-specific errors (unique
// constraint violations in particular) and embedding timestamp-tracked base
// models. Query hooks integrate with the logger and OpenTelemetry.
package pg

import (
	"github.com/code19m/errx"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/extra/bunotel"

	"github.com/clearstack/pkg/pg/hooks"
)

// NewBunDB creates a new Bun database connection with the provided configuration.
func NewBunDB(cfg Config) (*bun.DB, error) {
	pool, err := NewPool(cfg)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	sqldb := stdlib.OpenDBFromPool(pool)

	bunDB := bun.NewDB(sqldb, pgdialect.New())
	applyHooks(bunDB, cfg.Debug)

	return bunDB, nil
}

// applyHooks attaches the query-logging hook (active only when debug=true)
// and the OpenTelemetry tracing hook (always active).
func applyHooks(db *bun.DB, debug bool) {
	db.AddQueryHook(
		hooks.NewDebugHook(
			hooks.WithEnabled(debug),
			hooks.WithVerbose(true),
		),
	)

	db.AddQueryHook(bunotel.NewQueryHook())
}
