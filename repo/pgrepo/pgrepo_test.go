package pgrepo_test

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/clearstack/pkg/uow"
)

type book struct {
	bun.BaseModel `bun:"table:books"`

	ID     int64  `bun:"id,pk,autoincrement"`
	Title  string `bun:"title,notnull"`
	Genre  string `bun:"genre,notnull"`
	Rating int    `bun:"rating,notnull"`
}

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	require.NoError(t, err)
	sqldb.SetMaxIdleConns(4)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.NewCreateTable().Model((*book)(nil)).Exec(context.Background())
	require.NoError(t, err)

	return db
}

func newTestUow(t *testing.T) (*uow.UnitOfWork, *bun.DB) {
	t.Helper()

	db := newTestDB(t)
	u := uow.New(db, uow.WithConflictDetector(func(err error) bool {
		return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
	}))
	return u, db
}

func seedBooks(t *testing.T, db *bun.DB, books []book) {
	t.Helper()

	_, err := db.NewInsert().Model(&books).Exec(context.Background())
	require.NoError(t, err)
}
