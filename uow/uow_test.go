package uow_test

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/code19m/errx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/clearstack/pkg/uow"
)

type account struct {
	bun.BaseModel `bun:"table:accounts"`

	ID    int64  `bun:"id,pk,autoincrement"`
	Email string `bun:"email,unique,notnull"`
}

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	require.NoError(t, err)
	sqldb.SetMaxIdleConns(4)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.NewCreateTable().Model((*account)(nil)).Exec(context.Background())
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

func stageInsert(u *uow.UnitOfWork, email string) {
	u.Register(func(ctx context.Context, idb bun.IDB) error {
		_, err := idb.NewInsert().Model(&account{Email: email}).Exec(ctx)
		return err
	})
}

func countAccounts(t *testing.T, db *bun.DB) int {
	t.Helper()

	count, err := db.NewSelect().Model((*account)(nil)).Count(context.Background())
	require.NoError(t, err)
	return count
}

func TestSaveEntitiesFlushesStagedActions(t *testing.T) {
	u, db := newTestUow(t)
	ctx := context.Background()

	stageInsert(u, "a@example.com")
	stageInsert(u, "b@example.com")
	require.Equal(t, 2, u.Pending())

	require.NoError(t, u.SaveEntities(ctx))

	assert.Equal(t, 0, u.Pending())
	assert.Equal(t, 2, countAccounts(t, db))
}

func TestSaveEntitiesNoopWhenNothingStaged(t *testing.T) {
	u, db := newTestUow(t)

	require.NoError(t, u.SaveEntities(context.Background()))
	assert.Equal(t, 0, countAccounts(t, db))
}

func TestSaveEntitiesClassifiesDuplicateKey(t *testing.T) {
	u, db := newTestUow(t)
	ctx := context.Background()

	stageInsert(u, "dup@example.com")
	require.NoError(t, u.SaveEntities(ctx))

	stageInsert(u, "dup@example.com")
	err := u.SaveEntities(ctx)
	require.Error(t, err)
	assert.Equal(t, uow.CodeDuplicateKey, errx.AsErrorX(err).Code())

	// failed batch stays staged and nothing extra was persisted
	assert.Equal(t, 1, u.Pending())
	assert.Equal(t, 1, countAccounts(t, db))
}

func TestSaveEntitiesRollsBackWholeBatch(t *testing.T) {
	u, db := newTestUow(t)
	ctx := context.Background()

	stageInsert(u, "ok@example.com")
	stageInsert(u, "ok@example.com") // duplicate within one batch

	err := u.SaveEntities(ctx)
	require.Error(t, err)
	assert.Equal(t, 0, countAccounts(t, db))
}

func TestBeginIsIdempotentWhileOpen(t *testing.T) {
	u, _ := newTestUow(t)
	ctx := context.Background()

	tx, err := u.Begin(ctx)
	require.NoError(t, err)
	require.NotNil(t, tx)
	require.True(t, u.HasActiveTransaction())

	again, err := u.Begin(ctx)
	assert.NoError(t, err)
	assert.Nil(t, again)
	assert.True(t, u.HasActiveTransaction())

	require.NoError(t, u.Rollback(ctx))
	assert.False(t, u.HasActiveTransaction())
}

func TestCommitRejectsForeignHandle(t *testing.T) {
	u, db := newTestUow(t)
	ctx := context.Background()

	tx, err := u.Begin(ctx)
	require.NoError(t, err)

	foreign, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer foreign.Rollback() //nolint:errcheck

	err = u.Commit(ctx, &foreign)
	require.Error(t, err)
	// the open transaction is untouched by a foreign handle
	assert.True(t, u.HasActiveTransaction())

	stageInsert(u, "tx@example.com")
	require.NoError(t, u.Commit(ctx, tx))
	assert.False(t, u.HasActiveTransaction())
	assert.Equal(t, 1, countAccounts(t, db))
}

func TestCommitWithoutTransaction(t *testing.T) {
	u, _ := newTestUow(t)

	err := u.Commit(context.Background(), nil)
	assert.Error(t, err)
}

func TestRollbackDiscardsStagedWork(t *testing.T) {
	u, db := newTestUow(t)
	ctx := context.Background()

	_, err := u.Begin(ctx)
	require.NoError(t, err)

	stageInsert(u, "gone@example.com")
	require.NoError(t, u.SaveEntities(ctx)) // runs inside the open tx, no commit

	require.NoError(t, u.Rollback(ctx))

	assert.False(t, u.HasActiveTransaction())
	assert.Equal(t, 0, u.Pending())
	assert.Equal(t, 0, countAccounts(t, db))
}

func TestRollbackWithoutTransactionIsSafe(t *testing.T) {
	u, _ := newTestUow(t)
	assert.NoError(t, u.Rollback(context.Background()))
}
