package db_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/alexanderramin/timebox/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUoW(t *testing.T) (*sql.DB, *db.TxUnitOfWork) {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database, db.NewTxUnitOfWork(database)
}

func settingExists(t *testing.T, database *sql.DB, key string) bool {
	t.Helper()
	var n int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM settings WHERE key = ?`, key).Scan(&n))
	return n > 0
}

func putSetting(ctx context.Context, tx db.DBTX, key string) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO settings (key, value) VALUES (?, 'x')`, key)
	return err
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	database, uow := newUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return putSetting(ctx, tx, "name")
	})

	require.NoError(t, err)
	assert.True(t, settingExists(t, database, "name"))
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	database, uow := newUoW(t)
	boom := errors.New("boom")

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := putSetting(ctx, tx, "name"); err != nil {
			return err
		}
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.False(t, settingExists(t, database, "name"))
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	database, uow := newUoW(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_ = putSetting(ctx, tx, "hobbies")
			panic("boom")
		})
	})

	assert.False(t, settingExists(t, database, "hobbies"))
}
