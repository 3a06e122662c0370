package dbx

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE notes (id INTEGER PRIMARY KEY, body TEXT NOT NULL)`)
	require.NoError(t, err)
	return db
}

func notes(t *testing.T, db *sql.DB) []string {
	t.Helper()
	rows, err := db.Query(`SELECT body FROM notes ORDER BY id`)
	require.NoError(t, err)
	defer rows.Close()
	var out []string
	for rows.Next() {
		var s string
		require.NoError(t, rows.Scan(&s))
		out = append(out, s)
	}
	require.NoError(t, rows.Err())
	return out
}

func insert(body string) func(context.Context, DBTX) error {
	return func(ctx context.Context, tx DBTX) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO notes(body) VALUES (?)`, body)
		return err
	}
}

func TestOpenSQLite(t *testing.T) {
	t.Run("pragmas", func(t *testing.T) {
		db := openStore(t)
		for pragma, want := range map[string]int{"foreign_keys": 1, "busy_timeout": 5000} {
			var got int
			require.NoError(t, db.QueryRow(`PRAGMA `+pragma).Scan(&got))
			assert.Equal(t, want, got, pragma)
		}
	})

	t.Run("memory store survives across statements", func(t *testing.T) {
		db, err := OpenSQLite(context.Background(), ":memory:")
		require.NoError(t, err)
		defer db.Close()

		require.NoError(t, insertTable(db))
		var n int
		require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM kv`).Scan(&n))
		assert.Equal(t, 1, n)
	})

	t.Run("missing parent directory", func(t *testing.T) {
		_, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "nope", "store.db"))
		assert.ErrorContains(t, err, "sqlite")
	})
}

func insertTable(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE kv (k TEXT)`); err != nil {
		return err
	}
	_, err := db.Exec(`INSERT INTO kv VALUES ('a')`)
	return err
}

func TestWithTx(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	t.Run("commits every statement", func(t *testing.T) {
		db := openStore(t)
		err := WithTx(ctx, db, nil, func(ctx context.Context, tx DBTX) error {
			if err := insert("first")(ctx, tx); err != nil {
				return err
			}
			return insert("second")(ctx, tx)
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"first", "second"}, notes(t, db))
	})

	t.Run("error rolls back and is returned as is", func(t *testing.T) {
		db := openStore(t)
		require.NoError(t, WithTx(ctx, db, nil, insert("kept")))

		err := WithTx(ctx, db, nil, func(ctx context.Context, tx DBTX) error {
			require.NoError(t, insert("dropped")(ctx, tx))
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, []string{"kept"}, notes(t, db))
	})

	t.Run("panic rolls back and propagates", func(t *testing.T) {
		db := openStore(t)
		assert.PanicsWithValue(t, "kaput", func() {
			_ = WithTx(ctx, db, nil, func(ctx context.Context, tx DBTX) error {
				require.NoError(t, insert("dropped")(ctx, tx))
				panic("kaput")
			})
		})
		assert.Empty(t, notes(t, db))
	})

	t.Run("closed database", func(t *testing.T) {
		db := openStore(t)
		require.NoError(t, db.Close())
		called := false
		err := WithTx(ctx, db, nil, func(context.Context, DBTX) error {
			called = true
			return nil
		})
		assert.Error(t, err)
		assert.False(t, called)
	})

	t.Run("read only", func(t *testing.T) {
		db := openStore(t)
		require.NoError(t, WithTx(ctx, db, nil, insert("seen")))
		var body string
		err := WithTx(ctx, db, &sql.TxOptions{ReadOnly: true}, func(ctx context.Context, tx DBTX) error {
			return tx.QueryRowContext(ctx, `SELECT body FROM notes`).Scan(&body)
		})
		require.NoError(t, err)
		assert.Equal(t, "seen", body)
	})
}
