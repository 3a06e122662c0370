package drafts

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/mitteie/internal/client/models"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE drafts (
    id         TEXT PRIMARY KEY,
    item_id    TEXT NOT NULL DEFAULT '',
    payload    BLOB NOT NULL,
    reason     TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);`)
	require.NoError(t, err)
	return db
}

func newRepo(t *testing.T) *SQLiteRepository {
	r := NewSQLiteRepository(setupDB(t))
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	tick := 0
	r.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}
	return r
}

func TestSave_AssignsIDAndRoundTrips(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	v := 1200.0

	d := &models.Draft{
		Input:  models.ItemInput{Name: "Sykkel", Value: &v, Currency: "NOK", Attachments: []string{}},
		Reason: "auth required",
	}
	require.NoError(t, r.Save(ctx, d))
	require.NotEmpty(t, d.ID)
	require.False(t, d.CreatedAt.IsZero())

	got, err := r.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sykkel", got.Input.Name)
	require.NotNil(t, got.Input.Value)
	assert.InDelta(t, 1200.0, *got.Input.Value, 0.001)
	assert.Equal(t, "auth required", got.Reason)
	assert.Empty(t, got.ItemID)
}

func TestSave_UpsertKeepsCreatedAt(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	d := &models.Draft{ItemID: "item_1", Input: models.ItemInput{Name: "old"}}
	require.NoError(t, r.Save(ctx, d))
	created := d.CreatedAt

	d.Input.Name = "new"
	require.NoError(t, r.Save(ctx, d))

	got, err := r.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Input.Name)
	assert.Equal(t, "item_1", got.ItemID)
	assert.True(t, got.CreatedAt.Equal(created))
	assert.True(t, got.UpdatedAt.After(created))
}

func TestList_OldestFirst(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	empty, err := r.List(ctx)
	require.NoError(t, err)
	require.NotNil(t, empty)
	require.Len(t, empty, 0)

	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, r.Save(ctx, &models.Draft{Input: models.ItemInput{Name: name}}))
	}

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "a", list[0].Input.Name)
	assert.Equal(t, "c", list[2].Input.Name)
}

func TestGetAndDelete_NotFound(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	_, err := r.Get(ctx, "nope")
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, r.Delete(ctx, "nope"), ErrNotFound)

	d := &models.Draft{Input: models.ItemInput{Name: "x"}}
	require.NoError(t, r.Save(ctx, d))
	require.NoError(t, r.Delete(ctx, d.ID))
	_, err = r.Get(ctx, d.ID)
	require.ErrorIs(t, err, ErrNotFound)
}
