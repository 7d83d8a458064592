package favorites

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reeltv/reeltv/internal/media"
	"github.com/reeltv/reeltv/internal/testutil"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	tdb := testutil.NewTestDB(t)
	return NewStore(tdb.DB.Conn(), tdb.Logger)
}

func TestStore_SaveAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	w := testutil.Movie(550, "Fight Club")
	w.Overview = "An insomniac office worker..."
	w.PosterPath = "/poster.jpg"
	w.VoteAverage = 8.4
	w.VoteCount = 26000

	require.NoError(t, store.Save(ctx, w))

	got, err := store.Get(ctx, 550)
	require.NoError(t, err)
	assert.Equal(t, 550, got.ID)
	assert.Equal(t, media.TypeMovie, got.Type)
	assert.Equal(t, "Fight Club", got.Title)
	assert.Equal(t, "/poster.jpg", got.PosterPath)
	assert.InDelta(t, 8.4, got.VoteAverage, 0.001)
	assert.Equal(t, 26000, got.VoteCount)
	assert.True(t, got.Favorite)
}

func TestStore_GetMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), 1)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestStore_SaveIsUpsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testutil.Movie(1, "Old")))
	require.NoError(t, store.Save(ctx, testutil.Movie(1, "New")))

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "New", got.Title)
}

func TestStore_SaveRejectsUnknownType(t *testing.T) {
	store := newTestStore(t)

	err := store.Save(context.Background(), media.Work{ID: 1, Title: "x"})
	assert.ErrorIs(t, err, media.ErrUnknownType)
}

func TestStore_ListNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	empty, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	require.NoError(t, store.Save(ctx, testutil.Movie(10, "First")))
	require.NoError(t, store.Save(ctx, testutil.Show(20, "Second")))

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 20, list[0].ID)
	assert.Equal(t, media.TypeTV, list[0].Type)
	assert.Equal(t, 10, list[1].ID)
}

func TestStore_Delete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testutil.Movie(7, "Se7en")))
	require.NoError(t, store.Delete(ctx, 7))

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.ErrorIs(t, store.Delete(ctx, 7), ErrNotFound)
}
