package mock

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reeltv/reeltv/internal/media"
	"github.com/reeltv/reeltv/internal/metadata"
	"github.com/reeltv/reeltv/internal/metadata/tmdb"
)

var _ metadata.TMDBClient = (*TMDBClient)(nil)

func TestMovieList_Pagination(t *testing.T) {
	c := NewTMDBClient()
	ctx := context.Background()

	p1, err := c.MovieList(ctx, "popular", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, p1.Page)
	assert.Equal(t, 3, p1.TotalPages)
	assert.Len(t, p1.Results, PageSize)

	p3, err := c.MovieList(ctx, "popular", 3)
	require.NoError(t, err)
	assert.Len(t, p3.Results, 2)

	past, err := c.MovieList(ctx, "popular", 4)
	require.NoError(t, err)
	assert.Equal(t, 4, past.Page)
	assert.Empty(t, past.Results)
	assert.False(t, past.HasData())
}

func TestMovieList_Unknown(t *testing.T) {
	_, err := NewTMDBClient().MovieList(context.Background(), "trending", 1)
	assert.True(t, errors.Is(err, tmdb.ErrInvalidList))
}

func TestDiscover_FiltersByGenre(t *testing.T) {
	p, err := NewTMDBClient().Discover(context.Background(), media.TypeTV, 10765, 1)
	require.NoError(t, err)
	require.Len(t, p.Results, 2)
	for _, w := range p.Results {
		assert.Contains(t, w.GenreIDs, 10765)
		assert.Equal(t, media.TypeTV, w.Type)
	}
}

func TestSimilar_ExcludesSelf(t *testing.T) {
	p, err := NewTMDBClient().Similar(context.Background(), media.TypeMovie, 603, 1)
	require.NoError(t, err)
	for _, w := range p.Results {
		assert.NotEqual(t, 603, w.ID)
	}
}

func TestCreditsAndPerson(t *testing.T) {
	c := NewTMDBClient()
	ctx := context.Background()

	cast, err := c.Credits(ctx, media.TypeMovie, 550)
	require.NoError(t, err)
	require.Len(t, cast, 2)

	person, err := c.Person(ctx, cast[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "Brad Pitt", person.Name)

	_, err = c.Person(ctx, 1)
	assert.ErrorIs(t, err, tmdb.ErrNotFound)

	_, err = c.Credits(ctx, media.TypeMovie, 1)
	assert.ErrorIs(t, err, tmdb.ErrNotFound)
}

func TestSearchMulti(t *testing.T) {
	p, err := NewTMDBClient().SearchMulti(context.Background(), "dune", 1)
	require.NoError(t, err)
	assert.Len(t, p.Results, 2)
}

func TestGenres(t *testing.T) {
	genres, err := NewTMDBClient().Genres(context.Background(), media.TypeMovie)
	require.NoError(t, err)
	require.NotEmpty(t, genres)
	assert.Equal(t, media.TypeMovie, genres[0].Source)
}
