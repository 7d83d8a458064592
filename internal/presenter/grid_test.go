package presenter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reeltv/reeltv/internal/media"
	"github.com/reeltv/reeltv/internal/testutil"
)

var (
	workA = testutil.Movie(1, "A")
	workB = testutil.Movie(2, "B")
	workC = testutil.Movie(3, "C")
	workD = testutil.Movie(4, "D")
)

func TestGridPresenter_PaginatesWithoutDuplicates(t *testing.T) {
	exec := newExecutor(t)
	catalog := newFakeCatalog()
	catalog.categories[media.CategoryMoviePopular] = []*media.Page{
		testutil.Page(1, 5, workA, workB, workC),
		testutil.Page(2, 5, workC, workD),
	}
	p := NewGridPresenter(catalog, exec, media.CategoryMoviePopular, testutil.NopLogger())
	v := newGridView()

	onUI(t, exec, func() { p.Attach(v) })
	ev := next(t, v.events)
	require.NotNil(t, ev.update)
	assert.Equal(t, []int{1, 2, 3}, ids(ev.update.Works))
	assert.Equal(t, 1, ev.update.Page)

	onUI(t, exec, func() { p.LoadMore() })
	ev = next(t, v.events)
	require.NotNil(t, ev.update)
	assert.Equal(t, []int{1, 2, 3, 4}, ids(ev.update.Works))
	assert.Equal(t, []int{4}, ids(ev.update.Added))

	var page int
	var works []media.Work
	onUI(t, exec, func() {
		page = p.CurrentPage()
		works = p.Works()
	})
	assert.Equal(t, 2, page)
	assert.Equal(t, []int{1, 2, 3, 4}, ids(works))
}

func TestGridPresenter_StopsPastLastPage(t *testing.T) {
	exec := newExecutor(t)
	catalog := newFakeCatalog()
	catalog.categories[media.CategoryTVPopular] = []*media.Page{testutil.Page(1, 1, workA)}
	p := NewGridPresenter(catalog, exec, media.CategoryTVPopular, testutil.NopLogger())
	v := newGridView()

	onUI(t, exec, func() { p.Attach(v) })
	require.NotNil(t, next(t, v.events).update)

	onUI(t, exec, func() { p.LoadMore() })
	ev := next(t, v.events)
	assert.True(t, ev.noData)
	assert.False(t, ev.isEmpty)
	assert.Equal(t, 2, catalog.count("LoadWorkByType"))

	onUI(t, exec, func() { p.LoadMore() })
	onUI(t, exec, func() { p.LoadMore() })
	assert.True(t, next(t, v.events).noData)
	assert.True(t, next(t, v.events).noData)
	assert.Equal(t, 2, catalog.count("LoadWorkByType"), "exhausted grid must not hit the catalog")

	var page int
	onUI(t, exec, func() { page = p.CurrentPage() })
	assert.Equal(t, 1, page)
}

func TestGridPresenter_FailureRetriesSamePage(t *testing.T) {
	exec := newExecutor(t)
	catalog := newFakeCatalog()
	catalog.categories[media.CategoryMovieTopRated] = []*media.Page{testutil.Page(1, 1, workA)}
	catalog.pageErr = errOffline
	p := NewGridPresenter(catalog, exec, media.CategoryMovieTopRated, testutil.NopLogger())
	v := newGridView()

	onUI(t, exec, func() { p.Attach(v) })
	ev := next(t, v.events)
	assert.True(t, ev.noData)
	assert.True(t, ev.isEmpty)

	catalog.mu.Lock()
	catalog.pageErr = nil
	catalog.mu.Unlock()

	onUI(t, exec, func() { p.LoadMore() })
	ev = next(t, v.events)
	require.NotNil(t, ev.update)
	assert.Equal(t, []int{1}, ids(ev.update.Works))
	assert.Equal(t, []int{1, 1}, catalog.requests)
}

func TestGridPresenter_OnItemSelectedLoadsNearEnd(t *testing.T) {
	exec := newExecutor(t)
	catalog := newFakeCatalog()
	catalog.categories[media.CategoryMovieNowPlaying] = []*media.Page{
		testutil.Page(1, 2, testutil.Movie(1, "1"), testutil.Movie(2, "2"), testutil.Movie(3, "3"), testutil.Movie(4, "4"), testutil.Movie(5, "5"), testutil.Movie(6, "6")),
		testutil.Page(2, 2, testutil.Movie(7, "7")),
	}
	p := NewGridPresenter(catalog, exec, media.CategoryMovieNowPlaying, testutil.NopLogger())
	v := newGridView()

	onUI(t, exec, func() { p.Attach(v) })
	next(t, v.events)

	onUI(t, exec, func() { p.OnItemSelected(1, 3) })
	requireQuiet(t, v.events)
	assert.Equal(t, 1, catalog.count("LoadWorkByType"))

	onUI(t, exec, func() { p.OnItemSelected(3, 3) })
	ev := next(t, v.events)
	require.NotNil(t, ev.update)
	assert.Equal(t, []int{7}, ids(ev.update.Added))
}

func TestGridPresenter_NoCallbackAfterDetach(t *testing.T) {
	exec := newExecutor(t)
	catalog := newFakeCatalog()
	catalog.categories[media.CategoryMoviePopular] = []*media.Page{testutil.Page(1, 1, workA)}
	catalog.gate = make(chan struct{})
	p := NewGridPresenter(catalog, exec, media.CategoryMoviePopular, testutil.NopLogger())
	v := newGridView()

	onUI(t, exec, func() { p.Attach(v) })
	onUI(t, exec, p.Detach)
	close(catalog.gate)

	requireQuiet(t, v.events)
}

func TestGridPresenter_ReattachShowsLoadedWorks(t *testing.T) {
	exec := newExecutor(t)
	catalog := newFakeCatalog()
	catalog.categories[media.CategoryMoviePopular] = []*media.Page{
		testutil.Page(1, 2, workA),
		testutil.Page(2, 2, workB),
	}
	p := NewGridPresenter(catalog, exec, media.CategoryMoviePopular, testutil.NopLogger())
	v := newGridView()

	onUI(t, exec, func() { p.Attach(v) })
	next(t, v.events)
	onUI(t, exec, p.Detach)

	v2 := newGridView()
	onUI(t, exec, func() { p.Attach(v2) })
	ev := next(t, v2.events)
	require.NotNil(t, ev.update)
	assert.Equal(t, []int{1}, ids(ev.update.Works))
	ev = next(t, v2.events)
	require.NotNil(t, ev.update)
	assert.Equal(t, []int{1, 2}, ids(ev.update.Works))
}

func TestGridPresenter_Favorites(t *testing.T) {
	exec := newExecutor(t)
	catalog := newFakeCatalog()
	p := NewGridPresenter(catalog, exec, media.CategoryFavorites, testutil.NopLogger())
	v := newGridView()

	onUI(t, exec, func() { p.Attach(v) })
	ev := next(t, v.events)
	assert.True(t, ev.noData)
	assert.True(t, ev.isEmpty)

	catalog.SaveFavorite(t.Context(), workA)

	onUI(t, exec, func() { p.LoadMore() })
	ev = next(t, v.events)
	require.NotNil(t, ev.update)
	assert.Equal(t, []int{1}, ids(ev.update.Works))
	assert.Equal(t, []int{1}, ids(ev.update.Added))

	// Re-querying the same favorites never duplicates them.
	onUI(t, exec, func() { p.LoadMore() })
	ev = next(t, v.events)
	require.NotNil(t, ev.update)
	assert.Equal(t, []int{1}, ids(ev.update.Works))
	assert.Empty(t, ev.update.Added)
}

func TestGridPresenter_FavoritesRemoval(t *testing.T) {
	exec := newExecutor(t)
	catalog := newFakeCatalog()
	catalog.SaveFavorite(t.Context(), workA)
	catalog.SaveFavorite(t.Context(), workB)
	p := NewGridPresenter(catalog, exec, media.CategoryFavorites, testutil.NopLogger())
	v := newGridView()

	onUI(t, exec, func() { p.Attach(v) })
	ev := next(t, v.events)
	require.NotNil(t, ev.update)
	assert.Equal(t, []int{2, 1}, ids(ev.update.Works))

	catalog.DeleteFavorite(t.Context(), workA)
	catalog.DeleteFavorite(t.Context(), workB)

	onUI(t, exec, func() { p.LoadMore() })
	ev = next(t, v.events)
	require.NotNil(t, ev.update)
	assert.Empty(t, ev.update.Works)
	assert.ElementsMatch(t, []int{1, 2}, ids(ev.update.Removed))
	ev = next(t, v.events)
	assert.True(t, ev.noData)
	assert.True(t, ev.isEmpty)
}

func TestGenreGridPresenter(t *testing.T) {
	exec := newExecutor(t)
	catalog := newFakeCatalog()
	genre := media.Genre{ID: 28, Name: "Action", Source: media.TypeMovie}
	catalog.genres[28] = []*media.Page{testutil.Page(1, 1, workA, workB)}
	p := NewGenreGridPresenter(catalog, exec, genre, testutil.NopLogger())
	v := newGridView()

	onUI(t, exec, func() { p.Attach(v) })
	ev := next(t, v.events)
	require.NotNil(t, ev.update)
	assert.Equal(t, []int{1, 2}, ids(ev.update.Works))
	assert.Equal(t, genre, p.Genre())

	onUI(t, exec, func() { p.LoadMore() })
	assert.True(t, next(t, v.events).noData)
	assert.Equal(t, 2, catalog.count("GetWorkByGenre"))
}

func TestGridPresenter_ReattachWhileLoading(t *testing.T) {
	exec := newExecutor(t)
	catalog := newFakeCatalog()
	catalog.categories[media.CategoryMoviePopular] = []*media.Page{
		testutil.Page(1, 2, workA),
		testutil.Page(2, 2, workB),
	}
	catalog.gate = make(chan struct{})
	p := NewGridPresenter(catalog, exec, media.CategoryMoviePopular, testutil.NopLogger())
	first, second := newGridView(), newGridView()

	onUI(t, exec, func() { p.Attach(first) })
	onUI(t, exec, func() { p.Attach(second) })
	close(catalog.gate)

	ev := next(t, second.events)
	require.NotNil(t, ev.update)
	assert.Equal(t, []int{1}, ids(ev.update.Works))

	var loading bool
	onUI(t, exec, func() { loading = p.LoadMore() })
	assert.True(t, loading)
	ev = next(t, second.events)
	require.NotNil(t, ev.update)
	assert.Equal(t, []int{1, 2}, ids(ev.update.Works))

	requireQuiet(t, first.events)
}

func TestGridPresenter_FavoritesReattachWhileLoading(t *testing.T) {
	exec := newExecutor(t)
	catalog := newFakeCatalog()
	catalog.SaveFavorite(t.Context(), workA)
	catalog.gate = make(chan struct{})
	p := NewGridPresenter(catalog, exec, media.CategoryFavorites, testutil.NopLogger())
	first, second := newGridView(), newGridView()

	onUI(t, exec, func() { p.Attach(first) })
	onUI(t, exec, func() { p.Attach(second) })
	close(catalog.gate)

	ev := next(t, second.events)
	require.NotNil(t, ev.update)
	assert.Equal(t, []int{1}, ids(ev.update.Works))
	requireQuiet(t, first.events)
}

func TestGridPresenter_LoadMoreWhileLoading(t *testing.T) {
	exec := newExecutor(t)
	catalog := newFakeCatalog()
	catalog.categories[media.CategoryMoviePopular] = []*media.Page{testutil.Page(1, 1, workA)}
	catalog.gate = make(chan struct{})
	p := NewGridPresenter(catalog, exec, media.CategoryMoviePopular, testutil.NopLogger())
	v := newGridView()

	onUI(t, exec, func() { p.Attach(v) })

	var loading bool
	onUI(t, exec, func() { loading = p.LoadMore() })
	assert.False(t, loading)

	close(catalog.gate)
	require.NotNil(t, next(t, v.events).update)
	requireQuiet(t, v.events)
	assert.Equal(t, 1, catalog.count("LoadWorkByType"))
}

func TestGridPresenter_OnFavoriteChanged(t *testing.T) {
	exec := newExecutor(t)
	catalog := newFakeCatalog()
	catalog.categories[media.CategoryMoviePopular] = []*media.Page{
		testutil.Page(1, 2, workA, workB),
		testutil.Page(2, 2, workC),
	}
	p := NewGridPresenter(catalog, exec, media.CategoryMoviePopular, testutil.NopLogger())
	v := newGridView()

	onUI(t, exec, func() { p.Attach(v) })
	next(t, v.events)

	favorite := workB
	favorite.Favorite = true
	onUI(t, exec, func() { p.OnFavoriteChanged(favorite) })
	requireQuiet(t, v.events)

	onUI(t, exec, func() { p.LoadMore() })
	ev := next(t, v.events)
	require.NotNil(t, ev.update)
	require.Len(t, ev.update.Works, 3)
	assert.False(t, ev.update.Works[0].Favorite)
	assert.True(t, ev.update.Works[1].Favorite)
}
