package presenter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reeltv/reeltv/internal/media"
	"github.com/reeltv/reeltv/internal/testutil"
)

type detailsEvent struct {
	details   *Details
	related   RelatedKind
	added     []media.Work
	noMore    bool
	favorite  *bool
	favFailed bool
}

type detailsView struct {
	events chan detailsEvent
}

func newDetailsView() *detailsView {
	return &detailsView{events: make(chan detailsEvent, 16)}
}

func (v *detailsView) ShowDetails(d Details) { v.events <- detailsEvent{details: &d} }

func (v *detailsView) ShowRelated(kind RelatedKind, added []media.Work) {
	v.events <- detailsEvent{related: kind, added: added}
}

func (v *detailsView) ShowNoMoreRelated(kind RelatedKind) {
	v.events <- detailsEvent{related: kind, noMore: true}
}

func (v *detailsView) ShowFavorite(favorite bool) { v.events <- detailsEvent{favorite: &favorite} }

func (v *detailsView) ShowFavoriteFailed() { v.events <- detailsEvent{favFailed: true} }

func detailsCatalog() *fakeCatalog {
	catalog := newFakeCatalog()
	catalog.cast = []media.Cast{{ID: 6384, Name: "Keanu Reeves", Character: "Neo"}}
	catalog.videos = []media.Video{{ID: "v1", Key: "abc", Site: "YouTube", Type: "Trailer"}}
	catalog.related["recommendations"] = []*media.Page{
		testutil.Page(1, 2, workB, workC),
		testutil.Page(2, 2, workC, workD),
	}
	catalog.related["similar"] = []*media.Page{testutil.Page(1, 1, workD)}
	return catalog
}

func TestDetailsPresenter_JoinsAllBranches(t *testing.T) {
	exec := newExecutor(t)
	catalog := detailsCatalog()
	catalog.SaveFavorite(t.Context(), workA)
	p := NewDetailsPresenter(catalog, exec, workA, testutil.NopLogger())
	v := newDetailsView()

	onUI(t, exec, func() { p.Attach(v) })
	ev := next(t, v.events)
	require.NotNil(t, ev.details)

	d := ev.details
	assert.True(t, d.Work.Favorite)
	assert.Len(t, d.Cast, 1)
	assert.Len(t, d.Videos, 1)
	assert.Equal(t, []int{2, 3}, ids(d.Recommendations))
	assert.Equal(t, []int{4}, ids(d.Similar))

	var recPage, simPage int
	onUI(t, exec, func() {
		recPage = p.RecommendationsPage()
		simPage = p.SimilarPage()
	})
	assert.Equal(t, 1, recPage)
	assert.Equal(t, 1, simPage)
}

func TestDetailsPresenter_FailedCastBranch(t *testing.T) {
	exec := newExecutor(t)
	catalog := detailsCatalog()
	catalog.castErr = errOffline
	p := NewDetailsPresenter(catalog, exec, workA, testutil.NopLogger())
	v := newDetailsView()

	onUI(t, exec, func() { p.Attach(v) })
	d := next(t, v.events).details
	require.NotNil(t, d)

	assert.Nil(t, d.Cast)
	assert.NotNil(t, d.Videos)
	assert.NotEmpty(t, d.Recommendations)
	assert.NotEmpty(t, d.Similar)
	assert.False(t, d.Work.Favorite)
}

func TestDetailsPresenter_EmptyBranchIsNotNil(t *testing.T) {
	exec := newExecutor(t)
	catalog := newFakeCatalog()
	catalog.recsErr = errOffline
	p := NewDetailsPresenter(catalog, exec, workA, testutil.NopLogger())
	v := newDetailsView()

	onUI(t, exec, func() { p.Attach(v) })
	d := next(t, v.events).details
	require.NotNil(t, d)

	assert.NotNil(t, d.Similar)
	assert.Empty(t, d.Similar)
	assert.Nil(t, d.Recommendations)
}

func TestDetailsPresenter_LoadMoreRelated(t *testing.T) {
	exec := newExecutor(t)
	catalog := detailsCatalog()
	p := NewDetailsPresenter(catalog, exec, workA, testutil.NopLogger())
	v := newDetailsView()

	onUI(t, exec, func() { p.Attach(v) })
	next(t, v.events)

	onUI(t, exec, func() { p.LoadMoreRecommendations() })
	ev := next(t, v.events)
	assert.Equal(t, RelatedRecommendations, ev.related)
	assert.Equal(t, []int{4}, ids(ev.added))

	onUI(t, exec, func() { p.LoadMoreRecommendations() })
	ev = next(t, v.events)
	assert.True(t, ev.noMore)
	assert.Equal(t, 3, catalog.count("GetRecommendationByWork"))

	onUI(t, exec, func() { p.LoadMoreRecommendations() })
	assert.True(t, next(t, v.events).noMore)
	assert.Equal(t, 3, catalog.count("GetRecommendationByWork"))

	onUI(t, exec, func() { p.OnRelatedItemSelected(RelatedSimilar, 0) })
	ev = next(t, v.events)
	assert.Equal(t, RelatedSimilar, ev.related)
	assert.True(t, ev.noMore)
}

func TestDetailsPresenter_ToggleFavorite(t *testing.T) {
	exec := newExecutor(t)
	catalog := detailsCatalog()
	p := NewDetailsPresenter(catalog, exec, workA, testutil.NopLogger())
	v := newDetailsView()

	onUI(t, exec, func() { p.Attach(v) })
	next(t, v.events)

	onUI(t, exec, func() { p.ToggleFavorite() })
	ev := next(t, v.events)
	require.NotNil(t, ev.favorite)
	assert.True(t, *ev.favorite)
	assert.True(t, catalog.HasFavorite(t.Context()))

	onUI(t, exec, func() { p.ToggleFavorite() })
	ev = next(t, v.events)
	require.NotNil(t, ev.favorite)
	assert.False(t, *ev.favorite)
	assert.False(t, catalog.HasFavorite(t.Context()))
}

func TestDetailsPresenter_ToggleFailureKeepsState(t *testing.T) {
	exec := newExecutor(t)
	catalog := detailsCatalog()
	catalog.saveFails = true
	p := NewDetailsPresenter(catalog, exec, workA, testutil.NopLogger())
	v := newDetailsView()

	onUI(t, exec, func() { p.Attach(v) })
	next(t, v.events)

	onUI(t, exec, func() { p.ToggleFavorite() })
	assert.True(t, next(t, v.events).favFailed)

	var work media.Work
	onUI(t, exec, func() { work = p.Work() })
	assert.False(t, work.Favorite)
}

func TestDetailsPresenter_ToggleIgnoredWhileInFlight(t *testing.T) {
	exec := newExecutor(t)
	catalog := detailsCatalog()
	p := NewDetailsPresenter(catalog, exec, workA, testutil.NopLogger())
	v := newDetailsView()

	onUI(t, exec, func() { p.Attach(v) })
	next(t, v.events)

	var first, second bool
	onUI(t, exec, func() {
		first = p.ToggleFavorite()
		second = p.ToggleFavorite()
	})
	assert.True(t, first)
	assert.False(t, second)
	ev := next(t, v.events)
	require.NotNil(t, ev.favorite)
	assert.True(t, *ev.favorite)
	requireQuiet(t, v.events)
	assert.Equal(t, 1, catalog.count("SaveFavorite"))
}
