package presenter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reeltv/reeltv/internal/media"
	"github.com/reeltv/reeltv/internal/testutil"
)

type searchEvent struct {
	query   string
	update  *GridUpdate
	noData  bool
	cleared bool
}

type searchView struct {
	events chan searchEvent
}

func newSearchView() *searchView {
	return &searchView{events: make(chan searchEvent, 16)}
}

func (v *searchView) ShowResults(query string, update GridUpdate) {
	v.events <- searchEvent{query: query, update: &update}
}

func (v *searchView) ShowNoData(query string) { v.events <- searchEvent{query: query, noData: true} }

func (v *searchView) ClearResults() { v.events <- searchEvent{cleared: true} }

func newTestSearch(t *testing.T, catalog *fakeCatalog) (*SearchPresenter, *searchView, func(func())) {
	exec := newExecutor(t)
	p := NewSearchPresenter(catalog, exec, testutil.NopLogger())
	p.debounce = 20 * time.Millisecond
	v := newSearchView()
	ui := func(fn func()) { onUI(t, exec, fn) }
	ui(func() { p.Attach(v) })
	return p, v, ui
}

func TestSearchPresenter_DebouncesTyping(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.searches["matrix"] = []*media.Page{testutil.Page(1, 1, workA)}
	p, v, ui := newTestSearch(t, catalog)

	ui(func() {
		p.OnQueryTextChange("m")
		p.OnQueryTextChange("ma")
		p.OnQueryTextChange("matrix")
	})

	ev := next(t, v.events)
	require.NotNil(t, ev.update)
	assert.Equal(t, "matrix", ev.query)
	assert.Equal(t, []int{1}, ids(ev.update.Works))
	assert.Equal(t, []string{"matrix"}, catalog.searchedQueries())
}

func TestSearchPresenter_EmptyQueryClears(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.searches["dune"] = []*media.Page{testutil.Page(1, 1, workA)}
	p, v, ui := newTestSearch(t, catalog)

	ui(func() { p.OnQueryTextSubmit("dune") })
	require.NotNil(t, next(t, v.events).update)

	ui(func() { p.OnQueryTextChange("   ") })
	assert.True(t, next(t, v.events).cleared)

	var results []media.Work
	ui(func() { results = p.Results() })
	assert.Empty(t, results)
}

func TestSearchPresenter_NewQueryCancelsPrevious(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.searches["dune"] = []*media.Page{testutil.Page(1, 1, workA)}
	catalog.searches["matrix"] = []*media.Page{testutil.Page(1, 1, workB)}
	catalog.gate = make(chan struct{})
	p, v, ui := newTestSearch(t, catalog)

	ui(func() { p.OnQueryTextSubmit("dune") })
	ui(func() { p.OnQueryTextSubmit("matrix") })
	close(catalog.gate)

	ev := next(t, v.events)
	require.NotNil(t, ev.update)
	assert.Equal(t, "matrix", ev.query)
	assert.Equal(t, []int{2}, ids(ev.update.Works))
	requireQuiet(t, v.events)
}

func TestSearchPresenter_PagesWithoutDuplicates(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.searches["star"] = []*media.Page{
		testutil.Page(1, 2, workA, workB),
		testutil.Page(2, 2, workB, workC),
	}
	p, v, ui := newTestSearch(t, catalog)

	ui(func() { p.OnQueryTextSubmit("star") })
	next(t, v.events)

	ui(func() { p.OnItemSelected(1, 2) })
	ev := next(t, v.events)
	require.NotNil(t, ev.update)
	assert.Equal(t, []int{1, 2, 3}, ids(ev.update.Works))
	assert.Equal(t, []int{3}, ids(ev.update.Added))

	ui(func() { p.LoadMore() })
	assert.True(t, next(t, v.events).noData)
}

func TestSearchPresenter_NoResults(t *testing.T) {
	catalog := newFakeCatalog()
	p, v, ui := newTestSearch(t, catalog)

	ui(func() { p.OnQueryTextSubmit("zzz") })
	ev := next(t, v.events)
	assert.True(t, ev.noData)
	assert.Equal(t, "zzz", ev.query)
}

func TestSearchPresenter_ReattachDropsRunningSearch(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.searches["alien"] = []*media.Page{testutil.Page(1, 1, workA)}
	catalog.gate = make(chan struct{})
	p, first, ui := newTestSearch(t, catalog)

	ui(func() { p.OnQueryTextSubmit("alien") })
	second := newSearchView()
	ui(func() { p.Attach(second) })
	close(catalog.gate)
	requireQuiet(t, first.events)

	var loading bool
	ui(func() { loading = p.LoadMore() })
	assert.True(t, loading)

	ev := next(t, second.events)
	require.NotNil(t, ev.update)
	assert.Equal(t, "alien", ev.query)
	assert.Equal(t, []int{1}, ids(ev.update.Works))
	requireQuiet(t, first.events)
}
