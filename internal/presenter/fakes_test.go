package presenter

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/reeltv/reeltv/internal/dispatch"
	"github.com/reeltv/reeltv/internal/media"
	"github.com/reeltv/reeltv/internal/testutil"
)

var errOffline = errors.New("offline")

const eventTimeout = 2 * time.Second

func newExecutor(t *testing.T) *dispatch.Executor {
	t.Helper()
	exec := dispatch.NewExecutor(4, testutil.NopLogger())
	exec.Start()
	t.Cleanup(exec.Close)
	return exec
}

// onUI runs fn on the UI loop and waits for it.
func onUI(t *testing.T, exec *dispatch.Executor, fn func()) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
	defer cancel()
	require.NoError(t, exec.Do(ctx, fn))
}

func next[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(eventTimeout):
		t.Fatal("timed out waiting for view callback")
		var zero T
		return zero
	}
}

func requireQuiet[T any](t *testing.T, ch <-chan T) {
	t.Helper()
	select {
	case v := <-ch:
		t.Fatalf("unexpected view callback: %+v", v)
	case <-time.After(100 * time.Millisecond):
	}
}

// fakeCatalog serves canned pages. A page number past the canned list is
// answered like TMDb does: an empty page beyond totalPages.
type fakeCatalog struct {
	mu sync.Mutex

	categories map[media.Category][]*media.Page
	genres     map[int][]*media.Page
	related    map[string][]*media.Page
	searches   map[string][]*media.Page
	genreLists map[media.Type][]media.Genre
	cast       []media.Cast
	videos     []media.Video
	person     *media.Cast
	favorites  []media.Work

	pageErr   error
	genreErr  map[media.Type]error
	castErr   error
	recsErr   error
	videosErr error
	saveFails bool

	// gate, when set, holds every page load until it is closed.
	gate chan struct{}

	calls    map[string]int
	requests []int
	queries  []string
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		categories: make(map[media.Category][]*media.Page),
		genres:     make(map[int][]*media.Page),
		related:    make(map[string][]*media.Page),
		searches:   make(map[string][]*media.Page),
		genreLists: make(map[media.Type][]media.Genre),
		genreErr:   make(map[media.Type]error),
		calls:      make(map[string]int),
	}
}

func (f *fakeCatalog) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeCatalog) record(name string) {
	f.mu.Lock()
	f.calls[name]++
	f.mu.Unlock()
}

func (f *fakeCatalog) wait(ctx context.Context) error {
	f.mu.Lock()
	gate := f.gate
	f.mu.Unlock()
	if gate == nil {
		return nil
	}
	select {
	case <-gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func servePage(pages []*media.Page, page int) *media.Page {
	if page <= len(pages) {
		return pages[page-1]
	}
	return &media.Page{Page: page, TotalPages: len(pages)}
}

func (f *fakeCatalog) IsFavorite(_ context.Context, w *media.Work) bool {
	f.record("IsFavorite")
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, fav := range f.favorites {
		if fav.ID == w.ID {
			return true
		}
	}
	return false
}

func (f *fakeCatalog) HasFavorite(context.Context) bool {
	f.record("HasFavorite")
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.favorites) > 0
}

func (f *fakeCatalog) SaveFavorite(_ context.Context, w media.Work) bool {
	f.record("SaveFavorite")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveFails {
		return false
	}
	w.Favorite = true
	f.favorites = append([]media.Work{w}, f.favorites...)
	return true
}

func (f *fakeCatalog) DeleteFavorite(_ context.Context, w media.Work) bool {
	f.record("DeleteFavorite")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveFails {
		return false
	}
	kept := f.favorites[:0]
	for _, fav := range f.favorites {
		if fav.ID != w.ID {
			kept = append(kept, fav)
		}
	}
	f.favorites = kept
	return true
}

func (f *fakeCatalog) LoadWorkByType(ctx context.Context, page int, category media.Category) (*media.Page, error) {
	f.record("LoadWorkByType")
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, page)
	if f.pageErr != nil {
		return nil, f.pageErr
	}
	if category.IsFavorites() {
		works := make([]media.Work, len(f.favorites))
		copy(works, f.favorites)
		return testutil.Page(1, 1, works...), nil
	}
	return servePage(f.categories[category], page), nil
}

func (f *fakeCatalog) GetWorkByGenre(ctx context.Context, genre media.Genre, page int) (*media.Page, error) {
	f.record("GetWorkByGenre")
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pageErr != nil {
		return nil, f.pageErr
	}
	return servePage(f.genres[genre.ID], page), nil
}

func (f *fakeCatalog) GetGenres(_ context.Context, source media.Type) ([]media.Genre, error) {
	f.record("GetGenres")
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.genreErr[source]; err != nil {
		return nil, err
	}
	return f.genreLists[source], nil
}

func (f *fakeCatalog) GetCastByWork(context.Context, media.Work) ([]media.Cast, error) {
	f.record("GetCastByWork")
	if f.castErr != nil {
		return nil, f.castErr
	}
	return f.cast, nil
}

func (f *fakeCatalog) GetRecommendationByWork(_ context.Context, _ media.Work, page int) (*media.Page, error) {
	f.record("GetRecommendationByWork")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.recsErr != nil {
		return nil, f.recsErr
	}
	return servePage(f.related["recommendations"], page), nil
}

func (f *fakeCatalog) GetSimilarByWork(_ context.Context, _ media.Work, page int) (*media.Page, error) {
	f.record("GetSimilarByWork")
	f.mu.Lock()
	defer f.mu.Unlock()
	return servePage(f.related["similar"], page), nil
}

func (f *fakeCatalog) GetVideosByWork(context.Context, media.Work) ([]media.Video, error) {
	f.record("GetVideosByWork")
	if f.videosErr != nil {
		return nil, f.videosErr
	}
	return f.videos, nil
}

func (f *fakeCatalog) GetCastDetails(_ context.Context, id int) (*media.Cast, error) {
	f.record("GetCastDetails")
	if f.person == nil || f.person.ID != id {
		return nil, errOffline
	}
	return f.person, nil
}

func (f *fakeCatalog) SearchWorksByQuery(ctx context.Context, query string, page int) (*media.Page, error) {
	f.record("SearchWorksByQuery")
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	pages, ok := f.searches[query]
	if !ok {
		return testutil.Page(1, 1), nil
	}
	return servePage(pages, page), nil
}

func (f *fakeCatalog) searchedQueries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

// gridEvent is one GridView callback.
type gridEvent struct {
	update  *GridUpdate
	noData  bool
	isEmpty bool
}

type gridView struct {
	events chan gridEvent
}

func newGridView() *gridView {
	return &gridView{events: make(chan gridEvent, 32)}
}

func (v *gridView) ShowWorks(update GridUpdate) {
	v.events <- gridEvent{update: &update}
}

func (v *gridView) ShowNoData(empty bool) {
	v.events <- gridEvent{noData: true, isEmpty: empty}
}

func ids(works []media.Work) []int {
	out := make([]int, len(works))
	for i, w := range works {
		out[i] = w.ID
	}
	return out
}
