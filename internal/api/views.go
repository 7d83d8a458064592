package api

import (
	"context"
	"sync"

	"github.com/reeltv/reeltv/internal/media"
	"github.com/reeltv/reeltv/internal/preferences"
	"github.com/reeltv/reeltv/internal/presenter"
	"github.com/reeltv/reeltv/internal/recommendation"
)

// The views below adapt presenter callbacks, which run on the UI loop, to
// HTTP handlers waiting on channels. They never block the UI loop: an event
// nobody waits for is dropped once the buffer is full.

const eventBuffer = 16

func offer[T any](ch chan T, v T) {
	select {
	case ch <- v:
	default:
	}
}

func drain[T any](ch chan T) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}

func await[T any](ctx context.Context, ch <-chan T) (T, error) {
	select {
	case v := <-ch:
		return v, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

type gridEvent struct {
	Update *presenter.GridUpdate `json:"update,omitempty"`
	NoData bool                  `json:"noData"`
	Empty  bool                  `json:"empty"`
}

type gridView struct {
	events chan gridEvent
}

func newGridView() *gridView {
	return &gridView{events: make(chan gridEvent, eventBuffer)}
}

func (v *gridView) ShowWorks(update presenter.GridUpdate) {
	offer(v.events, gridEvent{Update: &update})
}

func (v *gridView) ShowNoData(empty bool) {
	offer(v.events, gridEvent{NoData: true, Empty: empty})
}

type browseView struct {
	rows chan []presenter.BrowseRow
}

func (v *browseView) ShowRows(rows []presenter.BrowseRow) { offer(v.rows, rows) }

type detailsEvent struct {
	Details        *presenter.Details    `json:"details,omitempty"`
	Related        presenter.RelatedKind `json:"related,omitempty"`
	Added          []media.Work          `json:"added,omitempty"`
	NoMore         bool                  `json:"noMore,omitempty"`
	Favorite       *bool                 `json:"favorite,omitempty"`
	FavoriteFailed bool                  `json:"favoriteFailed,omitempty"`
}

type detailsView struct {
	events chan detailsEvent
}

func newDetailsView() *detailsView {
	return &detailsView{events: make(chan detailsEvent, eventBuffer)}
}

func (v *detailsView) ShowDetails(d presenter.Details) {
	offer(v.events, detailsEvent{Details: &d})
}

func (v *detailsView) ShowRelated(kind presenter.RelatedKind, added []media.Work) {
	if added == nil {
		added = []media.Work{}
	}
	offer(v.events, detailsEvent{Related: kind, Added: added})
}

func (v *detailsView) ShowNoMoreRelated(kind presenter.RelatedKind) {
	offer(v.events, detailsEvent{Related: kind, NoMore: true})
}

func (v *detailsView) ShowFavorite(favorite bool) {
	offer(v.events, detailsEvent{Favorite: &favorite})
}

func (v *detailsView) ShowFavoriteFailed() {
	offer(v.events, detailsEvent{FavoriteFailed: true})
}

type castView struct {
	people chan *media.Cast
}

func (v *castView) ShowCast(person media.Cast) { offer(v.people, &person) }

func (v *castView) ShowNoData() { offer(v.people, nil) }

type splashEvent struct {
	Missing []preferences.Permission `json:"missing"`
	Ready   bool                     `json:"ready"`
}

type splashView struct {
	events chan splashEvent
}

func (v *splashView) RequestPermissions(missing []preferences.Permission) {
	offer(v.events, splashEvent{Missing: missing})
}

func (v *splashView) NavigateToMain() {
	offer(v.events, splashEvent{Missing: []preferences.Permission{}, Ready: true})
}

type recommendationsView struct {
	cards chan []recommendation.Card
}

func (v *recommendationsView) ShowRecommendations(cards []recommendation.Card) { offer(v.cards, cards) }

func (v *recommendationsView) ShowNoData() { offer(v.cards, []recommendation.Card{}) }

// searchState is the latest rendering of a search screen. Version grows by
// one per view callback so clients can long-poll for changes.
type searchState struct {
	Version int          `json:"version"`
	Query   string       `json:"query"`
	Works   []media.Work `json:"works"`
	Added   []media.Work `json:"added,omitempty"`
	NoData  bool         `json:"noData"`
}

type searchView struct {
	mu      sync.Mutex
	state   searchState
	changed chan struct{}
}

func newSearchView() *searchView {
	return &searchView{
		state:   searchState{Works: []media.Work{}},
		changed: make(chan struct{}),
	}
}

func (v *searchView) update(fn func(s *searchState)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fn(&v.state)
	v.state.Version++
	close(v.changed)
	v.changed = make(chan struct{})
}

func (v *searchView) ShowResults(query string, update presenter.GridUpdate) {
	v.update(func(s *searchState) {
		s.Query, s.Works, s.Added, s.NoData = query, update.Works, update.Added, false
	})
}

func (v *searchView) ShowNoData(query string) {
	v.update(func(s *searchState) {
		if s.Query != query {
			s.Works = []media.Work{}
		}
		s.Query, s.Added, s.NoData = query, nil, true
	})
}

func (v *searchView) ClearResults() {
	v.update(func(s *searchState) {
		s.Query, s.Works, s.Added, s.NoData = "", []media.Work{}, nil, false
	})
}

func (v *searchView) version() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state.Version
}

// wait returns the state once its version is past after.
func (v *searchView) wait(ctx context.Context, after int) (searchState, error) {
	for {
		v.mu.Lock()
		if v.state.Version > after {
			s := v.state
			v.mu.Unlock()
			return s, nil
		}
		changed := v.changed
		v.mu.Unlock()

		select {
		case <-changed:
		case <-ctx.Done():
			return searchState{}, ctx.Err()
		}
	}
}
