package presenter

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/reeltv/reeltv/internal/dispatch"
	"github.com/reeltv/reeltv/internal/media"
)

// RelatedKind names one of the two related-works rows of the details screen.
type RelatedKind string

const (
	RelatedRecommendations RelatedKind = "recommendations"
	RelatedSimilar         RelatedKind = "similar"
)

// Details is the joined content of the details screen. A nil slice means
// that branch failed; a loaded but empty branch is a non-nil empty slice.
type Details struct {
	Work            media.Work    `json:"work"`
	Cast            []media.Cast  `json:"cast"`
	Recommendations []media.Work  `json:"recommendations"`
	Similar         []media.Work  `json:"similar"`
	Videos          []media.Video `json:"videos"`
}

// DetailsView renders the details screen.
type DetailsView interface {
	// ShowDetails is called once per attach, after all branches finished.
	ShowDetails(d Details)
	// ShowRelated delivers works appended to a related row.
	ShowRelated(kind RelatedKind, added []media.Work)
	// ShowNoMoreRelated signals that a related row cannot grow right now.
	ShowNoMoreRelated(kind RelatedKind)
	// ShowFavorite relabels the favorite action.
	ShowFavorite(favorite bool)
	// ShowFavoriteFailed reports a toggle whose persistence failed.
	ShowFavoriteFailed()
}

// relatedRow is the paginated state of one related row.
type relatedRow struct {
	kind  RelatedKind
	pager Pager
	list  WorkList
}

// DetailsPresenter drives the details screen of one work.
type DetailsPresenter struct {
	catalog Catalog
	exec    *dispatch.Executor
	logger  zerolog.Logger

	work            media.Work
	recommendations relatedRow
	similar         relatedRow
	toggling        bool

	view  binding[DetailsView]
	scope *dispatch.Scope
}

// NewDetailsPresenter creates a presenter for the details screen of work.
func NewDetailsPresenter(catalog Catalog, exec *dispatch.Executor, work media.Work, logger zerolog.Logger) *DetailsPresenter {
	return &DetailsPresenter{
		catalog:         catalog,
		exec:            exec,
		work:            work,
		recommendations: relatedRow{kind: RelatedRecommendations},
		similar:         relatedRow{kind: RelatedSimilar},
		logger:          logger.With().Str("component", "details").Int("id", work.ID).Logger(),
	}
}

// Work returns the work shown, including its current favorite state.
func (p *DetailsPresenter) Work() media.Work {
	return p.work
}

// Attach binds v and loads everything shown on the screen.
func (p *DetailsPresenter) Attach(v DetailsView) {
	if p.scope != nil {
		p.scope.Dispose()
	}
	p.scope = p.exec.NewScope(context.Background())
	p.view.attach(v)
	p.toggling = false
	p.recommendations = relatedRow{kind: RelatedRecommendations}
	p.similar = relatedRow{kind: RelatedSimilar}

	p.recommendations.pager.Next()
	p.similar.pager.Next()

	type joined struct {
		favorite bool
		cast     []media.Cast
		recs     *media.Page
		recsErr  error
		similar  *media.Page
		simErr   error
		videos   []media.Video
	}

	work := p.work
	dispatch.Submit(p.scope, func(ctx context.Context) (joined, error) {
		var j joined
		dispatch.Join(
			func() {
				w := work
				j.favorite = p.catalog.IsFavorite(ctx, &w)
			},
			func() {
				cast, err := p.catalog.GetCastByWork(ctx, work)
				if err == nil {
					j.cast = nonNil(cast)
				}
			},
			func() {
				j.recs, j.recsErr = p.catalog.GetRecommendationByWork(ctx, work, 1)
			},
			func() {
				j.similar, j.simErr = p.catalog.GetSimilarByWork(ctx, work, 1)
			},
			func() {
				videos, err := p.catalog.GetVideosByWork(ctx, work)
				if err == nil {
					j.videos = nonNil(videos)
				}
			},
		)
		return j, nil
	}, func(j joined, _ error) {
		p.work.Favorite = j.favorite
		d := Details{
			Work:            p.work,
			Cast:            j.cast,
			Videos:          j.videos,
			Recommendations: p.recommendations.acceptFirst(j.recs, j.recsErr),
			Similar:         p.similar.acceptFirst(j.similar, j.simErr),
		}
		if v, ok := p.view.get(); ok {
			v.ShowDetails(d)
		}
	})
}

// Detach unbinds the view and cancels outstanding loads.
func (p *DetailsPresenter) Detach() {
	if p.scope != nil {
		p.scope.Dispose()
	}
	p.view.detach()
}

// LoadMoreRecommendations requests the next recommendations page. It
// reports false when a request for the row is already in flight.
func (p *DetailsPresenter) LoadMoreRecommendations() bool {
	return p.loadMore(&p.recommendations, p.catalog.GetRecommendationByWork)
}

// LoadMoreSimilar requests the next similar-works page. It reports false when
// a request for the row is already in flight.
func (p *DetailsPresenter) LoadMoreSimilar() bool {
	return p.loadMore(&p.similar, p.catalog.GetSimilarByWork)
}

// OnRelatedItemSelected loads more of a row when its last item is focused.
func (p *DetailsPresenter) OnRelatedItemSelected(kind RelatedKind, position int) {
	switch kind {
	case RelatedRecommendations:
		if position >= p.recommendations.list.Len()-1 {
			p.LoadMoreRecommendations()
		}
	case RelatedSimilar:
		if position >= p.similar.list.Len()-1 {
			p.LoadMoreSimilar()
		}
	}
}

// RecommendationsPage returns the last loaded recommendations page.
func (p *DetailsPresenter) RecommendationsPage() int { return p.recommendations.pager.Current() }

// SimilarPage returns the last loaded similar-works page.
func (p *DetailsPresenter) SimilarPage() int { return p.similar.pager.Current() }

func (p *DetailsPresenter) loadMore(row *relatedRow, fetch func(context.Context, media.Work, int) (*media.Page, error)) bool {
	v, ok := p.view.get()
	if !ok {
		return false
	}
	page, ok := row.pager.Next()
	if !ok {
		if row.pager.Exhausted() {
			v.ShowNoMoreRelated(row.kind)
			return true
		}
		return false
	}

	work := p.work
	dispatch.Submit(p.scope, func(ctx context.Context) (*media.Page, error) {
		return fetch(ctx, work, page)
	}, func(pg *media.Page, err error) {
		if err != nil {
			row.pager.Fail()
			v.ShowNoMoreRelated(row.kind)
			return
		}
		if !row.pager.Accept(pg) {
			v.ShowNoMoreRelated(row.kind)
			return
		}
		v.ShowRelated(row.kind, row.list.Append(pg.Results))
	})
	return true
}

// ToggleFavorite saves or deletes the work depending on its current state.
// The state flips only when persistence succeeds. A toggle issued while
// another is in flight is ignored and reported as false.
func (p *DetailsPresenter) ToggleFavorite() bool {
	v, ok := p.view.get()
	if !ok || p.toggling {
		return false
	}
	p.toggling = true

	work := p.work
	dispatch.Submit(p.scope, func(ctx context.Context) (bool, error) {
		if work.Favorite {
			return p.catalog.DeleteFavorite(ctx, work), nil
		}
		return p.catalog.SaveFavorite(ctx, work), nil
	}, func(saved bool, _ error) {
		p.toggling = false
		if !saved {
			p.logger.Debug().Bool("favorite", work.Favorite).Msg("Favorite toggle failed")
			v.ShowFavoriteFailed()
			return
		}
		p.work.Favorite = !work.Favorite
		v.ShowFavorite(p.work.Favorite)
	})
	return true
}

// acceptFirst applies the first page of a row loaded during the join.
func (r *relatedRow) acceptFirst(page *media.Page, err error) []media.Work {
	if err != nil {
		r.pager.Fail()
		return nil
	}
	r.pager.Accept(page)
	return nonNil(r.list.Append(pageResults(page)))
}

func pageResults(p *media.Page) []media.Work {
	if p == nil || !p.HasData() {
		return nil
	}
	return p.Results
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
