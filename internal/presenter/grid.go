package presenter

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/reeltv/reeltv/internal/dispatch"
	"github.com/reeltv/reeltv/internal/media"
)

// GridView renders an infinitely scrolling grid of works.
type GridView interface {
	// ShowWorks is called with the full list after every change.
	ShowWorks(update GridUpdate)
	// ShowNoData signals that nothing more can be loaded right now. empty is
	// true when the grid has no items at all.
	ShowNoData(empty bool)
}

// GridUpdate describes one change of a grid.
type GridUpdate struct {
	Works   []media.Work `json:"works"`
	Added   []media.Work `json:"added"`
	Removed []media.Work `json:"removed,omitempty"`
	Page    int          `json:"page"`
}

type pageFetcher func(ctx context.Context, page int) (*media.Page, error)

// grid is the pagination state machine shared by the category and genre
// grids.
type grid struct {
	exec   *dispatch.Executor
	fetch  pageFetcher
	logger zerolog.Logger

	// replace reloads the whole list on every trigger instead of paging.
	replace   bool
	reloading bool

	pager Pager
	list  WorkList
	view  binding[GridView]
	scope *dispatch.Scope
}

func (g *grid) attach(v GridView) {
	g.release()
	g.scope = g.exec.NewScope(context.Background())
	g.view.attach(v)
	if g.list.Len() > 0 {
		v.ShowWorks(GridUpdate{Works: g.list.Items(), Page: g.pager.Current()})
	}
	g.loadMore()
}

func (g *grid) detach() {
	g.release()
	g.view.detach()
}

// release drops the current scope together with any load it was running.
// Dropped callbacks never run, so their in-flight flags are cleared here.
func (g *grid) release() {
	if g.scope != nil {
		g.scope.Dispose()
	}
	g.reloading = false
	if g.pager.Loading() {
		g.pager.Fail()
	}
}

// loadMore reports whether the view will hear back. It stays silent while a
// load is already in flight.
func (g *grid) loadMore() bool {
	v, ok := g.view.get()
	if !ok {
		return false
	}
	if g.replace {
		return g.reload()
	}

	page, ok := g.pager.Next()
	if !ok {
		if g.pager.Exhausted() {
			v.ShowNoData(g.list.Len() == 0)
			return true
		}
		return false
	}

	dispatch.Submit(g.scope, func(ctx context.Context) (*media.Page, error) {
		return g.fetch(ctx, page)
	}, func(p *media.Page, err error) {
		if err != nil {
			g.pager.Fail()
			g.logger.Debug().Err(err).Int("page", page).Msg("Page load failed")
			v.ShowNoData(g.list.Len() == 0)
			return
		}
		if !g.pager.Accept(p) {
			v.ShowNoData(g.list.Len() == 0)
			return
		}
		added := g.list.Append(p.Results)
		v.ShowWorks(GridUpdate{Works: g.list.Items(), Added: added, Page: g.pager.Current()})
	})
	return true
}

func (g *grid) reload() bool {
	if g.reloading {
		return false
	}
	g.reloading = true
	v, _ := g.view.get()

	dispatch.Submit(g.scope, func(ctx context.Context) (*media.Page, error) {
		return g.fetch(ctx, 1)
	}, func(p *media.Page, err error) {
		g.reloading = false
		if err != nil {
			g.logger.Debug().Err(err).Msg("Reload failed")
			v.ShowNoData(g.list.Len() == 0)
			return
		}

		var works []media.Work
		if p != nil {
			works = p.Results
		}
		added, removed := g.list.Replace(works)
		if g.list.Len() == 0 {
			if len(removed) > 0 {
				v.ShowWorks(GridUpdate{Works: g.list.Items(), Removed: removed, Page: 1})
			}
			v.ShowNoData(true)
			return
		}
		v.ShowWorks(GridUpdate{Works: g.list.Items(), Added: added, Removed: removed, Page: 1})
	})
	return true
}

// onItemSelected loads more once the selection is within one row of the end
// and reports whether it did.
func (g *grid) onItemSelected(position, columns int) bool {
	if columns < 1 {
		columns = 1
	}
	if position < g.list.Len()-columns {
		return false
	}
	return g.loadMore()
}

// onFavoriteChanged updates the flag of a loaded work in place. The view sees
// it with the next update.
func (g *grid) onFavoriteChanged(w media.Work) {
	g.list.SetFavorite(w.ID, w.Favorite)
}

// GridPresenter drives the grid of one category.
type GridPresenter struct {
	grid
	category media.Category
}

// NewGridPresenter creates a presenter for category.
func NewGridPresenter(catalog Catalog, exec *dispatch.Executor, category media.Category, logger zerolog.Logger) *GridPresenter {
	p := &GridPresenter{category: category}
	p.grid = grid{
		exec: exec,
		fetch: func(ctx context.Context, page int) (*media.Page, error) {
			return catalog.LoadWorkByType(ctx, page, category)
		},
		replace: category.IsFavorites(),
		logger:  logger.With().Str("component", "grid").Str("category", string(category)).Logger(),
	}
	return p
}

// Category returns the category shown by the grid.
func (p *GridPresenter) Category() media.Category { return p.category }

// Attach binds v and loads the first page.
func (p *GridPresenter) Attach(v GridView) { p.attach(v) }

// Detach unbinds the view and cancels outstanding loads.
func (p *GridPresenter) Detach() { p.detach() }

// LoadMore requests the next page, or reloads favorites, and reports whether
// the view will be updated.
func (p *GridPresenter) LoadMore() bool { return p.loadMore() }

// OnItemSelected reports the focused position in a grid with columns columns.
func (p *GridPresenter) OnItemSelected(position, columns int) bool {
	return p.onItemSelected(position, columns)
}

// OnFavoriteChanged applies a favorite toggled on another screen.
func (p *GridPresenter) OnFavoriteChanged(w media.Work) { p.onFavoriteChanged(w) }

// Works returns the loaded works.
func (p *GridPresenter) Works() []media.Work { return p.list.Items() }

// CurrentPage returns the last loaded page.
func (p *GridPresenter) CurrentPage() int { return p.pager.Current() }

// GenreGridPresenter drives the grid of one genre.
type GenreGridPresenter struct {
	grid
	genre media.Genre
}

// NewGenreGridPresenter creates a presenter for genre.
func NewGenreGridPresenter(catalog Catalog, exec *dispatch.Executor, genre media.Genre, logger zerolog.Logger) *GenreGridPresenter {
	p := &GenreGridPresenter{genre: genre}
	p.grid = grid{
		exec: exec,
		fetch: func(ctx context.Context, page int) (*media.Page, error) {
			return catalog.GetWorkByGenre(ctx, genre, page)
		},
		logger: logger.With().Str("component", "grid").Int("genreId", genre.ID).Logger(),
	}
	return p
}

// Genre returns the genre shown by the grid.
func (p *GenreGridPresenter) Genre() media.Genre { return p.genre }

// Attach binds v and loads the first page.
func (p *GenreGridPresenter) Attach(v GridView) { p.attach(v) }

// Detach unbinds the view and cancels outstanding loads.
func (p *GenreGridPresenter) Detach() { p.detach() }

// LoadMore requests the next page and reports whether the view will be
// updated.
func (p *GenreGridPresenter) LoadMore() bool { return p.loadMore() }

// OnItemSelected reports the focused position in a grid with columns columns.
func (p *GenreGridPresenter) OnItemSelected(position, columns int) bool {
	return p.onItemSelected(position, columns)
}

// OnFavoriteChanged applies a favorite toggled on another screen.
func (p *GenreGridPresenter) OnFavoriteChanged(w media.Work) { p.onFavoriteChanged(w) }

// Works returns the loaded works.
func (p *GenreGridPresenter) Works() []media.Work { return p.list.Items() }

// CurrentPage returns the last loaded page.
func (p *GenreGridPresenter) CurrentPage() int { return p.pager.Current() }
