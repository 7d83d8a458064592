package presenter

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/reeltv/reeltv/internal/dispatch"
	"github.com/reeltv/reeltv/internal/media"
)

// RowKind tells the browse view what a row opens.
type RowKind string

const (
	RowFavorites RowKind = "favorites"
	RowCategory  RowKind = "category"
	RowGenre     RowKind = "genre"
)

// BrowseRow is one entry of the browse screen.
type BrowseRow struct {
	Kind     RowKind        `json:"kind"`
	Title    string         `json:"title"`
	Category media.Category `json:"category,omitempty"`
	Genre    *media.Genre   `json:"genre,omitempty"`
}

// BrowseView renders the browse screen.
type BrowseView interface {
	ShowRows(rows []BrowseRow)
}

type browseData struct {
	movieGenres  []media.Genre
	tvGenres     []media.Genre
	hasFavorites bool
}

// BrowsePresenter builds the rows of the browse screen.
type BrowsePresenter struct {
	catalog Catalog
	exec    *dispatch.Executor
	logger  zerolog.Logger

	view  binding[BrowseView]
	scope *dispatch.Scope
}

// NewBrowsePresenter creates a presenter for the browse screen's rows.
func NewBrowsePresenter(catalog Catalog, exec *dispatch.Executor, logger zerolog.Logger) *BrowsePresenter {
	return &BrowsePresenter{
		catalog: catalog,
		exec:    exec,
		logger:  logger.With().Str("component", "browse").Logger(),
	}
}

// Attach binds v and loads the rows.
func (p *BrowsePresenter) Attach(v BrowseView) {
	if p.scope != nil {
		p.scope.Dispose()
	}
	p.scope = p.exec.NewScope(context.Background())
	p.view.attach(v)
	p.Refresh()
}

// Detach unbinds the view and cancels outstanding loads.
func (p *BrowsePresenter) Detach() {
	if p.scope != nil {
		p.scope.Dispose()
	}
	p.view.detach()
}

// Refresh reloads genres and the favorites marker and rebuilds the rows.
func (p *BrowsePresenter) Refresh() {
	if _, ok := p.view.get(); !ok {
		return
	}

	dispatch.Submit(p.scope, func(ctx context.Context) (browseData, error) {
		var data browseData
		dispatch.Join(
			func() {
				genres, err := p.catalog.GetGenres(ctx, media.TypeMovie)
				if err == nil {
					data.movieGenres = genres
				}
			},
			func() {
				genres, err := p.catalog.GetGenres(ctx, media.TypeTV)
				if err == nil {
					data.tvGenres = genres
				}
			},
			func() {
				data.hasFavorites = p.catalog.HasFavorite(ctx)
			},
		)
		return data, nil
	}, func(data browseData, _ error) {
		if v, ok := p.view.get(); ok {
			v.ShowRows(buildRows(data))
		}
	})
}

func buildRows(data browseData) []BrowseRow {
	rows := make([]BrowseRow, 0, 1+len(media.RemoteCategories)+len(data.movieGenres)+len(data.tvGenres))

	if data.hasFavorites {
		rows = append(rows, BrowseRow{
			Kind:     RowFavorites,
			Title:    media.CategoryFavorites.Title(),
			Category: media.CategoryFavorites,
		})
	}
	for _, c := range media.RemoteCategories {
		rows = append(rows, BrowseRow{Kind: RowCategory, Title: c.Title(), Category: c})
	}
	for _, genres := range [][]media.Genre{data.movieGenres, data.tvGenres} {
		for _, g := range genres {
			rows = append(rows, BrowseRow{Kind: RowGenre, Title: g.Name, Genre: &g})
		}
	}
	return rows
}
