// Package presenter holds the per-screen presentation logic. Every exported
// presenter method and every view callback runs on the dispatch UI loop.
package presenter

import (
	"context"

	"github.com/reeltv/reeltv/internal/media"
)

// Catalog is the data source presenters read from and write favorites to.
type Catalog interface {
	IsFavorite(ctx context.Context, w *media.Work) bool
	HasFavorite(ctx context.Context) bool
	SaveFavorite(ctx context.Context, w media.Work) bool
	DeleteFavorite(ctx context.Context, w media.Work) bool
	LoadWorkByType(ctx context.Context, page int, category media.Category) (*media.Page, error)
	GetWorkByGenre(ctx context.Context, genre media.Genre, page int) (*media.Page, error)
	GetGenres(ctx context.Context, source media.Type) ([]media.Genre, error)
	GetCastByWork(ctx context.Context, w media.Work) ([]media.Cast, error)
	GetRecommendationByWork(ctx context.Context, w media.Work, page int) (*media.Page, error)
	GetSimilarByWork(ctx context.Context, w media.Work, page int) (*media.Page, error)
	GetVideosByWork(ctx context.Context, w media.Work) ([]media.Video, error)
	GetCastDetails(ctx context.Context, id int) (*media.Cast, error)
	SearchWorksByQuery(ctx context.Context, query string, page int) (*media.Page, error)
}

// binding holds the view of a presenter in either the attached or the
// detached state.
type binding[V any] struct {
	view     V
	attached bool
}

func (b *binding[V]) attach(v V) {
	b.view = v
	b.attached = true
}

func (b *binding[V]) detach() {
	var zero V
	b.view = zero
	b.attached = false
}

// get returns the view only while attached.
func (b *binding[V]) get() (V, bool) {
	return b.view, b.attached
}
