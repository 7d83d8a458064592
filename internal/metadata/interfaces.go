package metadata

import (
	"context"

	"github.com/reeltv/reeltv/internal/media"
)

// TMDBClient defines the TMDb operations the catalog needs. It is satisfied
// by tmdb.Client and by the offline mock.TMDBClient.
type TMDBClient interface {
	Name() string
	IsConfigured() bool
	Test(ctx context.Context) error
	Genres(ctx context.Context, source media.Type) ([]media.Genre, error)
	MovieList(ctx context.Context, list string, page int) (*media.Page, error)
	TVList(ctx context.Context, list string, page int) (*media.Page, error)
	Discover(ctx context.Context, mediaType media.Type, genreID, page int) (*media.Page, error)
	Recommendations(ctx context.Context, mediaType media.Type, id, page int) (*media.Page, error)
	Similar(ctx context.Context, mediaType media.Type, id, page int) (*media.Page, error)
	Credits(ctx context.Context, mediaType media.Type, id int) ([]media.Cast, error)
	Videos(ctx context.Context, mediaType media.Type, id int) ([]media.Video, error)
	Person(ctx context.Context, id int) (*media.Cast, error)
	SearchMulti(ctx context.Context, query string, page int) (*media.Page, error)
	ImageURL(path, size string) string
}
