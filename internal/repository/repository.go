// Package repository combines the TMDb client and the local favorites store
// behind the single data source the presenters use.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/reeltv/reeltv/internal/favorites"
	"github.com/reeltv/reeltv/internal/media"
	"github.com/reeltv/reeltv/internal/metadata"
)

// FavoriteStore is the local persistence the repository needs.
type FavoriteStore interface {
	Get(ctx context.Context, id int) (media.Work, error)
	List(ctx context.Context) ([]media.Work, error)
	Count(ctx context.Context) (int, error)
	Save(ctx context.Context, w media.Work) error
	Delete(ctx context.Context, id int) error
}

// Repository is the single data source for presenters. Fetch methods return
// errors so callers can log them; favorite operations report success as a
// bool and never fail loudly.
type Repository struct {
	remote    metadata.TMDBClient
	favorites FavoriteStore
	cache     metadata.Cache
	genreTTL  time.Duration
	logger    zerolog.Logger
}

// New creates a repository. cache may be nil, in which case genre lists are
// fetched on every call.
func New(remote metadata.TMDBClient, store FavoriteStore, cache metadata.Cache, genreTTL time.Duration, logger zerolog.Logger) *Repository {
	return &Repository{
		remote:    remote,
		favorites: store,
		cache:     cache,
		genreTTL:  genreTTL,
		logger:    logger.With().Str("component", "repository").Logger(),
	}
}

// IsFavorite reports whether w is stored locally. When it is, the stored id
// is copied back onto w.
func (r *Repository) IsFavorite(ctx context.Context, w *media.Work) bool {
	stored, err := r.favorites.Get(ctx, w.ID)
	if err != nil {
		if !errors.Is(err, favorites.ErrNotFound) {
			r.logger.Warn().Err(err).Int("id", w.ID).Msg("Failed to look up favorite")
		}
		return false
	}
	w.ID = stored.ID
	return true
}

// HasFavorite reports whether at least one favorite is stored.
func (r *Repository) HasFavorite(ctx context.Context) bool {
	n, err := r.favorites.Count(ctx)
	if err != nil {
		r.logger.Warn().Err(err).Msg("Failed to count favorites")
		return false
	}
	return n > 0
}

// SaveFavorite stores w and reports success.
func (r *Repository) SaveFavorite(ctx context.Context, w media.Work) bool {
	if err := r.favorites.Save(ctx, w); err != nil {
		r.logger.Error().Err(err).Int("id", w.ID).Msg("Failed to save favorite")
		return false
	}
	return true
}

// DeleteFavorite removes w and reports success. Removing a work that is not
// stored counts as success.
func (r *Repository) DeleteFavorite(ctx context.Context, w media.Work) bool {
	err := r.favorites.Delete(ctx, w.ID)
	if err != nil && !errors.Is(err, favorites.ErrNotFound) {
		r.logger.Error().Err(err).Int("id", w.ID).Msg("Failed to delete favorite")
		return false
	}
	return true
}

// LoadWorkByType loads one page of a category. Favorites come from the local
// store as a single page; every other category is one remote call.
func (r *Repository) LoadWorkByType(ctx context.Context, page int, category media.Category) (*media.Page, error) {
	if category.IsFavorites() {
		works, err := r.favorites.List(ctx)
		if err != nil {
			r.logger.Warn().Err(err).Msg("Failed to list favorites")
			return nil, err
		}
		return &media.Page{Page: 1, TotalPages: 1, TotalResults: len(works), Results: works}, nil
	}

	mediaType, list, ok := category.Remote()
	if !ok {
		return nil, fmt.Errorf("%w: %q", media.ErrUnknownCategory, category)
	}

	var (
		p   *media.Page
		err error
	)
	switch mediaType {
	case media.TypeMovie:
		p, err = r.remote.MovieList(ctx, list, page)
	default:
		p, err = r.remote.TVList(ctx, list, page)
	}
	return r.markPage(ctx, p, err, "category", string(category))
}

// GetWorkByGenre loads one page of works in a genre, routed by its source.
func (r *Repository) GetWorkByGenre(ctx context.Context, genre media.Genre, page int) (*media.Page, error) {
	if !genre.Source.Valid() {
		return nil, fmt.Errorf("genre %d: %w", genre.ID, media.ErrUnknownType)
	}
	p, err := r.remote.Discover(ctx, genre.Source, genre.ID, page)
	return r.markPage(ctx, p, err, "genre", genre.Name)
}

// GetGenres returns the genres of a catalog, served from cache when possible.
func (r *Repository) GetGenres(ctx context.Context, source media.Type) ([]media.Genre, error) {
	key := genresKey(source)

	if r.cache != nil {
		if raw, ok := r.cache.Get(ctx, key); ok {
			var genres []media.Genre
			if err := json.Unmarshal([]byte(raw), &genres); err == nil {
				return genres, nil
			}
			_ = r.cache.Delete(ctx, key)
		}
	}

	genres, err := r.remote.Genres(ctx, source)
	if err != nil {
		r.logger.Warn().Err(err).Str("source", string(source)).Msg("Failed to load genres")
		return nil, err
	}

	if r.cache != nil && len(genres) > 0 {
		if raw, err := json.Marshal(genres); err == nil {
			if err := r.cache.Set(ctx, key, string(raw), r.genreTTL); err != nil {
				r.logger.Debug().Err(err).Str("key", key).Msg("Failed to cache genres")
			}
		}
	}
	return genres, nil
}

// InvalidateGenres drops the cached genre lists, e.g. after the catalog
// language changed.
func (r *Repository) InvalidateGenres(ctx context.Context) {
	if r.cache == nil {
		return
	}
	for _, source := range []media.Type{media.TypeMovie, media.TypeTV} {
		if err := r.cache.Delete(ctx, genresKey(source)); err != nil {
			r.logger.Debug().Err(err).Str("source", string(source)).Msg("Failed to drop cached genres")
		}
	}
}

func genresKey(source media.Type) string {
	return "genres:" + string(source)
}

// GetCastByWork returns the billed cast of w.
func (r *Repository) GetCastByWork(ctx context.Context, w media.Work) ([]media.Cast, error) {
	cast, err := r.remote.Credits(ctx, w.Type, w.ID)
	if err != nil {
		r.logger.Warn().Err(err).Int("id", w.ID).Msg("Failed to load cast")
	}
	return cast, err
}

// GetRecommendationByWork loads one page of recommendations for w.
func (r *Repository) GetRecommendationByWork(ctx context.Context, w media.Work, page int) (*media.Page, error) {
	p, err := r.remote.Recommendations(ctx, w.Type, w.ID, page)
	return r.markPage(ctx, p, err, "recommendations", w.Title)
}

// GetSimilarByWork loads one page of works similar to w.
func (r *Repository) GetSimilarByWork(ctx context.Context, w media.Work, page int) (*media.Page, error) {
	p, err := r.remote.Similar(ctx, w.Type, w.ID, page)
	return r.markPage(ctx, p, err, "similar", w.Title)
}

// GetVideosByWork returns trailers and clips for w.
func (r *Repository) GetVideosByWork(ctx context.Context, w media.Work) ([]media.Video, error) {
	videos, err := r.remote.Videos(ctx, w.Type, w.ID)
	if err != nil {
		r.logger.Warn().Err(err).Int("id", w.ID).Msg("Failed to load videos")
	}
	return videos, err
}

// GetCastDetails returns person details for a cast member.
func (r *Repository) GetCastDetails(ctx context.Context, id int) (*media.Cast, error) {
	person, err := r.remote.Person(ctx, id)
	if err != nil {
		r.logger.Warn().Err(err).Int("personId", id).Msg("Failed to load cast details")
	}
	return person, err
}

// SearchWorksByQuery searches movies and shows.
func (r *Repository) SearchWorksByQuery(ctx context.Context, query string, page int) (*media.Page, error) {
	p, err := r.remote.SearchMulti(ctx, query, page)
	return r.markPage(ctx, p, err, "search", query)
}

// ImageURL resolves a TMDb image path.
func (r *Repository) ImageURL(path, size string) string {
	return r.remote.ImageURL(path, size)
}

// markPage logs fetch failures and flags results that are stored favorites.
func (r *Repository) markPage(ctx context.Context, p *media.Page, err error, kind, name string) (*media.Page, error) {
	if err != nil {
		r.logger.Warn().Err(err).Str(kind, name).Msg("Remote fetch failed")
		return nil, err
	}
	if p == nil || len(p.Results) == 0 {
		return p, nil
	}

	stored, err := r.favorites.List(ctx)
	if err != nil {
		r.logger.Debug().Err(err).Msg("Skipping favorite marks")
		return p, nil
	}
	ids := make(map[int]struct{}, len(stored))
	for _, w := range stored {
		ids[w.ID] = struct{}{}
	}
	for i := range p.Results {
		_, p.Results[i].Favorite = ids[p.Results[i].ID]
	}
	return p, nil
}
