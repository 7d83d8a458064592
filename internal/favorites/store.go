// Package favorites persists the works the user marked as favorite.
package favorites

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/reeltv/reeltv/internal/database/sqlc"
	"github.com/reeltv/reeltv/internal/media"
)

// ErrNotFound is returned when no favorite row exists for an id.
var ErrNotFound = errors.New("favorite not found")

// Store reads and writes favorite rows.
type Store struct {
	queries *sqlc.Queries
	logger  zerolog.Logger
}

// NewStore creates a favorites store on db.
func NewStore(db *sql.DB, logger zerolog.Logger) *Store {
	return &Store{
		queries: sqlc.New(db),
		logger:  logger.With().Str("component", "favorites").Logger(),
	}
}

// Get returns the stored favorite with the given id.
func (s *Store) Get(ctx context.Context, id int) (media.Work, error) {
	row, err := s.queries.GetFavorite(ctx, int64(id))
	if errors.Is(err, sql.ErrNoRows) {
		return media.Work{}, ErrNotFound
	}
	if err != nil {
		return media.Work{}, fmt.Errorf("get favorite %d: %w", id, err)
	}
	return rowToWork(row), nil
}

// List returns every favorite, newest first.
func (s *Store) List(ctx context.Context) ([]media.Work, error) {
	rows, err := s.queries.ListFavorites(ctx)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}

	works := make([]media.Work, 0, len(rows))
	for _, row := range rows {
		works = append(works, rowToWork(row))
	}
	return works, nil
}

// Save inserts w, or refreshes the stored copy when it already exists.
func (s *Store) Save(ctx context.Context, w media.Work) error {
	if !w.Type.Valid() {
		return fmt.Errorf("save favorite %d: %w", w.ID, media.ErrUnknownType)
	}

	_, err := s.queries.CreateFavorite(ctx, sqlc.CreateFavoriteParams{
		ID:            int64(w.ID),
		MediaType:     string(w.Type),
		Title:         w.Title,
		OriginalTitle: w.OriginalTitle,
		Overview:      w.Overview,
		ReleaseDate:   w.ReleaseDate,
		PosterPath:    w.PosterPath,
		BackdropPath:  w.BackdropPath,
		VoteAverage:   w.VoteAverage,
		VoteCount:     int64(w.VoteCount),
		Popularity:    w.Popularity,
	})
	if err != nil {
		return fmt.Errorf("save favorite %d: %w", w.ID, err)
	}

	s.logger.Debug().Int("id", w.ID).Str("title", w.Title).Msg("Saved favorite")
	return nil
}

// Delete removes the favorite with the given id. Deleting a work that is
// not stored returns ErrNotFound.
func (s *Store) Delete(ctx context.Context, id int) error {
	n, err := s.queries.DeleteFavorite(ctx, int64(id))
	if err != nil {
		return fmt.Errorf("delete favorite %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}

	s.logger.Debug().Int("id", id).Msg("Deleted favorite")
	return nil
}

// Count returns the number of stored favorites.
func (s *Store) Count(ctx context.Context) (int, error) {
	n, err := s.queries.CountFavorites(ctx)
	if err != nil {
		return 0, fmt.Errorf("count favorites: %w", err)
	}
	return int(n), nil
}

func rowToWork(row sqlc.Favorite) media.Work {
	return media.Work{
		ID:            int(row.ID),
		Type:          media.Type(row.MediaType),
		Title:         row.Title,
		OriginalTitle: row.OriginalTitle,
		Overview:      row.Overview,
		ReleaseDate:   row.ReleaseDate,
		PosterPath:    row.PosterPath,
		BackdropPath:  row.BackdropPath,
		VoteAverage:   row.VoteAverage,
		VoteCount:     int(row.VoteCount),
		Popularity:    row.Popularity,
		Favorite:      true,
	}
}
