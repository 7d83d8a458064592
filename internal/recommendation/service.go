// Package recommendation publishes home-screen recommendation cards built
// from a catalog category.
package recommendation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/reeltv/reeltv/internal/media"
	"github.com/reeltv/reeltv/internal/metadata"
)

// DefaultLimit is the number of cards published per refresh.
const DefaultLimit = 5

// historySize bounds the in-memory card history.
const historySize = 50

// ErrRefreshInProgress is returned when Refresh is called while another refresh runs.
var ErrRefreshInProgress = errors.New("recommendation refresh already running")

// WorkSource supplies the works to recommend.
type WorkSource interface {
	LoadWorkByType(ctx context.Context, page int, category media.Category) (*media.Page, error)
	ImageURL(path, size string) string
}

// BitmapLoader fetches and validates a work's artwork.
type BitmapLoader interface {
	LoadBitmap(ctx context.Context, w media.Work, artworkType metadata.ArtworkType) (*metadata.Bitmap, error)
}

// Service builds and publishes recommendation cards.
type Service struct {
	source     WorkSource
	images     BitmapLoader
	category   media.Category
	limit      int
	publishers []Publisher
	history    *RingBuffer[Card]
	logger     zerolog.Logger

	running sync.Mutex
	mu      sync.RWMutex
	latest  []Card
}

// NewService creates a service publishing up to limit cards from category.
func NewService(source WorkSource, images BitmapLoader, category media.Category, limit int, logger zerolog.Logger) *Service {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if category == "" {
		category = media.CategoryMoviePopular
	}
	return &Service{
		source:   source,
		images:   images,
		category: category,
		limit:    limit,
		history:  NewRingBuffer[Card](historySize),
		logger:   logger.With().Str("component", "recommendation").Logger(),
	}
}

// AddPublisher registers a destination for published cards.
// It must be called before the first Refresh.
func (s *Service) AddPublisher(p Publisher) {
	s.publishers = append(s.publishers, p)
}

// Refresh loads the first page of the configured category and publishes one
// card per work whose poster loads, up to the configured limit.
func (s *Service) Refresh(ctx context.Context) ([]Card, error) {
	if !s.running.TryLock() {
		return nil, ErrRefreshInProgress
	}
	defer s.running.Unlock()

	page, err := s.source.LoadWorkByType(ctx, 1, s.category)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", s.category, err)
	}

	cards := make([]Card, 0, s.limit)
	for _, w := range page.Results {
		if len(cards) >= s.limit {
			break
		}
		if ctx.Err() != nil {
			return cards, ctx.Err()
		}

		bmp, err := s.images.LoadBitmap(ctx, w, metadata.ArtworkTypePoster)
		if err != nil {
			s.logger.Warn().Err(err).Int("workId", w.ID).Str("title", w.Title).Msg("Skipping recommendation without poster")
			continue
		}

		card := newCard(w, s.source.ImageURL(w.PosterPath, metadata.PosterSize), bmp.Path, bmp.Width, bmp.Height, s.limit-len(cards))
		s.publish(ctx, card)
		s.history.Push(card)
		cards = append(cards, card)
	}

	s.mu.Lock()
	s.latest = cards
	s.mu.Unlock()

	s.logger.Info().Str("category", string(s.category)).Int("published", len(cards)).Msg("Recommendations refreshed")
	return cards, nil
}

func (s *Service) publish(ctx context.Context, card Card) {
	for _, p := range s.publishers {
		if err := p.Publish(ctx, card); err != nil {
			s.logger.Warn().Err(err).Str("publisher", p.Name()).Int("workId", card.Work.ID).Msg("Failed to publish recommendation")
		}
	}
}

// Latest returns the cards of the last successful refresh.
func (s *Service) Latest() []Card {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Card, len(s.latest))
	copy(out, s.latest)
	return out
}

// History returns previously published cards, newest first.
func (s *Service) History(n int) []Card {
	return s.history.Last(n)
}

// Category returns the category cards are drawn from.
func (s *Service) Category() media.Category {
	return s.category
}
