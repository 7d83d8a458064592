// Package mock provides an offline TMDb catalog for developer mode and tests.
package mock

import (
	"context"
	"fmt"
	"strings"

	"github.com/reeltv/reeltv/internal/media"
	"github.com/reeltv/reeltv/internal/metadata/tmdb"
)

// PageSize is the number of results per mock page.
const PageSize = 5

// TMDBClient serves a fixed catalog with the same paging rules as TMDb.
type TMDBClient struct{}

// NewTMDBClient creates a new mock TMDB client.
func NewTMDBClient() *TMDBClient {
	return &TMDBClient{}
}

func (c *TMDBClient) Name() string {
	return "tmdb-mock"
}

func (c *TMDBClient) IsConfigured() bool {
	return true
}

func (c *TMDBClient) Test(ctx context.Context) error {
	return nil
}

func (c *TMDBClient) ImageURL(path, size string) string {
	if path == "" {
		return ""
	}
	return "https://image.tmdb.org/t/p/" + size + path
}

func (c *TMDBClient) Genres(ctx context.Context, source media.Type) ([]media.Genre, error) {
	switch source {
	case media.TypeMovie:
		return tagGenres(mockMovieGenres, source), nil
	case media.TypeTV:
		return tagGenres(mockTVGenres, source), nil
	default:
		return nil, media.ErrUnknownType
	}
}

func (c *TMDBClient) MovieList(ctx context.Context, list string, page int) (*media.Page, error) {
	switch list {
	case "popular", "now_playing":
		return paginate(mockMovies, page), nil
	case "top_rated":
		return paginate(sortedByVote(mockMovies), page), nil
	case "upcoming":
		return paginate(mockMovies[len(mockMovies)-3:], page), nil
	default:
		return nil, fmt.Errorf("%w: movie/%s", tmdb.ErrInvalidList, list)
	}
}

func (c *TMDBClient) TVList(ctx context.Context, list string, page int) (*media.Page, error) {
	switch list {
	case "popular", "on_the_air", "airing_today":
		return paginate(mockSeries, page), nil
	case "top_rated":
		return paginate(sortedByVote(mockSeries), page), nil
	default:
		return nil, fmt.Errorf("%w: tv/%s", tmdb.ErrInvalidList, list)
	}
}

func (c *TMDBClient) Discover(ctx context.Context, mediaType media.Type, genreID, page int) (*media.Page, error) {
	var source []media.Work
	switch mediaType {
	case media.TypeMovie:
		source = mockMovies
	case media.TypeTV:
		source = mockSeries
	default:
		return nil, media.ErrUnknownType
	}

	var matched []media.Work
	for _, w := range source {
		for _, id := range w.GenreIDs {
			if id == genreID {
				matched = append(matched, w)
				break
			}
		}
	}
	return paginate(matched, page), nil
}

func (c *TMDBClient) Recommendations(ctx context.Context, mediaType media.Type, id, page int) (*media.Page, error) {
	w, err := find(mediaType, id)
	if err != nil {
		return nil, err
	}
	return c.Discover(ctx, mediaType, firstGenre(w), page)
}

func (c *TMDBClient) Similar(ctx context.Context, mediaType media.Type, id, page int) (*media.Page, error) {
	w, err := find(mediaType, id)
	if err != nil {
		return nil, err
	}
	p, err := c.Discover(ctx, mediaType, lastGenre(w), page)
	if err != nil {
		return nil, err
	}
	p.Results = without(p.Results, id)
	return p, nil
}

func (c *TMDBClient) Credits(ctx context.Context, mediaType media.Type, id int) ([]media.Cast, error) {
	if _, err := find(mediaType, id); err != nil {
		return nil, err
	}
	if cast, ok := mockCredits[id]; ok {
		return cast, nil
	}
	return defaultCredits, nil
}

func (c *TMDBClient) Videos(ctx context.Context, mediaType media.Type, id int) ([]media.Video, error) {
	if _, err := find(mediaType, id); err != nil {
		return nil, err
	}
	return mockVideos[id], nil
}

func (c *TMDBClient) Person(ctx context.Context, id int) (*media.Cast, error) {
	for _, p := range mockPeople {
		if p.ID == id {
			person := p
			return &person, nil
		}
	}
	return nil, tmdb.ErrNotFound
}

func (c *TMDBClient) SearchMulti(ctx context.Context, query string, page int) (*media.Page, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	var results []media.Work
	for _, w := range append(append([]media.Work{}, mockMovies...), mockSeries...) {
		if strings.Contains(strings.ToLower(w.Title), query) {
			results = append(results, w)
		}
	}
	return paginate(results, page), nil
}

// paginate mirrors TMDb: an empty list still reports page 1 of 1, and a
// page past the end returns no results with the requested page number.
func paginate(works []media.Work, page int) *media.Page {
	if page < 1 {
		page = 1
	}
	total := max((len(works)+PageSize-1)/PageSize, 1)

	start := min((page-1)*PageSize, len(works))
	end := min(start+PageSize, len(works))

	results := make([]media.Work, end-start)
	copy(results, works[start:end])

	return &media.Page{
		Page:         page,
		TotalPages:   total,
		TotalResults: len(works),
		Results:      results,
	}
}

func find(mediaType media.Type, id int) (media.Work, error) {
	var source []media.Work
	switch mediaType {
	case media.TypeMovie:
		source = mockMovies
	case media.TypeTV:
		source = mockSeries
	default:
		return media.Work{}, media.ErrUnknownType
	}
	for _, w := range source {
		if w.ID == id {
			return w, nil
		}
	}
	return media.Work{}, tmdb.ErrNotFound
}

func firstGenre(w media.Work) int {
	if len(w.GenreIDs) == 0 {
		return 0
	}
	return w.GenreIDs[0]
}

func lastGenre(w media.Work) int {
	if len(w.GenreIDs) == 0 {
		return 0
	}
	return w.GenreIDs[len(w.GenreIDs)-1]
}

func without(works []media.Work, id int) []media.Work {
	out := works[:0]
	for _, w := range works {
		if w.ID != id {
			out = append(out, w)
		}
	}
	return out
}

func sortedByVote(works []media.Work) []media.Work {
	out := append([]media.Work{}, works...)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].VoteAverage > out[j-1].VoteAverage; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

func tagGenres(genres []media.Genre, source media.Type) []media.Genre {
	out := make([]media.Genre, len(genres))
	for i, g := range genres {
		g.Source = source
		out[i] = g
	}
	return out
}
