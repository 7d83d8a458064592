package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/reeltv/reeltv/internal/config"
	"github.com/reeltv/reeltv/internal/media"
)

var (
	ErrAPIKeyMissing = errors.New("TMDB API key is not configured")
	ErrNotFound      = errors.New("TMDB resource not found")
	ErrAPIError      = errors.New("TMDB API error")
	ErrRateLimited   = errors.New("TMDB API rate limited")
	ErrInvalidList   = errors.New("unknown TMDB list")
)

var movieLists = map[string]bool{
	"now_playing": true,
	"popular":     true,
	"top_rated":   true,
	"upcoming":    true,
}

var tvLists = map[string]bool{
	"airing_today": true,
	"on_the_air":   true,
	"popular":      true,
	"top_rated":    true,
}

// Client is a TMDB API client.
type Client struct {
	httpClient *http.Client
	logger     zerolog.Logger

	mu     sync.RWMutex
	config config.TMDBConfig
}

// NewClient creates a new TMDB client.
func NewClient(cfg config.TMDBConfig, logger zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(timeout) * time.Second,
		},
		config: cfg,
		logger: logger.With().Str("component", "tmdb").Logger(),
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return "tmdb"
}

// IsConfigured returns true if the API key is set.
func (c *Client) IsConfigured() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config.APIKey != ""
}

// SetBrowseOptions changes the response language and adult filter for
// subsequent requests.
func (c *Client) SetBrowseOptions(language string, includeAdult bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.config.Language = language
	c.config.IncludeAdult = includeAdult
}

func (c *Client) snapshot() config.TMDBConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

// Test verifies connectivity to the TMDB API by making a configuration request.
func (c *Client) Test(ctx context.Context) error {
	var result struct {
		Images struct {
			BaseURL string `json:"base_url"`
		} `json:"images"`
	}
	return c.get(ctx, "/configuration", nil, &result)
}

// Genres returns the genre list of a catalog, tagged with its source.
func (c *Client) Genres(ctx context.Context, source media.Type) ([]media.Genre, error) {
	if !source.Valid() {
		return nil, media.ErrUnknownType
	}

	var resp GenreList
	if err := c.get(ctx, fmt.Sprintf("/genre/%s/list", source), nil, &resp); err != nil {
		return nil, err
	}

	genres := make([]media.Genre, len(resp.Genres))
	for i, g := range resp.Genres {
		genres[i] = media.Genre{ID: g.ID, Name: g.Name, Source: source}
	}
	return genres, nil
}

// MovieList fetches one page of a movie list (now_playing, popular, top_rated, upcoming).
func (c *Client) MovieList(ctx context.Context, list string, page int) (*media.Page, error) {
	if !movieLists[list] {
		return nil, fmt.Errorf("%w: movie/%s", ErrInvalidList, list)
	}
	return c.moviePage(ctx, "/movie/"+list, pageParams(page))
}

// TVList fetches one page of a TV list (airing_today, on_the_air, popular, top_rated).
func (c *Client) TVList(ctx context.Context, list string, page int) (*media.Page, error) {
	if !tvLists[list] {
		return nil, fmt.Errorf("%w: tv/%s", ErrInvalidList, list)
	}
	return c.tvPage(ctx, "/tv/"+list, pageParams(page))
}

// Discover fetches one page of works of the given type filtered by genre.
func (c *Client) Discover(ctx context.Context, mediaType media.Type, genreID, page int) (*media.Page, error) {
	params := pageParams(page)
	params.Set("with_genres", strconv.Itoa(genreID))
	params.Set("include_adult", strconv.FormatBool(c.snapshot().IncludeAdult))
	params.Set("sort_by", "popularity.desc")

	switch mediaType {
	case media.TypeMovie:
		return c.moviePage(ctx, "/discover/movie", params)
	case media.TypeTV:
		return c.tvPage(ctx, "/discover/tv", params)
	default:
		return nil, media.ErrUnknownType
	}
}

// Recommendations fetches one page of recommendations for a work.
func (c *Client) Recommendations(ctx context.Context, mediaType media.Type, id, page int) (*media.Page, error) {
	return c.related(ctx, mediaType, id, "recommendations", page)
}

// Similar fetches one page of works similar to a work.
func (c *Client) Similar(ctx context.Context, mediaType media.Type, id, page int) (*media.Page, error) {
	return c.related(ctx, mediaType, id, "similar", page)
}

func (c *Client) related(ctx context.Context, mediaType media.Type, id int, kind string, page int) (*media.Page, error) {
	endpoint := fmt.Sprintf("/%s/%d/%s", mediaType, id, kind)
	switch mediaType {
	case media.TypeMovie:
		return c.moviePage(ctx, endpoint, pageParams(page))
	case media.TypeTV:
		return c.tvPage(ctx, endpoint, pageParams(page))
	default:
		return nil, media.ErrUnknownType
	}
}

// Credits returns the cast of a work ordered by billing.
func (c *Client) Credits(ctx context.Context, mediaType media.Type, id int) ([]media.Cast, error) {
	if !mediaType.Valid() {
		return nil, media.ErrUnknownType
	}

	var resp CreditsResponse
	if err := c.get(ctx, fmt.Sprintf("/%s/%d/credits", mediaType, id), nil, &resp); err != nil {
		return nil, err
	}

	cast := make([]media.Cast, len(resp.Cast))
	for i, m := range resp.Cast {
		cast[i] = media.Cast{
			ID:          m.ID,
			Name:        m.Name,
			Character:   m.Character,
			ProfilePath: deref(m.ProfilePath),
			Order:       m.Order,
			Popularity:  m.Popularity,
		}
	}
	return cast, nil
}

// Videos returns the videos attached to a work.
func (c *Client) Videos(ctx context.Context, mediaType media.Type, id int) ([]media.Video, error) {
	if !mediaType.Valid() {
		return nil, media.ErrUnknownType
	}

	var resp VideosResponse
	if err := c.get(ctx, fmt.Sprintf("/%s/%d/videos", mediaType, id), nil, &resp); err != nil {
		return nil, err
	}

	videos := make([]media.Video, len(resp.Results))
	for i, v := range resp.Results {
		videos[i] = media.Video{ID: v.ID, Key: v.Key, Name: v.Name, Site: v.Site, Type: v.Type}
	}
	return videos, nil
}

// Person returns biographical details of a cast member.
func (c *Client) Person(ctx context.Context, id int) (*media.Cast, error) {
	var details PersonDetails
	if err := c.get(ctx, fmt.Sprintf("/person/%d", id), nil, &details); err != nil {
		return nil, err
	}

	c.logger.Debug().Int("id", id).Str("name", details.Name).Msg("Got person details")

	return &media.Cast{
		ID:           details.ID,
		Name:         details.Name,
		ProfilePath:  deref(details.ProfilePath),
		Biography:    details.Biography,
		Birthday:     deref(details.Birthday),
		Deathday:     deref(details.Deathday),
		PlaceOfBirth: deref(details.PlaceOfBirth),
		KnownFor:     details.KnownForDepartment,
		Popularity:   details.Popularity,
		AlsoKnownAs:  details.AlsoKnownAs,
	}, nil
}

// SearchMulti searches movies and TV shows by free text. Person hits are dropped.
func (c *Client) SearchMulti(ctx context.Context, query string, page int) (*media.Page, error) {
	params := pageParams(page)
	params.Set("query", query)
	params.Set("include_adult", strconv.FormatBool(c.snapshot().IncludeAdult))

	var resp PagedMulti
	if err := c.get(ctx, "/search/multi", params, &resp); err != nil {
		return nil, err
	}

	result := &media.Page{
		Page:         resp.Page,
		TotalPages:   resp.TotalPages,
		TotalResults: resp.TotalResults,
		Results:      make([]media.Work, 0, len(resp.Results)),
	}
	for _, r := range resp.Results {
		switch r.MediaType {
		case string(media.TypeMovie):
			result.Results = append(result.Results, movieToWork(r.MovieResult))
		case string(media.TypeTV):
			result.Results = append(result.Results, tvToWork(TVResult{
				ID:           r.ID,
				Name:         r.Name,
				OriginalName: r.OriginalName,
				Overview:     r.Overview,
				FirstAirDate: r.FirstAirDate,
				PosterPath:   r.PosterPath,
				BackdropPath: r.BackdropPath,
				VoteAverage:  r.VoteAverage,
				VoteCount:    r.VoteCount,
				Popularity:   r.Popularity,
				GenreIDs:     r.GenreIDs,
			}))
		}
	}

	c.logger.Debug().
		Str("query", query).
		Int("page", page).
		Int("results", len(result.Results)).
		Msg("Multi search completed")

	return result, nil
}

// ImageURL returns a full image URL for a given path and size.
// Size options: "w92", "w154", "w185", "w342", "w500", "w780", "original"
func (c *Client) ImageURL(path string, size string) string {
	if path == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s%s", c.snapshot().ImageBaseURL, size, path)
}

func (c *Client) moviePage(ctx context.Context, endpoint string, params url.Values) (*media.Page, error) {
	var resp PagedMovies
	if err := c.get(ctx, endpoint, params, &resp); err != nil {
		return nil, err
	}

	page := &media.Page{
		Page:         resp.Page,
		TotalPages:   resp.TotalPages,
		TotalResults: resp.TotalResults,
		Results:      make([]media.Work, len(resp.Results)),
	}
	for i, m := range resp.Results {
		page.Results[i] = movieToWork(m)
	}
	return page, nil
}

func (c *Client) tvPage(ctx context.Context, endpoint string, params url.Values) (*media.Page, error) {
	var resp PagedTV
	if err := c.get(ctx, endpoint, params, &resp); err != nil {
		return nil, err
	}

	page := &media.Page{
		Page:         resp.Page,
		TotalPages:   resp.TotalPages,
		TotalResults: resp.TotalResults,
		Results:      make([]media.Work, len(resp.Results)),
	}
	for i, s := range resp.Results {
		page.Results[i] = tvToWork(s)
	}
	return page, nil
}

// get adds the key and language to params and performs the request.
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	cfg := c.snapshot()
	if cfg.APIKey == "" {
		return ErrAPIKeyMissing
	}
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", cfg.APIKey)
	if cfg.Language != "" {
		params.Set("language", cfg.Language)
	}
	return c.doRequest(ctx, cfg.BaseURL+path, params, result)
}

// doRequest performs an HTTP GET request and decodes the JSON response.
func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values, result interface{}) error {
	reqURL := endpoint
	if len(params) > 0 {
		reqURL = fmt.Sprintf("%s?%s", endpoint, params.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("url", endpoint).Msg("HTTP request failed")
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil {
			c.logger.Error().
				Int("status", resp.StatusCode).
				Str("url", endpoint).
				Str("message", errResp.StatusMessage).
				Msg("TMDB API error")
		}

		switch resp.StatusCode {
		case http.StatusNotFound:
			return ErrNotFound
		case http.StatusUnauthorized:
			return fmt.Errorf("%w: invalid API key", ErrAPIError)
		case http.StatusTooManyRequests:
			return ErrRateLimited
		default:
			return fmt.Errorf("%w: status %d", ErrAPIError, resp.StatusCode)
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

func pageParams(page int) url.Values {
	if page < 1 {
		page = 1
	}
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	return params
}

func movieToWork(m MovieResult) media.Work {
	return media.Work{
		ID:            m.ID,
		Type:          media.TypeMovie,
		Title:         m.Title,
		OriginalTitle: m.OriginalTitle,
		Overview:      m.Overview,
		ReleaseDate:   m.ReleaseDate,
		PosterPath:    deref(m.PosterPath),
		BackdropPath:  deref(m.BackdropPath),
		Popularity:    m.Popularity,
		VoteAverage:   m.VoteAverage,
		VoteCount:     m.VoteCount,
		GenreIDs:      m.GenreIDs,
	}
}

func tvToWork(s TVResult) media.Work {
	return media.Work{
		ID:            s.ID,
		Type:          media.TypeTV,
		Title:         s.Name,
		OriginalTitle: s.OriginalName,
		Overview:      s.Overview,
		ReleaseDate:   s.FirstAirDate,
		PosterPath:    deref(s.PosterPath),
		BackdropPath:  deref(s.BackdropPath),
		Popularity:    s.Popularity,
		VoteAverage:   s.VoteAverage,
		VoteCount:     s.VoteCount,
		GenreIDs:      s.GenreIDs,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
