package media

import (
	"errors"
	"fmt"
)

// ErrUnknownCategory is returned for category names with no backing list.
var ErrUnknownCategory = errors.New("unknown category")

// Category selects which list a grid shows.
type Category string

const (
	CategoryFavorites       Category = "favorites"
	CategoryMovieNowPlaying Category = "movie_now_playing"
	CategoryMoviePopular    Category = "movie_popular"
	CategoryMovieTopRated   Category = "movie_top_rated"
	CategoryMovieUpcoming   Category = "movie_upcoming"
	CategoryTVAiringToday   Category = "tv_airing_today"
	CategoryTVOnTheAir      Category = "tv_on_the_air"
	CategoryTVPopular       Category = "tv_popular"
	CategoryTVTopRated      Category = "tv_top_rated"
)

type categoryInfo struct {
	mediaType Type
	list      string
	title     string
}

var categories = map[Category]categoryInfo{
	CategoryMovieNowPlaying: {TypeMovie, "now_playing", "Now Playing"},
	CategoryMoviePopular:    {TypeMovie, "popular", "Popular Movies"},
	CategoryMovieTopRated:   {TypeMovie, "top_rated", "Top Rated Movies"},
	CategoryMovieUpcoming:   {TypeMovie, "upcoming", "Upcoming"},
	CategoryTVAiringToday:   {TypeTV, "airing_today", "Airing Today"},
	CategoryTVOnTheAir:      {TypeTV, "on_the_air", "On The Air"},
	CategoryTVPopular:       {TypeTV, "popular", "Popular Shows"},
	CategoryTVTopRated:      {TypeTV, "top_rated", "Top Rated Shows"},
}

// RemoteCategories lists every category backed by a remote list, in the
// order rows appear on the browse screen.
var RemoteCategories = []Category{
	CategoryMovieNowPlaying,
	CategoryMoviePopular,
	CategoryMovieTopRated,
	CategoryMovieUpcoming,
	CategoryTVAiringToday,
	CategoryTVOnTheAir,
	CategoryTVPopular,
	CategoryTVTopRated,
}

// ParseCategory validates s as a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if c == CategoryFavorites {
		return c, nil
	}
	if _, ok := categories[c]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
	return c, nil
}

// IsFavorites reports whether c is served from the local store.
func (c Category) IsFavorites() bool {
	return c == CategoryFavorites
}

// Remote returns the media type and TMDb list name for a remote category.
func (c Category) Remote() (Type, string, bool) {
	info, ok := categories[c]
	return info.mediaType, info.list, ok
}

// Title is the display label of the category.
func (c Category) Title() string {
	if c == CategoryFavorites {
		return "Favorites"
	}
	return categories[c].title
}
