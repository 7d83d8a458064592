// Package media defines the catalog types shared by the TMDb client, the
// favorites store, the repository and the presenters.
package media

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Type distinguishes movies from TV shows.
type Type string

const (
	TypeMovie Type = "movie"
	TypeTV    Type = "tv"
)

// Valid reports whether t is a known media type.
func (t Type) Valid() bool {
	return t == TypeMovie || t == TypeTV
}

// ErrUnknownType is returned when a media type or genre source is not movie or tv.
var ErrUnknownType = errors.New("unknown media type")

// ParseType parses "movie" or "tv".
func ParseType(s string) (Type, error) {
	t := Type(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
	}
	return t, nil
}

// Work is a catalog item, either a movie or a TV show. Two works are the
// same item when their IDs match.
type Work struct {
	ID            int     `json:"id"`
	Type          Type    `json:"type"`
	Title         string  `json:"title"`
	OriginalTitle string  `json:"originalTitle,omitempty"`
	Overview      string  `json:"overview,omitempty"`
	ReleaseDate   string  `json:"releaseDate,omitempty"`
	PosterPath    string  `json:"posterPath,omitempty"`
	BackdropPath  string  `json:"backdropPath,omitempty"`
	Popularity    float64 `json:"popularity,omitempty"`
	VoteAverage   float64 `json:"voteAverage,omitempty"`
	VoteCount     int     `json:"voteCount,omitempty"`
	GenreIDs      []int   `json:"genreIds,omitempty"`

	// Favorite is local state; it is never read from the remote API.
	Favorite bool `json:"favorite"`
}

// Year returns the year part of ReleaseDate, or 0.
func (w Work) Year() int {
	if len(w.ReleaseDate) < 4 {
		return 0
	}
	y := 0
	for _, c := range w.ReleaseDate[:4] {
		if c < '0' || c > '9' {
			return 0
		}
		y = y*10 + int(c-'0')
	}
	return y
}

// Genre is a TMDb genre tagged with the catalog it belongs to.
type Genre struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Source Type   `json:"source"`
}

// Page is one fetched batch of works plus pagination metadata.
type Page struct {
	Page         int    `json:"page"`
	TotalPages   int    `json:"totalPages"`
	TotalResults int    `json:"totalResults"`
	Results      []Work `json:"results"`
}

// HasData reports whether the page is within the available range. Callers
// stop requesting further pages once this is false.
func (p *Page) HasData() bool {
	return p != nil && p.Page <= p.TotalPages
}

// Cast is a credited person, optionally enriched with person details.
type Cast struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	Character    string   `json:"character,omitempty"`
	ProfilePath  string   `json:"profilePath,omitempty"`
	Order        int      `json:"order"`
	Biography    string   `json:"biography,omitempty"`
	Birthday     string   `json:"birthday,omitempty"`
	Deathday     string   `json:"deathday,omitempty"`
	PlaceOfBirth string   `json:"placeOfBirth,omitempty"`
	KnownFor     string   `json:"knownFor,omitempty"`
	Popularity   float64  `json:"popularity,omitempty"`
	AlsoKnownAs  []string `json:"alsoKnownAs,omitempty"`
}

// Video is a trailer, teaser or clip hosted by a video provider.
type Video struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
	Site string `json:"site"`
	Type string `json:"type"`
}

// WatchURL returns a playable URL for known providers, or "".
func (v Video) WatchURL() string {
	switch v.Site {
	case "YouTube":
		return "https://www.youtube.com/watch?v=" + v.Key
	case "Vimeo":
		return "https://vimeo.com/" + v.Key
	default:
		return ""
	}
}

// MarshalJSON adds the derived watch URL to the encoded video.
func (v Video) MarshalJSON() ([]byte, error) {
	type video Video
	return json.Marshal(struct {
		video
		WatchURL string `json:"watchUrl,omitempty"`
	}{video(v), v.WatchURL()})
}
