package recommendation

import (
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/reeltv/reeltv/internal/media"
)

// Card is one published home-screen recommendation.
type Card struct {
	ID          string     `json:"id"`
	Work        media.Work `json:"work"`
	Title       string     `json:"title"`
	Text        string     `json:"text"`
	PosterURL   string     `json:"posterUrl"`
	ImagePath   string     `json:"imagePath"`
	ImageWidth  int        `json:"imageWidth"`
	ImageHeight int        `json:"imageHeight"`
	Priority    int        `json:"priority"`
	PublishedAt time.Time  `json:"publishedAt"`
}

func newCard(w media.Work, posterURL string, path string, width, height, priority int) Card {
	text := w.Overview
	if year := w.Year(); year > 0 && text == "" {
		text = strconv.Itoa(year)
	}
	return Card{
		ID:          uuid.NewString(),
		Work:        w,
		Title:       w.Title,
		Text:        text,
		PosterURL:   posterURL,
		ImagePath:   path,
		ImageWidth:  width,
		ImageHeight: height,
		Priority:    priority,
		PublishedAt: time.Now().UTC(),
	}
}
