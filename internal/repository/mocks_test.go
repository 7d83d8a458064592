package repository

import (
	"context"
	"errors"

	"github.com/stretchr/testify/mock"

	"github.com/reeltv/reeltv/internal/media"
)

type remoteMock struct {
	mock.Mock
}

func (m *remoteMock) Name() string { return "remote-mock" }
func (m *remoteMock) IsConfigured() bool { return true }

func (m *remoteMock) Test(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *remoteMock) Genres(ctx context.Context, source media.Type) ([]media.Genre, error) {
	args := m.Called(ctx, source)
	genres, _ := args.Get(0).([]media.Genre)
	return genres, args.Error(1)
}

func (m *remoteMock) page(args mock.Arguments) (*media.Page, error) {
	p, _ := args.Get(0).(*media.Page)
	return p, args.Error(1)
}

func (m *remoteMock) MovieList(ctx context.Context, list string, page int) (*media.Page, error) {
	return m.page(m.Called(ctx, list, page))
}

func (m *remoteMock) TVList(ctx context.Context, list string, page int) (*media.Page, error) {
	return m.page(m.Called(ctx, list, page))
}

func (m *remoteMock) Discover(ctx context.Context, mediaType media.Type, genreID, page int) (*media.Page, error) {
	return m.page(m.Called(ctx, mediaType, genreID, page))
}

func (m *remoteMock) Recommendations(ctx context.Context, mediaType media.Type, id, page int) (*media.Page, error) {
	return m.page(m.Called(ctx, mediaType, id, page))
}

func (m *remoteMock) Similar(ctx context.Context, mediaType media.Type, id, page int) (*media.Page, error) {
	return m.page(m.Called(ctx, mediaType, id, page))
}

func (m *remoteMock) Credits(ctx context.Context, mediaType media.Type, id int) ([]media.Cast, error) {
	args := m.Called(ctx, mediaType, id)
	cast, _ := args.Get(0).([]media.Cast)
	return cast, args.Error(1)
}

func (m *remoteMock) Videos(ctx context.Context, mediaType media.Type, id int) ([]media.Video, error) {
	args := m.Called(ctx, mediaType, id)
	videos, _ := args.Get(0).([]media.Video)
	return videos, args.Error(1)
}

func (m *remoteMock) Person(ctx context.Context, id int) (*media.Cast, error) {
	args := m.Called(ctx, id)
	person, _ := args.Get(0).(*media.Cast)
	return person, args.Error(1)
}

func (m *remoteMock) SearchMulti(ctx context.Context, query string, page int) (*media.Page, error) {
	return m.page(m.Called(ctx, query, page))
}

func (m *remoteMock) ImageURL(path, size string) string {
	return "https://img.test/" + size + path
}

var errStore = errors.New("disk I/O error")

// brokenStore fails every operation.
type brokenStore struct{}

func (brokenStore) Get(context.Context, int) (media.Work, error) { return media.Work{}, errStore }
func (brokenStore) List(context.Context) ([]media.Work, error) { return nil, errStore }
func (brokenStore) Count(context.Context) (int, error) { return 0, errStore }
func (brokenStore) Save(context.Context, media.Work) error { return errStore }
func (brokenStore) Delete(context.Context, int) error { return errStore }
