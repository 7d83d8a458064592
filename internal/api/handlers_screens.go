package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/reeltv/reeltv/internal/media"
	"github.com/reeltv/reeltv/internal/presenter"
)

// gridDriver is what a grid session needs from either grid presenter.
type gridDriver interface {
	Attach(v presenter.GridView)
	Detach()
	LoadMore() bool
	OnItemSelected(position, columns int) bool
	OnFavoriteChanged(w media.Work)
}

type gridSession struct {
	presenter gridDriver
	view      *gridView
}

func (g *gridSession) detach() { g.presenter.Detach() }

type genreRequest struct {
	ID     int    `json:"id" validate:"required,gt=0"`
	Name   string `json:"name"`
	Source string `json:"source" validate:"required,oneof=movie tv"`
}

type createGridRequest struct {
	Category string        `json:"category" validate:"required_without=Genre"`
	Genre    *genreRequest `json:"genre"`
}

type selectRequest struct {
	Position int `json:"position" validate:"gte=0"`
	Columns  int `json:"columns" validate:"required,gte=1"`
}

type gridResponse struct {
	ID string `json:"id"`
	gridEvent
}

func (s *Server) newGridDriver(req createGridRequest) (gridDriver, error) {
	if req.Genre != nil {
		source, err := media.ParseType(req.Genre.Source)
		if err != nil {
			return nil, err
		}
		genre := media.Genre{ID: req.Genre.ID, Name: req.Genre.Name, Source: source}
		return presenter.NewGenreGridPresenter(s.deps.Catalog, s.deps.Executor, genre, s.logger), nil
	}

	category, err := media.ParseCategory(req.Category)
	if err != nil {
		return nil, err
	}
	return presenter.NewGridPresenter(s.deps.Catalog, s.deps.Executor, category, s.logger), nil
}

// createGrid opens a grid session and returns its first page.
// POST /api/v1/grids
func (s *Server) createGrid(c echo.Context) error {
	var req createGridRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	driver, err := s.newGridDriver(req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	sess := &gridSession{presenter: driver, view: newGridView()}

	ctx, cancel := s.waitContext(c)
	defer cancel()

	if err := s.onUI(ctx, func() { driver.Attach(sess.view) }); err != nil {
		return err
	}
	ev, err := await(ctx, sess.view.events)
	if err != nil {
		_ = s.deps.Executor.Post(sess.detach)
		return waitError(err)
	}

	id := s.grids.add(sess)
	return c.JSON(http.StatusCreated, gridResponse{ID: id.String(), gridEvent: ev})
}

// loadMoreGrid requests the next page of a grid.
// POST /api/v1/grids/:id/more
func (s *Server) loadMoreGrid(c echo.Context) error {
	sess, release, ok := s.grids.acquire(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "grid not found")
	}
	defer release()

	return s.gridStep(c, sess, sess.presenter.LoadMore)
}

// selectGridItem reports the focused item; the grid loads more near the end.
// POST /api/v1/grids/:id/select
func (s *Server) selectGridItem(c echo.Context) error {
	var req selectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	sess, release, ok := s.grids.acquire(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "grid not found")
	}
	defer release()

	return s.gridStep(c, sess, func() bool {
		return sess.presenter.OnItemSelected(req.Position, req.Columns)
	})
}

func (s *Server) gridStep(c echo.Context, sess *gridSession, step func() bool) error {
	ctx, cancel := s.waitContext(c)
	defer cancel()

	var triggered bool
	if err := s.onUI(ctx, func() {
		drain(sess.view.events)
		triggered = step()
	}); err != nil {
		return err
	}
	if !triggered {
		return c.NoContent(http.StatusNoContent)
	}

	ev, err := await(ctx, sess.view.events)
	if err != nil {
		return waitError(err)
	}
	return c.JSON(http.StatusOK, gridResponse{ID: c.Param("id"), gridEvent: ev})
}

// closeGrid detaches a grid session.
// DELETE /api/v1/grids/:id
func (s *Server) closeGrid(c echo.Context) error {
	sess, ok := s.grids.remove(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "grid not found")
	}
	_ = s.deps.Executor.Post(sess.detach)
	return c.NoContent(http.StatusNoContent)
}

// getBrowse returns the rows of the browse screen.
// GET /api/v1/browse
func (s *Server) getBrowse(c echo.Context) error {
	p := presenter.NewBrowsePresenter(s.deps.Catalog, s.deps.Executor, s.logger)
	v := &browseView{rows: make(chan []presenter.BrowseRow, 1)}

	ctx, cancel := s.waitContext(c)
	defer cancel()
	defer func() { _ = s.deps.Executor.Post(p.Detach) }()

	if err := s.onUI(ctx, func() { p.Attach(v) }); err != nil {
		return err
	}
	rows, err := await(ctx, v.rows)
	if err != nil {
		return waitError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"rows": rows})
}

type detailsSession struct {
	presenter *presenter.DetailsPresenter
	view      *detailsView
}

func (d *detailsSession) detach() { d.presenter.Detach() }

type workRequest struct {
	ID            int     `json:"id" validate:"required,gt=0"`
	Type          string  `json:"type" validate:"required,oneof=movie tv"`
	Title         string  `json:"title" validate:"required"`
	OriginalTitle string  `json:"originalTitle"`
	Overview      string  `json:"overview"`
	ReleaseDate   string  `json:"releaseDate"`
	PosterPath    string  `json:"posterPath"`
	BackdropPath  string  `json:"backdropPath"`
	Popularity    float64 `json:"popularity" validate:"gte=0"`
	VoteAverage   float64 `json:"voteAverage" validate:"gte=0,lte=10"`
	VoteCount     int     `json:"voteCount" validate:"gte=0"`
	GenreIDs      []int   `json:"genreIds"`
}

func (r workRequest) work() media.Work {
	return media.Work{
		ID:            r.ID,
		Type:          media.Type(r.Type),
		Title:         r.Title,
		OriginalTitle: r.OriginalTitle,
		Overview:      r.Overview,
		ReleaseDate:   r.ReleaseDate,
		PosterPath:    r.PosterPath,
		BackdropPath:  r.BackdropPath,
		Popularity:    r.Popularity,
		VoteAverage:   r.VoteAverage,
		VoteCount:     r.VoteCount,
		GenreIDs:      r.GenreIDs,
	}
}

type detailsResponse struct {
	ID string `json:"id"`
	detailsEvent
}

// openDetails opens a details session for a work and returns the joined
// details.
// POST /api/v1/details
func (s *Server) openDetails(c echo.Context) error {
	var req workRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	sess := &detailsSession{
		presenter: presenter.NewDetailsPresenter(s.deps.Catalog, s.deps.Executor, req.work(), s.logger),
		view:      newDetailsView(),
	}

	ctx, cancel := s.waitContext(c)
	defer cancel()

	if err := s.onUI(ctx, func() { sess.presenter.Attach(sess.view) }); err != nil {
		return err
	}
	ev, err := await(ctx, sess.view.events)
	if err != nil {
		_ = s.deps.Executor.Post(sess.detach)
		return waitError(err)
	}

	id := s.details.add(sess)
	return c.JSON(http.StatusCreated, detailsResponse{ID: id.String(), detailsEvent: ev})
}

// toggleFavorite saves or deletes the work of a details session. Open grids
// pick up the new state with their next update.
// POST /api/v1/details/:id/favorite
func (s *Server) toggleFavorite(c echo.Context) error {
	var work media.Work
	return s.detailsStep(c, func(p *presenter.DetailsPresenter) bool {
		work = p.Work()
		return p.ToggleFavorite()
	}, func(ev detailsEvent) {
		if ev.Favorite == nil {
			return
		}
		work.Favorite = *ev.Favorite
		for _, sess := range s.grids.values() {
			_ = s.deps.Executor.Post(func() { sess.presenter.OnFavoriteChanged(work) })
		}
	})
}

// loadMoreRelated extends the recommendations or similar row.
// POST /api/v1/details/:id/:kind/more
func (s *Server) loadMoreRelated(c echo.Context) error {
	switch presenter.RelatedKind(c.Param("kind")) {
	case presenter.RelatedRecommendations:
		return s.detailsStep(c, (*presenter.DetailsPresenter).LoadMoreRecommendations, nil)
	case presenter.RelatedSimilar:
		return s.detailsStep(c, (*presenter.DetailsPresenter).LoadMoreSimilar, nil)
	default:
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("unknown row %q", c.Param("kind")))
	}
}

// detailsStep runs step on the UI loop and answers with the event it caused.
// When step reports that nothing was triggered the answer is 204. done, if
// set, sees the event before it is written.
func (s *Server) detailsStep(c echo.Context, step func(p *presenter.DetailsPresenter) bool, done func(detailsEvent)) error {
	sess, release, ok := s.details.acquire(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "details not found")
	}
	defer release()

	ctx, cancel := s.waitContext(c)
	defer cancel()

	var triggered bool
	if err := s.onUI(ctx, func() {
		drain(sess.view.events)
		triggered = step(sess.presenter)
	}); err != nil {
		return err
	}
	if !triggered {
		return c.NoContent(http.StatusNoContent)
	}

	ev, err := await(ctx, sess.view.events)
	if err != nil {
		return waitError(err)
	}
	if done != nil {
		done(ev)
	}
	return c.JSON(http.StatusOK, detailsResponse{ID: c.Param("id"), detailsEvent: ev})
}

// closeDetails detaches a details session.
// DELETE /api/v1/details/:id
func (s *Server) closeDetails(c echo.Context) error {
	sess, ok := s.details.remove(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "details not found")
	}
	_ = s.deps.Executor.Post(sess.detach)
	return c.NoContent(http.StatusNoContent)
}

// getCast returns a cast member's details.
// GET /api/v1/cast/:id
func (s *Server) getCast(c echo.Context) error {
	personID, err := strconv.Atoi(c.Param("id"))
	if err != nil || personID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid person id")
	}

	p := presenter.NewCastPresenter(s.deps.Catalog, s.deps.Executor, personID, s.logger)
	v := &castView{people: make(chan *media.Cast, 1)}

	ctx, cancel := s.waitContext(c)
	defer cancel()
	defer func() { _ = s.deps.Executor.Post(p.Detach) }()

	if err := s.onUI(ctx, func() { p.Attach(v) }); err != nil {
		return err
	}
	person, err := await(ctx, v.people)
	if err != nil {
		return waitError(err)
	}
	if person == nil {
		return echo.NewHTTPError(http.StatusNotFound, "person not found")
	}
	return c.JSON(http.StatusOK, person)
}
