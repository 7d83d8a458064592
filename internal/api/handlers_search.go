package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/reeltv/reeltv/internal/presenter"
)

type searchSession struct {
	presenter *presenter.SearchPresenter
	view      *searchView
}

func (s *searchSession) detach() { s.presenter.Detach() }

type queryRequest struct {
	Query  string `json:"query" validate:"max=200"`
	Submit bool   `json:"submit"`
}

type searchAccepted struct {
	ID      string `json:"id"`
	Version int    `json:"version"`
}

// openSearch opens a search session.
// POST /api/v1/search
func (s *Server) openSearch(c echo.Context) error {
	sess := &searchSession{
		presenter: presenter.NewSearchPresenter(s.deps.Catalog, s.deps.Executor, s.logger),
		view:      newSearchView(),
	}

	ctx, cancel := s.waitContext(c)
	defer cancel()
	if err := s.onUI(ctx, func() { sess.presenter.Attach(sess.view) }); err != nil {
		return err
	}

	id := s.search.add(sess)
	return c.JSON(http.StatusCreated, searchAccepted{ID: id.String(), Version: sess.view.version()})
}

// updateQuery feeds typed text to the session. Text changes are debounced;
// submit searches at once. Results are read from the results endpoint.
// POST /api/v1/search/:id/query
func (s *Server) updateQuery(c echo.Context) error {
	var req queryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	return s.searchStep(c, func(p *presenter.SearchPresenter) {
		if req.Submit {
			p.OnQueryTextSubmit(req.Query)
		} else {
			p.OnQueryTextChange(req.Query)
		}
	})
}

// loadMoreSearch fetches the next results page.
// POST /api/v1/search/:id/more
func (s *Server) loadMoreSearch(c echo.Context) error {
	return s.searchStep(c, func(p *presenter.SearchPresenter) { p.LoadMore() })
}

// selectSearchItem reports the focused result.
// POST /api/v1/search/:id/select
func (s *Server) selectSearchItem(c echo.Context) error {
	var req selectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	return s.searchStep(c, func(p *presenter.SearchPresenter) {
		p.OnItemSelected(req.Position, req.Columns)
	})
}

func (s *Server) searchStep(c echo.Context, step func(p *presenter.SearchPresenter)) error {
	sess, release, ok := s.search.acquire(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "search not found")
	}
	defer release()

	ctx, cancel := s.waitContext(c)
	defer cancel()

	var version int
	if err := s.onUI(ctx, func() {
		version = sess.view.version()
		step(sess.presenter)
	}); err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, searchAccepted{ID: c.Param("id"), Version: version})
}

// getSearchResults long-polls for the first state newer than ?after.
// GET /api/v1/search/:id/results
func (s *Server) getSearchResults(c echo.Context) error {
	after := -1
	if raw := c.QueryParam("after"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid after")
		}
		after = n
	}

	// Polling does not take the session lock so it can run beside updates.
	sess, release, ok := s.search.acquire(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "search not found")
	}
	release()

	ctx, cancel := s.waitContext(c)
	defer cancel()

	state, err := sess.view.wait(ctx, after)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return c.NoContent(http.StatusNoContent)
		}
		return waitError(err)
	}
	return c.JSON(http.StatusOK, state)
}

// closeSearch detaches a search session.
// DELETE /api/v1/search/:id
func (s *Server) closeSearch(c echo.Context) error {
	sess, ok := s.search.remove(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "search not found")
	}
	_ = s.deps.Executor.Post(sess.detach)
	return c.NoContent(http.StatusNoContent)
}
