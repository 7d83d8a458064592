package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/reeltv/reeltv/internal/preferences"
	"github.com/reeltv/reeltv/internal/presenter"
	"github.com/reeltv/reeltv/internal/recommendation"
	"github.com/reeltv/reeltv/internal/scheduler/tasks"
)

// getRecommendations returns the latest published cards, publishing a first
// set when there is none yet.
// GET /api/v1/recommendations
func (s *Server) getRecommendations(c echo.Context) error {
	return s.showRecommendations(c, false)
}

// refreshRecommendations publishes a new set of cards and returns it.
// POST /api/v1/recommendations/refresh
func (s *Server) refreshRecommendations(c echo.Context) error {
	return s.showRecommendations(c, true)
}

func (s *Server) showRecommendations(c echo.Context, refresh bool) error {
	p := presenter.NewRecommendationsPresenter(s.deps.Recommendations, s.deps.Executor, s.logger)
	v := &recommendationsView{cards: make(chan []recommendation.Card, 2)}

	ctx, cancel := s.waitContext(c)
	defer cancel()
	defer func() { _ = s.deps.Executor.Post(p.Detach) }()

	if err := s.onUI(ctx, func() {
		p.Attach(v)
		// Attach answered from memory; ask for fresh cards instead.
		if refresh && len(v.cards) > 0 {
			drain(v.cards)
			p.Refresh()
		}
	}); err != nil {
		return err
	}

	cards, err := await(ctx, v.cards)
	if err != nil {
		return waitError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"category": s.deps.Recommendations.Category(),
		"cards":    cards,
	})
}

// getRecommendationHistory returns previously published cards, newest first.
// GET /api/v1/recommendations/history
func (s *Server) getRecommendationHistory(c echo.Context) error {
	n := 20
	if raw := c.QueryParam("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
		n = v
	}
	return c.JSON(http.StatusOK, s.deps.Recommendations.History(n))
}

// scheduleRecommendations queues a background refresh; cards arrive over the
// websocket.
// POST /api/v1/recommendations/schedule
func (s *Server) scheduleRecommendations(c echo.Context) error {
	if err := s.deps.Scheduler.RunNow(tasks.RecommendationsTaskID); err != nil {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	return c.NoContent(http.StatusAccepted)
}

type permissionsRequest struct {
	Results map[string]bool `json:"results" validate:"required,min=1,dive,keys,oneof=network storage recommendations,endkeys"`
}

// getPermissions runs the splash check: either the permissions still
// missing or ready.
// GET /api/v1/permissions
func (s *Server) getPermissions(c echo.Context) error {
	return s.splash(c, nil)
}

// grantPermissions records the user's answers and re-runs the check.
// POST /api/v1/permissions
func (s *Server) grantPermissions(c echo.Context) error {
	var req permissionsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	results := make(map[preferences.Permission]bool, len(req.Results))
	for name, granted := range req.Results {
		results[preferences.Permission(name)] = granted
	}
	return s.splash(c, results)
}

func (s *Server) splash(c echo.Context, results map[preferences.Permission]bool) error {
	p := presenter.NewSplashPresenter(s.deps.Preferences, s.deps.Executor, s.logger)
	v := &splashView{events: make(chan splashEvent, 2)}

	ctx, cancel := s.waitContext(c)
	defer cancel()
	defer func() { _ = s.deps.Executor.Post(p.Detach) }()

	if err := s.onUI(ctx, func() { p.Attach(v) }); err != nil {
		return err
	}
	ev, err := await(ctx, v.events)
	if err != nil {
		return waitError(err)
	}

	if results != nil {
		if err := s.onUI(ctx, func() { p.OnPermissionsResult(results) }); err != nil {
			return err
		}
		if ev, err = await(ctx, v.events); err != nil {
			return waitError(err)
		}
	}
	return c.JSON(http.StatusOK, ev)
}
