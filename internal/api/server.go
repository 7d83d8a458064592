// Package api exposes the presenters over HTTP and WebSocket. Each handler
// attaches a presenter to a channel-backed view and answers with what the
// presenter renders.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	apimw "github.com/reeltv/reeltv/internal/api/middleware"
	"github.com/reeltv/reeltv/internal/api/ratelimit"
	"github.com/reeltv/reeltv/internal/config"
	"github.com/reeltv/reeltv/internal/dispatch"
	"github.com/reeltv/reeltv/internal/preferences"
	"github.com/reeltv/reeltv/internal/presenter"
	"github.com/reeltv/reeltv/internal/recommendation"
	"github.com/reeltv/reeltv/internal/scheduler"
	"github.com/reeltv/reeltv/internal/websocket"
)

// defaultWaitTimeout bounds how long a request waits for a presenter.
const defaultWaitTimeout = 20 * time.Second

// Deps are the services the server drives.
type Deps struct {
	Catalog         presenter.Catalog
	Executor        *dispatch.Executor
	Hub             *websocket.Hub
	Preferences     *preferences.Service
	Recommendations *recommendation.Service
	Scheduler       *scheduler.Scheduler
}

// Server handles HTTP requests for the ReelTV API.
type Server struct {
	echo    *echo.Echo
	deps    Deps
	cfg     *config.Config
	logger  zerolog.Logger
	limiter *ratelimit.Limiter
	started time.Time

	waitTimeout time.Duration

	grids   *sessionStore[*gridSession]
	details *sessionStore[*detailsSession]
	search  *sessionStore[*searchSession]
}

// NewServer creates a new API server instance.
func NewServer(cfg *config.Config, deps Deps, logger zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = newRequestValidator()

	s := &Server{
		echo:        e,
		deps:        deps,
		cfg:         cfg,
		logger:      logger.With().Str("component", "api").Logger(),
		limiter:     ratelimit.New(ratelimit.DefaultRequestsPerWindow, ratelimit.DefaultWindow),
		started:     time.Now(),
		waitTimeout: defaultWaitTimeout,
		grids:       newSessionStore[*gridSession](),
		details:     newSessionStore[*detailsSession](),
		search:      newSessionStore[*searchSession](),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures Echo middleware.
func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.RequestID())
	s.echo.Use(apimw.SecurityHeaders())

	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogMethod:    true,
		LogError:     true,
		LogRequestID: true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				s.logger.Error().
					Str("method", v.Method).
					Str("uri", v.URI).
					Str("requestId", v.RequestID).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Err(v.Error).
					Msg("request error")
			} else {
				s.logger.Debug().
					Str("method", v.Method).
					Str("uri", v.URI).
					Str("requestId", v.RequestID).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Msg("request")
			}
			return nil
		},
	}))

	s.echo.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			return c.IsWebSocket()
		},
	}))
}

// Start begins listening for HTTP requests and sweeps idle sessions until
// ctx is done.
func (s *Server) Start(ctx context.Context, address string) error {
	s.logger.Info().Str("address", address).Msg("starting HTTP server")

	s.limiter.StartCleanup(ctx, 5*time.Minute)
	go s.sweepSessions(ctx, time.Minute)

	if err := s.echo.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server and detaches every open session.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down HTTP server")
	err := s.echo.Shutdown(ctx)
	detachAll(s, s.grids.removeAll())
	detachAll(s, s.details.removeAll())
	detachAll(s, s.search.removeAll())
	return err
}

// Echo returns the underlying Echo instance.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func (s *Server) sweepSessions(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			detachAll(s, s.grids.expire(sessionIdleTimeout))
			detachAll(s, s.details.expire(sessionIdleTimeout))
			detachAll(s, s.search.expire(sessionIdleTimeout))
		}
	}
}

func detachAll[S session](s *Server, sessions []S) {
	for _, sess := range sessions {
		_ = s.deps.Executor.Post(sess.detach)
	}
}

// waitContext bounds a request's wait for presenter output.
func (s *Server) waitContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), s.waitTimeout)
}

// onUI runs fn on the UI loop on behalf of a request.
func (s *Server) onUI(ctx context.Context, fn func()) error {
	if err := s.deps.Executor.Do(ctx, fn); err != nil {
		if errors.Is(err, dispatch.ErrClosed) {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "shutting down")
		}
		return waitError(err)
	}
	return nil
}

func waitError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return echo.NewHTTPError(http.StatusGatewayTimeout, "timed out waiting for the catalog")
	}
	return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
}

func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getStatus(c echo.Context) error {
	status := map[string]any{
		"version":   config.Version,
		"startTime": s.started.Format(time.RFC3339),
		"workers":   s.deps.Executor.Workers(),
		"sessions": map[string]int{
			"grids":   s.grids.count(),
			"details": s.details.count(),
			"search":  s.search.count(),
		},
	}
	if s.deps.Hub != nil {
		status["wsClients"] = s.deps.Hub.ClientCount()
	}
	return c.JSON(http.StatusOK, status)
}
