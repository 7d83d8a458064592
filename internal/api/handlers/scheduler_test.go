package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reeltv/reeltv/internal/scheduler"
	"github.com/reeltv/reeltv/internal/testutil"
)

func setupScheduler(t *testing.T, fn scheduler.TaskFunc) (*echo.Echo, *scheduler.Scheduler) {
	t.Helper()

	sched, err := scheduler.New(testutil.NopLogger())
	require.NoError(t, err)
	require.NoError(t, sched.RegisterTask(scheduler.TaskConfig{
		ID:   "recommendations-refresh",
		Name: "Recommendations",
		Cron: "@every 1h",
		Func: fn,
	}))
	require.NoError(t, sched.Start())
	t.Cleanup(func() { _ = sched.Stop() })

	e := echo.New()
	NewSchedulerHandler(sched).RegisterRoutes(e.Group("/api/v1/scheduler"))
	return e, sched
}

func serve(e *echo.Echo, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestSchedulerHandler_ListAndGet(t *testing.T) {
	e, _ := setupScheduler(t, func(context.Context) error { return nil })

	rec := serve(e, http.MethodGet, "/api/v1/scheduler/tasks")
	require.Equal(t, http.StatusOK, rec.Code)

	var tasks []scheduler.TaskInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, "recommendations-refresh", tasks[0].ID)

	rec = serve(e, http.MethodGet, "/api/v1/scheduler/tasks/recommendations-refresh")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(e, http.MethodGet, "/api/v1/scheduler/tasks/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSchedulerHandler_RunTask(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	e, sched := setupScheduler(t, func(ctx context.Context) error {
		started <- struct{}{}
		select {
		case <-release:
		case <-ctx.Done():
		}
		return nil
	})

	rec := serve(e, http.MethodPost, "/api/v1/scheduler/tasks/recommendations-refresh/run")
	require.Equal(t, http.StatusAccepted, rec.Code)

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("task never started")
	}

	rec = serve(e, http.MethodPost, "/api/v1/scheduler/tasks/recommendations-refresh/run")
	assert.Equal(t, http.StatusConflict, rec.Code)

	close(release)
	require.Eventually(t, func() bool {
		info, err := sched.GetTask("recommendations-refresh")
		return err == nil && !info.Running && info.LastRun != nil
	}, 2*time.Second, 10*time.Millisecond)

	rec = serve(e, http.MethodPost, "/api/v1/scheduler/tasks/missing/run")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
