package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reeltv/reeltv/internal/testutil"
)

func newTestScheduler(t *testing.T) *Scheduler {
	t.Helper()
	s, err := New(testutil.NopLogger())
	require.NoError(t, err)
	return s
}

func TestScheduler_RunOnStart(t *testing.T) {
	s := newTestScheduler(t)
	var runs atomic.Int32
	require.NoError(t, s.RegisterTask(TaskConfig{
		ID:         "tick",
		Name:       "Tick",
		Cron:       "@every 1h",
		RunOnStart: true,
		Func: func(context.Context) error {
			runs.Add(1)
			return nil
		},
	}))

	require.NoError(t, s.Start())
	defer s.Stop()

	require.Eventually(t, func() bool { return runs.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool {
		info, err := s.GetTask("tick")
		return err == nil && info.LastRun != nil && !info.Running
	}, 2*time.Second, 10*time.Millisecond)

	info, err := s.GetTask("tick")
	require.NoError(t, err)
	assert.Equal(t, "@every 1h", info.Cron)
	require.NotNil(t, info.NextRun)
	assert.True(t, info.NextRun.After(time.Now()))
}

func TestScheduler_RegisterErrors(t *testing.T) {
	s := newTestScheduler(t)
	task := TaskConfig{ID: "a", Name: "A", Cron: "@every 1h", Func: func(context.Context) error { return nil }}

	require.NoError(t, s.RegisterTask(task))
	assert.Error(t, s.RegisterTask(task))

	assert.Error(t, s.RegisterTask(TaskConfig{ID: "b", Cron: "not a cron", Func: task.Func}))
	assert.Error(t, s.RegisterTask(TaskConfig{ID: "c", Cron: "@every 1h"}))
}

func TestScheduler_RunNowRecordsFailure(t *testing.T) {
	s := newTestScheduler(t)
	require.NoError(t, s.RegisterTask(TaskConfig{
		ID:   "broken",
		Name: "Broken",
		Cron: "@every 1h",
		Func: func(context.Context) error { return errors.New("boom") },
	}))
	require.NoError(t, s.Start())
	defer s.Stop()

	require.NoError(t, s.RunNow("broken"))
	require.Eventually(t, func() bool {
		info, _ := s.GetTask("broken")
		return info.LastError == "boom"
	}, 2*time.Second, 10*time.Millisecond)

	assert.ErrorIs(t, s.RunNow("missing"), ErrTaskNotFound)
	_, err := s.GetTask("missing")
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestScheduler_PanicBecomesError(t *testing.T) {
	s := newTestScheduler(t)
	require.NoError(t, s.RegisterTask(TaskConfig{
		ID:   "panics",
		Cron: "@every 1h",
		Func: func(context.Context) error { panic("bad") },
	}))
	require.NoError(t, s.Start())
	defer s.Stop()

	require.NoError(t, s.RunNow("panics"))
	require.Eventually(t, func() bool {
		info, _ := s.GetTask("panics")
		return info.LastError != ""
	}, 2*time.Second, 10*time.Millisecond)
}

func TestScheduler_StopCancelsRunningTask(t *testing.T) {
	s := newTestScheduler(t)
	started := make(chan struct{})
	var cancelled atomic.Bool
	require.NoError(t, s.RegisterTask(TaskConfig{
		ID:         "slow",
		Cron:       "@every 1h",
		RunOnStart: true,
		Func: func(ctx context.Context) error {
			close(started)
			<-ctx.Done()
			cancelled.Store(true)
			return ctx.Err()
		},
	}))
	require.NoError(t, s.Start())

	<-started
	assert.ErrorIs(t, s.RunNow("slow"), ErrTaskRunning)
	require.NoError(t, s.Stop())
	assert.True(t, cancelled.Load())
}

func TestScheduler_ListSortedByID(t *testing.T) {
	s := newTestScheduler(t)
	noop := func(context.Context) error { return nil }
	require.NoError(t, s.RegisterTask(TaskConfig{ID: "b", Name: "B", Cron: "@every 1h", Func: noop}))
	require.NoError(t, s.RegisterTask(TaskConfig{ID: "a", Name: "A", Cron: "@every 1h", Func: noop}))

	tasks := s.ListTasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, "a", tasks[0].ID)
	assert.Equal(t, "b", tasks[1].ID)
}

func TestScheduler_NameDefaultsToID(t *testing.T) {
	tests := []struct {
		name     string
		config   TaskConfig
		wantName string
	}{
		{"named", TaskConfig{ID: "named", Name: "Named Task"}, "Named Task"},
		{"unnamed", TaskConfig{ID: "unnamed"}, "unnamed"},
	}

	s := newTestScheduler(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.config.Cron = "@every 1h"
			tt.config.Func = func(context.Context) error { return nil }
			if err := s.RegisterTask(tt.config); err != nil {
				t.Fatalf("RegisterTask() error = %v", err)
			}
			info, err := s.GetTask(tt.config.ID)
			if err != nil {
				t.Fatalf("GetTask() error = %v", err)
			}
			if info.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", info.Name, tt.wantName)
			}
		})
	}
}
