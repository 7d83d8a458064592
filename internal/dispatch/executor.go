// Package dispatch runs blocking work on a background pool and delivers
// results on a single UI loop goroutine.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/pool"
)

// ErrClosed is returned when work is handed to a closed executor.
var ErrClosed = errors.New("executor closed")

// Executor owns the background worker pool and the UI loop. All presenter
// state is touched only from functions running on the UI loop.
type Executor struct {
	workers int
	jobs    *queue
	ui      *queue
	pool    *pool.Pool
	logger  zerolog.Logger

	startOnce sync.Once
	closeOnce sync.Once
	loopDone  chan struct{}
}

// NewExecutor creates an executor with the given number of background
// workers. A non-positive count uses runtime.NumCPU()+1.
func NewExecutor(workers int, logger zerolog.Logger) *Executor {
	if workers <= 0 {
		workers = runtime.NumCPU() + 1
	}
	return &Executor{
		workers:  workers,
		jobs:     newQueue(),
		ui:       newQueue(),
		pool:     pool.New().WithMaxGoroutines(workers),
		logger:   logger.With().Str("component", "dispatch").Logger(),
		loopDone: make(chan struct{}),
	}
}

// Workers returns the background pool size.
func (e *Executor) Workers() int {
	return e.workers
}

// Start launches the background workers and the UI loop.
func (e *Executor) Start() {
	e.startOnce.Do(func() {
		for i := 0; i < e.workers; i++ {
			e.pool.Go(e.work)
		}
		go e.loop()
		e.logger.Debug().Int("workers", e.workers).Msg("Executor started")
	})
}

// Close stops accepting work, lets queued jobs finish and waits for the
// workers and the UI loop to exit.
func (e *Executor) Close() {
	e.closeOnce.Do(func() {
		e.jobs.close()
		e.pool.Wait()
		e.ui.close()
		e.startOnce.Do(func() { close(e.loopDone) })
		<-e.loopDone
	})
}

// Go queues fn on the background pool. It never blocks.
func (e *Executor) Go(fn func()) error {
	if !e.jobs.push(fn) {
		return ErrClosed
	}
	return nil
}

// Post queues fn on the UI loop. It never blocks.
func (e *Executor) Post(fn func()) error {
	if !e.ui.push(fn) {
		return ErrClosed
	}
	return nil
}

// Do runs fn on the UI loop and waits for it to return. It must not be
// called from the UI loop itself.
func (e *Executor) Do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	if err := e.Post(func() {
		defer close(done)
		fn()
	}); err != nil {
		return err
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Executor) work() {
	for {
		fn, ok := e.jobs.pop()
		if !ok {
			return
		}
		e.safely("worker", fn)
	}
}

func (e *Executor) loop() {
	defer close(e.loopDone)
	for {
		fn, ok := e.ui.pop()
		if !ok {
			return
		}
		e.safely("ui", fn)
	}
}

func (e *Executor) safely(where string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error().Str("loop", where).Str("panic", fmt.Sprint(r)).Msg("Recovered panic in dispatched job")
		}
	}()
	fn()
}
