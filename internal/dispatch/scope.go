package dispatch

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc"
)

// Scope ties asynchronous work to one screen. Disposing it cancels the
// work's context and drops every result that has not been delivered yet.
type Scope struct {
	exec     *Executor
	ctx      context.Context
	cancel   context.CancelFunc
	disposed atomic.Bool
}

// NewScope creates a scope whose context derives from parent.
func (e *Executor) NewScope(parent context.Context) *Scope {
	ctx, cancel := context.WithCancel(parent)
	return &Scope{exec: e, ctx: ctx, cancel: cancel}
}

// Context is cancelled when the scope is disposed.
func (s *Scope) Context() context.Context {
	return s.ctx
}

// Disposed reports whether Dispose has been called.
func (s *Scope) Disposed() bool {
	return s.disposed.Load()
}

// Dispose cancels in-flight work. Callbacks not yet run are discarded.
func (s *Scope) Dispose() {
	if s.disposed.CompareAndSwap(false, true) {
		s.cancel()
	}
}

// Post runs fn on the UI loop unless the scope is disposed by then.
func (s *Scope) Post(fn func()) {
	_ = s.exec.Post(func() {
		if !s.Disposed() {
			fn()
		}
	})
}

// After runs fn on the UI loop after d, unless stopped or disposed first.
// The returned function stops the timer.
func (s *Scope) After(d time.Duration, fn func()) (stop func()) {
	var stopped atomic.Bool
	t := time.AfterFunc(d, func() {
		s.Post(func() {
			if !stopped.Load() {
				fn()
			}
		})
	})
	return func() {
		stopped.Store(true)
		t.Stop()
	}
}

// Submit runs task on the background pool and delivers its outcome to done
// on the UI loop, provided the scope is still alive. A panicking task is
// reported as an error.
func Submit[T any](s *Scope, task func(ctx context.Context) (T, error), done func(T, error)) {
	if s.Disposed() {
		return
	}
	_ = s.exec.Go(func() {
		if s.Disposed() {
			return
		}
		v, err := run(s.ctx, task)
		s.Post(func() { done(v, err) })
	})
}

func run[T any](ctx context.Context, task func(ctx context.Context) (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()
	return task(ctx)
}

// Join runs fns concurrently on their own goroutines and waits for all of
// them. It is meant to be called from inside a background task.
func Join(fns ...func()) {
	var wg conc.WaitGroup
	for _, fn := range fns {
		wg.Go(fn)
	}
	wg.Wait()
}
