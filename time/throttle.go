package btime

import (
	"context"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	bsched "github.com/brynbellomy/go-callwrap/sched"
)

// Throttler runs fn at most once per delay window.
type Throttler[T any] struct {
	fn        func(ctx context.Context, args ...T)
	delay     time.Duration
	scheduler bsched.Scheduler
	logger    *zap.Logger

	mu            sync.Mutex
	pending       *bsched.Handle
	gen           uint64
	lastInvokedAt time.Time
	invoked       bool
}

// Throttle wraps fn so that it runs at most once per delay. A call made at
// least delay after the previous invocation runs fn synchronously. A call made
// sooner replaces any deferred invocation with one that fires when the window
// closes, carrying this call's ctx and args; earlier calls in the window are
// dropped.
//
// Deferred invocations run on the scheduler's goroutine.
func Throttle[T any](fn func(ctx context.Context, args ...T), delay time.Duration, opts ...Option) *Throttler[T] {
	cfg := newConfig(opts)
	return &Throttler[T]{
		fn:        fn,
		delay:     delay,
		scheduler: cfg.scheduler,
		logger:    cfg.logger.With(zap.String("wrapper", "throttle")),
	}
}

func (t *Throttler[T]) Call(ctx context.Context, args ...T) {
	args = slices.Clone(args)

	t.mu.Lock()
	now := t.scheduler.Now()
	remaining := time.Duration(0)
	if t.invoked {
		remaining = t.delay - now.Sub(t.lastInvokedAt)
	}

	t.cancelLocked()

	if remaining <= 0 {
		t.lastInvokedAt = now
		t.invoked = true
		t.mu.Unlock()

		t.logger.Debug("firing")
		t.fn(ctx, args...)
		return
	}

	t.gen++
	gen := t.gen
	t.pending = t.scheduler.Schedule(remaining, func() { t.fire(gen, ctx, args) })
	h := t.pending
	t.mu.Unlock()

	t.logger.Debug("deferred", zap.Stringer("handle", h.ID()), zap.Duration("remaining", remaining))
}

// Cancel drops the deferred invocation, if any. It does not reset the window.
func (t *Throttler[T]) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelLocked()
}

// Pending reports whether a deferred invocation is waiting for the window to close.
func (t *Throttler[T]) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending != nil
}

// LastInvokedAt returns the time fn last started, or false if it never has.
func (t *Throttler[T]) LastInvokedAt() (time.Time, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastInvokedAt, t.invoked
}

func (t *Throttler[T]) cancelLocked() {
	if t.pending == nil {
		return
	}
	t.scheduler.Cancel(t.pending)
	t.logger.Debug("canceled pending call", zap.Stringer("handle", t.pending.ID()))
	t.pending = nil
}

func (t *Throttler[T]) fire(gen uint64, ctx context.Context, args []T) {
	t.mu.Lock()
	if t.pending == nil || t.gen != gen {
		t.mu.Unlock()
		return
	}
	h := t.pending
	t.pending = nil
	t.lastInvokedAt = t.scheduler.Now()
	t.invoked = true
	t.mu.Unlock()

	t.logger.Debug("firing", zap.Stringer("handle", h.ID()))
	t.fn(ctx, args...)
}
