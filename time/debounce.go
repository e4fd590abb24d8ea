package btime

import (
	"context"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	bsched "github.com/brynbellomy/go-callwrap/sched"
)

// Debouncer delays fn until calls stop arriving for a quiet period.
type Debouncer[T any] struct {
	fn        func(ctx context.Context, args ...T)
	delay     time.Duration
	immediate bool
	scheduler bsched.Scheduler
	logger    *zap.Logger

	mu      sync.Mutex
	pending *bsched.Handle
	gen     uint64
}

// Debounce wraps fn so that a burst of calls spaced less than delay apart
// produces a single invocation. By default fn runs delay after the last call
// of the burst, with that call's ctx and args. With Immediate, fn runs
// synchronously on the first call of the burst and the trailing invocation is
// dropped; later calls in the burst only extend the quiet period.
//
// Deferred invocations run on the scheduler's goroutine.
func Debounce[T any](fn func(ctx context.Context, args ...T), delay time.Duration, opts ...Option) *Debouncer[T] {
	cfg := newConfig(opts)
	return &Debouncer[T]{
		fn:        fn,
		delay:     delay,
		immediate: cfg.immediate,
		scheduler: cfg.scheduler,
		logger:    cfg.logger.With(zap.String("wrapper", "debounce")),
	}
}

func (d *Debouncer[T]) Call(ctx context.Context, args ...T) {
	args = slices.Clone(args)

	d.mu.Lock()
	leading := d.immediate && d.pending == nil
	if d.pending != nil {
		d.scheduler.Cancel(d.pending)
		d.logger.Debug("superseded pending call", zap.Stringer("handle", d.pending.ID()))
	}

	d.gen++
	gen := d.gen
	h := d.scheduler.Schedule(d.delay, func() { d.fire(gen, ctx, args) })
	d.pending = h
	d.mu.Unlock()

	d.logger.Debug("scheduled", zap.Stringer("handle", h.ID()), zap.Duration("delay", d.delay), zap.Bool("leading", leading))

	if leading {
		d.fn(ctx, args...)
	}
}

// Pending reports whether a quiet period is currently running.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

func (d *Debouncer[T]) fire(gen uint64, ctx context.Context, args []T) {
	d.mu.Lock()
	if d.pending == nil || d.gen != gen {
		// superseded after the timer had already fired
		d.mu.Unlock()
		return
	}
	h := d.pending
	d.pending = nil
	d.mu.Unlock()

	if d.immediate {
		d.logger.Debug("quiet period ended", zap.Stringer("handle", h.ID()))
		return
	}
	d.logger.Debug("firing", zap.Stringer("handle", h.ID()))
	d.fn(ctx, args...)
}
