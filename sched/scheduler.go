// Package bsched abstracts "run this after a delay" and "never mind" so that
// timing wrappers can be driven by the wall clock in production and by a
// virtual clock in tests.
package bsched

import (
	"time"

	"github.com/google/uuid"
)

// Clock is a monotonically non-decreasing time source.
type Clock interface {
	Now() time.Time
}

// Scheduler runs zero-argument actions after a delay.
//
// Cancel must be a no-op for a nil handle and for handles that already fired
// or were already canceled.
type Scheduler interface {
	Clock
	Schedule(delay time.Duration, action func()) *Handle
	Cancel(h *Handle)
}

// Handle identifies one scheduled action.
type Handle struct {
	id   uuid.UUID
	due  time.Time
	stop func() bool
}

// NewHandle builds a handle for a Scheduler implementation. stop must report
// whether it prevented the action from running.
func NewHandle(due time.Time, stop func() bool) *Handle {
	return &Handle{id: uuid.New(), due: due, stop: stop}
}

func (h *Handle) ID() uuid.UUID  { return h.id }
func (h *Handle) Due() time.Time { return h.due }

// Stop prevents the action from running. It returns false if the action
// already ran or was already stopped.
func (h *Handle) Stop() bool {
	if h == nil || h.stop == nil {
		return false
	}
	return h.stop()
}

type realScheduler struct{}

// Real schedules on the wall clock via time.AfterFunc. Actions run on their
// own goroutine.
var Real Scheduler = realScheduler{}

func (realScheduler) Now() time.Time {
	return time.Now()
}

func (realScheduler) Schedule(delay time.Duration, action func()) *Handle {
	t := time.AfterFunc(delay, action)
	return NewHandle(time.Now().Add(delay), t.Stop)
}

func (realScheduler) Cancel(h *Handle) {
	h.Stop()
}
