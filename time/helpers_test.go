package btime_test

import (
	"context"
	"slices"
	"sync"
	"time"

	bsched "github.com/brynbellomy/go-callwrap/sched"
)

var epoch = time.Unix(0, 0)

type ctxKey struct{}

func withTag(tag string) context.Context {
	return context.WithValue(context.Background(), ctxKey{}, tag)
}

type invocation struct {
	at   time.Duration
	tag  string
	args []int
}

// recorder captures every invocation of a wrapped callback along with the
// virtual time it happened at.
type recorder struct {
	mu    sync.Mutex
	clock bsched.Clock
	calls []invocation
}

func (r *recorder) fn(ctx context.Context, args ...int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tag, _ := ctx.Value(ctxKey{}).(string)
	r.calls = append(r.calls, invocation{
		at:   r.clock.Now().Sub(epoch),
		tag:  tag,
		args: slices.Clone(args),
	})
}

func (r *recorder) invocations() []invocation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.calls)
}

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

// stickyScheduler records every scheduled action and never manages to cancel
// one, as happens with time.AfterFunc when the timer fires before Stop.
type stickyScheduler struct {
	mu      sync.Mutex
	now     time.Time
	actions []func()
}

var _ bsched.Scheduler = (*stickyScheduler)(nil)

func (s *stickyScheduler) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

func (s *stickyScheduler) Schedule(delay time.Duration, action func()) *bsched.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actions = append(s.actions, action)
	return bsched.NewHandle(s.now.Add(delay), func() bool { return false })
}

func (s *stickyScheduler) Cancel(h *bsched.Handle) {}

// runAll runs every action ever scheduled, canceled or not, in order.
func (s *stickyScheduler) runAll() int {
	s.mu.Lock()
	actions := s.actions
	s.actions = nil
	s.mu.Unlock()

	for _, action := range actions {
		action()
	}
	return len(actions)
}
