package bsched

import (
	"sync"
	"time"
)

// Fake is a Scheduler on virtual time. Nothing fires until the test moves the
// clock with Advance or AdvanceTo; due actions then run synchronously on the
// caller's goroutine, earliest first, FIFO among equal due times.
type Fake struct {
	mu     sync.Mutex
	now    time.Time
	queue  *sortedMap[int64, []*fakeTimer]
	queued int
}

type fakeTimer struct {
	due    time.Time
	action func()
	done   bool
}

var _ Scheduler = (*Fake)(nil)

func NewFake(start time.Time) *Fake {
	return &Fake{
		now:   start,
		queue: newSortedMap[int64, []*fakeTimer](),
	}
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *Fake) Schedule(delay time.Duration, action func()) *Handle {
	f.mu.Lock()
	defer f.mu.Unlock()

	if delay < 0 {
		delay = 0
	}
	t := &fakeTimer{due: f.now.Add(delay), action: action}
	key := t.due.UnixNano()
	bucket, _ := f.queue.Get(key)
	f.queue.Insert(key, append(bucket, t))
	f.queued++

	return NewHandle(t.due, func() bool { return f.stop(t) })
}

func (f *Fake) Cancel(h *Handle) {
	h.Stop()
}

// Pending reports how many actions are waiting to fire.
func (f *Fake) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queued
}

// Advance moves the virtual clock forward by d, firing everything that falls
// due on the way.
func (f *Fake) Advance(d time.Duration) {
	f.AdvanceTo(f.Now().Add(d))
}

// AdvanceTo moves the virtual clock to target. Each action runs with the clock
// set to its own due time, and may schedule or cancel further actions; any
// that fall due at or before target also fire.
func (f *Fake) AdvanceTo(target time.Time) {
	for {
		f.mu.Lock()
		t := f.popDue(target)
		if t == nil {
			if target.After(f.now) {
				f.now = target
			}
			f.mu.Unlock()
			return
		}
		if t.due.After(f.now) {
			f.now = t.due
		}
		f.mu.Unlock()

		t.action()
	}
}

func (f *Fake) popDue(target time.Time) *fakeTimer {
	key, bucket, ok := f.queue.Min()
	if !ok || key > target.UnixNano() {
		return nil
	}
	t := bucket[0]
	f.removeFromBucket(key, bucket, 0)
	t.done = true
	return t
}

func (f *Fake) stop(t *fakeTimer) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if t.done {
		return false
	}
	t.done = true

	key := t.due.UnixNano()
	bucket, _ := f.queue.Get(key)
	for i, other := range bucket {
		if other == t {
			f.removeFromBucket(key, bucket, i)
			break
		}
	}
	return true
}

func (f *Fake) removeFromBucket(key int64, bucket []*fakeTimer, i int) {
	f.queued--
	if len(bucket) == 1 {
		f.queue.Delete(key)
		return
	}
	rest := make([]*fakeTimer, 0, len(bucket)-1)
	rest = append(rest, bucket[:i]...)
	rest = append(rest, bucket[i+1:]...)
	f.queue.Insert(key, rest)
}
