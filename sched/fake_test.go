package bsched_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	bsched "github.com/brynbellomy/go-callwrap/sched"
)

var epoch = time.Unix(0, 0)

func TestFake_FiresInDueOrder(t *testing.T) {
	f := bsched.NewFake(epoch)

	var fired []string
	var at []time.Duration
	record := func(name string) func() {
		return func() {
			fired = append(fired, name)
			at = append(at, f.Now().Sub(epoch))
		}
	}

	f.Schedule(30*time.Millisecond, record("c"))
	f.Schedule(10*time.Millisecond, record("a"))
	f.Schedule(20*time.Millisecond, record("b1"))
	f.Schedule(20*time.Millisecond, record("b2"))
	require.Equal(t, 4, f.Pending())

	f.Advance(25 * time.Millisecond)
	require.Equal(t, []string{"a", "b1", "b2"}, fired)
	require.Equal(t, []time.Duration{10 * time.Millisecond, 20 * time.Millisecond, 20 * time.Millisecond}, at)
	require.Equal(t, 25*time.Millisecond, f.Now().Sub(epoch))
	require.Equal(t, 1, f.Pending())

	f.Advance(5 * time.Millisecond)
	require.Equal(t, []string{"a", "b1", "b2", "c"}, fired)
	require.Equal(t, 0, f.Pending())
}

func TestFake_Cancel(t *testing.T) {
	f := bsched.NewFake(epoch)

	var fired int
	h := f.Schedule(10*time.Millisecond, func() { fired++ })
	other := f.Schedule(10*time.Millisecond, func() { fired += 10 })

	f.Cancel(h)
	f.Cancel(h)
	f.Cancel(nil)
	require.Equal(t, 1, f.Pending())

	f.Advance(time.Second)
	require.Equal(t, 10, fired)

	// cancel after fire is a no-op
	require.False(t, other.Stop())
	f.Cancel(other)
	require.Equal(t, 0, f.Pending())
}

func TestFake_ActionsCanReschedule(t *testing.T) {
	f := bsched.NewFake(epoch)

	var ticks []time.Duration
	var tick func()
	tick = func() {
		ticks = append(ticks, f.Now().Sub(epoch))
		if len(ticks) < 3 {
			f.Schedule(10*time.Millisecond, tick)
		}
	}
	f.Schedule(10*time.Millisecond, tick)

	f.Advance(100 * time.Millisecond)
	require.Equal(t, []time.Duration{10 * time.Millisecond, 20 * time.Millisecond, 30 * time.Millisecond}, ticks)
}

func TestFake_ZeroDelayWaitsForAdvance(t *testing.T) {
	f := bsched.NewFake(epoch)

	var fired bool
	h := f.Schedule(0, func() { fired = true })
	require.False(t, fired)
	require.Equal(t, epoch, h.Due())

	f.Advance(0)
	require.True(t, fired)
}

func TestFake_HandleIDsAreUnique(t *testing.T) {
	f := bsched.NewFake(epoch)
	a := f.Schedule(time.Millisecond, func() {})
	b := f.Schedule(time.Millisecond, func() {})
	require.NotEqual(t, a.ID(), b.ID())
}

func TestReal_FiresAndCancels(t *testing.T) {
	fired := make(chan struct{}, 1)
	bsched.Real.Schedule(5*time.Millisecond, func() { fired <- struct{}{} })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("scheduled action never ran")
	}

	canceled := make(chan struct{}, 1)
	h := bsched.Real.Schedule(20*time.Millisecond, func() { canceled <- struct{}{} })
	bsched.Real.Cancel(h)
	bsched.Real.Cancel(h)

	select {
	case <-canceled:
		t.Fatal("canceled action ran")
	case <-time.After(60 * time.Millisecond):
	}
}
