package btime

import (
	"context"
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/brynbellomy/go-callwrap/errors"
	bsched "github.com/brynbellomy/go-callwrap/sched"
)

var ErrAllRetryAttemptsFailed = errors.New("all retry attempts failed")

// ExponentialBackoff calls fn until it succeeds or attempts run out, waiting
// min(2^i * baseDelay, maxDelay) plus up to baseDelay of jitter between tries.
// Waits happen on the configured scheduler.
func ExponentialBackoff(
	ctx context.Context,
	attempts int,
	baseDelay time.Duration,
	maxDelay time.Duration,
	fn func(context.Context) error,
	opts ...Option,
) error {
	cfg := newConfig(opts)
	logger := cfg.logger.With(zap.String("wrapper", "backoff"))

	if attempts <= 0 {
		return ErrAllRetryAttemptsFailed
	}

	var err error
	for i := range attempts {
		err = fn(ctx)
		if err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}

		var jitter time.Duration
		if baseDelay > 0 {
			jitter = time.Duration(rand.Int63n(int64(baseDelay)))
		}
		delay := backoffDelay(i, baseDelay, maxDelay) + jitter

		logger.Debug("attempt failed", zap.Int("attempt", i+1), zap.Duration("delay", delay), zap.Error(err))

		if err := sleep(ctx, cfg.scheduler, delay); err != nil {
			return err
		}
	}

	return errors.WithCause(ErrAllRetryAttemptsFailed, err)
}

// backoffDelay is min(2^i * baseDelay, maxDelay), saturating before the
// multiplication can overflow.
func backoffDelay(i int, baseDelay, maxDelay time.Duration) time.Duration {
	if baseDelay <= 0 {
		return 0
	}
	if exp := math.Pow(2, float64(i)); exp < float64(maxDelay/baseDelay) {
		return time.Duration(exp) * baseDelay
	}
	return maxDelay
}

func sleep(ctx context.Context, s bsched.Scheduler, d time.Duration) error {
	done := make(chan struct{})
	h := s.Schedule(d, func() { close(done) })

	select {
	case <-ctx.Done():
		s.Cancel(h)
		return ctx.Err()
	case <-done:
		return nil
	}
}
