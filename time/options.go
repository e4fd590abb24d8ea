package btime

import (
	"go.uber.org/zap"

	bsched "github.com/brynbellomy/go-callwrap/sched"
)

type config struct {
	scheduler bsched.Scheduler
	logger    *zap.Logger
	immediate bool
}

type Option func(*config)

func newConfig(opts []Option) config {
	cfg := config{
		scheduler: bsched.Real,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithScheduler replaces the wall-clock scheduler, typically with a
// *bsched.Fake in tests.
func WithScheduler(s bsched.Scheduler) Option {
	return func(cfg *config) {
		if s != nil {
			cfg.scheduler = s
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(cfg *config) {
		if l != nil {
			cfg.logger = l
		}
	}
}

// Immediate makes a Debouncer fire on the leading edge of a burst instead of
// the trailing edge. Throttle ignores it.
func Immediate() Option {
	return func(cfg *config) {
		cfg.immediate = true
	}
}
