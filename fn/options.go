package bfn

import (
	"go.uber.org/zap"
)

type config struct {
	logger *zap.Logger
}

type Option func(*config)

func newConfig(opts []Option) config {
	cfg := config{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func WithLogger(l *zap.Logger) Option {
	return func(cfg *config) {
		if l != nil {
			cfg.logger = l
		}
	}
}
