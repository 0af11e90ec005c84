package notify

import (
	"github.com/kpister/elf/internal/logger"
	"github.com/kpister/elf/internal/metrics"
	"github.com/kpister/elf/types"
)

// options holds the dependencies shared by every notifier.
type options struct {
	logger  types.Logger
	metrics types.MetricsCollector
}

// Option configures a notifier.
type Option func(*options)

// WithLogger sets the logger (default: no-op).
func WithLogger(l types.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics sets the metrics collector (default: no-op).
func WithMetrics(m types.MetricsCollector) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		logger:  logger.NewNop(),
		metrics: metrics.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}
