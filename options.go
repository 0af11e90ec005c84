package elf

// Option configures an Exchange with optional dependencies.
type Option func(*exchangeOptions)

// exchangeOptions holds optional Exchange configuration.
type exchangeOptions struct {
	hooks   *Hooks
	metrics MetricsCollector
	logger  Logger
}

// WithHooks sets lifecycle event hooks.
//
// Parameters:
//   - hooks: Hooks structure with callback functions
//
// Returns:
//   - Option: Functional option for NewExchange
//
// Example:
//
//	hooks := &elf.Hooks{
//	    OnDelivered: func(ctx context.Context, reports []elf.Report) error {
//	        log.Printf("delivered %d reports", len(reports))
//	        return nil
//	    },
//	}
//	ex, err := elf.NewExchange(&cfg, src, strat, notifier, elf.WithHooks(hooks))
func WithHooks(hooks *Hooks) Option {
	return func(o *exchangeOptions) {
		o.hooks = hooks
	}
}

// WithMetrics sets a metrics collector.
//
// Parameters:
//   - metrics: MetricsCollector implementation
//
// Returns:
//   - Option: Functional option for NewExchange
//
// Example:
//
//	ex, err := elf.NewExchange(&cfg, src, strat, notifier,
//	    elf.WithMetrics(metrics.NewPrometheus(reg, "elf")))
func WithMetrics(metrics MetricsCollector) Option {
	return func(o *exchangeOptions) {
		o.metrics = metrics
	}
}

// WithLogger sets a logger.
//
// Parameters:
//   - logger: Logger implementation
//
// Returns:
//   - Option: Functional option for NewExchange
//
// Example:
//
//	logger := logging.NewSlogDefault()
//	ex, err := elf.NewExchange(&cfg, src, strat, notifier, elf.WithLogger(logger))
func WithLogger(logger Logger) Option {
	return func(o *exchangeOptions) {
		o.logger = logger
	}
}
