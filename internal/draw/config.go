package draw

import (
	"github.com/kpister/elf/internal/hooks"
	"github.com/kpister/elf/internal/logger"
	"github.com/kpister/elf/internal/metrics"
	"github.com/kpister/elf/types"
)

// Config holds drawer configuration.
//
// Strategy is required. Optional fields are set to sensible defaults by
// SetDefaults if zero-valued.
type Config struct {
	// Required dependencies
	Strategy types.DrawStrategy

	// SkipFeasibilityCheck disables the matching pre-check before sampling.
	SkipFeasibilityCheck bool

	// Optional dependencies
	Metrics types.MetricsCollector // Metrics collector (default: no-op)
	Logger  types.Logger           // Logger (default: no-op)
	Hooks   *types.Hooks           // Lifecycle hooks (default: no-op)
}

// Validate checks configuration validity.
func (c *Config) Validate() error {
	if c.Strategy == nil {
		return types.ErrDrawStrategyRequired
	}

	return nil
}

// SetDefaults applies default values for optional fields.
//
// Fields that are already set (non-nil) are not overwritten.
func (c *Config) SetDefaults() {
	if c.Metrics == nil {
		c.Metrics = metrics.NewNop()
	}
	if c.Logger == nil {
		c.Logger = logger.NewNop()
	}
	filled := hooks.Fill(c.Hooks)
	c.Hooks = &filled
}
