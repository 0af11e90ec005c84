// Package metrics provides MetricsCollector implementations.
package metrics

import "github.com/kpister/elf/types"

// NopMetrics implements a no-op metrics collector.
//
// All metrics are discarded. Useful for testing or when external
// metrics collection is used.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
//
// Example:
//
//	ex, err := elf.NewExchange(&cfg, src, strat, notifier, elf.WithMetrics(metrics.NewNop()))
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// DrawMetrics implementation

// RecordDraw discards the draw outcome metric.
func (n *NopMetrics) RecordDraw(_ /* strategy */ string, _ /* attempts */ int, _ /* success */ bool) {
	// No-op
}

// RecordDrawDuration discards the draw duration metric.
func (n *NopMetrics) RecordDrawDuration(_ /* duration */ float64) {
	// No-op
}

// RecordRejections discards the rejection counter.
func (n *NopMetrics) RecordRejections(_ /* violation */ types.Violation, _ /* count */ int) {
	// No-op
}

// RecordRosterSize discards the roster size gauge.
func (n *NopMetrics) RecordRosterSize(_ /* count */ int) {
	// No-op
}

// DeliveryMetrics implementation

// RecordDelivery discards the delivery metric.
func (n *NopMetrics) RecordDelivery(_ /* transport */ string, _ /* success */ bool) {
	// No-op
}
