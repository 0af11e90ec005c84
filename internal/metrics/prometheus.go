package metrics

import (
	"fmt"
	"sync"

	"github.com/kpister/elf/types"
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector implements types.MetricsCollector backed by Prometheus.
//
// Collectors are created and registered lazily on first use.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	draws        *prometheus.CounterVec
	drawAttempts *prometheus.HistogramVec
	drawDuration prometheus.Histogram
	rejections   *prometheus.CounterVec
	rosterSize   prometheus.Gauge
	deliveries   *prometheus.CounterVec
}

// Compile-time assertion that PrometheusCollector implements MetricsCollector.
var _ types.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a new Prometheus-backed metrics collector.
//
// Parameters:
//   - reg: Prometheus registerer interface (uses prometheus.DefaultRegisterer if nil)
//   - namespace: Prometheus metrics namespace (defaults to "elf" if empty)
//
// Returns:
//   - *PrometheusCollector: A MetricsCollector implementation using Prometheus
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "elf"
	}

	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.draws = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "draw",
			Name:      "rounds_total",
			Help:      "Total round draws by strategy and result (success,failure).",
		}, []string{"strategy", "result"})

		p.drawAttempts = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "draw",
			Name:      "attempts",
			Help:      "Candidates sampled per round draw.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 9), // 1 .. 65536
		}, []string{"strategy"})

		p.drawDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "draw",
			Name:      "duration_seconds",
			Help:      "Duration of round draws in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8), // 100µs .. ~1.6s
		})

		p.rejections = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "draw",
			Name:      "rejections_total",
			Help:      "Discarded candidates by violation (self,partner,repeat).",
		}, []string{"violation"})

		p.rosterSize = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "roster",
			Name:      "participants",
			Help:      "Number of participants in the current roster.",
		})

		p.deliveries = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "notify",
			Name:      "deliveries_total",
			Help:      "Report deliveries by transport and result (success,failure).",
		}, []string{"transport", "result"})

		p.reg.MustRegister(p.draws)
		p.reg.MustRegister(p.drawAttempts)
		p.reg.MustRegister(p.drawDuration)
		p.reg.MustRegister(p.rejections)
		p.reg.MustRegister(p.rosterSize)
		p.reg.MustRegister(p.deliveries)
	})
}

// RecordDraw counts the draw and observes the attempts it took.
func (p *PrometheusCollector) RecordDraw(strategy string, attempts int, success bool) {
	p.ensureRegistered()
	p.draws.WithLabelValues(strategy, result(success)).Inc()
	p.drawAttempts.WithLabelValues(strategy).Observe(float64(attempts))
}

// RecordDrawDuration observes draw latency in seconds.
func (p *PrometheusCollector) RecordDrawDuration(duration float64) {
	p.ensureRegistered()
	p.drawDuration.Observe(duration)
}

// RecordRejections adds count to the rejection counter for the violation.
func (p *PrometheusCollector) RecordRejections(violation types.Violation, count int) {
	p.ensureRegistered()
	p.rejections.WithLabelValues(violation.String()).Add(float64(count))
}

// RecordRosterSize sets the participant gauge.
func (p *PrometheusCollector) RecordRosterSize(count int) {
	p.ensureRegistered()
	p.rosterSize.Set(float64(count))
}

// RecordDelivery counts one delivery attempt.
func (p *PrometheusCollector) RecordDelivery(transport string, success bool) {
	p.ensureRegistered()
	p.deliveries.WithLabelValues(transport, result(success)).Inc()
}

// WriteTextfile writes every metric gathered by g to path in the text exposition
// format, for pickup by the node_exporter textfile collector.
//
// Parameters:
//   - path: Destination file (written atomically)
//   - g: Gatherer to read from, usually the registry passed to NewPrometheus
//
// Returns:
//   - error: Gather or write failure
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}

	return nil
}

func result(success bool) string {
	if success {
		return "success"
	}

	return "failure"
}
