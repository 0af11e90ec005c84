package types

// MetricsCollector defines methods for recording operational metrics.
//
// Implementations should be non-blocking and handle failures gracefully.
//
// This interface composes smaller, domain-focused interfaces for better modularity.
type MetricsCollector interface {
	DrawMetrics
	DeliveryMetrics
}

// DrawMetrics defines metrics for round draws.
type DrawMetrics interface {
	// RecordDraw records the outcome of one round draw.
	//
	// Parameters:
	//   - strategy: Strategy name ("rejection", "matching")
	//   - attempts: Candidates sampled by the strategy
	//   - success: true if the round was committed
	RecordDraw(strategy string, attempts int, success bool)

	// RecordDrawDuration records the time taken for a round draw.
	//
	// Parameters:
	//   - duration: Time taken in seconds
	RecordDrawDuration(duration float64)

	// RecordRejections records discarded candidates by violation.
	//
	// Parameters:
	//   - violation: First violation found in the discarded candidates
	//   - count: Number of candidates discarded for that reason
	RecordRejections(violation Violation, count int)

	// RecordRosterSize sets the current number of participants (gauge metric).
	RecordRosterSize(count int)
}

// DeliveryMetrics defines metrics for report delivery.
type DeliveryMetrics interface {
	// RecordDelivery records a single delivery attempt.
	//
	// Parameters:
	//   - transport: Transport name ("smtp", "kv", "writer")
	//   - success: true if the report was delivered
	RecordDelivery(transport string, success bool)
}
