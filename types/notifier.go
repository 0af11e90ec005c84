package types

import "context"

// Notifier delivers each participant's report.
//
// Implementations should attempt every report even when some fail, and
// return ErrDeliveryFailed (or ErrPublishFailed) joined with the individual
// failures so callers can see who was not reached.
type Notifier interface {
	// Notify delivers one message per report.
	//
	// Parameters:
	//   - ctx: Context for cancellation and deadline
	//   - reports: Reports in roster order
	//
	// Returns:
	//   - error: nil when every report was delivered
	Notify(ctx context.Context, reports []Report) error
}
