package types

import "context"

// Hooks defines callbacks for Exchange lifecycle events.
//
// All hooks are optional and run synchronously on the caller's goroutine,
// after the corresponding step has completed. Hook errors are logged but
// don't fail the exchange.
//
// Example:
//
//	hooks := &elf.Hooks{
//	    OnRoundDrawn: func(ctx context.Context, round elf.Round) error {
//	        audit.Record(round.Number, len(round.Pairs))
//	        return nil
//	    },
//	}
type Hooks struct {
	// OnRoundDrawn is called after a round has been committed to the roster.
	OnRoundDrawn func(ctx context.Context, round Round) error

	// OnDelivered is called after the notifier accepted every report.
	OnDelivered func(ctx context.Context, reports []Report) error

	// OnError is called when a draw or delivery fails.
	OnError func(ctx context.Context, err error) error
}
