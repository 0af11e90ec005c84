package types

import "context"

// DrawStrategy proposes a candidate round for a roster.
//
// Strategies implement different sampling algorithms:
//   - RejectionSampler: Shuffle-and-check, retried up to a budget
//   - Matching: Randomized bipartite matching, always terminates
//   - Custom: User-defined algorithms
//
// The drawer calls Propose once per round and re-validates the result before
// committing it, so a strategy never needs to mutate the roster.
//
// Strategy implementations should:
//   - Return pairs in roster order (Roster.Names)
//   - Leave the roster untouched
//   - Honor context cancellation in long-running loops
type DrawStrategy interface {
	// Name returns a short identifier used in logs and metrics (e.g., "rejection").
	Name() string

	// Propose returns a candidate round satisfying every roster constraint.
	//
	// Parameters:
	//   - ctx: Context for cancellation
	//   - roster: Roster including all previously committed rounds
	//
	// Returns:
	//   - Proposal: Candidate pairs and sampling statistics
	//   - error: ErrInfeasibleRound, ErrRetryBudgetExhausted, or a context error
	Propose(ctx context.Context, roster *Roster) (Proposal, error)
}
