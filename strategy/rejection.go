package strategy

import (
	"context"
	"math/rand/v2"
	"slices"

	"github.com/kpister/elf/types"
)

// DefaultMaxAttempts is the default retry budget of the rejection sampler.
const DefaultMaxAttempts = 10000

// ctxCheckInterval is how many candidates are sampled between context checks.
const ctxCheckInterval = 64

// RejectionSampler implements shuffle-and-check round sampling.
type RejectionSampler struct {
	maxAttempts int
	rng         *rand.Rand
}

var _ types.DrawStrategy = (*RejectionSampler)(nil)

// RejectionOption configures a RejectionSampler strategy.
type RejectionOption func(*RejectionSampler)

// NewRejectionSampler creates a new rejection sampling strategy.
//
// Each attempt shuffles the full list of names and pairs it with the roster
// order. The first pair that breaks a constraint discards the whole candidate.
// Because candidates are uniform permutations, the accepted round is uniform
// over all valid rounds.
//
// Parameters:
//   - opts: Optional configuration (WithMaxAttempts, WithRand)
//
// Returns:
//   - *RejectionSampler: Initialized rejection sampler
//
// Example:
//
//	s := strategy.NewRejectionSampler(
//	    strategy.WithMaxAttempts(50000),
//	    strategy.WithRand(seed.FromPhrase("2026")),
//	)
func NewRejectionSampler(opts ...RejectionOption) *RejectionSampler {
	s := &RejectionSampler{
		maxAttempts: DefaultMaxAttempts,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) //nolint:gosec // not used for secrets
	}

	return s
}

// WithMaxAttempts sets the retry budget.
//
// Values <= 0 keep the default (10000).
//
// Parameters:
//   - n: Maximum number of candidates to sample per round
//
// Returns:
//   - RejectionOption: Configuration option
func WithMaxAttempts(n int) RejectionOption {
	return func(s *RejectionSampler) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithRand sets the random source used for shuffling.
//
// Parameters:
//   - rng: Random source (see internal/seed for reproducible sources)
//
// Returns:
//   - RejectionOption: Configuration option
func WithRand(rng *rand.Rand) RejectionOption {
	return func(s *RejectionSampler) {
		s.rng = rng
	}
}

// Name returns "rejection".
func (s *RejectionSampler) Name() string {
	return "rejection"
}

// MaxAttempts returns the configured retry budget.
func (s *RejectionSampler) MaxAttempts() int {
	return s.maxAttempts
}

// Propose samples candidate rounds until one satisfies every constraint.
//
// The algorithm:
//  1. Shuffle all participant names uniformly
//  2. Pair roster order with the shuffled order
//  3. Abandon the candidate on the first self, partner or repeat pair
//  4. Return the first candidate with no violation
//
// Parameters:
//   - ctx: Context for cancellation (checked every 64 candidates)
//   - roster: Roster including previously committed rounds
//
// Returns:
//   - types.Proposal: Accepted pairs, attempt count and rejection tallies
//   - error: ErrRetryBudgetExhausted when no candidate passed, or ctx.Err()
func (s *RejectionSampler) Propose(ctx context.Context, roster *types.Roster) (types.Proposal, error) {
	givers := roster.Names()
	if len(givers) < 2 {
		return types.Proposal{}, ErrNoParticipants
	}

	candidate := slices.Clone(givers)
	rejections := make(map[types.Violation]int)

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		if attempt%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return types.Proposal{Attempts: attempt - 1, Rejections: rejections}, err
			}
		}

		s.rng.Shuffle(len(candidate), func(i, j int) {
			candidate[i], candidate[j] = candidate[j], candidate[i]
		})

		if v := firstViolation(roster, givers, candidate); v != types.ViolationNone {
			rejections[v]++
			continue
		}

		return types.Proposal{
			Pairs:      zip(givers, candidate),
			Attempts:   attempt,
			Rejections: rejections,
		}, nil
	}

	return types.Proposal{Attempts: s.maxAttempts, Rejections: rejections}, types.ErrRetryBudgetExhausted
}

func firstViolation(roster *types.Roster, givers, recipients []string) types.Violation {
	for i, giver := range givers {
		if v := roster.Check(giver, recipients[i]); v != types.ViolationNone {
			return v
		}
	}

	return types.ViolationNone
}

func zip(givers, recipients []string) []types.Pair {
	pairs := make([]types.Pair, len(givers))
	for i, giver := range givers {
		pairs[i] = types.Pair{Giver: giver, Recipient: recipients[i]}
	}

	return pairs
}
