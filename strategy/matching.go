package strategy

import (
	"context"
	"math/rand/v2"

	"github.com/kpister/elf/internal/matching"
	"github.com/kpister/elf/types"
)

// Matching implements round drawing as randomized bipartite matching.
type Matching struct {
	rng *rand.Rand
}

var _ types.DrawStrategy = (*Matching)(nil)

// MatchingOption configures a Matching strategy.
type MatchingOption func(*Matching)

// NewMatching creates a new matching strategy.
//
// The strategy searches for a perfect matching between givers and allowed
// recipients, visiting vertices and edges in random order. It always
// terminates and reports ErrInfeasibleRound when no valid round exists.
//
// Parameters:
//   - opts: Optional configuration (WithMatchingRand)
//
// Returns:
//   - *Matching: Initialized matching strategy
func NewMatching(opts ...MatchingOption) *Matching {
	m := &Matching{}

	for _, opt := range opts {
		opt(m)
	}

	if m.rng == nil {
		m.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) //nolint:gosec // not used for secrets
	}

	return m
}

// WithMatchingRand sets the random source used to order the search.
func WithMatchingRand(rng *rand.Rand) MatchingOption {
	return func(m *Matching) {
		m.rng = rng
	}
}

// Name returns "matching".
func (m *Matching) Name() string {
	return "matching"
}

// Propose finds a random perfect matching over allowed pairs.
//
// Returns:
//   - types.Proposal: Pairs in roster order (Attempts is always 1)
//   - error: ErrInfeasibleRound when no perfect matching exists, or ctx.Err()
func (m *Matching) Propose(ctx context.Context, roster *types.Roster) (types.Proposal, error) {
	if err := ctx.Err(); err != nil {
		return types.Proposal{}, err
	}

	names := roster.Names()
	if len(names) < 2 {
		return types.Proposal{}, ErrNoParticipants
	}

	match, ok := matching.FromRoster(roster).Perfect(m.rng)
	if !ok {
		return types.Proposal{Attempts: 1}, types.ErrInfeasibleRound
	}

	pairs := make([]types.Pair, len(names))
	for i, giver := range names {
		pairs[i] = types.Pair{Giver: giver, Recipient: names[match[i]]}
	}

	return types.Proposal{Pairs: pairs, Attempts: 1}, nil
}
