package strategy

import (
	"context"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/kpister/elf/types"
	"github.com/stretchr/testify/require"
)

func newRoster(t *testing.T, entries ...types.Entry) *types.Roster {
	t.Helper()

	r, err := types.BuildRoster(entries, false)
	require.NoError(t, err)

	return r
}

func plain(names ...string) []types.Entry {
	entries := make([]types.Entry, len(names))
	for i, n := range names {
		entries[i] = types.Entry{Name: n, Email: strings.ToLower(n) + "@example.com"}
	}

	return entries
}

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func TestRejectionSampler_Propose(t *testing.T) {
	t.Run("returns a derangement of four participants", func(t *testing.T) {
		s := NewRejectionSampler(WithRand(seeded(1)))
		r := newRoster(t, plain("A", "B", "C", "D")...)

		p, err := s.Propose(context.Background(), r)

		require.NoError(t, err)
		require.NoError(t, r.Validate(p.Pairs))
		require.GreaterOrEqual(t, p.Attempts, 1)
		for _, pair := range p.Pairs {
			require.NotEqual(t, pair.Giver, pair.Recipient)
		}
	})

	t.Run("counts rejections for every discarded candidate", func(t *testing.T) {
		s := NewRejectionSampler(WithRand(seeded(7)))
		r := newRoster(t, plain("A", "B", "C", "D", "E")...)

		p, err := s.Propose(context.Background(), r)
		require.NoError(t, err)

		total := 0
		for _, n := range p.Rejections {
			total += n
		}
		require.Equal(t, p.Attempts-1, total)
	})

	t.Run("does not mutate the roster", func(t *testing.T) {
		s := NewRejectionSampler(WithRand(seeded(2)))
		r := newRoster(t, plain("A", "B", "C")...)

		_, err := s.Propose(context.Background(), r)

		require.NoError(t, err)
		require.Equal(t, 0, r.Rounds())
	})

	t.Run("exhausts the budget on an infeasible roster", func(t *testing.T) {
		s := NewRejectionSampler(WithRand(seeded(3)), WithMaxAttempts(200))
		r := newRoster(t, plain("A", "B")...)
		require.NoError(t, r.Commit([]types.Pair{{Giver: "A", Recipient: "B"}, {Giver: "B", Recipient: "A"}}))

		p, err := s.Propose(context.Background(), r)

		require.ErrorIs(t, err, types.ErrRetryBudgetExhausted)
		require.Equal(t, 200, p.Attempts)
		require.Equal(t, 200, p.Rejections[types.ViolationSelf]+p.Rejections[types.ViolationRepeat])
		require.Zero(t, p.Rejections[types.ViolationPartner])
	})

	t.Run("stops when the context is canceled", func(t *testing.T) {
		s := NewRejectionSampler(WithRand(seeded(4)), WithMaxAttempts(1_000_000))
		r := newRoster(t, plain("A", "B")...)
		require.NoError(t, r.Commit([]types.Pair{{Giver: "A", Recipient: "B"}, {Giver: "B", Recipient: "A"}}))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		p, err := s.Propose(ctx, r)

		require.ErrorIs(t, err, context.Canceled)
		require.Less(t, p.Attempts, ctxCheckInterval)
	})

	t.Run("reaches every derangement of four", func(t *testing.T) {
		s := NewRejectionSampler(WithRand(seeded(5)))
		seen := map[string]bool{}

		for range 2000 {
			r := newRoster(t, plain("A", "B", "C", "D")...)
			p, err := s.Propose(context.Background(), r)
			require.NoError(t, err)

			key := ""
			for _, pair := range p.Pairs {
				key += pair.Recipient
			}
			seen[key] = true
		}

		// D(4) = 9
		require.Len(t, seen, 9)
	})

	t.Run("same seed reproduces the same round", func(t *testing.T) {
		r := newRoster(t, plain("A", "B", "C", "D", "E", "F")...)

		p1, err := NewRejectionSampler(WithRand(seeded(42))).Propose(context.Background(), r)
		require.NoError(t, err)
		p2, err := NewRejectionSampler(WithRand(seeded(42))).Propose(context.Background(), r)
		require.NoError(t, err)

		require.Equal(t, p1.Pairs, p2.Pairs)
	})
}

func TestWithMaxAttempts(t *testing.T) {
	require.Equal(t, DefaultMaxAttempts, NewRejectionSampler().MaxAttempts())
	require.Equal(t, 10, NewRejectionSampler(WithMaxAttempts(10)).MaxAttempts())
	require.Equal(t, DefaultMaxAttempts, NewRejectionSampler(WithMaxAttempts(0)).MaxAttempts())
	require.Equal(t, "rejection", NewRejectionSampler().Name())
}
