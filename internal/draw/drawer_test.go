package draw

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kpister/elf/strategy"
	"github.com/kpister/elf/types"
	"github.com/stretchr/testify/require"
)

type fixedStrategy struct {
	pairs []types.Pair
	err   error
	calls int
}

func (f *fixedStrategy) Name() string { return "fixed" }

func (f *fixedStrategy) Propose(_ context.Context, _ *types.Roster) (types.Proposal, error) {
	f.calls++
	return types.Proposal{Pairs: f.pairs, Attempts: 3}, f.err
}

func plain(names ...string) []types.Entry {
	entries := make([]types.Entry, len(names))
	for i, n := range names {
		entries[i] = types.Entry{Name: n, Email: strings.ToLower(n) + "@example.com"}
	}

	return entries
}

func mustRoster(t *testing.T, symmetric bool, entries ...types.Entry) *types.Roster {
	t.Helper()

	r, err := types.BuildRoster(entries, symmetric)
	require.NoError(t, err)

	return r
}

func mustDrawer(t *testing.T, cfg *Config) *Drawer {
	t.Helper()

	d, err := New(cfg)
	require.NoError(t, err)

	return d
}

func requirePermutation(t *testing.T, r *types.Roster, round types.Round) {
	t.Helper()

	names := r.Names()
	require.Len(t, round.Pairs, len(names))

	recipients := make([]string, 0, len(round.Pairs))
	for i, p := range round.Pairs {
		require.Equal(t, names[i], p.Giver)
		recipients = append(recipients, p.Recipient)
	}
	require.ElementsMatch(t, names, recipients)
}

func TestNew(t *testing.T) {
	t.Run("requires a strategy", func(t *testing.T) {
		_, err := New(&Config{})
		require.ErrorIs(t, err, types.ErrDrawStrategyRequired)
	})

	t.Run("fills optional dependencies", func(t *testing.T) {
		d := mustDrawer(t, &Config{Strategy: strategy.NewRejectionSampler()})

		require.NotNil(t, d.Logger)
		require.NotNil(t, d.Metrics)
		require.NotNil(t, d.Hooks)
		require.NotNil(t, d.Hooks.OnRoundDrawn)
	})
}

func TestDrawer_DrawRound(t *testing.T) {
	ctx := context.Background()

	t.Run("four participants without partners get a derangement", func(t *testing.T) {
		d := mustDrawer(t, &Config{Strategy: strategy.NewRejectionSampler()})
		r := mustRoster(t, false, plain("A", "B", "C", "D")...)

		round, err := d.DrawRound(ctx, r)

		require.NoError(t, err)
		require.Equal(t, 1, round.Number)
		requirePermutation(t, r, round)
		for _, p := range round.Pairs {
			require.NotEqual(t, p.Giver, p.Recipient)
		}
		require.Equal(t, 1, r.Rounds())
	})

	t.Run("partners never draw each other", func(t *testing.T) {
		entries := plain("A", "B", "C", "D")
		entries[0].Significant = "B"
		d := mustDrawer(t, &Config{Strategy: strategy.NewRejectionSampler()})

		for range 200 {
			r := mustRoster(t, true, entries...)
			round, err := d.DrawRound(ctx, r)
			require.NoError(t, err)

			a, _ := round.Recipient("A")
			b, _ := round.Recipient("B")
			require.NotEqual(t, "B", a)
			require.NotEqual(t, "A", b)
		}
	})

	t.Run("histories never repeat across rounds", func(t *testing.T) {
		for _, s := range []types.DrawStrategy{strategy.NewRejectionSampler(), strategy.NewMatching()} {
			d := mustDrawer(t, &Config{Strategy: s})
			r := mustRoster(t, false, plain("A", "B", "C", "D", "E")...)

			for i := 1; i <= 4; i++ {
				round, err := d.DrawRound(ctx, r)
				require.NoError(t, err, s.Name())
				require.Equal(t, i, round.Number)
				requirePermutation(t, r, round)
			}

			for _, p := range r.Participants() {
				require.Len(t, p.History, 4)
				require.NotContains(t, p.History, p.Name)
				seen := make(map[string]bool)
				for _, name := range p.History {
					require.False(t, seen[name], "%s repeats %s", p.Name, name)
					seen[name] = true
				}
			}
		}
	})

	t.Run("second round of two is infeasible", func(t *testing.T) {
		d := mustDrawer(t, &Config{Strategy: strategy.NewRejectionSampler()})
		r := mustRoster(t, false, plain("A", "B")...)

		_, err := d.DrawRound(ctx, r)
		require.NoError(t, err)
		before := r.Participants()

		_, err = d.DrawRound(ctx, r)

		require.ErrorIs(t, err, types.ErrInfeasibleRound)
		var drawErr *types.DrawError
		require.ErrorAs(t, err, &drawErr)
		require.Equal(t, 2, drawErr.Round)
		require.Zero(t, drawErr.Attempts)
		require.Equal(t, before, r.Participants())
	})

	t.Run("retry budget bounds sampling without the pre-check", func(t *testing.T) {
		d := mustDrawer(t, &Config{
			Strategy:             strategy.NewRejectionSampler(strategy.WithMaxAttempts(50)),
			SkipFeasibilityCheck: true,
		})
		r := mustRoster(t, false, plain("A", "B")...)
		_, err := d.DrawRound(ctx, r)
		require.NoError(t, err)

		_, err = d.DrawRound(ctx, r)

		require.ErrorIs(t, err, types.ErrRetryBudgetExhausted)
		var drawErr *types.DrawError
		require.ErrorAs(t, err, &drawErr)
		require.Equal(t, 50, drawErr.Attempts)
		require.Equal(t, 1, r.Rounds())
	})

	t.Run("rejects rosters smaller than two", func(t *testing.T) {
		d := mustDrawer(t, &Config{Strategy: strategy.NewMatching()})

		_, err := d.DrawRound(ctx, mustRoster(t, false, plain("A")...))
		require.ErrorIs(t, err, types.ErrNotEnoughParticipants)

		_, err = d.DrawRound(ctx, types.NewRoster())
		require.ErrorIs(t, err, types.ErrNotEnoughParticipants)
	})

	t.Run("invalid proposals are never committed", func(t *testing.T) {
		fixed := &fixedStrategy{pairs: []types.Pair{
			{Giver: "A", Recipient: "A"},
			{Giver: "B", Recipient: "C"},
			{Giver: "C", Recipient: "B"},
		}}
		d := mustDrawer(t, &Config{Strategy: fixed})
		r := mustRoster(t, false, plain("A", "B", "C")...)

		_, err := d.DrawRound(ctx, r)

		require.ErrorIs(t, err, types.ErrInvalidRound)
		require.Equal(t, 1, fixed.calls)
		require.Zero(t, r.Rounds())
	})

	t.Run("strategy errors are wrapped with the round number", func(t *testing.T) {
		boom := errors.New("boom")
		d := mustDrawer(t, &Config{Strategy: &fixedStrategy{err: boom}})
		r := mustRoster(t, false, plain("A", "B", "C")...)

		_, err := d.DrawRound(ctx, r)

		require.ErrorIs(t, err, boom)
		require.EqualError(t, err, "draw round 1: boom (after 3 attempts)")
	})
}

func TestDrawer_Hooks(t *testing.T) {
	ctx := context.Background()

	var drawn []types.Round
	var failures []error
	d := mustDrawer(t, &Config{
		Strategy: strategy.NewMatching(),
		Hooks: &types.Hooks{
			OnRoundDrawn: func(_ context.Context, round types.Round) error {
				drawn = append(drawn, round)
				return errors.New("ignored")
			},
			OnError: func(_ context.Context, err error) error {
				failures = append(failures, err)
				return nil
			},
		},
	})
	r := mustRoster(t, false, plain("A", "B")...)

	round, err := d.DrawRound(ctx, r)
	require.NoError(t, err)
	_, err = d.DrawRound(ctx, r)
	require.Error(t, err)

	require.Equal(t, []types.Round{round}, drawn)
	require.Len(t, failures, 1)
	require.ErrorIs(t, failures[0], types.ErrInfeasibleRound)
}
