// Package draw commits constrained rounds to a roster.
//
// A Drawer asks its strategy for a candidate round, re-validates it against
// the roster and appends it to every participant's history. A failed draw
// never modifies the roster.
package draw

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kpister/elf/internal/matching"
	"github.com/kpister/elf/types"
)

// Drawer draws rounds with a single strategy.
type Drawer struct {
	Config
}

// New creates a drawer with validated configuration.
//
// Parameters:
//   - cfg: Drawer configuration (Strategy must be set)
//
// Returns:
//   - *Drawer: Drawer ready to use
//   - error: ErrDrawStrategyRequired if the strategy is missing
//
// Example:
//
//	d, err := draw.New(&draw.Config{
//	    Strategy: strategy.NewRejectionSampler(),
//	    Logger:   logger,
//	})
func New(cfg *Config) (*Drawer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	cfg.SetDefaults()

	return &Drawer{Config: *cfg}, nil
}

// DrawRound draws and commits the next round for roster.
//
// The steps are:
//  1. Reject rosters with fewer than two participants
//  2. Prove a valid round exists (unless SkipFeasibilityCheck is set)
//  3. Ask the strategy for a proposal
//  4. Validate and commit the proposal to the roster
//
// Parameters:
//   - ctx: Context for cancellation
//   - roster: Roster to extend; untouched on error
//
// Returns:
//   - types.Round: The committed round
//   - error: *types.DrawError wrapping the cause
func (d *Drawer) DrawRound(ctx context.Context, roster *types.Roster) (types.Round, error) {
	number := roster.Rounds() + 1
	name := d.Strategy.Name()
	d.Metrics.RecordRosterSize(roster.Len())

	if roster.Len() < 2 {
		return types.Round{}, d.fail(ctx, name, &types.DrawError{Round: number, Err: types.ErrNotEnoughParticipants})
	}

	if !d.SkipFeasibilityCheck && !matching.Feasible(roster) {
		return types.Round{}, d.fail(ctx, name, &types.DrawError{Round: number, Err: types.ErrInfeasibleRound})
	}

	start := time.Now()
	proposal, err := d.Strategy.Propose(ctx, roster)
	d.Metrics.RecordDrawDuration(time.Since(start).Seconds())
	for v, n := range proposal.Rejections {
		d.Metrics.RecordRejections(v, n)
	}

	if err != nil {
		d.Metrics.RecordDraw(name, proposal.Attempts, false)
		return types.Round{}, d.fail(ctx, name, &types.DrawError{Round: number, Attempts: proposal.Attempts, Err: err})
	}

	if err := roster.Commit(proposal.Pairs); err != nil {
		d.Metrics.RecordDraw(name, proposal.Attempts, false)
		return types.Round{}, d.fail(ctx, name, &types.DrawError{Round: number, Attempts: proposal.Attempts, Err: err})
	}

	d.Metrics.RecordDraw(name, proposal.Attempts, true)
	round := types.Round{Number: number, Pairs: proposal.Pairs}

	d.Logger.Info("round drawn",
		"round", number,
		"strategy", name,
		"participants", roster.Len(),
		"attempts", proposal.Attempts,
		"duration", time.Since(start))

	if err := d.Hooks.OnRoundDrawn(ctx, round); err != nil {
		d.Logger.Warn("OnRoundDrawn hook failed", "round", number, "error", err)
	}

	return round, nil
}

func (d *Drawer) fail(ctx context.Context, strategy string, err *types.DrawError) error {
	level := d.Logger.Error
	if errors.Is(err, context.Canceled) {
		level = d.Logger.Warn
	}
	level("round draw failed",
		"round", err.Round,
		"strategy", strategy,
		"attempts", err.Attempts,
		"error", err.Err)

	if hookErr := d.Hooks.OnError(ctx, err); hookErr != nil {
		d.Logger.Warn("OnError hook failed", "error", hookErr)
	}

	return err
}
