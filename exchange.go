package elf

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kpister/elf/internal/draw"
	"github.com/kpister/elf/internal/hooks"
	"github.com/kpister/elf/internal/logger"
	"github.com/kpister/elf/internal/metrics"
	"github.com/kpister/elf/internal/seed"
	"github.com/kpister/elf/strategy"
	"github.com/kpister/elf/types"
)

// checkAttempts is how many randomized simulations Check runs before
// reporting a roster as infeasible.
const checkAttempts = 32

// Exchange runs one gift exchange: load the roster, draw rounds, notify.
//
// Exchange owns the roster it loads; callers only ever see copies.
//
// Thread Safety:
//   - All public methods are safe for concurrent use
//   - Draws are serialized, so concurrent DrawRound calls commit one after another
//
// Lifecycle:
//   - Create with NewExchange()
//   - Call Run() for the whole flow, or Load(), DrawRound() and Notify() step by step
type Exchange struct {
	cfg      Config
	source   RosterSource
	strategy DrawStrategy
	notifier Notifier

	hooks   *Hooks
	metrics MetricsCollector
	logger  Logger

	drawer *draw.Drawer

	mu     sync.Mutex
	roster *Roster
}

// NewExchange creates a new Exchange with the provided configuration.
//
// Parameters:
//   - cfg: Configuration (defaults are applied in place)
//   - source: Roster source (e.g., source.NewYAMLFile("elves.yml"))
//   - strategy: Draw strategy (see NewStrategy)
//   - notifier: Report delivery (e.g., notify.NewSMTP)
//   - opts: Optional configuration (hooks, metrics, logger)
//
// Returns:
//   - *Exchange: Initialized exchange
//   - error: Validation error if configuration or dependencies are invalid
//
// Example:
//
//	cfg := elf.DefaultConfig()
//	strat, _ := elf.NewStrategy(cfg.Draw)
//	ex, err := elf.NewExchange(&cfg, source.NewYAMLFile(cfg.Roster.Path), strat, notifier)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	rounds, err := ex.Run(ctx)
func NewExchange(cfg *Config, source RosterSource, strategy DrawStrategy, notifier Notifier, opts ...Option) (*Exchange, error) {
	if cfg == nil {
		return nil, ErrInvalidConfig
	}
	if source == nil {
		return nil, ErrRosterSourceRequired
	}
	if strategy == nil {
		return nil, ErrDrawStrategyRequired
	}
	if notifier == nil {
		return nil, ErrNotifierRequired
	}

	SetDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options := &exchangeOptions{}
	for _, opt := range opts {
		opt(options)
	}

	metricsCollector := options.metrics
	if metricsCollector == nil {
		metricsCollector = metrics.NewNop()
	}

	loggerInstance := options.logger
	if loggerInstance == nil {
		loggerInstance = logger.NewNop()
	}

	cfg.ValidateWithWarnings(loggerInstance)

	hooksInstance := hooks.Fill(options.hooks)

	drawer, err := draw.New(&draw.Config{
		Strategy:             strategy,
		SkipFeasibilityCheck: cfg.Draw.SkipFeasibilityCheck,
		Metrics:              metricsCollector,
		Logger:               loggerInstance,
		Hooks:                &hooksInstance,
	})
	if err != nil {
		return nil, err
	}

	return &Exchange{
		cfg:      *cfg,
		source:   source,
		strategy: strategy,
		notifier: notifier,
		hooks:    &hooksInstance,
		metrics:  metricsCollector,
		logger:   loggerInstance,
		drawer:   drawer,
	}, nil
}

// NewStrategy builds the draw strategy named by cfg.Strategy.
//
// The random source is derived from cfg.Seed when set, otherwise from crypto/rand.
//
// Returns:
//   - DrawStrategy: RejectionSampler or Matching
//   - error: ErrInvalidConfig for unknown names, or a seeding failure
func NewStrategy(cfg DrawConfig) (DrawStrategy, error) {
	rng, err := seed.New(cfg.Seed)
	if err != nil {
		return nil, err
	}

	switch cfg.Strategy {
	case "", StrategyRejection:
		return strategy.NewRejectionSampler(
			strategy.WithMaxAttempts(cfg.MaxAttempts),
			strategy.WithRand(rng),
		), nil
	case StrategyMatching:
		return strategy.NewMatching(strategy.WithMatchingRand(rng)), nil
	default:
		return nil, fmt.Errorf("%w: unknown draw strategy %q", ErrInvalidConfig, cfg.Strategy)
	}
}

// DrawRound draws one round on roster with strategy and commits it.
//
// This is the standalone form of Exchange.DrawRound for callers managing
// their own roster. The feasibility check is always on.
//
// Returns:
//   - Round: The committed round
//   - error: *DrawError wrapping ErrNotEnoughParticipants, ErrInfeasibleRound,
//     ErrRetryBudgetExhausted or ErrInvalidRound; roster is untouched on error
func DrawRound(ctx context.Context, roster *Roster, strategy DrawStrategy) (Round, error) {
	d, err := draw.New(&draw.Config{Strategy: strategy})
	if err != nil {
		return Round{}, err
	}

	return d.DrawRound(ctx, roster)
}

// Load reads and validates the roster, replacing any previously loaded one.
//
// Partner links that point one way are kept as written (unless
// Draw.SymmetricPartners is set) and reported as warnings.
//
// Returns:
//   - *Roster: Copy of the loaded roster
//   - error: Source or validation error
func (e *Exchange) Load(ctx context.Context) (*Roster, error) {
	roster, err := e.buildRoster(ctx)
	if err != nil {
		return nil, err
	}

	for _, link := range roster.AsymmetricPartners() {
		e.logger.Warn("partner link is one-way",
			"participant", link.Giver,
			"partner", link.Recipient,
			"hint", "add significant to both entries or enable draw.symmetricPartners")
	}

	e.mu.Lock()
	e.roster = roster
	snapshot := roster.Clone()
	e.mu.Unlock()

	e.metrics.RecordRosterSize(snapshot.Len())
	e.logger.Info("roster loaded", "participants", snapshot.Len(), "strategy", e.strategy.Name())

	return snapshot, nil
}

func (e *Exchange) buildRoster(ctx context.Context) (*Roster, error) {
	entries, err := e.source.LoadEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}

	roster, err := types.BuildRoster(entries, e.cfg.Draw.SymmetricPartners)
	if err != nil {
		return nil, fmt.Errorf("build roster: %w", err)
	}

	return roster, nil
}

// DrawRound draws and commits the next round.
//
// Returns:
//   - Round: The committed round
//   - error: ErrRosterNotLoaded, or *DrawError (history is untouched)
func (e *Exchange) DrawRound(ctx context.Context) (Round, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.roster == nil {
		return Round{}, ErrRosterNotLoaded
	}

	return e.drawer.DrawRound(ctx, e.roster)
}

// DrawRounds draws n rounds, stopping at the first failure.
//
// Returns:
//   - []Round: Rounds committed before any failure
//   - error: First draw error
func (e *Exchange) DrawRounds(ctx context.Context, n int) ([]Round, error) {
	rounds := make([]Round, 0, n)
	for range n {
		round, err := e.DrawRound(ctx)
		if err != nil {
			return rounds, err
		}
		rounds = append(rounds, round)
	}

	return rounds, nil
}

// Reports returns one report per participant with their accumulated recipients.
func (e *Exchange) Reports() ([]Report, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.roster == nil {
		return nil, ErrRosterNotLoaded
	}

	return e.roster.Reports(), nil
}

// Roster returns a copy of the loaded roster, or nil before Load.
func (e *Exchange) Roster() *Roster {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.roster == nil {
		return nil
	}

	return e.roster.Clone()
}

// Notify delivers every participant's report through the notifier.
func (e *Exchange) Notify(ctx context.Context) error {
	reports, err := e.Reports()
	if err != nil {
		return err
	}

	start := time.Now()
	if err := e.notifier.Notify(ctx, reports); err != nil {
		e.logger.Error("report delivery failed", "error", err)
		if hookErr := e.hooks.OnError(ctx, err); hookErr != nil {
			e.logger.Warn("OnError hook failed", "error", hookErr)
		}

		return fmt.Errorf("notify: %w", err)
	}

	e.logger.Info("reports delivered", "participants", len(reports), "duration", time.Since(start))

	if err := e.hooks.OnDelivered(ctx, reports); err != nil {
		e.logger.Warn("OnDelivered hook failed", "error", err)
	}

	return nil
}

// Run loads the roster, draws the configured number of rounds and notifies.
//
// Nothing is delivered unless every round was drawn.
//
// Returns:
//   - []Round: Rounds drawn
//   - error: First load, draw or delivery error
func (e *Exchange) Run(ctx context.Context) ([]Round, error) {
	opCtx, cancel := e.operationContext(ctx)
	_, err := e.Load(opCtx)
	cancel()
	if err != nil {
		return nil, err
	}

	rounds, err := e.DrawRounds(ctx, e.cfg.Rounds)
	if err != nil {
		return rounds, err
	}

	opCtx, cancel = e.operationContext(ctx)
	defer cancel()

	return rounds, e.Notify(opCtx)
}

// Check reads the roster from the source and proves the configured number of
// rounds can be drawn from scratch.
//
// Check simulates the draws on a private roster with the matching strategy,
// so the loaded roster, its history and the configured strategy's random
// source are never touched. A successful check is a proof; a failure means no
// sequence was found in several randomized attempts, which is strong evidence
// but not a proof that none exists.
//
// Returns:
//   - error: Load error, or an error wrapping the last *DrawError seen
func (e *Exchange) Check(ctx context.Context) error {
	roster, err := e.buildRoster(ctx)
	if err != nil {
		return err
	}

	rng, err := seed.New(e.cfg.Draw.Seed)
	if err != nil {
		return err
	}
	sim, err := draw.New(&draw.Config{Strategy: strategy.NewMatching(strategy.WithMatchingRand(rng))})
	if err != nil {
		return err
	}

	var lastErr error
	for attempt := 1; attempt <= checkAttempts; attempt++ {
		trial := roster.Clone()
		lastErr = nil
		for range e.cfg.Rounds {
			if _, err := sim.DrawRound(ctx, trial); err != nil {
				lastErr = err
				break
			}
		}
		if lastErr == nil {
			e.logger.Info("roster check passed", "participants", roster.Len(), "rounds", e.cfg.Rounds, "attempts", attempt)
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	e.logger.Error("roster check failed", "rounds", e.cfg.Rounds, "error", lastErr)

	return fmt.Errorf("no sequence of %d rounds found in %d simulations: %w", e.cfg.Rounds, checkAttempts, lastErr)
}

func (e *Exchange) operationContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.cfg.OperationTimeout > 0 {
		return context.WithTimeout(ctx, e.cfg.OperationTimeout)
	}

	return context.WithCancel(ctx)
}
