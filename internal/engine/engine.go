// Package engine runs the discovery-quote-execute-schedule pipeline: it
// polls for newly listed tokens, filters them against the safety rules,
// fetches buy quotes, executes buys, and arms one deferred sell task per
// successful buy. One logical control flow drives the loop; sell tasks are
// independent deferred units that share only the injected state aggregates.
package engine

import (
	"context"
	"log"
	"sync"
	"time"

	"solana-sniper/internal/config"
	"solana-sniper/internal/domain"
	"solana-sniper/internal/filter"
	"solana-sniper/internal/jupiter"
	"solana-sniper/internal/observability"
	"solana-sniper/internal/state"
)

// QuoteClient is the aggregator-API surface the engine consumes.
type QuoteClient interface {
	RecentTokens(ctx context.Context) ([]domain.Token, error)
	GetQuotes(ctx context.Context, inputMint string, amount uint64, slippageBps int, tokens []domain.Token, direction domain.Direction) []domain.QuotedToken
	SwapTransaction(ctx context.Context, quote *domain.Quote, walletPubkey string, index int) (*jupiter.SwapResponse, error)
}

// Submitter hands signed transactions to the ledger.
type Submitter interface {
	SendTransaction(ctx context.Context, signedTxBase64 string) (string, error)
}

// Signer signs execution transactions as the trading wallet.
type Signer interface {
	PublicKey() string
	SignTransaction(txBase64 string) (string, error)
}

// Engine is the pipeline orchestrator.
type Engine struct {
	mu        sync.Mutex
	cfg       config.Config
	client    QuoteClient
	submitter Submitter
	signer    Signer

	active    bool
	firstRun  bool
	nextTimer *time.Timer

	// Shared, process-lifetime state aggregates.
	known     *state.KnownTokens
	blacklist *state.OwnerBlacklist
	stats     *state.TradeStats
	tradeLog  *state.TradeLog

	logger *log.Logger
}

// Options configures a new Engine.
type Options struct {
	Config    config.Config
	Client    QuoteClient
	Submitter Submitter
	Signer    Signer

	Known     *state.KnownTokens
	Blacklist *state.OwnerBlacklist
	Stats     *state.TradeStats
	TradeLog  *state.TradeLog

	Logger *log.Logger
}

// New creates an Engine. Nil aggregates are replaced with fresh instances.
func New(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	known := opts.Known
	if known == nil {
		known = state.NewKnownTokens()
	}
	blacklist := opts.Blacklist
	if blacklist == nil {
		blacklist = state.NewOwnerBlacklist()
	}
	stats := opts.Stats
	if stats == nil {
		stats = state.NewTradeStats()
	}
	tradeLog := opts.TradeLog
	if tradeLog == nil {
		tradeLog = state.NewTradeLog()
	}

	return &Engine{
		cfg:       opts.Config,
		client:    opts.Client,
		submitter: opts.Submitter,
		signer:    opts.Signer,
		known:     known,
		blacklist: blacklist,
		stats:     stats,
		tradeLog:  tradeLog,
		logger:    logger,
	}
}

// Reconfigure swaps the runtime configuration and network collaborators.
// Takes effect on the next iteration; already-armed sell tasks keep the
// collaborators they captured at buy time.
func (e *Engine) Reconfigure(cfg config.Config, client QuoteClient, submitter Submitter, signer Signer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg = cfg
	e.client = client
	e.submitter = submitter
	e.signer = signer
}

// Active reports whether the loop is currently armed.
func (e *Engine) Active() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

// Start activates the loop and arms the first iteration immediately. A
// fresh activation always gets the one-time first-run settle behavior.
func (e *Engine) Start() {
	e.mu.Lock()
	if e.active {
		e.mu.Unlock()
		return
	}
	e.active = true
	e.firstRun = true
	e.mu.Unlock()

	observability.SetEngineActive(true)
	e.logger.Println("engine starting")
	e.arm(0)
}

// Stop deactivates the loop and clears the next scheduled iteration.
// Already-armed sell tasks are deliberately left running: abandoning an open
// position silently would corrupt the statistics invariant.
func (e *Engine) Stop() {
	e.mu.Lock()
	e.active = false
	if e.nextTimer != nil {
		e.nextTimer.Stop()
		e.nextTimer = nil
	}
	e.mu.Unlock()

	observability.SetEngineActive(false)
	e.logger.Println("engine stopped")
}

// arm schedules the next iteration, unless the engine was deactivated.
func (e *Engine) arm(d time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.active {
		return
	}
	e.nextTimer = time.AfterFunc(d, e.runIteration)
}

// snapshot returns the collaborators and config for one iteration.
func (e *Engine) snapshot() (config.Config, QuoteClient, Submitter, Signer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg, e.client, e.submitter, e.signer
}

// runIteration executes one loop cycle and re-arms the next one. Iteration
// errors are logged and never stop the loop.
func (e *Engine) runIteration() {
	start := time.Now()

	settle, err := e.iterate(context.Background())
	if err != nil {
		e.logger.Printf("iteration error: %v", err)
		observability.RecordPollError()
	}
	observability.RecordIteration(time.Since(start).Seconds())

	cfg, _, _, _ := e.snapshot()
	if settle {
		e.logger.Printf("first run: waiting %v before quoting", cfg.FirstRunSettle)
		e.arm(cfg.FirstRunSettle)
		return
	}
	e.arm(cfg.PollInterval)
}

// iterate performs one poll-filter-quote-execute cycle. It returns settle ==
// true when this was the first non-empty poll since activation, in which
// case the batch is intentionally not quoted and the caller re-arms after
// the settle delay to let upstream indexing catch up.
func (e *Engine) iterate(ctx context.Context) (settle bool, err error) {
	cfg, client, _, _ := e.snapshot()

	tokens, err := client.RecentTokens(ctx)
	if err != nil {
		return false, err
	}

	var newTokens []domain.Token
	for _, token := range tokens {
		if filter.Eligible(token, e.known, e.blacklist, cfg) {
			e.known.Add(token.ID)
			newTokens = append(newTokens, token)
		}
	}
	observability.RecordPoll(len(tokens), len(newTokens))

	if len(newTokens) == 0 {
		return false, nil
	}

	e.mu.Lock()
	if e.firstRun {
		e.firstRun = false
		e.mu.Unlock()
		return true, nil
	}
	e.mu.Unlock()

	e.logger.Printf("new tokens arrived: %d", len(newTokens))

	results := client.GetQuotes(ctx, cfg.InputMint, cfg.AmountLamports, cfg.SlippageBps, newTokens, domain.DirectionIn)
	quoted := jupiter.Quoted(results)
	observability.RecordQuotes(string(domain.DirectionIn), len(results), len(results)-len(quoted))
	e.logger.Printf("buy-quoted tokens: %d", len(quoted))

	e.executeBuys(ctx, quoted)
	return false, nil
}
