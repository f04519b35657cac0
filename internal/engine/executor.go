package engine

import (
	"context"
	"time"

	"solana-sniper/internal/domain"
	"solana-sniper/internal/fees"
	"solana-sniper/internal/jupiter"
	"solana-sniper/internal/observability"
)

// sellContext is the immutable snapshot a sell task captures at buy time.
// Sell tasks keep the collaborators that executed their buy, so a config
// push between buy and sell cannot strand an open position.
type sellContext struct {
	token      domain.Token
	outAmount  uint64 // token base units acquired by the buy
	outputMint string
	netBuy     uint64 // net lamports committed
	index      int    // batch position, keys round-robin proxy assignment

	cfg       sellConfig
	client    QuoteClient
	submitter Submitter
	signer    Signer
}

type sellConfig struct {
	inputMint   string
	slippageBps int
}

// executeBuys runs the buy leg for each successfully quoted candidate.
// Candidates are processed sequentially to bound concurrent wallet nonce
// usage; a failure for one candidate never blocks the rest.
func (e *Engine) executeBuys(ctx context.Context, quoted []domain.QuotedToken) {
	cfg, client, submitter, signer := e.snapshot()

	for index, qt := range quoted {
		token := qt.Token
		e.stats.RecordBuyAttempt()

		if qt.Quote == nil || len(qt.Quote.RoutePlan) == 0 {
			e.failBuy(token, "invalid quote")
			continue
		}

		// Confirm a sell route exists before committing capital.
		sellProbe := token
		sellProbe.OutputMint = qt.Quote.OutputMint
		preSell := jupiter.Quoted(client.GetQuotes(ctx, cfg.InputMint, uint64(qt.Quote.OutAmount), cfg.SlippageBps, []domain.Token{sellProbe}, domain.DirectionOut))
		if len(preSell) == 0 || len(preSell[0].Quote.RoutePlan) == 0 {
			e.failBuy(token, "no sell route")
			continue
		}

		swapResp, err := client.SwapTransaction(ctx, qt.Quote, signer.PublicKey(), index)
		if err != nil {
			e.failBuy(token, err.Error())
			continue
		}
		if swapResp.SwapTransaction == "" {
			e.failBuy(token, jupiter.ErrNoSwapTransaction.Error())
			continue
		}

		signed, err := signer.SignTransaction(swapResp.SwapTransaction)
		if err != nil {
			e.failBuy(token, err.Error())
			continue
		}

		txid, err := submitter.SendTransaction(ctx, signed)
		if err != nil {
			e.failBuy(token, err.Error())
			continue
		}
		e.logger.Printf("buy submitted for %s, txid: %s", token.Symbol, txid)

		netBuy := fees.NetBuyLamports(qt.Quote, buyPriceSOL(qt.Quote, token.Decimals), uint64(swapResp.PrioritizationFeeLamports), token.Decimals)

		e.stats.RecordBuySuccess(netBuy)
		observability.RecordBuyOutcome(true)
		e.tradeLog.Open(token.Symbol, token.ID, netBuy)

		e.scheduleSell(sellContext{
			token:      token,
			outAmount:  uint64(qt.Quote.OutAmount),
			outputMint: qt.Quote.OutputMint,
			netBuy:     netBuy,
			index:      index,
			cfg:        sellConfig{inputMint: cfg.InputMint, slippageBps: cfg.SlippageBps},
			client:     client,
			submitter:  submitter,
			signer:     signer,
		}, cfg.SellDelay)
	}
}

// failBuy resolves a buy attempt as failed.
func (e *Engine) failBuy(token domain.Token, reason string) {
	e.logger.Printf("skipping %s: %s", token.Symbol, reason)
	e.stats.RecordBuyFailure()
	observability.RecordBuyOutcome(false)
}

// buyPriceSOL derives the SOL-per-token price implied by a buy quote.
func buyPriceSOL(quote *domain.Quote, decimals int) float64 {
	tokens := float64(quote.OutAmount) / pow10(decimals)
	if tokens == 0 {
		return 0
	}
	sol := float64(quote.InAmount) / float64(domain.LamportsPerSOL)
	return sol / tokens
}

func pow10(n int) float64 {
	p := 1.0
	for i := 0; i < n; i++ {
		p *= 10
	}
	return p
}

// scheduleSell arms the one-shot deferred sell for a filled buy. The timer
// is deliberately not tracked by the engine: once armed, a sell always runs
// to completion, even if the loop is stopped in the meantime.
func (e *Engine) scheduleSell(sc sellContext, delay time.Duration) {
	observability.SellTaskArmed()
	time.AfterFunc(delay, func() {
		e.runSellTask(sc)
	})
}

// runSellTask executes the sell leg for one open trade. Every failure path,
// including a panic, resolves the trade as closed-by-failure and blacklists
// the deployer; nothing escapes a sell task.
func (e *Engine) runSellTask(sc sellContext) {
	defer observability.SellTaskResolved()

	e.stats.RecordSellAttempt()

	done := false
	fail := func(reason string) {
		if done {
			return
		}
		done = true
		e.logger.Printf("sell failed for %s: %s", sc.token.Symbol, reason)
		e.tradeLog.Close(sc.token.ID, 0, true)
		e.blacklist.Add(sc.token.Dev)
		observability.RecordOwnerBlacklisted()
		e.stats.RecordSellFailure()
		observability.RecordSellOutcome(false)
	}
	defer func() {
		if r := recover(); r != nil {
			fail("panic in sell task")
		}
	}()

	ctx := context.Background()
	e.logger.Printf("sell firing for %s", sc.token.Symbol)

	sellProbe := sc.token
	sellProbe.OutputMint = sc.outputMint
	results := sc.client.GetQuotes(ctx, sc.cfg.inputMint, sc.outAmount, sc.cfg.slippageBps, []domain.Token{sellProbe}, domain.DirectionOut)
	quoted := jupiter.Quoted(results)
	observability.RecordQuotes(string(domain.DirectionOut), len(results), len(results)-len(quoted))

	if len(quoted) == 0 || len(quoted[0].Quote.RoutePlan) == 0 {
		fail("no sell route")
		return
	}
	sellQuote := quoted[0].Quote

	swapResp, err := sc.client.SwapTransaction(ctx, sellQuote, sc.signer.PublicKey(), sc.index)
	if err != nil {
		fail(err.Error())
		return
	}
	if swapResp.SwapTransaction == "" {
		fail(jupiter.ErrNoSwapTransaction.Error())
		return
	}

	signed, err := sc.signer.SignTransaction(swapResp.SwapTransaction)
	if err != nil {
		fail(err.Error())
		return
	}

	txid, err := sc.submitter.SendTransaction(ctx, signed)
	if err != nil {
		fail(err.Error())
		return
	}
	e.logger.Printf("sell submitted for %s, txid: %s", sc.token.Symbol, txid)

	netSell := fees.NetSellLamports(uint64(sellQuote.OutAmount), uint64(swapResp.PrioritizationFeeLamports))
	profit := int64(netSell) - int64(sc.netBuy)

	e.stats.RecordSellSuccess(netSell, profit > 0)
	observability.RecordSellOutcome(true)
	e.tradeLog.Close(sc.token.ID, netSell, false)
	e.logger.Printf("profit for %s: %.9f SOL", sc.token.Symbol, float64(profit)/float64(domain.LamportsPerSOL))
}
