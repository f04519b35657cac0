package state

import (
	"sync"
	"time"

	"solana-sniper/internal/domain"
)

// DefaultTradeLogCapacity bounds the in-memory trade history.
const DefaultTradeLogCapacity = 100

// TradeLog is the bounded, most-recent-first record of trade lifecycle
// events. Entries are created at a successful buy, mutated in place exactly
// once when the deferred sell resolves, and evicted oldest-first once the
// log exceeds its capacity.
type TradeLog struct {
	mu       sync.RWMutex
	entries  []*domain.TradeRecord // index 0 is most recent
	capacity int
	now      func() time.Time
}

// NewTradeLog creates a trade log with the default capacity.
func NewTradeLog() *TradeLog {
	return &TradeLog{capacity: DefaultTradeLogCapacity, now: time.Now}
}

// NewTradeLogWithCapacity creates a trade log with a custom capacity.
func NewTradeLogWithCapacity(capacity int) *TradeLog {
	if capacity <= 0 {
		capacity = DefaultTradeLogCapacity
	}
	return &TradeLog{capacity: capacity, now: time.Now}
}

// Open records a new open trade at the head of the log, evicting the oldest
// entry if the log is full.
func (l *TradeLog) Open(symbol, mint string, buyAmount uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec := &domain.TradeRecord{
		Symbol:    symbol,
		Mint:      mint,
		BuyAmount: buyAmount,
		UpdatedAt: l.now(),
	}

	l.entries = append([]*domain.TradeRecord{rec}, l.entries...)
	if len(l.entries) > l.capacity {
		l.entries = l.entries[:l.capacity]
	}
}

// Close resolves the most recent open trade for the given mint, setting the
// sell amount, profit/loss, growth percentage and failure flag in place.
// Returns false if no open trade for the mint exists (already closed or
// evicted).
func (l *TradeLog) Close(mint string, sellAmount uint64, failed bool) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, rec := range l.entries {
		if rec.Mint != mint || rec.Closed() {
			continue
		}

		sell := sellAmount
		rec.SellAmount = &sell
		if failed {
			// A failed sell closes the trade with no realized leg: the
			// record carries zero rather than a phantom loss.
			zero := int64(0)
			rec.ProfitLoss = &zero
		} else {
			profit := int64(sell) - int64(rec.BuyAmount)
			rec.ProfitLoss = &profit
			if rec.BuyAmount > 0 {
				growth := float64(profit) / float64(rec.BuyAmount) * 100
				rec.GrowthPct = &growth
			}
		}
		rec.SellFailed = failed
		rec.UpdatedAt = l.now()
		return true
	}

	return false
}

// Entries returns a copy of the log, most-recent-first.
func (l *TradeLog) Entries() []domain.TradeRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.TradeRecord, len(l.entries))
	for i, rec := range l.entries {
		out[i] = *rec
	}
	return out
}

// Len returns the current number of entries.
func (l *TradeLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
