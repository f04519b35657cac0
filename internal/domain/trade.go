package domain

import "time"

// TradeRecord is one entry of the bounded trade log, created at a successful
// buy and mutated exactly once when the deferred sell resolves. Nullable
// fields stay nil until the trade closes.
type TradeRecord struct {
	Symbol     string    `json:"symbol"`
	Mint       string    `json:"mint"`
	BuyAmount  uint64    `json:"buyAmount"` // net lamports spent
	SellAmount *uint64   `json:"sellAmount"`
	ProfitLoss *int64    `json:"profitLoss"` // net sell - net buy, lamports
	GrowthPct  *float64  `json:"growthPct"`
	SellFailed bool      `json:"sellFailed"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Closed reports whether the sell leg has resolved.
func (t *TradeRecord) Closed() bool {
	return t.SellAmount != nil
}
