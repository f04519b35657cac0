package state

import (
	"fmt"
	"sync"

	"solana-sniper/internal/domain"
)

// TradeStats is the process-wide running trade counters. Counts only
// increase; derived ratios are computed on read, never stored.
//
// Accounting rule: every buy attempt increments TotalBuys exactly once and
// resolves to successful or failed; every scheduled sell does the same for
// TotalSells; TotalTrades counts resolved trades (a failed buy, or a sell
// outcome), so TotalTrades == SuccessfulTrades + FailedTrades holds once all
// scheduled sells have resolved. A trade is successful iff it closed with
// net profit > 0.
type TradeStats struct {
	mu sync.Mutex

	totalTrades      int
	successfulTrades int
	failedTrades     int

	totalBuys      int
	successfulBuys int
	failedBuys     int

	totalSells      int
	successfulSells int
	failedSells     int

	totalBuyingLamports  uint64
	totalSellingLamports uint64
}

// NewTradeStats creates a zeroed statistics aggregate.
func NewTradeStats() *TradeStats {
	return &TradeStats{}
}

// RecordBuyAttempt counts a buy attempt.
func (s *TradeStats) RecordBuyAttempt() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totalBuys++
}

// RecordBuyFailure resolves a buy attempt as failed; the trade is over.
func (s *TradeStats) RecordBuyFailure() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failedBuys++
	s.totalTrades++
	s.failedTrades++
}

// RecordBuySuccess resolves a buy attempt as executed, adding the net spend.
// The trade itself stays open until its sell resolves.
func (s *TradeStats) RecordBuySuccess(netLamports uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.successfulBuys++
	s.totalBuyingLamports += netLamports
}

// RecordSellAttempt counts a scheduled sell firing.
func (s *TradeStats) RecordSellAttempt() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totalSells++
}

// RecordSellFailure resolves a sell as failed and the trade as lost.
func (s *TradeStats) RecordSellFailure() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failedSells++
	s.totalTrades++
	s.failedTrades++
}

// RecordSellSuccess resolves an executed sell, adding the net proceeds. The
// trade wins iff it netted a profit.
func (s *TradeStats) RecordSellSuccess(netLamports uint64, profitable bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.successfulSells++
	s.totalSellingLamports += netLamports
	s.totalTrades++
	if profitable {
		s.successfulTrades++
	} else {
		s.failedTrades++
	}
}

// StatsSnapshot is the read-side view of the statistics: raw counts plus
// derived ratios and display-unit amounts.
type StatsSnapshot struct {
	TotalTrades      int `json:"totalTrades"`
	SuccessfulTrades int `json:"successfulTrades"`
	FailedTrades     int `json:"failedTrades"`

	TotalBuys      int `json:"totalBuys"`
	SuccessfulBuys int `json:"successfulBuys"`
	FailedBuys     int `json:"failedBuys"`

	TotalSells      int `json:"totalSells"`
	SuccessfulSells int `json:"successfulSells"`
	FailedSells     int `json:"failedSells"`

	TotalBuyingAmount  string `json:"totalBuyingAmount"`  // SOL
	TotalSellingAmount string `json:"totalSellingAmount"` // SOL
	TotalProfit        string `json:"totalProfit"`        // SOL, signed

	WinRate     string `json:"winRate"`
	RugPullRate string `json:"rugPullRate"`

	AvgGrowthPct float64 `json:"avgGrowthPct"`
	AvgLossPct   float64 `json:"avgLossPct"`
}

// Snapshot derives the full statistics view. The trade log supplies the
// growth/loss averages; pass nil to skip them.
func (s *TradeStats) Snapshot(log *TradeLog) StatsSnapshot {
	s.mu.Lock()
	snap := StatsSnapshot{
		TotalTrades:      s.totalTrades,
		SuccessfulTrades: s.successfulTrades,
		FailedTrades:     s.failedTrades,
		TotalBuys:        s.totalBuys,
		SuccessfulBuys:   s.successfulBuys,
		FailedBuys:       s.failedBuys,
		TotalSells:       s.totalSells,
		SuccessfulSells:  s.successfulSells,
		FailedSells:      s.failedSells,
	}
	buying := s.totalBuyingLamports
	selling := s.totalSellingLamports
	s.mu.Unlock()

	snap.TotalBuyingAmount = formatSOL(int64(buying))
	snap.TotalSellingAmount = formatSOL(int64(selling))
	snap.TotalProfit = formatSOL(int64(selling) - int64(buying))
	snap.WinRate = formatRate(snap.SuccessfulTrades, snap.TotalTrades)
	snap.RugPullRate = formatRate(snap.FailedSells, snap.TotalSells)

	if log != nil {
		snap.AvgGrowthPct, snap.AvgLossPct = growthAverages(log)
	}

	return snap
}

// growthAverages computes the mean positive growth and mean loss over
// closed, non-failed trades in the log.
func growthAverages(log *TradeLog) (avgGrowth, avgLoss float64) {
	var growthSum, lossSum float64
	var growthN, lossN int

	for _, rec := range log.Entries() {
		if rec.GrowthPct == nil {
			continue
		}
		if *rec.GrowthPct > 0 {
			growthSum += *rec.GrowthPct
			growthN++
		} else if *rec.GrowthPct < 0 {
			lossSum += *rec.GrowthPct
			lossN++
		}
	}

	if growthN > 0 {
		avgGrowth = growthSum / float64(growthN)
	}
	if lossN > 0 {
		avgLoss = lossSum / float64(lossN)
	}
	return avgGrowth, avgLoss
}

func formatSOL(lamports int64) string {
	return fmt.Sprintf("%.9f", float64(lamports)/float64(domain.LamportsPerSOL))
}

func formatRate(part, total int) string {
	if total == 0 {
		return "0.00%"
	}
	return fmt.Sprintf("%.2f%%", float64(part)/float64(total)*100)
}
