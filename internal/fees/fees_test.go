package fees

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"solana-sniper/internal/domain"
)

func quoteWithFee(inAmount, feeAmount uint64, feeMint string) *domain.Quote {
	return &domain.Quote{
		InAmount: domain.Uint64String(inAmount),
		RoutePlan: []domain.RoutePlanStep{
			{SwapInfo: domain.SwapInfo{
				FeeAmount: domain.Uint64String(feeAmount),
				FeeMint:   feeMint,
			}},
		},
	}
}

func TestNetBuyLamportsFeeInBaseAsset(t *testing.T) {
	quote := quoteWithFee(1_000_000_000, 1000, domain.WSOLMint)

	got := NetBuyLamports(quote, 0, 2000, 6)

	// 1_000_000_000 - (1000 + 5000 + 2000)
	assert.Equal(t, uint64(999_992_000), got)
}

func TestNetBuyLamportsFeeInTokenConverted(t *testing.T) {
	// Fee of 500_000 token base units at 6 decimals = 0.5 tokens.
	// At 0.002 SOL per token that is 0.001 SOL = 1_000_000 lamports.
	quote := quoteWithFee(1_000_000_000, 500_000, "TokenMint111111111111111111111111111111111")

	got := NetBuyLamports(quote, 0.002, 2000, 6)

	assert.Equal(t, uint64(1_000_000_000-1_000_000-5000-2000), got)
}

func TestNetBuyLamportsEmptyRoutePlan(t *testing.T) {
	quote := &domain.Quote{InAmount: 100_000}

	got := NetBuyLamports(quote, 0, 1000, 6)

	assert.Equal(t, uint64(100_000-5000-1000), got)
}

func TestNetBuyLamportsSaturatesAtZero(t *testing.T) {
	quote := quoteWithFee(4000, 1000, domain.WSOLMint)

	assert.Equal(t, uint64(0), NetBuyLamports(quote, 0, 2000, 6))
}

func TestNetSellLamports(t *testing.T) {
	assert.Equal(t, uint64(993_000), NetSellLamports(1_000_000, 2000))
	assert.Equal(t, uint64(0), NetSellLamports(6000, 2000))
	assert.Equal(t, uint64(0), NetSellLamports(0, 0))
}
