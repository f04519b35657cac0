package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateValidate(t *testing.T) {
	valid := Update{
		Amount:               0.05,
		MinLiquidity:         100,
		InputMint:            "So11111111111111111111111111111111111111112",
		SlippageBps:          1.5,
		SellTimer:            30,
		TopHoldersPercentage: 20,
	}
	require.Empty(t, valid.Validate())

	cases := []struct {
		name   string
		mutate func(*Update)
	}{
		{"zero amount", func(u *Update) { u.Amount = 0 }},
		{"negative liquidity", func(u *Update) { u.MinLiquidity = -1 }},
		{"empty input mint", func(u *Update) { u.InputMint = "" }},
		{"zero slippage", func(u *Update) { u.SlippageBps = 0 }},
		{"oversized slippage", func(u *Update) { u.SlippageBps = 11 }},
		{"negative sell timer", func(u *Update) { u.SellTimer = -5 }},
		{"holders over 100", func(u *Update) { u.TopHoldersPercentage = 101 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			u := valid
			tc.mutate(&u)
			assert.NotEmpty(t, u.Validate())
		})
	}
}

func TestUpdateApply(t *testing.T) {
	u := Update{
		Amount:               0.05,
		MinLiquidity:         250,
		InputMint:            "So11111111111111111111111111111111111111112",
		SlippageBps:          1.5,
		SellTimer:            30,
		TopHoldersPercentage: 20,
	}

	cfg := u.Apply(Config{RPCEndpoint: "http://old"})

	assert.Equal(t, uint64(50_000_000), cfg.AmountLamports)
	assert.Equal(t, 150, cfg.SlippageBps)
	assert.Equal(t, 30*time.Second, cfg.SellDelay)
	assert.Equal(t, 250.0, cfg.MinLiquidity)
	assert.Equal(t, 20.0, cfg.MaxTopHolders)
	assert.Equal(t, DefaultPollInterval, cfg.PollInterval)
	assert.Equal(t, DefaultFirstRunSettle, cfg.FirstRunSettle)

	// RPC endpoint survives when the update omits it.
	assert.Equal(t, "http://old", cfg.RPCEndpoint)

	u.RPCURL = "http://new"
	assert.Equal(t, "http://new", u.Apply(cfg).RPCEndpoint)
}
