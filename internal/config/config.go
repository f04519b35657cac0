// Package config holds the engine runtime configuration and the validation
// of control-surface updates.
package config

import (
	"time"

	"solana-sniper/internal/domain"
)

// Default timing values.
const (
	DefaultPollInterval   = 1 * time.Second
	DefaultFirstRunSettle = 7 * time.Second
)

// Config is the engine runtime configuration. It is built from an Update
// pushed over the control API and is treated as immutable by the engine for
// the duration of a run.
type Config struct {
	AmountLamports uint64        // buy size per trade, base units
	InputMint      string        // base asset mint
	SlippageBps    int           // slippage tolerance, basis points
	SellDelay      time.Duration // time between buy and deferred sell
	MinLiquidity   float64       // eligibility floor
	MaxTopHolders  float64       // holder-concentration ceiling, percent

	// AllowMissingAudit passes tokens whose listing lacks holder
	// concentration data. Off by default: the filter is fail-closed.
	AllowMissingAudit bool

	PollInterval   time.Duration // delay between discovery iterations
	FirstRunSettle time.Duration // one-time pause after first non-empty poll
	RPCEndpoint    string
}

// Update is the wire form accepted by the control surface. Amounts arrive in
// display units (SOL, percent, seconds) and are converted on Apply.
type Update struct {
	Amount               float64 `json:"amount"` // SOL
	MinLiquidity         float64 `json:"minLiquidity"`
	InputMint            string  `json:"inputMint"`
	SlippageBps          float64 `json:"slippageBps"` // percent, converted to bps
	SellTimer            float64 `json:"sellTimer"`   // seconds
	RPCURL               string  `json:"rpcUrl"`
	PrivateKey           string  `json:"privateKey"`
	TopHoldersPercentage float64 `json:"topHoldersPercentage"`
	AllowMissingAudit    bool    `json:"allowMissingAudit"`
}

// Validate returns one message per invalid field, empty when the update is
// acceptable.
func (u *Update) Validate() []string {
	var errs []string

	if u.Amount <= 0 {
		errs = append(errs, "amount must be a positive number")
	}
	if u.MinLiquidity < 0 {
		errs = append(errs, "minLiquidity must be a non-negative number")
	}
	if u.InputMint == "" {
		errs = append(errs, "inputMint must be a valid string")
	}
	if u.SlippageBps <= 0 || u.SlippageBps > 10 {
		errs = append(errs, "slippageBps must be a number between 1 and 10000")
	}
	if u.SellTimer < 0 {
		errs = append(errs, "sellTimer must be a non-negative number")
	}
	if u.TopHoldersPercentage < 0 || u.TopHoldersPercentage > 100 {
		errs = append(errs, "topHoldersPercentage must be between 0 and 100")
	}

	return errs
}

// Apply converts the update into an engine Config, preserving prev's fields
// that the update does not carry.
func (u *Update) Apply(prev Config) Config {
	cfg := prev

	cfg.AmountLamports = uint64(u.Amount * float64(domain.LamportsPerSOL))
	cfg.MinLiquidity = u.MinLiquidity
	cfg.InputMint = u.InputMint
	cfg.SlippageBps = int(u.SlippageBps * 100)
	cfg.SellDelay = time.Duration(u.SellTimer * float64(time.Second))
	cfg.MaxTopHolders = u.TopHoldersPercentage
	cfg.AllowMissingAudit = u.AllowMissingAudit
	if u.RPCURL != "" {
		cfg.RPCEndpoint = u.RPCURL
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.FirstRunSettle == 0 {
		cfg.FirstRunSettle = DefaultFirstRunSettle
	}

	return cfg
}
