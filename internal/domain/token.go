package domain

// WSOLMint is the wrapped-SOL mint address, the base asset every trade is
// priced against.
const WSOLMint = "So11111111111111111111111111111111111111112"

// LamportsPerSOL is the number of base units in one SOL.
const LamportsPerSOL = 1_000_000_000

// TokenAudit carries the risk metadata published alongside a listing.
// Fields are pointers because the upstream listing omits them for some
// tokens; the safety filter treats absence as ineligible.
type TokenAudit struct {
	TopHoldersPercentage *float64 `json:"topHoldersPercentage"`
}

// Token is a tradeable asset observed on the aggregator's recent-token feed.
// Immutable once observed; the engine owns it for the duration of one
// discovery cycle.
type Token struct {
	ID         string     `json:"id"` // mint address
	Symbol     string     `json:"symbol"`
	Decimals   int        `json:"decimals"`
	Liquidity  *float64   `json:"liquidity"`
	Launchpad  string     `json:"launchpad"`
	Dev        string     `json:"dev"` // deployer address
	Audit      TokenAudit `json:"audit"`
	OutputMint string     `json:"outputMint,omitempty"`
}
