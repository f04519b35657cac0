// Package filter decides, from listing metadata alone, whether a newly
// observed token is eligible for trading. The filter is fail-closed: missing
// liquidity or audit data rejects the token rather than passing it through.
package filter

import (
	"solana-sniper/internal/config"
	"solana-sniper/internal/domain"
	"solana-sniper/internal/state"
)

// Eligible reports whether token may be traded. It reads the known-token set
// and owner blacklist without mutating them; on a true result the caller
// must immediately register the token ID into known so the token is never
// evaluated again.
func Eligible(token domain.Token, known *state.KnownTokens, blacklist *state.OwnerBlacklist, cfg config.Config) bool {
	if known.Seen(token.ID) {
		return false
	}
	if blacklist.Contains(token.Dev) {
		return false
	}
	if token.Liquidity == nil || *token.Liquidity < cfg.MinLiquidity {
		return false
	}
	if token.Audit.TopHoldersPercentage == nil {
		if !cfg.AllowMissingAudit {
			return false
		}
	} else if *token.Audit.TopHoldersPercentage > cfg.MaxTopHolders {
		return false
	}
	if LaunchpadBlacklisted(token.Launchpad) {
		return false
	}
	return true
}
