// Package fees converts priced routes and fee inputs into net base-unit
// amounts for both trade legs. All arithmetic stays in integer lamports
// except the fee-currency conversion, which floors back to an integer.
package fees

import (
	"math"

	"solana-sniper/internal/domain"
)

// NetworkFeeLamports is the fixed base network fee charged per transaction.
const NetworkFeeLamports = 5000

// NetBuyLamports computes the lamports effectively committed by a buy: the
// quoted input amount minus the route fee, the network fee and the priority
// fee. A route fee denominated in the base asset is used directly; otherwise
// it is converted at buyPriceSOL (SOL per token) and floored. The result
// saturates at zero.
func NetBuyLamports(quote *domain.Quote, buyPriceSOL float64, priorityFee uint64, outDecimals int) uint64 {
	buyAmount := uint64(quote.InAmount)

	var routeFee uint64
	if len(quote.RoutePlan) > 0 {
		info := quote.RoutePlan[0].SwapInfo
		if info.FeeMint == domain.WSOLMint {
			routeFee = uint64(info.FeeAmount)
		} else {
			feeTokens := float64(info.FeeAmount) / math.Pow10(outDecimals)
			feeSOL := feeTokens * buyPriceSOL
			routeFee = uint64(math.Floor(feeSOL * float64(domain.LamportsPerSOL)))
		}
	}

	totalFee := routeFee + NetworkFeeLamports + priorityFee
	if totalFee >= buyAmount {
		return 0
	}
	return buyAmount - totalFee
}

// NetSellLamports computes the lamports effectively received by a sell: the
// quoted output amount minus network and priority fees, saturating at zero.
func NetSellLamports(outAmount, priorityFee uint64) uint64 {
	totalFee := uint64(NetworkFeeLamports) + priorityFee
	if totalFee >= outAmount {
		return 0
	}
	return outAmount - totalFee
}
