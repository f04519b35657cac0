package jupiter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"solana-sniper/internal/domain"
)

// SwapResponse is the execution endpoint's answer: a signable transaction
// payload plus the priority fee it actually applied.
type SwapResponse struct {
	SwapTransaction           string              `json:"swapTransaction"` // base64
	PrioritizationFeeLamports domain.Uint64String `json:"prioritizationFeeLamports"`
}

// swapRequest is the execution endpoint's request body. QuoteResponse echoes
// the quote payload exactly as the quote API returned it.
type swapRequest struct {
	UserPublicKey             string          `json:"userPublicKey"`
	QuoteResponse             json.RawMessage `json:"quoteResponse"`
	PrioritizationFeeLamports struct {
		PriorityLevelWithMaxLamports struct {
			MaxLamports   int    `json:"maxLamports"`
			PriorityLevel string `json:"priorityLevel"`
		} `json:"priorityLevelWithMaxLamports"`
	} `json:"prioritizationFeeLamports"`
}

// SwapTransaction requests an execution transaction for the given quote.
// The proxy is chosen round-robin from the swap band by the candidate's
// position in its batch.
func (c *Client) SwapTransaction(ctx context.Context, quote *domain.Quote, walletPubkey string, index int) (*SwapResponse, error) {
	reqBody := swapRequest{
		UserPublicKey: walletPubkey,
		QuoteResponse: quote.Raw,
	}
	reqBody.PrioritizationFeeLamports.PriorityLevelWithMaxLamports.MaxLamports = maxPriorityFeeLamports
	reqBody.PrioritizationFeeLamports.PriorityLevelWithMaxLamports.PriorityLevel = "veryHigh"

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal swap request: %w", err)
	}

	raw, err := c.fetchJSON(ctx, http.MethodPost, c.swapEndpoint, body, c.pool.SwapBand().Pick(index), "Swap")
	if err != nil {
		return nil, err
	}

	var resp SwapResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode swap response: %w", err)
	}

	return &resp, nil
}
