package jupiter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/mr-tron/base58"

	"solana-sniper/internal/domain"
)

// validTokenID checks a candidate mint address before any network call:
// non-empty, plausible length, and decodable to a 32-byte key.
func validTokenID(id string) bool {
	if len(id) < 32 {
		return false
	}
	decoded, err := base58.Decode(id)
	return err == nil && len(decoded) == 32
}

// GetQuotes fetches a priced route for each candidate. Direction IN spends
// inputMint to acquire each candidate; direction OUT liquidates amount of
// each candidate back into inputMint. Candidates are processed in fixed-size
// batches, concurrently within a batch, with a pause between batches to
// avoid bursting upstream rate limits. Per-candidate failures never abort
// the batch: they surface as a nil Quote with Err set.
func (c *Client) GetQuotes(ctx context.Context, inputMint string, amount uint64, slippageBps int, tokens []domain.Token, direction domain.Direction) []domain.QuotedToken {
	results := make([]domain.QuotedToken, len(tokens))
	band := c.pool.QuoteBand()

	for start := 0; start < len(tokens); start += c.batchSize {
		end := start + c.batchSize
		if end > len(tokens) {
			end = len(tokens)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i] = c.quoteOne(ctx, inputMint, amount, slippageBps, tokens[i], direction, band.Pick(i))
			}(i)
		}
		wg.Wait()

		if end < len(tokens) {
			select {
			case <-ctx.Done():
				for i := end; i < len(tokens); i++ {
					results[i] = domain.QuotedToken{Token: tokens[i], Err: ctx.Err().Error()}
				}
				return results
			case <-time.After(c.batchPause):
			}
		}
	}

	return results
}

// quoteOne fetches a single priced route.
func (c *Client) quoteOne(ctx context.Context, inputMint string, amount uint64, slippageBps int, token domain.Token, direction domain.Direction, proxyURL *url.URL) domain.QuotedToken {
	if !validTokenID(token.ID) {
		c.logger.Printf("invalid token id: %q (%s)", token.ID, token.Symbol)
		return domain.QuotedToken{Token: token, Err: ErrInvalidTokenID.Error()}
	}

	currentInput, currentOutput := inputMint, token.ID
	if direction == domain.DirectionOut {
		currentInput, currentOutput = token.OutputMint, inputMint
	}

	reqURL := fmt.Sprintf("%s?inputMint=%s&outputMint=%s&amount=%s&slippageBps=%d",
		c.quoteEndpoint, currentInput, currentOutput, strconv.FormatUint(amount, 10), slippageBps)

	raw, err := c.fetchJSON(ctx, http.MethodGet, reqURL, nil, proxyURL, "Quote")
	if err != nil {
		c.logger.Printf("quote failed for %s: %v", token.Symbol, err)
		return domain.QuotedToken{Token: token, Err: err.Error()}
	}

	var quote domain.Quote
	if err := json.Unmarshal(raw, &quote); err != nil {
		return domain.QuotedToken{Token: token, Err: fmt.Sprintf("decode quote: %v", err)}
	}
	quote.Raw = raw

	return domain.QuotedToken{Token: token, Quote: &quote}
}

// Quoted filters the aggregator result down to candidates that actually
// received a route.
func Quoted(results []domain.QuotedToken) []domain.QuotedToken {
	var quoted []domain.QuotedToken
	for _, r := range results {
		if r.Quote != nil {
			quoted = append(quoted, r)
		}
	}
	return quoted
}

// RecentTokens polls the discovery endpoint for freshly listed assets
// through the discovery proxy band.
func (c *Client) RecentTokens(ctx context.Context) ([]domain.Token, error) {
	raw, err := c.fetchJSON(ctx, http.MethodGet, c.recentEndpoint, nil, c.pool.DiscoveryBand().Pick(0), "RecentToken")
	if err != nil {
		return nil, err
	}

	var tokens []domain.Token
	if err := json.Unmarshal(raw, &tokens); err != nil {
		return nil, fmt.Errorf("decode recent tokens: %w", err)
	}
	return tokens, nil
}
