package jupiter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-sniper/internal/domain"
)

// testMint builds a valid 32-byte base58 mint address seeded by b.
func testMint(b byte) string {
	key := make([]byte, 32)
	for i := range key {
		key[i] = b
	}
	return base58.Encode(key)
}

func newTestClient(srvURL string, opts ...Option) *Client {
	base := []Option{
		WithEndpoints(srvURL+"/quote", srvURL+"/swap", srvURL+"/recent"),
		WithRetryDelay(time.Millisecond),
		WithBatchPause(time.Millisecond),
	}
	return NewClient(nil, append(base, opts...)...)
}

func TestFetchJSONRetriesOnRateLimit(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, WithMaxRetries(2))
	_, err := c.fetchJSON(context.Background(), http.MethodGet, srv.URL, nil, nil, "Quote")

	require.ErrorIs(t, err, ErrRetriesExhausted)
	assert.Contains(t, err.Error(), srv.URL)
	// Initial attempt plus exactly maxRetries more.
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetchJSONZeroRetriesFailsImmediately(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, WithMaxRetries(0))
	_, err := c.fetchJSON(context.Background(), http.MethodGet, srv.URL, nil, nil, "Quote")

	require.ErrorIs(t, err, ErrRetriesExhausted)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetchJSONUpstreamErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, WithMaxRetries(5))
	_, err := c.fetchJSON(context.Background(), http.MethodGet, srv.URL, nil, nil, "Swap")

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "Swap", upstream.Tag)
	assert.Equal(t, http.StatusBadGateway, upstream.Status)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetchJSONRecoversAfterRateLimit(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `{"ok":true}`)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, WithMaxRetries(2))
	raw, err := c.fetchJSON(context.Background(), http.MethodGet, srv.URL, nil, nil, "Quote")
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(raw))
}

func TestGetQuotesInvalidIDNeverReachesNetwork(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, `{"inAmount":"1000","outAmount":"2000","outputMint":"x","routePlan":[]}`)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	tokens := []domain.Token{
		{ID: "short", Symbol: "BAD"},
		{ID: testMint(1), Symbol: "GOOD"},
	}

	results := c.GetQuotes(context.Background(), domain.WSOLMint, 1_000_000, 50, tokens, domain.DirectionIn)
	require.Len(t, results, 2)

	assert.Nil(t, results[0].Quote)
	assert.Equal(t, ErrInvalidTokenID.Error(), results[0].Err)
	require.NotNil(t, results[1].Quote)
	assert.Equal(t, uint64(1000), uint64(results[1].Quote.InAmount))
	assert.Equal(t, int32(1), calls.Load())
}

func TestGetQuotesPerCandidateFailureDoesNotAbortBatch(t *testing.T) {
	bad := testMint(7)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("outputMint") == bad {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `{"inAmount":"1000","outAmount":"2000","outputMint":"x","routePlan":[]}`)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	tokens := []domain.Token{
		{ID: testMint(1), Symbol: "A"},
		{ID: bad, Symbol: "B"},
		{ID: testMint(2), Symbol: "C"},
		{ID: testMint(3), Symbol: "D"},
	}

	results := c.GetQuotes(context.Background(), domain.WSOLMint, 1_000_000, 50, tokens, domain.DirectionIn)
	require.Len(t, results, 4)

	assert.NotNil(t, results[0].Quote)
	assert.Nil(t, results[1].Quote)
	assert.NotEmpty(t, results[1].Err)
	assert.NotNil(t, results[2].Quote)
	assert.NotNil(t, results[3].Quote)

	assert.Len(t, Quoted(results), 3)
}

func TestGetQuotesDirectionOutSwapsMints(t *testing.T) {
	var gotInput, gotOutput string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotInput = r.URL.Query().Get("inputMint")
		gotOutput = r.URL.Query().Get("outputMint")
		fmt.Fprint(w, `{"inAmount":"1","outAmount":"2","outputMint":"x","routePlan":[]}`)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	token := domain.Token{ID: testMint(1), Symbol: "T", OutputMint: testMint(9)}

	c.GetQuotes(context.Background(), domain.WSOLMint, 500, 50, []domain.Token{token}, domain.DirectionOut)

	assert.Equal(t, token.OutputMint, gotInput)
	assert.Equal(t, domain.WSOLMint, gotOutput)
}

func TestSwapTransactionEchoesQuotePayload(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, jsonDecode(r, &gotBody))
		fmt.Fprint(w, `{"swapTransaction":"dGVzdA==","prioritizationFeeLamports":2000}`)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	quote := &domain.Quote{Raw: []byte(`{"inAmount":"1000","custom":"field"}`)}

	resp, err := c.SwapTransaction(context.Background(), quote, "wallet-pubkey", 0)
	require.NoError(t, err)

	assert.Equal(t, "dGVzdA==", resp.SwapTransaction)
	assert.Equal(t, uint64(2000), uint64(resp.PrioritizationFeeLamports))
	assert.Equal(t, "wallet-pubkey", gotBody["userPublicKey"])

	// The quote payload must be echoed byte-for-byte, unknown fields included.
	quoteResp := gotBody["quoteResponse"].(map[string]any)
	assert.Equal(t, "field", quoteResp["custom"])
}

func TestRecentTokens(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `[{"id":"%s","symbol":"NEW","decimals":6,"liquidity":500,"launchpad":"pump","dev":"dev1","audit":{"topHoldersPercentage":10}}]`, testMint(4))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	tokens, err := c.RecentTokens(context.Background())
	require.NoError(t, err)
	require.Len(t, tokens, 1)

	assert.Equal(t, "NEW", tokens[0].Symbol)
	require.NotNil(t, tokens[0].Liquidity)
	assert.Equal(t, 500.0, *tokens[0].Liquidity)
	require.NotNil(t, tokens[0].Audit.TopHoldersPercentage)
	assert.Equal(t, 10.0, *tokens[0].Audit.TopHoldersPercentage)
}

func TestGetQuotesContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"inAmount":"1","outAmount":"2","outputMint":"x","routePlan":[]}`)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := newTestClient(srv.URL, WithBatchPause(time.Minute))
	tokens := []domain.Token{
		{ID: testMint(1)}, {ID: testMint(2)}, {ID: testMint(3)},
		{ID: testMint(4)},
	}

	results := c.GetQuotes(ctx, domain.WSOLMint, 1, 50, tokens, domain.DirectionIn)
	require.Len(t, results, 4)
	// The trailing batch is marked failed instead of waiting out the pause.
	assert.Nil(t, results[3].Quote)
	assert.Equal(t, context.Canceled.Error(), results[3].Err)
}

func jsonDecode(r *http.Request, out any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(out)
}
