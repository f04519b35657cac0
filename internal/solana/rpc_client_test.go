package solana

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendTransaction(t *testing.T) {
	var gotReq rpcRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		fmt.Fprint(w, `{"jsonrpc":"2.0","id":1,"result":"txsig123"}`)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	sig, err := c.SendTransaction(context.Background(), "c2lnbmVk")
	require.NoError(t, err)

	assert.Equal(t, "txsig123", sig)
	assert.Equal(t, "sendTransaction", gotReq.Method)
	require.Len(t, gotReq.Params, 2)
	assert.Equal(t, "c2lnbmVk", gotReq.Params[0])

	opts := gotReq.Params[1].(map[string]interface{})
	assert.Equal(t, true, opts["skipPreflight"])
	assert.Equal(t, "base64", opts["encoding"])
}

func TestSendTransactionRPCErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, `{"jsonrpc":"2.0","id":1,"error":{"code":-32002,"message":"Blockhash not found"}}`)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, WithMaxRetries(5), WithRetryDelay(time.Millisecond))
	_, err := c.SendTransaction(context.Background(), "tx")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Blockhash not found")
	assert.Equal(t, int32(1), calls.Load())
}

func TestSendTransactionRetriesRateLimit(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `{"jsonrpc":"2.0","id":1,"result":"sig"}`)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, WithMaxRetries(3), WithRetryDelay(time.Millisecond))
	sig, err := c.SendTransaction(context.Background(), "tx")

	require.NoError(t, err)
	assert.Equal(t, "sig", sig)
	assert.Equal(t, int32(3), calls.Load())
}

func TestSendTransactionExhaustsRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, WithMaxRetries(1), WithRetryDelay(time.Millisecond))
	_, err := c.SendTransaction(context.Background(), "tx")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "max retries exceeded")
}
