package jupiter

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the client.
var (
	// ErrRetriesExhausted means sustained rate limiting outlasted the
	// configured retry budget.
	ErrRetriesExhausted = errors.New("max retries reached")

	// ErrInvalidTokenID marks a candidate whose mint address failed
	// validation before any network call was made.
	ErrInvalidTokenID = errors.New("invalid token id")

	// ErrNoSwapTransaction means the execution endpoint answered without a
	// signable transaction payload.
	ErrNoSwapTransaction = errors.New("no swap transaction in response")
)

// UpstreamError is a non-retryable upstream failure: any non-success status
// other than a rate limit.
type UpstreamError struct {
	Tag    string // which API produced it (Quote, Swap, RecentToken)
	Status int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s API error: status %d", e.Tag, e.Status)
}
