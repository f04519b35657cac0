package domain

import (
	"encoding/json"
	"strconv"
)

// Direction selects which side of a quote request carries the candidate
// token: IN spends the base asset to acquire the candidate, OUT liquidates
// the candidate back into the base asset.
type Direction string

const (
	DirectionIn  Direction = "IN"
	DirectionOut Direction = "OUT"
)

// SwapInfo is the fee breakdown of one route step.
type SwapInfo struct {
	FeeAmount Uint64String `json:"feeAmount"`
	FeeMint   string       `json:"feeMint"`
}

// RoutePlanStep is one hop of a priced route.
type RoutePlanStep struct {
	SwapInfo SwapInfo `json:"swapInfo"`
}

// Quote is a priced route for converting an input amount into an output
// amount. Transient: produced by the quote client, consumed immediately by
// execution or fee calculation, never persisted. Raw keeps the upstream
// payload byte-for-byte because the execution endpoint wants it echoed back.
type Quote struct {
	InAmount   Uint64String    `json:"inAmount"`
	OutAmount  Uint64String    `json:"outAmount"`
	OutputMint string          `json:"outputMint"`
	RoutePlan  []RoutePlanStep `json:"routePlan"`
	Raw        json.RawMessage `json:"-"`
}

// QuotedToken pairs a candidate token with its quote result. Quote is nil
// when the candidate failed validation or the upstream call failed; Err
// carries the reason.
type QuotedToken struct {
	Token Token
	Quote *Quote
	Err   string
}

// Uint64String decodes a base-unit amount that upstream serializes either
// as a JSON string or as a bare number.
type Uint64String uint64

func (u *Uint64String) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "" || s == "null" {
		*u = 0
		return nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return err
	}
	*u = Uint64String(v)
	return nil
}

func (u Uint64String) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatUint(uint64(u), 10)), nil
}
