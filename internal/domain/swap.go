package domain

// Swap side constants
const (
	SwapSideBuy  = "buy"
	SwapSideSell = "sell"
)

// TokenAmount is one leg of a swap, with the amount already scaled by the
// mint's decimals.
type TokenAmount struct {
	Mint     string  `json:"mint"`
	Symbol   string  `json:"symbol"`
	Amount   float64 `json:"amount"`
	Decimals int     `json:"decimals"`
}

// SwapEvent is a normalized swap reconstructed from one raw transaction.
// The transaction signature is its natural key: at most one SwapEvent exists
// per signature. Immutable once emitted.
//
// TokenIn is what the wallet received, TokenOut what it sent. ValueUSD is a
// cost estimate, not an oracle price (stablecoin legs at face value, SOL legs
// at a fixed placeholder multiplier).
type SwapEvent struct {
	Signature string      `json:"signature"`
	Timestamp int64       `json:"timestamp"` // Unix seconds
	Side      string      `json:"type"`      // "buy" | "sell"
	TokenIn   TokenAmount `json:"tokenIn"`
	TokenOut  TokenAmount `json:"tokenOut"`
	ValueUSD  float64     `json:"valueUsd"`
	DEX       string      `json:"dex"`
}
