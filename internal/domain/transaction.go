package domain

// RawTransaction is an enriched on-chain transaction as returned by the
// history provider. Owned by the caller; the analysis pipeline only reads it.
type RawTransaction struct {
	Signature      string          `json:"signature"`
	Timestamp      int64           `json:"timestamp"` // Unix seconds
	Instructions   []Instruction   `json:"instructions"`
	TokenTransfers []TokenTransfer `json:"tokenTransfers"`
}

// Instruction is a single program invocation within a transaction.
type Instruction struct {
	ProgramID string   `json:"programId"`
	Accounts  []string `json:"accounts"`
}

// TokenTransfer is a token movement between two user accounts.
// Amount is in raw base units; scaling by the mint's decimals happens
// during swap reconstruction.
type TokenTransfer struct {
	FromUserAccount string `json:"fromUserAccount"`
	ToUserAccount   string `json:"toUserAccount"`
	Amount          uint64 `json:"tokenAmount"`
	Mint            string `json:"mint"`
}

// AssetInfo is static metadata for a token mint.
type AssetInfo struct {
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
	Name     string `json:"name"`
}
