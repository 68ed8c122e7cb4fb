// Package registry maps token mint addresses to static asset metadata.
// Lookup is pure and total: commitments depend on it transitively, so it must
// behave identically across processes.
package registry

import (
	"strings"

	"github.com/gabrxgomes/ShadowStats/internal/domain"
)

// Well-known mint addresses.
const (
	SOLMint  = "So11111111111111111111111111111111111111112"
	USDCMint = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	USDTMint = "Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB"
	MSOLMint = "mSoLzYCxHdYgdzU16g5QSh3i5K3z3KZK7ytfqcJm7So"
	JUPMint  = "JUPyiwrYJFskUPiHa7hkeR8VUtAeFoSYbKedZNsDvCN"
)

// fallbackDecimals is assumed for unmapped mints.
const fallbackDecimals = 9

var knownAssets = map[string]domain.AssetInfo{
	SOLMint:  {Symbol: "SOL", Decimals: 9, Name: "Solana"},
	USDCMint: {Symbol: "USDC", Decimals: 6, Name: "USD Coin"},
	USDTMint: {Symbol: "USDT", Decimals: 6, Name: "Tether USD"},
	MSOLMint: {Symbol: "mSOL", Decimals: 9, Name: "Marinade SOL"},
	JUPMint:  {Symbol: "JUP", Decimals: 6, Name: "Jupiter"},
}

// Lookup resolves a mint to its asset metadata. Unknown mints get a
// synthesized symbol (first 4 characters, uppercased) so the result is
// reproducible without any external metadata service.
func Lookup(mint string) domain.AssetInfo {
	if info, ok := knownAssets[mint]; ok {
		return info
	}

	symbol := mint
	if len(symbol) > 4 {
		symbol = symbol[:4]
	}
	return domain.AssetInfo{
		Symbol:   strings.ToUpper(symbol),
		Decimals: fallbackDecimals,
		Name:     "Unknown Token",
	}
}
