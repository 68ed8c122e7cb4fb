// Package swap reconstructs normalized swap events from raw on-chain
// transactions. Reconstruction is stateless and per-transaction: a malformed
// transaction is skipped, never surfaced as an error.
package swap

import (
	"math"

	"github.com/gabrxgomes/ShadowStats/internal/domain"
	"github.com/gabrxgomes/ShadowStats/internal/registry"
)

// solPriceUSD is a fixed placeholder multiplier for SOL legs; there is no
// historical price oracle in this system.
const solPriceUSD = 100

// stablecoins are quote assets valued at face value.
var stablecoins = map[string]struct{}{
	"USDC": {},
	"USDT": {},
	"DAI":  {},
}

// LookupFunc resolves a mint to asset metadata.
type LookupFunc func(mint string) domain.AssetInfo

// Reconstructor turns raw transactions into swap events for one wallet at a
// time. Safe for concurrent use.
type Reconstructor struct {
	lookup LookupFunc
}

// NewReconstructor creates a Reconstructor backed by the static token registry.
func NewReconstructor() *Reconstructor {
	return &Reconstructor{lookup: registry.Lookup}
}

// WithLookup overrides the asset lookup, mainly for tests.
func (r *Reconstructor) WithLookup(lookup LookupFunc) *Reconstructor {
	r.lookup = lookup
	return r
}

// Reconstruct inspects one transaction and emits at most one swap event for
// the given wallet. It returns (nil, false) when the transaction is not a
// recognizable swap:
//   - no instruction targets a known DEX program,
//   - fewer than two token transfers involve the wallet,
//   - the wallet is not on both sides of the exchange.
//
// When several transfers qualify on a side, the first in transaction order is
// taken; a routed multi-hop swap collapses into a single two-party exchange.
func (r *Reconstructor) Reconstruct(tx domain.RawTransaction, wallet string) (*domain.SwapEvent, bool) {
	if !touchesExchange(tx.Instructions) {
		return nil, false
	}

	var relevant []domain.TokenTransfer
	for _, t := range tx.TokenTransfers {
		if t.FromUserAccount == wallet || t.ToUserAccount == wallet {
			relevant = append(relevant, t)
		}
	}
	if len(relevant) < 2 {
		return nil, false
	}

	var sent, received *domain.TokenTransfer
	for i := range relevant {
		if sent == nil && relevant[i].FromUserAccount == wallet {
			sent = &relevant[i]
		}
		if received == nil && relevant[i].ToUserAccount == wallet {
			received = &relevant[i]
		}
	}
	if sent == nil || received == nil {
		return nil, false
	}

	sentInfo := r.lookup(sent.Mint)
	receivedInfo := r.lookup(received.Mint)
	amountOut := scaleAmount(sent.Amount, sentInfo.Decimals)
	amountIn := scaleAmount(received.Amount, receivedInfo.Decimals)

	// Spending the quote asset (SOL or a stablecoin) is a buy, receiving it
	// is a sell. A pair with no quote leg cannot be priced: it stays a buy
	// with zero value rather than being dropped.
	side := domain.SwapSideBuy
	var valueUSD float64
	switch {
	case isQuoteAsset(sentInfo.Symbol):
		side = domain.SwapSideBuy
		valueUSD = quoteValueUSD(sentInfo.Symbol, amountOut)
	case isQuoteAsset(receivedInfo.Symbol):
		side = domain.SwapSideSell
		valueUSD = quoteValueUSD(receivedInfo.Symbol, amountIn)
	}

	return &domain.SwapEvent{
		Signature: tx.Signature,
		Timestamp: tx.Timestamp,
		Side:      side,
		TokenIn: domain.TokenAmount{
			Mint:     received.Mint,
			Symbol:   receivedInfo.Symbol,
			Amount:   amountIn,
			Decimals: receivedInfo.Decimals,
		},
		TokenOut: domain.TokenAmount{
			Mint:     sent.Mint,
			Symbol:   sentInfo.Symbol,
			Amount:   amountOut,
			Decimals: sentInfo.Decimals,
		},
		ValueUSD: valueUSD,
		DEX:      exchangeLabel(tx.Instructions),
	}, true
}

// touchesExchange reports whether any instruction targets a known DEX program.
func touchesExchange(instructions []domain.Instruction) bool {
	for _, ins := range instructions {
		if IsExchangeProgram(ins.ProgramID) {
			return true
		}
	}
	return false
}

// exchangeLabel scans the allow-list in priority order and returns the label
// of the first matching instruction.
func exchangeLabel(instructions []domain.Instruction) string {
	for _, e := range knownExchanges {
		for _, ins := range instructions {
			if ins.ProgramID == e.ProgramID {
				return e.Label
			}
		}
	}
	return "Unknown"
}

// scaleAmount converts raw base units to a decimal amount.
func scaleAmount(raw uint64, decimals int) float64 {
	return float64(raw) / math.Pow10(decimals)
}

func isQuoteAsset(symbol string) bool {
	if symbol == "SOL" {
		return true
	}
	_, ok := stablecoins[symbol]
	return ok
}

// quoteValueUSD prices a quote leg: stablecoins at face value, SOL at the
// fixed placeholder multiplier.
func quoteValueUSD(symbol string, amount float64) float64 {
	if _, ok := stablecoins[symbol]; ok {
		return amount
	}
	return amount * solPriceUSD
}
