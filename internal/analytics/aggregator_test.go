package analytics

import (
	"fmt"
	"math"
	"testing"

	"github.com/gabrxgomes/ShadowStats/internal/domain"
)

const (
	usdcMint   = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	tokenXMint = "Xmint1111111111111111111111111111111111111"
	solMint    = "So11111111111111111111111111111111111111112"
)

func buySwap(sig string, ts int64, acquiredMint, acquiredSymbol string, amount, valueUSD float64) domain.SwapEvent {
	return domain.SwapEvent{
		Signature: sig,
		Timestamp: ts,
		Side:      domain.SwapSideBuy,
		TokenIn:   domain.TokenAmount{Mint: acquiredMint, Symbol: acquiredSymbol, Amount: amount, Decimals: 9},
		TokenOut:  domain.TokenAmount{Mint: usdcMint, Symbol: "USDC", Amount: valueUSD, Decimals: 6},
		ValueUSD:  valueUSD,
		DEX:       "Jupiter",
	}
}

func sellSwap(sig string, ts int64, soldMint, soldSymbol string, amount, valueUSD float64) domain.SwapEvent {
	return domain.SwapEvent{
		Signature: sig,
		Timestamp: ts,
		Side:      domain.SwapSideSell,
		TokenIn:   domain.TokenAmount{Mint: usdcMint, Symbol: "USDC", Amount: valueUSD, Decimals: 6},
		TokenOut:  domain.TokenAmount{Mint: soldMint, Symbol: soldSymbol, Amount: amount, Decimals: 9},
		ValueUSD:  valueUSD,
		DEX:       "Jupiter",
	}
}

func TestAggregate_EmptyInput(t *testing.T) {
	snap := Aggregate(nil)

	if snap.TradeCount != 0 || snap.TotalVolume != 0 || snap.AvgTradeSize != 0 ||
		snap.WinRate != 0 || snap.ProfitLoss != 0 || snap.TradingDays != 0 {
		t.Errorf("zero snapshot has non-zero numerics: %+v", snap)
	}
	if len(snap.TopAssets) != 0 {
		t.Errorf("TopAssets = %v, want empty", snap.TopAssets)
	}
	if len(snap.RecentSwaps) != 0 {
		t.Errorf("RecentSwaps = %v, want empty", snap.RecentSwaps)
	}
}

func TestAggregate_EndToEndScenario(t *testing.T) {
	// Buy TokenX for $40, sell it for $50 ($10 realized gain against the
	// recorded basis), then a $90 buy of USDC with SOL.
	swaps := []domain.SwapEvent{
		buySwap("t1", 1700000000, tokenXMint, "TOKX", 4, 40),
		sellSwap("t2", 1700050000, tokenXMint, "TOKX", 4, 50),
		{
			Signature: "t3",
			Timestamp: 1700100000,
			Side:      domain.SwapSideBuy,
			TokenIn:   domain.TokenAmount{Mint: usdcMint, Symbol: "USDC", Amount: 90, Decimals: 6},
			TokenOut:  domain.TokenAmount{Mint: solMint, Symbol: "SOL", Amount: 0.9, Decimals: 9},
			ValueUSD:  90,
			DEX:       "Orca",
		},
	}

	snap := Aggregate(swaps)

	if snap.TradeCount != 3 {
		t.Errorf("TradeCount = %d, want 3", snap.TradeCount)
	}
	if snap.TotalVolume != 180 {
		t.Errorf("TotalVolume = %v, want 180", snap.TotalVolume)
	}
	if math.Abs(snap.ProfitLoss-10) > 1e-9 {
		t.Errorf("ProfitLoss = %v, want 10", snap.ProfitLoss)
	}
	if snap.AvgTradeSize != 60 {
		t.Errorf("AvgTradeSize = %v, want 60", snap.AvgTradeSize)
	}
	if len(snap.TopAssets) == 0 || snap.TopAssets[0].Symbol != "TOKX" {
		t.Errorf("TopAssets[0] = %+v, want TOKX first (tie broken by first-seen)", snap.TopAssets)
	}
	if snap.TopAssets[0].Trades != 2 {
		t.Errorf("TopAssets[0].Trades = %d, want 2", snap.TopAssets[0].Trades)
	}
	if snap.FirstTradeTime != 1700000000 || snap.LastTradeTime != 1700100000 {
		t.Errorf("trade bounds = [%d, %d], want [1700000000, 1700100000]",
			snap.FirstTradeTime, snap.LastTradeTime)
	}
	// 100000 seconds spans two calendar days, rounded up.
	if snap.TradingDays != 2 {
		t.Errorf("TradingDays = %d, want 2", snap.TradingDays)
	}
}

func TestAggregate_SingleTradeHasOneTradingDay(t *testing.T) {
	snap := Aggregate([]domain.SwapEvent{
		buySwap("only", 1700000000, tokenXMint, "TOKX", 1, 25),
	})
	if snap.TradingDays != 1 {
		t.Errorf("TradingDays = %d, want 1", snap.TradingDays)
	}
}

func TestAggregate_WinRatePlaceholder(t *testing.T) {
	tests := []struct {
		trades int
		want   float64
	}{
		{1, 0},
		{3, 100.0 / 3},
		{5, 60},
		{10, 60},
	}

	for _, tt := range tests {
		var swaps []domain.SwapEvent
		for i := 0; i < tt.trades; i++ {
			swaps = append(swaps, buySwap(fmt.Sprintf("s%d", i), int64(1700000000+i), tokenXMint, "TOKX", 1, 10))
		}
		snap := Aggregate(swaps)
		if math.Abs(snap.WinRate-tt.want) > 1e-9 {
			t.Errorf("WinRate(%d trades) = %v, want %v", tt.trades, snap.WinRate, tt.want)
		}
	}
}

func TestAggregate_SellWithoutPositionIsNoOp(t *testing.T) {
	snap := Aggregate([]domain.SwapEvent{
		sellSwap("orphan", 1700000000, tokenXMint, "TOKX", 10, 500),
	})
	if snap.ProfitLoss != 0 {
		t.Errorf("ProfitLoss = %v, want 0 for untracked sell", snap.ProfitLoss)
	}
}

func TestAggregate_OversellCapsAtPosition(t *testing.T) {
	// Buy 2 TokenX for $20, then sell 10 for $100. Only the tracked basis
	// is matched: realized = 100 - 20.
	snap := Aggregate([]domain.SwapEvent{
		buySwap("b", 1700000000, tokenXMint, "TOKX", 2, 20),
		sellSwap("s", 1700000100, tokenXMint, "TOKX", 10, 100),
	})
	if math.Abs(snap.ProfitLoss-80) > 1e-9 {
		t.Errorf("ProfitLoss = %v, want 80", snap.ProfitLoss)
	}
}

func TestAggregate_PartialSellMatchesProportionalBasis(t *testing.T) {
	// Buy 10 TokenX for $100, sell 5 for $80: matched cost $50, gain $30.
	snap := Aggregate([]domain.SwapEvent{
		buySwap("b", 1700000000, tokenXMint, "TOKX", 10, 100),
		sellSwap("s", 1700000100, tokenXMint, "TOKX", 5, 80),
	})
	if math.Abs(snap.ProfitLoss-30) > 1e-9 {
		t.Errorf("ProfitLoss = %v, want 30", snap.ProfitLoss)
	}
}

func TestAggregate_TopAssetsBoundAndOrdering(t *testing.T) {
	var swaps []domain.SwapEvent
	// Eight distinct assets with strictly increasing volume.
	for i := 0; i < 8; i++ {
		mint := fmt.Sprintf("Mint%d11111111111111111111111111111111111", i)
		sym := fmt.Sprintf("TK%d", i)
		swaps = append(swaps, buySwap(fmt.Sprintf("sig%d", i), int64(1700000000+i), mint, sym, 1, float64((i+1)*10)))
	}

	snap := Aggregate(swaps)

	if len(snap.TopAssets) != 5 {
		t.Fatalf("len(TopAssets) = %d, want 5", len(snap.TopAssets))
	}
	for i := 1; i < len(snap.TopAssets); i++ {
		if snap.TopAssets[i].Volume > snap.TopAssets[i-1].Volume {
			t.Errorf("TopAssets not non-increasing at %d: %v", i, snap.TopAssets)
		}
	}
	if snap.TopAssets[0].Symbol != "TK7" {
		t.Errorf("TopAssets[0].Symbol = %s, want TK7", snap.TopAssets[0].Symbol)
	}
}

func TestAggregate_RecentSwapsNewestFirstCapped(t *testing.T) {
	var swaps []domain.SwapEvent
	for i := 0; i < 15; i++ {
		swaps = append(swaps, buySwap(fmt.Sprintf("sig%02d", i), int64(1700000000+i*60), tokenXMint, "TOKX", 1, 10))
	}

	snap := Aggregate(swaps)

	if len(snap.RecentSwaps) != 10 {
		t.Fatalf("len(RecentSwaps) = %d, want 10", len(snap.RecentSwaps))
	}
	if snap.RecentSwaps[0].Signature != "sig14" {
		t.Errorf("RecentSwaps[0] = %s, want sig14 (newest)", snap.RecentSwaps[0].Signature)
	}
	if snap.RecentSwaps[9].Signature != "sig05" {
		t.Errorf("RecentSwaps[9] = %s, want sig05", snap.RecentSwaps[9].Signature)
	}
}

func TestAggregate_UnsortedInputHandled(t *testing.T) {
	// Sell arrives before buy in slice order but after it chronologically.
	snap := Aggregate([]domain.SwapEvent{
		sellSwap("s", 1700000100, tokenXMint, "TOKX", 5, 80),
		buySwap("b", 1700000000, tokenXMint, "TOKX", 10, 100),
	})
	if math.Abs(snap.ProfitLoss-30) > 1e-9 {
		t.Errorf("ProfitLoss = %v, want 30 after chronological resort", snap.ProfitLoss)
	}
	if snap.FirstTradeTime != 1700000000 {
		t.Errorf("FirstTradeTime = %d, want 1700000000", snap.FirstTradeTime)
	}
}
