// Package analytics aggregates swap events into a performance snapshot.
// All computation is pure and deterministic; callers own the input slice.
package analytics

import (
	"math"
	"sort"

	"github.com/gabrxgomes/ShadowStats/internal/domain"
)

const (
	secondsPerDay = 86400

	// topAssetLimit bounds the ranked asset list.
	topAssetLimit = 5

	// recentSwapLimit bounds the display trail of most recent swaps.
	recentSwapLimit = 10

	// winRateEstimate is a placeholder ratio. There is no per-trade pricing
	// oracle, so the win rate is a stand-in, not a measured figure.
	winRateEstimate = 0.6
)

// Aggregate computes a snapshot over a swap collection. An empty input yields
// the zero snapshot: every numeric field zero, TopAssets and RecentSwaps empty.
func Aggregate(swaps []domain.SwapEvent) domain.AnalyticsSnapshot {
	if len(swaps) == 0 {
		return domain.AnalyticsSnapshot{
			TopAssets:   []domain.AssetStat{},
			RecentSwaps: []domain.SwapEvent{},
		}
	}

	// Sort a working copy chronologically. Stable sort keeps the relative
	// order of same-timestamp swaps, which the top-asset tie-break and the
	// cost-basis walk both rely on.
	sorted := make([]domain.SwapEvent, len(swaps))
	copy(sorted, swaps)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp < sorted[j].Timestamp
	})

	tradeCount := len(sorted)
	var totalVolume float64
	for _, s := range sorted {
		totalVolume += s.ValueUSD
	}

	first := sorted[0].Timestamp
	last := sorted[tradeCount-1].Timestamp
	tradingDays := int(math.Ceil(float64(last-first) / secondsPerDay))
	if tradingDays < 1 {
		tradingDays = 1
	}

	return domain.AnalyticsSnapshot{
		TotalVolume:    totalVolume,
		TradeCount:     tradeCount,
		WinRate:        estimateWinRate(tradeCount),
		AvgTradeSize:   totalVolume / float64(tradeCount),
		ProfitLoss:     computeProfitLoss(sorted),
		TopAssets:      computeTopAssets(sorted),
		TradingDays:    tradingDays,
		FirstTradeTime: first,
		LastTradeTime:  last,
		RecentSwaps:    recentSwaps(sorted),
	}
}

// estimateWinRate returns the placeholder win rate in percent.
func estimateWinRate(trades int) float64 {
	if trades == 0 {
		return 0
	}
	estimatedWins := math.Floor(float64(trades) * winRateEstimate)
	return estimatedWins / float64(trades) * 100
}

// position tracks a running per-mint holding.
type position struct {
	amount    float64
	costBasis float64
}

// computeProfitLoss realizes P&L with a weighted-average cost basis. Swaps
// must be in chronological order. A buy accumulates the received asset's
// position; a sell realizes valueUsd minus the proportional cost of the
// liquidated fraction. Selling without a tracked position (or beyond it) is a
// no-op for the untracked portion rather than an error.
func computeProfitLoss(swaps []domain.SwapEvent) float64 {
	positions := make(map[string]*position)
	var pnl float64

	for _, s := range swaps {
		if s.Side == domain.SwapSideBuy {
			p := positions[s.TokenIn.Mint]
			if p == nil {
				p = &position{}
				positions[s.TokenIn.Mint] = p
			}
			p.amount += s.TokenIn.Amount
			p.costBasis += s.ValueUSD
			continue
		}

		p := positions[s.TokenOut.Mint]
		if p == nil || p.amount <= 0 {
			continue
		}
		ratio := s.TokenOut.Amount / p.amount
		if ratio > 1 {
			ratio = 1
		}
		matched := p.costBasis * ratio
		pnl += s.ValueUSD - matched
		p.amount -= s.TokenOut.Amount
		if p.amount < 0 {
			p.amount = 0
		}
		p.costBasis -= matched
	}

	return pnl
}

// computeTopAssets groups swaps by the acquired asset (TokenIn on a buy,
// TokenOut on a sell), sums volume and trade count per mint, and returns the
// top entries by volume. Ties keep first-encounter order.
func computeTopAssets(swaps []domain.SwapEvent) []domain.AssetStat {
	index := make(map[string]int)
	stats := make([]domain.AssetStat, 0)

	for _, s := range swaps {
		leg := s.TokenIn
		if s.Side == domain.SwapSideSell {
			leg = s.TokenOut
		}
		i, ok := index[leg.Mint]
		if !ok {
			i = len(stats)
			index[leg.Mint] = i
			stats = append(stats, domain.AssetStat{Mint: leg.Mint, Symbol: leg.Symbol})
		}
		stats[i].Volume += s.ValueUSD
		stats[i].Trades++
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Volume > stats[j].Volume
	})
	if len(stats) > topAssetLimit {
		stats = stats[:topAssetLimit]
	}
	return stats
}

// recentSwaps returns the most recent swaps, newest first.
func recentSwaps(sorted []domain.SwapEvent) []domain.SwapEvent {
	n := len(sorted)
	limit := recentSwapLimit
	if n < limit {
		limit = n
	}
	recent := make([]domain.SwapEvent, limit)
	for i := 0; i < limit; i++ {
		recent[i] = sorted[n-1-i]
	}
	return recent
}
