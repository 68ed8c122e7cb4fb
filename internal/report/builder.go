// Package report builds and verifies privacy-obfuscated, commitment-hashed
// trading reports. Disclosed numbers are published as [min,max] ranges;
// hidden numbers collapse to the zero range, which on the wire also means
// "not disclosed".
package report

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/gabrxgomes/ShadowStats/internal/domain"
)

const (
	// DefaultRangeVariation is the obfuscation width applied when the policy
	// does not set one.
	DefaultRangeVariation = 5.0

	// DefaultExpiryDays is the expiration horizon applied when the policy
	// does not set one.
	DefaultExpiryDays = 30

	reportIDBytes = 16
)

// Builder projects analytics snapshots into committed reports.
type Builder struct {
	now func() time.Time
}

// NewBuilder creates a Builder using the wall clock.
func NewBuilder() *Builder {
	return &Builder{now: func() time.Time { return time.Now().UTC() }}
}

// WithClock sets a custom clock, for deterministic output in tests.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// Build creates a committed report from a snapshot under the given disclosure
// policy. The clock is read exactly once; everything the commitment covers is
// fixed at that instant. Identity enters the report only when the policy
// reveals it — omitted entirely otherwise, so serialization cannot leak it.
func (b *Builder) Build(snapshot domain.AnalyticsSnapshot, policy domain.DisclosurePolicy, identity string) (*domain.Report, error) {
	id, err := newReportID()
	if err != nil {
		return nil, fmt.Errorf("generate report id: %w", err)
	}

	now := b.now()

	expiresInDays := policy.ExpiresInDays
	if expiresInDays <= 0 {
		expiresInDays = DefaultExpiryDays
	}
	expiresAt := now.Add(time.Duration(expiresInDays) * 24 * time.Hour)

	r := &domain.Report{
		Metadata: domain.ReportMetadata{
			ID:          id,
			Title:       policy.Title,
			Description: policy.Description,
			GeneratedAt: now,
			ExpiresAt:   &expiresAt,
			Version:     domain.ReportVersion,
		},
		Stats: buildStats(snapshot, policy, now),
		Privacy: domain.ReportPrivacy{
			IdentityRevealed: policy.RevealIdentity,
		},
	}
	if policy.RevealIdentity {
		r.Privacy.Identity = identity
	}

	// Two-phase construction: the report is assembled with an empty
	// commitment, hashed, and the digest written back.
	commitment, err := Commitment(r)
	if err != nil {
		return nil, err
	}
	r.Proof.Commitment = commitment

	return r, nil
}

// buildStats applies the disclosure policy to the snapshot.
func buildStats(snapshot domain.AnalyticsSnapshot, policy domain.DisclosurePolicy, now time.Time) domain.ReportStats {
	variation := policy.RangeVariation
	if variation <= 0 {
		variation = DefaultRangeVariation
	}

	stats := domain.ReportStats{
		TradingDays:       snapshot.TradingDays,
		AvgTradeSizeRange: valueRange(snapshot.AvgTradeSize, variation),
		TopAssets:         []domain.TopAssetEntry{},
		// Period bounds are derived from the trading-day span, not copied
		// from the snapshot's trade timestamps.
		PeriodStart: now.Add(-time.Duration(snapshot.TradingDays) * 24 * time.Hour),
		PeriodEnd:   now,
	}

	if policy.IncludeVolume {
		stats.TotalVolumeRange = valueRange(snapshot.TotalVolume, variation)
	}
	if policy.IncludeTradeCount {
		stats.TradeCountRange = valueRange(float64(snapshot.TradeCount), variation)
	}
	if policy.IncludeWinRate {
		stats.WinRate = snapshot.WinRate
	}
	if policy.IncludeProfitLoss {
		stats.ProfitLossRange = valueRange(snapshot.ProfitLoss, variation)
	}
	if policy.IncludeTopAssets {
		limit := len(snapshot.TopAssets)
		if limit > 5 {
			limit = 5
		}
		for _, asset := range snapshot.TopAssets[:limit] {
			stats.TopAssets = append(stats.TopAssets, domain.TopAssetEntry{
				Symbol: asset.Symbol,
				Trades: asset.Trades,
			})
		}
	}

	return stats
}

// valueRange obfuscates a value as [max(0, v-d), v+d] with d = v*variation/100.
func valueRange(value, variationPercent float64) domain.ValueRange {
	delta := value * variationPercent / 100
	min := value - delta
	if min < 0 {
		min = 0
	}
	return domain.ValueRange{Min: min, Max: value + delta}
}

// newReportID returns a random 32-character hex identifier.
func newReportID() (string, error) {
	buf := make([]byte, reportIDBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
